package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookado/attendant/internal/common"
	"github.com/bookado/attendant/internal/config"
	"github.com/bookado/attendant/internal/httpapi/handlers"
	"github.com/bookado/attendant/internal/httpapi/middleware"
	"github.com/bookado/attendant/internal/store/rabbitmq"
	"github.com/bookado/attendant/internal/store/redisstore"
)

func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store, pub *rabbitmq.Publisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	h := handlers.NewHandler(db, cfg, rds, pub)

	r.GET("/ping", h.Ping)

	// gateway webhook (apikey per instance)
	r.POST("/webhook/:instance", h.InboundWebhook)

	// ops surface (JWT required)
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret))
	admin.GET("/tenants/:id/usage", h.TenantUsage)
	admin.GET("/conversations", h.ActiveConversations)
	admin.GET("/turns/:job_id", h.GetTurnJob)

	return r
}
