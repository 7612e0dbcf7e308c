package handlers

import (
	"gorm.io/gorm"

	"github.com/bookado/attendant/internal/attendant"
	"github.com/bookado/attendant/internal/billing"
	"github.com/bookado/attendant/internal/config"
	"github.com/bookado/attendant/internal/store/rabbitmq"
	"github.com/bookado/attendant/internal/store/redisstore"
)

type Handler struct {
	DB     *gorm.DB
	Cfg    config.Config
	Redis  *redisstore.Store
	Repo   *attendant.Repo
	Meter  *billing.Meter
	Rabbit *rabbitmq.Publisher
}

func NewHandler(db *gorm.DB, cfg config.Config, r *redisstore.Store, pub *rabbitmq.Publisher) *Handler {
	return &Handler{
		DB:     db,
		Cfg:    cfg,
		Redis:  r,
		Repo:   attendant.NewRepo(db),
		Meter:  billing.NewMeter(billing.NewRepo(db)),
		Rabbit: pub,
	}
}
