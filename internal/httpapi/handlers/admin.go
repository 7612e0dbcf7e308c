package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookado/attendant/internal/common"
)

// TenantUsage reports the tenant's credit position for the current month.
func (h *Handler) TenantUsage(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid tenant id")
		return
	}

	limit, unlimited, err := h.Meter.MonthlyLimit(c.Request.Context(), tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "tenant not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	used, err := h.Meter.MonthlyUsage(c.Request.Context(), tenantID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	remaining := int64(limit) - used
	if unlimited || remaining < 0 {
		remaining = 0
	}

	common.OK(c, gin.H{
		"tenant_id": tenantID,
		"limit":     limit,
		"unlimited": unlimited,
		"used":      used,
		"remaining": remaining,
	})
}

// ActiveConversations lists session keys currently held in the cache layer.
func (h *Handler) ActiveConversations(c *gin.Context) {
	keys, err := h.Redis.Keys(c.Request.Context(), "*-session")
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50003, "cache error")
		return
	}
	common.OK(c, gin.H{"sessions": keys})
}

func (h *Handler) GetTurnJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "job_id required")
		return
	}

	j, err := h.Repo.GetTurnJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "job not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	common.OK(c, gin.H{
		"job": gin.H{
			"id":         j.ID,
			"instance":   j.InstanceName,
			"remote_jid": j.RemoteJID,
			"status":     j.Status,
			"error":      j.Error,
			"created_at": j.CreatedAt,
			"updated_at": j.UpdatedAt,
		},
	})
}
