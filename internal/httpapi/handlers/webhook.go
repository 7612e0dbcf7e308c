package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bookado/attendant/internal/attendant"
	"github.com/bookado/attendant/internal/auth"
	"github.com/bookado/attendant/internal/common"
	"github.com/bookado/attendant/internal/models"
	"github.com/bookado/attendant/internal/wa"
)

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

// InboundWebhook receives one gateway message event, verifies the instance
// apikey and enqueues a turn job for the worker.
func (h *Handler) InboundWebhook(c *gin.Context) {
	instanceName := c.Param("instance")

	instance, err := h.Repo.GetInstanceByName(c.Request.Context(), instanceName)
	if err != nil {
		if errors.Is(err, attendant.ErrUnknownInstance) {
			common.Fail(c, http.StatusNotFound, 40410, "instance not found")
			return
		}
		log.Error().Err(err).Str("instance", instanceName).Msg("instance lookup failed")
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	apikey := strings.TrimSpace(c.GetHeader("apikey"))
	if apikey == "" || !auth.CheckToken(instance.TokenHash, apikey) {
		common.Fail(c, http.StatusUnauthorized, 40110, "invalid apikey")
		return
	}

	var event wa.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	text := strings.TrimSpace(event.Text())
	if event.Data.Key.RemoteJID == "" || (text == "" && !event.Data.Key.FromMe) {
		// Status updates, media without captions and the like.
		common.OK(c, gin.H{"queued": false})
		return
	}

	jobID, err := common.NewULID()
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	job := &models.TurnJob{
		ID:           jobID,
		InstanceName: instanceName,
		RemoteJID:    event.Data.Key.RemoteJID,
		FromMe:       event.Data.Key.FromMe,
		Body:         text,
		Status:       models.TurnQueued,
	}
	if err := h.Repo.CreateTurnJob(c.Request.Context(), job); err != nil {
		log.Error().Err(err).Str("instance", instanceName).Msg("turn job create failed")
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	if err := h.Rabbit.PublishTurn(c.Request.Context(), job.ID); err != nil {
		log.Error().Err(err).Str("job", job.ID).Msg("turn publish failed")
		common.Fail(c, http.StatusInternalServerError, 50002, "enqueue failed")
		return
	}

	common.OK(c, gin.H{"queued": true, "job_id": job.ID})
}
