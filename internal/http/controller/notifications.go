package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"ntf/internal/config"
	"ntf/internal/domain"
	"ntf/internal/http/dto"
	"ntf/internal/http/resp"
	"ntf/internal/model"
	"ntf/internal/queue"
	"ntf/internal/service/notify"
	"ntf/internal/sse"
)

type Handler struct {
	cfg *config.Config
	svc *notify.Service
	hub *sse.Hub
	log *zap.Logger
	pub queue.Publisher
}

func NewHandler(cfg *config.Config, svc *notify.Service, hub *sse.Hub, logger *zap.Logger, publisher queue.Publisher) *Handler {
	return &Handler{cfg: cfg, svc: svc, hub: hub, log: logger, pub: publisher}
}

func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ServiceStatus{Status: "ok"})
}

func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Error("list notifications failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.CreatePayloadError(payloadDetail(err)))
		return
	}
	created, err := h.svc.Create(c.Request.Context(), *req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrMessageTooLong) {
			c.JSON(http.StatusBadRequest, dto.CreatePayloadError(err.Error()))
			return
		}
		h.log.Error("create notification failed", zap.Int("message_length", len(*req.Message)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to create notification"})
		return
	}
	c.JSON(http.StatusCreated, dto.CreateOK(created))
}

func (h *Handler) GetNotification(c *gin.Context) {
	id, ok := h.resourceID(c)
	if !ok {
		return
	}
	notification, err := h.svc.Get(c.Request.Context(), id)
	h.writeResource(c, "get", id, notification, err)
}

func (h *Handler) AcknowledgeNotification(c *gin.Context) {
	id, ok := h.resourceID(c)
	if !ok {
		return
	}
	notification, err := h.svc.Acknowledge(c.Request.Context(), id)
	h.writeResource(c, "acknowledge", id, notification, err)
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	id, ok := h.resourceID(c)
	if !ok {
		return
	}
	notification, err := h.svc.Delete(c.Request.Context(), id)
	h.writeResource(c, "delete", id, notification, err)
}

// PublishNotification queues a create command on the broker instead of
// writing to the store directly.
func (h *Handler) PublishNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.CreatePayloadError(payloadDetail(err)))
		return
	}
	if err := domain.ValidateMessage(*req.Message, h.cfg.MaxMessageLength); err != nil {
		c.JSON(http.StatusBadRequest, dto.CreatePayloadError(err.Error()))
		return
	}

	payload, err := json.Marshal(queue.CreateCommand{Message: req.Message})
	if err != nil {
		h.log.Error("publish payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	if err := h.pub.Publish(c.Request.Context(), payload, h.cfg.RabbitCommandKey); err != nil {
		h.log.Error("publish notification failed",
			zap.String("routing_key", h.cfg.RabbitCommandKey),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: "queued"})
}

// Stream sends lifecycle events as Server-Sent Events until the client goes
// away. With ?backfill=true the current notifications are sent first as
// created events. The client is registered before the response starts, so an
// event racing the backfill can arrive twice with the same id.
func (h *Handler) Stream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	client := sse.NewClient(16)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	if backfill, _ := strconv.ParseBool(c.Query("backfill")); backfill {
		current, err := h.svc.List(c.Request.Context())
		if err != nil {
			h.log.Error("list backfill failed", zap.Error(err))
		} else {
			for _, notification := range current {
				if err := writeEvent(c.Writer, model.Event{Type: domain.EventCreated, Notification: notification}); err != nil {
					h.log.Error("write backfill event failed", zap.Error(err))
					return
				}
			}
			flusher.Flush()
		}
	}

	heartbeat := time.NewTicker(h.cfg.SSEHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-h.hub.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Error("heartbeat write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case event, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeEvent(c.Writer, event); err != nil {
				h.log.Error("write event failed", zap.String("type", event.Type), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handler) resourceID(c *gin.Context) (uint64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: fmt.Sprintf("invalid notification id %q", raw)})
		return 0, false
	}
	return id, true
}

func (h *Handler) writeResource(c *gin.Context, operation string, id uint64, notification model.Notification, err error) {
	if err == nil {
		c.JSON(http.StatusOK, dto.NotificationOK(notification))
		return
	}
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, dto.NotificationNotFound(notFound.ID))
		return
	}
	h.log.Error(operation+" notification failed", zap.Uint64("id", id), zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to " + operation + " notification"})
}

// payloadDetail renders a bind failure as a short client-facing message.
func payloadDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			field := strings.ToLower(fe.Field())
			if fe.Tag() == "required" {
				parts = append(parts, "missing field `"+field+"`")
				continue
			}
			parts = append(parts, "field `"+field+"` failed on "+fe.Tag())
		}
		return strings.Join(parts, "; ")
	}
	return "invalid json: " + err.Error()
}

func writeEvent(w http.ResponseWriter, event model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.Notification.ID, event.Type, payload)
	return err
}
