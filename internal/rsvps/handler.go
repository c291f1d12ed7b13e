package rsvps

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evently/backend/internal/middleware"
	"github.com/evently/backend/internal/models"
	"github.com/evently/backend/pkg/response"
)

// Handler handles RSVP HTTP endpoints.
type Handler struct {
	service *Service
	repo    *Repository
	logger  *zap.Logger
}

// NewHandler creates an RSVP handler.
func NewHandler(service *Service, repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, repo: repo, logger: logger}
}

// Register handles POST /events/:id/rsvp.
func (h *Handler) Register(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	rsvp, err := h.service.Register(c.Request.Context(), eventID, userID)
	switch {
	case errors.Is(err, ErrEventNotFound):
		response.NotFound(c, "event not found")
	case errors.Is(err, ErrEventInPast):
		response.BadRequest(c, "cannot RSVP to past events")
	case errors.Is(err, ErrCapacityExceeded):
		response.BadRequest(c, "event is at full capacity")
	case errors.Is(err, ErrAlreadyRegistered):
		response.BadRequest(c, "you have already registered for this event")
	case err != nil:
		h.logger.Error("register failed", zap.Error(err),
			zap.String("event_id", eventID.String()), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to register for event")
	default:
		response.OK(c, gin.H{"message": "successfully registered for event", "rsvp": rsvp})
	}
}

// Cancel handles DELETE /events/:id/rsvp.
func (h *Handler) Cancel(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "RSVP not found")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	err = h.service.Cancel(c.Request.Context(), eventID, userID)
	switch {
	case errors.Is(err, ErrNotRegistered):
		response.NotFound(c, "RSVP not found")
	case err != nil:
		h.logger.Error("cancel failed", zap.Error(err),
			zap.String("event_id", eventID.String()), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to cancel registration")
	default:
		response.OK(c, gin.H{"message": "successfully cancelled registration"})
	}
}

// ListMine handles GET /user/registrations.
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	list, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to fetch registrations")
		return
	}
	if list == nil {
		list = []models.Registration{}
	}
	response.OK(c, gin.H{"registrations": list})
}
