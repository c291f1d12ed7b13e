package events

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evently/backend/internal/middleware"
	"github.com/evently/backend/internal/models"
	"github.com/evently/backend/pkg/response"
)

// parseDate accepts RFC3339 timestamps or plain calendar dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"required,max=2000"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Location    string `json:"location" binding:"required,max=200"`
	Capacity    *int   `json:"capacity" binding:"omitempty,min=1"`
	IsPublic    *bool  `json:"isPublic"` // defaults to true
}

// UpdateRequest is the body for PUT /events/:id. All fields optional;
// only whitelisted fields can change.
type UpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,min=1,max=2000"`
	Date        *string `json:"date"`
	Time        *string `json:"time" binding:"omitempty,min=1"`
	Location    *string `json:"location" binding:"omitempty,min=1,max=200"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=1"`
	IsPublic    *bool   `json:"isPublic"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an event handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /events. The filter query param selects the view;
// anonymous callers are allowed and see a narrower result.
func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{Name: c.Query("filter")}
	if uid, ok := middleware.CurrentUserID(c); ok {
		filter.RequesterID = &uid
	}

	list, err := h.repo.List(c.Request.Context(), filter, time.Now())
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "failed to fetch events")
		return
	}
	if list == nil {
		list = []models.Event{}
	}
	response.OK(c, gin.H{"events": list})
}

// Create handles POST /events (organizers only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		response.BadRequest(c, "invalid date")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	e := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Time:        req.Time,
		Location:    req.Location,
		OrganizerID: userID,
		Capacity:    req.Capacity,
		IsPublic:    isPublic,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("create event failed", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}

	created, err := h.repo.GetByID(c.Request.Context(), e.ID)
	if err != nil {
		h.logger.Error("load created event failed", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, gin.H{"event": created})
}

// GetByID handles GET /events/:id. Open to any caller, private events
// included (see CanView).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}

	e, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event failed", zap.Error(err))
		response.Internal(c, "failed to fetch event")
		return
	}

	requesterID, _ := middleware.CurrentUserID(c)
	if !CanView(e, requesterID) {
		response.Forbidden(c, "not allowed to view this event")
		return
	}

	attendees, err := h.repo.ListAttendees(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list attendees failed", zap.Error(err))
		response.Internal(c, "failed to fetch event")
		return
	}
	if attendees == nil {
		attendees = []models.UserPublic{}
	}
	response.OK(c, gin.H{"event": models.EventDetail{Event: *e, Attendees: attendees}})
}

// Update handles PUT /events/:id (organizer only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	e, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event failed", zap.Error(err))
		response.Internal(c, "failed to update event")
		return
	}
	if !CanModify(e, userID) {
		response.Forbidden(c, "only the event organizer can update this event")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	// The date must parse before anything is written; a bad date rejects
	// the whole update.
	params := UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
		Location:    req.Location,
		Capacity:    req.Capacity,
		IsPublic:    req.IsPublic,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			response.BadRequest(c, "invalid date")
			return
		}
		params.Date = &date
	}

	if err := h.repo.Update(c.Request.Context(), id, params); err != nil {
		h.logger.Error("update event failed", zap.Error(err))
		response.Internal(c, "failed to update event")
		return
	}

	updated, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("load updated event failed", zap.Error(err))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, gin.H{"event": updated})
}

// Delete handles DELETE /events/:id (organizer only). RSVPs referencing the
// event are removed with it.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	e, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event failed", zap.Error(err))
		response.Internal(c, "failed to delete event")
		return
	}
	if !CanModify(e, userID) {
		response.Forbidden(c, "only the event organizer can delete this event")
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete event failed", zap.Error(err))
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}
