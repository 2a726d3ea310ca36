package handler

import (
	"context"
	"net/http"
	"time"

	"eventify/internal/middleware"
	"eventify/internal/model"
	"eventify/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service     service.EventService
	authService service.AuthService
}

func NewEventHandler(service service.EventService, authService service.AuthService) *EventHandler {
	return &EventHandler{service: service, authService: authService}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/stats", h.GetStats)
		router.GET("events/:id", h.GetByID)
	}

	authed := r.Group("/api/v1")
	authed.Use(middleware.Auth(h.authService))
	{
		authed.GET("events/my", h.GetMyEvents)
		authed.POST("events", middleware.RequireRole(model.RoleOrganizer), h.Create)
		authed.PUT("events/:id", h.Update)
		authed.DELETE("events/:id", h.Delete)
		authed.POST("events/:id/publish", h.Publish)
		authed.POST("events/:id/cancel", h.Cancel)
		authed.POST("events/:id/complete", h.Complete)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	Capacity    int       `json:"capacity" binding:"required,min=1"`
	ImageURL    *string   `json:"image_url"`
	LocationID  int       `json:"location_id" binding:"required"`
	CategoryID  int       `json:"category_id" binding:"required"`
}

// UpdateEventRequest 更新活動請求，所有欄位皆為選填
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Capacity    *int       `json:"capacity"`
	ImageURL    *string    `json:"image_url"`
	LocationID  *int       `json:"location_id"`
	CategoryID  *int       `json:"category_id"`
}

// ListEventsRequest 列表查詢參數
type ListEventsRequest struct {
	Search     *string    `form:"search"`
	Status     *string    `form:"status"`
	CategoryID *int       `form:"category_id"`
	LocationID *int       `form:"location_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

func (h *EventHandler) List(c *gin.Context) {
	var req ListEventsRequest
	if err := BindQuery(c, &req); err != nil {
		return
	}

	filter := model.EventFilter{
		Search:     req.Search,
		CategoryID: req.CategoryID,
		LocationID: req.LocationID,
		From:       req.From,
		To:         req.To,
	}
	if req.Status != nil {
		status := model.EventStatus(*req.Status)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		filter.Status = &status
	}

	events, err := h.service.List(c, filter)
	if err != nil {
		handleError(c, err, "ListEvents")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetByID(c *gin.Context) {
	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	event, err := h.service.GetByID(c, id)
	if err != nil {
		handleError(c, err, "GetEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) GetMyEvents(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	events, err := h.service.GetMyEvents(c, principal.UserID)
	if err != nil {
		handleError(c, err, "GetMyEvents")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c)
	if err != nil {
		handleError(c, err, "GetEventStats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *EventHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Capacity:    req.Capacity,
		ImageURL:    req.ImageURL,
		LocationID:  req.LocationID,
		CategoryID:  req.CategoryID,
	}

	created, err := h.service.Create(c, event, principal.UserID)
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	params := model.UpdateEventParams{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Capacity:    req.Capacity,
		ImageURL:    req.ImageURL,
		LocationID:  req.LocationID,
		CategoryID:  req.CategoryID,
	}

	updated, err := h.service.Update(c, id, params, principal)
	if err != nil {
		handleError(c, err, "UpdateEvent")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Delete(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	if err := h.service.Delete(c, id, principal); err != nil {
		handleError(c, err, "DeleteEvent")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) Publish(c *gin.Context) {
	h.applyAction(c, "PublishEvent", h.service.Publish)
}

func (h *EventHandler) Cancel(c *gin.Context) {
	h.applyAction(c, "CancelEvent", h.service.Cancel)
}

func (h *EventHandler) Complete(c *gin.Context) {
	h.applyAction(c, "CompleteEvent", h.service.Complete)
}

func (h *EventHandler) applyAction(
	c *gin.Context,
	operation string,
	action func(ctx context.Context, id int, principal model.Principal) (*model.Event, error),
) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	event, err := action(c, id, principal)
	if err != nil {
		handleError(c, err, operation)
		return
	}
	c.JSON(http.StatusOK, event)
}
