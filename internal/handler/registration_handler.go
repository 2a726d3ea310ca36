package handler

import (
	"net/http"

	"eventify/internal/middleware"
	"eventify/internal/model"
	"eventify/internal/service"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	service     service.RegistrationService
	authService service.AuthService
}

func NewRegistrationHandler(service service.RegistrationService, authService service.AuthService) *RegistrationHandler {
	return &RegistrationHandler{service: service, authService: authService}
}

func (h *RegistrationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	router.Use(middleware.Auth(h.authService))
	{
		router.POST("events/:id/registrations", h.Register)
		router.GET("events/:id/registrations", h.GetEventRegistrations)
		router.GET("registrations/my", h.GetMyRegistrations)
		router.GET("registrations/:id", h.GetByID)
		router.PUT("registrations/:id/cancel", h.CancelOwn)
		router.PUT("registrations/:id/status", h.SetStatus)
	}
}

// RegisterRequest 報名請求
type RegisterRequest struct {
	Notes *string `json:"notes"`
}

// UpdateRegistrationStatusRequest organizer/admin 更新報名狀態請求
type UpdateRegistrationStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	eventID, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	// body 可省略
	var req RegisterRequest
	if c.Request.ContentLength > 0 {
		if err := BindJson(c, &req); err != nil {
			return
		}
	}

	created, err := h.service.Register(c, eventID, principal.UserID, req.Notes)
	if err != nil {
		handleError(c, err, "Register")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RegistrationHandler) GetMyRegistrations(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	registrations, err := h.service.GetMyRegistrations(c, principal.UserID)
	if err != nil {
		handleError(c, err, "GetMyRegistrations")
		return
	}
	c.JSON(http.StatusOK, registrations)
}

func (h *RegistrationHandler) GetByID(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	registration, err := h.service.GetByID(c, id, principal)
	if err != nil {
		handleError(c, err, "GetRegistration")
		return
	}
	c.JSON(http.StatusOK, registration)
}

func (h *RegistrationHandler) GetEventRegistrations(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	eventID, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	registrations, err := h.service.GetEventRegistrations(c, eventID, principal)
	if err != nil {
		handleError(c, err, "GetEventRegistrations")
		return
	}
	c.JSON(http.StatusOK, registrations)
}

func (h *RegistrationHandler) CancelOwn(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	if err := h.service.CancelOwn(c, id, principal.UserID); err != nil {
		handleError(c, err, "CancelRegistration")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RegistrationHandler) SetStatus(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	var req UpdateRegistrationStatusRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	status := model.RegistrationStatus(req.Status)
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	updated, err := h.service.SetStatus(c, id, status, req.Notes, principal)
	if err != nil {
		handleError(c, err, "SetRegistrationStatus")
		return
	}
	c.JSON(http.StatusOK, updated)
}
