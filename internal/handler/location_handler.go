package handler

import (
	"net/http"

	"eventify/internal/middleware"
	"eventify/internal/model"
	"eventify/internal/service"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	service     service.LocationService
	authService service.AuthService
}

func NewLocationHandler(service service.LocationService, authService service.AuthService) *LocationHandler {
	return &LocationHandler{service: service, authService: authService}
}

func (h *LocationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("locations", h.List)
		router.GET("locations/:id", h.GetByID)
	}

	authed := r.Group("/api/v1")
	authed.Use(middleware.Auth(h.authService))
	{
		authed.POST("locations", h.Create)
		authed.PUT("locations/:id", h.Update)
		authed.DELETE("locations/:id", h.Delete)
	}
}

// CreateLocationRequest 建立地點請求
type CreateLocationRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address" binding:"required"`
	City     string `json:"city" binding:"required"`
	Capacity *int   `json:"capacity"`
}

// UpdateLocationRequest 更新地點請求
type UpdateLocationRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Capacity *int    `json:"capacity"`
}

func (h *LocationHandler) List(c *gin.Context) {
	locations, err := h.service.List(c)
	if err != nil {
		handleError(c, err, "ListLocations")
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) GetByID(c *gin.Context) {
	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	location, err := h.service.GetByID(c, id)
	if err != nil {
		handleError(c, err, "GetLocation")
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req CreateLocationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	location := &model.Location{
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Capacity: req.Capacity,
	}

	created, err := h.service.Create(c, location, principal)
	if err != nil {
		handleError(c, err, "CreateLocation")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *LocationHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	var req UpdateLocationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	params := model.UpdateLocationParams{
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Capacity: req.Capacity,
	}

	updated, err := h.service.Update(c, id, params, principal)
	if err != nil {
		handleError(c, err, "UpdateLocation")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *LocationHandler) Delete(c *gin.Context) {
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
		handleError(c, err, "DeleteLocation")
		return
	}
	c.Status(http.StatusNoContent)
}
