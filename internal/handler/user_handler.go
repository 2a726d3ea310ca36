package handler

import (
	"net/http"

	"eventify/internal/middleware"
	"eventify/internal/model"
	"eventify/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service     service.UserService
	authService service.AuthService
}

func NewUserHandler(service service.UserService, authService service.AuthService) *UserHandler {
	return &UserHandler{service: service, authService: authService}
}

func (h *UserHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	router.Use(middleware.Auth(h.authService))
	{
		router.GET("users", h.List)
		router.GET("users/:id", h.GetByID)
		router.PUT("users/:id/role", h.SetRole)
		router.DELETE("users/:id", h.Delete)
	}
}

// SetRoleRequest admin 指派角色請求
type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *UserHandler) List(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	users, err := h.service.List(c, principal)
	if err != nil {
		handleError(c, err, "ListUsers")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	user, err := h.service.GetByID(c, id, principal)
	if err != nil {
		handleError(c, err, "GetUser")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) SetRole(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	var req SetRoleRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.SetRole(c, id, model.Role(req.Role), principal)
	if err != nil {
		handleError(c, err, "SetUserRole")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) Delete(c *gin.Context) {
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
		handleError(c, err, "DeleteUser")
		return
	}
	c.Status(http.StatusNoContent)
}
