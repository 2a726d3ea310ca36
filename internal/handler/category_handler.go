package handler

import (
	"net/http"

	"eventify/internal/middleware"
	"eventify/internal/model"
	"eventify/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service     service.CategoryService
	authService service.AuthService
}

func NewCategoryHandler(service service.CategoryService, authService service.AuthService) *CategoryHandler {
	return &CategoryHandler{service: service, authService: authService}
}

func (h *CategoryHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("categories", h.List)
		router.GET("categories/:id", h.GetByID)
	}

	authed := r.Group("/api/v1")
	authed.Use(middleware.Auth(h.authService))
	{
		authed.POST("categories", h.Create)
		authed.PUT("categories/:id", h.Update)
		authed.DELETE("categories/:id", h.Delete)
	}
}

// CreateCategoryRequest 建立分類請求
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest 更新分類請求
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c)
	if err != nil {
		handleError(c, err, "ListCategories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	category, err := h.service.GetByID(c, id)
	if err != nil {
		handleError(c, err, "GetCategory")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req CreateCategoryRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	created, err := h.service.Create(c, category, principal)
	if err != nil {
		handleError(c, err, "CreateCategory")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := ParamInt(c, "id")
	if err != nil {
		return
	}

	var req UpdateCategoryRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	params := model.UpdateCategoryParams{
		Name:        req.Name,
		Description: req.Description,
	}

	updated, err := h.service.Update(c, id, params, principal)
	if err != nil {
		handleError(c, err, "UpdateCategory")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
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
		handleError(c, err, "DeleteCategory")
		return
	}
	c.Status(http.StatusNoContent)
}
