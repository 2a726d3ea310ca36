package handler

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "eventify/pkg/app_errors"
	"eventify/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func ParamInt(c *gin.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, err
	}
	return value, nil
}

// notFoundErrors / conflictErrors 業務錯誤到 HTTP status 的分類。
// Conflict/Forbidden/NotFound 直接回傳錯誤訊息本文，內部錯誤不外漏。
var notFoundErrors = []error{
	apperrors.ErrEventNotFound,
	apperrors.ErrRegistrationNotFound,
	apperrors.ErrUserNotFound,
	apperrors.ErrLocationNotFound,
	apperrors.ErrCategoryNotFound,
}

var conflictErrors = []error{
	apperrors.ErrEventNotPublished,
	apperrors.ErrEventEnded,
	apperrors.ErrAlreadyRegistered,
	apperrors.ErrEventFull,
	apperrors.ErrAlreadyCancelled,
	apperrors.ErrInvalidStatusTransition,
	apperrors.ErrCapacityBelowRegistered,
	apperrors.ErrEventHasRegistrations,
	apperrors.ErrEmailTaken,
}

func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			log.Warn("Resource not found")
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
	}

	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			log.Warn("Conflict")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		log.Warn("Invalid credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		// ErrCounterConsistency 也走這裡：一致性損壞屬於內部錯誤，不回傳細節
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
