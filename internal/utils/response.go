package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TaskConverterAI/task-service/internal/models"
)

// 成功返回裸投影，错误统一走 {timestamp, status, message}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, models.ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Message:   message,
	})
}

func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "invalid request"
	}
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}
	Error(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	Error(c, http.StatusInternalServerError, message)
}
