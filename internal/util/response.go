package util

import (
	"net/http"
	"technicia_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the uniform API envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden403(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// HandleServiceError is the single mapping from service error kinds to HTTP.
// Internal errors are logged with their cause; only a generic message leaves
// the process.
func HandleServiceError(c *gin.Context, err error) {
	switch KindOf(err) {
	case KindForbidden:
		Error(c, http.StatusForbidden, err.Error())
	case KindPreconditionFailed:
		Error(c, http.StatusBadRequest, err.Error())
	case KindNotFound:
		Error(c, http.StatusNotFound, err.Error())
	case KindConflict:
		Error(c, http.StatusConflict, err.Error())
	default:
		logger.Log.Error("Internal server error", zap.Error(err))
		InternalServerError(c)
	}
}
