package util

import (
	"ai_tutor_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse 统一失败响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Success 成功响应，payload 字段与 success 平铺在同一层
func Success(c *gin.Context, payload gin.H) {
	respond(c, http.StatusOK, payload)
}

func Created(c *gin.Context, payload gin.H) {
	respond(c, http.StatusCreated, payload)
}

func respond(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Success: false, Error: message})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// HandleError 按错误分类写出响应，内部错误只记录日志不外泄细节
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		LogInternalError(c, err)
		return
	}
	Error(c, appErr.Kind.Status(), appErr.Message)
}
