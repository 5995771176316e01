// Package errors 将服务层错误转换为统一的 JSON 错误响应
package errors

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haierkeys/inventory-audit-service/internal/middleware"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
)

// AppError 错误响应体
type AppError struct {
	Status    int       `json:"-"`
	Code      int       `json:"code"`
	Message   string    `json:"message"`
	Details   []string  `json:"details,omitempty"`
	TraceID   string    `json:"traceId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Cause     error     `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// FromError 沿错误链查找 *code.Code，找不到时视为内部错误
// 消息使用 language 指定的语言
func FromError(err error, language string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	c := code.ErrorServerInternal
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		c = codeErr
	}
	return &AppError{
		Status:    c.StatusCode(),
		Code:      c.Code(),
		Message:   c.MsgIn(language),
		Details:   c.Details(),
		Timestamp: time.Now(),
		Cause:     err,
	}
}

// ErrorResponse 输出错误响应，附带当前请求的 Trace ID
func ErrorResponse(c *gin.Context, err error) {
	appErr := FromError(err, code.LangFromGin(c))
	appErr.TraceID = middleware.GetTraceIDFromGin(c)

	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, appErr)
}
