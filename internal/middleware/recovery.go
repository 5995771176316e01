package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	"github.com/haierkeys/inventory-audit-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 捕获处理器中的 panic，记录堆栈后返回统一的 500 响应
func RecoveryWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			fields := []zap.Field{
				zap.String(logger.FieldMethod, c.Request.Method),
				zap.String(logger.FieldPath, c.Request.URL.Path),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("ip", c.ClientIP()),
				zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
				zap.String("stack", string(debug.Stack())),
			}

			var msg string
			switch v := rec.(type) {
			case error:
				msg = v.Error()
				fields = append(fields, zap.Error(v))
			default:
				msg = fmt.Sprintf("%v", v)
				fields = append(fields, zap.String("panic_value", msg))
			}
			lg.Error("Recovered from panic", fields...)

			app.NewResponse(c).ToResponse(code.ErrorServerInternal.WithDetails(msg))
			c.Abort()
		}()

		c.Next()
	}
}
