package middleware

import (
	"github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 未注册路由与不支持的方法
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorNotFoundAPI.WithDetails(c.Request.Method + " " + c.Request.URL.Path))
		c.Abort()
	}
}
