package middleware

import (
	"strings"

	"github.com/haierkeys/inventory-audit-service/internal/audit"
	"github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// tokenFromRequest 依次从请求头、查询参数、Cookie 中读取 Token
func tokenFromRequest(c *gin.Context) string {
	var token string
	if s := c.GetHeader("Authorization"); len(s) != 0 {
		token = s
	} else if s = c.GetHeader("Token"); len(s) != 0 {
		token = s
	} else if s, exist := c.GetQuery("token"); exist {
		token = s
	} else if s, err := c.Cookie("token"); err == nil {
		token = s
	}

	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

// UserAuthTokenWithConfig 用户 Token 认证中间件（使用注入的密钥）
// 认证通过后当前用户写入 gin.Context，并作为审计操作人写入 request.Context
func UserAuthTokenWithConfig(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := tokenFromRequest(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := app.ParseTokenWithKey(token, secretKey)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}

		c.Set(app.ContextUserTokenKey, user)
		c.Request = c.Request.WithContext(audit.WithActor(c.Request.Context(), user.UID))

		c.Next()
	}
}
