package middleware

import (
	"Haven/internal/pkg/consts"
	"Haven/internal/pkg/response"
	"Haven/internal/pkg/security"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		claims, err := security.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set(consts.UserIDKey, claims.UserID)
		c.Set(consts.RolesKey, claims.Roles)
		c.Request = c.Request.WithContext(security.WithUser(c.Request.Context(), claims.User()))

		c.Next()
	}
}
