package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerAuth 批量同步接口的Bearer令牌校验（令牌未配置时直接拒绝，避免裸奔）
func BearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "同步接口未配置访问令牌"})
			return
		}

		header := c.GetHeader("Authorization")
		provided := strings.TrimPrefix(header, "Bearer ")
		if header == "" || provided == header || provided != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的访问令牌"})
			return
		}

		c.Next()
	}
}
