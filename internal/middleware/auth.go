package middleware

import (
	"net/http"
	"strings"

	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 校验 Bearer JWT。secret 为空时不做鉴权。
func AuthMiddleware(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			}
		}

		// 2) URL 查询参数 ?token=xxx（用于下载等无法自定义 Header 的场景）
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(secret, issuer, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("tokenSubject", claims.Subject)
		c.Next()
	}
}
