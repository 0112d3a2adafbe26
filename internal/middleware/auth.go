package middleware

import (
	"ai_tutor_backend/internal/config"
	"ai_tutor_backend/internal/util"
	"ai_tutor_backend/pkg/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 Authorization: Bearer <token>，通过后将 claims 写入上下文
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || tokenString == "" {
			util.Error(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Error(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// CurrentUserID 仅在 AuthMiddleware 之后使用
func CurrentUserID(c *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return 0, false
	}
	return claims.UserID, true
}
