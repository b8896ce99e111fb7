package middleware

import (
	"strings"

	"mwork_accounts/internal/logger"
	"mwork_accounts/internal/models"
	"mwork_accounts/internal/services"
	"mwork_accounts/pkg/apperrors"
	"mwork_accounts/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - проверка Bearer токена по сохраненной сессии аккаунта
func AuthMiddleware(sessions services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			apperrors.HandleError(c, apperrors.ErrUnauthorized)
			return
		}

		user, err := sessions.Authenticate(c.Request.Context(), strings.TrimSpace(tokenStr))
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		ctx := logger.WithUserID(c.Request.Context(), user.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(contextkeys.UserIDKey.String(), user.ID)
		c.Set(contextkeys.UserKey.String(), user)
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey.String())
}

// GetUser извлекает аккаунт, загруженный AuthMiddleware
func GetUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(contextkeys.UserKey.String())
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
