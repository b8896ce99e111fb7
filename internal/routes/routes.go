package routes

import (
	"mwork_accounts/internal/handlers"
	"mwork_accounts/internal/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует HTTP API аккаунтов.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMW gin.HandlerFunc,
) {
	api := ginRouter.Group("/api")
	{
		appHandlers.UserHandler.RegisterRoutes(api, authMW)
	}
	logger.Info("API routes registered", "prefix", "/api/users")
}
