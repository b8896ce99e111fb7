package routes

import (
	"net/http"
	"strings"

	_ "mwork_accounts/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupPublicRoutes: статика аватаров, swagger и health
func SetupPublicRoutes(r *gin.Engine, avatarsURL, avatarsDir string) {
	r.Static("/"+strings.Trim(avatarsURL, "/"), avatarsDir)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
