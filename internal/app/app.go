package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mwork_accounts/internal/auth"
	"mwork_accounts/internal/config"
	"mwork_accounts/internal/handlers"
	"mwork_accounts/internal/imageprocessor"
	"mwork_accounts/internal/logger"
	"mwork_accounts/internal/middleware"
	"mwork_accounts/internal/repositories"
	"mwork_accounts/internal/routes"
	"mwork_accounts/internal/services"
	"mwork_accounts/internal/storage"
	"mwork_accounts/internal/validator"
	"mwork_accounts/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func Run() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	apperrors.Debug = cfg.IsDevelopment()
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	userRepo, closeStore, err := OpenUserRepository(cfg)
	if err != nil {
		logger.Fatal("Failed to open account store", "driver", cfg.Database.Driver, "error", err)
	}
	defer closeStore()

	ginRouter, err := SetupRouter(cfg, userRepo)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info(fmt.Sprintf("Server starting on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
}

// SetupRouter собирает сервисы, хэндлеры и маршруты поверх готового хранилища
func SetupRouter(cfg *config.Config, userRepo repositories.UserRepository) (*gin.Engine, error) {
	storageInstance, err := storage.NewLocalStorage(storage.Config{
		BasePath:  cfg.Storage.AvatarsDir,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "avatars_dir", storageInstance.BasePath())

	// 1. Инициализируем сервисы
	serviceContainer, err := initializeServices(cfg, userRepo, storageInstance)
	if err != nil {
		return nil, err
	}

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter()

	// 4. Маршруты
	routes.SetupPublicRoutes(ginRouter, cfg.Storage.PublicURL, storageInstance.BasePath())
	routes.RegisterRoutes(ginRouter, appHandlers, middleware.AuthMiddleware(serviceContainer.SessionService))

	return ginRouter, nil
}

func initializeServices(cfg *config.Config, userRepo repositories.UserRepository, storageInstance storage.Storage) (*services.ServiceContainer, error) {
	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWTTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	return services.NewServiceContainer(services.Dependencies{
		UserRepo: userRepo,
		Hasher:   auth.NewPasswordHasher(cfg.Security.BcryptCost),
		Tokens:   tokens,
		Storage:  storageInstance,
		Resizer:  imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.AvatarSize, cfg.Upload.MaxPixels),
		Mailer:   newMailer(cfg),
		Auth: services.AuthConfig{
			BaseURL:       cfg.Server.BaseURL,
			DefaultAvatar: auth.GravatarURL,
		},
	}), nil
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	// gin валидирует DTO тем же движком, что и BaseHandler
	binding.Validator = customValidator

	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		UserHandler: handlers.NewUserHandler(baseHandler, container.AuthService, handlers.UploadOptions{
			TmpDir:  cfg.Storage.TmpDir,
			MaxSize: cfg.Upload.MaxSize,
		}),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	return router
}
