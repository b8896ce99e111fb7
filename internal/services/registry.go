package services

import (
	"mwork_accounts/internal/auth"
	"mwork_accounts/internal/email"
	"mwork_accounts/internal/repositories"
	"mwork_accounts/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService    AuthService
	SessionService SessionService
	AvatarService  AvatarService
}

// Dependencies - внешние зависимости сервисов
type Dependencies struct {
	UserRepo  repositories.UserRepository
	Hasher    PasswordHasher
	Tokens    *auth.TokenManager
	Storage   storage.Storage
	Resizer   ImageResizer
	Mailer    email.Provider
	Templates email.TemplateRenderer
	Auth      AuthConfig
}

func NewServiceContainer(deps Dependencies) *ServiceContainer {
	sessions := NewSessionService(deps.UserRepo, deps.Tokens)
	avatars := NewAvatarService(deps.UserRepo, deps.Storage, deps.Resizer)

	return &ServiceContainer{
		AuthService: NewAuthService(
			deps.UserRepo,
			deps.Hasher,
			sessions,
			avatars,
			deps.Mailer,
			deps.Templates,
			deps.Auth,
		),
		SessionService: sessions,
		AvatarService:  avatars,
	}
}
