package services

import (
	"context"
	"strings"

	"mwork_accounts/internal/auth"
	"mwork_accounts/internal/email"
	"mwork_accounts/internal/logger"
	"mwork_accounts/internal/models"
	"mwork_accounts/internal/repositories"
	"mwork_accounts/internal/services/dto"
	"mwork_accounts/pkg/apperrors"
)

const verifyPath = "/api/users/verify/"

// DefaultAvatarFunc вычисляет аватар по умолчанию по email
type DefaultAvatarFunc func(email string) string

// VerificationTokenFunc выдает новый токен подтверждения
type VerificationTokenFunc func() (string, error)

// PasswordHasher - хеширование и проверка паролей
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// AuthService - жизненный цикл аккаунта
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerifyEmail(ctx context.Context, email string) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, userID string) error
	Current(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateSubscription(ctx context.Context, userID string, tier models.SubscriptionTier) (*dto.UserResponse, error)
	UpdateAvatar(ctx context.Context, userID string, upload dto.StagedUpload) (*dto.AvatarResponse, error)
}

// AuthConfig - параметры AuthService; пустые функции заменяются значениями по умолчанию
type AuthConfig struct {
	BaseURL           string
	DefaultAvatar     DefaultAvatarFunc
	VerificationToken VerificationTokenFunc
}

type AuthServiceImpl struct {
	userRepo  repositories.UserRepository
	hasher    PasswordHasher
	sessions  SessionService
	avatars   AvatarService
	mailer    email.Provider
	templates email.TemplateRenderer

	baseURL           string
	defaultAvatar     DefaultAvatarFunc
	verificationToken VerificationTokenFunc
}

func NewAuthService(
	userRepo repositories.UserRepository,
	hasher PasswordHasher,
	sessions SessionService,
	avatars AvatarService,
	mailer email.Provider,
	templates email.TemplateRenderer,
	cfg AuthConfig,
) AuthService {
	if cfg.DefaultAvatar == nil {
		cfg.DefaultAvatar = auth.GravatarURL
	}
	if cfg.VerificationToken == nil {
		cfg.VerificationToken = auth.NewVerificationToken
	}
	if templates == nil {
		templates = email.NewTemplateManager()
	}

	return &AuthServiceImpl{
		userRepo:          userRepo,
		hasher:            hasher,
		sessions:          sessions,
		avatars:           avatars,
		mailer:            mailer,
		templates:         templates,
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		defaultAvatar:     cfg.DefaultAvatar,
		verificationToken: cfg.VerificationToken,
	}
}

// Register - регистрация. Уникальность email проверяет хранилище.
// Если письмо не ушло, аккаунт остается и возвращается DELIVERY_FAILURE.
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if apperrors.Is(err, auth.ErrEmptyPassword) {
			return nil, apperrors.NewBadRequestError("Password is required")
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := s.verificationToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      passwordHash,
		VerificationToken: &token,
		Subscription:      models.DefaultSubscription,
		AvatarURL:         s.defaultAvatar(req.Email),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailInUse
		}
		return nil, apperrors.StoreFailure(err)
	}

	logger.CtxInfo(ctx, "account registered", "user_id", user.ID)

	if err := s.sendVerification(ctx, user.Email, token); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// VerifyEmail - одноразовое подтверждение по токену
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		return storeError(err, apperrors.ErrTokenNotFound)
	}

	if _, err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{
		models.FieldVerified:          true,
		models.FieldVerificationToken: nil,
	}); err != nil {
		return storeError(err, apperrors.ErrTokenNotFound)
	}

	logger.CtxInfo(ctx, "email verified", "user_id", user.ID)
	return nil
}

// ResendVerifyEmail повторно отправляет сохраненный токен
func (s *AuthServiceImpl) ResendVerifyEmail(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(ctx, emailAddr)
	if err != nil {
		return storeError(err, apperrors.ErrAccountNotFound)
	}

	if user.Verified {
		return apperrors.ErrAlreadyVerified
	}

	token := ""
	if user.VerificationToken != nil {
		token = *user.VerificationToken
	}
	if token == "" {
		// Неподтвержденный аккаунт без токена: выдаем новый
		if token, err = s.verificationToken(); err != nil {
			return apperrors.InternalError(err)
		}
		if _, err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{
			models.FieldVerificationToken: token,
		}); err != nil {
			return storeError(err, apperrors.ErrAccountNotFound)
		}
	}

	return s.sendVerification(ctx, user.Email, token)
}

// Login. Подтверждение проверяется до пароля.
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storeError(err, apperrors.ErrInvalidCredentials)
	}

	if !user.Verified {
		return nil, apperrors.ErrNotVerified
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, userID string) error {
	return s.sessions.Invalidate(ctx, userID)
}

func (s *AuthServiceImpl) Current(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrAccountNotFound)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthServiceImpl) UpdateSubscription(ctx context.Context, userID string, tier models.SubscriptionTier) (*dto.UserResponse, error) {
	if !tier.IsValid() {
		return nil, apperrors.ErrInvalidSubscriptionTier
	}

	user, err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		models.FieldSubscription: tier,
	})
	if err != nil {
		return nil, storeError(err, apperrors.ErrAccountNotFound)
	}

	logger.CtxInfo(ctx, "subscription changed", "user_id", userID, "subscription", tier)

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthServiceImpl) UpdateAvatar(ctx context.Context, userID string, upload dto.StagedUpload) (*dto.AvatarResponse, error) {
	avatarURL, err := s.avatars.Ingest(ctx, userID, upload)
	if err != nil {
		return nil, err
	}
	return &dto.AvatarResponse{AvatarURL: avatarURL}, nil
}

func (s *AuthServiceImpl) sendVerification(ctx context.Context, to, token string) error {
	msg, err := email.VerificationEmail(s.templates, to, s.baseURL+verifyPath+token)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.CtxWithError(ctx, "failed to send verification email", err)
		return apperrors.DeliveryFailure(err)
	}
	return nil
}
