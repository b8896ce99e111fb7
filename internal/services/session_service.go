package services

import (
	"context"
	"errors"

	"mwork_accounts/internal/auth"
	"mwork_accounts/internal/logger"
	"mwork_accounts/internal/models"
	"mwork_accounts/internal/repositories"
	"mwork_accounts/pkg/apperrors"
)

// SessionService выдает и отзывает единственный сессионный токен аккаунта
type SessionService interface {
	// Issue подписывает новый токен и сохраняет его, вытесняя предыдущую сессию
	Issue(ctx context.Context, userID string) (string, error)

	// Invalidate очищает сохраненный токен; повторный вызов не ошибка
	Invalidate(ctx context.Context, userID string) error

	// Authenticate возвращает владельца токена или ErrUnauthorized
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type SessionServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
}

func NewSessionService(userRepo repositories.UserRepository, tokens *auth.TokenManager) SessionService {
	return &SessionServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *SessionServiceImpl) Issue(ctx context.Context, userID string) (string, error) {
	token, err := s.tokens.GenerateToken(userID)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	if _, err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		models.FieldToken: token,
	}); err != nil {
		return "", storeError(err, apperrors.ErrAccountNotFound)
	}

	logger.CtxInfo(ctx, "session issued", "user_id", userID)
	return token, nil
}

func (s *SessionServiceImpl) Invalidate(ctx context.Context, userID string) error {
	if _, err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		models.FieldToken: nil,
	}); err != nil {
		return storeError(err, apperrors.ErrAccountNotFound)
	}

	logger.CtxInfo(ctx, "session invalidated", "user_id", userID)
	return nil
}

// Authenticate: валидной подписи недостаточно, токен должен совпадать с сохраненным
func (s *SessionServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.StoreFailure(err)
	}

	if !user.HasSession() || *user.Token != token {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
