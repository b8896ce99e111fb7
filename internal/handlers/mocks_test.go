package handlers

import (
	"context"

	"mwork_accounts/internal/models"
	"mwork_accounts/internal/services/dto"

	"github.com/stretchr/testify/mock"
)

// MockAuthService implements services.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*dto.UserResponse)
	return user, args.Error(1)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) ResendVerifyEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.LoginResponse)
	return resp, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) Current(ctx context.Context, userID string) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*dto.UserResponse)
	return user, args.Error(1)
}

func (m *MockAuthService) UpdateSubscription(ctx context.Context, userID string, tier models.SubscriptionTier) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID, tier)
	user, _ := args.Get(0).(*dto.UserResponse)
	return user, args.Error(1)
}

func (m *MockAuthService) UpdateAvatar(ctx context.Context, userID string, upload dto.StagedUpload) (*dto.AvatarResponse, error) {
	args := m.Called(ctx, userID, upload)
	resp, _ := args.Get(0).(*dto.AvatarResponse)
	return resp, args.Error(1)
}
