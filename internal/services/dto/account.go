package dto

import "mwork_accounts/internal/models"

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResendVerifyRequest - повторная отправка письма подтверждения
type ResendVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SubscriptionRequest - смена подписки. Значение проверяется сервисом,
// чтобы неизвестный тариф давал INVALID_SUBSCRIPTION_TIER, а не ошибку валидации.
type SubscriptionRequest struct {
	Subscription models.SubscriptionTier `json:"subscription"`
}

// StagedUpload - файл, принятый транспортом во временный каталог
type StagedUpload struct {
	TempPath         string
	OriginalFilename string
}

// UserResponse - публичное представление аккаунта
type UserResponse struct {
	Email        string                  `json:"email"`
	Subscription models.SubscriptionTier `json:"subscription"`
}

// UserEnvelope - ответ вида {"user": {...}}
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// LoginResponse - ответ входа
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AvatarResponse - ответ загрузки аватара
type AvatarResponse struct {
	AvatarURL string `json:"avatarURL"`
}

// MessageResponse - ответ с текстовым сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{Email: u.Email, Subscription: u.Subscription}
}
