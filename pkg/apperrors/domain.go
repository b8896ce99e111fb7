package apperrors

import (
	"net/http"
)

// =========================================================================
// Предопределенные ошибки жизненного цикла аккаунта
// =========================================================================

// ErrEmailInUse - email уже зарегистрирован.
var ErrEmailInUse = New(
	CodeEmailInUse,
	"account",
	"Email in use",
	http.StatusConflict,
)

// ErrAccountNotFound - аккаунт с таким email не найден.
var ErrAccountNotFound = New(
	CodeAccountNotFound,
	"account",
	"Account not found",
	http.StatusNotFound,
)

// ErrTokenNotFound - токен верификации не найден или уже использован.
var ErrTokenNotFound = New(
	CodeTokenNotFound,
	"account",
	"Verification token not found",
	http.StatusNotFound,
)

// ErrAlreadyVerified - повторная отправка письма для подтвержденного аккаунта.
var ErrAlreadyVerified = New(
	CodeAlreadyVerified,
	"account",
	"Verification has already been passed",
	http.StatusBadRequest,
)

// ErrInvalidCredentials - неверный email или пароль (без уточнения, что именно).
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Email or password is wrong",
	http.StatusUnauthorized,
)

// ErrNotVerified - вход до подтверждения email.
var ErrNotVerified = New(
	CodeNotVerified,
	"auth",
	"Email not verified",
	http.StatusUnauthorized,
)

// ErrUnauthorized - нет сессии, токен невалиден, просрочен или отозван.
var ErrUnauthorized = New(
	CodeUnauthorized,
	"auth",
	"Not authorized",
	http.StatusUnauthorized,
)

// ErrInvalidSubscriptionTier - значение подписки вне допустимого набора.
var ErrInvalidSubscriptionTier = New(
	CodeInvalidSubscriptionTier,
	"subscription",
	"Invalid subscription value",
	http.StatusBadRequest,
)

// Шаблоны для errors.Is по обернутым ошибкам зависимостей.
var (
	ErrStoreFailure    = New(CodeStoreFailure, "store", "Account storage failure", http.StatusInternalServerError)
	ErrDeliveryFailure = New(CodeDeliveryFailure, "email", "Failed to deliver email", http.StatusServiceUnavailable)
	ErrPipelineFailure = New(CodePipelineFailure, "avatar", "Failed to process avatar", http.StatusInternalServerError)
)

// =========================================================================
// Фабрики для ошибок внешних зависимостей
// =========================================================================

// StoreFailure оборачивает ошибку хранилища аккаунтов (500).
func StoreFailure(err error) *AppError {
	return ErrStoreFailure.WithError(err)
}

// DeliveryFailure оборачивает ошибку отправки письма (503).
func DeliveryFailure(err error) *AppError {
	return ErrDeliveryFailure.WithError(err)
}

// PipelineFailure оборачивает ошибку файлового конвейера аватара (500).
func PipelineFailure(err error) *AppError {
	return ErrPipelineFailure.WithError(err)
}

// InvalidImage - загруженный файл не удалось декодировать как изображение (400).
func InvalidImage(err error) *AppError {
	return Wrap(err, CodePipelineFailure, "avatar", "Uploaded file is not a supported image", http.StatusBadRequest)
}
