package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeStoreFailure  ErrorCode = "STORE_FAILURE"

	// Внешние зависимости (почта, файловый конвейер)
	CodeDeliveryFailure ErrorCode = "DELIVERY_FAILURE"
	CodePipelineFailure ErrorCode = "PIPELINE_FAILURE"

	// Валидация запроса
	CodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	CodeInvalidSubscriptionTier ErrorCode = "INVALID_SUBSCRIPTION_TIER"

	// Жизненный цикл аккаунта
	CodeEmailInUse      ErrorCode = "EMAIL_IN_USE"
	CodeAccountNotFound ErrorCode = "ACCOUNT_NOT_FOUND"
	CodeTokenNotFound   ErrorCode = "TOKEN_NOT_FOUND"
	CodeAlreadyVerified ErrorCode = "ALREADY_VERIFIED"

	// Аутентификация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeNotVerified        ErrorCode = "NOT_VERIFIED"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
)
