package services

import (
	"errors"

	"mwork_accounts/internal/repositories"
	"mwork_accounts/pkg/apperrors"
)

// storeError переводит ошибку хранилища в доменную: отсутствие записи -> notFound,
// все остальное -> STORE_FAILURE
func storeError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return notFound
	}
	return apperrors.StoreFailure(err)
}
