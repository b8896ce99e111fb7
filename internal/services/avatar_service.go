package services

import (
	"context"
	"errors"
	"path"
	"strings"

	"mwork_accounts/internal/imageprocessor"
	"mwork_accounts/internal/logger"
	"mwork_accounts/internal/models"
	"mwork_accounts/internal/repositories"
	"mwork_accounts/internal/services/dto"
	"mwork_accounts/internal/storage"
	"mwork_accounts/pkg/apperrors"

	"github.com/google/uuid"
)

// ImageResizer - обработка файла на месте
type ImageResizer interface {
	ResizeFile(path string) error
}

// AvatarService - конвейер загрузки аватара
type AvatarService interface {
	// Ingest: move (во временное имя) -> resize -> rename в {id}_{имя} -> сохранение avatarURL.
	// При ошибке любого шага avatarURL аккаунта не меняется.
	Ingest(ctx context.Context, userID string, upload dto.StagedUpload) (string, error)
}

type AvatarServiceImpl struct {
	userRepo repositories.UserRepository
	storage  storage.Storage
	resizer  ImageResizer
}

func NewAvatarService(userRepo repositories.UserRepository, storage storage.Storage, resizer ImageResizer) AvatarService {
	return &AvatarServiceImpl{
		userRepo: userRepo,
		storage:  storage,
		resizer:  resizer,
	}
}

func (s *AvatarServiceImpl) Ingest(ctx context.Context, userID string, upload dto.StagedUpload) (string, error) {
	original := baseFilename(upload.OriginalFilename)
	if original == "" {
		return "", apperrors.NewBadRequestError("Invalid avatar file name")
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return "", storeError(err, apperrors.ErrAccountNotFound)
	}

	// Промежуточное имя принадлежит только этому вызову: чужие файлы
	// каталога не перезаписываются и не удаляются
	scratch := scratchName(userID)
	if err := s.storage.Move(upload.TempPath, scratch); err != nil {
		return "", apperrors.PipelineFailure(err)
	}

	if err := s.resizer.ResizeFile(s.storage.Path(scratch)); err != nil {
		s.discard(ctx, scratch)
		if errors.Is(err, imageprocessor.ErrInvalidImage) || errors.Is(err, imageprocessor.ErrUnsupportedFormat) {
			return "", apperrors.InvalidImage(err)
		}
		return "", apperrors.PipelineFailure(err)
	}

	final := userID + "_" + original
	if err := s.storage.Rename(scratch, final); err != nil {
		s.discard(ctx, scratch)
		return "", apperrors.PipelineFailure(err)
	}

	avatarURL := s.storage.URL(final)
	// Файл под итоговым именем не удаляется: он может быть текущим аватаром аккаунта
	updated, err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		models.FieldAvatarURL: avatarURL,
	})
	if err != nil {
		return "", storeError(err, apperrors.ErrAccountNotFound)
	}

	logger.CtxInfo(ctx, "avatar updated", "user_id", userID, "avatar_url", updated.AvatarURL)
	return updated.AvatarURL, nil
}

func (s *AvatarServiceImpl) discard(ctx context.Context, name string) {
	if err := s.storage.Remove(name); err != nil {
		logger.CtxWithError(ctx, "failed to remove intermediate avatar file", err, "file", name)
	}
}

func scratchName(userID string) string {
	return ".upload-" + userID + "-" + uuid.NewString()
}

// baseFilename оставляет только имя файла, без каталогов клиента
func baseFilename(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
