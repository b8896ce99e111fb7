package repositories

import (
	"context"
	"errors"
	"fmt"

	"mwork_accounts/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUnknownField      = errors.New("unknown user field")
)

// UserRepository - хранилище аккаунтов
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)

	// Create возвращает ErrUserAlreadyExists, если email занят
	Create(ctx context.Context, user *models.User) error

	// Update атомарно применяет переданные поля (ключи - models.Field*)
	// и возвращает обновленную запись
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
}

var updatableFields = map[string]struct{}{
	models.FieldVerified:          {},
	models.FieldVerificationToken: {},
	models.FieldToken:             {},
	models.FieldSubscription:      {},
	models.FieldAvatarURL:         {},
}

func checkFields(fields map[string]interface{}) error {
	for name := range fields {
		if _, ok := updatableFields[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}
	return nil
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository ожидает *gorm.DB, открытый с TranslateError: true,
// иначе нарушение уникальности email не распознается
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepositoryImpl) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, "verification_token = ?", token)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create полагается на уникальный индекс по email: проверка до вставки
// не атомарна, поэтому конфликт определяется по ошибке БД
func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	if err := checkFields(fields); err != nil {
		return nil, err
	}

	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// RowsAffected не используется: MySQL возвращает 0 для неизменившейся строки
		if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// AutoMigrate создает/обновляет таблицу users
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}
