package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mwork_accounts/internal/models"

	"github.com/google/uuid"
)

// memoryUserRepository - UserRepository в памяти процесса (driver "memory", тесты).
// Все операции под одним мьютексом, поэтому уникальность email атомарна.
type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *memoryUserRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrUserNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if user.VerificationToken != nil && *user.VerificationToken == token {
			return cloneUser(user), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return ErrUserAlreadyExists
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = cloneUser(user)
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkFields(fields); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	updated := cloneUser(stored)
	for name, value := range fields {
		if err := applyField(updated, name, value); err != nil {
			return nil, err
		}
	}
	updated.UpdatedAt = time.Now()

	r.byID[id] = updated
	return cloneUser(updated), nil
}

func applyField(user *models.User, name string, value interface{}) error {
	switch name {
	case models.FieldVerified:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field %s: expected bool, got %T", name, value)
		}
		user.Verified = v
	case models.FieldVerificationToken:
		p, err := nullableString(name, value)
		if err != nil {
			return err
		}
		user.VerificationToken = p
	case models.FieldToken:
		p, err := nullableString(name, value)
		if err != nil {
			return err
		}
		user.Token = p
	case models.FieldSubscription:
		switch v := value.(type) {
		case models.SubscriptionTier:
			user.Subscription = v
		case string:
			user.Subscription = models.SubscriptionTier(v)
		default:
			return fmt.Errorf("field %s: expected subscription tier, got %T", name, value)
		}
	case models.FieldAvatarURL:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string, got %T", name, value)
		}
		user.AvatarURL = v
	}
	return nil
}

func nullableString(name string, value interface{}) (*string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case *string:
		if v == nil {
			return nil, nil
		}
		s := *v
		return &s, nil
	default:
		return nil, fmt.Errorf("field %s: expected string or nil, got %T", name, value)
	}
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	if u.VerificationToken != nil {
		v := *u.VerificationToken
		cp.VerificationToken = &v
	}
	if u.Token != nil {
		v := *u.Token
		cp.Token = &v
	}
	return &cp
}
