package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mwork_accounts/internal/auth"
	"mwork_accounts/internal/email"
	"mwork_accounts/internal/imageprocessor"
	"mwork_accounts/internal/models"
	"mwork_accounts/internal/repositories"
	"mwork_accounts/internal/storage"

	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:3000"

type recordingMailer struct {
	mu   sync.Mutex
	sent []*email.Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, e *email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) last() *email.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	repo     repositories.UserRepository
	mailer   *recordingMailer
	storage  *storage.LocalStorage
	tokens   *auth.TokenManager
	sessions SessionService
	auth     AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := repositories.NewMemoryUserRepository()
	mailer := &recordingMailer{}

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	container := NewServiceContainer(Dependencies{
		UserRepo:  repo,
		Hasher:    auth.NewPasswordHasher(4),
		Tokens:    tokens,
		Storage:   store,
		Resizer:   imageprocessor.NewProcessor(60, 250, 0),
		Mailer:    mailer,
		Templates: email.NewTemplateManager(),
		Auth:      AuthConfig{BaseURL: testBaseURL + "/"},
	})

	return &testEnv{
		repo:     repo,
		mailer:   mailer,
		storage:  store,
		tokens:   tokens,
		sessions: container.SessionService,
		auth:     container.AuthService,
	}
}

func (e *testEnv) user(t *testing.T, emailAddr string) *models.User {
	t.Helper()
	u, err := e.repo.FindByEmail(context.Background(), emailAddr)
	require.NoError(t, err)
	return u
}

// failingRepo отдает ошибку хранилища на все вызовы
type failingRepo struct {
	repositories.UserRepository
}

var errStoreDown = errors.New("store is down")

func (failingRepo) FindByID(context.Context, string) (*models.User, error) {
	return nil, errStoreDown
}

func (failingRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, errStoreDown
}

func (failingRepo) Create(context.Context, *models.User) error {
	return errStoreDown
}
