package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"mwork_accounts/internal/logger"
	"mwork_accounts/internal/middleware"
	"mwork_accounts/internal/models"
	"mwork_accounts/internal/services/dto"
	"mwork_accounts/internal/validator"
	"mwork_accounts/pkg/apperrors"
	"mwork_accounts/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

func setupRouter(t *testing.T, svc *MockAuthService, upload UploadOptions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	v := validator.New()
	binding.Validator = v

	h := NewUserHandler(NewBaseHandler(v), svc, upload)
	r := gin.New()
	// Вместо AuthMiddleware: аккаунт всегда авторизован
	fakeAuth := func(c *gin.Context) {
		c.Set(contextkeys.UserIDKey.String(), testUserID)
		c.Next()
	}
	h.RegisterRoutes(r.Group("/api"), fakeAuth)
	return r
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/users/avatars", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRegister_Created(t *testing.T) {
	svc := new(MockAuthService)
	r := setupRouter(t, svc, UploadOptions{})

	svc.On("Register", mock.Anything, &dto.RegisterRequest{Email: "a@example.com", Password: "pw"}).
		Return(&dto.UserResponse{Email: "a@example.com", Subscription: models.SubscriptionStarter}, nil)

	w := serve(r, jsonRequest(http.MethodPost, "/api/users/register", `{"email":"a@example.com","password":"pw"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"user":{"email":"a@example.com","subscription":"starter"}}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestRegister_ValidationFailed(t *testing.T) {
	svc := new(MockAuthService)
	r := setupRouter(t, svc, UploadOptions{})

	w := serve(r, jsonRequest(http.MethodPost, "/api/users/register", `{"email":"nope","password":""}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"VALIDATION_FAILED"`)
	assert.Contains(t, w.Body.String(), `"email"`)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_MalformedBody(t *testing.T) {
	svc := new(MockAuthService)
	r := setupRouter(t, svc, UploadOptions{})

	w := serve(r, jsonRequest(http.MethodPost, "/api/users/register", `{"email":`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestRegister_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"email in use", apperrors.ErrEmailInUse, http.StatusConflict, "EMAIL_IN_USE"},
		{"delivery", apperrors.DeliveryFailure(errors.New("smtp down")), http.StatusServiceUnavailable, "DELIVERY_FAILURE"},
		{"store", apperrors.StoreFailure(errors.New("db down")), http.StatusInternalServerError, "STORE_FAILURE"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			r := setupRouter(t, svc, UploadOptions{})
			svc.On("Register", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(r, jsonRequest(http.MethodPost, "/api/users/register", `{"email":"a@example.com","password":"pw"}`))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"`+tt.code+`"`)
			assert.NotContains(t, w.Body.String(), "db down")
		})
	}
}

func TestVerifyEmail(t *testing.T) {
	svc := new(MockAuthService)
	r := setupRouter(t, svc, UploadOptions{})

	svc.On("VerifyEmail", mock.Anything, "good").Return(nil)
	svc.On("VerifyEmail", mock.Anything, "bad").Return(apperrors.ErrTokenNotFound)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/users/verify/good", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Verification successful"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/users/verify/bad", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"TOKEN_NOT_FOUND"`)
}

func TestResendVerifyEmail(t *testing.T) {
	svc := new(MockAuthService)
	r := setupRouter(t, svc, UploadOptions{})

	svc.On("ResendVerifyEmail", mock.Anything, "a@example.com").Return(nil)

	w := serve(r, jsonRequest(http.MethodPost, "/api/users/verify", `{"email":"a@example.com"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Verification email sent"}`, w.Body.String())

	w = serve(r, jsonRequest(http.MethodPost, "/api/users/verify", `{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "ResendVerifyEmail", 1)
}

func TestLogin(t *testing.T) {
	svc := new(MockAuthService)
	r := setupRouter(t, svc, UploadOptions{})

	svc.On("Login", mock.Anything, &dto.LoginRequest{Email: "a@example.com", Password: "pw"}).
		Return(&dto.LoginResponse{
			Token: "jwt",
			User:  dto.UserResponse{Email: "a@example.com", Subscription: models.SubscriptionPro},
		}, nil)
	svc.On("Login", mock.Anything, &dto.LoginRequest{Email: "a@example.com", Password: "bad"}).
		Return(nil, apperrors.ErrInvalidCredentials)

	w := serve(r, jsonRequest(http.MethodPost, "/api/users/login", `{"email":"a@example.com","password":"pw"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"jwt","user":{"email":"a@example.com","subscription":"pro"}}`, w.Body.String())

	w = serve(r, jsonRequest(http.MethodPost, "/api/users/login", `{"email":"a@example.com","password":"bad"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"INVALID_CREDENTIALS"`)
}

func TestCurrentAndLogout(t *testing.T) {
	svc := new(MockAuthService)
	r := setupRouter(t, svc, UploadOptions{})

	svc.On("Current", mock.Anything, testUserID).
		Return(&dto.UserResponse{Email: "a@example.com", Subscription: models.SubscriptionBusiness}, nil)
	svc.On("Logout", mock.Anything, testUserID).Return(nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/users/current", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@example.com","subscription":"business"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodPost, "/api/users/logout", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	svc.AssertExpectations(t)
}

func TestUpdateSubscription(t *testing.T) {
	svc := new(MockAuthService)
	r := setupRouter(t, svc, UploadOptions{})

	svc.On("UpdateSubscription", mock.Anything, testUserID, models.SubscriptionPro).
		Return(&dto.UserResponse{Email: "a@example.com", Subscription: models.SubscriptionPro}, nil)
	svc.On("UpdateSubscription", mock.Anything, testUserID, models.SubscriptionTier("gold")).
		Return(nil, apperrors.ErrInvalidSubscriptionTier)

	w := serve(r, jsonRequest(http.MethodPatch, "/api/users", `{"subscription":"pro"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":{"email":"a@example.com","subscription":"pro"}}`, w.Body.String())

	w = serve(r, jsonRequest(http.MethodPatch, "/api/users", `{"subscription":"gold"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"INVALID_SUBSCRIPTION_TIER"`)
}

func TestUpdateAvatar_StagesUpload(t *testing.T) {
	svc := new(MockAuthService)
	tmpDir := t.TempDir()
	r := setupRouter(t, svc, UploadOptions{TmpDir: tmpDir, MaxSize: 1024})

	var staged dto.StagedUpload
	svc.On("UpdateAvatar", mock.Anything, testUserID, mock.AnythingOfType("dto.StagedUpload")).
		Run(func(args mock.Arguments) {
			staged = args.Get(2).(dto.StagedUpload)
			data, err := os.ReadFile(staged.TempPath)
			require.NoError(t, err)
			assert.Equal(t, "image-bytes", string(data))
		}).
		Return(&dto.AvatarResponse{AvatarURL: "avatars/user-1_me.png"}, nil)

	w := serve(r, multipartRequest(t, "avatar", "me.png", []byte("image-bytes")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"avatarURL":"avatars/user-1_me.png"}`, w.Body.String())
	assert.Equal(t, "me.png", staged.OriginalFilename)

	// файл, не забранный конвейером, удаляется
	_, err := os.Stat(staged.TempPath)
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateAvatar_RejectsBadUploads(t *testing.T) {
	svc := new(MockAuthService)
	tmpDir := t.TempDir()
	r := setupRouter(t, svc, UploadOptions{TmpDir: tmpDir, MaxSize: 4})

	w := serve(r, multipartRequest(t, "file", "me.png", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Avatar file is required")

	w = serve(r, multipartRequest(t, "avatar", "me.png", []byte("too large")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	svc.AssertNotCalled(t, "UpdateAvatar", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAvatar_InvalidImage(t *testing.T) {
	svc := new(MockAuthService)
	tmpDir := t.TempDir()
	r := setupRouter(t, svc, UploadOptions{TmpDir: tmpDir})

	svc.On("UpdateAvatar", mock.Anything, testUserID, mock.Anything).
		Return(nil, apperrors.InvalidImage(errors.New("not an image")))

	w := serve(r, multipartRequest(t, "avatar", "notes.txt", []byte("hello")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetAndAuthorizeUserID_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h := NewBaseHandler(validator.New())
	_, ok := h.GetAndAuthorizeUserID(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateAvatar_BodyLimitedBeforeParsing(t *testing.T) {
	svc := new(MockAuthService)
	tmpDir := t.TempDir()
	r := setupRouter(t, svc, UploadOptions{TmpDir: tmpDir, MaxSize: 1024})

	w := serve(r, multipartRequest(t, "avatar", "big.png", bytes.Repeat([]byte("x"), 200<<10)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds 1024 bytes")
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	svc.AssertNotCalled(t, "UpdateAvatar", mock.Anything, mock.Anything, mock.Anything)
}

func TestCurrent_UsesAccountLoadedByMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(MockAuthService)
	v := validator.New()
	binding.Validator = v
	h := NewUserHandler(NewBaseHandler(v), svc, UploadOptions{})

	user := &models.User{Email: "a@example.com", Subscription: models.SubscriptionPro}
	user.ID = testUserID
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"), func(c *gin.Context) {
		c.Set(contextkeys.UserIDKey.String(), user.ID)
		c.Set(contextkeys.UserKey.String(), user)
		c.Next()
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/users/current", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@example.com","subscription":"pro"}`, w.Body.String())
	svc.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
}

func TestVerifyEmail_TokenNotWrittenToLogs(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("production", &buf)
	t.Cleanup(func() { logger.Init("development") })

	gin.SetMode(gin.TestMode)
	svc := new(MockAuthService)
	v := validator.New()
	binding.Validator = v
	h := NewUserHandler(NewBaseHandler(v), svc, UploadOptions{})

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.LoggingMiddleware())
	h.RegisterRoutes(r.Group("/api"), func(c *gin.Context) { c.Next() })

	const secret = "SECRETtokenVALUE12345"
	svc.On("VerifyEmail", mock.Anything, secret).Return(apperrors.ErrTokenNotFound)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/users/verify/"+secret, nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	logs := buf.String()
	assert.Contains(t, logs, "/api/users/verify/:verificationToken")
	assert.Contains(t, logs, "Service error")
	assert.NotContains(t, logs, secret)
}
