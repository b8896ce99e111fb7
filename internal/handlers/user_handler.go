package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"mwork_accounts/internal/logger"
	"mwork_accounts/internal/middleware"
	"mwork_accounts/internal/services"
	"mwork_accounts/internal/services/dto"
	"mwork_accounts/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	avatarFormField = "avatar"
	// запас на заголовки и границы multipart сверх MaxSize
	multipartOverhead = 64 << 10
)

// UploadOptions - параметры приема multipart файла
type UploadOptions struct {
	TmpDir  string
	MaxSize int64
}

type UserHandler struct {
	*BaseHandler
	authService services.AuthService
	upload      UploadOptions
}

func NewUserHandler(base *BaseHandler, authService services.AuthService, upload UploadOptions) *UserHandler {
	if upload.TmpDir == "" {
		upload.TmpDir = os.TempDir()
	}
	return &UserHandler{
		BaseHandler: base,
		authService: authService,
		upload:      upload,
	}
}

// RegisterRoutes регистрирует маршруты /users; authMW защищает маршруты сессии
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/register", h.Register)
		users.GET("/verify/:verificationToken", h.VerifyEmail)
		users.POST("/verify", h.ResendVerifyEmail)
		users.POST("/login", h.Login)
	}

	protected := users.Group("")
	protected.Use(authMW)
	{
		protected.GET("/current", h.Current)
		protected.POST("/logout", h.Logout)
		protected.PATCH("", h.UpdateSubscription)
		protected.PATCH("/avatars", h.UpdateAvatar)
	}
}

// Register godoc
// @Summary      Регистрация аккаунта
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "email и пароль"
// @Success      201   {object}  dto.UserEnvelope
// @Failure      400   {object}  apperrors.ErrorResponse
// @Failure      409   {object}  apperrors.ErrorResponse
// @Failure      503   {object}  apperrors.ErrorResponse
// @Router       /api/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UserEnvelope{User: *user})
}

// VerifyEmail godoc
// @Summary      Подтверждение email по одноразовому токену
// @Tags         users
// @Produce      json
// @Param        verificationToken  path      string  true  "токен из письма"
// @Success      200                {object}  dto.MessageResponse
// @Failure      404                {object}  apperrors.ErrorResponse
// @Router       /api/users/verify/{verificationToken} [get]
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	if err := h.authService.VerifyEmail(c.Request.Context(), c.Param("verificationToken")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification successful"})
}

// ResendVerifyEmail godoc
// @Summary      Повторная отправка письма подтверждения
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ResendVerifyRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  apperrors.ErrorResponse
// @Failure      404   {object}  apperrors.ErrorResponse
// @Router       /api/users/verify [post]
func (h *UserHandler) ResendVerifyEmail(c *gin.Context) {
	var req dto.ResendVerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResendVerifyEmail(c.Request.Context(), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification email sent"})
}

// Login godoc
// @Summary      Вход
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "email и пароль"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  apperrors.ErrorResponse
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Current godoc
// @Summary      Текущий аккаунт
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  apperrors.ErrorResponse
// @Router       /api/users/current [get]
func (h *UserHandler) Current(c *gin.Context) {
	// Аккаунт уже загружен AuthMiddleware
	if user, ok := middleware.GetUser(c); ok {
		c.JSON(http.StatusOK, dto.NewUserResponse(user))
		return
	}

	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.Current(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout godoc
// @Summary      Выход
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  apperrors.ErrorResponse
// @Router       /api/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateSubscription godoc
// @Summary      Смена подписки
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.SubscriptionRequest  true  "starter | pro | business"
// @Success      200   {object}  dto.UserEnvelope
// @Failure      400   {object}  apperrors.ErrorResponse
// @Failure      401   {object}  apperrors.ErrorResponse
// @Router       /api/users [patch]
func (h *UserHandler) UpdateSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubscriptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateSubscription(c.Request.Context(), userID, req.Subscription)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserEnvelope{User: *user})
}

// UpdateAvatar godoc
// @Summary      Загрузка аватара (250x250)
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "изображение"
// @Success      200     {object}  dto.AvatarResponse
// @Failure      400     {object}  apperrors.ErrorResponse
// @Failure      401     {object}  apperrors.ErrorResponse
// @Failure      500     {object}  apperrors.ErrorResponse
// @Router       /api/users/avatars [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	upload, cleanup, err := h.stageUpload(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer cleanup()

	resp, err := h.authService.UpdateAvatar(c.Request.Context(), userID, upload)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// stageUpload сохраняет multipart файл во временный каталог.
// cleanup удаляет файл, если конвейер его не забрал.
func (h *UserHandler) stageUpload(c *gin.Context) (dto.StagedUpload, func(), error) {
	ctx := c.Request.Context()

	tooLarge := apperrors.NewBadRequestError(fmt.Sprintf("Avatar file exceeds %d bytes", h.upload.MaxSize))
	if h.upload.MaxSize > 0 {
		// Тело обрезается до разбора multipart, а не после
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.upload.MaxSize+multipartOverhead)
	}

	file, err := c.FormFile(avatarFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return dto.StagedUpload{}, nil, tooLarge
		}
		return dto.StagedUpload{}, nil, apperrors.NewBadRequestError("Avatar file is required")
	}
	if h.upload.MaxSize > 0 && file.Size > h.upload.MaxSize {
		return dto.StagedUpload{}, nil, tooLarge
	}

	if err := os.MkdirAll(h.upload.TmpDir, 0755); err != nil {
		return dto.StagedUpload{}, nil, apperrors.InternalError(err)
	}
	tmp, err := os.CreateTemp(h.upload.TmpDir, "avatar-*")
	if err != nil {
		return dto.StagedUpload{}, nil, apperrors.InternalError(err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	cleanup := func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.CtxWithError(ctx, "failed to remove staged upload", err, "path", tmpPath)
		}
	}

	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		cleanup()
		return dto.StagedUpload{}, nil, apperrors.InternalError(err)
	}

	return dto.StagedUpload{TempPath: tmpPath, OriginalFilename: file.Filename}, cleanup, nil
}
