package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsByCode(t *testing.T) {
	cause := errors.New("connection reset")
	err := StoreFailure(cause)

	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDeliveryFailure)
	assert.Nil(t, ErrStoreFailure.Err, "predefined error must not be mutated")
}

func TestAppError_MarshalHidesCause(t *testing.T) {
	err := DeliveryFailure(errors.New("smtp: 535 auth failed for secret@host"))

	data, jsonErr := json.Marshal(err)
	require.NoError(t, jsonErr)
	assert.NotContains(t, string(data), "secret@host")
	assert.Contains(t, string(data), `"code":"DELIVERY_FAILURE"`)
}

func TestHTTPMapping(t *testing.T) {
	for _, tc := range []struct {
		err  *AppError
		code int
	}{
		{ErrEmailInUse, http.StatusConflict},
		{ErrAccountNotFound, http.StatusNotFound},
		{ErrTokenNotFound, http.StatusNotFound},
		{ErrAlreadyVerified, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrNotVerified, http.StatusUnauthorized},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrInvalidSubscriptionTier, http.StatusBadRequest},
		{StoreFailure(nil), http.StatusInternalServerError},
		{DeliveryFailure(nil), http.StatusServiceUnavailable},
		{PipelineFailure(nil), http.StatusInternalServerError},
		{InvalidImage(nil), http.StatusBadRequest},
	} {
		assert.Equal(t, tc.code, tc.err.HTTPCode, string(tc.err.Code))
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tc := range []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error", ErrEmailInUse, http.StatusConflict, "EMAIL_IN_USE"},
		{"wrapped app error", errors.Join(errors.New("ctx"), ErrNotVerified), http.StatusUnauthorized, "NOT_VERIFIED"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.True(t, c.IsAborted())

			var body map[string]map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body["error"]["code"])
			assert.NotContains(t, w.Body.String(), "boom")
		})
	}
}

func TestHandleError_DebugDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	(&GinErrorHandler{Debug: true}).HandleGinError(c, errors.New("boom"))

	assert.Contains(t, w.Body.String(), "boom")
}
