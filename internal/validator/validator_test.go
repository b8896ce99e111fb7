package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=3"`
	Tier     string `json:"subscription,omitempty" binding:"is-subscription"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&signup{Email: "not-an-email", Tier: "gold"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Equal(t, "This field is required", vErr.Errors["password"])
	assert.Equal(t, "Must be one of: starter, pro, business", vErr.Errors["subscription"])
	assert.Contains(t, vErr.Error(), "Validation failed")
}

func TestValidate_OK(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&signup{Email: "a@x.com", Password: "pw1"}))
	assert.NoError(t, v.Validate(&signup{Email: "a@x.com", Password: "pw1", Tier: "pro"}))
}

func TestValidateStruct_NonStruct(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct(map[string]string{"a": "b"}))
	var nilPtr *signup
	assert.NoError(t, v.ValidateStruct(nilPtr))
	assert.NotNil(t, v.Engine())
}
