package auth

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// VerificationTokenLength - 21 символ URL-safe алфавита (~126 бит),
// коллизии не проверяются
const VerificationTokenLength = 21

// NewVerificationToken генерирует одноразовый токен подтверждения email
func NewVerificationToken() (string, error) {
	return gonanoid.New(VerificationTokenLength)
}
