package auth

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const gravatarBaseURL = "//www.gravatar.com/avatar/"

// GravatarURL возвращает ссылку на аватар по умолчанию для email
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return gravatarBaseURL + hex.EncodeToString(sum[:])
}
