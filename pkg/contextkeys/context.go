package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// UserIDKey - ID аутентифицированного аккаунта в gin.Context
	UserIDKey = contextKey("userID")

	// UserKey - загруженный *models.User аутентифицированного аккаунта
	UserKey = contextKey("user")
)

// String возвращает ключ для c.Set / c.Get
func (k contextKey) String() string {
	return string(k)
}
