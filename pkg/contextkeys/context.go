package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ, по которому хранится *gorm.DB в context
const DBContextKey = contextKey("db")

// Ключи gin.Context, которые выставляет auth middleware.
const (
	UserIDKey   = "userID"
	UserTypeKey = "userType"
)
