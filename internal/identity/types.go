package identity

// User — представление пользователя бэкенда идентификации.
// Профильные поля регистрации/приглашения живут в UserMetadata.
type User struct {
	ID           string         `json:"id"`
	Aud          string         `json:"aud,omitempty"`
	Role         string         `json:"role,omitempty"`
	Email        string         `json:"email"`
	ConfirmedAt  string         `json:"confirmed_at,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    string         `json:"created_at,omitempty"`
	UpdatedAt    string         `json:"updated_at,omitempty"`
}

// Session — тройка {access_token, refresh_token, user}, выдаваемая бэкендом.
// Шлюз её не хранит: живёт один цикл запрос/ответ, дальше — пара кук.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Profile — метаданные пользователя, передаваемые бэкенду при
// регистрации и приглашении.
type Profile struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
}

// CtxKey — ключи контекста, общие для HTTP-слоя и клиента бэкенда.
type CtxKey string

const (
	// CtxRequestID — сквозной идентификатор запроса (X-Request-Id).
	CtxRequestID CtxKey = "request_id"
	// CtxAuthToken — access-токен вызывающего (после Authenticate —
	// актуальный, с учётом ротации).
	CtxAuthToken CtxKey = "auth_token"
	// CtxUser — пользователь, установленный процедурой аутентификации.
	CtxUser CtxKey = "user"
)
