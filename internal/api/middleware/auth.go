package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers"
)

type contextKey string

const userKey contextKey = "user"

const (
	msgMissingToken = "missing bearer token"
	msgInvalidToken = "invalid token"
)

var errNoSubject = errors.New("token has no subject")

// User пользователь, извлеченный из токена
type User struct {
	ID    string
	Email string
	Name  string
}

// Claims поля токена, выдаваемого сервисом идентификации
// Идентификатор пользователя берется из sub, а при его отсутствии из user_id
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Authenticator проверяет Bearer JWT (HS256) и кладет пользователя в контекст
type Authenticator struct {
	secret          []byte
	allowUnverified bool
	parser          *jwt.Parser
	logger          Logger
}

// NewAuthenticator создает middleware аутентификации
// allowUnverified отключает проверку подписи, только для локальной разработки
func NewAuthenticator(secret string, allowUnverified bool, logger Logger) *Authenticator {
	return &Authenticator{
		secret:          []byte(secret),
		allowUnverified: allowUnverified,
		parser:          jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		logger:          logger,
	}
}

// Auth middleware для защищенных маршрутов
func (a *Authenticator) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		user, err := a.parse(token)
		if err != nil {
			a.logger.Warn("Auth: rejected token for %s %s: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *Authenticator) parse(raw string) (User, error) {
	claims := &Claims{}
	if a.allowUnverified {
		if _, _, err := a.parser.ParseUnverified(raw, claims); err != nil {
			return User{}, err
		}
	} else {
		_, err := a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return a.secret, nil
		})
		if err != nil {
			return User{}, err
		}
	}

	id := claims.Subject
	if id == "" {
		id = claims.UserID
	}
	if id == "" {
		return User{}, errNoSubject
	}

	return User{ID: id, Email: claims.Email, Name: claims.Name}, nil
}

// WithUser кладет пользователя в контекст
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser извлекает пользователя из контекста
func GetUser(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	return user, ok
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (string, bool) {
	user, ok := GetUser(ctx)
	if !ok || user.ID == "" {
		return "", false
	}
	return user.ID, true
}
