package middleware

import (
	"net/http"
	"strings"

	"github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers"
)

const msgAdminOnly = "forbidden"

// RequireAdmin пропускает только пользователей из списка администраторов
// Должен стоять после Auth
func RequireAdmin(adminEmails []string, logger Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			allowed[email] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}
			if _, ok := allowed[normalizeEmail(user.Email)]; !ok || user.Email == "" {
				logger.Warn("RequireAdmin: user=%s is not an admin", user.ID)
				handlers.RespondForbidden(w, msgAdminOnly)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
