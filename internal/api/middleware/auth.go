package middleware

import (
	"net/http"

	"github.com/m04kA/SMC-AllocationService/internal/api/handlers"
)

// Auth проверяет наличие заголовка X-User-ID
// Идентификацию выполняет API gateway, здесь только защита от прямых вызовов
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-ID") == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "missing X-User-ID header")
			return
		}
		next.ServeHTTP(w, r)
	})
}
