package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
)

const msgInvalidCronToken = "некорректный токен планировщика"

// CronAuth защищает cron-эндпоинты статическим токеном из конфигурации
func CronAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Cron-Token")
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				handlers.RespondUnauthorized(w, msgInvalidCronToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
