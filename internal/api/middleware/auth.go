package middleware

import (
	"context"
	"net/http"

	"github.com/peluqueriacool/PC-ReservationService/internal/api/handlers"
)

// StaffIDHeader заголовок с идентификатором сотрудника салона
// Аутентификация делегирована внешнему прокси: доверяем заголовку как есть
const StaffIDHeader = "X-Staff-ID"

type contextKey string

const staffIDKey contextKey = "staffID"

// Auth проверяет наличие заголовка X-Staff-ID и кладет его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID := r.Header.Get(StaffIDHeader)
		if staffID == "" {
			handlers.RespondUnauthorized(w, "missing "+StaffIDHeader+" header")
			return
		}

		ctx := context.WithValue(r.Context(), staffIDKey, staffID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetStaffID возвращает идентификатор сотрудника из контекста
func GetStaffID(ctx context.Context) (string, bool) {
	staffID, ok := ctx.Value(staffIDKey).(string)
	return staffID, ok
}
