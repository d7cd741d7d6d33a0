// Файл: internal/api/middleware.go
package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"tanukibot/internal/utils"
)

// RequestIDHeader - заголовок с идентификатором запроса.
const RequestIDHeader = "X-Request-Id"

// requestIDKey - ключ для сохранения идентификатора запроса в контексте.
var requestIDKey = &contextKey{"RequestID"}

type contextKey struct {
	name string
}

// APITokenHeader - заголовок с токеном персонала.
const APITokenHeader = "X-Api-Token"

// TokenMiddleware проверяет заголовок X-Api-Token.
func TokenMiddleware(token string) func(http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APITokenHeader)
			if got == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: Missing "+APITokenHeader+" header")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
				logrus.WithField("remote", r.RemoteAddr).Warn("TokenMiddleware: неверный токен")
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID берет X-Request-Id из запроса или генерирует UUID и возвращает его в ответе.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = utils.GenerateUUID()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom возвращает идентификатор запроса из контекста.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestLogger пишет строку лога на каждый запрос через logrus.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logrus.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": RequestIDFrom(r.Context()),
			}).Debug("HTTP запрос")
		}()
		next.ServeHTTP(ww, r)
	})
}
