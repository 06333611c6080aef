// Package middlewarectx содержит HTTP middleware шлюза: проверку
// сессионного JWT браузера и ограничение частоты запросов на сессию.
//
// SessionMiddleware достаёт идентификатор сессии из заголовка Authorization
// и кладёт его в контекст запроса. Токен Dr. Hope в браузер не попадает.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/drhope-gateway/internal/http/response"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionID — ключ идентификатора сессии в контексте.
const SessionID Key = "session_id"

// WithSessionID кладёт идентификатор сессии в контекст.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionID, sessionID)
}

// SessionIDFromContext достаёт идентификатор сессии из контекста.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(SessionID).(string)
	return sid, ok && sid != ""
}

// SessionMiddleware проверяет сессионный JWT в заголовке Authorization.
func SessionMiddleware(maker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}

			claims, err := maker.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Warn("invalid or expired session token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired session token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), claims.SessionID)))
		})
	}
}
