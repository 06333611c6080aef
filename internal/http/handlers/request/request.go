// Package request — общие шаги обработчиков: разбор тела, параметры пути, сессия.
package request

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/drhope-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/response"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
)

// DecodeAndValidate читает JSON-тело в dst и проверяет его тегами validate.
// При ошибке ответ уже записан и возвращается false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, log *slog.Logger, v *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}
	if err := v.Struct(dst); err != nil {
		log.Warn("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		render.Status(r, http.StatusUnprocessableEntity)
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return false
		}
		render.JSON(w, r, response.Error("invalid request"))
		return false
	}
	return true
}

// Session возвращает идентификатор сессии из контекста.
func Session(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	sid, ok := middlewarectx.SessionIDFromContext(r.Context())
	if !ok {
		log.Error("session id missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("session required"))
		return "", false
	}
	return sid, true
}

// IntParam читает положительный целый параметр пути.
func IntParam(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warn("invalid path parameter", slog.String("param", name), slog.String("value", raw))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid "+name))
		return 0, false
	}
	return n, true
}
