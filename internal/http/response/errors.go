package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
	"github.com/magabrotheeeer/drhope-gateway/internal/services/documents"
	"github.com/magabrotheeeer/drhope-gateway/internal/services/storefront"
)

// StatusCode подбирает HTTP-статус для ошибки операции.
func StatusCode(err error) int {
	var (
		authErr   *storefront.AuthError
		valErr    *storefront.ValidationError
		unsettled *storefront.UnsettledGiftError
		apiErr    *drhope.APIError
	)
	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &valErr), errors.Is(err, storefront.ErrSelfGift):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storefront.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, storefront.ErrNoAccess):
		return http.StatusForbidden
	case errors.Is(err, storefront.ErrCartItemNotFound), errors.Is(err, storefront.ErrWorkshopNotFound):
		return http.StatusNotFound
	case errors.As(err, &unsettled):
		return http.StatusInternalServerError
	case errors.Is(err, documents.ErrInvalidSubscriptionID):
		return http.StatusBadRequest
	case errors.Is(err, documents.ErrRendererUnavailable):
		return http.StatusNotImplemented
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, drhope.ErrTransport), errors.Is(err, drhope.ErrUnexpectedResponse),
		errors.Is(err, storefront.ErrContentUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Fail пишет ответ с ошибкой операции. Отказ входа несёт причину в data.reason.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, StatusCode(err))

	var authErr *storefront.AuthError
	if errors.As(err, &authErr) {
		render.JSON(w, r, ErrorWithData(authErr.Message, map[string]string{"reason": authErr.Reason}))
		return
	}
	var valErr *storefront.ValidationError
	if errors.As(err, &valErr) {
		render.JSON(w, r, ErrorWithData(valErr.Message, map[string]string{"field": valErr.Field}))
		return
	}
	var unsettled *storefront.UnsettledGiftError
	if errors.As(err, &unsettled) {
		render.JSON(w, r, ErrorWithData(storefront.UserMessage(err), map[string]any{
			"gift_id":         unsettled.GiftID,
			"subscription_id": unsettled.SubscriptionID,
		}))
		return
	}
	render.JSON(w, r, Error(storefront.UserMessage(err)))
}
