package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// errorStatus maps domain errors to HTTP status codes. Every handler that
// touches the confirmation or ledger surface goes through this table.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrAlreadyResolved), errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrExpired):
		return http.StatusGone
	case errors.Is(err, domainErrors.ErrInvalidStateTransition),
		errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.Is(err, domainErrors.ErrInvalidPaymentKind):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrInvalidAction),
		errors.Is(err, domainErrors.ErrInvalidOrder),
		errors.Is(err, domainErrors.ErrReasonRequired),
		errors.Is(err, domainErrors.ErrInvoiceRequired):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrDependencyFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicSentinels are the domain errors whose text is safe to return to
// clients. Anything else (wrapped gateway or storage detail) is replaced with
// a generic message; the full chain still reaches the request log.
var publicSentinels = []error{
	domainErrors.ErrNotFound,
	domainErrors.ErrNotAuthorized,
	domainErrors.ErrAlreadyResolved,
	domainErrors.ErrAlreadyExists,
	domainErrors.ErrInvalidCredentials,
	domainErrors.ErrExpired,
	domainErrors.ErrInvalidStateTransition,
	domainErrors.ErrInvalidAmount,
	domainErrors.ErrInvalidPaymentKind,
	domainErrors.ErrInvalidAction,
	domainErrors.ErrInvalidOrder,
	domainErrors.ErrReasonRequired,
	domainErrors.ErrInvoiceRequired,
	domainErrors.ErrDependencyFailure,
}

func publicMessage(err error) string {
	for _, sentinel := range publicSentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal server error"
}

// abortWithError terminates the request with the mapped status and a small
// JSON body carrying the sanitized reason. The original error is attached to
// the context for the request logger.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(errorStatus(err), gin.H{"error": publicMessage(err)})
}
