package handler

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"nugget/internal/domain"
	"nugget/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Schema validation
// failures carry their per-field errors in the problem body. Errors that
// map to no domain sentinel are logged with the failing operation before
// the 500 goes out; the response body never carries internals.
func handleError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var conflictErr *domain.ConflictError
	var fieldErrs validation.Errors

	switch {
	case errors.As(err, &fieldErrs):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "invalid request", map[string]interface{}{
			"errors": fieldErrs,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondJSON(w, http.StatusConflict, map[string]interface{}{
			"detail":        conflictErr.Message,
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "op", op, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireUserID extracts the authenticated user id, writing a 401 when the
// auth middleware did not populate one.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}
