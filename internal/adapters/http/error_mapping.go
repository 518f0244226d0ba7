package httpadapter

import (
	"net/http"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// Temporary is checked before EngineFailed: transient engine errors carry
// both kinds and should steer clients toward retrying.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrFeatureNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrPreconditionViolation):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrEngineFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
