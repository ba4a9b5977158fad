package httpserver

import (
	"errors"
	"net/http"

	accesserrors "ledgervote/contexts/governance/access-control/domain/errors"
	accesshttp "ledgervote/contexts/governance/access-control/transport/http"
	engineerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	enginehttp "ledgervote/contexts/governance/election-engine/transport/http"
	mirrorerrors "ledgervote/contexts/governance/election-mirror/domain/errors"
	mirrorhttp "ledgervote/contexts/governance/election-mirror/transport/http"
)

func writeAccessDomainError(w http.ResponseWriter, err error) {
	kind, ok := accesserrors.KindOf(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, accesshttp.ErrorResponse{Code: "internal_error", Message: "internal server error"})
		return
	}
	writeJSON(w, statusForKind(string(kind)), accesshttp.ErrorResponse{Code: string(kind), Message: err.Error()})
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	kind, ok := engineerrors.KindOf(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, enginehttp.ErrorResponse{Code: "internal_error", Message: "internal server error"})
		return
	}
	writeJSON(w, statusForKind(string(kind)), enginehttp.ErrorResponse{Code: string(kind), Message: err.Error()})
}

func writeMirrorDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mirrorerrors.ErrElectionNotFound),
		errors.Is(err, mirrorerrors.ErrPrincipalNotFound):
		writeJSON(w, http.StatusNotFound, mirrorhttp.ErrorResponse{Code: "not_found", Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, mirrorhttp.ErrorResponse{Code: "internal_error", Message: "internal server error"})
	}
}

// statusForKind maps the error kinds shared by the governance modules.
func statusForKind(kind string) int {
	switch kind {
	case "access_denied":
		return http.StatusForbidden
	case "not_found":
		return http.StatusNotFound
	case "validation":
		return http.StatusBadRequest
	case "state", "duplicate":
		return http.StatusConflict
	case "temporal":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, enginehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
