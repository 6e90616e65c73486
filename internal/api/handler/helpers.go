package handler

import (
	"errors"
	"net/http"

	"judgeback/internal/api/middleware"
	"judgeback/internal/common"
	"judgeback/internal/common/validate"
	"judgeback/internal/domain/model"
)

// respondServiceError converts a service error into the wire error format,
// keeping field-level detail for validation failures.
func respondServiceError(w http.ResponseWriter, err error) {
	var fieldErrs *validate.FieldErrors
	if errors.As(err, &fieldErrs) {
		common.RespondWithFieldErrors(w, http.StatusBadRequest, common.ErrValidation.Error(), fieldErrs.Fields())
		return
	}
	common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
}

// judgeFromRequest returns the caller's judge profile. Routes using it are
// capability-gated, so a missing profile here means a wiring bug; it still
// fails closed.
func judgeFromRequest(w http.ResponseWriter, r *http.Request) (*model.Judge, bool) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok || principal.Judge == nil {
		common.RespondWithError(w, http.StatusForbidden, "Judge profile required")
		return nil, false
	}
	return principal.Judge, true
}
