package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"campus/internal/model"
	"campus/pkg/apierror"
)

func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}

// writeAPIError renders an apierror envelope. Anything else is reported as a 500.
func writeAPIError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{Code: "INTERNAL_ERROR", Message: "Unexpected server error"}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	}
	if errors.Is(err, model.ErrUnauthorized) {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{Success: false, Error: body})
}
