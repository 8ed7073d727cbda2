package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	dErrors "staffdir/pkg/domain-errors"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Path       string    `json:"path"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode"`
	Timestamp  time.Time `json:"timestamp"`
}

const internalErrorMessage = "An unexpected error occurred"

// now is swapped in tests to pin the error timestamp.
var now = func() time.Time { return time.Now().UTC() }

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteText writes a plain text body with the given status.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body)) //nolint:errcheck // headers already sent
}

// WriteError centralizes domain error translation to HTTP responses.
// Domain errors keep their message; anything else becomes a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := internalErrorMessage

	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		status = DomainCodeToHTTPStatus(domainErr.Code)
		if status != http.StatusInternalServerError && domainErr.Message != "" {
			message = domainErr.Message
		}
	}

	WriteJSON(w, status, ErrorResponse{
		Path:       r.URL.Path,
		Message:    message,
		StatusCode: status,
		Timestamp:  now(),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeFileUpload, dErrors.CodeInvalidDelimiter, dErrors.CodeCSVParsing, dErrors.CodeConstraintViolation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
