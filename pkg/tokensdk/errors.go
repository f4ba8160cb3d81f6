package tokensdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeUnauthorized      = "unauthorized"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeTokenExpired      = "token_expired"
	ErrorCodeCryptoFailure     = "crypto_failure"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeConflict          = "conflict"
	ErrorCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// APIError is a non-2xx reply of the service.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches any *APIError with the same code, so the predefined errors
// below work with errors.Is.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidRequest    = &APIError{StatusCode: http.StatusBadRequest, Code: ErrorCodeInvalidRequest}
	ErrUnauthorized      = &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeUnauthorized}
	ErrInvalidToken      = &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeInvalidToken}
	ErrTokenExpired      = &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeTokenExpired}
	ErrCryptoFailure     = &APIError{StatusCode: http.StatusUnprocessableEntity, Code: ErrorCodeCryptoFailure}
	ErrNotFound          = &APIError{StatusCode: http.StatusNotFound, Code: ErrorCodeNotFound}
	ErrConflict          = &APIError{StatusCode: http.StatusConflict, Code: ErrorCodeConflict}
	ErrRateLimitExceeded = &APIError{StatusCode: http.StatusTooManyRequests, Code: ErrorCodeRateLimitExceeded}
	ErrServerError       = &APIError{StatusCode: http.StatusInternalServerError, Code: ErrorCodeServerError}
)

// parseErrorResponse turns an error reply into an *APIError, falling back
// to the status line when the body is not an ErrorResponse.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
