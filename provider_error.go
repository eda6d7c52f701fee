package customer

import (
	"errors"
	"fmt"
	"net/http"
)

// ProviderError is an error reported by the authentication provider itself,
// as opposed to a transport failure. Message is safe to show to the customer.
type ProviderError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("auth provider [%d]: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("auth provider [%d %s]: %s", e.Status, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to surface for err. Provider errors carry their
// own message; anything else is reported generically.
func UserMessage(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid login credentials"
	case errors.Is(err, ErrSubmitInFlight):
		return "Please wait for the current request to finish"
	}
	return "Something went wrong, please try again"
}

// ErrorPayload is the object handed to the page's error handler. It has the
// shape of a thrown provider error: message, code and status.
func ErrorPayload(err error) map[string]any {
	out := map[string]any{"message": UserMessage(err), "code": "", "status": 0}
	var pe *ProviderError
	if errors.As(err, &pe) {
		out["code"] = pe.Code
		out["status"] = pe.Status
	}
	return out
}

// asProviderError maps a domain error onto the status, code and message the
// auth API reports for it. nil stays nil.
func asProviderError(err error) error {
	if err == nil {
		return nil
	}
	return providerError(err)
}

func providerError(err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	pe = classify(err)
	pe.Err = err
	return pe
}

func classify(err error) *ProviderError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return &ProviderError{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: "Invalid login credentials"}
	case errors.Is(err, ErrNotConfirmed):
		return &ProviderError{Status: http.StatusBadRequest, Code: "email_not_confirmed", Message: "Email not confirmed"}
	case errors.Is(err, ErrSuspended):
		return &ProviderError{Status: http.StatusForbidden, Code: "user_banned", Message: "User is banned"}
	case errors.Is(err, ErrEmailTaken):
		return &ProviderError{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: "User already registered"}
	case errors.Is(err, ErrWeakPassword):
		return &ProviderError{Status: http.StatusUnprocessableEntity, Code: "weak_password", Message: "Password should be at least 8 characters"}
	case errors.Is(err, ErrInvalidEmail):
		return &ProviderError{Status: http.StatusBadRequest, Code: "email_address_invalid", Message: "Unable to validate email address: invalid format"}
	case errors.Is(err, ErrInvalidPhone):
		return &ProviderError{Status: http.StatusBadRequest, Code: "validation_failed", Message: "Invalid phone number format"}
	case errors.Is(err, ErrInvalidForm):
		return &ProviderError{Status: http.StatusBadRequest, Code: "validation_failed", Message: "Please fill in all fields correctly"}
	case errors.Is(err, ErrRateLimited):
		return &ProviderError{Status: http.StatusTooManyRequests, Code: "over_request_rate_limit", Message: "Request rate limit reached"}
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrSessionExpired), errors.Is(err, ErrNotFound):
		return &ProviderError{Status: http.StatusUnauthorized, Code: "bad_jwt", Message: "Invalid or expired session"}
	}
	return &ProviderError{Status: http.StatusInternalServerError, Code: "unexpected_failure", Message: "Internal server error"}
}
