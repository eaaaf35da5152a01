package google

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/signin/internal/core/domain"
)

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || hasCode(err, http.StatusTooManyRequests)
}

func hasCode(err error, code int) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}

// WrapError converts a Google API error to a domain error.
// Errors that are not *googleapi.Error, or carry an unmapped code, are returned unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	default:
		return err
	}
}
