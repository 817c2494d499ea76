// Package validation provides common validation utilities for configuration
// parameters across the gocsp library.
//
// Every validator returns a *errors.ValidationError so callers can test
// failures with errors.IsValidationError or errors.Is(err, errors.ErrInvalidConfiguration).
package validation
