// SPDX-License-Identifier: AGPL-3.0-only
package errors

import (
	"fmt"
)

// NotFound creates a formatted "not found" error
func NotFound(resource, id string) error {
	return fmt.Errorf("resource not found: %s with ID %s", resource, id)
}

// InvalidInput creates a formatted "invalid input" error
func InvalidInput(reason string) error {
	return fmt.Errorf("invalid input: %s", reason)
}

// Unauthorized creates a formatted "unauthorized" error
func Unauthorized(reason string) error {
	return fmt.Errorf("unauthorized: %s", reason)
}

// Forbidden creates a formatted "forbidden" error
func Forbidden(reason string) error {
	return fmt.Errorf("forbidden: %s", reason)
}

// Upstream creates a formatted error for a failed call to a collaborating service
func Upstream(service string, err error) error {
	return fmt.Errorf("upstream %s error: %v", service, err)
}

// Internal creates a formatted "internal error" error
func Internal(err error) error {
	return fmt.Errorf("internal error: %v", err)
}
