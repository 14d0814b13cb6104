package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ClaimCollisionError reports two sources mapping onto one SD-JWT claim.
type ClaimCollisionError struct {
	Claim  string
	Shape  string
	First  string // property already holding the claim
	Second string // property that tried to take it
}

func (e *ClaimCollisionError) Error() string {
	return fmt.Sprintf("claim %q in %s: %s collides with %s", e.Claim, e.Shape, e.Second, e.First)
}

// ValidationError lists the schema violations of a validated document.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("document does not match schema: %s", strings.Join(e.Errors, "; "))
}

// IsClaimCollision returns true if err is or wraps a ClaimCollisionError.
func IsClaimCollision(err error) bool {
	var ce *ClaimCollisionError
	return errors.As(err, &ce)
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
