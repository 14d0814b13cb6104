package mapper

import (
	"errors"
	"fmt"
)

// LookupPolicy decides what a master-data miss does.
type LookupPolicy string

const (
	// LookupNull renders a missing party as JSON null and logs a warning.
	LookupNull LookupPolicy = "null"

	// LookupStrict fails the mapping with a LookupMiss.
	LookupStrict LookupPolicy = "strict"
)

// ParseLookupPolicy parses a policy name. The empty string means LookupNull.
func ParseLookupPolicy(s string) (LookupPolicy, error) {
	switch LookupPolicy(s) {
	case "", LookupNull:
		return LookupNull, nil
	case LookupStrict:
		return LookupStrict, nil
	}
	return "", fmt.Errorf("unknown lookup policy %q (want null or strict)", s)
}

// LookupMiss reports a partner or material number absent from master data.
type LookupMiss struct {
	Kind string // "partner" or "material"
	Key  string
}

func (e *LookupMiss) Error() string {
	return fmt.Sprintf("%s %s not found in master data", e.Kind, e.Key)
}

// IsLookupMiss returns true if err is or wraps a LookupMiss.
func IsLookupMiss(err error) bool {
	var lm *LookupMiss
	return errors.As(err, &lm)
}
