package schedule

import (
	"fmt"
	"regexp"
	"strings"
)

// tokenRegex matches an operation token such as `R(x)` or `w( acct_1 )`.
// The resource is validated separately so the error can say which part failed.
var tokenRegex = regexp.MustCompile(`^([A-Za-z])\s*\((.*)\)$`)

// resourceRegex is the accepted shape of a resource identifier.
var resourceRegex = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// ParseOperation decodes a single cell token into an Operation.
func ParseOperation(token string) (Operation, error) {
	raw := strings.TrimSpace(token)
	if raw == "" {
		return Operation{}, fmt.Errorf("%w: empty token", ErrUnknownOperation)
	}

	matches := tokenRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Operation{}, fmt.Errorf("%w: expected R(resource) or W(resource)", ErrUnknownOperation)
	}

	var kind OpKind
	switch strings.ToUpper(matches[1]) {
	case "R":
		kind = Read
	case "W":
		kind = Write
	default:
		return Operation{}, fmt.Errorf("%w: kind %q", ErrUnknownOperation, matches[1])
	}

	resource := strings.TrimSpace(matches[2])
	if resource == "" {
		return Operation{}, fmt.Errorf("%w: empty", ErrMalformedResource)
	}
	if !resourceRegex.MatchString(resource) {
		return Operation{}, fmt.Errorf("%w: %q", ErrMalformedResource, resource)
	}

	return Operation{Kind: kind, Resource: resource}, nil
}

// MustParseOperation is like ParseOperation but panics on error. Intended for
// tests and static fixtures.
func MustParseOperation(token string) Operation {
	op, err := ParseOperation(token)
	if err != nil {
		panic(err)
	}
	return op
}
