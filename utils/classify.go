package utils

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vitwit/w3resolve/types"
)

// Classify decides what kind of identifier input is. It is pure and does no
// I/O.
func Classify(input string) types.InputKind {
	s := strings.TrimSpace(input)

	switch {
	case strings.Contains(s, "@"):
		return types.InputPaymentID
	case isRawEVMAddress(s):
		return types.InputRawAddress
	case s != "" && strings.Contains(s, ".") && !strings.ContainsFunc(s, unicode.IsSpace):
		return types.InputDomainName
	default:
		return types.InputInvalid
	}
}

func isRawEVMAddress(s string) bool {
	return len(s) == 42 && strings.HasPrefix(s, "0x") && isHexString(s[2:])
}

// ValidatePaymentID returns a user-facing error when id is not shaped like
// name@provider.
func ValidatePaymentID(id string) error {
	id = strings.TrimSpace(id)
	name, provider, ok := strings.Cut(id, "@")
	if !ok || name == "" || provider == "" {
		return &types.ResolverError{
			Code:    types.ErrInvalidInput,
			Message: "Please enter a valid Payment ID (e.g., username@domain)",
		}
	}
	return nil
}

// ValidateDomain returns a user-facing error when name cannot be resolved as
// a domain.
func ValidateDomain(name string) error {
	if Classify(name) != types.InputDomainName {
		return &types.ResolverError{
			Code:    types.ErrInvalidInput,
			Message: fmt.Sprintf("%q is not a valid domain name (e.g. name.bnb)", strings.TrimSpace(name)),
		}
	}
	return nil
}
