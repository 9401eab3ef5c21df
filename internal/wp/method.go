package wp

import (
	"errors"
	"fmt"
	"strings"
)

// Method selects the finite-difference scheme.
type Method string

// Supported methods.
const (
	// FFD (forward finite difference) evaluates the clean and the perturbed
	// loss: grad = h * (L(p+h) - L(p)).
	FFD Method = "ffd"

	// CFD (central finite difference) evaluates two symmetric perturbations:
	// grad = h * (L(p+h) - L(p-h)).
	CFD Method = "cfd"
)

// ErrInvalidMethod is returned for any method other than FFD or CFD.
var ErrInvalidMethod = errors.New(`wp: invalid method, choose between: {"ffd", "cfd"}`)

// Validate returns an error wrapping ErrInvalidMethod unless m is FFD or CFD.
func (m Method) Validate() error {
	switch m {
	case FFD, CFD:
		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidMethod, string(m))
	}
}

// String returns the method name.
func (m Method) String() string {
	return string(m)
}

// ParseMethod parses a case-insensitive method name.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}
