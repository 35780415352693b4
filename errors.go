package boringservice

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel roots of the error taxonomy. Every typed error in this package
// matches both via errors.Is, so callers can catch "any contract violation"
// broadly or compose with generic invalid-argument handling:
//
//	if errors.Is(err, boringservice.ErrContract) { ... }
//
// Narrow branching uses errors.As with the concrete types below.
var (
	// ErrInvalidArgument is the generic invalid-argument root.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrContract is the parameter/contract root: every error produced by
	// the definition and invocation pipeline matches it.
	ErrContract = errors.New("parameter contract error")
)

// contractError gives the concrete error types their place in the taxonomy.
// The promoted Is method makes errors.Is match both sentinel roots.
type contractError struct{}

func (contractError) Is(target error) bool {
	return target == ErrContract || target == ErrInvalidArgument
}

// UnknownParameterError reports an argument key supplied at construction
// that has no matching declared parameter.
type UnknownParameterError struct {
	contractError

	// Service is the name of the service that rejected the argument.
	Service string

	// Name is the unrecognized argument key.
	Name string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("service %q: unknown parameter %q", e.Service, e.Name)
}

// InvalidValueError reports a supplied or defaulted value that failed its
// parameter's acceptance predicate.
type InvalidValueError struct {
	contractError

	Service   string
	Parameter string

	// Acceptance describes what the parameter accepts.
	Acceptance string

	// Got describes the received value, usually its type's friendly name.
	Got string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("service %q: invalid value for parameter %q: expected %s, got %s",
		e.Service, e.Parameter, e.Acceptance, e.Got)
}

// MissingParametersError reports every declared parameter without a default
// that was still absent when Run asserted required arguments. Missing always
// names all of them, not just the first.
type MissingParametersError struct {
	contractError

	Service string
	Missing []string
}

func (e *MissingParametersError) Error() string {
	return fmt.Sprintf("service %q: missing required parameters: %s",
		e.Service, strings.Join(e.Missing, ", "))
}

// NotImplementedError reports an invocation of a service whose body was
// never set, on the service itself or any ancestor.
type NotImplementedError struct {
	contractError

	Service string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("service %q: body is not implemented", e.Service)
}

// DeclarationError reports a mistake made while defining a service: an
// unrecognized option in a manifest, a declaration after the schema sealed,
// an invalid acceptance, or a structurally broken definition document.
//
// Definition-time misuse from Go code panics with a *DeclarationError, in
// line with init-time registration conventions; the manifest frontend
// returns it as an ordinary error because manifest text is user input.
type DeclarationError struct {
	contractError

	Service   string
	Parameter string
	Detail    string
}

func (e *DeclarationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid declaration")
	if e.Service != "" {
		fmt.Fprintf(&b, " in service %q", e.Service)
	}
	if e.Parameter != "" {
		fmt.Fprintf(&b, ", parameter %q", e.Parameter)
	}
	b.WriteString(": ")
	b.WriteString(e.Detail)
	return b.String()
}
