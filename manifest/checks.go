package manifest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"

	boringservice "github.com/LeadSimple/boring-service"
	"github.com/LeadSimple/boring-service/internal/ctxlog"
)

// Error kind names usable in a check's expect_error field.
const (
	KindUnknownParameter      = "unknown_parameter"
	KindInvalidParameterValue = "invalid_parameter_value"
	KindParameterRequired     = "parameter_required"
	KindNotImplemented        = "not_implemented"
)

var knownErrorKinds = map[string]struct{}{
	KindUnknownParameter:      {},
	KindInvalidParameterValue: {},
	KindParameterRequired:     {},
	KindNotImplemented:        {},
}

// ErrorKind classifies a contract error by taxonomy kind, returning one of
// the Kind constants or "" for errors outside the taxonomy.
func ErrorKind(err error) string {
	var (
		unknown        *boringservice.UnknownParameterError
		invalid        *boringservice.InvalidValueError
		missing        *boringservice.MissingParametersError
		notImplemented *boringservice.NotImplementedError
	)
	switch {
	case errors.As(err, &unknown):
		return KindUnknownParameter
	case errors.As(err, &invalid):
		return KindInvalidParameterValue
	case errors.As(err, &missing):
		return KindParameterRequired
	case errors.As(err, &notImplemented):
		return KindNotImplemented
	default:
		return ""
	}
}

// CheckFailure describes one check that did not hold.
type CheckFailure struct {
	Check  *CheckDefinition
	Reason string
}

func (f *CheckFailure) String() string {
	return fmt.Sprintf("check '%s' (%s): %s", f.Check.Name, f.Check.Source, f.Reason)
}

// Verify validates a document's checks statically against the services it
// declares, without executing anything: the target service must exist,
// every argument must name a declared parameter and satisfy its acceptance,
// and expect_error must name a known error kind. All failures are returned.
func Verify(doc *Document, catalog *boringservice.Catalog) []*CheckFailure {
	var failures []*CheckFailure
	fail := func(chk *CheckDefinition, format string, args ...any) {
		failures = append(failures, &CheckFailure{Check: chk, Reason: fmt.Sprintf(format, args...)})
	}

	for _, chk := range doc.Checks {
		svc, ok := catalog.Lookup(chk.Service)
		if !ok {
			fail(chk, "references unknown service '%s'", chk.Service)
			continue
		}

		if chk.ExpectError != "" {
			if _, known := knownErrorKinds[chk.ExpectError]; !known {
				fail(chk, "expect_error names unknown error kind '%s'", chk.ExpectError)
			}
		}

		// Unknown-parameter and invalid-value checks deliberately supply
		// bad arguments; static verification must not flag those.
		if chk.ExpectError == KindUnknownParameter || chk.ExpectError == KindInvalidParameterValue {
			continue
		}

		for _, argName := range sortedArgNames(chk.Arguments) {
			param, declared := svc.Schema().Lookup(argName)
			if !declared {
				fail(chk, "argument '%s' does not match any parameter of service '%s'", argName, chk.Service)
				continue
			}
			val := coerceArgument(param, chk.Arguments[argName])
			if !param.Accepts(val) {
				fail(chk, "argument '%s' is not acceptable: expected %s, got %s",
					argName, param.Acceptance().Describe(), val.Type().FriendlyName())
			}
		}
	}

	return failures
}

// RunChecks executes every check against a bound catalog and returns the
// failures. An empty slice means every check held.
func RunChecks(ctx context.Context, doc *Document, catalog *boringservice.Catalog) []*CheckFailure {
	logger := ctxlog.FromContext(ctx)
	var failures []*CheckFailure

	for _, chk := range doc.Checks {
		logger.Debug("Running check.", "check", chk.Name, "service", chk.Service)

		svc, ok := catalog.Lookup(chk.Service)
		if !ok {
			failures = append(failures, &CheckFailure{Check: chk, Reason: fmt.Sprintf("references unknown service '%s'", chk.Service)})
			continue
		}

		args := make(map[string]cty.Value, len(chk.Arguments))
		for name, val := range chk.Arguments {
			if param, declared := svc.Schema().Lookup(name); declared {
				val = coerceArgument(param, val)
			}
			args[name] = val
		}

		result, err := svc.Call(ctx, args)

		switch {
		case chk.ExpectError != "":
			if err == nil {
				failures = append(failures, &CheckFailure{Check: chk, Reason: fmt.Sprintf("expected a %s error, but the call succeeded", chk.ExpectError)})
				continue
			}
			if kind := ErrorKind(err); kind != chk.ExpectError {
				failures = append(failures, &CheckFailure{Check: chk, Reason: fmt.Sprintf("expected a %s error, got: %s", chk.ExpectError, err)})
			}

		default:
			if err != nil {
				failures = append(failures, &CheckFailure{Check: chk, Reason: fmt.Sprintf("call failed: %s", err)})
				continue
			}
			// Parsed documents always carry an expectation; hand-built ones
			// may not.
			if chk.ExpectResult == nil {
				failures = append(failures, &CheckFailure{Check: chk, Reason: "declares neither an expected result nor an expected error"})
				continue
			}
			if !result.RawEquals(*chk.ExpectResult) {
				failures = append(failures, &CheckFailure{Check: chk, Reason: fmt.Sprintf("expected result %s, got %s",
					valueString(*chk.ExpectResult), valueString(result))})
			}
		}
	}

	return failures
}

// coerceArgument reshapes a literal argument to a parameter's declared
// single type, so a tuple literal can satisfy a list(T) parameter. Values
// the parameter would reject anyway pass through unchanged.
func coerceArgument(param *boringservice.Parameter, val cty.Value) cty.Value {
	want, single := boringservice.TypeConstraint(param.Acceptance())
	if !single {
		return val
	}
	unified, err := unifyLiteral(val, want)
	if err != nil {
		return val
	}
	return unified
}

func sortedArgNames(args map[string]cty.Value) []string {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func valueString(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	return strings.TrimSpace(v.GoString())
}
