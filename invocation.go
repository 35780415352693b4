package boringservice

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/LeadSimple/boring-service/internal/ctxlog"
)

// Invocation is one call of a Service: a private value slot per declared
// parameter, walked through the construct -> validate -> run-hooks -> invoke
// sequence. Instances share nothing; each Call builds a fresh one.
//
// An invocation is not safe for concurrent use. The design assumes one Run
// per instance, from one goroutine. The usual shape is Service.Call, which
// never shares the instance at all.
type Invocation struct {
	service *Service
	id      uuid.UUID
	values  map[string]cty.Value
}

// New constructs an invocation from a mapping of parameter name to value.
// It seals the service's schema, applies every supplied argument through the
// validated setter, then resolves defaults for the parameters that were not
// supplied. Required parameters without defaults stay absent here; Run
// asserts them.
//
// Supplied arguments are applied in sorted name order so that validation
// errors are deterministic. Defaults are resolved afterwards in effective
// schema order and pass through the same validated setter, so a default
// that fails its own acceptance is rejected just like a supplied value.
func (s *Service) New(args map[string]cty.Value) (*Invocation, error) {
	s.schema.Seal()

	inv := &Invocation{
		service: s,
		id:      uuid.New(),
		values:  make(map[string]cty.Value, len(args)),
	}

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := inv.Set(name, args[name]); err != nil {
			return nil, err
		}
	}

	for _, p := range s.schema.Effective() {
		if _, supplied := args[p.name]; supplied {
			continue
		}
		if !p.HasDefault() {
			continue
		}
		val, err := p.ResolveDefault(inv)
		if err != nil {
			return nil, fmt.Errorf("service %q: resolving default for parameter %q: %w", s.name, p.name, err)
		}
		if err := inv.Set(p.name, val); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// Service returns the definition this invocation belongs to.
func (inv *Invocation) Service() *Service { return inv.service }

// ID returns the invocation's unique identifier, used to correlate debug
// log lines.
func (inv *Invocation) ID() uuid.UUID { return inv.id }

// Set is the validated setter: it looks the parameter up by name and stores
// the value iff it passes the acceptance predicate. Unknown names return a
// *UnknownParameterError; rejected values a *InvalidValueError.
func (inv *Invocation) Set(name string, v cty.Value) error {
	p, ok := inv.service.schema.Lookup(name)
	if !ok {
		return &UnknownParameterError{Service: inv.service.name, Name: name}
	}
	if !p.Accepts(v) {
		return &InvalidValueError{
			Service:    inv.service.name,
			Parameter:  name,
			Acceptance: p.acceptance.Describe(),
			Got:        describeValue(v),
		}
	}
	inv.values[name] = v
	return nil
}

// Get returns the value recorded for name, or cty.NilVal when the parameter
// is absent (never set, or not declared at all).
func (inv *Invocation) Get(name string) cty.Value {
	v, ok := inv.values[name]
	if !ok {
		return cty.NilVal
	}
	return v
}

// Has is the presence predicate: true iff the parameter has been set to a
// non-null value.
func (inv *Invocation) Has(name string) bool {
	v, ok := inv.values[name]
	return ok && !v.IsNull()
}

// Run executes the invocation: assert required parameters, run the hook
// chain, then the body.
func (inv *Invocation) Run(ctx context.Context) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("service", inv.service.name, "invocation", inv.id)
	logger.Debug("Starting invocation run.")

	var missing []string
	for _, p := range inv.service.schema.Effective() {
		if !p.HasDefault() && !inv.Has(p.name) {
			missing = append(missing, p.name)
		}
	}
	if len(missing) > 0 {
		return cty.NilVal, &MissingParametersError{Service: inv.service.name, Missing: missing}
	}
	logger.Debug("Required parameters satisfied.")

	for i, ref := range inv.service.effectiveHooks() {
		fn := ref.fn
		if ref.name != "" {
			resolved, ok := inv.service.resolveHandler(ref.name)
			if !ok {
				return cty.NilVal, fmt.Errorf("service %q: hook handler %q is not registered", inv.service.name, ref.name)
			}
			fn = resolved
		}
		logger.Debug("Running hook.", "index", i, "name", ref.name)
		if err := fn(ctx, inv); err != nil {
			if ref.name != "" {
				return cty.NilVal, fmt.Errorf("service %q: hook %q: %w", inv.service.name, ref.name, err)
			}
			return cty.NilVal, fmt.Errorf("service %q: hook %d: %w", inv.service.name, i, err)
		}
	}

	body := inv.service.effectiveBody()
	if body == nil {
		return cty.NilVal, &NotImplementedError{Service: inv.service.name}
	}

	logger.Debug("Running body.")
	result, err := body(ctx, inv)
	if err != nil {
		return cty.NilVal, err
	}
	logger.Debug("Invocation completed.")
	return result, nil
}

// describeValue renders a value's type for error messages.
func describeValue(v cty.Value) string {
	switch {
	case v == cty.NilVal:
		return "no value"
	case v.IsNull():
		return "null"
	case !v.IsKnown():
		return "unknown value"
	default:
		return v.Type().FriendlyName()
	}
}
