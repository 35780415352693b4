package boringservice

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// HookFunc is a pre-run action. It receives the invocation explicitly, so it
// can read and write parameter values before the body sees them. Returning
// an error aborts the invocation.
type HookFunc func(ctx context.Context, inv *Invocation) error

// BodyFunc is the unit of work itself, run after every hook has completed.
type BodyFunc func(ctx context.Context, inv *Invocation) (cty.Value, error)

// hookRef is one entry of a service's hook chain: either a named reference
// resolved against the handler tables at run time, or an inline function.
type hookRef struct {
	name string
	fn   HookFunc
}

// Service is the reusable definition of a unit of work: a schema of named
// parameters, an ordered chain of pre-run hooks, and a body.
//
// Definition is a single-threaded startup concern: declare parameters and
// hooks, then invoke. The schema seals when the first invocation is
// constructed, after which further declarations panic. Sealed services are
// safe for concurrent Call use; each invocation owns its own state.
type Service struct {
	name        string
	description string
	parent      *Service
	schema      *Schema
	hooks       []hookRef
	handlers    map[string]HookFunc
	body        BodyFunc
}

// Define starts the definition of a new root service.
func Define(name string) *Service {
	if name == "" {
		panic(&DeclarationError{Detail: "service name must not be empty"})
	}
	s := &Service{name: name, handlers: map[string]HookFunc{}}
	s.schema = newSchema(name, nil)
	return s
}

// Extend starts the definition of a service deriving from s. The child
// inherits the parent's effective schema (redeclaration of a name overrides
// the inherited entry), the parent's hook chain (the parent's hooks always
// run first; hooks are purely additive, there is no removal), and the
// parent's body unless the child sets its own.
func (s *Service) Extend(name string) *Service {
	if name == "" {
		panic(&DeclarationError{Service: s.name, Detail: "extended service name must not be empty"})
	}
	child := &Service{name: name, parent: s, handlers: map[string]HookFunc{}}
	child.schema = s.schema.Extend(name)
	return child
}

// Name returns the service's name.
func (s *Service) Name() string { return s.name }

// Describe sets a human-readable description of the service.
func (s *Service) Describe(text string) *Service {
	s.description = text
	return s
}

// Description returns the service's description.
func (s *Service) Description() string { return s.description }

// Schema returns the service's parameter schema.
func (s *Service) Schema() *Schema { return s.schema }

// Parent returns the service this one extends, or nil for a root service.
func (s *Service) Parent() *Service { return s.parent }

// Parameter declares a named parameter. A nil acceptance means AnyValue.
// Options: Default, DefaultFrom, Description, DeclaredAt. Declaring after
// the first invocation panics with a *DeclarationError.
func (s *Service) Parameter(name string, acceptance Acceptance, opts ...ParameterOption) *Service {
	s.schema.Declare(NewParameter(name, acceptance, opts...))
	return s
}

// BeforeRun appends named hook references to this service's own hook chain.
// Each name is resolved against the handler tables (this service's first,
// then its ancestors') when an invocation runs. Callable multiple times;
// every call appends.
func (s *Service) BeforeRun(names ...string) *Service {
	for _, name := range names {
		if name == "" {
			panic(&DeclarationError{Service: s.name, Detail: "hook name must not be empty"})
		}
		s.hooks = append(s.hooks, hookRef{name: name})
	}
	return s
}

// BeforeRunFunc appends an inline hook to this service's own hook chain.
func (s *Service) BeforeRunFunc(fn HookFunc) *Service {
	if fn == nil {
		panic(&DeclarationError{Service: s.name, Detail: "BeforeRunFunc requires a non-nil hook"})
	}
	s.hooks = append(s.hooks, hookRef{fn: fn})
	return s
}

// Handler registers a named hook implementation on this service. Names
// registered on a service are visible to it and to every service extending
// it; a child registering the same name shadows the parent's handler.
// Registering a duplicate name on the same service panics.
func (s *Service) Handler(name string, fn HookFunc) *Service {
	if name == "" || fn == nil {
		panic(&DeclarationError{Service: s.name, Detail: "Handler requires a name and a non-nil hook"})
	}
	if _, exists := s.handlers[name]; exists {
		panic(&DeclarationError{Service: s.name, Detail: fmt.Sprintf("hook handler %q already registered", name)})
	}
	s.handlers[name] = fn
	return s
}

// Body sets the unit of work. A service whose body is never set, on itself
// or any ancestor, fails every invocation with a *NotImplementedError;
// that is the deliberate abstract-definition contract, not a silent skip.
func (s *Service) Body(fn BodyFunc) *Service {
	if fn == nil {
		panic(&DeclarationError{Service: s.name, Detail: "Body requires a non-nil function"})
	}
	s.body = fn
	return s
}

// effectiveHooks returns the full hook chain in execution order: ancestor
// hooks first, in declaration order, then this service's own.
func (s *Service) effectiveHooks() []hookRef {
	if s.parent == nil {
		return s.hooks
	}
	inherited := s.parent.effectiveHooks()
	chain := make([]hookRef, 0, len(inherited)+len(s.hooks))
	chain = append(chain, inherited...)
	return append(chain, s.hooks...)
}

// resolveHandler finds the named hook implementation, child-first up the
// extension chain.
func (s *Service) resolveHandler(name string) (HookFunc, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if fn, ok := cur.handlers[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// effectiveBody returns the body to run: this service's own, or the nearest
// ancestor's.
func (s *Service) effectiveBody() BodyFunc {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.body != nil {
			return cur.body
		}
	}
	return nil
}

// Call is the entry point: construct an invocation from args and run it.
func (s *Service) Call(ctx context.Context, args map[string]cty.Value) (cty.Value, error) {
	inv, err := s.New(args)
	if err != nil {
		return cty.NilVal, err
	}
	return inv.Run(ctx)
}
