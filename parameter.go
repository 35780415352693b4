package boringservice

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// DefaultFunc produces a parameter's default value lazily at construction
// time. It receives the under-construction invocation, so it may read
// parameters that were already set from the supplied arguments.
type DefaultFunc func(inv *Invocation) (cty.Value, error)

// Parameter is the immutable descriptor of one named input: its acceptance
// predicate and optional default. Two parameters are the same entry iff
// their names match; the Schema uses that identity for override-by-
// redeclaration.
type Parameter struct {
	name        string
	acceptance  Acceptance
	literal     *cty.Value
	producer    DefaultFunc
	description string
	srcRange    *hcl.Range
}

// ParameterOption customizes a parameter at declaration time.
type ParameterOption func(*Parameter)

// Default declares a literal default value. Declaring a null default makes
// the parameter implicitly nullable: the null value is accepted even when
// the declared acceptance would otherwise reject it.
func Default(v cty.Value) ParameterOption {
	return func(p *Parameter) {
		val := v
		p.literal = &val
		p.producer = nil
	}
}

// DefaultFrom declares a lazily-produced default. The producer runs during
// construction, after the supplied arguments have been applied.
func DefaultFrom(fn DefaultFunc) ParameterOption {
	return func(p *Parameter) {
		p.producer = fn
		p.literal = nil
	}
}

// Description attaches a human-readable description, surfaced by schema
// interrogation tooling.
func Description(text string) ParameterOption {
	return func(p *Parameter) { p.description = text }
}

// DeclaredAt records the manifest source range a parameter was declared in.
func DeclaredAt(r hcl.Range) ParameterOption {
	return func(p *Parameter) { p.srcRange = &r }
}

// NewParameter builds a parameter descriptor. A nil acceptance means
// AnyValue. Panics with a *DeclarationError when name is empty.
func NewParameter(name string, acceptance Acceptance, opts ...ParameterOption) *Parameter {
	if name == "" {
		panic(&DeclarationError{Detail: "parameter name must not be empty"})
	}
	if acceptance == nil {
		acceptance = AnyValue
	}
	p := &Parameter{name: name, acceptance: acceptance}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the parameter's name.
func (p *Parameter) Name() string { return p.name }

// Acceptance returns the parameter's acceptance predicate.
func (p *Parameter) Acceptance() Acceptance { return p.acceptance }

// Description returns the declared description, if any.
func (p *Parameter) Description() string { return p.description }

// SourceRange returns the manifest range the parameter was declared at, or
// nil for parameters declared from Go code.
func (p *Parameter) SourceRange() *hcl.Range { return p.srcRange }

// HasDefault reports whether a default was supplied at declaration.
// An explicit null literal still counts as having a default.
func (p *Parameter) HasDefault() bool {
	return p.literal != nil || p.producer != nil
}

// DefaultValue returns the literal default, when one was declared. Produced
// defaults report false; they have no value until an invocation resolves
// them.
func (p *Parameter) DefaultValue() (cty.Value, bool) {
	if p.literal == nil {
		return cty.NilVal, false
	}
	return *p.literal, true
}

// ResolveDefault returns the declared default: the literal, or the
// producer's result evaluated against inv.
func (p *Parameter) ResolveDefault(inv *Invocation) (cty.Value, error) {
	if p.literal != nil {
		return *p.literal, nil
	}
	if p.producer != nil {
		return p.producer(inv)
	}
	return cty.NilVal, &DeclarationError{Parameter: p.name, Detail: "parameter has no default"}
}

// Accepts applies the acceptance predicate plus the nullable-by-null-default
// rule: a literal null default makes null acceptable regardless of the
// declared acceptance. A produced default does not trigger the rule.
func (p *Parameter) Accepts(v cty.Value) bool {
	if p.literal != nil && p.literal.IsNull() && v.IsNull() {
		return true
	}
	return p.acceptance.Accepts(v)
}
