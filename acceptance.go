package boringservice

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Acceptance is the predicate deciding whether a runtime value is valid for
// a parameter. Implementations are immutable and safe for concurrent use.
type Acceptance interface {
	// Accepts reports whether v is a valid value for the parameter.
	Accepts(v cty.Value) bool

	// Describe returns a short human-readable description of the predicate,
	// used in error messages ("string", "one of string, number", ...).
	Describe() string
}

// AnyValue accepts every value, including null and unknown values. It is the
// acceptance used when a parameter is declared without one.
var AnyValue Acceptance = anyValue{}

type anyValue struct{}

func (anyValue) Accepts(cty.Value) bool { return true }
func (anyValue) Describe() string       { return "any value" }

// Type returns an acceptance matching exactly one cty type. A value is
// accepted iff it is known, non-null, and its type equals t.
func Type(t cty.Type) Acceptance {
	return typeTag{t}
}

type typeTag struct {
	t cty.Type
}

func (a typeTag) Accepts(v cty.Value) bool {
	return matchesTypeTag(v, a.t)
}

func (a typeTag) Describe() string { return a.t.FriendlyName() }

// OneOf returns an acceptance matching any of the given cty types; a value
// matching any member is accepted. Calling OneOf with no members is a
// definition-time mistake and panics with a *DeclarationError.
func OneOf(types ...cty.Type) Acceptance {
	if len(types) == 0 {
		panic(&DeclarationError{Detail: "OneOf requires at least one type"})
	}
	tags := make([]cty.Type, len(types))
	copy(tags, types)
	return oneOfTags{tags}
}

type oneOfTags struct {
	tags []cty.Type
}

func (a oneOfTags) Accepts(v cty.Value) bool {
	for _, t := range a.tags {
		if matchesTypeTag(v, t) {
			return true
		}
	}
	return false
}

func (a oneOfTags) Describe() string {
	names := make([]string, len(a.tags))
	for i, t := range a.tags {
		names[i] = t.FriendlyName()
	}
	return "one of " + strings.Join(names, ", ")
}

// Where returns an acceptance backed by an arbitrary predicate function.
// desc appears in error messages when a value is rejected.
func Where(desc string, fn func(cty.Value) bool) Acceptance {
	if fn == nil {
		panic(&DeclarationError{Detail: fmt.Sprintf("Where(%q) requires a non-nil predicate", desc)})
	}
	return predicate{desc: desc, fn: fn}
}

type predicate struct {
	desc string
	fn   func(cty.Value) bool
}

func (a predicate) Accepts(v cty.Value) bool { return a.fn(v) }
func (a predicate) Describe() string         { return a.desc }

// TypeConstraint reports the single concrete cty type an acceptance matches,
// when it is a single-type acceptance built with Type. Tooling uses this to
// reshape manifest literals (a tuple literal destined for a list parameter)
// before the strict acceptance check sees them.
func TypeConstraint(a Acceptance) (cty.Type, bool) {
	if tag, ok := a.(typeTag); ok {
		return tag.t, true
	}
	return cty.NilType, false
}

// matchesTypeTag implements the per-member rule shared by Type and OneOf:
// null and unknown values never match a concrete type tag, while the
// dynamic pseudo-type behaves like AnyValue.
func matchesTypeTag(v cty.Value, t cty.Type) bool {
	if t == cty.DynamicPseudoType {
		return true
	}
	if v.IsNull() || !v.IsKnown() {
		return false
	}
	return v.Type().Equals(t)
}
