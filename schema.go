package boringservice

import "fmt"

// Schema is the per-service ordered, name-keyed collection of parameters.
//
// Why have a formal Schema?
//
// The schema is the service's input contract. Holding it as an explicit
// object, rather than synthesizing per-parameter accessors, lets the
// invocation pipeline perform generic get/set/presence operations by name,
// lets tooling enumerate a service's effective parameters, and makes the
// inheritance rules (override-by-redeclaration, additive order) something
// that can be computed and tested rather than inferred.
//
// A schema seals when the first invocation of its service is constructed.
// Sealing also seals every ancestor schema, so a parent cannot grow new
// parameters underneath definitions that were already instantiated. Any
// declaration after sealing panics with a *DeclarationError: declaring
// parameters is definition-time work, and doing it late is a programming
// mistake, not a runtime condition.
type Schema struct {
	service string
	parent  *Schema
	entries []*Parameter
	sealed  bool
}

// newSchema builds an empty schema owned by the named service. A non-nil
// parent makes this a child schema composing the parent's entries.
func newSchema(service string, parent *Schema) *Schema {
	return &Schema{service: service, parent: parent}
}

// Declare adds a parameter to this schema's own entries. Redeclaring a name
// already present among the schema's own entries replaces it and moves it to
// the end of the declaration order; redeclaring an inherited name shadows
// the parent's entry, which likewise surfaces at this schema's position.
// Declaring on a sealed schema panics with a *DeclarationError.
func (s *Schema) Declare(p *Parameter) {
	if p == nil {
		panic(&DeclarationError{Service: s.service, Detail: "Declare requires a non-nil parameter"})
	}
	if s.sealed {
		panic(&DeclarationError{
			Service:   s.service,
			Parameter: p.name,
			Detail:    "schema is sealed; parameters must be declared before the first invocation",
		})
	}
	for i, existing := range s.entries {
		if existing.name == p.name {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	s.entries = append(s.entries, p)
}

// Extend returns a new unsealed child schema owned by the named service.
// The child sees the parent's entries live: parameters declared on the
// parent after Extend (but before sealing) are visible to the child.
func (s *Schema) Extend(service string) *Schema {
	return newSchema(service, s)
}

// Effective returns the schema's full parameter list in order: ancestor
// entries first, in their order, skipping names this schema redeclares,
// followed by this schema's own entries in declaration order.
func (s *Schema) Effective() []*Parameter {
	own := make(map[string]struct{}, len(s.entries))
	for _, p := range s.entries {
		own[p.name] = struct{}{}
	}

	var effective []*Parameter
	if s.parent != nil {
		for _, p := range s.parent.Effective() {
			if _, shadowed := own[p.name]; shadowed {
				continue
			}
			effective = append(effective, p)
		}
	}
	return append(effective, s.entries...)
}

// Lookup finds the effective entry for name, honoring shadowing: this
// schema's own entry wins over an inherited one.
func (s *Schema) Lookup(name string) (*Parameter, bool) {
	for _, p := range s.entries {
		if p.name == name {
			return p, true
		}
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	return nil, false
}

// Seal freezes the schema and every ancestor schema. Sealing is idempotent.
func (s *Schema) Seal() {
	for cur := s; cur != nil; cur = cur.parent {
		cur.sealed = true
	}
}

// Sealed reports whether Seal has been called on this schema or any of its
// descendants.
func (s *Schema) Sealed() bool { return s.sealed }

func (s *Schema) String() string {
	return fmt.Sprintf("schema of service %q (%d effective parameters)", s.service, len(s.Effective()))
}
