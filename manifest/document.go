package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Document is the format-agnostic representation of one or more parsed
// manifest sources. The HCL and YAML loaders both produce this model, so
// binding, verification, and the CLI are independent of the source format.
type Document struct {
	Services []*ServiceDefinition
	Checks   []*CheckDefinition
}

// Merge appends another document's definitions to this one. Name collisions
// are not resolved here; Build reports them.
func (d *Document) Merge(other *Document) {
	d.Services = append(d.Services, other.Services...)
	d.Checks = append(d.Checks, other.Checks...)
}

// ServiceDefinition is one parsed `service` block.
type ServiceDefinition struct {
	// Name is the service's name, taken from the block label.
	Name string

	// Description is an optional human-readable summary.
	Description string

	// Extends optionally names the parent service this one derives from.
	Extends string

	// Lifecycle holds the named Go handler references.
	Lifecycle LifecycleDefinition

	// Parameters holds the declared parameters in declaration order.
	Parameters []*ParameterDefinition

	// Source locates the definition in its manifest file.
	Source hcl.Range
}

// LifecycleDefinition maps a service's lifecycle to Go handler names.
type LifecycleDefinition struct {
	// Body names the registered body handler. Empty means the service has
	// no body of its own (an abstract parent, or inherited from Extends).
	Body string

	// BeforeRun names registered hook handlers, in execution order.
	BeforeRun []string
}

// ParameterDefinition is one parsed `parameter` block.
type ParameterDefinition struct {
	// Name is the parameter's name, taken from the block label.
	Name string

	// Type is the declared value type. When no type was given it is
	// cty.DynamicPseudoType and the parameter accepts anything.
	Type cty.Type

	// TypeGiven reports whether the manifest declared a type at all.
	TypeGiven bool

	// Description is an optional markdown string describing the parameter.
	Description string

	// Default, when non-nil, is the literal default value. A pointer to a
	// null value is an explicit `default = null`, which makes the parameter
	// nullable.
	Default *cty.Value

	// Source locates the declaration in its manifest file.
	Source hcl.Range
}

// CheckDefinition is one parsed `check` block: a named example invocation
// with literal arguments and an expected outcome.
type CheckDefinition struct {
	// Name is the check's name, taken from the block label.
	Name string

	// Service names the service the check invokes.
	Service string

	// Arguments are the literal argument values.
	Arguments map[string]cty.Value

	// ExpectResult, when non-nil, is the literal value the invocation must
	// return.
	ExpectResult *cty.Value

	// ExpectError, when non-empty, names the error kind the invocation must
	// fail with: one of "unknown_parameter", "invalid_parameter_value",
	// "parameter_required", "not_implemented".
	ExpectError string

	// Source locates the check in its manifest file.
	Source hcl.Range
}
