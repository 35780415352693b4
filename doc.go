// Package boringservice is a declarative invocation wrapper: a unit of work
// is defined as a Service with named, typed, optionally-defaulted parameters
// and an ordered chain of pre-run hooks, and exposed through a single entry
// point that validates arguments, runs the hooks, and executes the body.
//
// # Core Concepts
//
// The package is built around a few key structures:
//
//   - Service: the reusable definition or "template" of a unit of work. It
//     declares a contract: which named parameters it accepts (its Schema),
//     which hooks run before the body, and the body itself.
//
//   - Parameter: the immutable descriptor of a single named input, holding
//     its acceptance predicate and optional default value.
//
//   - Schema: the per-service ordered, name-keyed collection of parameters.
//     A service built with Extend composes its parent's schema, and a
//     redeclaration of an inherited name replaces the inherited entry.
//     Schemas seal on first instantiation; late declarations panic.
//
//   - Invocation: a single call of a Service. It owns one value slot per
//     declared parameter and walks the construct -> validate -> run-hooks ->
//     invoke sequence.
//
// # Why a separate definition and invocation?
//
// A Service is analogous to a function definition: it declares what inputs
// it requires and what logic to execute. An Invocation is a call to that
// function. The split lets the package validate arguments against the
// declared schema before any user code runs, shifting error detection from
// deep inside the body to the call boundary, with typed errors (see
// ErrContract) the caller can branch on.
//
// The usual entry point is Service.Call, which constructs and runs in one
// step:
//
//	adder := boringservice.Define("adder")
//	adder.Parameter("start_number", boringservice.Type(cty.Number))
//	adder.Parameter("end_number", boringservice.Type(cty.Number),
//		boringservice.Default(cty.NumberIntVal(2)))
//	adder.Body(func(ctx context.Context, inv *boringservice.Invocation) (cty.Value, error) {
//		sum := inv.Get("start_number").Add(inv.Get("end_number"))
//		return sum.Add(cty.NumberIntVal(42)), nil
//	})
//
//	result, err := adder.Call(ctx, map[string]cty.Value{
//		"start_number": cty.NumberIntVal(1),
//	})
//
// Staged use (Service.New followed by Invocation.Run) is also supported for
// callers that want to set parameters incrementally before running.
//
// Parameter values are cty values (github.com/zclconf/go-cty), which gives
// the schema a real type system, including list/map/set types, shared
// with the declarative manifest frontend in the manifest package.
package boringservice
