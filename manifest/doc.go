// Package manifest is the declarative frontend for boringservice: service
// definitions written as HCL or YAML documents, bound at startup to Go
// handler functions registered by name.
//
// # Why a manifest layer?
//
// A service's contract (its parameters, their types and defaults, the hook
// order) is data, not logic. Keeping it in a manifest makes the contract
// reviewable without reading Go code, lets tooling lint and describe it (see
// cmd/bsvc), and keeps the Go side down to registering named body and hook
// functions:
//
//	service "adder" {
//	  lifecycle {
//	    body = "ComputeSum"
//	  }
//	  parameter "start_number" {
//	    type = number
//	  }
//	  parameter "end_number" {
//	    type    = number
//	    default = 2
//	  }
//	}
//
// Parsing produces a format-agnostic Document; Bind then builds the actual
// service definitions and performs a strict parity check, so that every
// lifecycle reference in a manifest is known to resolve to a registered Go
// handler before anything runs.
//
// Manifests may also carry check blocks: named example invocations with
// literal arguments and an expected result or error kind. Verify validates
// them statically against the declared schemas; RunChecks executes them
// against a bound catalog.
package manifest
