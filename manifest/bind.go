package manifest

import (
	"fmt"
	"sort"
	"strings"

	boringservice "github.com/LeadSimple/boring-service"
)

// Build constructs service definitions from a document without wiring any Go
// handlers. The resulting services carry their full schemas and hook chains
// but have no bodies, so running one yields a NotImplementedError. This is
// the mode tooling uses to lint and describe manifests it cannot execute.
func Build(doc *Document) (*boringservice.Catalog, error) {
	return build(doc, nil)
}

// Bind constructs service definitions from a document and wires their
// lifecycle references to the given handler tables. Binding performs a
// strict parity check: every body and before_run name in the document must
// resolve to a registered handler, and every failure is reported, not just
// the first.
func Bind(doc *Document, handlers *boringservice.Handlers) (*boringservice.Catalog, error) {
	if handlers == nil {
		return nil, &boringservice.DeclarationError{Detail: "Bind requires a handler table; use Build for definition-only construction"}
	}
	return build(doc, handlers)
}

func build(doc *Document, handlers *boringservice.Handlers) (*boringservice.Catalog, error) {
	defs := make(map[string]*ServiceDefinition, len(doc.Services))
	for _, def := range doc.Services {
		if _, exists := defs[def.Name]; exists {
			return nil, &boringservice.DeclarationError{
				Service: def.Name,
				Detail:  fmt.Sprintf("service declared more than once (second declaration at %s)", def.Source),
			}
		}
		defs[def.Name] = def
	}

	catalog := boringservice.NewCatalog()
	built := make(map[string]*boringservice.Service, len(defs))
	building := make(map[string]bool)

	var buildOne func(def *ServiceDefinition) (*boringservice.Service, error)
	buildOne = func(def *ServiceDefinition) (*boringservice.Service, error) {
		if svc, done := built[def.Name]; done {
			return svc, nil
		}
		if building[def.Name] {
			return nil, &boringservice.DeclarationError{
				Service: def.Name,
				Detail:  "extends chain is cyclic",
			}
		}
		building[def.Name] = true
		defer delete(building, def.Name)

		var svc *boringservice.Service
		if def.Extends != "" {
			parentDef, ok := defs[def.Extends]
			if !ok {
				return nil, &boringservice.DeclarationError{
					Service: def.Name,
					Detail:  fmt.Sprintf("extends unknown service %q", def.Extends),
				}
			}
			parent, err := buildOne(parentDef)
			if err != nil {
				return nil, err
			}
			svc = parent.Extend(def.Name)
		} else {
			svc = boringservice.Define(def.Name)
		}
		svc.Describe(def.Description)

		for _, param := range def.Parameters {
			acceptance := boringservice.AnyValue
			if param.TypeGiven {
				acceptance = boringservice.Type(param.Type)
			}

			opts := []boringservice.ParameterOption{
				boringservice.DeclaredAt(param.Source),
			}
			if param.Description != "" {
				opts = append(opts, boringservice.Description(param.Description))
			}
			if param.Default != nil {
				opts = append(opts, boringservice.Default(*param.Default))
			}
			svc.Parameter(param.Name, acceptance, opts...)
		}

		svc.BeforeRun(def.Lifecycle.BeforeRun...)
		built[def.Name] = svc
		return svc, nil
	}

	// Build in name order so error reporting is deterministic regardless of
	// file discovery order.
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := buildOne(defs[name]); err != nil {
			return nil, err
		}
	}

	if handlers != nil {
		if err := wire(doc, built, handlers); err != nil {
			return nil, err
		}
	}

	// Register in document order, parents included.
	for _, def := range doc.Services {
		catalog.Register(built[def.Name])
	}
	return catalog, nil
}

// wire resolves every lifecycle reference against the handler tables,
// collecting all failures into a single error.
func wire(doc *Document, built map[string]*boringservice.Service, handlers *boringservice.Handlers) error {
	var errs []string

	for _, def := range doc.Services {
		svc := built[def.Name]

		if def.Lifecycle.Body != "" {
			fn, ok := handlers.Body(def.Lifecycle.Body)
			if !ok {
				errs = append(errs, fmt.Sprintf("service '%s': body handler '%s' is not registered", def.Name, def.Lifecycle.Body))
			} else {
				svc.Body(fn)
			}
		}

		seen := make(map[string]struct{})
		for _, hookName := range def.Lifecycle.BeforeRun {
			if _, dup := seen[hookName]; dup {
				continue
			}
			seen[hookName] = struct{}{}

			fn, ok := handlers.Hook(hookName)
			if !ok {
				errs = append(errs, fmt.Sprintf("service '%s': hook handler '%s' is not registered", def.Name, hookName))
				continue
			}
			svc.Handler(hookName, fn)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("manifest binding failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
