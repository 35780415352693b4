package manifest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/LeadSimple/boring-service/internal/ctxlog"
)

// The YAML manifest form mirrors the HCL document model:
//
//	services:
//	  - name: adder
//	    lifecycle:
//	      body: ComputeSum
//	    parameters:
//	      - name: start_number
//	        type: number
//	      - name: end_number
//	        type: number
//	        default: 2
//	checks:
//	  - name: applies_default
//	    service: adder
//	    arguments:
//	      start_number: 1
//	    expect:
//	      result: 45
//
// Decoding is strict: unknown fields are rejected, which is the YAML
// rendition of the unrecognized-declaration-option error.

type yamlDocument struct {
	Services []yamlService `yaml:"services"`
	Checks   []yamlCheck   `yaml:"checks"`
}

type yamlService struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Extends     string          `yaml:"extends"`
	Lifecycle   yamlLifecycle   `yaml:"lifecycle"`
	Parameters  []yamlParameter `yaml:"parameters"`
}

type yamlLifecycle struct {
	Body      string   `yaml:"body"`
	BeforeRun []string `yaml:"before_run"`
}

type yamlParameter struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`

	// Default is kept as a raw node so that an explicit `default: null`
	// is distinguishable from the field being absent.
	Default *yaml.Node `yaml:"default"`
}

type yamlExpect struct {
	Result *yaml.Node `yaml:"result"`
}

type yamlCheck struct {
	Name        string         `yaml:"name"`
	Service     string         `yaml:"service"`
	Arguments   map[string]any `yaml:"arguments"`
	Expect      *yamlExpect    `yaml:"expect"`
	ExpectError string         `yaml:"expect_error"`
}

// ParseYAML decodes a YAML manifest into a Document. Errors are reported as
// HCL diagnostics so both manifest formats share one reporting path.
func ParseYAML(ctx context.Context, src []byte, path string) (*Document, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing YAML manifest.", "file_path", path)

	var diags hcl.Diagnostics
	fileRange := func(line int) *hcl.Range {
		pos := hcl.Pos{Line: line, Column: 1}
		return &hcl.Range{Filename: path, Start: pos, End: pos}
	}

	decoder := yaml.NewDecoder(bytes.NewReader(src))
	decoder.KnownFields(true)
	var raw yamlDocument
	if err := decoder.Decode(&raw); err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid YAML manifest",
			Detail:   err.Error(),
			Subject:  fileRange(1),
		})
		return nil, diags
	}

	doc := &Document{}

	for _, svc := range raw.Services {
		if svc.Name == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Service without a name",
				Detail:   "Every entry under 'services' must set 'name'.",
				Subject:  fileRange(1),
			})
			continue
		}
		hooksOK := true
		for _, hookName := range svc.Lifecycle.BeforeRun {
			if hookName == "" {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid hook reference",
					Detail:   fmt.Sprintf("Entries of 'before_run' in service '%s' must be non-empty handler names.", svc.Name),
					Subject:  fileRange(1),
				})
				hooksOK = false
			}
		}
		if !hooksOK {
			continue
		}

		def := &ServiceDefinition{
			Name:        svc.Name,
			Description: svc.Description,
			Extends:     svc.Extends,
			Lifecycle: LifecycleDefinition{
				Body:      svc.Lifecycle.Body,
				BeforeRun: svc.Lifecycle.BeforeRun,
			},
			Source: *fileRange(1),
		}

		seen := make(map[string]struct{})
		ok := true
		for _, param := range svc.Parameters {
			paramDef, paramDiags := parseYAMLParameter(svc.Name, param, path, fileRange)
			diags = append(diags, paramDiags...)
			if paramDiags.HasErrors() {
				ok = false
				continue
			}
			if _, dup := seen[paramDef.Name]; dup {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate parameter declaration",
					Detail:   fmt.Sprintf("Service '%s' declares parameter '%s' more than once.", svc.Name, paramDef.Name),
					Subject:  fileRange(1),
				})
				ok = false
				continue
			}
			seen[paramDef.Name] = struct{}{}
			def.Parameters = append(def.Parameters, paramDef)
		}

		if ok {
			doc.Services = append(doc.Services, def)
		}
	}

	for _, chk := range raw.Checks {
		def, chkDiags := parseYAMLCheck(chk, path, fileRange)
		diags = append(diags, chkDiags...)
		if !chkDiags.HasErrors() {
			doc.Checks = append(doc.Checks, def)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("Successfully parsed YAML manifest.",
		"services", len(doc.Services), "checks", len(doc.Checks))
	return doc, diags
}

func parseYAMLParameter(service string, param yamlParameter, path string, fileRange func(int) *hcl.Range) (*ParameterDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	if param.Name == "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Parameter without a name",
			Detail:   fmt.Sprintf("Every parameter of service '%s' must set 'name'.", service),
			Subject:  fileRange(1),
		})
		return nil, diags
	}

	def := &ParameterDefinition{
		Name:        param.Name,
		Type:        cty.DynamicPseudoType,
		Description: param.Description,
		Source:      *fileRange(1),
	}

	if param.Type != "" {
		ctyType, typeDiags := ParseTypeString(param.Type, path)
		diags = append(diags, typeDiags...)
		if typeDiags.HasErrors() {
			return nil, diags
		}
		def.Type = ctyType
		def.TypeGiven = true
	}

	if param.Default != nil {
		line := param.Default.Line
		if param.Default.Tag == "!!null" {
			val := cty.NullVal(def.Type)
			def.Default = &val
			return def, diags
		}

		var native any
		if err := param.Default.Decode(&native); err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid default value",
				Detail:   fmt.Sprintf("The default value for '%s' could not be decoded: %s.", param.Name, err),
				Subject:  fileRange(line),
			})
			return nil, diags
		}
		val, err := nativeToCty(native)
		if err == nil && def.TypeGiven && !def.Type.Equals(cty.DynamicPseudoType) {
			var unified cty.Value
			unified, err = unifyLiteral(val, def.Type)
			if err == nil && !unified.Type().Equals(def.Type) {
				err = fmt.Errorf("value of type %s is not compatible with %s", val.Type().FriendlyName(), def.Type.FriendlyName())
			}
			if err == nil {
				val = unified
			}
		}
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid default value type",
				Detail:   fmt.Sprintf("The default value for '%s' is not compatible with its declared type: %s.", param.Name, err),
				Subject:  fileRange(line),
			})
			return nil, diags
		}
		def.Default = &val
	}

	return def, diags
}

func parseYAMLCheck(chk yamlCheck, path string, fileRange func(int) *hcl.Range) (*CheckDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	if chk.Name == "" || chk.Service == "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Incomplete check",
			Detail:   "Every entry under 'checks' must set 'name' and 'service'.",
			Subject:  fileRange(1),
		})
		return nil, diags
	}

	def := &CheckDefinition{
		Name:        chk.Name,
		Service:     chk.Service,
		Arguments:   make(map[string]cty.Value, len(chk.Arguments)),
		ExpectError: chk.ExpectError,
		Source:      *fileRange(1),
	}

	for argName, native := range chk.Arguments {
		val, err := nativeToCty(native)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid check argument",
				Detail:   fmt.Sprintf("Argument '%s' of check '%s': %s.", argName, chk.Name, err),
				Subject:  fileRange(1),
			})
			continue
		}
		def.Arguments[argName] = val
	}

	if chk.Expect != nil {
		if chk.Expect.Result == nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing 'result' field",
				Detail:   fmt.Sprintf("The expect clause of check '%s' must declare the expected result value.", chk.Name),
				Subject:  fileRange(1),
			})
		} else {
			var native any
			if err := chk.Expect.Result.Decode(&native); err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid expected result",
					Detail:   fmt.Sprintf("Check '%s': %s.", chk.Name, err),
					Subject:  fileRange(chk.Expect.Result.Line),
				})
			} else if val, err := nativeToCty(native); err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid expected result",
					Detail:   fmt.Sprintf("Check '%s': %s.", chk.Name, err),
					Subject:  fileRange(chk.Expect.Result.Line),
				})
			} else {
				def.ExpectResult = &val
			}
		}
	}

	if def.ExpectResult == nil && def.ExpectError == "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Check has no expectation",
			Detail:   fmt.Sprintf("Check '%s' must declare either 'expect' or 'expect_error'.", chk.Name),
			Subject:  fileRange(1),
		})
	}
	if def.ExpectResult != nil && def.ExpectError != "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Conflicting expectations",
			Detail:   fmt.Sprintf("Check '%s' may declare an expected result or an expected error, not both.", chk.Name),
			Subject:  fileRange(1),
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return def, diags
}

// nativeToCty converts a decoded YAML value into a cty value. Sequences
// become tuples and mappings become objects, matching how HCL literals
// evaluate; unifyLiteral reshapes them against declared collection types.
func nativeToCty(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case bool:
		return cty.BoolVal(x), nil
	case string:
		return cty.StringVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case uint64:
		// yaml.v3 decodes integers above MaxInt64 as uint64.
		return cty.NumberUIntVal(x), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case []any:
		if len(x) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(x))
		for i, elem := range x {
			val, err := nativeToCty(elem)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = val
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(x) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(x))
		for key, elem := range x {
			val, err := nativeToCty(elem)
			if err != nil {
				return cty.NilVal, fmt.Errorf("attribute %q: %w", key, err)
			}
			attrs[key] = val
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported YAML value of type %T", v)
	}
}
