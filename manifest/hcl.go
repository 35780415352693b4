package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"

	"github.com/LeadSimple/boring-service/internal/ctxlog"
)

// rootSchema defines the top-level structure of a manifest file: any number
// of 'service' and 'check' blocks.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "service", LabelNames: []string{"name"}},
		{Type: "check", LabelNames: []string{"name"}},
	},
}

// serviceBodySchema defines the body of a 'service' block. Content checks
// against this schema are what reject unrecognized attributes and blocks.
var serviceBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "extends"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "lifecycle"},
		{Type: "parameter", LabelNames: []string{"name"}},
	},
}

// parameterBodySchema defines the body of a 'parameter' block. Anything
// other than these three attributes is an unrecognized declaration option.
var parameterBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "description"},
		{Name: "default"},
	},
}

// checkBodySchema defines the body of a 'check' block.
var checkBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "service"},
		{Name: "expect_error"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "arguments"},
		{Type: "expect"},
	},
}

// hclLifecycle is the decode target for a 'lifecycle' block.
type hclLifecycle struct {
	Body      string   `hcl:"body,optional"`
	BeforeRun []string `hcl:"before_run,optional"`
}

// ParseHCL decodes one already-parsed HCL manifest file into a Document.
func ParseHCL(ctx context.Context, file *hcl.File, path string) (*Document, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing manifest definitions from file.", "file_path", path)

	var diags hcl.Diagnostics
	if file == nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, diags
	}

	content, contentDiags := file.Body.Content(rootSchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	doc := &Document{}
	for _, block := range content.Blocks {
		switch block.Type {
		case "service":
			def, svcDiags := parseServiceBlock(block)
			diags = append(diags, svcDiags...)
			if !svcDiags.HasErrors() {
				doc.Services = append(doc.Services, def)
			}
		case "check":
			def, chkDiags := parseCheckBlock(block)
			diags = append(diags, chkDiags...)
			if !chkDiags.HasErrors() {
				doc.Checks = append(doc.Checks, def)
			}
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("Successfully parsed manifest definitions.",
		"services", len(doc.Services), "checks", len(doc.Checks))
	return doc, diags
}

func parseServiceBlock(block *hcl.Block) (*ServiceDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	body, contentDiags := block.Body.Content(serviceBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	if block.Labels[0] == "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid service name",
			Detail:   "A service block's name label must not be empty.",
			Subject:  &block.LabelRanges[0],
		})
		return nil, diags
	}

	def := &ServiceDefinition{
		Name:   block.Labels[0],
		Source: block.DefRange,
	}

	if attr, exists := body.Attributes["description"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Description)...)
	}
	if attr, exists := body.Attributes["extends"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Extends)...)
	}

	lifecycleDiags := parseLifecycle(body.Blocks, &def.Lifecycle)
	diags = append(diags, lifecycleDiags...)

	params, paramDiags := parseParameters(body.Blocks)
	diags = append(diags, paramDiags...)
	def.Parameters = params

	if diags.HasErrors() {
		return nil, diags
	}
	return def, diags
}

// parseLifecycle finds and decodes the unique 'lifecycle' block, if any.
func parseLifecycle(blocks hcl.Blocks, out *LifecycleDefinition) hcl.Diagnostics {
	var diags hcl.Diagnostics

	lifecycleBlocks := blocks.OfType("lifecycle")
	if len(lifecycleBlocks) == 0 {
		return diags
	}
	if len(lifecycleBlocks) > 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Duplicate lifecycle block",
			Detail:   "A service may declare at most one lifecycle block.",
			Subject:  &lifecycleBlocks[1].DefRange,
		})
		return diags
	}

	var decoded hclLifecycle
	diags = append(diags, gohcl.DecodeBody(lifecycleBlocks[0].Body, nil, &decoded)...)
	for _, name := range decoded.BeforeRun {
		if name == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid hook reference",
				Detail:   "Entries of 'before_run' must be non-empty handler names.",
				Subject:  &lifecycleBlocks[0].DefRange,
			})
			return diags
		}
	}
	out.Body = decoded.Body
	out.BeforeRun = decoded.BeforeRun
	return diags
}

// parseParameters finds and decodes all 'parameter' blocks, preserving
// declaration order.
func parseParameters(blocks hcl.Blocks) ([]*ParameterDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var params []*ParameterDefinition
	seen := make(map[string]struct{})

	for _, block := range blocks.OfType("parameter") {
		// The schema guarantees one label.
		name := block.Labels[0]

		if name == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid parameter name",
				Detail:   "A parameter block's name label must not be empty.",
				Subject:  &block.LabelRanges[0],
			})
			continue
		}

		if _, exists := seen[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate parameter declaration",
				Detail:   fmt.Sprintf("A parameter named '%s' has already been declared in this service.", name),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = struct{}{}

		body, contentDiags := block.Body.Content(parameterBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		def := &ParameterDefinition{
			Name:   name,
			Type:   cty.DynamicPseudoType,
			Source: block.DefRange,
		}

		if typeAttr, exists := body.Attributes["type"]; exists {
			ctyType, typeDiags := TypeExprToCtyType(typeAttr.Expr)
			diags = append(diags, typeDiags...)
			if typeDiags.HasErrors() {
				continue
			}
			def.Type = ctyType
			def.TypeGiven = true
		}

		if descAttr, exists := body.Attributes["description"]; exists {
			diags = append(diags, gohcl.DecodeExpression(descAttr.Expr, nil, &def.Description)...)
		}

		if defaultAttr, exists := body.Attributes["default"]; exists {
			// A nil eval context: defaults must be literal values.
			val, valDiags := defaultAttr.Expr.Value(nil)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}

			// A non-null default must conform to the declared type. An
			// explicit null default is always allowed: it makes the
			// parameter nullable. Collection literals parse as tuples and
			// objects, so reshape them before the strict check.
			if def.TypeGiven && !def.Type.Equals(cty.DynamicPseudoType) && !val.IsNull() {
				unified, err := unifyLiteral(val, def.Type)
				if err != nil || !unified.Type().Equals(def.Type) {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Invalid default value type",
						Detail:   fmt.Sprintf("The default value for '%s' is not compatible with its declared type, '%s'.", name, def.Type.FriendlyName()),
						Subject:  defaultAttr.Expr.Range().Ptr(),
					})
					continue
				}
				val = unified
			}
			if val.IsNull() && def.TypeGiven {
				val = cty.NullVal(def.Type)
			}
			def.Default = &val
		}

		params = append(params, def)
	}

	return params, diags
}

func parseCheckBlock(block *hcl.Block) (*CheckDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	body, contentDiags := block.Body.Content(checkBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	def := &CheckDefinition{
		Name:      block.Labels[0],
		Arguments: make(map[string]cty.Value),
		Source:    block.DefRange,
	}

	serviceAttr, exists := body.Attributes["service"]
	if !exists {
		missingRange := block.Body.MissingItemRange()
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing 'service' attribute",
			Detail:   "A check block must name the service it invokes.",
			Subject:  &missingRange,
		})
		return nil, diags
	}
	diags = append(diags, gohcl.DecodeExpression(serviceAttr.Expr, nil, &def.Service)...)

	if attr, exists := body.Attributes["expect_error"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.ExpectError)...)
	}

	for _, argBlock := range body.Blocks.OfType("arguments") {
		attrs, attrDiags := argBlock.Body.JustAttributes()
		diags = append(diags, attrDiags...)
		if attrDiags.HasErrors() {
			continue
		}
		for argName, attr := range attrs {
			val, valDiags := attr.Expr.Value(nil)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}
			def.Arguments[argName] = val
		}
	}

	for _, expectBlock := range body.Blocks.OfType("expect") {
		attrs, attrDiags := expectBlock.Body.JustAttributes()
		diags = append(diags, attrDiags...)
		if attrDiags.HasErrors() {
			continue
		}
		resultAttr, exists := attrs["result"]
		if !exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing 'result' attribute",
				Detail:   "An expect block must declare the expected result value.",
				Subject:  &expectBlock.DefRange,
			})
			continue
		}
		val, valDiags := resultAttr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		def.ExpectResult = &val
	}

	if def.ExpectResult == nil && def.ExpectError == "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Check has no expectation",
			Detail:   "A check block must declare either an expect block or an expect_error attribute.",
			Subject:  &block.DefRange,
		})
	}
	if def.ExpectResult != nil && def.ExpectError != "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Conflicting expectations",
			Detail:   "A check block may declare an expected result or an expected error, not both.",
			Subject:  &block.DefRange,
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return def, diags
}
