package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// TypeExprToCtyType converts an HCL expression that represents a type into
// its corresponding cty.Type. Supported forms are the primitive keywords
// `string`, `number`, `bool`, the `any` keyword, and the collection
// constructors `list(T)`, `map(T)` and `set(T)` with a supported element
// type.
func TypeExprToCtyType(expr hcl.Expression) (cty.Type, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	// A bare keyword like `string` parses as a traversal.
	if traversal, travDiags := hcl.AbsTraversalForExpr(expr); !travDiags.HasErrors() && len(traversal) == 1 {
		switch name := traversal.RootName(); name {
		case "string":
			return cty.String, diags
		case "number":
			return cty.Number, diags
		case "bool":
			return cty.Bool, diags
		case "any":
			return cty.DynamicPseudoType, diags
		case "list", "map", "set":
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Incomplete type constructor",
				Detail:   fmt.Sprintf("The '%s' type requires an element type, e.g. %s(string).", name, name),
				Subject:  expr.Range().Ptr(),
			})
			return cty.NilType, diags
		case "object", "tuple":
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported type",
				Detail:   fmt.Sprintf("Structural types like '%s' are not supported in parameter declarations; use 'any' and validate in a hook.", name),
				Subject:  expr.Range().Ptr(),
			})
			return cty.NilType, diags
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported type",
				Detail:   fmt.Sprintf("The keyword '%s' is not a valid type. Supported types are: string, number, bool, any, list(T), map(T), set(T).", name),
				Subject:  expr.Range().Ptr(),
			})
			return cty.NilType, diags
		}
	}

	// A collection constructor like `list(string)` parses as a static call.
	if call, callDiags := hcl.ExprCall(expr); !callDiags.HasErrors() && call != nil {
		if len(call.Arguments) != 1 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid type constructor",
				Detail:   fmt.Sprintf("The '%s' type constructor takes exactly one element type argument.", call.Name),
				Subject:  expr.Range().Ptr(),
			})
			return cty.NilType, diags
		}

		elemType, elemDiags := TypeExprToCtyType(call.Arguments[0])
		diags = append(diags, elemDiags...)
		if elemDiags.HasErrors() {
			return cty.NilType, diags
		}

		switch call.Name {
		case "list":
			return cty.List(elemType), diags
		case "map":
			return cty.Map(elemType), diags
		case "set":
			return cty.Set(elemType), diags
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported type constructor",
				Detail:   fmt.Sprintf("'%s' is not a valid type constructor. Supported constructors are: list(T), map(T), set(T).", call.Name),
				Subject:  expr.Range().Ptr(),
			})
			return cty.NilType, diags
		}
	}

	diags = append(diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid type specification",
		Detail:   "The 'type' attribute must be a type keyword like 'string' or a constructor like 'list(string)', not a complex expression.",
		Subject:  expr.Range().Ptr(),
	})
	return cty.NilType, diags
}

// ParseTypeString converts a type written as a plain string (the YAML
// manifest form, e.g. "list(string)") into a cty.Type, by parsing it with
// the HCL expression syntax and reusing the expression translator.
func ParseTypeString(src, filename string) (cty.Type, hcl.Diagnostics) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), filename, hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilType, diags
	}
	return TypeExprToCtyType(expr)
}
