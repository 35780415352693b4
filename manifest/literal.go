package manifest

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// unifyLiteral reshapes a literal value to fit a declared collection type.
// HCL and YAML list literals parse as tuples and object literals as objects;
// when the declaration asks for list(T), set(T) or map(T), the literal is
// converted element-wise. Anything else is returned unchanged, so the strict
// acceptance check still decides validity: a string destined for a number
// parameter stays a string and gets rejected.
func unifyLiteral(val cty.Value, want cty.Type) (cty.Value, error) {
	if want == cty.NilType || want == cty.DynamicPseudoType || val.IsNull() {
		return val, nil
	}
	ty := val.Type()
	switch {
	case ty.IsTupleType() && (want.IsListType() || want.IsSetType()):
		converted, err := convert.Convert(val, want)
		if err != nil {
			return cty.NilVal, fmt.Errorf("cannot convert %s to %s: %w", ty.FriendlyName(), want.FriendlyName(), err)
		}
		return converted, nil
	case ty.IsObjectType() && want.IsMapType():
		converted, err := convert.Convert(val, want)
		if err != nil {
			return cty.NilVal, fmt.Errorf("cannot convert %s to %s: %w", ty.FriendlyName(), want.FriendlyName(), err)
		}
		return converted, nil
	default:
		return val, nil
	}
}
