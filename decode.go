package boringservice

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Decode populates a Go struct from the invocation's parameter values.
// target must be a non-nil pointer to a struct; each exported field carrying
// a `bsvc:"name"` tag receives the value of the parameter of that name.
// Absent and null parameters leave their field at its zero value.
//
// A field of type cty.Value receives the raw value; a field of type any
// receives the value's natural Go representation; every other field is
// converted via cty's conversion rules, so a cty.Number lands equally well
// in an int or a float64 field.
func (inv *Invocation) Decode(target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer to a struct")
	}
	structVal := ptr.Elem()
	if structVal.Kind() != reflect.Struct {
		return fmt.Errorf("decode target must point to a struct, not %s", structVal.Kind())
	}
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		fieldDef := structType.Field(i)
		fieldVal := structVal.Field(i)

		if !fieldDef.IsExported() || !fieldVal.CanSet() {
			continue
		}

		tagName := strings.Split(fieldDef.Tag.Get("bsvc"), ",")[0]
		if tagName == "" || tagName == "-" {
			continue
		}

		if _, declared := inv.service.schema.Lookup(tagName); !declared {
			return &UnknownParameterError{Service: inv.service.name, Name: tagName}
		}
		if !inv.Has(tagName) {
			continue
		}

		if err := decodeValue(inv.Get(tagName), fieldVal); err != nil {
			return fmt.Errorf("decoding parameter %q into field %s: %w", tagName, fieldDef.Name, err)
		}
	}
	return nil
}

// decodeValue assigns a single cty value to a settable Go value.
func decodeValue(val cty.Value, goVal reflect.Value) error {
	goType := goVal.Type()

	// A cty.Value field takes the value as-is, no conversion.
	if goType == reflect.TypeOf(cty.Value{}) {
		goVal.Set(reflect.ValueOf(val))
		return nil
	}

	// An interface{} field takes the natural Go representation.
	if goType.Kind() == reflect.Interface {
		native, err := ctyToNative(val)
		if err != nil {
			return err
		}
		if native != nil {
			goVal.Set(reflect.ValueOf(native))
		}
		return nil
	}

	wantType, err := gocty.ImpliedType(reflect.Zero(goType).Interface())
	if err != nil {
		return fmt.Errorf("cannot imply cty type for Go type %s: %w", goType, err)
	}
	converted, err := convert.Convert(val, wantType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to %s: %w", val.Type().FriendlyName(), wantType.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, goVal.Addr().Interface())
}

// ctyToNative recursively converts a cty value to its most natural Go
// counterpart: string, float64, bool, []any, map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			goMap[key.AsString()] = native
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported type for native conversion: %s", ty.FriendlyName())
	}
}
