package boringservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"pgregory.net/rapid"

	boringservice "github.com/LeadSimple/boring-service"
)

// TestProperty_RedeclarationOrder checks the last-writer-wins rule: after an
// arbitrary sequence of declarations, the effective schema holds one entry
// per name, ordered by each name's final declaration.
func TestProperty_RedeclarationOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d", "e"}), 1, 25).Draw(t, "names")

		svc := boringservice.Define("generated")
		for _, name := range names {
			svc.Parameter(name, nil)
		}

		// Independent oracle: unique names ordered by last occurrence.
		lastIndex := make(map[string]int)
		for i, name := range names {
			lastIndex[name] = i
		}
		var expected []string
		for i, name := range names {
			if lastIndex[name] == i {
				expected = append(expected, name)
			}
		}

		require.Equal(t, expected, effectiveNames(svc.Schema()))
	})
}

// TestProperty_RequiredParameterAssertion checks that Run reports exactly
// the no-default parameters that were not supplied, in schema order.
func TestProperty_RequiredParameterAssertion(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paramNames := []string{"p0", "p1", "p2", "p3", "p4", "p5"}
		hasDefault := make(map[string]bool)
		svc := boringservice.Define("generated")
		for _, name := range paramNames {
			if rapid.Bool().Draw(t, "hasDefault_"+name) {
				hasDefault[name] = true
				svc.Parameter(name, nil, boringservice.Default(cty.StringVal("d")))
			} else {
				svc.Parameter(name, nil)
			}
		}
		svc.Body(func(ctx context.Context, inv *boringservice.Invocation) (cty.Value, error) {
			return cty.True, nil
		})

		supplied := make(map[string]cty.Value)
		for _, name := range paramNames {
			if rapid.Bool().Draw(t, "supply_"+name) {
				supplied[name] = cty.StringVal("v")
			}
		}

		var expectedMissing []string
		for _, name := range paramNames {
			if _, ok := supplied[name]; !ok && !hasDefault[name] {
				expectedMissing = append(expectedMissing, name)
			}
		}

		_, err := svc.Call(context.Background(), supplied)
		if len(expectedMissing) == 0 {
			require.NoError(t, err)
			return
		}
		var missing *boringservice.MissingParametersError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, expectedMissing, missing.Missing)
	})
}

// TestProperty_OneOfMembership checks that a OneOf acceptance accepts a
// value iff the value's type is a member of the set.
func TestProperty_OneOfMembership(t *testing.T) {
	primitives := []cty.Type{cty.String, cty.Number, cty.Bool}
	sample := map[string]cty.Value{
		"string": cty.StringVal("s"),
		"number": cty.NumberIntVal(4),
		"bool":   cty.True,
	}

	rapid.Check(t, func(t *rapid.T) {
		members := rapid.SliceOfNDistinct(rapid.SampledFrom(primitives), 1, 3, cty.Type.FriendlyName).Draw(t, "members")
		value := rapid.SampledFrom([]string{"string", "number", "bool"}).Draw(t, "value")

		acceptance := boringservice.OneOf(members...)

		inSet := false
		for _, member := range members {
			if member.FriendlyName() == value {
				inSet = true
			}
		}

		require.Equal(t, inSet, acceptance.Accepts(sample[value]))
	})
}
