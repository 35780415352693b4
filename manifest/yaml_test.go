package manifest_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/LeadSimple/boring-service/manifest"
)

func TestParseYAML_FullService(t *testing.T) {
	t.Parallel()

	doc, diags := manifest.ParseYAML(context.Background(), []byte(`
services:
  - name: adder
    description: Adds two numbers and the answer.
    lifecycle:
      body: ComputeSum
      before_run: [Normalize]
    parameters:
      - name: start_number
        type: number
      - name: end_number
        type: number
        default: 2
      - name: tags
        type: list(string)
        default: [a, b]
checks:
  - name: applies_default
    service: adder
    arguments:
      start_number: 1
    expect:
      result: 45
`), "test.yaml")
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags)
	require.Len(t, doc.Services, 1)

	svc := doc.Services[0]
	assert.Equal(t, "adder", svc.Name)
	assert.Equal(t, "ComputeSum", svc.Lifecycle.Body)
	assert.Equal(t, []string{"Normalize"}, svc.Lifecycle.BeforeRun)
	require.Len(t, svc.Parameters, 3)

	assert.True(t, svc.Parameters[0].Type.Equals(cty.Number))
	assert.Nil(t, svc.Parameters[0].Default)

	require.NotNil(t, svc.Parameters[1].Default)
	assert.Equal(t, cty.NumberIntVal(2), *svc.Parameters[1].Default)

	require.NotNil(t, svc.Parameters[2].Default)
	assert.True(t, svc.Parameters[2].Default.Type().Equals(cty.List(cty.String)),
		"the sequence literal must be converted to the declared list type")

	require.Len(t, doc.Checks, 1)
	chk := doc.Checks[0]
	assert.Equal(t, "adder", chk.Service)
	assert.Equal(t, cty.NumberIntVal(1), chk.Arguments["start_number"])
	require.NotNil(t, chk.ExpectResult)
	assert.Equal(t, cty.NumberIntVal(45), *chk.ExpectResult)
}

func TestParseYAML_ExplicitNullDefault(t *testing.T) {
	t.Parallel()

	doc, diags := manifest.ParseYAML(context.Background(), []byte(`
services:
  - name: nullable
    parameters:
      - name: limit
        type: number
        default: null
      - name: no_default
        type: number
`), "test.yaml")
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags)

	params := doc.Services[0].Parameters
	require.NotNil(t, params[0].Default, "default: null is a declared default")
	assert.True(t, params[0].Default.IsNull())
	assert.Nil(t, params[1].Default, "an absent default field is no default at all")
}

func TestParseYAML_DefaultAboveMaxInt64(t *testing.T) {
	t.Parallel()

	// yaml.v3 decodes integers above MaxInt64 as uint64.
	doc, diags := manifest.ParseYAML(context.Background(), []byte(`
services:
  - name: counter
    parameters:
      - name: limit
        type: number
        default: 18446744073709551615
`), "test.yaml")
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags)
	require.Len(t, doc.Services, 1)

	param := doc.Services[0].Parameters[0]
	require.NotNil(t, param.Default)
	assert.True(t, cty.NumberUIntVal(math.MaxUint64).RawEquals(*param.Default))
}

func TestParseYAML_UnknownFieldRejected(t *testing.T) {
	t.Parallel()

	_, diags := manifest.ParseYAML(context.Background(), []byte(`
services:
  - name: s
    parameters:
      - name: p
        type: string
        requried: true
`), "test.yaml")
	require.True(t, diags.HasErrors(), "unknown fields must be rejected")
	assert.Contains(t, diags.Error(), "requried")
}

func TestParseYAML_InvalidDefaultType(t *testing.T) {
	t.Parallel()

	_, diags := manifest.ParseYAML(context.Background(), []byte(`
services:
  - name: s
    parameters:
      - name: p
        type: number
        default: two
`), "test.yaml")
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.Error(), "Invalid default value type")
}

func TestParseYAML_DuplicateParameter(t *testing.T) {
	t.Parallel()

	_, diags := manifest.ParseYAML(context.Background(), []byte(`
services:
  - name: s
    parameters:
      - name: p
      - name: p
`), "test.yaml")
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.Error(), "Duplicate parameter declaration")
}
