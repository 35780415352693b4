package manifest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	boringservice "github.com/LeadSimple/boring-service"
	"github.com/LeadSimple/boring-service/manifest"
)

const adderChecksHCL = adderHCL + `
check "adds_supplied_numbers" {
  service = "adder"
  arguments {
    start_number = 1
    end_number   = 3
  }
  expect {
    result = 46
  }
}

check "applies_default" {
  service = "adder"
  arguments {
    start_number = 1
  }
  expect {
    result = 45
  }
}

check "requires_start_number" {
  service      = "adder"
  expect_error = "parameter_required"
  arguments {
    end_number = 3
  }
}

check "rejects_string_numbers" {
  service      = "adder"
  expect_error = "invalid_parameter_value"
  arguments {
    start_number = "1"
  }
}

check "rejects_unknown_arguments" {
  service      = "adder"
  expect_error = "unknown_parameter"
  arguments {
    start_numbers = 1
  }
}
`

func TestRunChecks_AllHold(t *testing.T) {
	t.Parallel()

	doc, diags := parseHCL(t, adderChecksHCL)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags)

	catalog, err := manifest.Bind(doc, adderHandlers())
	require.NoError(t, err)

	failures := manifest.RunChecks(context.Background(), doc, catalog)
	assert.Empty(t, failures, "every check should hold: %v", failures)
}

func TestRunChecks_ReportsWrongResult(t *testing.T) {
	t.Parallel()

	doc, diags := parseHCL(t, adderHCL+`
check "wrong" {
  service = "adder"
  arguments {
    start_number = 1
  }
  expect {
    result = 99
  }
}
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags)

	catalog, err := manifest.Bind(doc, adderHandlers())
	require.NoError(t, err)

	failures := manifest.RunChecks(context.Background(), doc, catalog)
	require.Len(t, failures, 1)
	assert.Equal(t, "wrong", failures[0].Check.Name)
	assert.Contains(t, failures[0].Reason, "expected result")
}

func TestRunChecks_ReportsWrongErrorKind(t *testing.T) {
	t.Parallel()

	doc, diags := parseHCL(t, adderHCL+`
check "mislabeled" {
  service      = "adder"
  expect_error = "unknown_parameter"
  arguments {
    start_number = "1"
  }
}
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags)

	catalog, err := manifest.Bind(doc, adderHandlers())
	require.NoError(t, err)

	failures := manifest.RunChecks(context.Background(), doc, catalog)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Reason, "expected a unknown_parameter error")
}

func TestVerify_StaticFindings(t *testing.T) {
	t.Parallel()

	doc, diags := parseHCL(t, adderHCL+`
check "unknown_service" {
  service = "subtractor"
  expect {
    result = 0
  }
}

check "unknown_argument" {
  service = "adder"
  arguments {
    begin_number = 1
  }
  expect {
    result = 45
  }
}

check "wrong_argument_type" {
  service = "adder"
  arguments {
    start_number = "1"
  }
  expect {
    result = 45
  }
}

check "bad_error_kind" {
  service      = "adder"
  expect_error = "parameter_requried"
}
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags)

	catalog, err := manifest.Build(doc)
	require.NoError(t, err)

	failures := manifest.Verify(doc, catalog)
	require.Len(t, failures, 4)

	reasons := make([]string, len(failures))
	for i, failure := range failures {
		reasons[i] = failure.String()
	}
	joined := ""
	for _, reason := range reasons {
		joined += reason + "\n"
	}
	assert.Contains(t, joined, "subtractor")
	assert.Contains(t, joined, "begin_number")
	assert.Contains(t, joined, "start_number")
	assert.Contains(t, joined, "parameter_requried")
}

func TestVerify_DeliberatelyBadArgumentsAreNotFlagged(t *testing.T) {
	t.Parallel()

	doc, diags := parseHCL(t, adderChecksHCL)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags)

	catalog, err := manifest.Build(doc)
	require.NoError(t, err)

	failures := manifest.Verify(doc, catalog)
	assert.Empty(t, failures,
		"checks that expect unknown_parameter or invalid_parameter_value supply bad arguments on purpose")
}

func TestRunChecks_HandBuiltCheckWithoutExpectation(t *testing.T) {
	t.Parallel()

	doc, diags := parseHCL(t, adderHCL)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags)

	// Parsed checks always carry an expectation; a caller assembling the
	// document directly may forget one.
	doc.Checks = append(doc.Checks, &manifest.CheckDefinition{
		Name:    "incomplete",
		Service: "adder",
		Arguments: map[string]cty.Value{
			"start_number": cty.NumberIntVal(1),
		},
	})

	catalog, err := manifest.Bind(doc, adderHandlers())
	require.NoError(t, err)

	failures := manifest.RunChecks(context.Background(), doc, catalog)
	require.Len(t, failures, 1)
	assert.Equal(t, "incomplete", failures[0].Check.Name)
	assert.Contains(t, failures[0].Reason, "neither an expected result nor an expected error")
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, manifest.KindUnknownParameter, manifest.ErrorKind(&boringservice.UnknownParameterError{}))
	assert.Equal(t, manifest.KindInvalidParameterValue, manifest.ErrorKind(&boringservice.InvalidValueError{}))
	assert.Equal(t, manifest.KindParameterRequired, manifest.ErrorKind(&boringservice.MissingParametersError{}))
	assert.Equal(t, manifest.KindNotImplemented, manifest.ErrorKind(&boringservice.NotImplementedError{}))
	assert.Equal(t, "", manifest.ErrorKind(context.Canceled))
}

func TestRunChecks_CollectionArgumentsAreCoerced(t *testing.T) {
	t.Parallel()

	doc, diags := parseHCL(t, `
service "joiner" {
  lifecycle {
    body = "Join"
  }
  parameter "parts" {
    type = list(string)
  }
}

check "joins" {
  service = "joiner"
  arguments {
    parts = ["a", "b"]
  }
  expect {
    result = "ab"
  }
}
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags)

	handlers := boringservice.NewHandlers()
	handlers.RegisterBody("Join", func(ctx context.Context, inv *boringservice.Invocation) (cty.Value, error) {
		joined := ""
		for it := inv.Get("parts").ElementIterator(); it.Next(); {
			_, part := it.Element()
			joined += part.AsString()
		}
		return cty.StringVal(joined), nil
	})

	catalog, err := manifest.Bind(doc, handlers)
	require.NoError(t, err)

	failures := manifest.RunChecks(context.Background(), doc, catalog)
	assert.Empty(t, failures, "the tuple literal must be coerced to list(string) before the acceptance check: %v", failures)
}
