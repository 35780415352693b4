package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeadSimple/boring-service/internal/app"
	"github.com/LeadSimple/boring-service/internal/testutil"
)

func TestLinter_DescribePrintsEffectiveSchema(t *testing.T) {
	t.Parallel()

	result := testutil.RunLinterTestWithConfig(t, map[string]string{
		"report.hcl": `
service "base_report" {
  description = "Common report parameters."

  parameter "title" {
    type = string
  }

  parameter "recipient" {
    type    = string
    default = null
  }
}

service "weekly_report" {
  extends = "base_report"

  parameter "week" {
    type    = number
    default = 1
  }
}
`,
	}, app.Config{Describe: true})

	require.NoError(t, result.Err)

	assert.Contains(t, result.Output, `service "base_report"`)
	assert.Contains(t, result.Output, "Common report parameters.")
	assert.Contains(t, result.Output, `service "weekly_report" extends "base_report"`)

	assert.Contains(t, result.Output, "title")
	assert.Contains(t, result.Output, "required")
	assert.Contains(t, result.Output, "default null")
	assert.Contains(t, result.Output, "week")
	assert.Contains(t, result.Output, "default cty.NumberIntVal(1)")
}
