package integration_tests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeadSimple/boring-service/internal/app"
	"github.com/LeadSimple/boring-service/internal/testutil"
)

const adderManifest = `
service "adder" {
  description = "Sums a range and adds the magic constant."

  lifecycle {
    body = "ComputeSum"
  }

  parameter "start_number" {
    type = number
  }

  parameter "end_number" {
    type    = number
    default = 2
  }
}
`

func TestLinter_CleanManifest(t *testing.T) {
	t.Parallel()

	result := testutil.RunLinterTest(t, map[string]string{
		"adder.hcl": adderManifest,
	})
	testutil.AssertClean(t, result)
}

func TestLinter_CleanManifestWithChecks(t *testing.T) {
	t.Parallel()

	result := testutil.RunLinterTest(t, map[string]string{
		"adder.hcl": adderManifest,
		"checks.hcl": `
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
}
`,
	})
	testutil.AssertClean(t, result)
}

func TestLinter_MergesManifestFormats(t *testing.T) {
	t.Parallel()

	// The service arrives in HCL, the check in YAML; both feed one document.
	result := testutil.RunLinterTest(t, map[string]string{
		"services/adder.hcl": adderManifest,
		"checks/adder.yaml": `
checks:
  - name: applies_default
    service: adder
    arguments:
      start_number: 1
    expect:
      result: 45
`,
	})
	testutil.AssertClean(t, result)
}

func TestLinter_ExtendsAcrossFiles(t *testing.T) {
	t.Parallel()

	result := testutil.RunLinterTest(t, map[string]string{
		"base.hcl": `
service "base_report" {
  parameter "title" {
    type = string
  }
}
`,
		"child.hcl": `
service "weekly_report" {
  extends = "base_report"

  parameter "week" {
    type = number
  }
}
`,
	})
	testutil.AssertClean(t, result)
}

func TestLinter_MissingPath(t *testing.T) {
	t.Parallel()

	config, err := app.NewConfig(app.Config{
		ManifestPath: filepath.Join(t.TempDir(), "does-not-exist"),
		LogLevel:     "warn",
		LogFormat:    "text",
	})
	require.NoError(t, err)

	var out, logs testutil.SafeBuffer
	runErr := app.New(&out, &logs, config).Run(context.Background())
	require.Error(t, runErr)
	require.Contains(t, out.String(), "Cannot read manifest path")
}
