package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeadSimple/boring-service/internal/app"
	"github.com/LeadSimple/boring-service/internal/testutil"
)

func TestLinter_CheckVerificationFindings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		check   string
		finding string
	}{
		{
			name: "check against unknown service",
			check: `
check "bad" {
  service = "subtractor"
  expect {
    result = 0
  }
}
`,
			finding: "references unknown service 'subtractor'",
		},
		{
			name: "argument names no declared parameter",
			check: `
check "bad" {
  service = "adder"
  arguments {
    begin_number = 1
  }
  expect {
    result = 45
  }
}
`,
			finding: "argument 'begin_number' does not match any parameter",
		},
		{
			name: "argument fails the parameter's acceptance",
			check: `
check "bad" {
  service = "adder"
  arguments {
    start_number = "1"
  }
  expect {
    result = 45
  }
}
`,
			finding: "argument 'start_number' is not acceptable",
		},
		{
			name: "expect_error names an unknown kind",
			check: `
check "bad" {
  service      = "adder"
  expect_error = "parameter_requried"
}
`,
			finding: "unknown error kind 'parameter_requried'",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := testutil.RunLinterTest(t, map[string]string{
				"adder.hcl":  adderManifest,
				"checks.hcl": tc.check,
			})
			testutil.AssertFinding(t, result, tc.finding)
		})
	}
}

func TestLinter_ReportsEveryFinding(t *testing.T) {
	t.Parallel()

	result := testutil.RunLinterTest(t, map[string]string{
		"adder.hcl": adderManifest,
		"checks.hcl": `
check "first" {
  service = "subtractor"
  expect {
    result = 0
  }
}

check "second" {
  service = "adder"
  arguments {
    begin_number = 1
  }
  expect {
    result = 45
  }
}
`,
	})

	require.Error(t, result.Err)
	var findings *app.FindingsError
	require.ErrorAs(t, result.Err, &findings)
	assert.Equal(t, 2, findings.Count)
	assert.Contains(t, result.Output, "subtractor")
	assert.Contains(t, result.Output, "begin_number")
}
