package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertClean checks that a linter run reported no findings at all.
func AssertClean(t *testing.T, result *LinterResult) {
	t.Helper()
	require.NoError(t, result.Err, "expected a clean run, output was:\n%s", result.Output)
	require.Empty(t, result.Output)
}

// AssertFinding checks that a linter run failed and reported a finding
// containing the given substring.
func AssertFinding(t *testing.T, result *LinterResult, substring string) {
	t.Helper()
	require.Error(t, result.Err, "expected findings, but the run was clean")
	require.True(t,
		strings.Contains(result.Output, substring),
		"expected finding containing %q, output was:\n%s", substring, result.Output,
	)
}
