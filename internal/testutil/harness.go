package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeadSimple/boring-service/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// LinterResult holds the outcomes of a linter run against a manifest tree.
type LinterResult struct {
	Output    string
	LogOutput string
	Err       error
}

// RunLinterTest provides a standardized harness for linter integration
// tests: it writes the given files into a temporary manifest directory,
// runs the app against it, and captures what it printed.
func RunLinterTest(t *testing.T, files map[string]string) *LinterResult {
	t.Helper()
	return RunLinterTestWithConfig(t, files, app.Config{})
}

// RunLinterTestWithConfig is RunLinterTest with caller-controlled config.
// ManifestPath is always overwritten with the temporary directory.
func RunLinterTestWithConfig(t *testing.T, files map[string]string, cfg app.Config) *LinterResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfg.ManifestPath = tmpDir
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	config, err := app.NewConfig(cfg)
	require.NoError(t, err)

	outBuffer := &SafeBuffer{}
	logBuffer := &SafeBuffer{}
	testApp := app.New(outBuffer, logBuffer, config)
	runErr := testApp.Run(context.Background())

	if os.Getenv("BSVC_TEST_LOGS") == "true" {
		t.Logf("--- Full log output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &LinterResult{
		Output:    outBuffer.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
	}
}
