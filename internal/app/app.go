package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/hcl/v2"

	boringservice "github.com/LeadSimple/boring-service"
	"github.com/LeadSimple/boring-service/internal/ctxlog"
	"github.com/LeadSimple/boring-service/manifest"
)

// App encapsulates the linter's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	config *Config
}

// New is the constructor for the application. It returns a fully initialized
// App instance with its own isolated logger.
func New(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config, errW)
	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: config,
	}
}

// FindingsError reports how many problems a run surfaced. It exists so the
// CLI layer can map "the manifests are wrong" to its own exit code,
// distinct from usage errors.
type FindingsError struct {
	Count int
}

func (e *FindingsError) Error() string {
	return fmt.Sprintf("manifest verification failed with %d finding(s)", e.Count)
}

// Run loads every manifest under the configured path, reports parse
// diagnostics with source context, statically verifies the check blocks,
// and optionally describes each service's effective schema.
//
// It builds definitions only: bodies live in the embedding programs, so the
// linter never executes anything.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Info("Loading manifests.", "path", a.config.ManifestPath)

	loader := manifest.NewLoader()
	doc, diags := loader.Load(ctx, a.config.ManifestPath)
	if diags.HasErrors() {
		a.writeDiagnostics(loader, diags)
		return &FindingsError{Count: len(diags.Errs())}
	}
	a.logger.Info("Manifests parsed.", "services", len(doc.Services), "checks", len(doc.Checks))

	catalog, err := manifest.Build(doc)
	if err != nil {
		fmt.Fprintln(a.outW, err)
		return &FindingsError{Count: 1}
	}

	failures := manifest.Verify(doc, catalog)
	for _, failure := range failures {
		fmt.Fprintln(a.outW, failure)
	}

	if a.config.Describe {
		a.describe(catalog)
	}

	if len(failures) > 0 {
		return &FindingsError{Count: len(failures)}
	}
	a.logger.Info("Manifests verified.", "services", catalog.Len())
	return nil
}

// writeDiagnostics renders parse diagnostics with source snippets.
func (a *App) writeDiagnostics(loader *manifest.Loader, diags hcl.Diagnostics) {
	writer := hcl.NewDiagnosticTextWriter(a.outW, loader.Files(), 100, false)
	if err := writer.WriteDiagnostics(diags); err != nil {
		a.logger.Error("Failed to render diagnostics.", "error", err)
	}
}

// describe prints every service's effective parameter table.
func (a *App) describe(catalog *boringservice.Catalog) {
	for _, svc := range catalog.Services() {
		fmt.Fprintf(a.outW, "service %q", svc.Name())
		if svc.Parent() != nil {
			fmt.Fprintf(a.outW, " extends %q", svc.Parent().Name())
		}
		fmt.Fprintln(a.outW)
		if svc.Description() != "" {
			fmt.Fprintf(a.outW, "  %s\n", svc.Description())
		}

		for _, param := range svc.Schema().Effective() {
			disposition := "required"
			if defaultVal, ok := param.DefaultValue(); ok {
				if defaultVal.IsNull() {
					disposition = "default null"
				} else {
					disposition = fmt.Sprintf("default %v", defaultVal.GoString())
				}
			} else if param.HasDefault() {
				disposition = "default computed"
			}
			fmt.Fprintf(a.outW, "  parameter %-20s %-24s %s\n",
				param.Name(), param.Acceptance().Describe(), disposition)
		}
		fmt.Fprintln(a.outW)
	}
}
