package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/LeadSimple/boring-service/internal/ctxlog"
	"github.com/LeadSimple/boring-service/internal/fsutil"
)

// manifestExtensions are the file extensions the loader recognizes.
var manifestExtensions = []string{".hcl", ".yaml", ".yml"}

// Loader reads manifest files from disk and parses them into Documents. It
// keeps the parsed HCL sources around so callers can render diagnostics
// with source snippets (see Files).
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Files exposes the parsed HCL sources, keyed by path, for use with
// hcl.NewDiagnosticTextWriter.
func (l *Loader) Files() map[string]*hcl.File {
	return l.parser.Files()
}

// Load reads manifests from the given paths. A directory is searched
// recursively for manifest files; a file is loaded as-is. All parsed
// definitions are merged into a single document.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Document, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	doc := &Document{}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Cannot read manifest path",
				Detail:   err.Error(),
			})
			continue
		}

		files := []string{path}
		if info.IsDir() {
			files, err = fsutil.FindFilesByExtension(path, manifestExtensions...)
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Cannot search manifest directory",
					Detail:   err.Error(),
				})
				continue
			}
		}

		for _, file := range files {
			fileDoc, fileDiags := l.LoadFile(ctx, file)
			diags = append(diags, fileDiags...)
			if fileDoc != nil {
				doc.Merge(fileDoc)
			}
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return doc, diags
}

// LoadFile reads and parses a single manifest file, selecting the parser by
// file extension.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Document, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading manifest file.", "file_path", path)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		file, diags := l.parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, diags
		}
		return ParseHCL(ctx, file, path)

	case ".yaml", ".yml":
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Cannot read manifest file",
				Detail:   err.Error(),
			}}
		}
		return ParseYAML(ctx, src, path)

	default:
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported manifest format",
			Detail:   fmt.Sprintf("The file %q has no recognized manifest extension (.hcl, .yaml, .yml).", path),
		}}
	}
}
