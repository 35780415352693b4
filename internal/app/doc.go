// Package app wires the bsvc manifest linter together: it owns the logger,
// the manifest loader, and the verify/describe run sequence, leaving flag
// handling and exit codes to the cli package.
package app
