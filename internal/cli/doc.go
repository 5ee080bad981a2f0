// Package cli parses command-line arguments for the dispatchviz viewer,
// validates them, and reports process-level failures as exit codes.
package cli
