package driven

import "context"

// CommandRunner executes external programs.
// Adapters for command-line tools take one so tests can substitute output.
type CommandRunner interface {
	// Run executes name with args and returns standard output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath reports where name is installed.
	LookPath(name string) (string, error)
}
