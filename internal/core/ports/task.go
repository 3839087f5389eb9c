package ports

import "context"

// Task is a named unit of reproducible work producing a result of type R.
// A task's configuration is frozen at construction.
type Task[R any] interface {
	// Name identifies the task type; the runner names the task directory after it.
	Name() string

	// Arguments returns the frozen configuration as a JSON-friendly map.
	Arguments() map[string]any

	// Run executes the task. outputDir exists, is empty and belongs to this invocation only.
	// All files written by the task stay under outputDir.
	Run(ctx context.Context, outputDir string) (R, error)
}

// InputDeclarer is implemented by tasks that read files, so runs can fingerprint them.
type InputDeclarer interface {
	Inputs() []string
}
