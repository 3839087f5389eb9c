package domain

import "time"

// TaskStatus represents the status of a task inside a run.
type TaskStatus string

const (
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
)

// TaskRecord is the manifest entry of one executed task.
type TaskRecord struct {
	Name      string            `json:"name"`
	Directory string            `json:"directory"`
	Arguments map[string]any    `json:"arguments"`
	Inputs    map[string]string `json:"inputs,omitempty"`
	// Fingerprint hashes the arguments and input fingerprints together.
	Fingerprint string     `json:"fingerprint"`
	Status      TaskStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  time.Time  `json:"finished_at,omitzero"`
}

// DefinitionRecord identifies the experiment file a run was started from and its copy in the run root.
type DefinitionRecord struct {
	Source      string `json:"source"`
	File        string `json:"file"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// RunManifest is the ordered log of an experiment run.
type RunManifest struct {
	RunID        string            `json:"run_id"`
	Label        string            `json:"label"`
	Experimenter string            `json:"experimenter,omitempty"`
	Root         string            `json:"root"`
	CreatedAt    time.Time         `json:"created_at"`
	Definition   *DefinitionRecord `json:"definition,omitempty"`
	Tasks        []TaskRecord      `json:"tasks"`
}
