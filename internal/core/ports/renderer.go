package ports

import "time"

// Renderer is the abstraction for progress output.
// It decouples span collection from presentation.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnTaskStart is called when a span begins.
	// spanID: unique identifier for this execution
	// parentID: spanID of the parent span (empty if root)
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskComplete is called when a span finishes; err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
