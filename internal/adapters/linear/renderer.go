// Package linear provides a synchronous, line-based progress renderer.
package linear

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/sift/internal/ui/output"
	"go.trai.ch/sift/internal/ui/style"
)

// Renderer implements ports.Renderer with one chronological line per span event.
// Child spans are indented under their parent.
type Renderer struct {
	out *termenv.Output

	mu    sync.Mutex
	tasks map[string]*taskState // spanID -> task state
}

type taskState struct {
	name      string
	depth     int
	startTime time.Time
}

// NewRenderer creates a Renderer writing to w, or to stderr when w is nil.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{
		out:   output.New(w),
		tasks: make(map[string]*taskState),
	}
}

// OnTaskStart prints a task start message.
func (r *Renderer) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	depth := 0
	if parent, ok := r.tasks[parentID]; ok {
		depth = parent.depth + 1
	}
	r.tasks[spanID] = &taskState{name: name, depth: depth, startTime: startTime}

	arrow := r.out.String(style.Arrow).Foreground(termenv.RGBColor(string(style.Accent))).String()
	r.printLocked(depth, fmt.Sprintf("%s %s", arrow, name))
}

// OnTaskComplete prints the completion status with the elapsed time.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)

	duration := endTime.Sub(task.startTime).Round(time.Millisecond)
	if err != nil {
		symbol := r.out.String(style.Cross).Foreground(termenv.RGBColor(string(style.Failure))).String()
		r.printLocked(task.depth, fmt.Sprintf("%s %s failed after %v: %v", symbol, task.name, duration, err))
		return
	}
	symbol := r.out.String(style.Check).Foreground(termenv.RGBColor(string(style.Success))).String()
	elapsed := r.out.String(fmt.Sprintf("(%v)", duration)).Faint().String()
	r.printLocked(task.depth, fmt.Sprintf("%s %s %s", symbol, task.name, elapsed))
}

// printLocked writes one indented line. Must be called with r.mu held.
func (r *Renderer) printLocked(depth int, line string) {
	_, _ = fmt.Fprintf(r.out, "%s%s\n", strings.Repeat("  ", depth), line)
}
