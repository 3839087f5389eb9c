// Package logger implements ports.Logger on log/slog.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/sift/internal/ui/style"
	"go.trai.ch/zerr"
)

// leadingKeys are printed first, in this order, when an error carries them as metadata.
var leadingKeys = []string{"task", "parameter", "expected"}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	output   io.Writer
	jsonMode bool
}

// New creates a Logger writing pretty lines to stderr.
func New() ports.Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput redirects the logger. A nil writer means stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty output.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonMode = enable
	l.rebuild()
}

func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain and the metadata attached along it.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		zerr.Log(context.Background(), l.logger, err)
		return
	}
	l.logger.Error(format(err))
}

type chained interface {
	Message() string
	Metadata() map[string]any
}

// format renders the message of each link of the chain, then its metadata.
// Errors joining several causes are walked cause by cause.
func format(err error) string {
	var messages []string
	meta := map[string]any{}
	queue := []error{err}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if multi, ok := current.(interface{ Unwrap() []error }); ok {
			queue = append(slices.Clone(multi.Unwrap()), queue...)
			continue
		}
		z, ok := current.(chained)
		if !ok {
			messages = append(messages, current.Error())
			continue
		}
		for k, v := range z.Metadata() {
			if _, seen := meta[k]; !seen {
				meta[k] = v
			}
		}
		if m := z.Message(); m != "" {
			messages = append(messages, m)
		}
		if next := errors.Unwrap(current); next != nil {
			queue = append([]error{next}, queue...)
		}
	}

	var lines []string
	for i, msg := range messages {
		split := strings.Split(msg, "\n")
		switch i {
		case 0:
			lines = append(lines, "Error: "+split[0])
			for _, line := range split[1:] {
				lines = append(lines, "       "+line)
			}
			lines = append(lines, formatMetadata(meta)...)
		case 1:
			lines = append(lines, "", "  Caused by:")
			fallthrough
		default:
			lines = append(lines, "    "+style.Arrow+" "+split[0])
			for _, line := range split[1:] {
				lines = append(lines, "      "+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func formatMetadata(meta map[string]any) []string {
	keys := make([]string, 0, len(meta))
	for _, k := range leadingKeys {
		if _, ok := meta[k]; ok {
			keys = append(keys, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		if !slices.Contains(leadingKeys, k) {
			keys = append(keys, k)
		}
	}
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("  %s: %v", k, meta[k])
	}
	return lines
}
