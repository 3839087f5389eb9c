package linear_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sift/internal/adapters/linear"
)

func TestRenderer_TaskLifecycle(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	r := linear.NewRenderer(&buf)

	start := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	r.OnTaskStart("root", "", "baseline", start)
	r.OnTaskStart("span1", "root", "train_task", start)
	r.OnTaskComplete("span1", start.Add(1500*time.Millisecond), nil)
	r.OnTaskStart("span2", "root", "prediction_task", start)
	r.OnTaskComplete("span2", start.Add(20*time.Millisecond), errors.New("missing column"))
	r.OnTaskComplete("root", start.Add(2*time.Second), nil)

	want := "→ baseline\n" +
		"  → train_task\n" +
		"  ✓ train_task (1.5s)\n" +
		"  → prediction_task\n" +
		"  ✗ prediction_task failed after 20ms: missing column\n" +
		"✓ baseline (2s)\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderer_UnknownSpan(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	r := linear.NewRenderer(&buf)

	r.OnTaskComplete("missing", time.Now(), nil)
	assert.Empty(t, buf.String())
}
