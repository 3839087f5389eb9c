package cv_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/engine/cv"
)

func TestForEachFold_OrderIndependent(t *testing.T) {
	splits := make([]domain.Split, 8)
	for i := range splits {
		splits[i] = domain.Split{Fold: i}
	}

	square := func(_ context.Context, s domain.Split) (int, error) {
		// later folds finish first
		time.Sleep(time.Duration(len(splits)-s.Fold) * time.Millisecond)
		return s.Fold * s.Fold, nil
	}

	sequential, err := cv.ForEachFold(t.Context(), splits, 1, square)
	require.NoError(t, err)
	parallel, err := cv.ForEachFold(t.Context(), splits, 4, square)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49}, sequential)
	assert.Equal(t, sequential, parallel)
}

func TestForEachFold_RespectsLimit(t *testing.T) {
	splits := make([]domain.Split, 6)
	var active, peak atomic.Int32

	_, err := cv.ForEachFold(t.Context(), splits, 2, func(_ context.Context, _ domain.Split) (struct{}, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		active.Add(-1)
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestForEachFold_PropagatesError(t *testing.T) {
	boom := errors.New("fit failed")
	splits := []domain.Split{{Fold: 0}, {Fold: 1}, {Fold: 2}}

	_, err := cv.ForEachFold(t.Context(), splits, 1, func(_ context.Context, s domain.Split) (int, error) {
		if s.Fold == 1 {
			return 0, boom
		}
		return s.Fold, nil
	})
	require.ErrorIs(t, err, boom)
}
