package parallel

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelize_CoversEveryItem(t *testing.T) {
	for _, items := range []int{0, 1, 7, 1000} {
		t.Run(fmt.Sprintf("items=%d", items), func(t *testing.T) {
			seen := make([]int32, items)
			Parallelize(items, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})
			for i, c := range seen {
				assert.Equal(t, int32(1), c, "item %d", i)
			}
		})
	}
}

func TestParallelizeWithThreshold_Sequential(t *testing.T) {
	var calls int
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, 1, calls)
}

func TestForEach(t *testing.T) {
	var mu sync.Mutex
	got := map[int]bool{}
	err := ForEach(context.Background(), 20, 3, func(_ context.Context, i int) error {
		mu.Lock()
		defer mu.Unlock()
		got[i] = true
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestForEach_Error(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach(context.Background(), 5, 1, func(_ context.Context, i int) error {
		if i == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestForEach_Panic(t *testing.T) {
	err := ForEach(context.Background(), 3, 0, func(_ context.Context, i int) error {
		if i == 1 {
			panic("leaf classifier exploded")
		}
		return nil
	})
	require.Error(t, err)
	var pe *errors.PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "parallel task 1", pe.Operation)
}
