package utils

import (
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParallelMap(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ParallelMap([]int{}, 4, func(i int) int { return i * 2 }))
	})

	t.Run("single input", func(t *testing.T) {
		assert.Equal(t, []int{84}, ParallelMap([]int{42}, 4, func(i int) int { return i * 2 }))
	})

	t.Run("keeps order", func(t *testing.T) {
		result := ParallelMap([]int{1, 2, 3, 4, 5}, 3, func(i int) int {
			time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
			return i * 2
		})
		assert.Equal(t, []int{2, 4, 6, 8, 10}, result)
	})

	t.Run("bounded concurrency", func(t *testing.T) {
		input := make([]int, 40)
		var current, peak int32
		ParallelMap(input, 4, func(int) int {
			c := atomic.AddInt32(&current, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if c <= p || atomic.CompareAndSwapInt32(&peak, p, c) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return 0
		})
		assert.LessOrEqual(t, peak, int32(4))
		assert.GreaterOrEqual(t, peak, int32(1))
	})
}
