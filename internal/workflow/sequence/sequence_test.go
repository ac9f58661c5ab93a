package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	assert.Equal(t, "seq:cmrf:GUN:2026", Key{Type: "cmrf", Partition: "GUN", Year: 2026}.String())
	assert.Equal(t, "seq:appointment:2026", Key{Type: "appointment", Year: 2026}.String())
	assert.Equal(t, "seq:emergency", Key{Type: "emergency"}.String())
}

func TestPartitionCode(t *testing.T) {
	assert.Equal(t, "GUN", PartitionCode("Guntur"))
	assert.Equal(t, "KRI", PartitionCode("krishna"))
	assert.Equal(t, "SRI", PartitionCode("Sri Potti Sriramulu Nellore"))
	assert.Equal(t, "GEN", PartitionCode(""))
	assert.Equal(t, "GEN", PartitionCode("12"))
	assert.Equal(t, "GEN", PartitionCode("Ab"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "000001", Format(1))
	assert.Equal(t, "000042", Format(42))
	assert.Equal(t, "123456", Format(123456))
}

func TestMemoryNextIsDenseAndDistinctUnderConcurrency(t *testing.T) {
	gen := NewMemory()
	key := Key{Type: "cmrf", Partition: "GUN", Year: 2026}

	const workers = 50
	results := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := gen.Next(context.Background(), key)
			assert.NoError(t, err)
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, workers)
	for n := range results {
		assert.False(t, seen[n], "duplicate counter value %d", n)
		seen[n] = true
	}
	// Dense from 1 with no gaps.
	for i := int64(1); i <= workers; i++ {
		assert.True(t, seen[i], "missing counter value %d", i)
	}
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	gen := NewMemory()
	ctx := context.Background()

	a, err := gen.Next(ctx, Key{Type: "cmrf", Partition: "GUN", Year: 2026})
	require.NoError(t, err)
	b, err := gen.Next(ctx, Key{Type: "cmrf", Partition: "KRI", Year: 2026})
	require.NoError(t, err)
	c, err := gen.Next(ctx, Key{Type: "cmrf", Partition: "GUN", Year: 2027})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(1), b)
	assert.Equal(t, int64(1), c)
}
