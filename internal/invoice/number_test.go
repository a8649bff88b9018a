package invoice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatID(t *testing.T) {
	require.Equal(t, "INV-2026-08-00007", FormatID(2026, 8, 7))
	require.Equal(t, "INV-2025-12-12345", FormatID(2025, 12, 12345))
	require.Equal(t, "INV-2026-01-00001", FormatID(2026, 1, 1))
}

// memCounter mimics the storage layer's atomic find-and-increment.
type memCounter struct {
	mu  sync.Mutex
	seq map[[2]int]int
}

func (c *memCounter) Next(ctx context.Context, year, month int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq == nil {
		c.seq = map[[2]int]int{}
	}
	c.seq[[2]int{year, month}]++
	return c.seq[[2]int{year, month}], nil
}

func TestIssueConcurrentNoDuplicatesNoGaps(t *testing.T) {
	svc := &Service{
		Counter: &memCounter{},
		Now:     func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) },
	}

	const n = 100
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := svc.Issue(context.Background())
			require.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		require.False(t, seen[id], "duplicate invoice id %s", id)
		seen[id] = true
	}
	require.Len(t, seen, n)
	// no gaps: every seq 1..n present
	for seq := 1; seq <= n; seq++ {
		require.True(t, seen[FormatID(2026, 8, seq)], "missing seq %d", seq)
	}
}

func TestIssueBucketsByMonth(t *testing.T) {
	counter := &memCounter{}
	jan := &Service{Counter: counter, Now: func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }}
	feb := &Service{Counter: counter, Now: func() time.Time { return time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC) }}

	a, err := jan.Issue(context.Background())
	require.NoError(t, err)
	b, err := feb.Issue(context.Background())
	require.NoError(t, err)

	require.Equal(t, "INV-2026-01-00001", a)
	require.Equal(t, "INV-2026-02-00001", b)
}
