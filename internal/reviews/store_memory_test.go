package reviews

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 3, 14, 15, 9, 26, 535_000_000, time.UTC)

func TestMemStore_UnknownProductIsEmpty(t *testing.T) {
	s := NewMemStore()

	got, err := s.List(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemStore_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, "p1", NewReview(fmt.Sprintf("r%d", i), i, "u", testTime)))
	}

	got, err := s.List(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, rv := range got {
		assert.Equal(t, fmt.Sprintf("r%d", i), rv.Text)
	}
}

func TestMemStore_KeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.Append(ctx, "p1", NewReview("one", 1, "a", testTime)))
	require.NoError(t, s.Append(ctx, "p2", NewReview("two", 2, "b", testTime)))

	p1, _ := s.List(ctx, "p1")
	p2, _ := s.List(ctx, "p2")
	require.Len(t, p1, 1)
	require.Len(t, p2, 1)
	assert.Equal(t, "one", p1[0].Text)
	assert.Equal(t, "two", p2[0].Text)
}

func TestMemStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.Append(ctx, "p1", NewReview("orig", 5, "a", testTime)))

	got, _ := s.List(ctx, "p1")
	got[0].Text = "changed"

	again, _ := s.List(ctx, "p1")
	assert.Equal(t, "orig", again[0].Text)
}

func TestMemStore_ConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	const writers, perWriter = 16, 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = s.Append(ctx, "hot", NewReview(fmt.Sprintf("%d-%d", w, i), 5, "u", testTime))
			}
		}(w)
	}
	wg.Wait()

	got, err := s.List(ctx, "hot")
	require.NoError(t, err)
	assert.Len(t, got, writers*perWriter)
}
