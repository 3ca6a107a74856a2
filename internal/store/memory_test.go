package store

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/puzzle"
)

func newSession(seed int64) *game.Session {
	p := puzzle.NewPlacer(6, puzzle.DefaultRetries, rand.New(rand.NewSource(seed)), zerolog.Nop())
	return game.New([]string{"cat", "dog"}, p)
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(1)

	require.NoError(t, st.Save(ctx, s))
	got, err := st.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = st.Get(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, st.Len())
}

func TestConcurrentSave(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := newSession(int64(i))
			s.ID = fmt.Sprintf("s%d", i)
			_ = st.Save(ctx, s)
			_, _ = st.Get(ctx, s.ID)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, st.Len())
}
