package tx

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "zoopito/pkg/domain-errors"
)

type setStore struct {
	mu    sync.Mutex
	items map[string]int
}

func newSetStore() *setStore {
	return &setStore{items: make(map[string]int)}
}

func (s *setStore) put(ctx context.Context, key string, value int) {
	s.mu.Lock()
	prev, existed := s.items[key]
	s.items[key] = value
	s.mu.Unlock()
	OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existed {
			s.items[key] = prev
			return
		}
		delete(s.items, key)
	})
}

func (s *setStore) get(key string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok
}

func TestMemoryRunner(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		store := newSetStore()
		err := NewMemoryRunner().RunInTx(context.Background(), func(ctx context.Context) error {
			store.put(ctx, "a", 2)
			return nil
		})
		require.NoError(t, err)
		v, ok := store.get("a")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("undoes the transaction's writes newest first on failure", func(t *testing.T) {
		a, b := newSetStore(), newSetStore()
		a.put(context.Background(), "kept", 1)
		boom := errors.New("boom")
		err := NewMemoryRunner().RunInTx(context.Background(), func(ctx context.Context) error {
			a.put(ctx, "kept", 5)
			a.put(ctx, "kept", 6)
			a.put(ctx, "new", 7)
			b.put(ctx, "other", 8)
			return boom
		})
		require.ErrorIs(t, err, boom)

		v, ok := a.get("kept")
		require.True(t, ok)
		assert.Equal(t, 1, v)
		_, ok = a.get("new")
		assert.False(t, ok)
		_, ok = b.get("other")
		assert.False(t, ok)
	})

	t.Run("keeps writes made outside the transaction", func(t *testing.T) {
		store := newSetStore()
		err := NewMemoryRunner().RunInTx(context.Background(), func(ctx context.Context) error {
			store.put(ctx, "batch", 1)
			done := make(chan struct{})
			go func() {
				defer close(done)
				store.put(context.Background(), "single", 2)
			}()
			<-done
			return errors.New("batch failed")
		})
		require.Error(t, err)

		_, ok := store.get("batch")
		assert.False(t, ok)
		v, ok := store.get("single")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("ignores undo steps outside a transaction", func(t *testing.T) {
		called := false
		OnRollback(context.Background(), func() { called = true })
		assert.False(t, called)
	})

	t.Run("refuses a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewMemoryRunner().RunInTx(ctx, func(context.Context) error {
			t.Fatal("fn must not run")
			return nil
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	})

	t.Run("applies a deadline when none is set", func(t *testing.T) {
		var hasDeadline bool
		_ = NewMemoryRunner().RunInTx(context.Background(), func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		})
		assert.True(t, hasDeadline)
	})
}

func TestWithSavepointWithoutSQLTransaction(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := WithSavepoint(context.Background(), "entry", func(context.Context) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	store := newSetStore()
	err = NewMemoryRunner().RunInTx(context.Background(), func(ctx context.Context) error {
		return WithSavepoint(ctx, "entry", func(ctx context.Context) error {
			store.put(ctx, "a", 1)
			return nil
		})
	})
	require.NoError(t, err)
	_, ok := store.get("a")
	assert.True(t, ok)
}
