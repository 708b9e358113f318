package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "zoopito/pkg/domain"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/audit/store/memory"
	"zoopito/pkg/requestcontext"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	actor := id.NewUserID()
	err := pub.Emit(context.Background(), audit.Event{
		ActorID: actor,
		Action:  string(audit.EventFarmerCreated),
		Subject: "farmer",
	})
	require.NoError(t, err)

	events, total, err := pub.List(context.Background(), audit.Filter{ActorID: actor}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, string(audit.EventFarmerCreated), events[0].Action)
	assert.Equal(t, audit.CategoryRegistry, events[0].Category)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: string(audit.EventAnimalCreated)}))
	}
	pub.Close()

	_, total, err := store.List(context.Background(), audit.Filter{}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, total, "all events should be drained on close")
}

func TestPublisher_BufferFullDoesNotPanic(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventAnimalCreated)})
			if err != nil {
				assert.ErrorIs(t, err, ErrBufferFull)
			}
		}()
	}
	wg.Wait()
}

func TestPublisher_EnrichesFromContext(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)

	actor := id.NewUserID()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithPrincipal(context.Background(), actor, id.RoleAdmin)
	ctx = requestcontext.WithRequestID(ctx, "req-123")
	ctx = requestcontext.WithTime(ctx, now)
	ctx = requestcontext.WithClientMetadata(ctx, "10.0.0.7",
		"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")

	require.NoError(t, pub.Emit(ctx, audit.Event{Action: string(audit.EventUserBlocked), Subject: "user"}))

	events, _, err := store.List(context.Background(), audit.Filter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	got := events[0]
	assert.Equal(t, actor, got.ActorID)
	assert.Equal(t, id.RoleAdmin, got.ActorRole)
	assert.Equal(t, "req-123", got.RequestID)
	assert.Equal(t, "10.0.0.7", got.ClientIP)
	assert.Contains(t, got.Device, "Firefox")
	assert.Equal(t, now, got.Timestamp)
	assert.Equal(t, audit.CategorySecurity, got.Category)
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)

	custom := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		Action:    string(audit.EventVaccineCreated),
		Timestamp: custom,
	}))

	events, _, err := store.List(context.Background(), audit.Filter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, custom, events[0].Timestamp)
}
