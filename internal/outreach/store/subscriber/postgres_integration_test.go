//go:build integration

package subscriber_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zoopito/internal/outreach/models"
	"zoopito/internal/outreach/store/subscriber"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/testutil/containers"
)

func TestPostgresSubscriberStore(t *testing.T) {
	pg := containers.GetManager().GetPostgres(t)
	ctx := context.Background()
	require.NoError(t, pg.TruncateAll(ctx))
	store := subscriber.NewPostgres(pg.DB)

	sub := &models.Subscriber{ID: id.NewSubscriberID(), Email: "a@b.co", IsActive: true, SubscribedAt: time.Now().UTC()}
	require.NoError(t, store.Create(ctx, sub))

	dup := &models.Subscriber{ID: id.NewSubscriberID(), Email: "a@b.co", IsActive: true, SubscribedAt: time.Now().UTC()}
	err := store.Create(ctx, dup)
	field, ok := sentinel.DuplicateField(err)
	require.True(t, ok)
	require.Equal(t, "email", field)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
