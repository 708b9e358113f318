//go:build integration

package contact_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zoopito/internal/outreach/models"
	"zoopito/internal/outreach/store/contact"
	id "zoopito/pkg/domain"
	"zoopito/pkg/testutil/containers"
)

func TestPostgresContactStore(t *testing.T) {
	pg := containers.GetManager().GetPostgres(t)
	ctx := context.Background()
	require.NoError(t, pg.TruncateAll(ctx))
	store := contact.NewPostgres(pg.DB)

	now := time.Now().UTC().Truncate(time.Microsecond)
	withGPS := &models.ContactMessage{
		ID: id.NewContactID(), Name: "Ravi", Email: "r@m.in", Subject: models.SubjectVaccination,
		Message: "hello", GPS: &models.GPS{Latitude: 18.5, Longitude: 73.8}, MsgDate: now,
	}
	anonymous := &models.ContactMessage{
		ID: id.NewContactID(), Name: "Anon", Email: "x@y.io", Subject: models.SubjectOther, MsgDate: now.Add(time.Minute),
	}
	require.NoError(t, store.Create(ctx, withGPS))
	require.NoError(t, store.Create(ctx, anonymous))

	list, total, err := store.List(ctx, false, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, anonymous.ID, list[0].ID)
	require.Nil(t, list[0].GPS)
	require.Equal(t, withGPS.GPS, list[1].GPS)

	seen, err := store.MarkSeen(ctx, withGPS.ID)
	require.NoError(t, err)
	require.True(t, seen.IsSeen)

	unseen, total, err := store.List(ctx, true, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, anonymous.ID, unseen[0].ID)
}
