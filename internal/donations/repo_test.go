package donations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/enums"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

func setupDonationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS donations (
  id TEXT PRIMARY KEY,
  reference TEXT NOT NULL UNIQUE,
  donor_name TEXT NOT NULL,
  donor_email TEXT NOT NULL,
  purpose TEXT NOT NULL,
  amount_kobo INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'NGN',
  branch_id TEXT,
  order_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  confirmed_at DATETIME,
  failed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	t.Cleanup(func() {
		_ = db.Exec("DELETE FROM donations").Error
	})
	return db
}

func seedDonation(t *testing.T, repo *Repository, reference string) *models.Donation {
	t.Helper()
	donation, err := repo.Create(context.Background(), nil, &models.Donation{
		ID:         uuid.New(),
		Reference:  reference,
		DonorName:  "Grace O.",
		DonorEmail: "grace@example.com",
		Purpose:    enums.DonationPurposeTithe,
		AmountKobo: 500000,
		Currency:   "NGN",
		Status:     enums.DonationStatusPending,
	})
	require.NoError(t, err)
	return donation
}

func TestRepositoryGetByReference(t *testing.T) {
	db := setupDonationsTestDB(t)
	repo := NewRepository(db)

	seedDonation(t, repo, "KWLC-DON-AAA111")

	got, err := repo.GetByReference(context.Background(), "KWLC-DON-AAA111")
	require.NoError(t, err)
	assert.Equal(t, int64(500000), got.AmountKobo)
	assert.Equal(t, enums.DonationStatusPending, got.Status)

	_, err = repo.GetByReference(context.Background(), "KWLC-DON-MISSING")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryMarkConfirmedIsSingleShot(t *testing.T) {
	db := setupDonationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedDonation(t, repo, "KWLC-DON-BBB222")

	affected, err := repo.MarkConfirmed(ctx, "KWLC-DON-BBB222", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.GetByReference(ctx, "KWLC-DON-BBB222")
	require.NoError(t, err)
	assert.Equal(t, enums.DonationStatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)

	// second confirm touches nothing
	affected, err = repo.MarkConfirmed(ctx, "KWLC-DON-BBB222", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	// a settled donation cannot fail afterwards
	affected, err = repo.MarkFailed(ctx, "KWLC-DON-BBB222", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestRepositoryListFiltersByStatus(t *testing.T) {
	db := setupDonationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedDonation(t, repo, "KWLC-DON-CCC333")
	seedDonation(t, repo, "KWLC-DON-DDD444")
	_, err := repo.MarkConfirmed(ctx, "KWLC-DON-CCC333", time.Now().UTC())
	require.NoError(t, err)

	donations, total, err := repo.List(ctx, pagination.Page{Limit: 10}, enums.DonationStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, donations, 1)
	assert.Equal(t, "KWLC-DON-CCC333", donations[0].Reference)
}
