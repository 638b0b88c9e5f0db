package branches

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

func setupBranchesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS branches (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT 'Nigeria',
  phone TEXT,
  email TEXT,
  welcome_note TEXT NOT NULL DEFAULT '',
  service_times TEXT,
  image_url TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	t.Cleanup(func() {
		_ = db.Exec("DELETE FROM branches").Error
	})
	return db
}

func seedBranch(t *testing.T, repo *Repository, name, state string) *models.Branch {
	t.Helper()
	branch, err := repo.Create(context.Background(), &models.Branch{
		ID:      uuid.New(),
		Name:    name,
		Address: "1 Church Road",
		City:    "Lagos",
		State:   state,
		Country: "Nigeria",
	})
	require.NoError(t, err)
	return branch
}

func TestRepositoryCreateAndGet(t *testing.T) {
	db := setupBranchesTestDB(t)
	repo := NewRepository(db)

	created := seedBranch(t, repo, "Headquarters", "Lagos")

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Headquarters", got.Name)
	assert.Equal(t, "Nigeria", got.Country)
}

func TestRepositoryListFiltersByState(t *testing.T) {
	db := setupBranchesTestDB(t)
	repo := NewRepository(db)

	seedBranch(t, repo, "Lagos Main", "Lagos")
	seedBranch(t, repo, "Abuja Central", "FCT")

	branches, total, err := repo.List(context.Background(), pagination.Page{Limit: 10}, "FCT")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, branches, 1)
	assert.Equal(t, "Abuja Central", branches[0].Name)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	db := setupBranchesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	branch := seedBranch(t, repo, "Old Name", "Lagos")

	updated, err := repo.Update(ctx, branch.ID, map[string]any{"name": "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)

	require.NoError(t, repo.Delete(ctx, branch.ID))
	_, err = repo.GetByID(ctx, branch.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
