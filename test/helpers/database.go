package helpers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alesfranek-maf/uwapi/internal/adapters/persistence"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/infrastructure/database"
)

// NewTestDB opens a migrated in-memory SQLite database closed at test cleanup
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// NewTestStore returns a prototype repository over a fresh test database,
// seeded with doc when it is not nil
func NewTestStore(t *testing.T, doc *catalog.Document) *persistence.GormPrototypeRepository {
	t.Helper()
	repo := persistence.NewGormPrototypeRepository(NewTestDB(t))
	if doc != nil {
		_, err := repo.Save(context.Background(), doc)
		require.NoError(t, err, "failed to seed prototype store")
	}
	return repo
}
