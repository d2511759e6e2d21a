package helpers

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/alesfranek-maf/uwapi/internal/adapters/persistence"
	"github.com/alesfranek-maf/uwapi/internal/infrastructure/database"
)

// SharedTestDB is the database shared by every BDD scenario of a test binary
var SharedTestDB *gorm.DB

// storeTables lists the prototype store tables, children first
var storeTables = []string{
	persistence.CatalogImportModel{}.TableName(),
	persistence.PrototypeModel{}.TableName(),
}

// InitializeSharedTestDB opens and migrates the shared database.
// Called once from TestMain.
func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// TruncateAllTables empties the store. Called before each scenario.
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	for _, table := range storeTables {
		if err := SharedTestDB.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// CloseSharedTestDB closes the shared database. Called from TestMain.
func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	err := database.Close(SharedTestDB)
	SharedTestDB = nil
	return err
}
