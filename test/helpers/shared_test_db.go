package helpers

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/antbot-go/internal/infrastructure/database"
)

// SharedTestDB is the singleton database instance used by the BDD suite
var SharedTestDB *gorm.DB

// InitializeSharedTestDB creates and migrates the shared test database
// Called once before running any scenario
func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}

	SharedTestDB = db
	return nil
}

// TruncateAllTables clears all journal data
// Called before each scenario to ensure test isolation
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}

	// Children before parents
	for _, table := range []string{"turn_commands", "turn_records", "sessions"} {
		if err := SharedTestDB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}

	return nil
}

// CloseSharedTestDB closes the shared database connection
func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	return database.Close(SharedTestDB)
}
