package services

import (
	"os"
	"testing"

	"github.com/localloop/localloop-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens the database named by TEST_DATABASE_DSN, skipping the test
// when none is configured so the suite stays runnable without Postgres.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.LoginToken{},
		&models.Tip{},
		&models.TipConfirmation{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Report{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
