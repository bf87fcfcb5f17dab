package product

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tokoluma/luma-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.Review{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}
