package services

import (
	"testing"
	"time"

	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a throwaway sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(t.TempDir()+"/console.db"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Invite{}, &models.Setting{}, &models.AuditEntry{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// createTestUser inserts a user with a real bcrypt hash for password.
func createTestUser(t *testing.T, db *gorm.DB, email, password, role string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return &user
}

// createTestInvite inserts an invite expiring in the given duration.
func createTestInvite(t *testing.T, db *gorm.DB, email string, ttl time.Duration) *models.Invite {
	t.Helper()

	invite, err := NewInviteService(db).Create(CreateInviteInput{
		Email:     email,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		t.Fatalf("create test invite: %v", err)
	}
	return invite
}
