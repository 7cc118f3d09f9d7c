package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"carteira/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plaintext behind every fixture user's password hash.
const TestPassword = "senha123"

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAsset creates an asset of the given type for the user.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID string, assetType models.AssetType) *models.Asset {
	t.Helper()

	n := nextID()
	return CreateTestAssetNamed(t, db, userID, fmt.Sprintf("ASSET%d", n), assetType, decimal.NewFromInt(n*100))
}

// CreateTestAssetNamed creates an asset with explicit name, type, and value.
func CreateTestAssetNamed(t *testing.T, db *gorm.DB, userID, name string, assetType models.AssetType, value decimal.Decimal) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID:       userID,
		Name:         name,
		Type:         assetType,
		Value:        value,
		PurchaseDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestPasswordReset stores a reset code hash for the user.
func CreateTestPasswordReset(t *testing.T, db *gorm.DB, userID, codeHash string, expiresAt time.Time) *models.PasswordReset {
	t.Helper()

	reset := &models.PasswordReset{
		UserID:    userID,
		CodeHash:  codeHash,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(reset).Error; err != nil {
		t.Fatalf("failed to create test password reset: %v", err)
	}
	return reset
}
