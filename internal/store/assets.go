// Package store implements the document-store boundary for assets.
// Consumers depend on the AssetStore interface; failures never mutate
// previously returned data.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/models"
)

// Draft is a not-yet-persisted asset. Name is normalized to uppercase
// before it reaches the store.
type Draft struct {
	Name         string
	Type         models.AssetType
	Value        decimal.Decimal
	PurchaseDate time.Time
}

// AssetStore is the narrow contract the catalog depends on.
type AssetStore interface {
	FetchAll(ctx context.Context, userID string) ([]models.Asset, error)
	Create(ctx context.Context, userID string, draft Draft) (*models.Asset, error)
	Delete(ctx context.Context, userID, assetID string) error
}

type assetStore struct {
	db *gorm.DB
}

// NewAssetStore creates a GORM-backed AssetStore.
func NewAssetStore(db *gorm.DB) AssetStore {
	return &assetStore{db: db}
}

// FetchAll returns every asset owned by the user, oldest first. Insertion
// order is the tie-break order for all derived views.
func (s *assetStore) FetchAll(ctx context.Context, userID string) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAssetStore, err)
	}
	return assets, nil
}

// Create persists a draft and returns the stored asset with its assigned id.
func (s *assetStore) Create(ctx context.Context, userID string, draft Draft) (*models.Asset, error) {
	asset := &models.Asset{
		UserID:       userID,
		Name:         strings.ToUpper(strings.TrimSpace(draft.Name)),
		Type:         draft.Type,
		Value:        draft.Value,
		PurchaseDate: draft.PurchaseDate,
	}
	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAssetStore, err)
	}
	return asset, nil
}

// Delete removes the asset if it belongs to the user.
func (s *assetStore) Delete(ctx context.Context, userID, assetID string) error {
	var asset models.Asset
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAssetNotFound
		}
		return apperrors.Wrap(apperrors.ErrAssetStore, err)
	}
	if err := s.db.WithContext(ctx).Delete(&asset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrAssetStore, err)
	}
	return nil
}
