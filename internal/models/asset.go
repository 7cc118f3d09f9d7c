package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType is the closed set of asset categories a holding can belong to.
type AssetType string

const (
	AssetTypeStock       AssetType = "stock"
	AssetTypeREIT        AssetType = "reit"
	AssetTypeCrypto      AssetType = "crypto"
	AssetTypeFixedIncome AssetType = "fixed_income"
	AssetTypeTreasury    AssetType = "treasury"
	AssetTypeETF         AssetType = "etf"
	AssetTypeOption      AssetType = "option"
	AssetTypeOther       AssetType = "other"
)

// AssetTypes lists every valid asset type, in display order.
var AssetTypes = []AssetType{
	AssetTypeStock,
	AssetTypeREIT,
	AssetTypeCrypto,
	AssetTypeFixedIncome,
	AssetTypeTreasury,
	AssetTypeETF,
	AssetTypeOption,
	AssetTypeOther,
}

// assetTypeLabels maps asset types to their Brazilian market display names.
var assetTypeLabels = map[AssetType]string{
	AssetTypeStock:       "Ação",
	AssetTypeREIT:        "FII",
	AssetTypeCrypto:      "Criptomoeda",
	AssetTypeFixedIncome: "Renda Fixa",
	AssetTypeTreasury:    "Tesouro Direto",
	AssetTypeETF:         "ETF",
	AssetTypeOption:      "Opção",
	AssetTypeOther:       "Outro",
}

// Label returns the localized display name for the asset type.
func (t AssetType) Label() string {
	if label, ok := assetTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Valid reports whether t is one of the known asset types.
func (t AssetType) Valid() bool {
	_, ok := assetTypeLabels[t]
	return ok
}

// Asset represents a persisted holding in a user's portfolio. Every persisted
// asset has a non-empty uppercased name, a valid type, a strictly positive
// value, and a purchase date.
type Asset struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string          `gorm:"not null" json:"name"`
	Type         AssetType       `gorm:"not null" json:"type"`
	Value        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"value"`
	PurchaseDate time.Time       `gorm:"not null" json:"purchase_date"`
}
