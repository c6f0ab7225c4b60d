package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is a sellable unit. Identity is immutable and catalog-owned;
// the commerce core only reads it.
type ProductVariant struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Sku           string          `gorm:"index;size:100" json:"sku"`
	Kind          VariantKind     `gorm:"type:enum('serialized','non_serialized','bundle','service');default:'non_serialized';not null" json:"kind"`
	CategoryId    int             `gorm:"index" json:"category_id"`
	TaxCategoryId int             `gorm:"index" json:"tax_category_id"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"selling_price"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`

	BundleComponents []BundleComponent `gorm:"foreignKey:BundleVariantId" json:"bundle_components"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BundleComponent is one line of a bundle recipe: selling the bundle deducts
// Qty of the component variant per bundle unit.
type BundleComponent struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	BundleVariantId    int             `gorm:"index;not null" json:"bundle_variant_id"`
	ComponentVariantId int             `gorm:"index;not null" json:"component_variant_id"`
	Qty                decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
}

type ProductCategory struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *ProductVariant) GetId() int {
	return v.ID
}

// CatalogRepository is the GORM-backed catalog lookup handed to the ledgers.
// Reads go through the same tx as the surrounding sale so catalog state is
// consistent with the mutation it informs.
type CatalogRepository struct {
	TenantId string
}

func (r CatalogRepository) VariantById(ctx context.Context, tx *gorm.DB, variantId int) (*ProductVariant, error) {
	var variant ProductVariant
	err := tx.WithContext(ctx).
		Preload("BundleComponents").
		Where("business_id = ?", r.TenantId).
		First(&variant, variantId).Error
	if err != nil {
		return nil, fmt.Errorf("variant %d: %w", variantId, err)
	}
	return &variant, nil
}
