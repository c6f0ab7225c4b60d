package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Promotion is an automatic variant-scoped discount. When several promotions
// match one line, only the single highest-value one applies (best-of, not a
// stack).
type Promotion struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"index;not null" json:"business_id"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	VariantId    int             `gorm:"index;not null" json:"variant_id"`
	DiscountType DiscountType    `gorm:"type:enum('P','A');default:'P';not null" json:"discount_type"`
	Value        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"value"`
	StartsAt     *time.Time      `json:"starts_at"`
	EndsAt       *time.Time      `json:"ends_at"`
	IsActive     *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// PricingRule is a customer-tier discount scoped to a product category.
// Matching rules apply cumulatively in descending priority, each pass working
// on the already-discounted running price.
type PricingRule struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"index;not null" json:"business_id"`
	Name       string          `gorm:"size:100;not null" json:"name"`
	Tier       string          `gorm:"index;size:50;not null" json:"tier"`
	CategoryId *int            `gorm:"index" json:"category_id"`
	PercentOff decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"percent_off"`
	Priority   int             `gorm:"index;default:0" json:"priority"`
	IsActive   *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// PricingRuleRepository loads the promotion and tier-rule data the pricing
// engine consumes, pre-filtered and pre-sorted.
type PricingRuleRepository struct {
	TenantId string
}

func (r PricingRuleRepository) PromotionsForVariant(ctx context.Context, tx *gorm.DB, variantId int, at time.Time) ([]Promotion, error) {
	var promotions []Promotion
	err := tx.WithContext(ctx).
		Where("business_id = ? AND variant_id = ? AND is_active = ?", r.TenantId, variantId, true).
		Where("(starts_at IS NULL OR starts_at <= ?)", at).
		Where("(ends_at IS NULL OR ends_at >= ?)", at).
		Find(&promotions).Error
	if err != nil {
		return nil, err
	}
	return promotions, nil
}

func (r PricingRuleRepository) RulesForTier(ctx context.Context, tx *gorm.DB, tier string, categoryId int) ([]PricingRule, error) {
	var rules []PricingRule
	err := tx.WithContext(ctx).
		Where("business_id = ? AND tier = ? AND is_active = ?", r.TenantId, tier, true).
		Where("(category_id IS NULL OR category_id = ?)", categoryId).
		Order("priority DESC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
