package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaxRule is one applicable tax. A nil TaxCategoryId matches every category;
// a nil BranchId matches every branch. Rules apply in ascending priority; a
// compound rule's base is the running post-tax total of the rules before it.
type TaxRule struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Rate          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"rate"`
	Priority      int             `gorm:"index;default:0" json:"priority"`
	IsCompound    *bool           `gorm:"not null;default:false" json:"is_compound"`
	IsInclusive   *bool           `gorm:"not null;default:false" json:"is_inclusive"`
	TaxCategoryId *int            `gorm:"index" json:"tax_category_id"`
	BranchId      *int            `gorm:"index" json:"branch_id"`
	AccountId     int             `gorm:"index;not null" json:"account_id"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TaxRuleRepository loads the active rules matching a tax category and branch,
// already sorted for application.
type TaxRuleRepository struct {
	TenantId string
}

func (r TaxRuleRepository) RulesFor(ctx context.Context, tx *gorm.DB, taxCategoryId int, branchId int) ([]TaxRule, error) {
	var rules []TaxRule
	err := tx.WithContext(ctx).
		Where("business_id = ? AND is_active = ?", r.TenantId, true).
		Where("(tax_category_id IS NULL OR tax_category_id = ?)", taxCategoryId).
		Where("(branch_id IS NULL OR branch_id = ?)", branchId).
		Order("priority ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
