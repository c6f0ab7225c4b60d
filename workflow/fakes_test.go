package workflow

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/retail_backend/models"
)

// DB-free fakes for the collaborator interfaces. The engines only hand the
// tx through to these, so the unit tests pass a nil *gorm.DB.

type fakeCatalog struct {
	variants map[int]*models.ProductVariant
}

func (f *fakeCatalog) VariantById(ctx context.Context, tx *gorm.DB, variantId int) (*models.ProductVariant, error) {
	v, ok := f.variants[variantId]
	if !ok {
		return nil, fmt.Errorf("variant %d: %w", variantId, gorm.ErrRecordNotFound)
	}
	return v, nil
}

type fakeTaxRules struct {
	byCategory map[int][]models.TaxRule
}

func (f *fakeTaxRules) RulesFor(ctx context.Context, tx *gorm.DB, taxCategoryId int, branchId int) ([]models.TaxRule, error) {
	return f.byCategory[taxCategoryId], nil
}

type fakePricing struct {
	promotions map[int][]models.Promotion
	tierRules  map[string][]models.PricingRule
}

func (f *fakePricing) PromotionsForVariant(ctx context.Context, tx *gorm.DB, variantId int, at time.Time) ([]models.Promotion, error) {
	return f.promotions[variantId], nil
}

func (f *fakePricing) RulesForTier(ctx context.Context, tx *gorm.DB, tier string, categoryId int) ([]models.PricingRule, error) {
	return f.tierRules[tier], nil
}

type fakeAccounts struct {
	byId   map[int]*models.Account
	byCode map[string]*models.Account
}

func (f *fakeAccounts) AccountById(ctx context.Context, tx *gorm.DB, accountId int) (*models.Account, error) {
	a, ok := f.byId[accountId]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", accountId, gorm.ErrRecordNotFound)
	}
	return a, nil
}

func (f *fakeAccounts) SystemAccountByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Account, error) {
	a, ok := f.byCode[code]
	if !ok {
		return nil, fmt.Errorf("system account %s: %w", code, gorm.ErrRecordNotFound)
	}
	return a, nil
}
