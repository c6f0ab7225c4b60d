package workflow

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/retail_backend/models"
)

// Collaborator contracts consumed by the commerce core. All reads go through
// the caller's transaction so lookups see the same snapshot the mutation
// acts on. The models package provides the GORM-backed implementations;
// tests substitute fakes.

// Catalog resolves variants (kind, bundle recipe, tax category).
type Catalog interface {
	VariantById(ctx context.Context, tx *gorm.DB, variantId int) (*models.ProductVariant, error)
}

// TaxRuleSource yields the active tax rules matching a tax category and
// branch, sorted ascending by priority.
type TaxRuleSource interface {
	RulesFor(ctx context.Context, tx *gorm.DB, taxCategoryId int, branchId int) ([]models.TaxRule, error)
}

// PricingSource yields automatic promotions and customer-tier rules.
// Tier rules arrive sorted descending by priority.
type PricingSource interface {
	PromotionsForVariant(ctx context.Context, tx *gorm.DB, variantId int, at time.Time) ([]models.Promotion, error)
	RulesForTier(ctx context.Context, tx *gorm.DB, tier string, categoryId int) ([]models.PricingRule, error)
}

// CustomerSource resolves customers (credit limit, receivable account) and
// selling employees (commission settings).
type CustomerSource interface {
	CustomerById(ctx context.Context, tx *gorm.DB, customerId int) (*models.Customer, error)
	EmployeeById(ctx context.Context, tx *gorm.DB, employeeId int) (*models.Employee, error)
}

// AccountSource resolves chart-of-accounts nodes by id or system code.
type AccountSource interface {
	AccountById(ctx context.Context, tx *gorm.DB, accountId int) (*models.Account, error)
	SystemAccountByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Account, error)
}
