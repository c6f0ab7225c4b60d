package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/retail_backend/utils"
)

// Account is a chart-of-accounts node. Balances live in AccountBalance rows,
// one per currency, and are mutated only by journal postings.
type Account struct {
	ID                int             `gorm:"primary_key" json:"id"`
	BusinessId        string          `gorm:"index;not null" json:"business_id"`
	Name              string          `gorm:"index;size:100;not null" json:"name"`
	MainType          AccountMainType `gorm:"type:enum('Asset','Liability','Equity','Income','Expense');default:'Expense';index;size:10;not null" json:"main_type"`
	DetailType        string          `gorm:"index;size:50" json:"detail_type"`
	Description       string          `gorm:"type:text" json:"description"`
	IsSystemDefault   *bool           `gorm:"not null;default:false" json:"is_system_default"`
	SystemDefaultCode string          `gorm:"index;size:3" json:"system_default_code"`
	IsActive          *bool           `gorm:"not null;default:true" json:"is_active"`

	Balances []AccountBalance `gorm:"foreignKey:AccountId" json:"balances"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AccountBalance is the running balance of one account in one currency.
type AccountBalance struct {
	ID           int             `gorm:"primary_key" json:"id"`
	AccountId    int             `gorm:"uniqueIndex:idx_balance_account_currency,priority:1;not null" json:"account_id"`
	CurrencyCode string          `gorm:"uniqueIndex:idx_balance_account_currency,priority:2;size:3;not null" json:"currency_code"`
	Balance      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// System default codes for the accounts the sale workflow posts against.
const (
	AccountCodeSalesRevenue       = "SR"
	AccountCodeInventoryAsset     = "IA"
	AccountCodeCostOfGoodsSold    = "CGS"
	AccountCodeTaxPayable         = "TP"
	AccountCodeAccountsReceivable = "AR"
	AccountCodeUndepositedFunds   = "UF"
)

func (a *Account) GetId() int {
	return a.ID
}

// BalanceFor returns the loaded balance for a currency, zero when absent.
func (a *Account) BalanceFor(currencyCode string) decimal.Decimal {
	for _, b := range a.Balances {
		if b.CurrencyCode == currencyCode {
			return b.Balance
		}
	}
	return decimal.Zero
}

// AccountRepository is the GORM-backed account lookup used by the workflows.
type AccountRepository struct {
	TenantId string
}

func (r AccountRepository) AccountById(ctx context.Context, tx *gorm.DB, accountId int) (*Account, error) {
	var account Account
	err := tx.WithContext(ctx).
		Preload("Balances").
		Where("business_id = ?", r.TenantId).
		First(&account, accountId).Error
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", accountId, err)
	}
	return &account, nil
}

func (r AccountRepository) SystemAccountByCode(ctx context.Context, tx *gorm.DB, code string) (*Account, error) {
	var account Account
	err := tx.WithContext(ctx).
		Preload("Balances").
		Where("business_id = ? AND system_default_code = ? AND is_system_default = ?", r.TenantId, code, true).
		First(&account).Error
	if err != nil {
		return nil, fmt.Errorf("system account %s: %w", code, err)
	}
	return &account, nil
}

// SeedSystemAccounts creates the default chart for a new tenant. Idempotent:
// codes that already exist are left alone.
func SeedSystemAccounts(ctx context.Context, tx *gorm.DB, tenantId string) error {
	defaults := []Account{
		{Name: "Sales Revenue", MainType: AccountMainTypeIncome, DetailType: "Income", SystemDefaultCode: AccountCodeSalesRevenue},
		{Name: "Inventory Asset", MainType: AccountMainTypeAsset, DetailType: "Stock", SystemDefaultCode: AccountCodeInventoryAsset},
		{Name: "Cost of Goods Sold", MainType: AccountMainTypeExpense, DetailType: "CostOfGoodsSold", SystemDefaultCode: AccountCodeCostOfGoodsSold},
		{Name: "Tax Payable", MainType: AccountMainTypeLiability, DetailType: "OutputTax", SystemDefaultCode: AccountCodeTaxPayable},
		{Name: "Accounts Receivable", MainType: AccountMainTypeAsset, DetailType: "AccountsReceivable", SystemDefaultCode: AccountCodeAccountsReceivable},
		{Name: "Undeposited Funds", MainType: AccountMainTypeAsset, DetailType: "Cash", SystemDefaultCode: AccountCodeUndepositedFunds},
	}
	for _, account := range defaults {
		count, err := utils.ResourceCountWhere[Account](ctx, tx, tenantId,
			"system_default_code = ? AND is_system_default = ?", account.SystemDefaultCode, true)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		account.BusinessId = tenantId
		account.IsSystemDefault = utils.NewTrue()
		account.IsActive = utils.NewTrue()
		if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
			return fmt.Errorf("seed account %s: %w", account.Name, err)
		}
	}
	return nil
}
