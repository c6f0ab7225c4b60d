package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer carries a credit limit and a reference to its own accounts
// receivable sub-account, so customer debt is itself ledger-tracked.
type Customer struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	BusinessId          string          `gorm:"index;not null" json:"business_id"`
	Name                string          `gorm:"size:100;not null" json:"name"`
	Email               string          `gorm:"size:100" json:"email"`
	Phone               string          `gorm:"size:20" json:"phone"`
	Tier                string          `gorm:"index;size:50" json:"tier"`
	CreditLimit         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit_limit"`
	ReceivableAccountId int             `gorm:"index;not null" json:"receivable_account_id"`
	IsActive            *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Employee is the selling user; commission settings live here.
type Employee struct {
	ID                int             `gorm:"primary_key" json:"id"`
	BusinessId        string          `gorm:"index;not null" json:"business_id"`
	Name              string          `gorm:"size:100;not null" json:"name"`
	IsCommissionBased *bool           `gorm:"not null;default:false" json:"is_commission_based"`
	CommissionPercent decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"commission_percent"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Customer) GetId() int {
	return c.ID
}

// CustomerRepository is the GORM-backed customer lookup used by the sale
// workflow for credit checks and tier pricing.
type CustomerRepository struct {
	TenantId string
}

func (r CustomerRepository) CustomerById(ctx context.Context, tx *gorm.DB, customerId int) (*Customer, error) {
	var customer Customer
	err := tx.WithContext(ctx).
		Where("business_id = ?", r.TenantId).
		First(&customer, customerId).Error
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", customerId, err)
	}
	return &customer, nil
}

func (r CustomerRepository) EmployeeById(ctx context.Context, tx *gorm.DB, employeeId int) (*Employee, error) {
	var employee Employee
	err := tx.WithContext(ctx).
		Where("business_id = ?", r.TenantId).
		First(&employee, employeeId).Error
	if err != nil {
		return nil, fmt.Errorf("employee %d: %w", employeeId, err)
	}
	return &employee, nil
}
