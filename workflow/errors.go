package workflow

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/retail_backend/models"
)

// ErrValidationFailed marks malformed cart/payment input, caught before any
// mutation. Wrap with %w so callers can errors.Is it.
var ErrValidationFailed = errors.New("validation failed")

// ComponentShortfall is the per-component detail of a bundle that could not
// be fully decomposed.
type ComponentShortfall struct {
	VariantId int
	Requested decimal.Decimal
	Available decimal.Decimal
}

// InsufficientStockError aborts a deduction that would take a lot below zero.
// Nothing is applied when it is returned.
type InsufficientStockError struct {
	VariantId  int
	BranchId   int
	Requested  decimal.Decimal
	Available  decimal.Decimal
	IsBundle   bool
	Components []ComponentShortfall
}

func (e *InsufficientStockError) Error() string {
	if e.IsBundle {
		return fmt.Sprintf("insufficient stock for bundle variant_id=%d branch_id=%d requested=%s available=%s components=%d",
			e.VariantId, e.BranchId, e.Requested.String(), e.Available.String(), len(e.Components))
	}
	return fmt.Sprintf("insufficient stock for variant_id=%d branch_id=%d requested=%s available=%s",
		e.VariantId, e.BranchId, e.Requested.String(), e.Available.String())
}

// ItemNotAvailableError reports a serialized unit that is not in the status
// the operation expects. Selling the same serial twice surfaces as this.
type ItemNotAvailableError struct {
	SerialNumber string
	Status       models.ItemStatus
}

func (e *ItemNotAvailableError) Error() string {
	return fmt.Sprintf("serialized item %s is not available (status=%s)", e.SerialNumber, e.Status)
}

// CreditLimitExceededError fails a credit sale that would push the customer's
// receivable balance past its limit.
type CreditLimitExceededError struct {
	CustomerId int
	Limit      decimal.Decimal
	Balance    decimal.Decimal
	Due        decimal.Decimal
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded for customer %d: limit=%s balance=%s due=%s",
		e.CustomerId, e.Limit.String(), e.Balance.String(), e.Due.String())
}

// UnbalancedEntryError means pricing/tax math produced a journal whose debits
// and credits disagree. This is an internal invariant violation, not caller
// input: it is logged with full context and must never partially apply.
type UnbalancedEntryError struct {
	Debits       decimal.Decimal
	Credits      decimal.Decimal
	CurrencyCode string
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("unbalanced journal entry: debits=%s credits=%s currency=%s",
		e.Debits.String(), e.Credits.String(), e.CurrencyCode)
}

// DuplicateAccountError rejects creating a second system account by the same
// name.
type DuplicateAccountError struct {
	Name string
}

func (e *DuplicateAccountError) Error() string {
	return fmt.Sprintf("account %q already exists", e.Name)
}

// QuantityMismatchError rejects a serialized receipt whose serial count does
// not match the requested quantity.
type QuantityMismatchError struct {
	Requested   decimal.Decimal
	SerialCount int
}

func (e *QuantityMismatchError) Error() string {
	return fmt.Sprintf("serial count %d does not match requested quantity %s", e.SerialCount, e.Requested.String())
}

// CyclicBundleError fails fast on a self-referential bundle recipe instead of
// recursing forever. Bad catalog data, surfaced loudly.
type CyclicBundleError struct {
	VariantId int
}

func (e *CyclicBundleError) Error() string {
	return fmt.Sprintf("bundle recipe for variant %d references itself", e.VariantId)
}
