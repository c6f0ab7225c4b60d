package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// VariantKind classifies how a sellable unit is stocked and priced.
type VariantKind string

const (
	VariantKindSerialized    VariantKind = "serialized"
	VariantKindNonSerialized VariantKind = "non_serialized"
	VariantKindBundle        VariantKind = "bundle"
	VariantKindService       VariantKind = "service"
)

func (k VariantKind) Valid() bool {
	switch k {
	case VariantKindSerialized, VariantKindNonSerialized, VariantKindBundle, VariantKindService:
		return true
	}
	return false
}

// ItemStatus is the lifecycle of one serialized physical unit.
// A unit is created on receipt and terminally consumed on sale; sold rows
// stay behind as history, they are never deleted.
type ItemStatus string

const (
	ItemStatusInStock   ItemStatus = "in_stock"
	ItemStatusReserved  ItemStatus = "reserved"
	ItemStatusInTransit ItemStatus = "in_transit"
	ItemStatusSold      ItemStatus = "sold"
)

// MovementType tags every stock movement row.
type MovementType string

const (
	MovementTypePurchase    MovementType = "purchase"
	MovementTypeSale        MovementType = "sale"
	MovementTypeAdjustment  MovementType = "adjustment"
	MovementTypeTransferOut MovementType = "transfer_out"
	MovementTypeTransferIn  MovementType = "transfer_in"
	MovementTypeAssembly    MovementType = "assembly"
)

// AccountMainType drives the debit/credit sign convention:
// debit increases Asset/Expense, credit increases Liability/Equity/Income.
type AccountMainType string

const (
	AccountMainTypeAsset     AccountMainType = "Asset"
	AccountMainTypeLiability AccountMainType = "Liability"
	AccountMainTypeEquity    AccountMainType = "Equity"
	AccountMainTypeIncome    AccountMainType = "Income"
	AccountMainTypeExpense   AccountMainType = "Expense"
)

// DebitIncreases reports whether a debit posting raises this account's balance.
func (t AccountMainType) DebitIncreases() bool {
	return t == AccountMainTypeAsset || t == AccountMainTypeExpense
}

func (t *AccountMainType) Scan(value interface{}) error {
	s, err := scanEnumString(value)
	if err != nil {
		return err
	}
	switch AccountMainType(s) {
	case AccountMainTypeAsset, AccountMainTypeLiability, AccountMainTypeEquity, AccountMainTypeIncome, AccountMainTypeExpense:
		*t = AccountMainType(s)
		return nil
	}
	return fmt.Errorf("invalid account main type %q", s)
}

func (t AccountMainType) Value() (driver.Value, error) {
	return string(t), nil
}

// DiscountType is P (percentage of the base) or A (fixed amount).
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "P"
	DiscountTypeAmount     DiscountType = "A"
)

// PaymentStatus is the only field of a finalized invoice that may still move.
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusPaid          PaymentStatus = "paid"
)

func scanEnumString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", errors.New("enum column must scan from string")
}
