package workflow

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/retail_backend/models"
)

// Cart is the input to sale finalization: what the shop front hands over
// after routing, auth and tenant resolution have already happened.
type Cart struct {
	CustomerId   int        `validate:"required,gt=0"`
	BranchId     int        `validate:"required,gt=0"`
	EmployeeId   int        `validate:"gte=0"`
	UserId       int        `validate:"required,gt=0"`
	CurrencyCode string     `validate:"required,len=3"`
	Lines        []CartLine `validate:"required,min=1,dive"`

	GlobalDiscount *ManualDiscount
	Charges        []Charge
	Payments       []PaymentLine `validate:"dive"`
	CouponCode     string
	Notes          string
}

type CartLine struct {
	VariantId    int    `validate:"gte=0"`
	Name         string `validate:"max=100"`
	Qty          decimal.Decimal
	UnitPrice    decimal.Decimal
	SerialNumber string `validate:"max=100"`

	ManualDiscount *ManualDiscount

	// Labor lines are priced hours x rate verbatim and bypass the
	// automatic discount passes.
	IsLabor    bool
	Hours      decimal.Decimal
	HourlyRate decimal.Decimal

	// RequiredParts are deducted when a service line consumes stock.
	RequiredParts []PartLine `validate:"dive"`
}

type PartLine struct {
	VariantId    int `validate:"required,gt=0"`
	Qty          decimal.Decimal
	SerialNumber string `validate:"max=100"`
}

type ManualDiscount struct {
	Type  models.DiscountType `validate:"required,oneof=P A"`
	Value decimal.Decimal
}

type Charge struct {
	Name   string `validate:"required,max=100"`
	Amount decimal.Decimal
}

type PaymentLine struct {
	Method string `validate:"required,max=50"`
	Amount decimal.Decimal
}

// AmountPaid sums the payment lines.
func (c *Cart) AmountPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// validateCart checks the cart's shape before any mutation happens.
// Struct tags cover the scalar fields; decimals are checked by hand because
// validator has no notion of decimal.Decimal.
func validateCart(validate *validator.Validate, cart *Cart) error {
	if cart == nil {
		return fmt.Errorf("%w: cart is nil", ErrValidationFailed)
	}
	if err := validate.Struct(cart); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	for i, line := range cart.Lines {
		if line.IsLabor {
			if !line.Hours.GreaterThan(decimal.Zero) || line.HourlyRate.IsNegative() {
				return fmt.Errorf("%w: labor line %d needs positive hours and a non-negative rate", ErrValidationFailed, i)
			}
			continue
		}
		if line.VariantId <= 0 {
			return fmt.Errorf("%w: line %d needs a variant", ErrValidationFailed, i)
		}
		if !line.Qty.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: line %d quantity must be positive", ErrValidationFailed, i)
		}
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d unit price must not be negative", ErrValidationFailed, i)
		}
		if line.ManualDiscount != nil && line.ManualDiscount.Value.IsNegative() {
			return fmt.Errorf("%w: line %d discount must not be negative", ErrValidationFailed, i)
		}
		for j, part := range line.RequiredParts {
			if !part.Qty.GreaterThan(decimal.Zero) {
				return fmt.Errorf("%w: line %d part %d quantity must be positive", ErrValidationFailed, i, j)
			}
		}
	}
	if cart.GlobalDiscount != nil && cart.GlobalDiscount.Value.IsNegative() {
		return fmt.Errorf("%w: global discount must not be negative", ErrValidationFailed)
	}
	for i, charge := range cart.Charges {
		if charge.Amount.IsNegative() {
			return fmt.Errorf("%w: charge %d must not be negative", ErrValidationFailed, i)
		}
	}
	for i, payment := range cart.Payments {
		if payment.Amount.IsNegative() {
			return fmt.Errorf("%w: payment %d must not be negative", ErrValidationFailed, i)
		}
	}
	return nil
}
