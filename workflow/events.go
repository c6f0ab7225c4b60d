package workflow

import "github.com/shopspring/decimal"

// DomainEvent is returned by the coordinator for the caller to dispatch.
// The core never publishes anything itself; side effects like notifications
// live with the caller, keyed off these typed events.
type DomainEvent interface {
	EventName() string
}

type SaleFinalized struct {
	InvoiceId  int
	CustomerId int
	BranchId   int
	GrandTotal decimal.Decimal
}

func (SaleFinalized) EventName() string { return "sale.finalized" }

type PaymentRecorded struct {
	InvoiceId int
	Method    string
	Amount    decimal.Decimal
}

func (PaymentRecorded) EventName() string { return "sale.payment_recorded" }

type CouponRedeemed struct {
	CouponId  int
	InvoiceId int
}

func (CouponRedeemed) EventName() string { return "sale.coupon_redeemed" }

type CommissionLogged struct {
	EmployeeId int
	InvoiceId  int
	Amount     decimal.Decimal
}

func (CommissionLogged) EventName() string { return "sale.commission_logged" }

// StockDepleted fires when a sale drains a lot to zero; callers typically
// feed it into reorder alerts.
type StockDepleted struct {
	VariantId int
	BranchId  int
	LotId     int
}

func (StockDepleted) EventName() string { return "inventory.stock_depleted" }
