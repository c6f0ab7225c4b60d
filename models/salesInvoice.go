package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesInvoice is the finalized sale. Created once; after finalization only
// the payment status and paid amount may still move.
type SalesInvoice struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id"`
	InvoiceNumber string          `gorm:"size:255;not null" json:"invoice_number"`
	SequenceNo    int64           `gorm:"index;not null" json:"sequence_no"`
	CustomerId    int             `gorm:"index;not null" json:"customer_id"`
	BranchId      int             `gorm:"index;not null" json:"branch_id"`
	EmployeeId    int             `gorm:"index" json:"employee_id"`
	InvoiceDate   time.Time       `gorm:"not null" json:"invoice_date"`
	CurrencyCode  string          `gorm:"size:3;not null" json:"currency_code"`

	Subtotal            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	LineDiscountTotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"line_discount_total"`
	GlobalDiscount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"global_discount"`
	ChargesTotal        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"charges_total"`
	TaxTotal            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_total"`
	GrandTotal          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"grand_total"`
	CostOfGoodsSold     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_of_goods_sold"`
	PaidAmount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	PaymentStatus       PaymentStatus   `gorm:"type:enum('unpaid','partially_paid','paid');default:'unpaid';index;not null" json:"payment_status"`
	CouponId            *int            `gorm:"index" json:"coupon_id"`
	Notes               string          `gorm:"type:text" json:"notes"`

	Items []SalesInvoiceItem `gorm:"foreignKey:SalesInvoiceId" json:"items"`
	Taxes []SalesInvoiceTax  `gorm:"foreignKey:SalesInvoiceId" json:"taxes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SalesInvoiceItem is one priced cart line as sold.
type SalesInvoiceItem struct {
	ID             int             `gorm:"primary_key" json:"id"`
	SalesInvoiceId int             `gorm:"index;not null" json:"sales_invoice_id"`
	VariantId      int             `gorm:"index" json:"variant_id"`
	Name           string          `gorm:"size:100" json:"name"`
	Qty            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	FinalPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"final_price"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	SerialNumber   string          `gorm:"size:100" json:"serial_number"`
	LotId          *int            `gorm:"index" json:"lot_id"`
	IsLabor        *bool           `gorm:"not null;default:false" json:"is_labor"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// SalesInvoiceTax is one row of the invoice tax breakdown. Amounts for the
// same rule across lines are already summed.
type SalesInvoiceTax struct {
	ID             int             `gorm:"primary_key" json:"id"`
	SalesInvoiceId int             `gorm:"index;not null" json:"sales_invoice_id"`
	RuleName       string          `gorm:"size:100;not null" json:"rule_name"`
	Rate           decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"rate"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	AccountId      int             `gorm:"index;not null" json:"account_id"`
}

// Payment records money received against an invoice.
type Payment struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BusinessId     string          `gorm:"index;not null" json:"business_id"`
	SalesInvoiceId int             `gorm:"index;not null" json:"sales_invoice_id"`
	Method         string          `gorm:"size:50;not null" json:"method"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	UserId         int             `gorm:"index" json:"user_id"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// Commission is the logged commission of a commission-based employee on a
// finalized sale.
type Commission struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BusinessId     string          `gorm:"index;not null" json:"business_id"`
	EmployeeId     int             `gorm:"index;not null" json:"employee_id"`
	SalesInvoiceId int             `gorm:"index;not null" json:"sales_invoice_id"`
	BasisAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"basis_amount"`
	Percent        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"percent"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// Coupon is a single-use code applied as a global cart discount.
type Coupon struct {
	ID                int             `gorm:"primary_key" json:"id"`
	BusinessId        string          `gorm:"uniqueIndex:idx_coupon_biz_code,priority:1;not null" json:"business_id"`
	Code              string          `gorm:"uniqueIndex:idx_coupon_biz_code,priority:2;size:50;not null" json:"code"`
	DiscountType      DiscountType    `gorm:"type:enum('P','A');default:'A';not null" json:"discount_type"`
	Value             decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"value"`
	IsRedeemed        *bool           `gorm:"not null;default:false" json:"is_redeemed"`
	RedeemedInvoiceId *int            `gorm:"index" json:"redeemed_invoice_id"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (si *SalesInvoice) GetId() int {
	return si.ID
}

// NextInvoiceSequence reserves the next invoice number within the sale's
// transaction. MAX+1 under the caller's tx; concurrent sales serialize on the
// tenant posting lock before reaching this.
func NextInvoiceSequence(tx *gorm.DB, tenantId string) (int64, error) {
	var maxSeq *int64
	err := tx.Model(&SalesInvoice{}).
		Select("max(sequence_no)").
		Where("business_id = ?", tenantId).
		Scan(&maxSeq).Error
	if err != nil {
		return 0, fmt.Errorf("invoice sequence: %w", err)
	}
	if maxSeq == nil {
		return 1, nil
	}
	return *maxSeq + 1, nil
}
