package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
)

// SalesTransactionCoordinator turns a cart into a finalized, audited sale:
// pricing, tax, credit check, inventory deduction, invoice persistence,
// journal posting, payment and coupon handling as one logical transaction.
//
// The caller owns the transaction boundary: FinalizeSale never commits and
// never rolls back the tx it is given. On error the caller must roll back;
// the coupon hold is the one piece of state outside that boundary and is
// released here on every exit path.
type SalesTransactionCoordinator struct {
	tenantId   string
	settings   config.TenantSettings
	inventory  *InventoryLedger
	accounting *AccountingLedger
	pricing    *PricingEngine
	taxes      *TaxEngine
	catalog    Catalog
	customers  CustomerSource
	accounts   AccountSource
	locker     *redislock.Client
	logger     *logrus.Logger
	validate   *validator.Validate
}

// CoordinatorDeps bundles the collaborators a coordinator is built from.
// Everything is explicit; there are no process-wide singletons to reach for.
type CoordinatorDeps struct {
	TenantId   string
	Settings   config.TenantSettings
	Inventory  *InventoryLedger
	Accounting *AccountingLedger
	Pricing    *PricingEngine
	Taxes      *TaxEngine
	Catalog    Catalog
	Customers  CustomerSource
	Accounts   AccountSource
	Locker     *redislock.Client
	Logger     *logrus.Logger
}

func NewSalesTransactionCoordinator(deps CoordinatorDeps) *SalesTransactionCoordinator {
	return &SalesTransactionCoordinator{
		tenantId:   deps.TenantId,
		settings:   deps.Settings,
		inventory:  deps.Inventory,
		accounting: deps.Accounting,
		pricing:    deps.Pricing,
		taxes:      deps.Taxes,
		catalog:    deps.Catalog,
		customers:  deps.Customers,
		accounts:   deps.Accounts,
		locker:     deps.Locker,
		logger:     deps.Logger,
		validate:   validator.New(),
	}
}

// FinalizeSale runs the whole state machine. It returns the persisted
// invoice and the domain events the caller is responsible for dispatching.
func (c *SalesTransactionCoordinator) FinalizeSale(ctx context.Context, tx *gorm.DB, cart *Cart) (*models.SalesInvoice, []DomainEvent, error) {
	// Shape validation happens before any mutation.
	if err := validateCart(c.validate, cart); err != nil {
		return nil, nil, err
	}

	// Serialize finalization per tenant. MAX+1 invoice numbering and the
	// balance upserts rely on this; the row locks alone would only deadlock
	// later under contention.
	if c.locker != nil {
		postingLock, err := utils.TenantLock(ctx, c.locker, c.tenantId, "sale")
		if err != nil {
			return nil, nil, fmt.Errorf("acquire posting lock: %w", err)
		}
		defer func() { _ = postingLock.Release(ctx) }()
	}

	// The coupon hold lives outside the database transaction. It is
	// released on every exit path, including the ones where the caller
	// will roll the tx back: the tx cannot undo it for us.
	var couponLock *redislock.Lock
	if cart.CouponCode != "" && c.settings.CouponsEnabled && c.locker != nil {
		lock, err := utils.CouponHold(ctx, c.locker, c.tenantId, cart.CouponCode)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		couponLock = lock
		defer func() { _ = couponLock.Release(ctx) }()
	}

	customer, err := c.customers.CustomerById(ctx, tx, cart.CustomerId)
	if err != nil {
		return nil, nil, err
	}

	var coupon *models.Coupon
	if cart.CouponCode != "" && c.settings.CouponsEnabled {
		coupon, err = c.loadCoupon(ctx, tx, cart.CouponCode)
		if err != nil {
			return nil, nil, err
		}
	}

	// Step 1: price the cart, then resolve taxes on the discounted line
	// totals.
	priced, err := c.pricing.PriceCart(ctx, tx, cart, customer)
	if err != nil {
		return nil, nil, err
	}

	taxLines := make([]TaxLineInput, 0, len(priced.Lines))
	for _, line := range priced.Lines {
		taxLines = append(taxLines, TaxLineInput{
			TaxCategoryId: line.TaxCategoryId,
			Amount:        line.FinalAmount,
		})
	}
	taxResult, err := c.taxes.ResolveTaxes(ctx, tx, cart.BranchId, taxLines)
	if err != nil {
		return nil, nil, err
	}

	couponDiscount := decimal.Zero
	if coupon != nil {
		couponDiscount = utils.CalculateDiscountAmount(priced.DiscountedSubtotal, coupon.Value, string(coupon.DiscountType))
	}

	// Rounding happens here, at the output boundary, and the journal is
	// built from the same rounded figures so it balances by construction.
	base := utils.RoundMoney(priced.DiscountedSubtotal.Sub(couponDiscount))
	totals := computeSaleTotals(base, taxResult.Breakdown)

	amountPaid := cart.AmountPaid()
	if amountPaid.GreaterThan(totals.GrandTotal) {
		amountPaid = totals.GrandTotal
	}

	// Step 2: credit check before anything moves.
	if err := c.checkCreditLimit(ctx, tx, cart, customer, totals.GrandTotal, amountPaid); err != nil {
		return nil, nil, err
	}

	// Step 3: advisory availability check. The authoritative guard is the
	// atomic decrement in the inventory ledger; this catches the common
	// case before any mutation.
	if err := c.checkAvailability(ctx, tx, cart); err != nil {
		return nil, nil, err
	}

	// Step 4: deduct inventory line by line, accumulating cost of goods
	// sold and the audit linkage.
	events := []DomainEvent{}
	totalCost := decimal.Zero
	var movementIds []string
	items := make([]models.SalesInvoiceItem, 0, len(priced.Lines))

	for _, pricedLine := range priced.Lines {
		line := pricedLine.Line
		item := models.SalesInvoiceItem{
			Name:           line.Name,
			Qty:            line.Qty,
			UnitPrice:      utils.RoundMoney(line.UnitPrice),
			DiscountAmount: utils.RoundMoney(pricedLine.DiscountTotal),
			FinalPrice:     utils.RoundMoney(pricedLine.FinalAmount),
			CostPrice:      decimal.Zero,
			IsLabor:        utils.NewFalse(),
		}

		if line.IsLabor {
			item.IsLabor = utils.NewTrue()
			item.Qty = line.Hours
			item.UnitPrice = utils.RoundMoney(line.HourlyRate)
			items = append(items, item)
			continue
		}

		item.VariantId = line.VariantId
		deduction, lineEvents, err := c.deductLine(ctx, tx, cart, pricedLine.Variant, line)
		if err != nil {
			return nil, nil, err
		}
		if deduction != nil {
			totalCost = totalCost.Add(deduction.Cost)
			item.CostPrice = utils.RoundMoney(deduction.Cost)
			movementIds = append(movementIds, deduction.movementIds()...)
			for _, consumption := range deduction.Consumptions {
				if consumption.SerialNumber != "" && item.SerialNumber == "" {
					item.SerialNumber = consumption.SerialNumber
				}
				if consumption.LotId != nil && item.LotId == nil {
					item.LotId = consumption.LotId
				}
			}
		}
		events = append(events, lineEvents...)
		items = append(items, item)
	}

	// Step 5: persist the invoice.
	invoice, err := c.persistInvoice(ctx, tx, cart, coupon, priced, totals.Breakdown, persistTotals{
		couponDiscount: utils.RoundMoney(couponDiscount),
		netRevenue:     totals.NetRevenue,
		taxTotal:       totals.TaxTotal,
		grandTotal:     totals.GrandTotal,
		totalCost:      utils.RoundMoney(totalCost),
	}, items)
	if err != nil {
		return nil, nil, err
	}

	// Step 6: stamp the invoice id onto the movements from step 4.
	if err := c.inventory.LinkMovementsToInvoice(ctx, tx, movementIds, invoice.ID); err != nil {
		return nil, nil, err
	}

	// Step 7: post the revenue+tax entry and the COGS entry.
	if err := c.postSaleJournals(ctx, tx, cart, customer, invoice, totals.Breakdown, totals.NetRevenue, totals.GrandTotal); err != nil {
		return nil, nil, err
	}

	// Step 8: record payment and redeem the coupon.
	if amountPaid.GreaterThan(decimal.Zero) {
		paymentEvents, err := c.recordPayments(ctx, tx, cart, customer, invoice, amountPaid)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, paymentEvents...)
	}
	if coupon != nil {
		if err := c.redeemCoupon(ctx, tx, coupon, invoice.ID); err != nil {
			return nil, nil, err
		}
		events = append(events, CouponRedeemed{CouponId: coupon.ID, InvoiceId: invoice.ID})
	}

	// Step 9: log commission for commission-based sellers.
	if cart.EmployeeId > 0 && c.settings.CommissionEnabled {
		commissionEvent, err := c.logCommission(ctx, tx, cart, invoice, totals.NetRevenue)
		if err != nil {
			return nil, nil, err
		}
		if commissionEvent != nil {
			events = append(events, *commissionEvent)
		}
	}

	events = append([]DomainEvent{SaleFinalized{
		InvoiceId:  invoice.ID,
		CustomerId: invoice.CustomerId,
		BranchId:   invoice.BranchId,
		GrandTotal: invoice.GrandTotal,
	}}, events...)

	return invoice, events, nil
}

// checkCreditLimit enforces: a customer paying less than the total must have
// a nonzero credit limit with room for the amount due.
func (c *SalesTransactionCoordinator) checkCreditLimit(ctx context.Context, tx *gorm.DB, cart *Cart, customer *models.Customer, grandTotal decimal.Decimal, amountPaid decimal.Decimal) error {
	amountDue := grandTotal.Sub(amountPaid)
	if !amountDue.GreaterThan(decimal.Zero) {
		return nil
	}

	receivable, err := c.accounts.AccountById(ctx, tx, customer.ReceivableAccountId)
	if err != nil {
		return err
	}
	balance := receivable.BalanceFor(cart.CurrencyCode)

	if !customer.CreditLimit.GreaterThan(decimal.Zero) || balance.Add(amountDue).GreaterThan(customer.CreditLimit) {
		return &CreditLimitExceededError{
			CustomerId: customer.ID,
			Limit:      customer.CreditLimit,
			Balance:    balance,
			Due:        amountDue,
		}
	}
	return nil
}

func (c *SalesTransactionCoordinator) checkAvailability(ctx context.Context, tx *gorm.DB, cart *Cart) error {
	type requirement struct {
		qty     decimal.Decimal
		variant *models.ProductVariant
	}
	required := map[int]*requirement{}

	addRequirement := func(variantId int, qty decimal.Decimal) error {
		variant, err := c.catalog.VariantById(ctx, tx, variantId)
		if err != nil {
			return err
		}
		if variant.Kind == models.VariantKindService {
			return nil
		}
		if existing, ok := required[variantId]; ok {
			existing.qty = existing.qty.Add(qty)
			return nil
		}
		required[variantId] = &requirement{qty: qty, variant: variant}
		return nil
	}

	for _, line := range cart.Lines {
		if line.IsLabor {
			continue
		}
		if err := addRequirement(line.VariantId, line.Qty); err != nil {
			return err
		}
		for _, part := range line.RequiredParts {
			if err := addRequirement(part.VariantId, part.Qty.Mul(line.Qty)); err != nil {
				return err
			}
		}
	}

	for variantId, req := range required {
		available, err := c.inventory.AvailableQuantity(ctx, tx, variantId, cart.BranchId)
		if err != nil {
			return err
		}
		if available.LessThan(req.qty) {
			return &InsufficientStockError{
				VariantId: variantId,
				BranchId:  cart.BranchId,
				Requested: req.qty,
				Available: available,
				IsBundle:  req.variant.Kind == models.VariantKindBundle,
			}
		}
	}
	return nil
}

func (c *SalesTransactionCoordinator) deductLine(ctx context.Context, tx *gorm.DB, cart *Cart, variant *models.ProductVariant, line *CartLine) (*DeductionResult, []DomainEvent, error) {
	var events []DomainEvent
	combined := &DeductionResult{Cost: decimal.Zero}

	deduct := func(variantId int, qty decimal.Decimal, serial string, allowAutoSerial bool) error {
		res, err := c.inventory.DecreaseStock(ctx, tx, DecreaseStockInput{
			VariantId:       variantId,
			BranchId:        cart.BranchId,
			Qty:             qty,
			SerialNumber:    serial,
			Type:            models.MovementTypeSale,
			UserId:          cart.UserId,
			AllowAutoSerial: allowAutoSerial,
		})
		if err != nil {
			return err
		}
		combined.Cost = combined.Cost.Add(res.Cost)
		combined.Consumptions = append(combined.Consumptions, res.Consumptions...)
		for _, consumption := range res.Consumptions {
			if consumption.LotDepleted && consumption.LotId != nil {
				events = append(events, StockDepleted{
					VariantId: consumption.VariantId,
					BranchId:  cart.BranchId,
					LotId:     *consumption.LotId,
				})
			}
		}
		return nil
	}

	if variant.Kind == models.VariantKindService {
		// A pure service consumes nothing; a service with required parts
		// deducts those parts.
		for _, part := range line.RequiredParts {
			if err := deduct(part.VariantId, part.Qty.Mul(line.Qty), part.SerialNumber, true); err != nil {
				return nil, nil, err
			}
		}
		return combined, events, nil
	}

	if err := deduct(line.VariantId, line.Qty, line.SerialNumber, false); err != nil {
		return nil, nil, err
	}
	return combined, events, nil
}

type saleTotals struct {
	Breakdown  []TaxBreakdownEntry
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
	NetRevenue decimal.Decimal
}

// computeSaleTotals rounds each tax row and derives the invoice figures from
// the rounded base. Inclusive tax already sits inside the base, so only the
// exclusive portion is added on top; net revenue excludes tax of both kinds.
func computeSaleTotals(base decimal.Decimal, breakdown []TaxBreakdownEntry) saleTotals {
	totals := saleTotals{
		Breakdown: make([]TaxBreakdownEntry, 0, len(breakdown)),
		TaxTotal:  decimal.Zero,
	}
	inclusiveTotal := decimal.Zero
	for _, entry := range breakdown {
		entry.Amount = utils.RoundMoney(entry.Amount)
		totals.TaxTotal = totals.TaxTotal.Add(entry.Amount)
		if entry.IsInclusive {
			inclusiveTotal = inclusiveTotal.Add(entry.Amount)
		}
		totals.Breakdown = append(totals.Breakdown, entry)
	}
	totals.GrandTotal = base.Add(totals.TaxTotal.Sub(inclusiveTotal))
	totals.NetRevenue = totals.GrandTotal.Sub(totals.TaxTotal)
	return totals
}

type persistTotals struct {
	couponDiscount decimal.Decimal
	netRevenue     decimal.Decimal
	taxTotal       decimal.Decimal
	grandTotal     decimal.Decimal
	totalCost      decimal.Decimal
}

func (c *SalesTransactionCoordinator) persistInvoice(ctx context.Context, tx *gorm.DB, cart *Cart, coupon *models.Coupon, priced *PricedCart, breakdown []TaxBreakdownEntry, totals persistTotals, items []models.SalesInvoiceItem) (*models.SalesInvoice, error) {
	seqNo, err := models.NextInvoiceSequence(tx, c.tenantId)
	if err != nil {
		return nil, err
	}

	taxes := make([]models.SalesInvoiceTax, 0, len(breakdown))
	for _, entry := range breakdown {
		taxes = append(taxes, models.SalesInvoiceTax{
			RuleName:  entry.RuleName,
			Rate:      entry.Rate,
			Amount:    entry.Amount,
			AccountId: entry.AccountId,
		})
	}

	invoice := models.SalesInvoice{
		BusinessId:        c.tenantId,
		InvoiceNumber:     fmt.Sprintf("INV-%d", seqNo),
		SequenceNo:        seqNo,
		CustomerId:        cart.CustomerId,
		BranchId:          cart.BranchId,
		EmployeeId:        cart.EmployeeId,
		InvoiceDate:       time.Now().UTC(),
		CurrencyCode:      cart.CurrencyCode,
		Subtotal:          utils.RoundMoney(priced.Subtotal),
		LineDiscountTotal: utils.RoundMoney(priced.LineDiscountTotal),
		GlobalDiscount:    utils.RoundMoney(priced.GlobalDiscount).Add(totals.couponDiscount),
		ChargesTotal:      utils.RoundMoney(priced.ChargesTotal),
		TaxTotal:          totals.taxTotal,
		GrandTotal:        totals.grandTotal,
		CostOfGoodsSold:   totals.totalCost,
		PaidAmount:        decimal.Zero,
		PaymentStatus:     models.PaymentStatusUnpaid,
		Notes:             cart.Notes,
		Items:             items,
		Taxes:             taxes,
	}
	if coupon != nil {
		couponId := coupon.ID
		invoice.CouponId = &couponId
	}

	if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
		return nil, fmt.Errorf("persist invoice: %w", err)
	}
	return &invoice, nil
}

// postSaleJournals writes entry (a), revenue and tax against the customer's
// receivable, and entry (b), cost of goods sold against inventory asset.
func (c *SalesTransactionCoordinator) postSaleJournals(ctx context.Context, tx *gorm.DB, cart *Cart, customer *models.Customer, invoice *models.SalesInvoice, breakdown []TaxBreakdownEntry, netRevenue decimal.Decimal, grandTotal decimal.Decimal) error {
	revenueAccount, err := c.accounts.SystemAccountByCode(ctx, tx, models.AccountCodeSalesRevenue)
	if err != nil {
		return err
	}

	lines := []JournalLineInput{
		{AccountId: customer.ReceivableAccountId, Description: "Customer receivable", Debit: grandTotal},
		{AccountId: revenueAccount.ID, Description: "Sales revenue", Credit: netRevenue},
	}
	for _, entry := range breakdown {
		lines = append(lines, JournalLineInput{
			AccountId:   entry.AccountId,
			Description: entry.RuleName,
			Credit:      entry.Amount,
		})
	}
	if _, err := c.accounting.CreateJournalEntry(ctx, tx, NewJournalEntryInput{
		Description:  fmt.Sprintf("Sale %s", invoice.InvoiceNumber),
		Lines:        lines,
		CurrencyCode: cart.CurrencyCode,
		BranchId:     cart.BranchId,
		RefType:      "IV",
		RefId:        invoice.ID,
		UserId:       cart.UserId,
	}); err != nil {
		return err
	}

	if invoice.CostOfGoodsSold.GreaterThan(decimal.Zero) {
		cogsAccount, err := c.accounts.SystemAccountByCode(ctx, tx, models.AccountCodeCostOfGoodsSold)
		if err != nil {
			return err
		}
		inventoryAccount, err := c.accounts.SystemAccountByCode(ctx, tx, models.AccountCodeInventoryAsset)
		if err != nil {
			return err
		}
		if _, err := c.accounting.CreateJournalEntry(ctx, tx, NewJournalEntryInput{
			Description: fmt.Sprintf("COGS %s", invoice.InvoiceNumber),
			Lines: []JournalLineInput{
				{AccountId: cogsAccount.ID, Description: "Cost of goods sold", Debit: invoice.CostOfGoodsSold},
				{AccountId: inventoryAccount.ID, Description: "Inventory asset", Credit: invoice.CostOfGoodsSold},
			},
			CurrencyCode: cart.CurrencyCode,
			BranchId:     cart.BranchId,
			RefType:      "IV",
			RefId:        invoice.ID,
			UserId:       cart.UserId,
		}); err != nil {
			return err
		}
	}
	return nil
}

// recordPayments stores the payment rows, settles the customer's receivable
// for the paid portion and moves the invoice's payment status.
func (c *SalesTransactionCoordinator) recordPayments(ctx context.Context, tx *gorm.DB, cart *Cart, customer *models.Customer, invoice *models.SalesInvoice, amountPaid decimal.Decimal) ([]DomainEvent, error) {
	var events []DomainEvent
	remaining := amountPaid
	for _, paymentLine := range cart.Payments {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		applied := paymentLine.Amount
		if applied.GreaterThan(remaining) {
			applied = remaining
		}
		remaining = remaining.Sub(applied)

		payment := models.Payment{
			BusinessId:     c.tenantId,
			SalesInvoiceId: invoice.ID,
			Method:         paymentLine.Method,
			Amount:         utils.RoundMoney(applied),
			UserId:         cart.UserId,
		}
		if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
			return nil, fmt.Errorf("record payment: %w", err)
		}
		events = append(events, PaymentRecorded{
			InvoiceId: invoice.ID,
			Method:    paymentLine.Method,
			Amount:    payment.Amount,
		})
	}

	fundsAccount, err := c.accounts.SystemAccountByCode(ctx, tx, models.AccountCodeUndepositedFunds)
	if err != nil {
		return nil, err
	}
	if _, err := c.accounting.CreateJournalEntry(ctx, tx, NewJournalEntryInput{
		Description: fmt.Sprintf("Payment %s", invoice.InvoiceNumber),
		Lines: []JournalLineInput{
			{AccountId: fundsAccount.ID, Description: "Funds received", Debit: amountPaid},
			{AccountId: customer.ReceivableAccountId, Description: "Receivable settled", Credit: amountPaid},
		},
		CurrencyCode: cart.CurrencyCode,
		BranchId:     cart.BranchId,
		RefType:      "IV",
		RefId:        invoice.ID,
		UserId:       cart.UserId,
	}); err != nil {
		return nil, err
	}

	status := models.PaymentStatusPartiallyPaid
	if amountPaid.GreaterThanOrEqual(invoice.GrandTotal) {
		status = models.PaymentStatusPaid
	}
	if err := tx.WithContext(ctx).Model(invoice).Updates(map[string]interface{}{
		"paid_amount":    amountPaid,
		"payment_status": status,
	}).Error; err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	invoice.PaidAmount = amountPaid
	invoice.PaymentStatus = status
	return events, nil
}

func (c *SalesTransactionCoordinator) loadCoupon(ctx context.Context, tx *gorm.DB, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND code = ?", c.tenantId, code).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: coupon %s not found", ErrValidationFailed, code)
		}
		return nil, err
	}
	if coupon.IsRedeemed != nil && *coupon.IsRedeemed {
		return nil, fmt.Errorf("%w: coupon %s already redeemed", ErrValidationFailed, code)
	}
	return &coupon, nil
}

func (c *SalesTransactionCoordinator) redeemCoupon(ctx context.Context, tx *gorm.DB, coupon *models.Coupon, invoiceId int) error {
	res := tx.WithContext(ctx).Model(&models.Coupon{}).
		Where("id = ? AND is_redeemed = ?", coupon.ID, false).
		Updates(map[string]interface{}{
			"is_redeemed":         true,
			"redeemed_invoice_id": invoiceId,
		})
	if res.Error != nil {
		return fmt.Errorf("redeem coupon %d: %w", coupon.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: coupon %s already redeemed", ErrValidationFailed, coupon.Code)
	}
	return nil
}

func (c *SalesTransactionCoordinator) logCommission(ctx context.Context, tx *gorm.DB, cart *Cart, invoice *models.SalesInvoice, basis decimal.Decimal) (*CommissionLogged, error) {
	employee, err := c.customers.EmployeeById(ctx, tx, cart.EmployeeId)
	if err != nil {
		return nil, err
	}
	if employee.IsCommissionBased == nil || !*employee.IsCommissionBased {
		return nil, nil
	}

	amount := utils.RoundMoney(basis.Mul(employee.CommissionPercent).DivRound(decimal.NewFromInt(100), 4))
	commission := models.Commission{
		BusinessId:     c.tenantId,
		EmployeeId:     employee.ID,
		SalesInvoiceId: invoice.ID,
		BasisAmount:    basis,
		Percent:        employee.CommissionPercent,
		Amount:         amount,
	}
	if err := tx.WithContext(ctx).Create(&commission).Error; err != nil {
		return nil, fmt.Errorf("log commission: %w", err)
	}
	return &CommissionLogged{
		EmployeeId: employee.ID,
		InvoiceId:  invoice.ID,
		Amount:     amount,
	}, nil
}
