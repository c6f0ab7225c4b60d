package workflow

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
)

// PricingEngine resolves automatic promotions, customer-tier rules and manual
// discounts into final per-line prices. Pure function of the cart and the
// read-only rule data; it mutates nothing.
type PricingEngine struct {
	tenantId string
	pricing  PricingSource
	catalog  Catalog
	logger   *logrus.Logger
}

func NewPricingEngine(tenantId string, pricing PricingSource, catalog Catalog, logger *logrus.Logger) *PricingEngine {
	return &PricingEngine{tenantId: tenantId, pricing: pricing, catalog: catalog, logger: logger}
}

// PricedLine keeps the exact (unrounded) running amounts so later passes and
// the tax engine do not compound rounding error. Rounded figures appear only
// on the invoice.
type PricedLine struct {
	Line          *CartLine
	Variant       *models.ProductVariant
	GrossAmount   decimal.Decimal
	DiscountTotal decimal.Decimal
	FinalAmount   decimal.Decimal
	TaxCategoryId int
}

type PricedCart struct {
	Lines              []PricedLine
	Subtotal           decimal.Decimal // sum of final line amounts, pre global discount
	LineDiscountTotal  decimal.Decimal
	GlobalDiscount     decimal.Decimal
	ChargesTotal       decimal.Decimal
	DiscountedSubtotal decimal.Decimal // subtotal - global discount + charges, pre tax
}

// PriceCart runs the multi-pass resolution over every cart line:
// best-of promotions, then cumulative tier rules in descending priority,
// then the manual line discount, each pass on the already-discounted running
// price. Labor lines price at hours x rate verbatim and skip passes 1-2.
func (e *PricingEngine) PriceCart(ctx context.Context, tx *gorm.DB, cart *Cart, customer *models.Customer) (*PricedCart, error) {
	now := time.Now().UTC()
	priced := &PricedCart{
		Subtotal:          decimal.Zero,
		LineDiscountTotal: decimal.Zero,
		GlobalDiscount:    decimal.Zero,
		ChargesTotal:      decimal.Zero,
	}

	for i := range cart.Lines {
		line := &cart.Lines[i]

		if line.IsLabor {
			amount := line.Hours.Mul(line.HourlyRate)
			priced.Lines = append(priced.Lines, PricedLine{
				Line:          line,
				GrossAmount:   amount,
				DiscountTotal: decimal.Zero,
				FinalAmount:   amount,
			})
			priced.Subtotal = priced.Subtotal.Add(amount)
			continue
		}

		variant, err := e.catalog.VariantById(ctx, tx, line.VariantId)
		if err != nil {
			return nil, err
		}

		gross := line.Qty.Mul(line.UnitPrice)
		running := gross

		// Pass 1: best-of automatic promotions. The single highest-value
		// matching promotion wins; promotions never stack.
		promotions, err := e.pricing.PromotionsForVariant(ctx, tx, variant.ID, now)
		if err != nil {
			return nil, err
		}
		best := decimal.Zero
		for _, promotion := range promotions {
			value := utils.CalculateDiscountAmount(running, promotion.Value, string(promotion.DiscountType))
			if value.GreaterThan(best) {
				best = value
			}
		}
		running = running.Sub(best)

		// Pass 2: customer-tier rules, descending priority, cumulative.
		if customer != nil && customer.Tier != "" {
			rules, err := e.pricing.RulesForTier(ctx, tx, customer.Tier, variant.CategoryId)
			if err != nil {
				return nil, err
			}
			for _, rule := range rules {
				running = running.Sub(utils.CalculateDiscountAmount(running, rule.PercentOff, string(models.DiscountTypePercentage)))
			}
		}

		// Pass 3: manual per-line discount from the caller.
		if line.ManualDiscount != nil {
			running = running.Sub(utils.CalculateDiscountAmount(running, line.ManualDiscount.Value, string(line.ManualDiscount.Type)))
		}

		if running.IsNegative() {
			running = decimal.Zero
		}

		pricedLine := PricedLine{
			Line:          line,
			Variant:       variant,
			GrossAmount:   gross,
			DiscountTotal: gross.Sub(running),
			FinalAmount:   running,
			TaxCategoryId: variant.TaxCategoryId,
		}
		priced.Lines = append(priced.Lines, pricedLine)
		priced.Subtotal = priced.Subtotal.Add(running)
		priced.LineDiscountTotal = priced.LineDiscountTotal.Add(pricedLine.DiscountTotal)
	}

	// Global cart-level discount applies to the discounted subtotal, then
	// flat charges are added on top.
	if cart.GlobalDiscount != nil {
		priced.GlobalDiscount = utils.CalculateDiscountAmount(priced.Subtotal, cart.GlobalDiscount.Value, string(cart.GlobalDiscount.Type))
	}
	for _, charge := range cart.Charges {
		priced.ChargesTotal = priced.ChargesTotal.Add(charge.Amount)
	}
	priced.DiscountedSubtotal = priced.Subtotal.Sub(priced.GlobalDiscount).Add(priced.ChargesTotal)

	return priced, nil
}
