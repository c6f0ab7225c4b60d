package workflow

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
)

func pricingFixture() (*PricingEngine, *fakePricing) {
	catalog := &fakeCatalog{variants: map[int]*models.ProductVariant{
		1: {ID: 1, Kind: models.VariantKindNonSerialized, CategoryId: 5, TaxCategoryId: 1},
	}}
	pricing := &fakePricing{
		promotions: map[int][]models.Promotion{},
		tierRules:  map[string][]models.PricingRule{},
	}
	return NewPricingEngine("biz-1", pricing, catalog, nil), pricing
}

func TestPriceCartBestOfPromotions(t *testing.T) {
	engine, pricing := pricingFixture()
	pricing.promotions[1] = []models.Promotion{
		{ID: 1, VariantId: 1, DiscountType: models.DiscountTypePercentage, Value: dec("10")},
		{ID: 2, VariantId: 1, DiscountType: models.DiscountTypeAmount, Value: dec("25")},
	}

	cart := &Cart{Lines: []CartLine{{VariantId: 1, Qty: dec("2"), UnitPrice: dec("100")}}}
	priced, err := engine.PriceCart(context.Background(), nil, cart, nil)
	if err != nil {
		t.Fatalf("PriceCart: %v", err)
	}
	// 10% of 200 = 20 vs flat 25; the single best promotion wins.
	if !priced.Lines[0].FinalAmount.Equal(dec("175")) {
		t.Fatalf("final = %s, want 175", priced.Lines[0].FinalAmount)
	}
	if !priced.Lines[0].DiscountTotal.Equal(dec("25")) {
		t.Fatalf("discount = %s, want 25", priced.Lines[0].DiscountTotal)
	}
}

func TestPriceCartTierRulesCompound(t *testing.T) {
	engine, pricing := pricingFixture()
	pricing.tierRules["wholesale"] = []models.PricingRule{
		{ID: 1, Tier: "wholesale", PercentOff: dec("10"), Priority: 2},
		{ID: 2, Tier: "wholesale", PercentOff: dec("5"), Priority: 1},
	}
	customer := &models.Customer{ID: 1, Tier: "wholesale"}

	cart := &Cart{Lines: []CartLine{{VariantId: 1, Qty: dec("1"), UnitPrice: dec("100")}}}
	priced, err := engine.PriceCart(context.Background(), nil, cart, customer)
	if err != nil {
		t.Fatalf("PriceCart: %v", err)
	}
	// 100 -> 90 after 10%, -> 85.5 after 5% of the running price.
	if !priced.Lines[0].FinalAmount.Equal(dec("85.5")) {
		t.Fatalf("final = %s, want 85.5", priced.Lines[0].FinalAmount)
	}
}

func TestPriceCartManualDiscountAfterAutomatic(t *testing.T) {
	engine, pricing := pricingFixture()
	pricing.promotions[1] = []models.Promotion{
		{ID: 1, VariantId: 1, DiscountType: models.DiscountTypePercentage, Value: dec("10")},
	}

	cart := &Cart{Lines: []CartLine{{
		VariantId:      1,
		Qty:            dec("1"),
		UnitPrice:      dec("100"),
		ManualDiscount: &ManualDiscount{Type: models.DiscountTypeAmount, Value: dec("15")},
	}}}
	priced, err := engine.PriceCart(context.Background(), nil, cart, nil)
	if err != nil {
		t.Fatalf("PriceCart: %v", err)
	}
	// 100 -> 90 after the promotion, -> 75 after the manual 15.
	if !priced.Lines[0].FinalAmount.Equal(dec("75")) {
		t.Fatalf("final = %s, want 75", priced.Lines[0].FinalAmount)
	}
}

func TestPriceCartClampsNegativeToZero(t *testing.T) {
	engine, _ := pricingFixture()

	cart := &Cart{Lines: []CartLine{{
		VariantId:      1,
		Qty:            dec("1"),
		UnitPrice:      dec("10"),
		ManualDiscount: &ManualDiscount{Type: models.DiscountTypeAmount, Value: dec("50")},
	}}}
	priced, err := engine.PriceCart(context.Background(), nil, cart, nil)
	if err != nil {
		t.Fatalf("PriceCart: %v", err)
	}
	if !priced.Lines[0].FinalAmount.IsZero() {
		t.Fatalf("final = %s, want 0", priced.Lines[0].FinalAmount)
	}
}

func TestPriceCartLaborBypassesDiscounts(t *testing.T) {
	engine, pricing := pricingFixture()
	pricing.tierRules["wholesale"] = []models.PricingRule{
		{ID: 1, Tier: "wholesale", PercentOff: dec("50"), Priority: 1},
	}
	customer := &models.Customer{ID: 1, Tier: "wholesale"}

	cart := &Cart{Lines: []CartLine{{
		IsLabor:    true,
		Hours:      dec("1.5"),
		HourlyRate: dec("80"),
	}}}
	priced, err := engine.PriceCart(context.Background(), nil, cart, customer)
	if err != nil {
		t.Fatalf("PriceCart: %v", err)
	}
	if !priced.Lines[0].FinalAmount.Equal(dec("120")) {
		t.Fatalf("labor amount = %s, want 120", priced.Lines[0].FinalAmount)
	}
	if !priced.Lines[0].DiscountTotal.IsZero() {
		t.Fatalf("labor should carry no discount, got %s", priced.Lines[0].DiscountTotal)
	}
}

func TestPriceCartGlobalDiscountAndCharges(t *testing.T) {
	engine, _ := pricingFixture()

	cart := &Cart{
		Lines:          []CartLine{{VariantId: 1, Qty: dec("2"), UnitPrice: dec("100")}},
		GlobalDiscount: &ManualDiscount{Type: models.DiscountTypePercentage, Value: dec("10")},
		Charges:        []Charge{{Name: "Delivery", Amount: dec("15")}},
	}
	priced, err := engine.PriceCart(context.Background(), nil, cart, nil)
	if err != nil {
		t.Fatalf("PriceCart: %v", err)
	}
	if !priced.Subtotal.Equal(dec("200")) {
		t.Fatalf("subtotal = %s, want 200", priced.Subtotal)
	}
	if !priced.GlobalDiscount.Equal(dec("20")) {
		t.Fatalf("global discount = %s, want 20", priced.GlobalDiscount)
	}
	// 200 - 20 + 15
	if !priced.DiscountedSubtotal.Equal(dec("195")) {
		t.Fatalf("discounted subtotal = %s, want 195", priced.DiscountedSubtotal)
	}
}

func TestCalculateDiscountAmountPercentPrecision(t *testing.T) {
	got := utils.CalculateDiscountAmount(decimal.NewFromInt(333), dec("7.5"), string(models.DiscountTypePercentage))
	if !got.Equal(dec("24.975")) {
		t.Fatalf("7.5%% of 333 = %s, want 24.975", got)
	}
}
