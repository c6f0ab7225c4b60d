package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/retail_backend/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPlanFifoDrawSpansLots(t *testing.T) {
	lots := []models.InventoryLot{
		{ID: 1, Qty: dec("50"), UnitCost: dec("1200")},
		{ID: 2, Qty: dec("30"), UnitCost: dec("1250")},
	}

	draws, available, ok := planFifoDraw(lots, dec("74"))
	if !ok {
		t.Fatalf("expected a plan, got shortfall with available %s", available)
	}
	if len(draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(draws))
	}
	if !draws[0].qty.Equal(dec("50")) || !draws[0].unitCost.Equal(dec("1200")) {
		t.Fatalf("first draw = %s @ %s, want 50 @ 1200", draws[0].qty, draws[0].unitCost)
	}
	if !draws[1].qty.Equal(dec("24")) || !draws[1].unitCost.Equal(dec("1250")) {
		t.Fatalf("second draw = %s @ %s, want 24 @ 1250", draws[1].qty, draws[1].unitCost)
	}
	if !draws[0].remaining.IsZero() {
		t.Fatalf("first lot should be depleted, remaining %s", draws[0].remaining)
	}
	if !draws[1].remaining.Equal(dec("6")) {
		t.Fatalf("second lot remaining = %s, want 6", draws[1].remaining)
	}

	cost := decimal.Zero
	for _, d := range draws {
		cost = cost.Add(d.qty.Mul(d.unitCost))
	}
	if !cost.Equal(dec("90000")) {
		t.Fatalf("total cost = %s, want 90000", cost)
	}
}

func TestPlanFifoDrawShortfallAppliesNothing(t *testing.T) {
	lots := []models.InventoryLot{
		{ID: 1, Qty: dec("3"), UnitCost: dec("10")},
		{ID: 2, Qty: dec("2"), UnitCost: dec("12")},
	}

	draws, available, ok := planFifoDraw(lots, dec("6"))
	if ok {
		t.Fatalf("expected shortfall, got %d draws", len(draws))
	}
	if !available.Equal(dec("5")) {
		t.Fatalf("available = %s, want 5", available)
	}
}

func TestPlanFifoDrawZeroRequestIsNotShortfall(t *testing.T) {
	lots := []models.InventoryLot{
		{ID: 1, Qty: dec("10"), UnitCost: dec("10")},
	}

	draws, available, ok := planFifoDraw(lots, decimal.Zero)
	if !ok {
		t.Fatalf("zero request reported as shortfall, available %s", available)
	}
	if len(draws) != 0 {
		t.Fatalf("expected no draws, got %d", len(draws))
	}
	if !available.Equal(dec("10")) {
		t.Fatalf("available = %s, want 10", available)
	}
}

func TestPlanFifoDrawExactDepletion(t *testing.T) {
	lots := []models.InventoryLot{
		{ID: 7, Qty: dec("4"), UnitCost: dec("99")},
	}

	draws, _, ok := planFifoDraw(lots, dec("4"))
	if !ok || len(draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(draws))
	}
	if !draws[0].remaining.IsZero() {
		t.Fatalf("lot should hit zero, remaining %s", draws[0].remaining)
	}
}

func bundleCatalog() *fakeCatalog {
	return &fakeCatalog{variants: map[int]*models.ProductVariant{
		10: {ID: 10, Kind: models.VariantKindBundle, BundleComponents: []models.BundleComponent{
			{BundleVariantId: 10, ComponentVariantId: 11, Qty: dec("1")},
			{BundleVariantId: 10, ComponentVariantId: 12, Qty: dec("2")},
			{BundleVariantId: 10, ComponentVariantId: 13, Qty: dec("1")},
		}},
		11: {ID: 11, Kind: models.VariantKindNonSerialized},
		12: {ID: 12, Kind: models.VariantKindNonSerialized},
		13: {ID: 13, Kind: models.VariantKindService},
	}}
}

func TestExpandBundleScalesComponents(t *testing.T) {
	ledger := NewInventoryLedger("biz-1", bundleCatalog(), nil)
	bundle, _ := ledger.catalog.VariantById(context.Background(), nil, 10)

	reqs, err := ledger.expandBundle(context.Background(), nil, bundle, dec("2"), map[int]bool{})
	if err != nil {
		t.Fatalf("expandBundle: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 leaf requirements (service skipped), got %d", len(reqs))
	}
	if reqs[0].variant.ID != 11 || !reqs[0].qty.Equal(dec("2")) {
		t.Fatalf("component 11 qty = %s, want 2", reqs[0].qty)
	}
	if reqs[1].variant.ID != 12 || !reqs[1].qty.Equal(dec("4")) {
		t.Fatalf("component 12 qty = %s, want 4", reqs[1].qty)
	}
}

func TestExpandBundleNested(t *testing.T) {
	catalog := &fakeCatalog{variants: map[int]*models.ProductVariant{
		20: {ID: 20, Kind: models.VariantKindBundle, BundleComponents: []models.BundleComponent{
			{BundleVariantId: 20, ComponentVariantId: 21, Qty: dec("2")},
		}},
		21: {ID: 21, Kind: models.VariantKindBundle, BundleComponents: []models.BundleComponent{
			{BundleVariantId: 21, ComponentVariantId: 22, Qty: dec("3")},
		}},
		22: {ID: 22, Kind: models.VariantKindNonSerialized},
	}}
	ledger := NewInventoryLedger("biz-1", catalog, nil)
	bundle, _ := catalog.VariantById(context.Background(), nil, 20)

	reqs, err := ledger.expandBundle(context.Background(), nil, bundle, dec("1"), map[int]bool{})
	if err != nil {
		t.Fatalf("expandBundle: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("expected 1 leaf requirement, got %d", len(reqs))
	}
	if reqs[0].variant.ID != 22 || !reqs[0].qty.Equal(dec("6")) {
		t.Fatalf("leaf 22 qty = %s, want 6", reqs[0].qty)
	}
}

func TestExpandBundleDetectsCycle(t *testing.T) {
	catalog := &fakeCatalog{variants: map[int]*models.ProductVariant{
		30: {ID: 30, Kind: models.VariantKindBundle, BundleComponents: []models.BundleComponent{
			{BundleVariantId: 30, ComponentVariantId: 31, Qty: dec("1")},
		}},
		31: {ID: 31, Kind: models.VariantKindBundle, BundleComponents: []models.BundleComponent{
			{BundleVariantId: 31, ComponentVariantId: 30, Qty: dec("1")},
		}},
	}}
	ledger := NewInventoryLedger("biz-1", catalog, nil)
	bundle, _ := catalog.VariantById(context.Background(), nil, 30)

	_, err := ledger.expandBundle(context.Background(), nil, bundle, dec("1"), map[int]bool{})
	var cyclic *CyclicBundleError
	if !errors.As(err, &cyclic) {
		t.Fatalf("expected CyclicBundleError, got %v", err)
	}
}

func TestExpandBundleEmptyRecipe(t *testing.T) {
	catalog := &fakeCatalog{variants: map[int]*models.ProductVariant{
		40: {ID: 40, Kind: models.VariantKindBundle},
	}}
	ledger := NewInventoryLedger("biz-1", catalog, nil)
	bundle, _ := catalog.VariantById(context.Background(), nil, 40)

	_, err := ledger.expandBundle(context.Background(), nil, bundle, dec("1"), map[int]bool{})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func zeroQtyComponentCatalog() *fakeCatalog {
	return &fakeCatalog{variants: map[int]*models.ProductVariant{
		50: {ID: 50, Kind: models.VariantKindBundle, BundleComponents: []models.BundleComponent{
			{BundleVariantId: 50, ComponentVariantId: 51, Qty: decimal.Zero},
		}},
		51: {ID: 51, Kind: models.VariantKindNonSerialized},
	}}
}

func TestExpandBundleRejectsZeroQtyComponent(t *testing.T) {
	catalog := zeroQtyComponentCatalog()
	ledger := NewInventoryLedger("biz-1", catalog, nil)
	bundle, _ := catalog.VariantById(context.Background(), nil, 50)

	_, err := ledger.expandBundle(context.Background(), nil, bundle, dec("1"), map[int]bool{})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected validation error for zero-qty component, got %v", err)
	}
}

func TestAvailabilityRejectsZeroQtyComponent(t *testing.T) {
	catalog := zeroQtyComponentCatalog()
	ledger := NewInventoryLedger("biz-1", catalog, nil)
	bundle, _ := catalog.VariantById(context.Background(), nil, 50)

	_, err := ledger.availableForVariant(context.Background(), nil, bundle, 1, map[int]bool{})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected validation error for zero-qty component, got %v", err)
	}
}
