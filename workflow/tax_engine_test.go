package workflow

import (
	"context"
	"testing"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
)

func TestResolveTaxesCompoundStacksOnPriorTax(t *testing.T) {
	rules := &fakeTaxRules{byCategory: map[int][]models.TaxRule{
		1: {
			{ID: 1, Name: "GST", Rate: dec("10"), Priority: 1, IsCompound: utils.NewFalse(), IsInclusive: utils.NewFalse(), AccountId: 101},
			{ID: 2, Name: "PST", Rate: dec("5"), Priority: 2, IsCompound: utils.NewTrue(), IsInclusive: utils.NewFalse(), AccountId: 102},
		},
	}}
	engine := NewTaxEngine("biz-1", rules, nil)

	result, err := engine.ResolveTaxes(context.Background(), nil, 1, []TaxLineInput{
		{TaxCategoryId: 1, Amount: dec("100")},
	})
	if err != nil {
		t.Fatalf("ResolveTaxes: %v", err)
	}
	if len(result.Breakdown) != 2 {
		t.Fatalf("expected 2 breakdown rows, got %d", len(result.Breakdown))
	}
	if !result.Breakdown[0].Amount.Equal(dec("10")) {
		t.Fatalf("GST = %s, want 10", result.Breakdown[0].Amount)
	}
	// Compound 5% applies to 110, not 100.
	if !result.Breakdown[1].Amount.Equal(dec("5.5")) {
		t.Fatalf("PST = %s, want 5.5", result.Breakdown[1].Amount)
	}
	if !result.Total.Equal(dec("15.5")) {
		t.Fatalf("total = %s, want 15.5", result.Total)
	}
}

func TestResolveTaxesInclusiveBacksOut(t *testing.T) {
	rules := &fakeTaxRules{byCategory: map[int][]models.TaxRule{
		2: {
			{ID: 3, Name: "VAT", Rate: dec("10"), Priority: 1, IsCompound: utils.NewFalse(), IsInclusive: utils.NewTrue(), AccountId: 103},
		},
	}}
	engine := NewTaxEngine("biz-1", rules, nil)

	result, err := engine.ResolveTaxes(context.Background(), nil, 1, []TaxLineInput{
		{TaxCategoryId: 2, Amount: dec("110")},
	})
	if err != nil {
		t.Fatalf("ResolveTaxes: %v", err)
	}
	// 110 inclusive of 10% means 10 of tax inside the price.
	if !result.Total.Equal(dec("10")) {
		t.Fatalf("inclusive tax = %s, want 10", result.Total)
	}
	if len(result.Breakdown) != 1 || !result.Breakdown[0].IsInclusive {
		t.Fatalf("breakdown should mark the row inclusive: %+v", result.Breakdown)
	}
}

func TestResolveTaxesAccumulatesSameRuleAcrossLines(t *testing.T) {
	rules := &fakeTaxRules{byCategory: map[int][]models.TaxRule{
		1: {
			{ID: 1, Name: "GST", Rate: dec("10"), Priority: 1, IsCompound: utils.NewFalse(), IsInclusive: utils.NewFalse(), AccountId: 101},
		},
	}}
	engine := NewTaxEngine("biz-1", rules, nil)

	result, err := engine.ResolveTaxes(context.Background(), nil, 1, []TaxLineInput{
		{TaxCategoryId: 1, Amount: dec("100")},
		{TaxCategoryId: 1, Amount: dec("50")},
	})
	if err != nil {
		t.Fatalf("ResolveTaxes: %v", err)
	}
	if len(result.Breakdown) != 1 {
		t.Fatalf("expected one combined row, got %d", len(result.Breakdown))
	}
	if !result.Breakdown[0].Amount.Equal(dec("15")) {
		t.Fatalf("combined GST = %s, want 15", result.Breakdown[0].Amount)
	}
}

func TestResolveTaxesNoRulesMeansZero(t *testing.T) {
	engine := NewTaxEngine("biz-1", &fakeTaxRules{byCategory: map[int][]models.TaxRule{}}, nil)

	result, err := engine.ResolveTaxes(context.Background(), nil, 1, []TaxLineInput{
		{TaxCategoryId: 9, Amount: dec("100")},
	})
	if err != nil {
		t.Fatalf("ResolveTaxes: %v", err)
	}
	if !result.Total.IsZero() {
		t.Fatalf("total = %s, want 0", result.Total)
	}
	if len(result.Breakdown) != 0 {
		t.Fatalf("expected empty breakdown, got %d rows", len(result.Breakdown))
	}
}
