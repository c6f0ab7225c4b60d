package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateDiscountAmount(t *testing.T) {
	subTotal := decimal.NewFromInt(200)

	if got := CalculateDiscountAmount(subTotal, decimal.NewFromInt(10), "P"); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("10%% of 200 = %s, want 20", got)
	}
	if got := CalculateDiscountAmount(subTotal, decimal.NewFromInt(25), "A"); !got.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("flat 25 = %s, want 25", got)
	}
	if got := CalculateDiscountAmount(subTotal, decimal.NewFromInt(-5), "A"); !got.IsZero() {
		t.Fatalf("negative discount = %s, want 0", got)
	}
	if got := CalculateDiscountAmount(subTotal, decimal.Zero, "P"); !got.IsZero() {
		t.Fatalf("zero discount = %s, want 0", got)
	}
}

func TestInclusiveTaxAmount(t *testing.T) {
	// 110 carrying 10% inside: tax portion is exactly 10.
	got := InclusiveTaxAmount(decimal.NewFromInt(110), decimal.NewFromInt(10))
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("inclusive tax = %s, want 10", got)
	}
}

func TestExclusiveTaxAmount(t *testing.T) {
	got := ExclusiveTaxAmount(decimal.NewFromFloat(148000), decimal.NewFromInt(10))
	if !got.Equal(decimal.NewFromInt(14800)) {
		t.Fatalf("exclusive tax = %s, want 14800", got)
	}
}

func TestRoundMoney(t *testing.T) {
	got := RoundMoney(decimal.RequireFromString("24.975"))
	if !got.Equal(decimal.RequireFromString("24.98")) {
		t.Fatalf("rounded = %s, want 24.98", got)
	}
}
