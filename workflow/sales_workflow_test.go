package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"

	"bitbucket.org/mmdatafocus/retail_backend/models"
)

func creditFixture(balance string, limit string) (*SalesTransactionCoordinator, *models.Customer) {
	accounts := &fakeAccounts{byId: map[int]*models.Account{
		7: {ID: 7, MainType: models.AccountMainTypeAsset, Balances: []models.AccountBalance{
			{AccountId: 7, CurrencyCode: "USD", Balance: dec(balance)},
		}},
	}}
	coordinator := &SalesTransactionCoordinator{
		tenantId: "biz-1",
		accounts: accounts,
	}
	customer := &models.Customer{ID: 1, CreditLimit: dec(limit), ReceivableAccountId: 7}
	return coordinator, customer
}

func TestCreditCheckFullPaymentSkipsLimit(t *testing.T) {
	coordinator, customer := creditFixture("900", "0")
	cart := &Cart{CurrencyCode: "USD"}

	err := coordinator.checkCreditLimit(context.Background(), nil, cart, customer, dec("250"), dec("250"))
	if err != nil {
		t.Fatalf("fully paid sale should ignore the credit limit: %v", err)
	}
}

func TestCreditCheckZeroLimitBlocksCredit(t *testing.T) {
	coordinator, customer := creditFixture("0", "0")
	cart := &Cart{CurrencyCode: "USD"}

	err := coordinator.checkCreditLimit(context.Background(), nil, cart, customer, dec("250"), dec("100"))
	var exceeded *CreditLimitExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("expected CreditLimitExceededError, got %v", err)
	}
	if !exceeded.Due.Equal(dec("150")) {
		t.Fatalf("due = %s, want 150", exceeded.Due)
	}
}

func TestCreditCheckWithinLimit(t *testing.T) {
	coordinator, customer := creditFixture("300", "500")
	cart := &Cart{CurrencyCode: "USD"}

	// 300 outstanding + 200 due = 500, exactly at the limit.
	err := coordinator.checkCreditLimit(context.Background(), nil, cart, customer, dec("200"), dec("0"))
	if err != nil {
		t.Fatalf("at-limit sale should pass: %v", err)
	}
}

func TestCreditCheckOverLimit(t *testing.T) {
	coordinator, customer := creditFixture("300", "500")
	cart := &Cart{CurrencyCode: "USD"}

	err := coordinator.checkCreditLimit(context.Background(), nil, cart, customer, dec("200.01"), dec("0"))
	var exceeded *CreditLimitExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("expected CreditLimitExceededError, got %v", err)
	}
	if !exceeded.Balance.Equal(dec("300")) || !exceeded.Limit.Equal(dec("500")) {
		t.Fatalf("error carries balance %s limit %s", exceeded.Balance, exceeded.Limit)
	}
}

func TestCreditCheckUsesSaleCurrency(t *testing.T) {
	coordinator, customer := creditFixture("450", "500")
	// The receivable has no EUR balance row, so EUR exposure starts at zero.
	cart := &Cart{CurrencyCode: "EUR"}

	err := coordinator.checkCreditLimit(context.Background(), nil, cart, customer, dec("400"), dec("0"))
	if err != nil {
		t.Fatalf("per-currency balance should be zero for EUR: %v", err)
	}
}

func TestValidateCartRejectsBadShapes(t *testing.T) {
	validate := validator.New()

	cases := []struct {
		name string
		cart *Cart
	}{
		{"nil cart", nil},
		{"no lines", &Cart{CustomerId: 1, BranchId: 1, UserId: 1, CurrencyCode: "USD"}},
		{"zero qty", &Cart{CustomerId: 1, BranchId: 1, UserId: 1, CurrencyCode: "USD",
			Lines: []CartLine{{VariantId: 1, Qty: dec("0"), UnitPrice: dec("10")}}}},
		{"negative price", &Cart{CustomerId: 1, BranchId: 1, UserId: 1, CurrencyCode: "USD",
			Lines: []CartLine{{VariantId: 1, Qty: dec("1"), UnitPrice: dec("-5")}}}},
		{"labor without hours", &Cart{CustomerId: 1, BranchId: 1, UserId: 1, CurrencyCode: "USD",
			Lines: []CartLine{{IsLabor: true, Hours: dec("0"), HourlyRate: dec("50")}}}},
		{"bad currency", &Cart{CustomerId: 1, BranchId: 1, UserId: 1, CurrencyCode: "US",
			Lines: []CartLine{{VariantId: 1, Qty: dec("1"), UnitPrice: dec("10")}}}},
		{"negative payment", &Cart{CustomerId: 1, BranchId: 1, UserId: 1, CurrencyCode: "USD",
			Lines:    []CartLine{{VariantId: 1, Qty: dec("1"), UnitPrice: dec("10")}},
			Payments: []PaymentLine{{Method: "cash", Amount: dec("-1")}}}},
	}

	for _, tc := range cases {
		if err := validateCart(validate, tc.cart); !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("%s: expected validation failure, got %v", tc.name, err)
		}
	}
}

func TestSaleTotalsInclusiveTaxStaysInsideBase(t *testing.T) {
	// A line priced 110 under a single 10% inclusive rule: the customer
	// pays 110, revenue is 100 and 10 goes to the tax account.
	totals := computeSaleTotals(dec("110"), []TaxBreakdownEntry{
		{RuleName: "VAT 10%", Rate: dec("10"), Amount: dec("10"), AccountId: 5, IsInclusive: true},
	})
	if !totals.GrandTotal.Equal(dec("110")) {
		t.Fatalf("grand total = %s, want 110", totals.GrandTotal)
	}
	if !totals.TaxTotal.Equal(dec("10")) {
		t.Fatalf("tax total = %s, want 10", totals.TaxTotal)
	}
	if !totals.NetRevenue.Equal(dec("100")) {
		t.Fatalf("net revenue = %s, want 100", totals.NetRevenue)
	}
}

func TestSaleTotalsExclusiveTaxAddsOnTop(t *testing.T) {
	totals := computeSaleTotals(dec("100"), []TaxBreakdownEntry{
		{RuleName: "GST 10%", Rate: dec("10"), Amount: dec("10"), AccountId: 5},
	})
	if !totals.GrandTotal.Equal(dec("110")) {
		t.Fatalf("grand total = %s, want 110", totals.GrandTotal)
	}
	if !totals.NetRevenue.Equal(dec("100")) {
		t.Fatalf("net revenue = %s, want 100", totals.NetRevenue)
	}
}

func TestSaleTotalsMixedRulesBalanceTheJournal(t *testing.T) {
	totals := computeSaleTotals(dec("110"), []TaxBreakdownEntry{
		{RuleName: "VAT 10%", Rate: dec("10"), Amount: dec("10"), AccountId: 5, IsInclusive: true},
		{RuleName: "Levy 5%", Rate: dec("5"), Amount: dec("5.5"), AccountId: 6},
	})
	if !totals.GrandTotal.Equal(dec("115.5")) {
		t.Fatalf("grand total = %s, want 115.5", totals.GrandTotal)
	}
	if !totals.TaxTotal.Equal(dec("15.5")) {
		t.Fatalf("tax total = %s, want 15.5", totals.TaxTotal)
	}
	if !totals.NetRevenue.Equal(dec("100")) {
		t.Fatalf("net revenue = %s, want 100", totals.NetRevenue)
	}

	// Debit equals the sum of credits: revenue plus every tax row.
	credits := totals.NetRevenue
	for _, entry := range totals.Breakdown {
		credits = credits.Add(entry.Amount)
	}
	if !credits.Equal(totals.GrandTotal) {
		t.Fatalf("credits %s do not match the receivable debit %s", credits, totals.GrandTotal)
	}
}

func TestSaleTotalsRoundsBreakdownRows(t *testing.T) {
	totals := computeSaleTotals(dec("100"), []TaxBreakdownEntry{
		{RuleName: "GST 7%", Rate: dec("7"), Amount: dec("7.0049"), AccountId: 5},
	})
	if !totals.Breakdown[0].Amount.Equal(dec("7.00")) {
		t.Fatalf("rounded row = %s, want 7.00", totals.Breakdown[0].Amount)
	}
	if !totals.GrandTotal.Equal(dec("107.00")) {
		t.Fatalf("grand total = %s, want 107.00", totals.GrandTotal)
	}
}

func TestValidateCartAcceptsLaborOnly(t *testing.T) {
	validate := validator.New()
	cart := &Cart{
		CustomerId:   1,
		BranchId:     1,
		UserId:       1,
		CurrencyCode: "USD",
		Lines:        []CartLine{{IsLabor: true, Hours: dec("2"), HourlyRate: dec("60")}},
	}
	if err := validateCart(validate, cart); err != nil {
		t.Fatalf("labor-only cart rejected: %v", err)
	}
}
