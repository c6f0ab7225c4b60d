package workflow

import (
	"errors"
	"testing"
)

func TestValidateBalancedAccepts(t *testing.T) {
	lines := []JournalLineInput{
		{AccountId: 1, Debit: dec("590")},
		{AccountId: 2, Credit: dec("500")},
		{AccountId: 3, Credit: dec("90")},
	}
	if err := validateBalanced(lines, "USD"); err != nil {
		t.Fatalf("balanced entry rejected: %v", err)
	}
}

func TestValidateBalancedRejects(t *testing.T) {
	lines := []JournalLineInput{
		{AccountId: 1, Debit: dec("100")},
		{AccountId: 2, Credit: dec("99.98")},
	}
	err := validateBalanced(lines, "USD")
	var unbalanced *UnbalancedEntryError
	if !errors.As(err, &unbalanced) {
		t.Fatalf("expected UnbalancedEntryError, got %v", err)
	}
	if !unbalanced.Debits.Equal(dec("100")) || !unbalanced.Credits.Equal(dec("99.98")) {
		t.Fatalf("error totals = %s / %s", unbalanced.Debits, unbalanced.Credits)
	}
	if unbalanced.CurrencyCode != "USD" {
		t.Fatalf("currency = %s, want USD", unbalanced.CurrencyCode)
	}
}

func TestValidateBalancedComparesAtTwoPlaces(t *testing.T) {
	// Sub-cent residue from unrounded inputs must not fail the entry.
	lines := []JournalLineInput{
		{AccountId: 1, Debit: dec("100.0009")},
		{AccountId: 2, Credit: dec("100.0012")},
	}
	if err := validateBalanced(lines, "USD"); err != nil {
		t.Fatalf("2dp-equal entry rejected: %v", err)
	}
}

func TestValidateBalancedEmptyEntry(t *testing.T) {
	// Zero debits and zero credits are equal; the line-count check lives in
	// CreateJournalEntry, not here.
	if err := validateBalanced(nil, "USD"); err != nil {
		t.Fatalf("empty line set rejected: %v", err)
	}
}
