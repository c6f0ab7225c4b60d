package config

import "time"

// TenantSettings is the resolved per-tenant configuration handed to the
// commerce core. Fields are explicit and enumerated; there is no open-ended
// key/value bag. Zero values fall back to the documented defaults below.
type TenantSettings struct {
	// BaseCurrencyCode is the ISO currency every journal entry is posted in
	// unless the caller says otherwise. Default "USD".
	BaseCurrencyCode string

	// Timezone used when bucketing movement dates for reports. Default "UTC".
	Timezone string

	// FiscalYearStartMonth for reporting ranges. Default time.January.
	FiscalYearStartMonth time.Month

	// NegativeStockAllowed is intentionally absent: the inventory ledger
	// never lets a lot go below zero.

	// CommissionEnabled toggles commission logging on finalized sales.
	// Default true.
	CommissionEnabled bool

	// CouponsEnabled toggles coupon redemption. Default true.
	CouponsEnabled bool
}

// DefaultTenantSettings returns the documented defaults.
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		BaseCurrencyCode:     "USD",
		Timezone:             "UTC",
		FiscalYearStartMonth: time.January,
		CommissionEnabled:    true,
		CouponsEnabled:       true,
	}
}
