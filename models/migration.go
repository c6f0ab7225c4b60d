package models

import "gorm.io/gorm"

// MigrateTables runs AutoMigrate for every table this core owns or reads.
func MigrateTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&ProductCategory{}, &ProductVariant{}, &BundleComponent{},
		&InventoryLot{}, &InventoryItem{}, &StockMovement{},
		&Account{}, &AccountBalance{},
		&JournalEntry{}, &JournalLine{},
		&Customer{}, &Employee{},
		&TaxRule{}, &Promotion{}, &PricingRule{},
		&SalesInvoice{}, &SalesInvoiceItem{}, &SalesInvoiceTax{},
		&Payment{}, &Commission{}, &Coupon{},
	)
}
