package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is an immutable, balanced set of debit/credit lines against
// accounts, tagged with a currency and the originating business document.
// Once written it is never updated; corrections are new entries.
type JournalEntry struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"index;not null" json:"business_id"`
	BranchId     int             `gorm:"index" json:"branch_id"`
	Description  string          `gorm:"size:255" json:"description"`
	CurrencyCode string          `gorm:"size:3;not null" json:"currency_code"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	RefType      string          `gorm:"size:20;index:idx_journal_ref,priority:1" json:"ref_type"`
	RefId        int             `gorm:"index:idx_journal_ref,priority:2" json:"ref_id"`
	UserId       int             `gorm:"index" json:"user_id"`

	Lines []JournalLine `gorm:"foreignKey:JournalEntryId" json:"lines"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// JournalLine is one debit or credit posting of an entry.
type JournalLine struct {
	ID             int             `gorm:"primary_key" json:"id"`
	JournalEntryId int             `gorm:"index;not null" json:"journal_entry_id"`
	AccountId      int             `gorm:"index;not null" json:"account_id"`
	Description    string          `gorm:"size:255" json:"description"`
	Debit          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debit"`
	Credit         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit"`
}

func (j *JournalEntry) GetId() int {
	return j.ID
}
