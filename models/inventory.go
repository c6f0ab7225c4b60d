package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryLot is a cost-homogeneous batch of a non-serialized variant at a
// branch. Created on receipt; only the ledger mutates its quantity. Sales
// never own a lot, they only record which lot they drew from.
//
// FIFO consumption order is created_at ASC, id ASC. The id tie-break makes
// selection deterministic when two lots share a creation timestamp.
type InventoryLot struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"index:idx_lot_biz_variant_branch,priority:1;not null" json:"business_id"`
	VariantId   int             `gorm:"index:idx_lot_biz_variant_branch,priority:2;not null" json:"variant_id"`
	BranchId    int             `gorm:"index:idx_lot_biz_variant_branch,priority:3;not null" json:"branch_id"`
	Qty         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	BatchNumber string          `gorm:"size:100" json:"batch_number"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// InventoryItem is one physical unit of a serialized variant, tracked by
// serial number through its status lifecycle. Never deleted; a sold unit
// remains as the historical record of what left the building.
type InventoryItem struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"uniqueIndex:idx_item_biz_serial,priority:1;not null" json:"business_id"`
	VariantId    int             `gorm:"index;not null" json:"variant_id"`
	BranchId     int             `gorm:"index;not null" json:"branch_id"`
	SerialNumber string          `gorm:"uniqueIndex:idx_item_biz_serial,priority:2;size:100;not null" json:"serial_number"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	Status       ItemStatus      `gorm:"type:enum('in_stock','reserved','in_transit','sold');default:'in_stock';index;not null" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// StockMovement is the append-only audit record of every quantity change.
// The system of record for "why does this number look like this".
type StockMovement struct {
	ID            string          `gorm:"size:36;primary_key" json:"id"` // uuid
	BusinessId    string          `gorm:"index:idx_move_biz_variant,priority:1;not null" json:"business_id"`
	VariantId     int             `gorm:"index:idx_move_biz_variant,priority:2;not null" json:"variant_id"`
	BranchId      int             `gorm:"index;not null" json:"branch_id"`
	Type          MovementType    `gorm:"type:enum('purchase','sale','adjustment','transfer_out','transfer_in','assembly');not null" json:"type"`
	QtyDelta      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty_delta"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	LotId         *int            `gorm:"index" json:"lot_id"`
	ItemId        *int            `gorm:"index" json:"item_id"`
	UserId        int             `gorm:"index" json:"user_id"`
	RefType       string          `gorm:"size:20;index:idx_move_ref,priority:1" json:"ref_type"` // e.g. IV, TO, ADJ
	RefId         int             `gorm:"index:idx_move_ref,priority:2" json:"ref_id"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CorrelationId string          `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// BeforeCreate assigns the uuid primary key. Movements are append-only; there
// is no update path to hook.
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	_ = tx
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
