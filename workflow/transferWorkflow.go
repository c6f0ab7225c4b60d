package workflow

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bitbucket.org/mmdatafocus/retail_backend/models"
)

// Branch-to-branch transfers. Dispatch drains the source branch and parks
// serialized units in_transit; receive lands them at the destination.
// Serialized units keep their identity across the move: receive updates the
// existing row's branch and status, it never creates a new unit.

type DispatchTransferInput struct {
	VariantId      int
	SourceBranchId int
	Qty            decimal.Decimal
	SerialNumbers  []string
	RefType        string
	RefId          int
	UserId         int
	Notes          string
}

// CostLayer is one cost-homogeneous slice of dispatched stock. Receive
// recreates one lot per layer at the destination so the cost basis survives
// the move.
type CostLayer struct {
	Qty         decimal.Decimal
	UnitCost    decimal.Decimal
	BatchNumber string
}

type DispatchResult struct {
	Layers        []CostLayer
	SerialNumbers []string
	MovementIds   []string
}

// DispatchTransfer decreases stock at the source branch: serial-by-serial for
// serialized variants, FIFO over lots for non-serialized.
func (l *InventoryLedger) DispatchTransfer(ctx context.Context, tx *gorm.DB, in DispatchTransferInput) (*DispatchResult, error) {
	variant, err := l.catalog.VariantById(ctx, tx, in.VariantId)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{}
	switch variant.Kind {
	case models.VariantKindSerialized:
		if len(in.SerialNumbers) == 0 {
			return nil, fmt.Errorf("%w: serialized transfer requires explicit serials", ErrValidationFailed)
		}
		for _, serial := range in.SerialNumbers {
			res, err := l.DecreaseStock(ctx, tx, DecreaseStockInput{
				VariantId:    in.VariantId,
				BranchId:     in.SourceBranchId,
				Qty:          decimal.NewFromInt(1),
				SerialNumber: serial,
				Type:         models.MovementTypeTransferOut,
				RefType:      in.RefType,
				RefId:        in.RefId,
				UserId:       in.UserId,
				Notes:        in.Notes,
			})
			if err != nil {
				return nil, err
			}
			result.SerialNumbers = append(result.SerialNumbers, serial)
			result.MovementIds = append(result.MovementIds, res.movementIds()...)
		}
		return result, nil

	case models.VariantKindNonSerialized:
		res, err := l.DecreaseStock(ctx, tx, DecreaseStockInput{
			VariantId: in.VariantId,
			BranchId:  in.SourceBranchId,
			Qty:       in.Qty,
			Type:      models.MovementTypeTransferOut,
			RefType:   in.RefType,
			RefId:     in.RefId,
			UserId:    in.UserId,
			Notes:     in.Notes,
		})
		if err != nil {
			return nil, err
		}
		for _, consumption := range res.Consumptions {
			batch := ""
			if consumption.LotId != nil {
				var lot models.InventoryLot
				if err := tx.WithContext(ctx).First(&lot, *consumption.LotId).Error; err == nil {
					batch = lot.BatchNumber
				}
			}
			result.Layers = append(result.Layers, CostLayer{
				Qty:         consumption.Qty,
				UnitCost:    consumption.UnitCost,
				BatchNumber: batch,
			})
		}
		result.MovementIds = res.movementIds()
		return result, nil

	default:
		return nil, fmt.Errorf("%w: cannot transfer %s variant %d", ErrValidationFailed, variant.Kind, in.VariantId)
	}
}

type ReceiveTransferInput struct {
	VariantId     int
	DestBranchId  int
	SerialNumbers []string
	Layers        []CostLayer
	RefType       string
	RefId         int
	UserId        int
	Notes         string
}

// ReceiveTransfer lands dispatched stock at the destination branch.
func (l *InventoryLedger) ReceiveTransfer(ctx context.Context, tx *gorm.DB, in ReceiveTransferInput) error {
	variant, err := l.catalog.VariantById(ctx, tx, in.VariantId)
	if err != nil {
		return err
	}

	switch variant.Kind {
	case models.VariantKindSerialized:
		for _, serial := range in.SerialNumbers {
			var item models.InventoryItem
			err := tx.WithContext(ctx).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("business_id = ? AND serial_number = ?", l.tenantId, serial).
				First(&item).Error
			if err != nil {
				return fmt.Errorf("serialized item %s: %w", serial, err)
			}
			if item.Status != models.ItemStatusInTransit {
				return &ItemNotAvailableError{SerialNumber: serial, Status: item.Status}
			}
			if err := tx.WithContext(ctx).Model(&item).Updates(map[string]interface{}{
				"branch_id": in.DestBranchId,
				"status":    models.ItemStatusInStock,
			}).Error; err != nil {
				return fmt.Errorf("receive item %s: %w", serial, err)
			}
			itemId := item.ID
			if err := l.appendMovement(ctx, tx, movementInput{
				variantId: in.VariantId, branchId: in.DestBranchId,
				movementType: models.MovementTypeTransferIn,
				qtyDelta:     decimal.NewFromInt(1), unitCost: item.UnitCost, itemId: &itemId,
				refType: in.RefType, refId: in.RefId, userId: in.UserId, notes: in.Notes,
			}); err != nil {
				return err
			}
		}
		return nil

	case models.VariantKindNonSerialized:
		for _, layer := range in.Layers {
			lot, err := l.findOrCreateLot(ctx, tx, in.VariantId, in.DestBranchId, layer.UnitCost, layer.BatchNumber)
			if err != nil {
				return err
			}
			if err := tx.WithContext(ctx).Model(lot).
				Update("qty", gorm.Expr("qty + ?", layer.Qty)).Error; err != nil {
				return fmt.Errorf("receive into lot %d: %w", lot.ID, err)
			}
			lotId := lot.ID
			if err := l.appendMovement(ctx, tx, movementInput{
				variantId: in.VariantId, branchId: in.DestBranchId,
				movementType: models.MovementTypeTransferIn,
				qtyDelta:     layer.Qty, unitCost: layer.UnitCost, lotId: &lotId,
				refType: in.RefType, refId: in.RefId, userId: in.UserId, notes: in.Notes,
			}); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: cannot transfer %s variant %d", ErrValidationFailed, variant.Kind, in.VariantId)
	}
}
