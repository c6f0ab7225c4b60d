package workflow

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
)

// StockMovementFilter narrows the export. Zero values mean "all".
type StockMovementFilter struct {
	VariantId int
	BranchId  int
	Type      models.MovementType
	From      time.Time
	To        time.Time
}

// ExportStockMovements writes the tenant's movement log as an xlsx sheet.
// Movements are append-only so the export is a faithful audit trail.
func (l *InventoryLedger) ExportStockMovements(ctx context.Context, tx *gorm.DB, filter StockMovementFilter, w io.Writer) error {
	query := tx.WithContext(ctx).Model(&models.StockMovement{}).
		Where("business_id = ?", l.tenantId).
		Order("created_at ASC, id ASC")
	if filter.VariantId > 0 {
		query = query.Where("variant_id = ?", filter.VariantId)
	}
	if filter.BranchId > 0 {
		query = query.Where("branch_id = ?", filter.BranchId)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at < ?", filter.To)
	}

	var movements []models.StockMovement
	if err := query.Find(&movements).Error; err != nil {
		return fmt.Errorf("load stock movements: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	// Add headers
	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "VariantId")
	f.SetCellValue(sheet, "C1", "BranchId")
	f.SetCellValue(sheet, "D1", "Type")
	f.SetCellValue(sheet, "E1", "QtyDelta")
	f.SetCellValue(sheet, "F1", "UnitCost")
	f.SetCellValue(sheet, "G1", "LotId")
	f.SetCellValue(sheet, "H1", "Ref")
	f.SetCellValue(sheet, "I1", "Notes")

	// Add data
	for i, m := range movements {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, m.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, "B"+row, m.VariantId)
		f.SetCellValue(sheet, "C"+row, m.BranchId)
		f.SetCellValue(sheet, "D"+row, string(m.Type))
		f.SetCellValue(sheet, "E"+row, m.QtyDelta.String())
		f.SetCellValue(sheet, "F"+row, m.UnitCost.String())
		if m.LotId != nil {
			f.SetCellValue(sheet, "G"+row, utils.DereferencePtr(m.LotId))
		}
		if m.RefType != "" {
			f.SetCellValue(sheet, "H"+row, fmt.Sprintf("%s-%d", m.RefType, m.RefId))
		}
		f.SetCellValue(sheet, "I"+row, m.Notes)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
