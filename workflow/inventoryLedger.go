package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
)

// InventoryLedger is the sole authority for stock quantity and cost.
// Every mutation goes through the caller's transaction and appends a
// StockMovement; nothing here commits.
type InventoryLedger struct {
	tenantId string
	catalog  Catalog
	logger   *logrus.Logger
}

func NewInventoryLedger(tenantId string, catalog Catalog, logger *logrus.Logger) *InventoryLedger {
	return &InventoryLedger{tenantId: tenantId, catalog: catalog, logger: logger}
}

type IncreaseStockInput struct {
	VariantId   int
	BranchId    int
	Qty         decimal.Decimal
	UnitCost    decimal.Decimal
	BatchNumber string
	Serials     []string
	Type        models.MovementType
	RefType     string
	RefId       int
	UserId      int
	Notes       string
}

type DecreaseStockInput struct {
	VariantId    int
	BranchId     int
	Qty          decimal.Decimal
	SerialNumber string
	Type         models.MovementType
	RefType      string
	RefId        int
	UserId       int
	Notes        string

	// AllowAutoSerial lets a serialized decrease without an explicit
	// serial take the oldest units on hand. Set on bundle, required-part
	// and adjustment paths; a direct serialized sale must name its unit.
	AllowAutoSerial bool
}

// Consumption is one lot draw or serialized unit consumed by a decrease.
type Consumption struct {
	VariantId    int
	LotId        *int
	ItemId       *int
	SerialNumber string
	Qty          decimal.Decimal
	UnitCost     decimal.Decimal
	MovementId   string
	LotDepleted  bool
}

// DeductionResult carries the accumulated cost of goods sold and the audit
// linkage of everything a decrease consumed.
type DeductionResult struct {
	Cost         decimal.Decimal
	Consumptions []Consumption
}

func (r *DeductionResult) movementIds() []string {
	ids := make([]string, 0, len(r.Consumptions))
	for _, c := range r.Consumptions {
		ids = append(ids, c.MovementId)
	}
	return ids
}

// IncreaseStock receives quantity into a branch. Non-serialized variants find
// or create the lot matching (variant, branch, cost, batch) and increment it;
// serialized variants require one serial per unit and create one
// InventoryItem each.
func (l *InventoryLedger) IncreaseStock(ctx context.Context, tx *gorm.DB, in IncreaseStockInput) error {
	if !in.Qty.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: increase quantity must be positive", ErrValidationFailed)
	}
	if in.Type == "" {
		in.Type = models.MovementTypePurchase
	}

	variant, err := l.catalog.VariantById(ctx, tx, in.VariantId)
	if err != nil {
		return err
	}

	switch variant.Kind {
	case models.VariantKindSerialized:
		if int64(len(in.Serials)) != in.Qty.IntPart() || !in.Qty.Equal(decimal.NewFromInt(in.Qty.IntPart())) {
			return &QuantityMismatchError{Requested: in.Qty, SerialCount: len(in.Serials)}
		}
		for _, serial := range in.Serials {
			item := models.InventoryItem{
				BusinessId:   l.tenantId,
				VariantId:    in.VariantId,
				BranchId:     in.BranchId,
				SerialNumber: serial,
				UnitCost:     in.UnitCost,
				Status:       models.ItemStatusInStock,
			}
			if err := tx.WithContext(ctx).Create(&item).Error; err != nil {
				return fmt.Errorf("create inventory item %s: %w", serial, err)
			}
			if err := l.appendMovement(ctx, tx, movementInput{
				variantId: in.VariantId, branchId: in.BranchId, movementType: in.Type,
				qtyDelta: decimal.NewFromInt(1), unitCost: in.UnitCost, itemId: &item.ID,
				refType: in.RefType, refId: in.RefId, userId: in.UserId, notes: in.Notes,
			}); err != nil {
				return err
			}
		}
		return nil

	case models.VariantKindNonSerialized:
		lot, err := l.findOrCreateLot(ctx, tx, in.VariantId, in.BranchId, in.UnitCost, in.BatchNumber)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Model(lot).
			Update("qty", gorm.Expr("qty + ?", in.Qty)).Error; err != nil {
			return fmt.Errorf("increment lot %d: %w", lot.ID, err)
		}
		return l.appendMovement(ctx, tx, movementInput{
			variantId: in.VariantId, branchId: in.BranchId, movementType: in.Type,
			qtyDelta: in.Qty, unitCost: in.UnitCost, lotId: &lot.ID,
			refType: in.RefType, refId: in.RefId, userId: in.UserId, notes: in.Notes,
		})

	default:
		return fmt.Errorf("%w: cannot receive stock for %s variant %d", ErrValidationFailed, variant.Kind, in.VariantId)
	}
}

// DecreaseStock consumes quantity from a branch and reports its cost.
// Bundles decompose recursively into their recipe before any deduction, so a
// partial bundle never leaves the building. Non-serialized stock drains lots
// FIFO; serialized stock requires an explicit serial in in_stock status.
func (l *InventoryLedger) DecreaseStock(ctx context.Context, tx *gorm.DB, in DecreaseStockInput) (*DeductionResult, error) {
	if !in.Qty.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: decrease quantity must be positive", ErrValidationFailed)
	}
	if in.Type == "" {
		in.Type = models.MovementTypeSale
	}

	variant, err := l.catalog.VariantById(ctx, tx, in.VariantId)
	if err != nil {
		return nil, err
	}

	if variant.Kind == models.VariantKindBundle {
		return l.decreaseBundle(ctx, tx, variant, in)
	}
	return l.decreaseLeaf(ctx, tx, variant, in)
}

func (l *InventoryLedger) decreaseBundle(ctx context.Context, tx *gorm.DB, bundle *models.ProductVariant, in DecreaseStockInput) (*DeductionResult, error) {
	requirements, err := l.expandBundle(ctx, tx, bundle, in.Qty, map[int]bool{})
	if err != nil {
		return nil, err
	}

	result := &DeductionResult{Cost: decimal.Zero}
	for _, req := range requirements {
		leafIn := in
		leafIn.VariantId = req.variant.ID
		leafIn.Qty = req.qty
		leafIn.SerialNumber = ""
		leafIn.AllowAutoSerial = true
		if in.Type == models.MovementTypeSale {
			leafIn.Type = models.MovementTypeAssembly
		}
		leafResult, err := l.decreaseLeaf(ctx, tx, req.variant, leafIn)
		if err != nil {
			var short *InsufficientStockError
			if errors.As(err, &short) {
				return nil, &InsufficientStockError{
					VariantId: bundle.ID,
					BranchId:  in.BranchId,
					Requested: in.Qty,
					Available: decimal.Zero,
					IsBundle:  true,
					Components: []ComponentShortfall{{
						VariantId: short.VariantId,
						Requested: short.Requested,
						Available: short.Available,
					}},
				}
			}
			return nil, err
		}
		result.Cost = result.Cost.Add(leafResult.Cost)
		result.Consumptions = append(result.Consumptions, leafResult.Consumptions...)
	}
	return result, nil
}

type componentRequirement struct {
	variant *models.ProductVariant
	qty     decimal.Decimal
}

// expandBundle flattens a bundle recipe into leaf requirements, scaling each
// component by the bundle multiplier. The decomposing set fails fast on
// self-referential recipes instead of recursing forever.
func (l *InventoryLedger) expandBundle(ctx context.Context, tx *gorm.DB, bundle *models.ProductVariant, qty decimal.Decimal, decomposing map[int]bool) ([]componentRequirement, error) {
	if decomposing[bundle.ID] {
		return nil, &CyclicBundleError{VariantId: bundle.ID}
	}
	decomposing[bundle.ID] = true
	defer delete(decomposing, bundle.ID)

	if len(bundle.BundleComponents) == 0 {
		return nil, fmt.Errorf("%w: bundle variant %d has no recipe", ErrValidationFailed, bundle.ID)
	}

	var requirements []componentRequirement
	for _, component := range bundle.BundleComponents {
		if !component.Qty.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: bundle variant %d recipe requires a positive qty for component %d", ErrValidationFailed, bundle.ID, component.ComponentVariantId)
		}
		componentQty := qty.Mul(component.Qty)
		variant, err := l.catalog.VariantById(ctx, tx, component.ComponentVariantId)
		if err != nil {
			return nil, err
		}
		if variant.Kind == models.VariantKindBundle {
			nested, err := l.expandBundle(ctx, tx, variant, componentQty, decomposing)
			if err != nil {
				return nil, err
			}
			requirements = append(requirements, nested...)
			continue
		}
		if variant.Kind == models.VariantKindService {
			// Services inside a recipe carry no stock and no cost.
			continue
		}
		requirements = append(requirements, componentRequirement{variant: variant, qty: componentQty})
	}
	return requirements, nil
}

func (l *InventoryLedger) decreaseLeaf(ctx context.Context, tx *gorm.DB, variant *models.ProductVariant, in DecreaseStockInput) (*DeductionResult, error) {
	switch variant.Kind {
	case models.VariantKindSerialized:
		return l.decreaseSerialized(ctx, tx, in)
	case models.VariantKindNonSerialized:
		return l.decreaseFifo(ctx, tx, in)
	case models.VariantKindService:
		return &DeductionResult{Cost: decimal.Zero}, nil
	default:
		return nil, fmt.Errorf("%w: cannot decrease stock for %s variant %d", ErrValidationFailed, variant.Kind, in.VariantId)
	}
}

// lotDraw is one planned FIFO allocation, computed before anything mutates.
type lotDraw struct {
	lotId     int
	qty       decimal.Decimal
	unitCost  decimal.Decimal
	remaining decimal.Decimal
}

// planFifoDraw allocates the requested quantity across lots in the order
// given. The ok flag distinguishes a shortfall from a plan that simply
// needs no draws; on shortfall it reports what was available and nothing
// is applied.
func planFifoDraw(lots []models.InventoryLot, requested decimal.Decimal) (draws []lotDraw, available decimal.Decimal, ok bool) {
	available = decimal.Zero
	remaining := requested
	for _, lot := range lots {
		available = available.Add(lot.Qty)
		if !remaining.GreaterThan(decimal.Zero) {
			continue
		}
		take := lot.Qty
		if take.GreaterThan(remaining) {
			take = remaining
		}
		draws = append(draws, lotDraw{
			lotId:     lot.ID,
			qty:       take,
			unitCost:  lot.UnitCost,
			remaining: lot.Qty.Sub(take),
		})
		remaining = remaining.Sub(take)
	}
	if remaining.GreaterThan(decimal.Zero) {
		return nil, available, false
	}
	return draws, available, true
}

func (l *InventoryLedger) decreaseFifo(ctx context.Context, tx *gorm.DB, in DecreaseStockInput) (*DeductionResult, error) {
	// Lots are consulted oldest first; id breaks creation-time ties so the
	// order is deterministic. FOR UPDATE keeps two concurrent sales from
	// planning against the same quantity.
	var lots []models.InventoryLot
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND variant_id = ? AND branch_id = ? AND qty > 0", l.tenantId, in.VariantId, in.BranchId).
		Order("created_at ASC, id ASC").
		Find(&lots).Error
	if err != nil {
		return nil, fmt.Errorf("load lots for variant %d: %w", in.VariantId, err)
	}

	draws, available, ok := planFifoDraw(lots, in.Qty)
	if !ok {
		return nil, &InsufficientStockError{
			VariantId: in.VariantId,
			BranchId:  in.BranchId,
			Requested: in.Qty,
			Available: available,
		}
	}

	result := &DeductionResult{Cost: decimal.Zero}
	for _, draw := range draws {
		res := tx.WithContext(ctx).Model(&models.InventoryLot{}).
			Where("id = ? AND qty >= ?", draw.lotId, draw.qty).
			Update("qty", gorm.Expr("qty - ?", draw.qty))
		if res.Error != nil {
			return nil, fmt.Errorf("drain lot %d: %w", draw.lotId, res.Error)
		}
		if res.RowsAffected == 0 {
			// The guarded update lost a race despite the row lock. Fail the
			// transaction rather than go negative.
			return nil, &InsufficientStockError{
				VariantId: in.VariantId,
				BranchId:  in.BranchId,
				Requested: in.Qty,
				Available: available,
			}
		}

		lotId := draw.lotId
		movementId, err := l.appendMovementReturning(ctx, tx, movementInput{
			variantId: in.VariantId, branchId: in.BranchId, movementType: in.Type,
			qtyDelta: draw.qty.Neg(), unitCost: draw.unitCost, lotId: &lotId,
			refType: in.RefType, refId: in.RefId, userId: in.UserId, notes: in.Notes,
		})
		if err != nil {
			return nil, err
		}

		result.Cost = result.Cost.Add(draw.qty.Mul(draw.unitCost))
		result.Consumptions = append(result.Consumptions, Consumption{
			VariantId:   in.VariantId,
			LotId:       &lotId,
			Qty:         draw.qty,
			UnitCost:    draw.unitCost,
			MovementId:  movementId,
			LotDepleted: draw.remaining.IsZero(),
		})
	}
	return result, nil
}

func (l *InventoryLedger) decreaseSerialized(ctx context.Context, tx *gorm.DB, in DecreaseStockInput) (*DeductionResult, error) {
	if in.SerialNumber != "" {
		if !in.Qty.Equal(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: serialized decrease with an explicit serial must be one unit", ErrValidationFailed)
		}
		return l.consumeSerial(ctx, tx, in, in.SerialNumber)
	}
	if !in.AllowAutoSerial {
		return nil, fmt.Errorf("%w: serialized decrease for variant %d requires an explicit serial number", ErrValidationFailed, in.VariantId)
	}

	// Bundle components, part deductions and adjustments omit the serial;
	// take the oldest units on hand, one row per unit.
	units := in.Qty.IntPart()
	if !in.Qty.Equal(decimal.NewFromInt(units)) {
		return nil, fmt.Errorf("%w: serialized quantity must be a whole number", ErrValidationFailed)
	}
	var candidates []models.InventoryItem
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND variant_id = ? AND branch_id = ? AND status = ?",
			l.tenantId, in.VariantId, in.BranchId, models.ItemStatusInStock).
		Order("created_at ASC, id ASC").
		Limit(int(units)).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("load serialized items for variant %d: %w", in.VariantId, err)
	}
	if int64(len(candidates)) < units {
		return nil, &InsufficientStockError{
			VariantId: in.VariantId,
			BranchId:  in.BranchId,
			Requested: in.Qty,
			Available: decimal.NewFromInt(int64(len(candidates))),
		}
	}

	result := &DeductionResult{Cost: decimal.Zero}
	for _, candidate := range candidates {
		unitIn := in
		unitIn.Qty = decimal.NewFromInt(1)
		unitResult, err := l.consumeSerial(ctx, tx, unitIn, candidate.SerialNumber)
		if err != nil {
			return nil, err
		}
		result.Cost = result.Cost.Add(unitResult.Cost)
		result.Consumptions = append(result.Consumptions, unitResult.Consumptions...)
	}
	return result, nil
}

func (l *InventoryLedger) consumeSerial(ctx context.Context, tx *gorm.DB, in DecreaseStockInput, serial string) (*DeductionResult, error) {
	targetStatus := models.ItemStatusSold
	if in.Type == models.MovementTypeTransferOut {
		targetStatus = models.ItemStatusInTransit
	}

	var item models.InventoryItem
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND serial_number = ?", l.tenantId, serial).
		First(&item).Error
	if err != nil {
		return nil, fmt.Errorf("serialized item %s: %w", serial, err)
	}

	// Guarded transition: only an in_stock unit may leave. RowsAffected
	// catches a concurrent sale of the same serial.
	res := tx.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("id = ? AND status = ?", item.ID, models.ItemStatusInStock).
		Update("status", targetStatus)
	if res.Error != nil {
		return nil, fmt.Errorf("transition item %s: %w", serial, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &ItemNotAvailableError{SerialNumber: serial, Status: item.Status}
	}

	itemId := item.ID
	movementId, err := l.appendMovementReturning(ctx, tx, movementInput{
		variantId: in.VariantId, branchId: in.BranchId, movementType: in.Type,
		qtyDelta: decimal.NewFromInt(-1), unitCost: item.UnitCost, itemId: &itemId,
		refType: in.RefType, refId: in.RefId, userId: in.UserId, notes: in.Notes,
	})
	if err != nil {
		return nil, err
	}

	return &DeductionResult{
		Cost: item.UnitCost,
		Consumptions: []Consumption{{
			VariantId:    in.VariantId,
			ItemId:       &itemId,
			SerialNumber: serial,
			Qty:          decimal.NewFromInt(1),
			UnitCost:     item.UnitCost,
			MovementId:   movementId,
		}},
	}, nil
}

type AdjustStockInput struct {
	VariantId int
	BranchId  int
	Delta     decimal.Decimal
	UnitCost  *decimal.Decimal
	UserId    int
	Notes     string
}

// AdjustStock routes a signed correction to increase or decrease. A positive
// adjustment has no purchase document to take a cost from, so the cost must
// be explicit.
func (l *InventoryLedger) AdjustStock(ctx context.Context, tx *gorm.DB, in AdjustStockInput) (*DeductionResult, error) {
	if in.Delta.IsZero() {
		return nil, fmt.Errorf("%w: adjustment delta must be non-zero", ErrValidationFailed)
	}
	if in.Delta.GreaterThan(decimal.Zero) {
		if in.UnitCost == nil {
			return nil, fmt.Errorf("%w: positive adjustment requires a unit cost", ErrValidationFailed)
		}
		err := l.IncreaseStock(ctx, tx, IncreaseStockInput{
			VariantId: in.VariantId,
			BranchId:  in.BranchId,
			Qty:       in.Delta,
			UnitCost:  *in.UnitCost,
			Type:      models.MovementTypeAdjustment,
			RefType:   "ADJ",
			UserId:    in.UserId,
			Notes:     in.Notes,
		})
		if err != nil {
			return nil, err
		}
		return &DeductionResult{Cost: decimal.Zero}, nil
	}
	return l.DecreaseStock(ctx, tx, DecreaseStockInput{
		VariantId:       in.VariantId,
		BranchId:        in.BranchId,
		Qty:             in.Delta.Neg(),
		Type:            models.MovementTypeAdjustment,
		RefType:         "ADJ",
		UserId:          in.UserId,
		Notes:           in.Notes,
		AllowAutoSerial: true,
	})
}

// AvailableQuantity reports how much of a variant a branch can currently
// sell. Advisory only; the authoritative guard is the atomic decrement.
func (l *InventoryLedger) AvailableQuantity(ctx context.Context, tx *gorm.DB, variantId int, branchId int) (decimal.Decimal, error) {
	variant, err := l.catalog.VariantById(ctx, tx, variantId)
	if err != nil {
		return decimal.Zero, err
	}
	return l.availableForVariant(ctx, tx, variant, branchId, map[int]bool{})
}

func (l *InventoryLedger) availableForVariant(ctx context.Context, tx *gorm.DB, variant *models.ProductVariant, branchId int, decomposing map[int]bool) (decimal.Decimal, error) {
	switch variant.Kind {
	case models.VariantKindNonSerialized:
		var total *decimal.Decimal
		err := tx.WithContext(ctx).Model(&models.InventoryLot{}).
			Select("sum(qty)").
			Where("business_id = ? AND variant_id = ? AND branch_id = ?", l.tenantId, variant.ID, branchId).
			Scan(&total).Error
		if err != nil {
			return decimal.Zero, err
		}
		if total == nil {
			return decimal.Zero, nil
		}
		return *total, nil

	case models.VariantKindSerialized:
		var count int64
		err := tx.WithContext(ctx).Model(&models.InventoryItem{}).
			Where("business_id = ? AND variant_id = ? AND branch_id = ? AND status = ?",
				l.tenantId, variant.ID, branchId, models.ItemStatusInStock).
			Count(&count).Error
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromInt(count), nil

	case models.VariantKindBundle:
		if decomposing[variant.ID] {
			return decimal.Zero, &CyclicBundleError{VariantId: variant.ID}
		}
		decomposing[variant.ID] = true
		defer delete(decomposing, variant.ID)

		buildable := decimal.Zero
		first := true
		for _, component := range variant.BundleComponents {
			if !component.Qty.GreaterThan(decimal.Zero) {
				return decimal.Zero, fmt.Errorf("%w: bundle variant %d recipe requires a positive qty for component %d", ErrValidationFailed, variant.ID, component.ComponentVariantId)
			}
			componentVariant, err := l.catalog.VariantById(ctx, tx, component.ComponentVariantId)
			if err != nil {
				return decimal.Zero, err
			}
			if componentVariant.Kind == models.VariantKindService {
				continue
			}
			available, err := l.availableForVariant(ctx, tx, componentVariant, branchId, decomposing)
			if err != nil {
				return decimal.Zero, err
			}
			units := available.DivRound(component.Qty, 8).Floor()
			if first || units.LessThan(buildable) {
				buildable = units
				first = false
			}
		}
		return buildable, nil

	default: // service
		return decimal.Zero, nil
	}
}

// LinkMovementsToInvoice stamps the invoice reference onto movements created
// during finalization. Movements exist before the invoice row does, so the
// link is applied after the fact.
func (l *InventoryLedger) LinkMovementsToInvoice(ctx context.Context, tx *gorm.DB, movementIds []string, invoiceId int) error {
	if len(movementIds) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Model(&models.StockMovement{}).
		Where("business_id = ? AND id IN ?", l.tenantId, utils.UniqueSlice(movementIds)).
		Updates(map[string]interface{}{"ref_type": "IV", "ref_id": invoiceId}).Error
}

func (l *InventoryLedger) findOrCreateLot(ctx context.Context, tx *gorm.DB, variantId int, branchId int, unitCost decimal.Decimal, batchNumber string) (*models.InventoryLot, error) {
	var lot models.InventoryLot
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND variant_id = ? AND branch_id = ? AND unit_cost = ? AND batch_number = ?",
			l.tenantId, variantId, branchId, unitCost, batchNumber).
		First(&lot).Error
	if err == nil {
		return &lot, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("find lot for variant %d: %w", variantId, err)
	}
	lot = models.InventoryLot{
		BusinessId:  l.tenantId,
		VariantId:   variantId,
		BranchId:    branchId,
		Qty:         decimal.Zero,
		UnitCost:    unitCost,
		BatchNumber: batchNumber,
	}
	if err := tx.WithContext(ctx).Create(&lot).Error; err != nil {
		return nil, fmt.Errorf("create lot for variant %d: %w", variantId, err)
	}
	return &lot, nil
}

type movementInput struct {
	variantId    int
	branchId     int
	movementType models.MovementType
	qtyDelta     decimal.Decimal
	unitCost     decimal.Decimal
	lotId        *int
	itemId       *int
	refType      string
	refId        int
	userId       int
	notes        string
}

func (l *InventoryLedger) appendMovement(ctx context.Context, tx *gorm.DB, in movementInput) error {
	_, err := l.appendMovementReturning(ctx, tx, in)
	return err
}

func (l *InventoryLedger) appendMovementReturning(ctx context.Context, tx *gorm.DB, in movementInput) (string, error) {
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	movement := models.StockMovement{
		BusinessId:    l.tenantId,
		VariantId:     in.variantId,
		BranchId:      in.branchId,
		Type:          in.movementType,
		QtyDelta:      in.qtyDelta,
		UnitCost:      in.unitCost,
		LotId:         in.lotId,
		ItemId:        in.itemId,
		UserId:        in.userId,
		RefType:       in.refType,
		RefId:         in.refId,
		Notes:         in.notes,
		CorrelationId: correlationId,
	}
	if err := tx.WithContext(ctx).Create(&movement).Error; err != nil {
		return "", fmt.Errorf("append stock movement: %w", err)
	}
	return movement.ID, nil
}
