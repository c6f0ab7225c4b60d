package utils

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

/* DB fetching */

// FetchModel loads one row by id scoped to the tenant.
// (may return ErrorRecordNotFound)
func FetchModel[T any](ctx context.Context, db *gorm.DB, tenantId string, id int, associations ...string) (*T, error) {
	dbCtx := db.WithContext(ctx).Where("business_id = ?", tenantId)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// FetchAllModels loads every tenant-scoped row of a model.
func FetchAllModels[T any](ctx context.Context, db *gorm.DB, tenantId string, associations ...string) ([]*T, error) {
	dbCtx := db.WithContext(ctx).Where("business_id = ?", tenantId)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var results []*T
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ValidateResourceId checks a tenant-scoped row exists.
func ValidateResourceId[T any](ctx context.Context, db *gorm.DB, tenantId string, id interface{}) error {
	count, err := ResourceCountWhere[T](ctx, db, tenantId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

// ValidateUnique fails when a tenant-scoped row with column = value already
// exists (optionally excluding one id on update paths).
func ValidateUnique[T any](ctx context.Context, db *gorm.DB, tenantId string, column string, value interface{}, exceptId int) error {
	var count int64
	var err error
	if exceptId == 0 {
		count, err = ResourceCountWhere[T](ctx, db, tenantId, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, db, tenantId, column+" = ? AND NOT id = ?", value, exceptId)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate " + column)
	}
	return nil
}

// ResourceCountWhere counts rows matching WHERE business_id = ? AND condition.
func ResourceCountWhere[T any](ctx context.Context, db *gorm.DB, tenantId string, condition string, value ...interface{}) (int64, error) {
	var model T
	dbCtx := db.WithContext(ctx).Model(&model)
	if tenantId != "" {
		dbCtx = dbCtx.Where("business_id = ?", tenantId)
	}
	dbCtx = dbCtx.Where(condition, value...)
	var count int64
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
