package persistence

import (
	"context"
	"errors"

	"github.com/auctionhouse/backend/internal/domain/catalog"
	"github.com/auctionhouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Create creates a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByCode finds an item by its code
func (r *GormItemRepository) FindByCode(ctx context.Context, code string) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "item_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Exists reports whether an item with the given code exists
func (r *GormItemRepository) Exists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Item{}).
		Where("item_code = ?", code).Count(&count).Error
	return count > 0, err
}

// FindByBatch returns all items of a batch
func (r *GormItemRepository) FindByBatch(ctx context.Context, key catalog.BatchKey) ([]*catalog.Item, error) {
	var items []*catalog.Item
	err := r.db.WithContext(ctx).
		Where("intake_date = ? AND consignor_code = ?", key.IntakeDate, key.ConsignorCode).
		Find(&items).Error
	return items, err
}

// Delete removes an item by code; a missing code is a no-op
func (r *GormItemRepository) Delete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Delete(&catalog.Item{}, "item_code = ?", code).Error
}

// GormBatchRepository implements catalog.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByKey finds a batch by its composite key
func (r *GormBatchRepository) FindByKey(ctx context.Context, key catalog.BatchKey) (*catalog.Batch, error) {
	var batch catalog.Batch
	err := r.db.WithContext(ctx).
		First(&batch, "intake_date = ? AND consignor_code = ?", key.IntakeDate, key.ConsignorCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *catalog.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// Recount resyncs the declared count with the actual item rows
func (r *GormBatchRepository) Recount(ctx context.Context, key catalog.BatchKey) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Item{}).
		Where("intake_date = ? AND consignor_code = ?", key.IntakeDate, key.ConsignorCode).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	err = r.db.WithContext(ctx).Model(&catalog.Batch{}).
		Where("intake_date = ? AND consignor_code = ?", key.IntakeDate, key.ConsignorCode).
		Update("item_count", count).Error
	return int(count), err
}

// GormConsignorRepository implements catalog.ConsignorRepository using GORM
type GormConsignorRepository struct {
	db *gorm.DB
}

// NewGormConsignorRepository creates a new GormConsignorRepository
func NewGormConsignorRepository(db *gorm.DB) *GormConsignorRepository {
	return &GormConsignorRepository{db: db}
}

// FindByCode finds a consignor by code
func (r *GormConsignorRepository) FindByCode(ctx context.Context, code string) (*catalog.Consignor, error) {
	var consignor catalog.Consignor
	if err := r.db.WithContext(ctx).First(&consignor, "consignor_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &consignor, nil
}

// ListCodes returns all known consignor codes
func (r *GormConsignorRepository) ListCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&catalog.Consignor{}).
		Pluck("consignor_code", &codes).Error
	return codes, err
}

var _ catalog.ItemRepository = (*GormItemRepository)(nil)
var _ catalog.BatchRepository = (*GormBatchRepository)(nil)
var _ catalog.ConsignorRepository = (*GormConsignorRepository)(nil)
