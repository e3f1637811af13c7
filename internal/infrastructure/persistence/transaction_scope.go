package persistence

import (
	"context"

	"github.com/auctionhouse/backend/internal/application/intake"
	"github.com/auctionhouse/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTransactionScope implements intake.TransactionScope over a gorm
// database. Every Execute call opens one transaction; the repositories
// handed to the function are bound to it.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos intake.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx})
	})
}

type txRepositories struct {
	tx *gorm.DB
}

func (r *txRepositories) Items() catalog.ItemRepository           { return NewGormItemRepository(r.tx) }
func (r *txRepositories) Batches() catalog.BatchRepository        { return NewGormBatchRepository(r.tx) }
func (r *txRepositories) Consignors() catalog.ConsignorRepository { return NewGormConsignorRepository(r.tx) }

var _ intake.TransactionScope = (*GormTransactionScope)(nil)
var _ intake.TransactionalRepositories = (*txRepositories)(nil)
