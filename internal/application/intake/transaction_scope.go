package intake

import (
	"context"

	"github.com/auctionhouse/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to the catalog repositories.
// Everything executed inside Execute shares one database transaction and is
// committed or rolled back atomically: partial batch generation must never
// be observable.
type TransactionScope interface {
	// Execute runs fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the catalog repositories bound to the
// current transaction.
type TransactionalRepositories interface {
	// Items returns the item repository scoped to the transaction
	Items() catalog.ItemRepository
	// Batches returns the batch repository scoped to the transaction
	Batches() catalog.BatchRepository
	// Consignors returns the consignor repository scoped to the transaction
	Consignors() catalog.ConsignorRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests with in-memory repositories.
type NoOpTransactionScope struct {
	items      catalog.ItemRepository
	batches    catalog.BatchRepository
	consignors catalog.ConsignorRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	items catalog.ItemRepository,
	batches catalog.BatchRepository,
	consignors catalog.ConsignorRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{items: items, batches: batches, consignors: consignors}
}

// Execute runs fn directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Items returns the item repository.
func (s *NoOpTransactionScope) Items() catalog.ItemRepository { return s.items }

// Batches returns the batch repository.
func (s *NoOpTransactionScope) Batches() catalog.BatchRepository { return s.batches }

// Consignors returns the consignor repository.
func (s *NoOpTransactionScope) Consignors() catalog.ConsignorRepository { return s.consignors }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
