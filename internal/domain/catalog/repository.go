package catalog

import "context"

// ItemRepository manages Item persistence
type ItemRepository interface {
	// Create creates a new item
	Create(ctx context.Context, item *Item) error
	// FindByCode finds an item by its code, shared.ErrNotFound when absent
	FindByCode(ctx context.Context, code string) (*Item, error)
	// Exists reports whether an item with the given code exists
	Exists(ctx context.Context, code string) (bool, error)
	// FindByBatch returns all items of a batch, unordered
	FindByBatch(ctx context.Context, key BatchKey) ([]*Item, error)
	// Delete removes an item by code; deleting a missing item is a no-op
	Delete(ctx context.Context, code string) error
}

// BatchRepository manages Batch persistence
type BatchRepository interface {
	// FindByKey finds a batch by its key, shared.ErrNotFound when absent
	FindByKey(ctx context.Context, key BatchKey) (*Batch, error)
	// Save creates or updates a batch
	Save(ctx context.Context, batch *Batch) error
	// Recount resyncs the declared count with the actual item rows and
	// returns the new value. Used after out-of-band deletions.
	Recount(ctx context.Context, key BatchKey) (int, error)
}

// ConsignorRepository manages Consignor persistence
type ConsignorRepository interface {
	// FindByCode finds a consignor by code, shared.ErrNotFound when absent
	FindByCode(ctx context.Context, code string) (*Consignor, error)
	// ListCodes returns all known consignor codes
	ListCodes(ctx context.Context) ([]string, error)
}
