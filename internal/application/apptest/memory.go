// Package apptest provides in-memory catalog repositories for application
// service tests.
package apptest

import (
	"context"
	"sort"

	"github.com/auctionhouse/backend/internal/domain/catalog"
	"github.com/auctionhouse/backend/internal/domain/shared"
)

// MemoryStore holds all three repositories over plain maps.
type MemoryStore struct {
	ItemsByCode  map[string]*catalog.Item
	BatchesByKey map[string]*catalog.Batch
	Consignors   map[string]*catalog.Consignor
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ItemsByCode:  make(map[string]*catalog.Item),
		BatchesByKey: make(map[string]*catalog.Batch),
		Consignors:   make(map[string]*catalog.Consignor),
	}
}

// AddConsignor registers a consignor.
func (m *MemoryStore) AddConsignor(code, name string) {
	m.Consignors[code] = &catalog.Consignor{Code: code, Name: name}
}

// Items returns the item repository view.
func (m *MemoryStore) Items() catalog.ItemRepository { return (*memItems)(m) }

// Batches returns the batch repository view.
func (m *MemoryStore) Batches() catalog.BatchRepository { return (*memBatches)(m) }

// ConsignorRepo returns the consignor repository view.
func (m *MemoryStore) ConsignorRepo() catalog.ConsignorRepository { return (*memConsignors)(m) }

type memItems MemoryStore

func (m *memItems) Create(_ context.Context, item *catalog.Item) error {
	if _, ok := m.ItemsByCode[item.Code]; ok {
		return shared.ErrAlreadyExists
	}
	clone := *item
	m.ItemsByCode[item.Code] = &clone
	return nil
}

func (m *memItems) FindByCode(_ context.Context, code string) (*catalog.Item, error) {
	item, ok := m.ItemsByCode[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (m *memItems) Exists(_ context.Context, code string) (bool, error) {
	_, ok := m.ItemsByCode[code]
	return ok, nil
}

func (m *memItems) FindByBatch(_ context.Context, key catalog.BatchKey) ([]*catalog.Item, error) {
	var out []*catalog.Item
	for _, item := range m.ItemsByCode {
		if item.ConsignorCode == key.ConsignorCode && item.IntakeDate.Equal(key.IntakeDate) {
			clone := *item
			out = append(out, &clone)
		}
	}
	// map order is random; return something deterministic but not natural
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memItems) Delete(_ context.Context, code string) error {
	delete(m.ItemsByCode, code)
	return nil
}

type memBatches MemoryStore

func (m *memBatches) FindByKey(_ context.Context, key catalog.BatchKey) (*catalog.Batch, error) {
	batch, ok := m.BatchesByKey[key.BatchCode()]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *batch
	return &clone, nil
}

func (m *memBatches) Save(_ context.Context, batch *catalog.Batch) error {
	clone := *batch
	m.BatchesByKey[batch.Key().BatchCode()] = &clone
	return nil
}

func (m *memBatches) Recount(ctx context.Context, key catalog.BatchKey) (int, error) {
	items, _ := (*memItems)(m).FindByBatch(ctx, key)
	if batch, ok := m.BatchesByKey[key.BatchCode()]; ok {
		batch.ItemCount = len(items)
	}
	return len(items), nil
}

type memConsignors MemoryStore

func (m *memConsignors) FindByCode(_ context.Context, code string) (*catalog.Consignor, error) {
	c, ok := m.Consignors[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *memConsignors) ListCodes(_ context.Context) ([]string, error) {
	codes := make([]string, 0, len(m.Consignors))
	for code := range m.Consignors {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}
