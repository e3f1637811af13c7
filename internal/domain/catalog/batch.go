package catalog

import (
	"fmt"
	"time"
)

// BatchKey identifies an intake batch: one consignor delivering on one day.
type BatchKey struct {
	IntakeDate    time.Time
	ConsignorCode string
}

// BatchCode renders the display identifier for the batch, e.g. "250324_C".
// It is derived, never persisted.
func (k BatchKey) BatchCode() string {
	return fmt.Sprintf("%s_%s", k.IntakeDate.Format("060102"), k.ConsignorCode)
}

// ItemCodePrefix is the prefix shared by all item codes in the batch,
// including the trailing separator: "250324_C_".
func (k BatchKey) ItemCodePrefix() string {
	return k.BatchCode() + "_"
}

// ItemCode builds the n-th item code of the batch.
func (k BatchKey) ItemCode(n int) string {
	return fmt.Sprintf("%s%d", k.ItemCodePrefix(), n)
}

// Batch owns a declared item count and the reception metadata recorded when
// the consignment was signed in. The count is a maintained counter: it grows
// by the number of actually created items at generation time and shrinks
// (clamped at zero) when items are deleted. It is never trusted as an exact
// row count after out-of-band edits; see BatchRepository.Recount.
type Batch struct {
	IntakeDate      time.Time `gorm:"column:intake_date;type:date;primaryKey"`
	ConsignorCode   string    `gorm:"column:consignor_code;primaryKey"`
	ItemCount       int       `gorm:"column:item_count"`
	Receiver        string    `gorm:"column:receiver"`
	Staff           string    `gorm:"column:staff"`
	HasPhysicalList bool      `gorm:"column:has_physical_list"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName implements gorm's Tabler interface
func (Batch) TableName() string { return "batches" }

// NewBatch creates a batch with a zero count; generation adds the number of
// items it actually created.
func NewBatch(key BatchKey, receiver, staff string, hasPhysicalList bool) *Batch {
	now := time.Now()
	return &Batch{
		IntakeDate:      key.IntakeDate,
		ConsignorCode:   key.ConsignorCode,
		Receiver:        receiver,
		Staff:           staff,
		HasPhysicalList: hasPhysicalList,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Key returns the batch's identifying key.
func (b *Batch) Key() BatchKey {
	return BatchKey{IntakeDate: b.IntakeDate, ConsignorCode: b.ConsignorCode}
}

// UpdateReception refreshes the reception metadata in place. Staff is only
// replaced when non-empty, matching the intake flow where the staff field is
// optional on re-runs.
func (b *Batch) UpdateReception(receiver, staff string) {
	b.Receiver = receiver
	if staff != "" {
		b.Staff = staff
	}
	b.UpdatedAt = time.Now()
}

// AddItems increases the declared count by the number of newly created rows.
func (b *Batch) AddItems(created int) {
	if created <= 0 {
		return
	}
	b.ItemCount += created
	b.UpdatedAt = time.Now()
}

// RemoveItem decrements the declared count, never below zero.
func (b *Batch) RemoveItem() {
	if b.ItemCount > 0 {
		b.ItemCount--
	}
	b.UpdatedAt = time.Now()
}
