package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a consigned object tracked through intake, cataloguing and auction
// assignment. The item code is assigned once at generation and is the
// primary identity for the item's whole life.
type Item struct {
	Code          string           `gorm:"column:item_code;primaryKey"`
	Name          *string          `gorm:"column:item_name"`
	Size          *string          `gorm:"column:item_size"`
	ImagePath     *string          `gorm:"column:item_image"`
	Category      *string          `gorm:"column:item_category"`
	Material      *string          `gorm:"column:item_material"`
	Author        *string          `gorm:"column:item_author"`
	Description   *string          `gorm:"column:item_description"`
	Notes         *string          `gorm:"column:item_notes"`
	Status        *string          `gorm:"column:item_status"`
	StartingPrice *decimal.Decimal `gorm:"column:starting_price;type:numeric"`
	ReservePrice  *decimal.Decimal `gorm:"column:reserve_price;type:numeric"`
	ConsignorCode string           `gorm:"column:consignor_code;index"`
	IntakeDate    time.Time        `gorm:"column:intake_date;type:date;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName implements gorm's Tabler interface
func (Item) TableName() string { return "items" }

// NewBlankItem creates an empty item shell for a freshly generated code.
// Everything except identity stays nil until cataloguing fills it in.
func NewBlankItem(code, consignorCode string, intakeDate time.Time, status *string) *Item {
	now := time.Now()
	return &Item{
		Code:          code,
		ConsignorCode: consignorCode,
		IntakeDate:    intakeDate,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ImageRef returns the stored image reference, or "" when none is set.
func (i *Item) ImageRef() string {
	if i.ImagePath == nil {
		return ""
	}
	return *i.ImagePath
}
