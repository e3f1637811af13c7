package catalog

import "time"

// Consignor is a seller delivering items for auction. The letter code is the
// primary key and doubles as part of every item code the consignor owns.
type Consignor struct {
	Code      string `gorm:"column:consignor_code;primaryKey"`
	Name      string `gorm:"column:consignor_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName implements gorm's Tabler interface
func (Consignor) TableName() string { return "consignors" }

// DisplayName returns the name to print on batch sheets, falling back to the
// code when no name is recorded.
func (c *Consignor) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Code
}
