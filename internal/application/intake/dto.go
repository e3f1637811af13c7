package intake

// GenerateItemsRequest describes one batch intake: a consignor delivering
// count items on intake date, signed in by receiver.
type GenerateItemsRequest struct {
	IntakeDate      string `json:"intake_date" binding:"required"` // "2006-01-02"
	ConsignorCode   string `json:"consignor_code" binding:"required"`
	Count           int    `json:"count" binding:"required"`
	Receiver        string `json:"receiver" binding:"required"`
	Staff           string `json:"staff"`
	HasPhysicalList bool   `json:"has_physical_list"`
}

// GenerateItemsResult reports the outcome of a generation run.
type GenerateItemsResult struct {
	// ItemCodes lists every requested code 1..count, including the ones
	// that already existed before this run.
	ItemCodes []string `json:"item_codes"`
	// Created is the number of rows actually inserted by this run.
	Created int `json:"created"`
	// BatchCode is the display identifier of the owning batch.
	BatchCode string `json:"batch_code"`
}

// BatchItemRow is the read-only projection of an item used on batch listings
// and exports.
type BatchItemRow struct {
	Code          string  `json:"item_code"`
	Name          string  `json:"item_name"`
	StartingPrice *string `json:"starting_price"`
	ReservePrice  *string `json:"reserve_price"`
	Notes         string  `json:"item_notes"`
	ImagePath     string  `json:"item_image"`
}
