// Package types - Quote draft types
package types

import "github.com/shopspring/decimal"

// QuoteDraft is an ordered collection of draft items for one shop. Drafts are
// ephemeral; pricing previews never mutate them.
type QuoteDraft struct {
	ID     int64            `json:"id"`
	ShopID int64            `json:"shop_id"`
	Items  []QuoteDraftItem `json:"items"`
}

// QuoteDraftItem references a product plus the buyer's chosen options. Zero
// ids and empty strings mean "not chosen"; the resolver applies defaults or
// reports the gap.
type QuoteDraftItem struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`

	// Selections. PaperID applies to SHEET items, MaterialID to LARGE_FORMAT.
	PaperID    int64     `json:"paper_id,omitempty"`
	MaterialID int64     `json:"material_id,omitempty"`
	MachineID  int64     `json:"machine_id,omitempty"`
	ColorMode  ColorMode `json:"color_mode,omitempty"`
	Sides      Sides     `json:"sides,omitempty"`

	// Quantity <= 0 falls back to the product's min_quantity (default 1).
	Quantity int `json:"quantity,omitempty"`

	// Custom dimensions for LARGE_FORMAT items.
	ChosenWidthMM  int `json:"chosen_width_mm,omitempty"`
	ChosenHeightMM int `json:"chosen_height_mm,omitempty"`

	Finishings []FinishingSelection `json:"finishings,omitempty"`
}

// FinishingSelection attaches a shop finishing rate to an item, optionally
// overriding its unit price.
type FinishingSelection struct {
	FinishingRateID int64            `json:"finishing_rate_id"`
	PriceOverride   *decimal.Decimal `json:"price_override,omitempty"`
}
