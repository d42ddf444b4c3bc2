// Package types - Shop configuration snapshot
package types

import "github.com/shopspring/decimal"

// Shop is the tenant root. Every rate lookup is scoped to exactly one shop.
type Shop struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// Product is a sellable catalog entry owned by one shop.
type Product struct {
	ID     int64       `json:"id"`
	ShopID int64       `json:"shop_id"`
	Name   string      `json:"name"`
	Type   ProductType `json:"product_type"`

	// Default finished dimensions used when an item carries no explicit size.
	DefaultFinishedWidthMM  int `json:"default_finished_width_mm"`
	DefaultFinishedHeightMM int `json:"default_finished_height_mm"`

	// Minimum dimensions for LARGE_FORMAT products. When set they override the
	// defaults during dimension resolution.
	MinWidthMM  int `json:"min_width_mm,omitempty"`
	MinHeightMM int `json:"min_height_mm,omitempty"`

	// MinQuantity is the quantity default applied when an item has none. Zero
	// means 1.
	MinQuantity int `json:"min_quantity,omitempty"`

	// Paper gsm bounds for price hints. Zero means unbounded.
	MinGSM int `json:"min_gsm,omitempty"`
	MaxGSM int `json:"max_gsm,omitempty"`
}

// Paper is a press sheet stock owned by one shop. A paper without a positive
// selling price is treated as absent for pricing purposes.
type Paper struct {
	ID           int64           `json:"id"`
	ShopID       int64           `json:"shop_id"`
	SheetSize    SheetSize       `json:"sheet_size"`
	GSM          int             `json:"gsm"`
	PaperType    string          `json:"paper_type,omitempty"`
	WidthMM      int             `json:"width_mm,omitempty"`
	HeightMM     int             `json:"height_mm,omitempty"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	IsActive     bool            `json:"is_active"`
}

// HasSellingPrice reports whether the paper is priced.
func (p *Paper) HasSellingPrice() bool {
	return p.SellingPrice.IsPositive()
}

// Dimensions returns the sheet dimensions in mm, falling back to the named
// sheet size when the paper carries no explicit dimensions.
func (p *Paper) Dimensions() (widthMM, heightMM int) {
	if p.WidthMM > 0 && p.HeightMM > 0 {
		return p.WidthMM, p.HeightMM
	}
	if dims, ok := SheetSizeDimensions[p.SheetSize]; ok {
		return dims[0], dims[1]
	}
	return 0, 0
}

// Material is the LARGE_FORMAT analogue of Paper, priced per square meter.
type Material struct {
	ID           int64           `json:"id"`
	ShopID       int64           `json:"shop_id"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	IsActive     bool            `json:"is_active"`
}

// HasSellingPrice reports whether the material is priced.
func (m *Material) HasSellingPrice() bool {
	return m.SellingPrice.IsPositive()
}

// Machine is a press owned by one shop, carrying its printing rates.
type Machine struct {
	ID       int64          `json:"id"`
	ShopID   int64          `json:"shop_id"`
	Name     string         `json:"name"`
	IsActive bool           `json:"is_active"`
	Rates    []PrintingRate `json:"printing_rates"`
}

// RateFor returns the active printing rate matching (sheet size, color mode),
// or nil when the machine has none.
func (m *Machine) RateFor(size SheetSize, color ColorMode) *PrintingRate {
	for i := range m.Rates {
		r := &m.Rates[i]
		if r.IsActive && r.SheetSize == size && r.ColorMode == color {
			return r
		}
	}
	return nil
}

// PrintingRate is keyed by (machine, sheet size, color mode) and holds the
// per-sheet price for single- and double-sided printing.
type PrintingRate struct {
	ID          int64           `json:"id"`
	MachineID   int64           `json:"machine_id"`
	SheetSize   SheetSize       `json:"sheet_size"`
	ColorMode   ColorMode       `json:"color_mode"`
	SinglePrice decimal.Decimal `json:"single_price"`
	DoublePrice decimal.Decimal `json:"double_price"`
	IsActive    bool            `json:"is_active"`
}

// PriceForSides returns the per-sheet price for the given sides.
func (r *PrintingRate) PriceForSides(s Sides) decimal.Decimal {
	if s == SidesDouble {
		return r.DoublePrice
	}
	return r.SinglePrice
}

// FinishingRate is a shop-owned finishing service charged per its ChargeUnit.
type FinishingRate struct {
	ID         int64      `json:"id"`
	ShopID     int64      `json:"shop_id"`
	Name       string     `json:"name"`
	ChargeUnit ChargeUnit `json:"charge_unit"`

	// Price is the single-sided price per charge unit.
	Price decimal.Decimal `json:"price"`

	// DoubleSidePrice applies to double-sided work. Nil means 2 x Price.
	DoubleSidePrice *decimal.Decimal `json:"double_side_price,omitempty"`

	// SetupFee is added once when the finishing is applied.
	SetupFee decimal.Decimal `json:"setup_fee"`

	IsActive bool `json:"is_active"`
}

// PriceForSides returns the per-unit finishing price for the given side count.
func (f *FinishingRate) PriceForSides(sidesCount int) decimal.Decimal {
	if sidesCount < 2 {
		return f.Price
	}
	if f.DoubleSidePrice != nil {
		return *f.DoubleSidePrice
	}
	return f.Price.Mul(decimal.NewFromInt(2))
}

// ShopConfig is the read-only configuration snapshot the engine prices
// against. The calling layer materializes it (store, fixture file, request
// payload); the engine never fetches or mutates it.
type ShopConfig struct {
	Shop           Shop            `json:"shop"`
	Products       []Product       `json:"products"`
	Papers         []Paper         `json:"papers"`
	Materials      []Material      `json:"materials"`
	Machines       []Machine       `json:"machines"`
	FinishingRates []FinishingRate `json:"finishing_rates"`
}

// ProductByID returns the shop's product with the given id, or nil.
func (c *ShopConfig) ProductByID(id int64) *Product {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}

// PaperByID returns the shop's active paper with the given id, or nil.
// Inactive papers and papers of other shops are invisible.
func (c *ShopConfig) PaperByID(id int64) *Paper {
	for i := range c.Papers {
		p := &c.Papers[i]
		if p.ID == id && p.IsActive {
			return p
		}
	}
	return nil
}

// MaterialByID returns the shop's active material with the given id, or nil.
func (c *ShopConfig) MaterialByID(id int64) *Material {
	for i := range c.Materials {
		m := &c.Materials[i]
		if m.ID == id && m.IsActive {
			return m
		}
	}
	return nil
}

// MachineByID returns the shop's active machine with the given id, or nil.
func (c *ShopConfig) MachineByID(id int64) *Machine {
	for i := range c.Machines {
		m := &c.Machines[i]
		if m.ID == id && m.IsActive {
			return m
		}
	}
	return nil
}

// ActiveMachines returns the shop's active machines in declaration order.
func (c *ShopConfig) ActiveMachines() []*Machine {
	var out []*Machine
	for i := range c.Machines {
		if c.Machines[i].IsActive {
			out = append(out, &c.Machines[i])
		}
	}
	return out
}

// ActivePapers returns active papers with a positive selling price.
func (c *ShopConfig) ActivePapers() []*Paper {
	var out []*Paper
	for i := range c.Papers {
		p := &c.Papers[i]
		if p.IsActive && p.HasSellingPrice() {
			out = append(out, p)
		}
	}
	return out
}

// ActiveMaterials returns active materials with a positive selling price.
func (c *ShopConfig) ActiveMaterials() []*Material {
	var out []*Material
	for i := range c.Materials {
		m := &c.Materials[i]
		if m.IsActive && m.HasSellingPrice() {
			out = append(out, m)
		}
	}
	return out
}

// FinishingRateByID returns the shop's active finishing rate, or nil.
func (c *ShopConfig) FinishingRateByID(id int64) *FinishingRate {
	for i := range c.FinishingRates {
		f := &c.FinishingRates[i]
		if f.ID == id && f.IsActive {
			return f
		}
	}
	return nil
}
