// Package resolver determines the effective pricing inputs for a draft item.
//
// Resolution is a pure read over the shop configuration snapshot: defaults are
// applied (quantity, dimensions, single-machine auto-select) and every input
// that still cannot be resolved is reported as a FieldTag. The resolver never
// mutates the item and never performs I/O.
package resolver

import (
	"github.com/shopspring/decimal"

	"printshop-pricing/core/types"
	"printshop-pricing/internal/errors"
)

// Finishing is a resolved finishing selection.
type Finishing struct {
	Rate          *types.FinishingRate
	PriceOverride *decimal.Decimal
}

// Inputs is the fully resolved input set the calculator prices. Fields that
// do not apply to the product type stay nil.
type Inputs struct {
	Product  *types.Product
	Quantity int

	// Finished piece dimensions after defaulting.
	WidthMM  int
	HeightMM int

	// SHEET inputs.
	Paper     *types.Paper
	Machine   *types.Machine
	Rate      *types.PrintingRate
	ColorMode types.ColorMode
	Sides     types.Sides

	// LARGE_FORMAT input.
	Material *types.Material

	Finishings []Finishing
}

// Resolution is the resolver outcome: inputs plus the set of missing tags.
type Resolution struct {
	Inputs  Inputs
	Missing []types.FieldTag
}

// Resolved reports whether every required input is present.
func (r *Resolution) Resolved() bool {
	return len(r.Missing) == 0
}

// MissingNames returns the missing tags as wire names, in declaration order.
func (r *Resolution) MissingNames() []string {
	names := make([]string, 0, len(r.Missing))
	for _, t := range r.Missing {
		names = append(names, t.String())
	}
	return names
}

// missingSet accumulates tags and emits them in declaration order, so the
// reported order never depends on discovery order.
type missingSet uint16

func (s *missingSet) add(t types.FieldTag) { *s |= 1 << uint(t) }

func (s missingSet) has(t types.FieldTag) bool { return s&(1<<uint(t)) != 0 }

func (s missingSet) tags() []types.FieldTag {
	var out []types.FieldTag
	for _, t := range types.AllFieldTags() {
		if s.has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Resolve computes the effective inputs for one item against its shop's
// configuration. An unknown product or product type is an error; everything
// else degrades to missing tags, including selections that point outside the
// shop (treated as not selected rather than rejected).
func Resolve(cfg *types.ShopConfig, item *types.QuoteDraftItem) (*Resolution, error) {
	product := cfg.ProductByID(item.ProductID)
	if product == nil {
		return nil, errors.NotFound("product", item.ProductID)
	}

	var missing missingSet
	inputs := Inputs{
		Product:  product,
		Quantity: resolveQuantity(item, product),
	}

	switch product.Type {
	case types.ProductSheet:
		resolveSheet(cfg, item, product, &inputs, &missing)
	case types.ProductLargeFormat:
		resolveLargeFormat(cfg, item, product, &inputs, &missing)
	default:
		return nil, errors.Newf(errors.TypeInput, "product %d has invalid product_type %q", product.ID, product.Type)
	}

	inputs.Finishings = resolveFinishings(cfg, item)

	return &Resolution{Inputs: inputs, Missing: missing.tags()}, nil
}

// resolveQuantity applies the quantity default chain. Quantity is never
// reported missing.
func resolveQuantity(item *types.QuoteDraftItem, product *types.Product) int {
	if item.Quantity > 0 {
		return item.Quantity
	}
	if product.MinQuantity > 0 {
		return product.MinQuantity
	}
	return 1
}

func resolveSheet(cfg *types.ShopConfig, item *types.QuoteDraftItem, product *types.Product, inputs *Inputs, missing *missingSet) {
	inputs.WidthMM = product.DefaultFinishedWidthMM
	inputs.HeightMM = product.DefaultFinishedHeightMM
	if inputs.WidthMM <= 0 || inputs.HeightMM <= 0 {
		missing.add(types.FieldDimensions)
	}

	// Paper must be selected, carry a selling price, and have sheet dimensions
	// (explicit or from a named sheet size). A selection pointing at another
	// shop's paper (or an inactive one) resolves to nil and is reported as the
	// same gap. A priced paper without dimensions stays in the inputs so the
	// suggestion can name it, but still counts as the paper gap.
	if item.PaperID != 0 {
		if p := cfg.PaperByID(item.PaperID); p != nil && p.HasSellingPrice() {
			inputs.Paper = p
		}
	}
	if inputs.Paper == nil {
		missing.add(types.FieldPaper)
	} else if w, h := inputs.Paper.Dimensions(); w <= 0 || h <= 0 {
		missing.add(types.FieldPaper)
	}

	// Machine: explicit selection, or auto-select when the shop has exactly
	// one. The auto-select is a resolution step, not a mutation of the item.
	if item.MachineID != 0 {
		inputs.Machine = cfg.MachineByID(item.MachineID)
	} else if machines := cfg.ActiveMachines(); len(machines) == 1 {
		inputs.Machine = machines[0]
	}
	if inputs.Machine == nil {
		missing.add(types.FieldMachine)
	}

	inputs.ColorMode = item.ColorMode
	if inputs.ColorMode == "" {
		missing.add(types.FieldColorMode)
	}
	inputs.Sides = item.Sides
	if inputs.Sides == "" {
		missing.add(types.FieldSides)
	}

	// The printing rate can only be checked once machine, paper and color
	// mode are known; earlier gaps are already reported on their own tags.
	if inputs.Machine != nil && inputs.Paper != nil && inputs.ColorMode != "" {
		rate := inputs.Machine.RateFor(inputs.Paper.SheetSize, inputs.ColorMode)
		if rate == nil {
			missing.add(types.FieldPrintingRate)
		} else if inputs.Sides != "" && !rate.PriceForSides(inputs.Sides).IsPositive() {
			missing.add(types.FieldPrintingRate)
		} else {
			inputs.Rate = rate
		}
	}
}

func resolveLargeFormat(cfg *types.ShopConfig, item *types.QuoteDraftItem, product *types.Product, inputs *Inputs, missing *missingSet) {
	if item.MaterialID != 0 {
		if m := cfg.MaterialByID(item.MaterialID); m != nil && m.HasSellingPrice() {
			inputs.Material = m
		}
	}
	if inputs.Material == nil {
		missing.add(types.FieldMaterial)
	}

	inputs.WidthMM, inputs.HeightMM = resolveLargeFormatDims(item, product)
	if inputs.WidthMM <= 0 || inputs.HeightMM <= 0 {
		missing.add(types.FieldDimensions)
	}
}

// resolveLargeFormatDims picks the dimension source: the item's chosen size
// wins, then the product's minimum size, then the product defaults.
func resolveLargeFormatDims(item *types.QuoteDraftItem, product *types.Product) (int, int) {
	if item.ChosenWidthMM > 0 && item.ChosenHeightMM > 0 {
		return item.ChosenWidthMM, item.ChosenHeightMM
	}
	if product.MinWidthMM > 0 && product.MinHeightMM > 0 {
		return product.MinWidthMM, product.MinHeightMM
	}
	return product.DefaultFinishedWidthMM, product.DefaultFinishedHeightMM
}

// resolveFinishings maps finishing selections to shop rates. Selections
// referencing unknown or inactive rates are dropped.
func resolveFinishings(cfg *types.ShopConfig, item *types.QuoteDraftItem) []Finishing {
	var out []Finishing
	for _, sel := range item.Finishings {
		if rate := cfg.FinishingRateByID(sel.FinishingRateID); rate != nil {
			out = append(out, Finishing{Rate: rate, PriceOverride: sel.PriceOverride})
		}
	}
	return out
}
