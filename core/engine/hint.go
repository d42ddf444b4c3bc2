package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"printshop-pricing/core/diagnostics"
	"printshop-pricing/core/imposition"
	"printshop-pricing/core/types"
	"printshop-pricing/internal/errors"
)

// PriceHint is the lightweight can-we-price-this summary for catalog views.
type PriceHint struct {
	CanCalculate  bool                     `json:"can_calculate"`
	MinPrice      *float64                 `json:"min_price"`
	MaxPrice      *float64                 `json:"max_price"`
	MissingFields []string                 `json:"missing_fields"`
	Suggestions   []diagnostics.Suggestion `json:"suggestions"`
	Reason        *string                  `json:"reason"`

	// PriceDisplay is a ready-made label for product cards.
	PriceDisplay string `json:"price_display,omitempty"`
}

var hintColorModes = []types.ColorMode{types.ColorBW, types.ColorColor}
var hintSides = []types.Sides{types.SidesSingle, types.SidesDouble}

// ProductPriceHint computes the price range a buyer could land in for a
// product, using defaults (quantity = min_quantity, product default size) and
// enumerating the shop's eligible paper/machine/color/sides combinations.
// Incomplete configuration yields can_calculate=false with suggestions, never
// an error.
func (e *Engine) ProductPriceHint(cfg *types.ShopConfig, productID int64) (*PriceHint, error) {
	product := cfg.ProductByID(productID)
	if product == nil {
		return nil, errors.NotFound("product", productID)
	}

	switch product.Type {
	case types.ProductSheet:
		return e.sheetHint(cfg, product), nil
	case types.ProductLargeFormat:
		return e.largeFormatHint(cfg, product), nil
	default:
		return nil, errors.Newf(errors.TypeInput, "product %d has invalid product_type %q", product.ID, product.Type)
	}
}

func (e *Engine) sheetHint(cfg *types.ShopConfig, product *types.Product) *PriceHint {
	papers := eligiblePapers(cfg, product)
	machines := cfg.ActiveMachines()

	var missing []types.FieldTag
	if len(papers) == 0 {
		missing = append(missing, types.FieldPaper)
	}
	if len(machines) == 0 {
		missing = append(missing, types.FieldMachine)
	}
	dimsOK := product.DefaultFinishedWidthMM > 0 && product.DefaultFinishedHeightMM > 0

	if len(missing) > 0 || !dimsOK {
		if !dimsOK {
			missing = append(missing, types.FieldDimensions)
		}
		return hintForMissing(cfg, product, missing)
	}

	qty := product.MinQuantity
	if qty <= 0 {
		qty = 1
	}

	var min, max decimal.Decimal
	found := false
	for _, paper := range papers {
		sheetW, sheetH := paper.Dimensions()
		pieces := imposition.PiecesPerSheet(product.DefaultFinishedWidthMM, product.DefaultFinishedHeightMM, sheetW, sheetH, imposition.DefaultBleedMM)
		sheets := decimal.NewFromInt(int64(imposition.SheetsNeeded(qty, pieces)))

		for _, machine := range machines {
			for _, color := range hintColorModes {
				rate := machine.RateFor(paper.SheetSize, color)
				if rate == nil {
					continue
				}
				for _, sides := range hintSides {
					price := rate.PriceForSides(sides)
					if !price.IsPositive() {
						continue
					}
					total := paper.SellingPrice.Add(price).Mul(sheets)
					if !found || total.LessThan(min) {
						min = total
					}
					if !found || total.GreaterThan(max) {
						max = total
					}
					found = true
				}
			}
		}
	}

	if !found {
		return hintForMissing(cfg, product, []types.FieldTag{types.FieldPrintingRate})
	}
	return calculableHint(cfg, min, max)
}

func (e *Engine) largeFormatHint(cfg *types.ShopConfig, product *types.Product) *PriceHint {
	materials := cfg.ActiveMaterials()

	var missing []types.FieldTag
	if len(materials) == 0 {
		missing = append(missing, types.FieldMaterial)
	}

	widthMM, heightMM := product.MinWidthMM, product.MinHeightMM
	if widthMM <= 0 || heightMM <= 0 {
		widthMM, heightMM = product.DefaultFinishedWidthMM, product.DefaultFinishedHeightMM
	}
	if widthMM <= 0 || heightMM <= 0 {
		missing = append(missing, types.FieldDimensions)
	}

	if len(missing) > 0 {
		return hintForMissing(cfg, product, missing)
	}

	qty := product.MinQuantity
	if qty <= 0 {
		qty = 1
	}
	area := decimal.NewFromInt(int64(widthMM)).Div(thousand).
		Mul(decimal.NewFromInt(int64(heightMM)).Div(thousand)).
		Mul(decimal.NewFromInt(int64(qty)))

	var min, max decimal.Decimal
	for i, mat := range materials {
		total := mat.SellingPrice.Mul(area)
		if i == 0 || total.LessThan(min) {
			min = total
		}
		if i == 0 || total.GreaterThan(max) {
			max = total
		}
	}
	return calculableHint(cfg, min, max)
}

var thousand = decimal.NewFromInt(1000)

// eligiblePapers filters active priced papers by the product's gsm bounds.
// Papers without sheet dimensions cannot be imposed and are skipped.
func eligiblePapers(cfg *types.ShopConfig, product *types.Product) []*types.Paper {
	var out []*types.Paper
	for _, p := range cfg.ActivePapers() {
		if w, h := p.Dimensions(); w <= 0 || h <= 0 {
			continue
		}
		if product.MinGSM > 0 && p.GSM < product.MinGSM {
			continue
		}
		if product.MaxGSM > 0 && p.GSM > product.MaxGSM {
			continue
		}
		out = append(out, p)
	}
	return out
}

func calculableHint(cfg *types.ShopConfig, min, max decimal.Decimal) *PriceHint {
	min = min.Round(2)
	max = max.Round(2)
	minF := min.InexactFloat64()
	maxF := max.InexactFloat64()
	return &PriceHint{
		CanCalculate:  true,
		MinPrice:      &minF,
		MaxPrice:      &maxF,
		MissingFields: []string{},
		Suggestions:   []diagnostics.Suggestion{},
		PriceDisplay:  priceDisplay(cfg.Shop.Currency, min, max),
	}
}

func hintForMissing(cfg *types.ShopConfig, product *types.Product, missing []types.FieldTag) *PriceHint {
	ctx := diagnostics.Context{ShopID: cfg.Shop.ID, Product: product, Catalog: true}
	suggestions := make([]diagnostics.Suggestion, 0, len(missing))
	names := make([]string, 0, len(missing))
	for _, tag := range missing {
		names = append(names, tag.String())
		suggestions = append(suggestions, diagnostics.ForTag(tag, ctx))
	}
	reason := "Configure papers, machines, and rates under Shop setup."
	return &PriceHint{
		CanCalculate:  false,
		MissingFields: names,
		Suggestions:   suggestions,
		Reason:        &reason,
		PriceDisplay:  "Price on request",
	}
}

// priceDisplay renders "From KES 700" or "KES 700 - 1,400" style labels.
func priceDisplay(currency string, min, max decimal.Decimal) string {
	if currency == "" {
		currency = "KES"
	}
	if max.Sub(min).Abs().LessThan(decimal.NewFromFloat(0.01)) {
		return fmt.Sprintf("From %s %s", currency, formatAmount(min))
	}
	return fmt.Sprintf("%s %s - %s", currency, formatAmount(min), formatAmount(max))
}

// formatAmount renders a whole-unit amount with thousands separators.
func formatAmount(d decimal.Decimal) string {
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
