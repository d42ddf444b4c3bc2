// Package calculator computes a deterministic price from fully resolved
// inputs.
//
// The calculator has no missing-data handling: the resolver guarantees its
// preconditions, and a violated precondition surfaces as an
// INTERNAL_INCONSISTENCY error, never as a diagnostic. All money math uses
// decimals; the 2-decimal rounding happens once, on the final total.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"printshop-pricing/core/imposition"
	"printshop-pricing/core/resolver"
	"printshop-pricing/core/types"
	"printshop-pricing/internal/errors"
)

var (
	thousand = decimal.NewFromInt(1000)
	two      = decimal.NewFromInt(2)
)

// Line is one breakdown entry of a priced item.
type Line struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// Quote is the calculator result for one resolved input set.
type Quote struct {
	// Total is the item total, rounded to 2 decimals.
	Total decimal.Decimal

	// Sheets is the press sheet count (SHEET items; zero otherwise).
	Sheets int

	// AreaSQM is the charged area (square meters).
	AreaSQM decimal.Decimal

	Lines []Line
}

// Price computes the total and breakdown for one resolved input set.
func Price(inputs *resolver.Inputs) (*Quote, error) {
	if inputs.Product == nil {
		return nil, errors.Inconsistency("calculator invoked without a product")
	}
	if inputs.Quantity <= 0 {
		return nil, errors.Inconsistency("calculator invoked with quantity %d", inputs.Quantity)
	}

	switch inputs.Product.Type {
	case types.ProductSheet:
		return priceSheet(inputs)
	case types.ProductLargeFormat:
		return priceLargeFormat(inputs)
	default:
		return nil, errors.Inconsistency("calculator invoked with product_type %q", inputs.Product.Type)
	}
}

func priceSheet(inputs *resolver.Inputs) (*Quote, error) {
	switch {
	case inputs.Paper == nil:
		return nil, errors.Inconsistency("sheet pricing without a resolved paper")
	case inputs.Rate == nil:
		return nil, errors.Inconsistency("sheet pricing without a resolved printing rate")
	case inputs.Sides == "":
		return nil, errors.Inconsistency("sheet pricing without resolved sides")
	case inputs.WidthMM <= 0 || inputs.HeightMM <= 0:
		return nil, errors.Inconsistency("sheet pricing without resolved dimensions")
	}

	sheetW, sheetH := inputs.Paper.Dimensions()
	if sheetW <= 0 || sheetH <= 0 {
		return nil, errors.Inconsistency("paper %d has no sheet dimensions", inputs.Paper.ID)
	}

	pieces := imposition.PiecesPerSheet(inputs.WidthMM, inputs.HeightMM, sheetW, sheetH, imposition.DefaultBleedMM)
	sheets := imposition.SheetsNeeded(inputs.Quantity, pieces)
	sheetsDec := decimal.NewFromInt(int64(sheets))

	quote := &Quote{Sheets: sheets}

	paperCost := inputs.Paper.SellingPrice.Mul(sheetsDec)
	quote.Lines = append(quote.Lines, Line{
		Description: fmt.Sprintf("Paper: %s %dgsm (%d up, %d sheets)", inputs.Paper.SheetSize, inputs.Paper.GSM, pieces, sheets),
		Quantity:    sheetsDec,
		UnitPrice:   inputs.Paper.SellingPrice,
		Amount:      paperCost,
	})

	printPrice := inputs.Rate.PriceForSides(inputs.Sides)
	printCost := printPrice.Mul(sheetsDec)
	quote.Lines = append(quote.Lines, Line{
		Description: fmt.Sprintf("Printing: %s %s", inputs.ColorMode, sidesLabel(inputs.Sides)),
		Quantity:    sheetsDec,
		UnitPrice:   printPrice,
		Amount:      printCost,
	})

	total := paperCost.Add(printCost)

	// Charged area for PER_SQM finishing is the full sheet area consumed.
	sheetArea := decimal.NewFromInt(int64(sheetW)).Div(thousand).Mul(decimal.NewFromInt(int64(sheetH)).Div(thousand))
	quote.AreaSQM = sheetArea.Mul(sheetsDec)

	total = applyFinishings(quote, inputs, total)
	quote.Total = total.Round(2)
	return quote, nil
}

func priceLargeFormat(inputs *resolver.Inputs) (*Quote, error) {
	switch {
	case inputs.Material == nil:
		return nil, errors.Inconsistency("large-format pricing without a resolved material")
	case inputs.WidthMM <= 0 || inputs.HeightMM <= 0:
		return nil, errors.Inconsistency("large-format pricing without resolved dimensions")
	}

	area := decimal.NewFromInt(int64(inputs.WidthMM)).Div(thousand).
		Mul(decimal.NewFromInt(int64(inputs.HeightMM)).Div(thousand)).
		Mul(decimal.NewFromInt(int64(inputs.Quantity)))

	quote := &Quote{AreaSQM: area}

	base := inputs.Material.SellingPrice.Mul(area)
	quote.Lines = append(quote.Lines, Line{
		Description: fmt.Sprintf("Material: %s", inputs.Material.Name),
		Quantity:    area,
		UnitPrice:   inputs.Material.SellingPrice,
		Amount:      base,
	})

	total := applyFinishings(quote, inputs, base)
	quote.Total = total.Round(2)
	return quote, nil
}

// applyFinishings adds each selected finishing charge per its charge unit and
// appends breakdown lines for non-zero charges.
func applyFinishings(quote *Quote, inputs *resolver.Inputs, total decimal.Decimal) decimal.Decimal {
	for _, fin := range inputs.Finishings {
		cost := finishingCost(fin, inputs, quote)
		if cost.IsZero() {
			continue
		}
		quote.Lines = append(quote.Lines, Line{
			Description: fmt.Sprintf("Finishing: %s", fin.Rate.Name),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   cost,
			Amount:      cost,
		})
		total = total.Add(cost)
	}
	return total
}

func finishingCost(fin resolver.Finishing, inputs *resolver.Inputs, quote *Quote) decimal.Decimal {
	rate := fin.Rate
	sidesCount := inputs.Sides.Count()
	qty := decimal.NewFromInt(int64(inputs.Quantity))

	priceSingle := rate.Price
	priceForSides := rate.PriceForSides(sidesCount)
	if fin.PriceOverride != nil {
		priceSingle = *fin.PriceOverride
		priceForSides = priceSingle
		if sidesCount == 2 {
			priceForSides = priceSingle.Mul(two)
		}
	}

	switch rate.ChargeUnit {
	case types.ChargePerPiece:
		return priceForSides.Mul(qty)
	case types.ChargePerSide:
		return priceSingle.Mul(qty).Mul(decimal.NewFromInt(int64(sidesCount)))
	case types.ChargePerSheet:
		sheets := quote.Sheets
		if sheets <= 0 {
			sheets = inputs.Quantity
			if sheets < 1 {
				sheets = 1
			}
		}
		return rate.Price.Mul(decimal.NewFromInt(int64(sheets))).Add(rate.SetupFee)
	case types.ChargePerSQM:
		return rate.Price.Mul(quote.AreaSQM)
	case types.ChargeFlat:
		return priceForSides.Add(rate.SetupFee)
	default:
		return decimal.Zero
	}
}

func sidesLabel(s types.Sides) string {
	if s == types.SidesDouble {
		return "Double"
	}
	return "Single"
}
