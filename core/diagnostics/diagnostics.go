package diagnostics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"printshop-pricing/core/resolver"
	"printshop-pricing/core/types"
)

// ItemDiagnostics is the per-item pricing diagnostic. Field names are part of
// the wire contract.
type ItemDiagnostics struct {
	CanCalculate  bool         `json:"can_calculate"`
	MinPrice      *float64     `json:"min_price"`
	MaxPrice      *float64     `json:"max_price"`
	MissingFields []string     `json:"missing_fields"`
	Suggestions   []Suggestion `json:"suggestions"`
	Reason        *string      `json:"reason"`
}

// Calculable builds the diagnostic for an item that priced successfully.
func Calculable(min, max decimal.Decimal) ItemDiagnostics {
	minF := min.InexactFloat64()
	maxF := max.InexactFloat64()
	return ItemDiagnostics{
		CanCalculate:  true,
		MinPrice:      &minF,
		MaxPrice:      &maxF,
		MissingFields: []string{},
		Suggestions:   []Suggestion{},
	}
}

// NotCalculable builds the diagnostic for an item whose configuration is
// incomplete: one suggestion per missing tag, tags in declaration order, and
// a human-readable reason naming every gap.
func NotCalculable(res *resolver.Resolution, ctx Context) ItemDiagnostics {
	suggestions := make([]Suggestion, 0, len(res.Missing))
	for _, tag := range res.Missing {
		suggestions = append(suggestions, ForTag(tag, ctx))
	}
	reason := reasonFor(res.Missing, ctx)
	return ItemDiagnostics{
		CanCalculate:  false,
		MissingFields: res.MissingNames(),
		Suggestions:   suggestions,
		Reason:        &reason,
	}
}

// ContextFor derives the suggestion context from a resolution, so messages
// can name whatever did resolve (paper, machine, color mode).
func ContextFor(shopID int64, res *resolver.Resolution) Context {
	ctx := Context{
		ShopID:    shopID,
		Product:   res.Inputs.Product,
		Paper:     res.Inputs.Paper,
		Machine:   res.Inputs.Machine,
		ColorMode: res.Inputs.ColorMode,
	}
	if res.Inputs.Paper != nil {
		ctx.SheetSize = res.Inputs.Paper.SheetSize
	}
	return ctx
}

var reasonPhrases = map[types.FieldTag]string{
	types.FieldPaper:        "paper price",
	types.FieldMaterial:     "material price",
	types.FieldMachine:      "machine selection",
	types.FieldPrintingRate: "printing rate",
	types.FieldDimensions:   "dimensions",
	types.FieldColorMode:    "color mode",
	types.FieldSides:        "sides",
}

// reasonFor renders e.g. "Missing paper price and printing rate for SRA3 COLOR."
func reasonFor(missing []types.FieldTag, ctx Context) string {
	if len(missing) == 0 {
		return "Missing data to calculate price."
	}
	parts := make([]string, 0, len(missing))
	hasRate := false
	for _, tag := range missing {
		parts = append(parts, reasonPhrases[tag])
		if tag == types.FieldPrintingRate {
			hasRate = true
		}
	}

	suffix := ""
	if hasRate && ctx.SheetSize != "" {
		suffix = " for " + string(ctx.SheetSize)
		if ctx.ColorMode != "" {
			suffix += " " + string(ctx.ColorMode)
		}
	}
	return fmt.Sprintf("Missing %s%s.", joinAnd(parts), suffix)
}

func joinAnd(parts []string) string {
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
