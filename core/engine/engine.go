// Package engine aggregates per-item pricing diagnostics for quote drafts and
// computes catalog price hints.
//
// The engine is a pure function of the shop configuration snapshot and the
// draft: it performs no I/O, holds no state between calls, and is safe for
// concurrent use across shops and drafts. Two calls on unchanged inputs yield
// identical output.
package engine

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"printshop-pricing/core/calculator"
	"printshop-pricing/core/diagnostics"
	"printshop-pricing/core/resolver"
	"printshop-pricing/core/types"
	"printshop-pricing/internal/errors"
)

// Line is one wire-format breakdown entry.
type Line struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// ItemReport is the per-item entry of the item_diagnostics map.
type ItemReport struct {
	CanCalculate  bool                     `json:"can_calculate"`
	MissingFields []string                 `json:"missing_fields"`
	Suggestions   []diagnostics.Suggestion `json:"suggestions"`
	Reason        *string                  `json:"reason"`
}

// PricingDiagnostics is the full preview-price response for a quote draft.
// Field names are fixed for frontend compatibility.
type PricingDiagnostics struct {
	CanCalculate       bool                     `json:"can_calculate"`
	Total              float64                  `json:"total"`
	Lines              []Line                   `json:"lines"`
	NeedsReviewItems   []int64                  `json:"needs_review_items"`
	MissingFields      []string                 `json:"missing_fields"`
	Reason             *string                  `json:"reason"`
	Suggestions        []diagnostics.Suggestion `json:"suggestions"`
	ItemDiagnostics    map[string]ItemReport    `json:"item_diagnostics"`
	ItemsMissingFields map[string][]string      `json:"items_missing_fields"`
	Currency           string                   `json:"currency"`
}

// AlternativesFunc expands one resolved item into additional candidate input
// sets (alternative paper or machine choices). The engine prices every
// returned set and reports min/max across the selected inputs plus the
// alternatives. This is the extension point for "flexible" items; the default
// (nil) prices only the selected inputs, so min equals max.
type AlternativesFunc func(cfg *types.ShopConfig, item *types.QuoteDraftItem, base resolver.Inputs) []resolver.Inputs

// Engine prices drafts against shop configuration snapshots.
type Engine struct {
	Alternatives AlternativesFunc
}

// New returns an engine with default (no alternatives) behavior.
func New() *Engine {
	return &Engine{}
}

// PreviewDraft folds per-item diagnostics across all draft items into one
// PricingDiagnostics. Items must carry unique ids. Business-level
// incompleteness never fails the call; only an unknown product, a duplicate
// item id, or a resolver/calculator contract violation does.
func (e *Engine) PreviewDraft(cfg *types.ShopConfig, draft *types.QuoteDraft) (*PricingDiagnostics, error) {
	if draft.ShopID != 0 && draft.ShopID != cfg.Shop.ID {
		return nil, errors.Newf(errors.TypeInput, "draft %d does not belong to shop %d", draft.ID, cfg.Shop.ID)
	}

	out := &PricingDiagnostics{
		Lines:              []Line{},
		NeedsReviewItems:   []int64{},
		MissingFields:      []string{},
		Suggestions:        []diagnostics.Suggestion{},
		ItemDiagnostics:    map[string]ItemReport{},
		ItemsMissingFields: map[string][]string{},
		Currency:           cfg.Shop.Currency,
	}

	total := decimal.Zero
	seenMissing := map[string]bool{}
	seenSuggestions := map[string]bool{}
	seenItems := map[int64]bool{}

	for i := range draft.Items {
		item := &draft.Items[i]

		// Item ids key the per-item diagnostic maps; duplicates would
		// silently overwrite each other.
		if seenItems[item.ID] {
			return nil, errors.Newf(errors.TypeInput, "draft %d has duplicate item id %d", draft.ID, item.ID)
		}
		seenItems[item.ID] = true

		diag, lines, maxPrice, err := e.previewItem(cfg, item)
		if err != nil {
			return nil, err
		}
		key := strconv.FormatInt(item.ID, 10)

		out.ItemDiagnostics[key] = ItemReport{
			CanCalculate:  diag.CanCalculate,
			MissingFields: diag.MissingFields,
			Suggestions:   diag.Suggestions,
			Reason:        diag.Reason,
		}
		out.ItemsMissingFields[key] = diag.MissingFields

		if diag.CanCalculate {
			total = total.Add(maxPrice)
			out.Lines = append(out.Lines, lines...)
			continue
		}

		out.NeedsReviewItems = append(out.NeedsReviewItems, item.ID)
		for _, name := range diag.MissingFields {
			if !seenMissing[name] {
				seenMissing[name] = true
				out.MissingFields = append(out.MissingFields, name)
			}
		}
		for _, s := range diag.Suggestions {
			if k := s.Key(); !seenSuggestions[k] {
				seenSuggestions[k] = true
				out.Suggestions = append(out.Suggestions, s)
			}
		}
	}

	out.CanCalculate = len(out.NeedsReviewItems) == 0
	out.Total = total.InexactFloat64()
	if n := len(out.NeedsReviewItems); n > 0 {
		reason := fmt.Sprintf("%d item(s) need more details to calculate.", n)
		out.Reason = &reason
	}
	return out, nil
}

// PreviewItem returns the full per-item diagnostic (including prices) for one
// draft item, along with its breakdown lines.
func (e *Engine) PreviewItem(cfg *types.ShopConfig, item *types.QuoteDraftItem) (*diagnostics.ItemDiagnostics, []Line, error) {
	diag, lines, _, err := e.previewItem(cfg, item)
	if err != nil {
		return nil, nil, err
	}
	return &diag, lines, nil
}

func (e *Engine) previewItem(cfg *types.ShopConfig, item *types.QuoteDraftItem) (diagnostics.ItemDiagnostics, []Line, decimal.Decimal, error) {
	res, err := resolver.Resolve(cfg, item)
	if err != nil {
		return diagnostics.ItemDiagnostics{}, nil, decimal.Zero, err
	}

	if !res.Resolved() {
		ctx := diagnostics.ContextFor(cfg.Shop.ID, res)
		return diagnostics.NotCalculable(res, ctx), nil, decimal.Zero, nil
	}

	quote, err := calculator.Price(&res.Inputs)
	if err != nil {
		return diagnostics.ItemDiagnostics{}, nil, decimal.Zero, err
	}

	min, max := quote.Total, quote.Total
	if e.Alternatives != nil {
		for _, alt := range e.Alternatives(cfg, item, res.Inputs) {
			altQuote, err := calculator.Price(&alt)
			if err != nil {
				return diagnostics.ItemDiagnostics{}, nil, decimal.Zero, err
			}
			if altQuote.Total.LessThan(min) {
				min = altQuote.Total
			}
			if altQuote.Total.GreaterThan(max) {
				max = altQuote.Total
			}
		}
	}

	return diagnostics.Calculable(min, max), convertLines(quote.Lines), max, nil
}

func convertLines(lines []calculator.Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, Line{
			Description: l.Description,
			Quantity:    l.Quantity.InexactFloat64(),
			UnitPrice:   l.UnitPrice.InexactFloat64(),
			Amount:      l.Amount.Round(2).InexactFloat64(),
		})
	}
	return out
}
