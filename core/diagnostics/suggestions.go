// Package diagnostics turns missing configuration into actionable guidance.
//
// Every missing FieldTag maps to exactly one suggestion code, and every
// suggestion addresses a concrete shop resource screen. Codes and target
// field names are a compatibility contract with frontends; renaming any of
// them is a breaking change.
package diagnostics

import (
	"fmt"

	"printshop-pricing/core/types"
)

// Suggestion codes. Frontends pattern-match on these.
const (
	CodeAddPaper        = "ADD_PAPER"
	CodeAddPrintingRate = "ADD_PRINTING_RATE"
	CodeAddDimensions   = "ADD_DIMENSIONS"
	CodeSelectMachine   = "SELECT_MACHINE"
	CodeSelectSides     = "SELECT_SIDES"
	CodeSelectColorMode = "SELECT_COLOR_MODE"
)

// Target resources. "options" is the sentinel for item-level option gaps that
// are fixed on the quote form rather than a shop resource screen.
const (
	ResourcePapers        = "papers"
	ResourcePrintingRates = "printing_rates"
	ResourceDimensions    = "dimensions"
	ResourceOptions       = "options"
)

// Target addresses the resource the user should visit to fix a gap.
type Target struct {
	Resource string `json:"resource"`
	ShopID   int64  `json:"shop_id"`

	// Resource-identifying hints, set when known.
	SheetSize string `json:"sheet_size,omitempty"`
	GSM       int    `json:"gsm,omitempty"`
	Machine   string `json:"machine,omitempty"`
	ColorMode string `json:"color_mode,omitempty"`

	// Field names the item field to choose for option gaps.
	Field string `json:"field,omitempty"`
}

// Suggestion is a structured, resource-addressed remediation hint.
type Suggestion struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Target  Target `json:"target"`
}

// Key returns the value-equality key used to deduplicate suggestions across
// items: code plus the full target.
func (s Suggestion) Key() string {
	t := s.Target
	return fmt.Sprintf("%s|%s|%d|%s|%d|%s|%s|%s", s.Code, t.Resource, t.ShopID, t.SheetSize, t.GSM, t.Machine, t.ColorMode, t.Field)
}

// Context carries what is known about the failing item so messages and
// targets can name the specific missing attribute.
type Context struct {
	ShopID  int64
	Product *types.Product

	// Set when the corresponding input resolved.
	Paper     *types.Paper
	Machine   *types.Machine
	SheetSize types.SheetSize
	ColorMode types.ColorMode

	// Catalog marks product price-hint context, where option gaps read as
	// shop setup gaps rather than quote form gaps.
	Catalog bool
}

// ForTag maps one missing tag to its suggestion. The tag→code mapping is
// fixed; only messages and target hints vary with context.
func ForTag(tag types.FieldTag, ctx Context) Suggestion {
	switch tag {
	case types.FieldPaper:
		return paperSuggestion(ctx)
	case types.FieldMaterial:
		// Reuses the paper code with a material-specific message.
		return Suggestion{
			Code:    CodeAddPaper,
			Message: "Add material with selling price under Shop → Materials.",
			Target:  Target{Resource: ResourcePapers, ShopID: ctx.ShopID},
		}
	case types.FieldMachine:
		msg := "Select machine for this item."
		if ctx.Catalog {
			msg = "Add a machine under Shop → Machines."
		}
		return Suggestion{
			Code:    CodeSelectMachine,
			Message: msg,
			Target:  Target{Resource: ResourceOptions, ShopID: ctx.ShopID, Field: "machine"},
		}
	case types.FieldPrintingRate:
		return printingRateSuggestion(ctx)
	case types.FieldDimensions:
		return dimensionsSuggestion(ctx)
	case types.FieldColorMode:
		return Suggestion{
			Code:    CodeSelectColorMode,
			Message: "Choose color: Black & White or Color.",
			Target:  Target{Resource: ResourceOptions, ShopID: ctx.ShopID, Field: "color_mode"},
		}
	case types.FieldSides:
		return Suggestion{
			Code:    CodeSelectSides,
			Message: "Choose sides: Single or Double.",
			Target:  Target{Resource: ResourceOptions, ShopID: ctx.ShopID, Field: "sides"},
		}
	default:
		return Suggestion{
			Code:    CodeAddPaper,
			Message: "Complete shop pricing setup.",
			Target:  Target{Resource: ResourcePapers, ShopID: ctx.ShopID},
		}
	}
}

func paperSuggestion(ctx Context) Suggestion {
	target := Target{Resource: ResourcePapers, ShopID: ctx.ShopID}
	msg := "Add paper selling price under Shop → Papers."
	if ctx.Catalog {
		msg = "Add paper with selling price under Shop → Papers."
	}
	if ctx.Paper != nil {
		msg = fmt.Sprintf("Add paper selling price for %s %dgsm under Shop → Papers.", ctx.Paper.SheetSize, ctx.Paper.GSM)
		target.SheetSize = string(ctx.Paper.SheetSize)
		target.GSM = ctx.Paper.GSM
		if ctx.Paper.HasSellingPrice() {
			if w, h := ctx.Paper.Dimensions(); w <= 0 || h <= 0 {
				msg = fmt.Sprintf("Add sheet dimensions (width/height mm) for %s %dgsm under Shop → Papers.", ctx.Paper.SheetSize, ctx.Paper.GSM)
			}
		}
	}
	return Suggestion{Code: CodeAddPaper, Message: msg, Target: target}
}

func printingRateSuggestion(ctx Context) Suggestion {
	machineName := "machine"
	target := Target{Resource: ResourcePrintingRates, ShopID: ctx.ShopID}
	if ctx.Machine != nil {
		machineName = ctx.Machine.Name
		target.Machine = ctx.Machine.Name
	}
	sheetSize := "each sheet size"
	if ctx.SheetSize != "" {
		sheetSize = string(ctx.SheetSize)
		target.SheetSize = string(ctx.SheetSize)
	}
	color := types.ColorColor
	if ctx.ColorMode != "" {
		color = ctx.ColorMode
	}
	target.ColorMode = string(color)
	return Suggestion{
		Code:    CodeAddPrintingRate,
		Message: fmt.Sprintf("Set %s printing rate for %s %s (single/double) under Machine → Printing Rates.", machineName, sheetSize, color),
		Target:  target,
	}
}

func dimensionsSuggestion(ctx Context) Suggestion {
	msg := "Add finished size so pieces per sheet can be computed."
	if ctx.Product != nil && ctx.Product.Type == types.ProductLargeFormat {
		msg = "Add artwork size (width x height) so area and finishing can be computed."
	}
	return Suggestion{
		Code:    CodeAddDimensions,
		Message: msg,
		Target:  Target{Resource: ResourceDimensions, ShopID: ctx.ShopID},
	}
}
