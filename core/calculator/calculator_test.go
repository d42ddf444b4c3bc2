package calculator

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"printshop-pricing/core/resolver"
	"printshop-pricing/core/types"
	"printshop-pricing/internal/errors"
)

func sheetInputs() *resolver.Inputs {
	return &resolver.Inputs{
		Product: &types.Product{
			ID: 1, Type: types.ProductSheet,
			DefaultFinishedWidthMM: 300, DefaultFinishedHeightMM: 430,
		},
		Quantity: 100,
		WidthMM:  300,
		HeightMM: 430,
		Paper: &types.Paper{
			ID: 10, SheetSize: types.SheetSRA3, GSM: 300,
			SellingPrice: decimal.NewFromInt(5), IsActive: true,
		},
		Machine: &types.Machine{ID: 20, Name: "Ricoh C7200", IsActive: true},
		Rate: &types.PrintingRate{
			ID: 100, SheetSize: types.SheetSRA3, ColorMode: types.ColorColor,
			SinglePrice: decimal.NewFromInt(2), DoublePrice: decimal.NewFromFloat(3.5), IsActive: true,
		},
		ColorMode: types.ColorColor,
		Sides:     types.SidesSingle,
	}
}

func largeFormatInputs() *resolver.Inputs {
	return &resolver.Inputs{
		Product:  &types.Product{ID: 2, Type: types.ProductLargeFormat},
		Quantity: 2,
		WidthMM:  1000,
		HeightMM: 2000,
		Material: &types.Material{ID: 30, Name: "Vinyl", SellingPrice: decimal.NewFromInt(350), IsActive: true},
	}
}

func assertTotal(t *testing.T, quote *Quote, want string) {
	t.Helper()
	if quote.Total.String() != want {
		t.Errorf("Total = %s, want %s", quote.Total, want)
	}
}

func TestPriceSheetOneUp(t *testing.T) {
	// 300x430 fills an SRA3 sheet: 100 pieces = 100 sheets at (5.00 + 2.00).
	quote, err := Price(sheetInputs())
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	assertTotal(t, quote, "700")
	if quote.Sheets != 100 {
		t.Errorf("Sheets = %d, want 100", quote.Sheets)
	}
	if len(quote.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(quote.Lines))
	}
	if !strings.HasPrefix(quote.Lines[0].Description, "Paper: SRA3 300gsm") {
		t.Errorf("paper line = %q", quote.Lines[0].Description)
	}
	if quote.Lines[1].Description != "Printing: COLOR Single" {
		t.Errorf("printing line = %q", quote.Lines[1].Description)
	}
}

func TestPriceSheetImposition(t *testing.T) {
	// 90x54 cards run 21-up: 1000 pieces need 48 sheets.
	inputs := sheetInputs()
	inputs.WidthMM, inputs.HeightMM = 90, 54
	inputs.Quantity = 1000

	quote, err := Price(inputs)
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	if quote.Sheets != 48 {
		t.Errorf("Sheets = %d, want 48", quote.Sheets)
	}
	assertTotal(t, quote, "336")
}

func TestPriceSheetDoubleSided(t *testing.T) {
	inputs := sheetInputs()
	inputs.Sides = types.SidesDouble

	quote, err := Price(inputs)
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	// (5.00 + 3.50) x 100 sheets.
	assertTotal(t, quote, "850")
}

func TestPriceLargeFormat(t *testing.T) {
	quote, err := Price(largeFormatInputs())
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	// 1m x 2m x 2 pieces = 4 sqm at 350.00.
	assertTotal(t, quote, "1400")
	if quote.AreaSQM.String() != "4" {
		t.Errorf("AreaSQM = %s, want 4", quote.AreaSQM)
	}
}

func TestPriceFinishingChargeUnits(t *testing.T) {
	dsp := decimal.NewFromFloat(1.5)
	override := decimal.NewFromFloat(0.5)

	tests := []struct {
		name   string
		inputs func() *resolver.Inputs
		fin    resolver.Finishing
		want   string
	}{
		{
			name:   "per piece single",
			inputs: sheetInputs,
			fin: resolver.Finishing{Rate: &types.FinishingRate{
				Name: "Lamination", ChargeUnit: types.ChargePerPiece, Price: decimal.NewFromInt(1), IsActive: true,
			}},
			// 700 + 1.00 x 100 pieces.
			want: "800",
		},
		{
			name: "per piece double defaults to twice the price",
			inputs: func() *resolver.Inputs {
				in := sheetInputs()
				in.Sides = types.SidesDouble
				return in
			},
			fin: resolver.Finishing{Rate: &types.FinishingRate{
				Name: "Lamination", ChargeUnit: types.ChargePerPiece, Price: decimal.NewFromInt(1), IsActive: true,
			}},
			// 850 + 2.00 x 100.
			want: "1050",
		},
		{
			name: "per piece double with explicit double price",
			inputs: func() *resolver.Inputs {
				in := sheetInputs()
				in.Sides = types.SidesDouble
				return in
			},
			fin: resolver.Finishing{Rate: &types.FinishingRate{
				Name: "Lamination", ChargeUnit: types.ChargePerPiece, Price: decimal.NewFromInt(1),
				DoubleSidePrice: &dsp, IsActive: true,
			}},
			// 850 + 1.50 x 100.
			want: "1000",
		},
		{
			name:   "per side",
			inputs: sheetInputs,
			fin: resolver.Finishing{Rate: &types.FinishingRate{
				Name: "Varnish", ChargeUnit: types.ChargePerSide, Price: decimal.NewFromInt(1), IsActive: true,
			}},
			// 700 + 1.00 x 100 x 1 side.
			want: "800",
		},
		{
			name:   "per sheet with setup fee",
			inputs: sheetInputs,
			fin: resolver.Finishing{Rate: &types.FinishingRate{
				Name: "Scoring", ChargeUnit: types.ChargePerSheet,
				Price: decimal.NewFromFloat(0.5), SetupFee: decimal.NewFromInt(10), IsActive: true,
			}},
			// 700 + 0.50 x 100 sheets + 10.00.
			want: "760",
		},
		{
			name:   "flat with setup fee",
			inputs: sheetInputs,
			fin: resolver.Finishing{Rate: &types.FinishingRate{
				Name: "Design", ChargeUnit: types.ChargeFlat,
				Price: decimal.NewFromInt(50), SetupFee: decimal.NewFromInt(20), IsActive: true,
			}},
			want: "770",
		},
		{
			name:   "per sqm on sheet charges the consumed sheet area",
			inputs: sheetInputs,
			fin: resolver.Finishing{Rate: &types.FinishingRate{
				Name: "Gloss coat", ChargeUnit: types.ChargePerSQM, Price: decimal.NewFromInt(25), IsActive: true,
			}},
			// 700 + 25.00 x (0.32m x 0.45m x 100 sheets) = 700 + 360.
			want: "1060",
		},
		{
			name:   "per sqm on large format",
			inputs: largeFormatInputs,
			fin: resolver.Finishing{Rate: &types.FinishingRate{
				Name: "Eyelets", ChargeUnit: types.ChargePerSQM, Price: decimal.NewFromInt(25), IsActive: true,
			}},
			// 1400 + 25.00 x 4 sqm.
			want: "1500",
		},
		{
			name:   "price override replaces the rate price",
			inputs: sheetInputs,
			fin: resolver.Finishing{
				Rate: &types.FinishingRate{
					Name: "Lamination", ChargeUnit: types.ChargePerPiece, Price: decimal.NewFromInt(1), IsActive: true,
				},
				PriceOverride: &override,
			},
			// 700 + 0.50 x 100.
			want: "750",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := tt.inputs()
			inputs.Finishings = []resolver.Finishing{tt.fin}
			quote, err := Price(inputs)
			if err != nil {
				t.Fatalf("Price() error = %v", err)
			}
			assertTotal(t, quote, tt.want)
		})
	}
}

func TestPriceCustomSheetSizeWithExplicitDimensions(t *testing.T) {
	inputs := sheetInputs()
	inputs.Paper = &types.Paper{
		ID: 13, SheetSize: "A5", GSM: 200, WidthMM: 320, HeightMM: 450,
		SellingPrice: decimal.NewFromInt(5), IsActive: true,
	}

	quote, err := Price(inputs)
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	assertTotal(t, quote, "700")
	if quote.Sheets != 100 {
		t.Errorf("Sheets = %d, want 100", quote.Sheets)
	}
}

func TestPriceZeroFinishingAddsNoLine(t *testing.T) {
	inputs := sheetInputs()
	inputs.Finishings = []resolver.Finishing{{Rate: &types.FinishingRate{
		Name: "Free trim", ChargeUnit: types.ChargePerPiece, Price: decimal.Zero, IsActive: true,
	}}}

	quote, err := Price(inputs)
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	assertTotal(t, quote, "700")
	if len(quote.Lines) != 2 {
		t.Errorf("len(Lines) = %d, want 2 (no finishing line)", len(quote.Lines))
	}
}

func TestPriceViolatedPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*resolver.Inputs)
	}{
		{"nil paper", func(in *resolver.Inputs) { in.Paper = nil }},
		{"nil rate", func(in *resolver.Inputs) { in.Rate = nil }},
		{"no sides", func(in *resolver.Inputs) { in.Sides = "" }},
		{"no dimensions", func(in *resolver.Inputs) { in.WidthMM = 0 }},
		{"zero quantity", func(in *resolver.Inputs) { in.Quantity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := sheetInputs()
			tt.mutate(inputs)
			_, err := Price(inputs)
			if !errors.IsType(err, errors.TypeInconsistency) {
				t.Errorf("Price() error = %v, want INTERNAL_INCONSISTENCY", err)
			}
		})
	}
}
