package resolver

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"printshop-pricing/core/types"
	"printshop-pricing/internal/errors"
)

func testConfig() *types.ShopConfig {
	return &types.ShopConfig{
		Shop: types.Shop{ID: 1, Name: "Kwik Print", Currency: "KES"},
		Products: []types.Product{
			{
				ID: 1, ShopID: 1, Name: "Business Cards", Type: types.ProductSheet,
				DefaultFinishedWidthMM: 90, DefaultFinishedHeightMM: 54,
				MinQuantity: 50,
			},
			{
				ID: 2, ShopID: 1, Name: "Banner", Type: types.ProductLargeFormat,
				DefaultFinishedWidthMM: 1000, DefaultFinishedHeightMM: 1000,
				MinWidthMM: 600, MinHeightMM: 900,
			},
		},
		Papers: []types.Paper{
			{ID: 10, ShopID: 1, SheetSize: types.SheetSRA3, GSM: 300, SellingPrice: decimal.NewFromInt(5), IsActive: true},
			{ID: 11, ShopID: 1, SheetSize: types.SheetA3, GSM: 150, IsActive: true},
			{ID: 12, ShopID: 1, SheetSize: types.SheetSRA3, GSM: 200, SellingPrice: decimal.NewFromInt(4), IsActive: false},
		},
		Materials: []types.Material{
			{ID: 30, ShopID: 1, Name: "Vinyl", SellingPrice: decimal.NewFromInt(350), IsActive: true},
		},
		Machines: []types.Machine{
			{
				ID: 20, ShopID: 1, Name: "Ricoh C7200", IsActive: true,
				Rates: []types.PrintingRate{
					{ID: 100, MachineID: 20, SheetSize: types.SheetSRA3, ColorMode: types.ColorColor,
						SinglePrice: decimal.NewFromInt(2), DoublePrice: decimal.NewFromFloat(3.5), IsActive: true},
				},
			},
		},
		FinishingRates: []types.FinishingRate{
			{ID: 40, ShopID: 1, Name: "Lamination", ChargeUnit: types.ChargePerPiece, Price: decimal.NewFromInt(1), IsActive: true},
		},
	}
}

func TestResolveCompleteSheetItem(t *testing.T) {
	cfg := testConfig()
	item := &types.QuoteDraftItem{
		ID: 1, ProductID: 1, PaperID: 10, MachineID: 20,
		ColorMode: types.ColorColor, Sides: types.SidesSingle, Quantity: 100,
	}

	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !res.Resolved() {
		t.Fatalf("Resolved() = false, missing %v", res.MissingNames())
	}
	if res.Inputs.Quantity != 100 {
		t.Errorf("Quantity = %d, want 100", res.Inputs.Quantity)
	}
	if res.Inputs.Paper == nil || res.Inputs.Paper.ID != 10 {
		t.Errorf("Paper = %+v, want paper 10", res.Inputs.Paper)
	}
	if res.Inputs.Rate == nil || res.Inputs.Rate.ID != 100 {
		t.Errorf("Rate = %+v, want rate 100", res.Inputs.Rate)
	}
	if res.Inputs.WidthMM != 90 || res.Inputs.HeightMM != 54 {
		t.Errorf("dims = %dx%d, want 90x54", res.Inputs.WidthMM, res.Inputs.HeightMM)
	}
}

func TestResolveQuantityDefaults(t *testing.T) {
	cfg := testConfig()

	item := &types.QuoteDraftItem{ID: 1, ProductID: 1}
	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Inputs.Quantity != 50 {
		t.Errorf("Quantity = %d, want product min_quantity 50", res.Inputs.Quantity)
	}

	// Product without a minimum falls back to 1.
	cfg.Products[0].MinQuantity = 0
	res, err = Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Inputs.Quantity != 1 {
		t.Errorf("Quantity = %d, want 1", res.Inputs.Quantity)
	}

	// Quantity is never reported as a missing field.
	for _, name := range res.MissingNames() {
		if name == "QUANTITY" {
			t.Error("quantity reported missing")
		}
	}
}

func TestResolveAutoSelectsSingleMachine(t *testing.T) {
	cfg := testConfig()
	item := &types.QuoteDraftItem{
		ID: 1, ProductID: 1, PaperID: 10,
		ColorMode: types.ColorColor, Sides: types.SidesSingle, Quantity: 100,
	}

	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !res.Resolved() {
		t.Fatalf("Resolved() = false, missing %v", res.MissingNames())
	}
	if res.Inputs.Machine == nil || res.Inputs.Machine.ID != 20 {
		t.Errorf("Machine = %+v, want auto-selected machine 20", res.Inputs.Machine)
	}
	if item.MachineID != 0 {
		t.Error("auto-select mutated the item")
	}
}

func TestResolveTwoMachinesNeedsSelection(t *testing.T) {
	cfg := testConfig()
	cfg.Machines = append(cfg.Machines, types.Machine{ID: 21, ShopID: 1, Name: "Xerox Versant", IsActive: true})

	item := &types.QuoteDraftItem{
		ID: 1, ProductID: 1, PaperID: 10,
		ColorMode: types.ColorColor, Sides: types.SidesSingle, Quantity: 100,
	}
	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := res.MissingNames(); !reflect.DeepEqual(got, []string{"MACHINE"}) {
		t.Errorf("MissingNames() = %v, want [MACHINE]", got)
	}
}

func TestResolveInvalidSelectionsDegradeToMissing(t *testing.T) {
	cfg := testConfig()
	tests := []struct {
		name    string
		paperID int64
		want    string
	}{
		{"unknown paper", 999, "PAPER"},
		{"inactive paper", 12, "PAPER"},
		{"paper without selling price", 11, "PAPER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &types.QuoteDraftItem{
				ID: 1, ProductID: 1, PaperID: tt.paperID, MachineID: 20,
				ColorMode: types.ColorColor, Sides: types.SidesSingle, Quantity: 100,
			}
			res, err := Resolve(cfg, item)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := res.MissingNames(); !reflect.DeepEqual(got, []string{tt.want}) {
				t.Errorf("MissingNames() = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestResolvePaperWithoutSheetDimensions(t *testing.T) {
	cfg := testConfig()
	// Custom sheet size: no named fallback, no explicit width/height.
	cfg.Papers = append(cfg.Papers, types.Paper{
		ID: 13, ShopID: 1, SheetSize: "A5", GSM: 200,
		SellingPrice: decimal.NewFromInt(3), IsActive: true,
	})

	item := &types.QuoteDraftItem{
		ID: 1, ProductID: 1, PaperID: 13, MachineID: 20,
		ColorMode: types.ColorColor, Sides: types.SidesSingle, Quantity: 100,
	}
	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Resolved() {
		t.Fatal("Resolved() = true for a paper without sheet dimensions")
	}
	for _, name := range res.MissingNames() {
		if name == "PAPER" {
			return
		}
	}
	t.Errorf("MissingNames() = %v, want PAPER reported", res.MissingNames())
}

func TestResolvePaperWithExplicitDimensions(t *testing.T) {
	cfg := testConfig()
	cfg.Papers = append(cfg.Papers, types.Paper{
		ID: 13, ShopID: 1, SheetSize: "A5", GSM: 200, WidthMM: 160, HeightMM: 230,
		SellingPrice: decimal.NewFromInt(3), IsActive: true,
	})
	cfg.Machines[0].Rates = append(cfg.Machines[0].Rates, types.PrintingRate{
		ID: 101, MachineID: 20, SheetSize: "A5", ColorMode: types.ColorColor,
		SinglePrice: decimal.NewFromInt(1), IsActive: true,
	})

	item := &types.QuoteDraftItem{
		ID: 1, ProductID: 1, PaperID: 13, MachineID: 20,
		ColorMode: types.ColorColor, Sides: types.SidesSingle, Quantity: 100,
	}
	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !res.Resolved() {
		t.Errorf("Resolved() = false, missing %v", res.MissingNames())
	}
}

func TestResolveMissingPrintingRate(t *testing.T) {
	cfg := testConfig()
	// Machine has no BW rate for SRA3.
	item := &types.QuoteDraftItem{
		ID: 1, ProductID: 1, PaperID: 10, MachineID: 20,
		ColorMode: types.ColorBW, Sides: types.SidesSingle, Quantity: 100,
	}
	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := res.MissingNames(); !reflect.DeepEqual(got, []string{"PRINTING_RATE"}) {
		t.Errorf("MissingNames() = %v, want [PRINTING_RATE]", got)
	}
}

func TestResolveZeroSidePriceIsMissingRate(t *testing.T) {
	cfg := testConfig()
	cfg.Machines[0].Rates[0].DoublePrice = decimal.Zero

	item := &types.QuoteDraftItem{
		ID: 1, ProductID: 1, PaperID: 10, MachineID: 20,
		ColorMode: types.ColorColor, Sides: types.SidesDouble, Quantity: 100,
	}
	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := res.MissingNames(); !reflect.DeepEqual(got, []string{"PRINTING_RATE"}) {
		t.Errorf("MissingNames() = %v, want [PRINTING_RATE]", got)
	}
}

func TestResolveMissingTagsInDeclarationOrder(t *testing.T) {
	cfg := testConfig()
	cfg.Machines = nil

	// Sides and color are discovered before the machine gap would be, but the
	// report still leads with PAPER and MACHINE.
	item := &types.QuoteDraftItem{ID: 1, ProductID: 1, Quantity: 100}
	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"PAPER", "MACHINE", "COLOR_MODE", "SIDES"}
	if got := res.MissingNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("MissingNames() = %v, want %v", got, want)
	}
}

func TestResolveLargeFormatDimensionChain(t *testing.T) {
	cfg := testConfig()
	tests := []struct {
		name             string
		chosenW, chosenH int
		wantW, wantH     int
	}{
		{"chosen size wins", 2000, 1000, 2000, 1000},
		{"minimum size overrides defaults", 0, 0, 600, 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &types.QuoteDraftItem{
				ID: 1, ProductID: 2, MaterialID: 30, Quantity: 1,
				ChosenWidthMM: tt.chosenW, ChosenHeightMM: tt.chosenH,
			}
			res, err := Resolve(cfg, item)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !res.Resolved() {
				t.Fatalf("Resolved() = false, missing %v", res.MissingNames())
			}
			if res.Inputs.WidthMM != tt.wantW || res.Inputs.HeightMM != tt.wantH {
				t.Errorf("dims = %dx%d, want %dx%d", res.Inputs.WidthMM, res.Inputs.HeightMM, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResolveLargeFormatMissingMaterial(t *testing.T) {
	cfg := testConfig()
	item := &types.QuoteDraftItem{ID: 1, ProductID: 2, Quantity: 1}
	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := res.MissingNames(); !reflect.DeepEqual(got, []string{"MATERIAL"}) {
		t.Errorf("MissingNames() = %v, want [MATERIAL]", got)
	}
}

func TestResolveUnknownProduct(t *testing.T) {
	cfg := testConfig()
	_, err := Resolve(cfg, &types.QuoteDraftItem{ID: 1, ProductID: 999})
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("Resolve() error = %v, want NOT_FOUND", err)
	}
}

func TestResolveDropsUnknownFinishings(t *testing.T) {
	cfg := testConfig()
	item := &types.QuoteDraftItem{
		ID: 1, ProductID: 1, PaperID: 10, MachineID: 20,
		ColorMode: types.ColorColor, Sides: types.SidesSingle, Quantity: 100,
		Finishings: []types.FinishingSelection{
			{FinishingRateID: 40},
			{FinishingRateID: 999},
		},
	}
	res, err := Resolve(cfg, item)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(res.Inputs.Finishings) != 1 || res.Inputs.Finishings[0].Rate.ID != 40 {
		t.Errorf("Finishings = %+v, want only rate 40", res.Inputs.Finishings)
	}
}
