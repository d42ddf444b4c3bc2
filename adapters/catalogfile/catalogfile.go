// Package catalogfile loads shop configuration snapshots from HCL files and
// quote drafts from JSON files, for offline CLI pricing.
package catalogfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"

	"printshop-pricing/core/types"
)

// File is the root of a shop catalog HCL file.
type File struct {
	Shop ShopBlock `hcl:"shop,block"`
}

// ShopBlock declares one shop and its pricing configuration.
type ShopBlock struct {
	ID       int64  `hcl:"id"`
	Name     string `hcl:"name"`
	Currency string `hcl:"currency,optional"`

	Papers         []PaperBlock     `hcl:"paper,block"`
	Materials      []MaterialBlock  `hcl:"material,block"`
	Machines       []MachineBlock   `hcl:"machine,block"`
	FinishingRates []FinishingBlock `hcl:"finishing_rate,block"`
	Products       []ProductBlock   `hcl:"product,block"`
}

// PaperBlock declares a press sheet stock.
type PaperBlock struct {
	ID           int64   `hcl:"id,optional"`
	SheetSize    string  `hcl:"sheet_size"`
	GSM          int     `hcl:"gsm,optional"`
	PaperType    string  `hcl:"paper_type,optional"`
	WidthMM      int     `hcl:"width_mm,optional"`
	HeightMM     int     `hcl:"height_mm,optional"`
	SellingPrice float64 `hcl:"selling_price,optional"`
}

// MaterialBlock declares a large-format material.
type MaterialBlock struct {
	ID           int64   `hcl:"id,optional"`
	Name         string  `hcl:"name"`
	SellingPrice float64 `hcl:"selling_price,optional"`
}

// MachineBlock declares a press with its printing rates.
type MachineBlock struct {
	ID    int64       `hcl:"id,optional"`
	Name  string      `hcl:"name"`
	Rates []RateBlock `hcl:"printing_rate,block"`
}

// RateBlock declares one (sheet size, color mode) printing rate.
type RateBlock struct {
	SheetSize   string  `hcl:"sheet_size"`
	ColorMode   string  `hcl:"color_mode"`
	SinglePrice float64 `hcl:"single_price,optional"`
	DoublePrice float64 `hcl:"double_price,optional"`
}

// FinishingBlock declares a finishing service rate.
type FinishingBlock struct {
	ID              int64    `hcl:"id,optional"`
	Name            string   `hcl:"name"`
	ChargeUnit      string   `hcl:"charge_unit"`
	Price           float64  `hcl:"price,optional"`
	DoubleSidePrice *float64 `hcl:"double_side_price,optional"`
	SetupFee        float64  `hcl:"setup_fee,optional"`
}

// ProductBlock declares a catalog product.
type ProductBlock struct {
	ID                      int64  `hcl:"id"`
	Name                    string `hcl:"name"`
	ProductType             string `hcl:"product_type"`
	DefaultFinishedWidthMM  int    `hcl:"default_finished_width_mm,optional"`
	DefaultFinishedHeightMM int    `hcl:"default_finished_height_mm,optional"`
	MinWidthMM              int    `hcl:"min_width_mm,optional"`
	MinHeightMM             int    `hcl:"min_height_mm,optional"`
	MinQuantity             int    `hcl:"min_quantity,optional"`
	MinGSM                  int    `hcl:"min_gsm,optional"`
	MaxGSM                  int    `hcl:"max_gsm,optional"`
}

// LoadShopConfig parses an HCL catalog file into a configuration snapshot.
func LoadShopConfig(path string) (*types.ShopConfig, error) {
	var f File
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return f.Shop.toConfig(), nil
}

func (b *ShopBlock) toConfig() *types.ShopConfig {
	currency := b.Currency
	if currency == "" {
		currency = "KES"
	}
	cfg := &types.ShopConfig{
		Shop: types.Shop{ID: b.ID, Name: b.Name, Currency: currency},
	}

	for i, p := range b.Papers {
		cfg.Papers = append(cfg.Papers, types.Paper{
			ID:           fallbackID(p.ID, i),
			ShopID:       b.ID,
			SheetSize:    types.SheetSize(p.SheetSize),
			GSM:          p.GSM,
			PaperType:    p.PaperType,
			WidthMM:      p.WidthMM,
			HeightMM:     p.HeightMM,
			SellingPrice: decimal.NewFromFloat(p.SellingPrice),
			IsActive:     true,
		})
	}
	for i, m := range b.Materials {
		cfg.Materials = append(cfg.Materials, types.Material{
			ID:           fallbackID(m.ID, i),
			ShopID:       b.ID,
			Name:         m.Name,
			SellingPrice: decimal.NewFromFloat(m.SellingPrice),
			IsActive:     true,
		})
	}
	for i, m := range b.Machines {
		machineID := fallbackID(m.ID, i)
		machine := types.Machine{
			ID:       machineID,
			ShopID:   b.ID,
			Name:     m.Name,
			IsActive: true,
		}
		for j, r := range m.Rates {
			machine.Rates = append(machine.Rates, types.PrintingRate{
				ID:          int64(j + 1),
				MachineID:   machineID,
				SheetSize:   types.SheetSize(r.SheetSize),
				ColorMode:   types.ColorMode(r.ColorMode),
				SinglePrice: decimal.NewFromFloat(r.SinglePrice),
				DoublePrice: decimal.NewFromFloat(r.DoublePrice),
				IsActive:    true,
			})
		}
		cfg.Machines = append(cfg.Machines, machine)
	}
	for i, f := range b.FinishingRates {
		fr := types.FinishingRate{
			ID:         fallbackID(f.ID, i),
			ShopID:     b.ID,
			Name:       f.Name,
			ChargeUnit: types.ChargeUnit(f.ChargeUnit),
			Price:      decimal.NewFromFloat(f.Price),
			SetupFee:   decimal.NewFromFloat(f.SetupFee),
			IsActive:   true,
		}
		if f.DoubleSidePrice != nil {
			v := decimal.NewFromFloat(*f.DoubleSidePrice)
			fr.DoubleSidePrice = &v
		}
		cfg.FinishingRates = append(cfg.FinishingRates, fr)
	}
	for _, p := range b.Products {
		cfg.Products = append(cfg.Products, types.Product{
			ID:                      p.ID,
			ShopID:                  b.ID,
			Name:                    p.Name,
			Type:                    types.ProductType(p.ProductType),
			DefaultFinishedWidthMM:  p.DefaultFinishedWidthMM,
			DefaultFinishedHeightMM: p.DefaultFinishedHeightMM,
			MinWidthMM:              p.MinWidthMM,
			MinHeightMM:             p.MinHeightMM,
			MinQuantity:             p.MinQuantity,
			MinGSM:                  p.MinGSM,
			MaxGSM:                  p.MaxGSM,
		})
	}
	return cfg
}

func fallbackID(id int64, index int) int64 {
	if id != 0 {
		return id
	}
	return int64(index + 1)
}

// LoadDraft parses a JSON quote draft file.
func LoadDraft(path string) (*types.QuoteDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft %s: %w", path, err)
	}
	var draft types.QuoteDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("parse draft %s: %w", path, err)
	}
	return &draft, nil
}
