// Package db provides the read-only sqlite store the API boundary loads shop
// configuration snapshots and drafts from. The pricing engine itself never
// touches this package.
package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"printshop-pricing/core/types"
	"printshop-pricing/internal/errors"
)

// Store wraps the sqlite connection.
type Store struct {
	DB *sqlx.DB
}

// Open opens the sqlite database, sets recommended pragmas, and validates
// connectivity.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := conn.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return &Store{DB: conn}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate runs pending migrations on this store's connection.
func (s *Store) Migrate() error {
	return Migrate(s.DB.DB)
}

type shopRow struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Currency string `db:"currency"`
}

type productRow struct {
	ID                      int64  `db:"id"`
	ShopID                  int64  `db:"shop_id"`
	Name                    string `db:"name"`
	ProductType             string `db:"product_type"`
	DefaultFinishedWidthMM  int    `db:"default_finished_width_mm"`
	DefaultFinishedHeightMM int    `db:"default_finished_height_mm"`
	MinWidthMM              int    `db:"min_width_mm"`
	MinHeightMM             int    `db:"min_height_mm"`
	MinQuantity             int    `db:"min_quantity"`
	MinGSM                  int    `db:"min_gsm"`
	MaxGSM                  int    `db:"max_gsm"`
}

type paperRow struct {
	ID           int64           `db:"id"`
	ShopID       int64           `db:"shop_id"`
	SheetSize    string          `db:"sheet_size"`
	GSM          int             `db:"gsm"`
	PaperType    string          `db:"paper_type"`
	WidthMM      int             `db:"width_mm"`
	HeightMM     int             `db:"height_mm"`
	SellingPrice decimal.Decimal `db:"selling_price"`
	IsActive     bool            `db:"is_active"`
}

type materialRow struct {
	ID           int64           `db:"id"`
	ShopID       int64           `db:"shop_id"`
	Name         string          `db:"name"`
	SellingPrice decimal.Decimal `db:"selling_price"`
	IsActive     bool            `db:"is_active"`
}

type machineRow struct {
	ID       int64  `db:"id"`
	ShopID   int64  `db:"shop_id"`
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}

type printingRateRow struct {
	ID          int64           `db:"id"`
	MachineID   int64           `db:"machine_id"`
	SheetSize   string          `db:"sheet_size"`
	ColorMode   string          `db:"color_mode"`
	SinglePrice decimal.Decimal `db:"single_price"`
	DoublePrice decimal.Decimal `db:"double_price"`
	IsActive    bool            `db:"is_active"`
}

type finishingRateRow struct {
	ID              int64               `db:"id"`
	ShopID          int64               `db:"shop_id"`
	Name            string              `db:"name"`
	ChargeUnit      string              `db:"charge_unit"`
	Price           decimal.Decimal     `db:"price"`
	DoubleSidePrice decimal.NullDecimal `db:"double_side_price"`
	SetupFee        decimal.Decimal     `db:"setup_fee"`
	IsActive        bool                `db:"is_active"`
}

type draftRow struct {
	ID     int64 `db:"id"`
	ShopID int64 `db:"shop_id"`
}

type draftItemRow struct {
	ID             int64          `db:"id"`
	DraftID        int64          `db:"draft_id"`
	ProductID      int64          `db:"product_id"`
	PaperID        sql.NullInt64  `db:"paper_id"`
	MaterialID     sql.NullInt64  `db:"material_id"`
	MachineID      sql.NullInt64  `db:"machine_id"`
	ColorMode      sql.NullString `db:"color_mode"`
	Sides          sql.NullString `db:"sides"`
	Quantity       int            `db:"quantity"`
	ChosenWidthMM  int            `db:"chosen_width_mm"`
	ChosenHeightMM int            `db:"chosen_height_mm"`
	Position       int            `db:"position"`
}

type itemFinishingRow struct {
	ID              int64               `db:"id"`
	ItemID          int64               `db:"item_id"`
	FinishingRateID int64               `db:"finishing_rate_id"`
	PriceOverride   decimal.NullDecimal `db:"price_override"`
}

// LoadShopConfig materializes the full configuration snapshot for one shop.
// Every query is scoped by shop id; nothing from another tenant can leak into
// the snapshot.
func (s *Store) LoadShopConfig(ctx context.Context, shopID int64) (*types.ShopConfig, error) {
	var shop shopRow
	err := s.DB.GetContext(ctx, &shop, `SELECT id, name, currency FROM shops WHERE id = ?`, shopID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("shop", shopID)
		}
		return nil, errors.Store("load shop", err)
	}

	cfg := &types.ShopConfig{
		Shop: types.Shop{ID: shop.ID, Name: shop.Name, Currency: shop.Currency},
	}

	var products []productRow
	if err := s.DB.SelectContext(ctx, &products, `SELECT * FROM products WHERE shop_id = ? ORDER BY id`, shopID); err != nil {
		return nil, errors.Store("load products", err)
	}
	for _, r := range products {
		cfg.Products = append(cfg.Products, types.Product{
			ID:                      r.ID,
			ShopID:                  r.ShopID,
			Name:                    r.Name,
			Type:                    types.ProductType(r.ProductType),
			DefaultFinishedWidthMM:  r.DefaultFinishedWidthMM,
			DefaultFinishedHeightMM: r.DefaultFinishedHeightMM,
			MinWidthMM:              r.MinWidthMM,
			MinHeightMM:             r.MinHeightMM,
			MinQuantity:             r.MinQuantity,
			MinGSM:                  r.MinGSM,
			MaxGSM:                  r.MaxGSM,
		})
	}

	var papers []paperRow
	if err := s.DB.SelectContext(ctx, &papers, `SELECT * FROM papers WHERE shop_id = ? ORDER BY id`, shopID); err != nil {
		return nil, errors.Store("load papers", err)
	}
	for _, r := range papers {
		cfg.Papers = append(cfg.Papers, types.Paper{
			ID:           r.ID,
			ShopID:       r.ShopID,
			SheetSize:    types.SheetSize(r.SheetSize),
			GSM:          r.GSM,
			PaperType:    r.PaperType,
			WidthMM:      r.WidthMM,
			HeightMM:     r.HeightMM,
			SellingPrice: r.SellingPrice,
			IsActive:     r.IsActive,
		})
	}

	var materials []materialRow
	if err := s.DB.SelectContext(ctx, &materials, `SELECT * FROM materials WHERE shop_id = ? ORDER BY id`, shopID); err != nil {
		return nil, errors.Store("load materials", err)
	}
	for _, r := range materials {
		cfg.Materials = append(cfg.Materials, types.Material{
			ID:           r.ID,
			ShopID:       r.ShopID,
			Name:         r.Name,
			SellingPrice: r.SellingPrice,
			IsActive:     r.IsActive,
		})
	}

	var machines []machineRow
	if err := s.DB.SelectContext(ctx, &machines, `SELECT * FROM machines WHERE shop_id = ? ORDER BY id`, shopID); err != nil {
		return nil, errors.Store("load machines", err)
	}
	var rates []printingRateRow
	if err := s.DB.SelectContext(ctx, &rates, `
		SELECT pr.* FROM printing_rates pr
		JOIN machines m ON m.id = pr.machine_id
		WHERE m.shop_id = ?
		ORDER BY pr.id`, shopID); err != nil {
		return nil, errors.Store("load printing rates", err)
	}
	ratesByMachine := map[int64][]types.PrintingRate{}
	for _, r := range rates {
		ratesByMachine[r.MachineID] = append(ratesByMachine[r.MachineID], types.PrintingRate{
			ID:          r.ID,
			MachineID:   r.MachineID,
			SheetSize:   types.SheetSize(r.SheetSize),
			ColorMode:   types.ColorMode(r.ColorMode),
			SinglePrice: r.SinglePrice,
			DoublePrice: r.DoublePrice,
			IsActive:    r.IsActive,
		})
	}
	for _, r := range machines {
		cfg.Machines = append(cfg.Machines, types.Machine{
			ID:       r.ID,
			ShopID:   r.ShopID,
			Name:     r.Name,
			IsActive: r.IsActive,
			Rates:    ratesByMachine[r.ID],
		})
	}

	var finishings []finishingRateRow
	if err := s.DB.SelectContext(ctx, &finishings, `SELECT * FROM finishing_rates WHERE shop_id = ? ORDER BY id`, shopID); err != nil {
		return nil, errors.Store("load finishing rates", err)
	}
	for _, r := range finishings {
		fr := types.FinishingRate{
			ID:         r.ID,
			ShopID:     r.ShopID,
			Name:       r.Name,
			ChargeUnit: types.ChargeUnit(r.ChargeUnit),
			Price:      r.Price,
			SetupFee:   r.SetupFee,
			IsActive:   r.IsActive,
		}
		if r.DoubleSidePrice.Valid {
			v := r.DoubleSidePrice.Decimal
			fr.DoubleSidePrice = &v
		}
		cfg.FinishingRates = append(cfg.FinishingRates, fr)
	}

	return cfg, nil
}

// LoadDraft loads one quote draft with its items in draft order. The draft
// must belong to the given shop.
func (s *Store) LoadDraft(ctx context.Context, shopID, draftID int64) (*types.QuoteDraft, error) {
	var draft draftRow
	err := s.DB.GetContext(ctx, &draft, `SELECT id, shop_id FROM quote_drafts WHERE id = ? AND shop_id = ?`, draftID, shopID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("quote draft", draftID)
		}
		return nil, errors.Store("load quote draft", err)
	}

	var items []draftItemRow
	if err := s.DB.SelectContext(ctx, &items, `
		SELECT * FROM quote_draft_items
		WHERE draft_id = ?
		ORDER BY position, id`, draftID); err != nil {
		return nil, errors.Store("load draft items", err)
	}

	var finishings []itemFinishingRow
	if err := s.DB.SelectContext(ctx, &finishings, `
		SELECT * FROM quote_item_finishings
		WHERE item_id IN (SELECT id FROM quote_draft_items WHERE draft_id = ?)
		ORDER BY id`, draftID); err != nil {
		return nil, errors.Store("load item finishings", err)
	}
	finishingsByItem := map[int64][]types.FinishingSelection{}
	for _, r := range finishings {
		sel := types.FinishingSelection{FinishingRateID: r.FinishingRateID}
		if r.PriceOverride.Valid {
			v := r.PriceOverride.Decimal
			sel.PriceOverride = &v
		}
		finishingsByItem[r.ItemID] = append(finishingsByItem[r.ItemID], sel)
	}

	out := &types.QuoteDraft{ID: draft.ID, ShopID: draft.ShopID}
	for _, r := range items {
		out.Items = append(out.Items, types.QuoteDraftItem{
			ID:             r.ID,
			ProductID:      r.ProductID,
			PaperID:        r.PaperID.Int64,
			MaterialID:     r.MaterialID.Int64,
			MachineID:      r.MachineID.Int64,
			ColorMode:      types.ColorMode(r.ColorMode.String),
			Sides:          types.Sides(r.Sides.String),
			Quantity:       r.Quantity,
			ChosenWidthMM:  r.ChosenWidthMM,
			ChosenHeightMM: r.ChosenHeightMM,
			Finishings:     finishingsByItem[r.ID],
		})
	}
	return out, nil
}
