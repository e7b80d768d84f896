package pricestore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"inventory-sync/internal/domain/model"

	"github.com/shopspring/decimal"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLite keeps the price table in a local file for single-host installs.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("price store schema: %w", err)
	}
	return nil
}

func (s *SQLite) EnsureList(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO price_lists (name) VALUES (?)
		ON CONFLICT (name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
		RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure price list %s: %w", name, err)
	}
	return id, nil
}

func (s *SQLite) LoadPrices(ctx context.Context, listID int64) (map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sku, price FROM price_list_items WHERE list_id = ?`, listID)
	if err != nil {
		return nil, fmt.Errorf("load prices list=%d: %w", listID, err)
	}
	defer rows.Close()

	prices := make(map[string]decimal.Decimal)
	for rows.Next() {
		var sku, raw string
		if err := rows.Scan(&sku, &raw); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("price for %s: %w", sku, err)
		}
		prices[sku] = price
	}
	return prices, rows.Err()
}

func (s *SQLite) UpsertPrices(ctx context.Context, listID int64, entries []model.PriceListEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_list_items (list_id, sku, price) VALUES (?, ?, ?)
		ON CONFLICT (list_id, sku) DO UPDATE SET price = excluded.price, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, listID, e.Sku, e.Price.String()); err != nil {
			return fmt.Errorf("upsert prices list=%d sku=%s: %w", listID, e.Sku, err)
		}
	}
	return tx.Commit()
}
