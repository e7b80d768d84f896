package pricestore

import (
	"context"
	_ "embed"
	"fmt"

	"inventory-sync/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

//go:embed schema_postgres.sql
var postgresSchema string

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("price store schema: %w", err)
	}
	return nil
}

func (s *Postgres) EnsureList(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO price_lists (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = now()
		RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure price list %s: %w", name, err)
	}
	return id, nil
}

func (s *Postgres) LoadPrices(ctx context.Context, listID int64) (map[string]decimal.Decimal, error) {
	rows, err := s.pool.Query(ctx, `SELECT sku, price::text FROM price_list_items WHERE list_id = $1`, listID)
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

// UpsertPrices writes all rows in one transaction.
func (s *Postgres) UpsertPrices(ctx context.Context, listID int64, entries []model.PriceListEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	b := &pgx.Batch{}
	for _, e := range entries {
		b.Queue(`
			INSERT INTO price_list_items (list_id, sku, price) VALUES ($1, $2, $3::numeric)
			ON CONFLICT (list_id, sku) DO UPDATE SET price = EXCLUDED.price, updated_at = now()`,
			listID, e.Sku, e.Price.String())
	}
	br := tx.SendBatch(ctx, b)
	for range entries {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert prices list=%d: %w", listID, err)
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
