package localdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"
)

const (
	mysqlProductQuery    = "CALL obtener_datos_productos(?)"
	postgresProductQuery = "SELECT * FROM obtener_datos_productos($1)"
	mysqlChangeQuery     = "SELECT Sku, Tipo FROM prodsChange WHERE DbId = ?"
	postgresChangeQuery  = `SELECT "Sku", "Tipo" FROM "prodsChange" WHERE "DbId" = $1`

	queryTimeout = 30 * time.Second
)

// Source reads the merchant's inventory from its relational database.
type Source struct {
	db           *sql.DB
	productQuery string
	changeQuery  string
	logger       logging.LoggerService
}

func NewSource(db *sql.DB, cfg config.DatabaseConfig, logger logging.LoggerService) *Source {
	s := &Source{
		db:           db,
		productQuery: cfg.ProductQuery,
		changeQuery:  cfg.ChangeQuery,
		logger:       logger,
	}
	if s.productQuery == "" {
		s.productQuery = postgresProductQuery
		if cfg.Driver == "mysql" {
			s.productQuery = mysqlProductQuery
		}
	}
	if s.changeQuery == "" {
		s.changeQuery = postgresChangeQuery
		if cfg.Driver == "mysql" {
			s.changeQuery = mysqlChangeQuery
		}
	}
	return s
}

func (s *Source) FetchProducts(ctx context.Context, dbID int) ([]model.CanonicalProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, s.productQuery, dbID)
	if err != nil {
		return nil, fmt.Errorf("query local products: %w", err)
	}
	defer rows.Close()

	var products []model.CanonicalProduct
	skipped := 0
	err = scanRows(rows, func(r row) {
		p := r.product()
		if p.Sku == "" {
			skipped++
			return
		}
		products = append(products, p)
	})
	if err != nil {
		return nil, fmt.Errorf("read local products: %w", err)
	}
	if skipped > 0 && s.logger != nil {
		s.logger.LogWarning("local products without sku skipped", "db_id", dbID, "skipped", skipped)
	}
	return products, nil
}

func (s *Source) FetchChangeRecords(ctx context.Context, dbID int) ([]model.ChangeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, s.changeQuery, dbID)
	if err != nil {
		return nil, fmt.Errorf("query change records: %w", err)
	}
	defer rows.Close()

	var (
		records []model.ChangeRecord
		errs    []error
	)
	err = scanRows(rows, func(r row) {
		sku := r.str("sku", "codigo")
		kind, err := model.ParseChangeKind(r.str("tipo", "kind", "type", "change"))
		if sku == "" || err != nil {
			errs = append(errs, fmt.Errorf("change record sku=%q: %w", sku, errors.Join(model.ErrDataInconsistency, err)))
			return
		}
		records = append(records, model.ChangeRecord{Sku: sku, Kind: kind})
	})
	if err != nil {
		return nil, fmt.Errorf("read change records: %w", err)
	}
	for _, e := range errs {
		if s.logger != nil {
			s.logger.LogWarning("change record skipped", "db_id", dbID, "reason", e.Error())
		}
	}
	return records, nil
}
