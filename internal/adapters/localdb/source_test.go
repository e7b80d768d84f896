package localdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/infra/sqlite"
	"inventory-sync/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFixture(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
CREATE TABLE productos (DbId INTEGER, SKU TEXT, Name TEXT, FinalPrice REAL, Stock INTEGER,
	FamilySirett TEXT, idFamWP INTEGER, Image TEXT, Oculto INTEGER);
INSERT INTO productos VALUES
	(1, 'A1', 'Drill', 10.5, 5, 'Tools/Power', 12, 'https://cdn.example/img/drill.jpg', 0),
	(1, 'B2', 'Saw', NULL, NULL, NULL, NULL, 'no image', 1),
	(1, '  ', 'Nameless', 1, 1, NULL, NULL, NULL, 0),
	(2, 'C3', 'Other client', 1, 1, NULL, NULL, NULL, 0);
CREATE TABLE prodsChange (DbId INTEGER, sku TEXT, tipo TEXT);
INSERT INTO prodsChange VALUES (1, 'A1', 'Updated'), (1, 'N9', 'nuevo'), (1, 'X', 'deleted'), (2, 'C3', 'New');
`)
	require.NoError(t, err)
	return db
}

func newFixtureSource(t *testing.T) *Source {
	return NewSource(openFixture(t), config.DatabaseConfig{
		Driver:       "sqlite",
		ProductQuery: "SELECT * FROM productos WHERE DbId = ?",
		ChangeQuery:  "SELECT sku, tipo FROM prodsChange WHERE DbId = ?",
	}, logging.Discard())
}

func TestFetchProducts_NormalizesRows(t *testing.T) {
	products, err := newFixtureSource(t).FetchProducts(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, products, 2)

	a := products[0]
	assert.Equal(t, "A1", a.Sku)
	assert.Equal(t, "Drill", a.Name)
	assert.True(t, a.Price.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, 5, a.Stock)
	assert.Equal(t, []string{"Tools", "Power"}, a.CategoryPath)
	assert.Equal(t, int64(12), a.RemoteCategoryID)
	assert.Equal(t, "drill.jpg", a.ImageName)
	assert.Equal(t, model.StatusPublished, a.Status)

	b := products[1]
	assert.True(t, b.Price.IsZero())
	assert.Equal(t, 0, b.Stock)
	assert.Nil(t, b.CategoryPath)
	assert.False(t, b.HasImage())
	assert.Equal(t, model.StatusHidden, b.Status)
}

func TestFetchChangeRecords_SkipsUnknownKinds(t *testing.T) {
	records, err := newFixtureSource(t).FetchChangeRecords(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []model.ChangeRecord{
		{Sku: "A1", Kind: model.ChangeUpdated},
		{Sku: "N9", Kind: model.ChangeNew},
	}, records)
}

func TestDefaultQueriesFollowDriver(t *testing.T) {
	my := NewSource(nil, config.DatabaseConfig{Driver: "mysql"}, nil)
	assert.Equal(t, mysqlProductQuery, my.productQuery)
	assert.Equal(t, mysqlChangeQuery, my.changeQuery)

	pg := NewSource(nil, config.DatabaseConfig{Driver: "postgres"}, nil)
	assert.Equal(t, postgresProductQuery, pg.productQuery)
}

func TestValueConversions(t *testing.T) {
	assert.Equal(t, 7, newValue([]byte("7.9")).Int())
	assert.True(t, newValue("Si").Bool())
	assert.False(t, newValue(nil).Bool())
	assert.Equal(t, "2.5", newValue(2.5).String())
	assert.True(t, newValue("3,25").Decimal().Equal(decimal.RequireFromString("3.25")))
}
