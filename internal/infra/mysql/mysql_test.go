package mysql

import (
	"testing"

	"inventory-sync/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSNFromFields(t *testing.T) {
	dsn, err := buildDSN(config.DatabaseConfig{Mysql: config.MysqlConfig{
		Host: "db", Username: "sync", Password: "pw", Database: "inventory",
	}})
	require.NoError(t, err)
	assert.Contains(t, dsn, "sync:pw@tcp(db:3306)/inventory")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestBuildDSNRequiresFields(t *testing.T) {
	_, err := buildDSN(config.DatabaseConfig{Mysql: config.MysqlConfig{Host: "db"}})
	assert.Error(t, err)
}

func TestBuildDSNKeepsExplicitDSN(t *testing.T) {
	dsn, err := buildDSN(config.DatabaseConfig{DSN: "u:p@tcp(h:3307)/d"})
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(h:3307)/d", dsn)
}
