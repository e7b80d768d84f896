package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inventory-sync/internal/config"

	"github.com/go-sql-driver/mysql"
)

func New(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql connection error %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: ping %w", err)
	}

	return db, nil
}

// buildDSN prefers an explicit DSN and falls back to the discrete fields.
func buildDSN(cfg config.DatabaseConfig) (string, error) {
	if cfg.DSN != "" {
		if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
			return "", fmt.Errorf("mysql: invalid dsn: %w", err)
		}
		return cfg.DSN, nil
	}

	m := cfg.Mysql
	if m.Host == "" || m.Username == "" || m.Database == "" {
		return "", fmt.Errorf("Host or Username or Database values is empty")
	}
	if m.Port == 0 {
		m.Port = 3306
	}

	dsnCfg := mysql.NewConfig()
	dsnCfg.User = m.Username
	dsnCfg.Passwd = m.Password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = fmt.Sprintf("%s:%d", m.Host, m.Port)
	dsnCfg.DBName = m.Database
	dsnCfg.ParseTime = true
	dsnCfg.MultiStatements = true
	return dsnCfg.FormatDSN(), nil
}
