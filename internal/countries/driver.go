package countries

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nhath/ezcomplete/internal/config"
)

// DriverType represents supported database types
type DriverType string

const (
	Postgres DriverType = "postgres"
	MySQL    DriverType = "mysql"
	SQLite   DriverType = "sqlite"
)

// connect opens and verifies a pool for the source
func connect(ctx context.Context, src config.Source) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch DriverType(src.Type) {
	case Postgres:
		db, err = openPostgres(src)
	case MySQL:
		db, err = openMySQL(src)
	case SQLite:
		db, err = openSQLite(src)
	default:
		return nil, WrapConnectionError(fmt.Errorf("unknown driver type: %s", src.Type))
	}
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, WrapConnectionError(err)
	}
	return db, nil
}

func openPostgres(src config.Source) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(src.DriverDSN())
	if err != nil {
		return nil, WrapConnectionError(err)
	}

	// Register the driver configuration with stdlib
	db, err := sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
	if err != nil {
		return nil, WrapConnectionError(err)
	}
	configurePool(db)
	return db, nil
}

func openMySQL(src config.Source) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = src.User
	cfg.Passwd = src.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", src.Host, src.Port)
	cfg.DBName = src.Database
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, WrapConnectionError(err)
	}
	db := sql.OpenDB(connector)
	configurePool(db)
	return db, nil
}

func openSQLite(src config.Source) (*sql.DB, error) {
	dsn := strings.TrimPrefix(src.Database, "sqlite://")
	if dsn == "" {
		return nil, WrapConnectionError(fmt.Errorf("sqlite source needs a database path"))
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, WrapConnectionError(err)
	}
	// One connection keeps ":memory:" databases alive across queries and
	// serialises writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 10000"); err != nil {
		db.Close()
		return nil, WrapConnectionError(fmt.Errorf("pragma busy_timeout: %w", err))
	}
	return db, nil
}

// configurePool applies the connection limits used for network databases
func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
}

// placeholder returns the n-th (1-based) bind parameter for the dialect
func (d DriverType) placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
