// Package countries serves country names for prefix lookups from a SQL
// database seeded with the ISO 3166 list.
package countries

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nhath/ezcomplete/internal/config"
)

//go:embed data/countries.json
var seedJSON []byte

// Country is one lookup result.
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Store answers prefix lookups.
type Store interface {
	Match(ctx context.Context, prefix string, limit int) ([]Country, error)
	Close() error
}

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect DriverType
}

var _ Store = (*SQLStore)(nil)

// Open connects to src, creates the countries table if needed and seeds it
// when empty.
func Open(ctx context.Context, src config.Source) (*SQLStore, error) {
	db, err := connect(ctx, src)
	if err != nil {
		return nil, err
	}

	s := &SQLStore{db: db, dialect: DriverType(src.Type)}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.seed(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS countries (
	name VARCHAR(128) NOT NULL PRIMARY KEY,
	name_key VARCHAR(128) NOT NULL,
	code CHAR(2) NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return WrapQueryError(fmt.Errorf("create countries table: %w", err))
	}
	return nil
}

// SeedData returns the embedded country list.
func SeedData() ([]Country, error) {
	var list []Country
	if err := json.Unmarshal(seedJSON, &list); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return list, nil
}

func (s *SQLStore) seed(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM countries").Scan(&n); err != nil {
		return WrapQueryError(err)
	}
	if n > 0 {
		return nil
	}

	list, err := SeedData()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WrapQueryError(err)
	}
	defer tx.Rollback()

	insert := fmt.Sprintf("INSERT INTO countries (name, name_key, code) VALUES (%s, %s, %s)",
		s.dialect.placeholder(1), s.dialect.placeholder(2), s.dialect.placeholder(3))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return WrapQueryError(err)
	}
	defer stmt.Close()

	for _, c := range list {
		if _, err := stmt.ExecContext(ctx, c.Name, nameKey(c.Name), c.Code); err != nil {
			return WrapQueryError(fmt.Errorf("seed %s: %w", c.Code, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return WrapQueryError(err)
	}
	return nil
}

// Match returns up to limit countries whose name starts with prefix,
// ignoring case, ordered by name. An empty prefix matches nothing.
func (s *SQLStore) Match(ctx context.Context, prefix string, limit int) ([]Country, error) {
	result := []Country{}
	if prefix == "" || limit <= 0 {
		return result, nil
	}

	query := fmt.Sprintf(
		"SELECT name, code FROM countries WHERE name_key LIKE %s ESCAPE '!' ORDER BY name LIMIT %s",
		s.dialect.placeholder(1), s.dialect.placeholder(2))
	rows, err := s.db.QueryContext(ctx, query, likePrefix(prefix), limit)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.Name, &c.Code); err != nil {
			return nil, WrapQueryError(err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}
	return result, nil
}

// nameKey is the case-folded form stored in name_key. SQLite's LOWER()
// folds ASCII only.
func nameKey(name string) string {
	return strings.ToLower(name)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePrefix lowercases prefix, escapes LIKE wildcards with '!' and appends %.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(nameKey(prefix)) + "%"
}
