// internal/config/dsn.go
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var defaultPorts = map[string]int{
	"postgres": 5432,
	"mysql":    3306,
}

// Driver returns the database/sql driver name for the source type
func (s Source) Driver() string {
	switch s.Type {
	case "postgres":
		return "pgx"
	case "mysql":
		return "mysql"
	case "sqlite":
		return "sqlite3"
	default:
		return ""
	}
}

// String renders the source as a URI without its password, for logs and status lines
func (s Source) String() string {
	switch s.Type {
	case "postgres", "mysql":
		return fmt.Sprintf("%s://%s@%s:%d/%s", s.Type, s.User, s.Host, s.Port, s.Database)
	case "sqlite":
		return "sqlite://" + s.Database
	default:
		return ""
	}
}

// DriverDSN builds the driver-specific connection string
func (s Source) DriverDSN() string {
	switch s.Type {
	case "postgres":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(s.User, s.Password),
			Host:     fmt.Sprintf("%s:%d", s.Host, s.Port),
			Path:     "/" + s.Database,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	case "mysql":
		// user:pass@tcp(host:port)/db
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", s.User, s.Password, s.Host, s.Port, s.Database)
	case "sqlite":
		return "file:" + s.Database
	default:
		return ""
	}
}

// ParseDSN parses a connection string into a Source. Strings without a
// known scheme are treated as SQLite file paths.
func ParseDSN(dsn string) (Source, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return parseURLSource("postgres", dsn)
	case strings.HasPrefix(dsn, "mysql://"):
		return parseURLSource("mysql", dsn)
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		path = strings.TrimPrefix(path, "file:")
		return Source{Type: "sqlite", Database: path}, nil
	case dsn == "":
		return Source{}, fmt.Errorf("empty dsn")
	default:
		return Source{Type: "sqlite", Database: dsn}, nil
	}
}

func parseURLSource(typ, dsn string) (Source, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Source{}, fmt.Errorf("parse %s dsn: %w", typ, err)
	}
	s := Source{
		Type:     typ,
		Host:     u.Hostname(),
		Port:     defaultPorts[typ],
		Database: strings.TrimPrefix(u.Path, "/"),
	}
	if p := u.Port(); p != "" {
		if s.Port, err = strconv.Atoi(p); err != nil {
			return Source{}, fmt.Errorf("invalid port %q", p)
		}
	}
	if u.User != nil {
		s.User = u.User.Username()
		s.Password, _ = u.User.Password()
	}
	return s, nil
}
