package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConnectionParams indicates a network database type was
	// requested without the credentials it needs.
	ErrMissingConnectionParams = errors.New("username, password, host and database are required")
	// ErrUnsupportedDatabaseType indicates an unrecognized database type.
	ErrUnsupportedDatabaseType = errors.New("unsupported database type")
)

// ConnectionParams carries the per-deployment credentials that never live
// in the configuration document itself.
type ConnectionParams struct {
	Username string
	Password string
	Host     string
	Port     int
	Database string
}

// ConnectionString builds a driver DSN for the configured database type.
// SQLite needs only a database path; the network databases need the full
// parameter set and fall back to their conventional ports.
func (d DatabaseSettings) ConnectionString(p ConnectionParams) (string, error) {
	switch d.DefaultType {
	case DatabaseSQLite:
		if p.Database == "" {
			return "", ErrMissingConnectionParams
		}
		return "file:" + p.Database, nil
	case DatabasePostgreSQL:
		if p.Username == "" || p.Password == "" || p.Host == "" || p.Database == "" {
			return "", ErrMissingConnectionParams
		}
		port := p.Port
		if port == 0 {
			port = 5432
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", p.Username, p.Password, p.Host, port, p.Database), nil
	case DatabaseMySQL:
		if p.Username == "" || p.Password == "" || p.Host == "" || p.Database == "" {
			return "", ErrMissingConnectionParams
		}
		port := p.Port
		if port == 0 {
			port = 3306
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", p.Username, p.Password, p.Host, port, p.Database), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDatabaseType, d.DefaultType)
	}
}
