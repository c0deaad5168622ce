package db

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/rqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rqlite/gorqlite"
)

const defaultRqlitePort = "4001"

// ParseRqliteURL parses the http(s) address of an rqlite node, defaulting
// the port to 4001.
func ParseRqliteURL(s string) (u RqliteURL, err error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return u, fmt.Errorf("db: parse rqlite URL failed: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return u, fmt.Errorf("db: parse rqlite URL failed: invalid scheme %q", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return u, fmt.Errorf("db: parse rqlite URL failed: missing host")
	}
	if parsed.Port() == "" {
		parsed.Host = parsed.Hostname() + ":" + defaultRqlitePort
	}
	return RqliteURL{URL: parsed}, nil
}

type RqliteURL struct {
	URL *url.URL
}

func (ru RqliteURL) DataSourceName() string {
	return ru.URL.String()
}

// MigrateDatabaseURL returns the rqlite:// form of the URL used by
// golang-migrate.
func (ru RqliteURL) MigrateDatabaseURL() string {
	u := &url.URL{
		Scheme: "rqlite",
		User:   ru.URL.User,
		Host:   ru.URL.Host,
	}
	if ru.URL.Scheme == "http" {
		q := u.Query()
		q.Set("x-connect-insecure", "true")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

//go:embed migrations/*.sql
var migrations embed.FS

func Migrate(u RqliteURL) (err error) {
	srcDriver, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("db: migrate failed to create iofs: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", srcDriver, u.MigrateDatabaseURL())
	if err != nil {
		return fmt.Errorf("db: migrate failed to create source instance: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("db: migrate up failed: %w", err)
	}
	return nil
}

// Open connects to rqlite and brings the schema up to date.
func Open(rawURL string) (conn *gorqlite.Connection, err error) {
	u, err := ParseRqliteURL(rawURL)
	if err != nil {
		return nil, err
	}
	conn, err = gorqlite.Open(u.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("db: failed to open connection: %w", err)
	}
	if err = Migrate(u); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
