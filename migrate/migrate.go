// Package migrate applies additive column migrations to the content database.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultDatabasePath is used when DATABASE_URI is not set.
const DefaultDatabasePath = "/app/data/multiplicity.db"

// Outcome is what a migration run did.
type Outcome int

const (
	// Skipped means the database file did not exist.
	Skipped Outcome = iota
	// AlreadyPresent means the column was already there.
	AlreadyPresent
	// Added means the column was created.
	Added
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case AlreadyPresent:
		return "already present"
	case Added:
		return "added"
	}
	return "unknown"
}

// Column is a column that must exist on a table.
type Column struct {
	Table string
	Name  string
	Decl  string // type and constraints, e.g. "TEXT"
}

// HostColumn is the optional event host line added after the first release.
var HostColumn = Column{Table: "events", Name: "host", Decl: "TEXT"}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrBadIdentifier is returned for table or column names that are not plain
// SQL identifiers.
var ErrBadIdentifier = errors.New("migrate: invalid identifier")

// PathFromURI strips the "file:" scheme from a libsql-style DATABASE_URI.
func PathFromURI(uri string) string {
	if uri == "" {
		return DefaultDatabasePath
	}
	return strings.TrimPrefix(uri, "file:")
}

// HasColumn reports whether table has the named column.
func HasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	if !identPattern.MatchString(table) {
		return false, fmt.Errorf("%w: table %q", ErrBadIdentifier, table)
	}
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return false, fmt.Errorf("migrate: table info %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("migrate: scan table info: %w", err)
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// EnsureColumn adds c to its table unless it is already present.
func EnsureColumn(ctx context.Context, db *sql.DB, c Column) (Outcome, error) {
	if !identPattern.MatchString(c.Name) {
		return 0, fmt.Errorf("%w: column %q", ErrBadIdentifier, c.Name)
	}
	ok, err := HasColumn(ctx, db, c.Table, c.Name)
	if err != nil {
		return 0, err
	}
	if ok {
		return AlreadyPresent, nil
	}
	stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, c.Table, c.Name, c.Decl)
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return 0, fmt.Errorf("migrate: add column %s.%s: %w", c.Table, c.Name, err)
	}
	return Added, nil
}

// Run opens the database file at path and ensures c exists. A missing file
// is not an error: the run is skipped and nothing is created.
func Run(ctx context.Context, path string, c Column) (Outcome, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Skipped, nil
		}
		return 0, fmt.Errorf("migrate: stat %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("migrate: open %s: %w", path, err)
	}
	defer db.Close()
	return EnsureColumn(ctx, db, c)
}
