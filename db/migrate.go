package db

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/sym"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// migration is one embedded file; version is the numeric prefix before "_".
type migration struct {
	version string
	file    string
}

func listMigrations() ([]migration, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}
	var out []migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		out = append(out, migration{version: strings.SplitN(e.Name(), "_", 2)[0], file: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].file < out[j].file })
	return out, nil
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, each in its own transaction. 000 creates that table.
// If logger is provided, logs migration progress; otherwise operates silently.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	all, err := listMigrations()
	if err != nil {
		return err
	}

	applied := 0
	for _, m := range all {
		done, err := isApplied(db, m.version)
		if err != nil {
			return errors.Wrapf(err, "check %s", m.file)
		}
		if done {
			continue
		}

		body, err := migrations.ReadFile(path.Join(migrationsDir, m.file))
		if err != nil {
			return errors.Wrapf(err, "read %s", m.file)
		}
		if logger != nil {
			logger.Infow("Applying migration", "migration", m.file, "version", m.version)
		}
		if err := apply(db, m, string(body)); err != nil {
			return err
		}
		applied++
	}

	if logger != nil {
		logger.Infow("Migrations complete",
			"symbol", sym.DB,
			"applied", applied,
			"total_migrations", len(all),
		)
	}
	return nil
}

func isApplied(db *sql.DB, version string) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", version).Scan(&exists)
	if err == nil {
		return exists, nil
	}
	if version == "000" && strings.Contains(err.Error(), "no such table") {
		return false, nil
	}
	return false, err
}

func apply(db *sql.DB, m migration, body string) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", m.file)
	}
	if _, err := tx.Exec(body); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "execute %s", m.file)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "record %s", m.file)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", m.file)
}

// AppliedVersions lists recorded migration versions in order.
func AppliedVersions(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, errors.Wrap(err, "query schema_migrations")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan schema_migrations")
		}
		out = append(out, v)
	}
	return out, errors.Wrap(rows.Err(), "iterate schema_migrations")
}
