// Package store persists price tables into the local SQLite database. Each
// run fully replaces a ticker's table (drop-and-recreate), never appends.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"sipafcli/internal/dataset"
)

// Store wraps the SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceTable drops and recreates the named table from a dataset, inside one
// transaction. Column types are REAL for columns holding any number, TEXT
// otherwise (dates are stored in their 2006-01-02 form).
func (s *Store) ReplaceTable(ctx context.Context, table string, d *dataset.Dataset) error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("dataset for table %s has no columns", table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	quoted := quoteIdent(table)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoted); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}

	defs := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		defs[i] = quoteIdent(col) + " " + columnType(d, i)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoted, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(d.Columns)), ",")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoted, placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range d.Rows {
		args := make([]interface{}, len(row))
		for i, cell := range row {
			args[i] = cellValue(cell)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row into %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// RowCount returns the number of rows in a table.
func (s *Store) RowCount(ctx context.Context, table string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// columnType picks REAL when the column holds any numeric cell.
func columnType(d *dataset.Dataset, idx int) string {
	for _, row := range d.Rows {
		if _, ok := row[idx].Float(); ok {
			return "REAL"
		}
	}
	return "TEXT"
}

// cellValue converts a cell to a driver value; missing becomes NULL.
func cellValue(cell dataset.Cell) interface{} {
	if cell.IsMissing() {
		return nil
	}
	if v, ok := cell.Float(); ok {
		return v
	}
	return cell.Render()
}

// quoteIdent quotes an SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
