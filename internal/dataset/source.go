// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	// DuckDB driver registration.
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/resonance/internal/recommend"
)

// Records is the raw content of one load.
type Records struct {
	Items  []recommend.ItemRecord
	Liked  []recommend.InteractionRecord
	Viewed []recommend.InteractionRecord
}

// Source produces raw records.
type Source interface {
	Load(ctx context.Context) (*Records, error)
}

// Paths locates the three CSV files.
type Paths struct {
	Items  string
	Liked  string
	Viewed string
}

// All returns the paths in load order.
func (p Paths) All() []string {
	return []string{p.Items, p.Liked, p.Viewed}
}

// CSVSource reads the dataset from CSV files with DuckDB.
type CSVSource struct {
	paths Paths
}

// NewCSVSource creates a source reading the given files.
func NewCSVSource(paths Paths) *CSVSource {
	return &CSVSource{paths: paths}
}

// Paths returns the files the source reads.
func (s *CSVSource) Paths() Paths {
	return s.paths
}

// item columns with fixed meaning; anything else becomes metadata.
const (
	colID            = "id"
	colTitle         = "title"
	colGenre         = "genre"
	colUpvoteCount   = "upvote_count"
	colViewCount     = "view_count"
	colAverageRating = "average_rating"
	colUsername      = "username"
)

// Load reads all three files. Each call opens its own in-memory database so
// concurrent loads share nothing.
func (s *CSVSource) Load(ctx context.Context) (*Records, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	defer closeQuietly(db)

	items, err := s.loadItems(ctx, db)
	if err != nil {
		return nil, err
	}
	liked, err := loadInteractions(ctx, db, s.paths.Liked, "liked")
	if err != nil {
		return nil, err
	}
	viewed, err := loadInteractions(ctx, db, s.paths.Viewed, "viewed")
	if err != nil {
		return nil, err
	}
	return &Records{Items: items, Liked: liked, Viewed: viewed}, nil
}

func (s *CSVSource) loadItems(ctx context.Context, db *sql.DB) ([]recommend.ItemRecord, error) {
	table, err := readCSV(ctx, db, s.paths.Items)
	if err != nil {
		return nil, err
	}
	if err := table.require(s.paths.Items, colID); err != nil {
		return nil, err
	}

	items := make([]recommend.ItemRecord, 0, len(table.rows))
	for i, row := range table.rows {
		rec := recommend.ItemRecord{
			ID:    table.value(row, colID),
			Title: table.value(row, colTitle),
			Genre: table.value(row, colGenre),
		}
		numeric := []struct {
			column string
			dst    *float64
		}{
			{colUpvoteCount, &rec.UpvoteCount},
			{colViewCount, &rec.ViewCount},
			{colAverageRating, &rec.AverageRating},
		}
		for _, n := range numeric {
			v, err := parseNumber(table.value(row, n.column))
			if err != nil {
				return nil, &recommend.InvalidInputError{
					Field:  fmt.Sprintf("items[%d].%s", i, n.column),
					Reason: err.Error(),
				}
			}
			*n.dst = v
		}
		for c, name := range table.columns {
			if isItemColumn(name) || !row[c].Valid {
				continue
			}
			if rec.Metadata == nil {
				rec.Metadata = make(map[string]string)
			}
			rec.Metadata[name] = row[c].String
		}
		items = append(items, rec)
	}
	return items, nil
}

func loadInteractions(ctx context.Context, db *sql.DB, path, kind string) ([]recommend.InteractionRecord, error) {
	table, err := readCSV(ctx, db, path)
	if err != nil {
		return nil, err
	}
	if err := table.require(path, colUsername, colID); err != nil {
		return nil, fmt.Errorf("%s interactions: %w", kind, err)
	}

	out := make([]recommend.InteractionRecord, len(table.rows))
	for i, row := range table.rows {
		out[i] = recommend.InteractionRecord{
			Username: table.value(row, colUsername),
			ItemID:   table.value(row, colID),
		}
	}
	return out, nil
}

func isItemColumn(name string) bool {
	switch name {
	case colID, colTitle, colGenre, colUpvoteCount, colViewCount, colAverageRating:
		return true
	}
	return false
}

// parseNumber reads a numeric cell; blank cells are 0.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

// csvTable is a CSV file read with every column as nullable text.
type csvTable struct {
	columns []string
	index   map[string]int
	rows    [][]sql.NullString
}

func (t *csvTable) require(path string, columns ...string) error {
	for _, c := range columns {
		if _, ok := t.index[c]; !ok {
			return fmt.Errorf("%s: missing required column %q", path, c)
		}
	}
	return nil
}

// value returns the cell for column, or "" when the column is absent or
// the cell is NULL.
func (t *csvTable) value(row []sql.NullString, column string) string {
	c, ok := t.index[column]
	if !ok || !row[c].Valid {
		return ""
	}
	return row[c].String
}

func readCSV(ctx context.Context, db *sql.DB, path string) (*csvTable, error) {
	if path == "" {
		return nil, errors.New("csv path is empty")
	}

	// Table function arguments cannot be bound as parameters.
	query := fmt.Sprintf(
		"SELECT * FROM read_csv_auto(%s, header = true, all_varchar = true)",
		quoteLiteral(path))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer closeQuietly(rows)

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", path, err)
	}

	table := &csvTable{columns: make([]string, len(columns)), index: make(map[string]int, len(columns))}
	for i, c := range columns {
		name := strings.ToLower(strings.TrimSpace(c))
		table.columns[i] = name
		if _, dup := table.index[name]; !dup {
			table.index[name] = i
		}
	}

	for rows.Next() {
		row := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row %d: %w", path, len(table.rows), err)
		}
		table.rows = append(table.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", path, err)
	}
	return table, nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

type closer interface {
	Close() error
}

func closeQuietly(c closer) {
	_ = c.Close() //nolint:errcheck // nothing to do on close failure of a read-only handle
}
