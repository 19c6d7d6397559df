package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"btto/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// Store manages agenda persistence backed by SQLite. The serving path only
// reads from it; writes happen through Insert (ingest/seed) and Purge.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the agenda database, applies pragmas and ensures the
// schema exists. The schema is versionless; CREATE IF NOT EXISTS keeps
// reopening idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const selectColumns = `id, year, week, "start", "end", top, thema, beschreibung,
    url, status, namentliche_abstimmung, uid, dtstamp`

// ItemsForWindow fetches the agenda items selected by win. Precedence is
// week > month > day > whole year; month and day match against the stored
// wall-clock start column. A day selector without a month matches that day
// of every month of the year.
func (s *Store) ItemsForWindow(ctx context.Context, win model.Window) ([]model.AgendaItem, error) {
	query := `SELECT ` + selectColumns + ` FROM agenda_items WHERE year = ?`
	args := []any{win.Year}

	switch {
	case win.Week != nil:
		query += ` AND week = ?`
		args = append(args, *win.Week)
	case win.Month != nil && win.Day != nil:
		query += ` AND substr("start", 6, 2) = ? AND substr("start", 9, 2) = ?`
		args = append(args, fmt.Sprintf("%02d", *win.Month), fmt.Sprintf("%02d", *win.Day))
	case win.Month != nil:
		query += ` AND substr("start", 6, 2) = ?`
		args = append(args, fmt.Sprintf("%02d", *win.Month))
	case win.Day != nil:
		query += ` AND substr("start", 9, 2) = ?`
		args = append(args, fmt.Sprintf("%02d", *win.Day))
	}
	query += ` ORDER BY "start"`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query agenda items: %w", err)
	}
	defer rows.Close()

	items := make([]model.AgendaItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(rows *sql.Rows) (model.AgendaItem, error) {
	var (
		item            model.AgendaItem
		top, url, state sql.NullString
		namedVote       int64
	)
	err := rows.Scan(
		&item.ID, &item.Year, &item.Week, &item.Start, &item.End,
		&top, &item.Thema, &item.Beschreibung, &url, &state,
		&namedVote, &item.UID, &item.DTStamp,
	)
	if err != nil {
		return model.AgendaItem{}, fmt.Errorf("scan agenda item: %w", err)
	}
	if top.Valid {
		item.TOP = &top.String
	}
	if url.Valid {
		item.URL = &url.String
	}
	if state.Valid {
		item.Status = &state.String
	}
	item.NamedVote = namedVote != 0
	return item, nil
}

// YearWeeks lists the weeks with stored items for one year.
type YearWeeks struct {
	Year  int
	Weeks []int
}

// DataList returns the distinct (year, week) pairs that have agenda items,
// years and weeks both descending. The slice order is meaningful; the web
// layer serializes it as an insertion-ordered JSON object.
func (s *Store) DataList(ctx context.Context) ([]YearWeeks, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT year, week FROM agenda_items ORDER BY year DESC, week DESC`)
	if err != nil {
		return nil, fmt.Errorf("query data list: %w", err)
	}
	defer rows.Close()

	list := make([]YearWeeks, 0)
	for rows.Next() {
		var year, week int
		if err := rows.Scan(&year, &week); err != nil {
			return nil, fmt.Errorf("scan data list: %w", err)
		}
		if n := len(list); n > 0 && list[n-1].Year == year {
			list[n-1].Weeks = append(list[n-1].Weeks, week)
		} else {
			list = append(list, YearWeeks{Year: year, Weeks: []int{week}})
		}
	}
	return list, rows.Err()
}

// Insert stores one agenda item and returns its row id. The serving path
// never calls this; it exists for the ingest tooling and tests.
func (s *Store) Insert(ctx context.Context, item model.AgendaItem) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO agenda_items (
            year, week, "start", "end", top, thema, beschreibung,
            url, status, namentliche_abstimmung, uid, dtstamp
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Year, item.Week, item.Start, item.End,
		nullable(item.TOP), item.Thema, item.Beschreibung,
		nullable(item.URL), nullable(item.Status),
		boolToInt(item.NamedVote), item.UID, item.DTStamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert agenda item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Purge deletes all agenda items. Only reachable when the purge endpoint is
// enabled in the configuration.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM agenda_items`)
	if err != nil {
		return 0, fmt.Errorf("purge agenda items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Optimize runs periodic database maintenance: query-planner statistics
// refresh and a WAL checkpoint.
func (s *Store) Optimize(ctx context.Context) error {
	for _, stmt := range []string{
		"PRAGMA optimize",
		"PRAGMA wal_checkpoint(TRUNCATE)",
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("maintenance %q: %w", stmt, err)
		}
	}
	return nil
}

func nullable(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
