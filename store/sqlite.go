package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/db"
	"github.com/surafelx/portfolio26/models"
)

// Fixed-width so created_at sorts lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

func formatTS(t time.Time) string { return t.UTC().Format(tsLayout) }

// NewSQLiteBackend wires every collection to a database opened with db.OpenSQLite.
func NewSQLiteBackend(sqlDB *sql.DB) *Backend {
	return &Backend{
		Projects: NewSQLiteCollection[models.Project](sqlDB, db.Projects),
		Articles: NewSQLiteCollection[models.Article](sqlDB, db.Articles),
		Notes:    NewSQLiteCollection[models.Note](sqlDB, db.Notes),
		About:    NewSQLiteCollection[models.About](sqlDB, db.About),
		Contacts: NewSQLiteCollection[models.ContactMessage](sqlDB, db.ContactMessages),
		Events:   &SQLiteEvents{db: sqlDB},
		ping:     sqlDB.PingContext,
		close:    func(context.Context) error { return sqlDB.Close() },
	}
}

// SQLiteCollection keeps each document as a JSON blob in a table named
// after the collection.
type SQLiteCollection[T Document] struct {
	db    *sql.DB
	table string
}

func NewSQLiteCollection[T Document](sqlDB *sql.DB, table string) *SQLiteCollection[T] {
	return &SQLiteCollection[T]{db: sqlDB, table: table}
}

func (c *SQLiteCollection[T]) All(ctx context.Context) ([]T, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY created_at DESC, id ASC`, c.table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.table, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.table, err)
		}
		var doc T
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.table, err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (c *SQLiteCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	var raw string
	err := c.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = ?`, c.table), id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, fmt.Errorf("%s %q: %w", c.table, id, apperr.ErrNotFound)
	}
	if err != nil {
		return doc, fmt.Errorf("get %s %q: %w", c.table, id, err)
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, fmt.Errorf("decode %s %q: %w", c.table, id, err)
	}
	return doc, nil
}

func (c *SQLiteCollection[T]) Insert(ctx context.Context, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.table, err)
	}
	res, err := c.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc, created_at) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`, c.table),
		doc.DocID(), string(raw), formatTS(doc.Created()))
	if err != nil {
		return fmt.Errorf("insert %s: %w", c.table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %q: %w", c.table, doc.DocID(), apperr.ErrConflict)
	}
	return nil
}

func (c *SQLiteCollection[T]) Replace(ctx context.Context, id string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.table, err)
	}
	res, err := c.db.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET doc = ? WHERE id = ?`, c.table), string(raw), id)
	if err != nil {
		return fmt.Errorf("replace %s %q: %w", c.table, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %q: %w", c.table, id, apperr.ErrNotFound)
	}
	return nil
}

func (c *SQLiteCollection[T]) Delete(ctx context.Context, id string) (bool, error) {
	res, err := c.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, c.table), id)
	if err != nil {
		return false, fmt.Errorf("delete %s %q: %w", c.table, id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (c *SQLiteCollection[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, c.table)).Scan(&n)
	return n, err
}

// SQLiteEvents mirrors the Mongo layout: one table per subject.
type SQLiteEvents struct {
	db *sql.DB
}

func (e *SQLiteEvents) Append(ctx context.Context, ev models.ViewEvent) error {
	bot := 0
	if ev.Bot {
		bot = 1
	}
	_, err := e.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, subject_id, ip, user_agent, browser, os, bot, ts) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, ev.Subject.Collection()),
		ev.ID, ev.SubjectID, ev.IP, ev.UserAgent, ev.Browser, ev.OS, bot, formatTS(ev.Timestamp))
	if err != nil {
		return fmt.Errorf("insert %s: %w", ev.Subject.Collection(), err)
	}
	return nil
}

func (e *SQLiteEvents) CountBySubject(ctx context.Context, s models.Subject) ([]models.ViewCount, error) {
	if s.Field() == "" {
		return []models.ViewCount{}, nil
	}
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT subject_id, COUNT(*) AS n FROM %s
		WHERE subject_id <> ''
		GROUP BY subject_id
		ORDER BY n DESC, subject_id ASC`, s.Collection()))
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", s.Collection(), err)
	}
	defer rows.Close()

	out := []models.ViewCount{}
	for rows.Next() {
		var vc models.ViewCount
		if err := rows.Scan(&vc.ID, &vc.Count); err != nil {
			return nil, fmt.Errorf("scan %s stats: %w", s.Collection(), err)
		}
		out = append(out, vc)
	}
	return out, rows.Err()
}

func (e *SQLiteEvents) Count(ctx context.Context, s models.Subject) (int64, error) {
	var n int64
	err := e.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.Collection())).Scan(&n)
	return n, err
}

func (e *SQLiteEvents) VisitStats(ctx context.Context) (models.VisitStats, error) {
	var st models.VisitStats
	err := e.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*), COUNT(DISTINCT ip) FROM %s`, models.SubjectVisit.Collection())).
		Scan(&st.Total, &st.UniqueIPs)
	if err != nil {
		return st, fmt.Errorf("visit stats: %w", err)
	}
	return st, nil
}
