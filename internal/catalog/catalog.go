// Package catalog indexes stored runs in SQLite so they can be listed and
// filtered without reading every run directory.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/storage"
)

const driverName = "sqlite"

var ErrNotFound = errors.New("catalog: run not found")

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

type Catalog struct {
	db *sqlx.DB
}

// Entry is one catalogued run.
type Entry struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	CreatedAt   int64   `db:"created_at" json:"created_at"`
	Omega       float64 `db:"omega" json:"omega"`
	Amplitude   float64 `db:"amplitude" json:"amplitude"`
	Gravity     float64 `db:"gravity" json:"gravity"`
	Restitution float64 `db:"restitution" json:"restitution"`
	Duration    float64 `db:"duration" json:"duration"`
	Height      float64 `db:"height" json:"height"`
	Velocity    float64 `db:"velocity" json:"velocity"`
	Dt          float64 `db:"dt" json:"dt"`
	Samples     int     `db:"samples" json:"samples"`
	Collisions  int     `db:"collisions" json:"collisions"`
	Final       string  `db:"final" json:"final"`
	AdheredAt   int     `db:"adhered_at" json:"adhered_at"`

	Metrics map[string]float64 `db:"-" json:"metrics,omitempty"`
}

func (e Entry) Created() time.Time { return time.Unix(0, e.CreatedAt).UTC() }

// Filter narrows List. Zero values match everything.
type Filter struct {
	Name  string
	Final string
	Limit int
}

// Open opens or creates the catalog database and applies migrations.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := runMigrations(path); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func entryFrom(meta *storage.RunMetadata) Entry {
	p := meta.Params
	return Entry{
		ID:          meta.ID,
		Name:        meta.Name,
		CreatedAt:   meta.Timestamp.UnixNano(),
		Omega:       p.Omega,
		Amplitude:   p.Amplitude,
		Gravity:     p.Gravity,
		Restitution: p.Restitution,
		Duration:    p.Duration,
		Height:      p.Height,
		Velocity:    p.Velocity,
		Dt:          meta.Dt,
		Samples:     meta.Samples,
		Collisions:  len(meta.Collisions),
		Final:       meta.Final.String(),
		AdheredAt:   meta.AdheredAt,
		Metrics:     meta.Metrics,
	}
}

// Insert records a stored run and its metrics.
func (c *Catalog) Insert(ctx context.Context, meta *storage.RunMetadata) error {
	e := entryFrom(meta)

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO runs (id, name, created_at, omega, amplitude, gravity, restitution,
			duration, height, velocity, dt, samples, collisions, final, adhered_at)
		VALUES (:id, :name, :created_at, :omega, :amplitude, :gravity, :restitution,
			:duration, :height, :velocity, :dt, :samples, :collisions, :final, :adhered_at)
	`, e)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", e.ID, err)
	}

	for name, value := range e.Metrics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_metrics (run_id, name, value) VALUES (?, ?, ?)`,
			e.ID, name, value); err != nil {
			return fmt.Errorf("insert metric %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func (c *Catalog) Get(ctx context.Context, id string) (*Entry, error) {
	var e Entry
	err := c.db.GetContext(ctx, &e, `SELECT * FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	metrics, err := c.metrics(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Metrics = metrics
	return &e, nil
}

// List returns matching runs, newest first.
func (c *Catalog) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := `SELECT * FROM runs WHERE 1 = 1`
	args := make([]any, 0, 3)
	if f.Name != "" {
		query += ` AND name = ?`
		args = append(args, f.Name)
	}
	if f.Final != "" {
		query += ` AND final = ?`
		args = append(args, f.Final)
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	entries := make([]Entry, 0)
	if err := c.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (c *Catalog) metrics(ctx context.Context, id string) (map[string]float64, error) {
	var rows []struct {
		Name  string  `db:"name"`
		Value float64 `db:"value"`
	}
	if err := c.db.SelectContext(ctx, &rows, `SELECT name, value FROM run_metrics WHERE run_id = ?`, id); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Name] = r.Value
	}
	return out, nil
}

// Regime parses the stored terminal regime.
func (e Entry) Regime() dynamo.Regime {
	r, _ := dynamo.ParseRegime(e.Final)
	return r
}
