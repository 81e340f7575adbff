// Package catalog records slides and their shape exports in a local SQLite
// database, so a lab can answer "which transform produced this cut file"
// months after the run.
package catalog

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dvp-tools/lmdkit/internal/geometry"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound indicates a lookup matched no catalog row.
var ErrNotFound = errors.New("catalog: not found")

// Slide is one registered whole-slide image.
type Slide struct {
	ID        string
	Name      string
	ImageType string
	MPPX      *float64
	CreatedAt time.Time
}

// Export is one recorded shape export: which slide it came from, where the
// file went, and the transform that produced the written coordinates.
type Export struct {
	ID         string
	SlideID    string
	Path       string
	ShapeCount int
	Precision  int
	Transform  geometry.Affine
	CreatedAt  time.Time
}

// Catalog wraps the SQLite store.
type Catalog struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog at path and applies any
// pending schema migrations.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// migrateUp applies all pending migrations from the embedded source.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("catalog: loading migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("catalog: creating sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("catalog: creating migrate instance: %w", err)
	}
	// Note: we don't close m here because it would close the underlying DB
	// connection.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("catalog: migration failed: %w", err)
	}
	return nil
}

// RegisterSlide records a slide and returns it with a fresh ID.
func (c *Catalog) RegisterSlide(name, imageType string, mppX *float64) (Slide, error) {
	s := Slide{
		ID:        uuid.NewString(),
		Name:      name,
		ImageType: imageType,
		MPPX:      mppX,
		CreatedAt: time.Now().UTC(),
	}

	_, err := c.db.Exec(
		`INSERT INTO slides (slide_id, name, image_type, mpp_x, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.ImageType, s.MPPX, s.CreatedAt,
	)
	if err != nil {
		return Slide{}, fmt.Errorf("catalog: registering slide %q: %w", name, err)
	}
	return s, nil
}

// GetSlide fetches one slide by ID.
func (c *Catalog) GetSlide(id string) (Slide, error) {
	var s Slide
	err := c.db.QueryRow(
		`SELECT slide_id, name, image_type, mpp_x, created_at FROM slides WHERE slide_id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.ImageType, &s.MPPX, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Slide{}, fmt.Errorf("%w: slide %s", ErrNotFound, id)
	}
	if err != nil {
		return Slide{}, fmt.Errorf("catalog: fetching slide %s: %w", id, err)
	}
	return s, nil
}

// ListSlides returns all slides, newest first.
func (c *Catalog) ListSlides() ([]Slide, error) {
	rows, err := c.db.Query(
		`SELECT slide_id, name, image_type, mpp_x, created_at FROM slides ORDER BY created_at DESC, slide_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: listing slides: %w", err)
	}
	defer rows.Close()

	var slides []Slide
	for rows.Next() {
		var s Slide
		if err := rows.Scan(&s.ID, &s.Name, &s.ImageType, &s.MPPX, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scanning slide row: %w", err)
		}
		slides = append(slides, s)
	}
	return slides, rows.Err()
}

// RecordExport stores one export run. The transform is serialized as JSON
// so the exact matrix survives alongside the file it produced.
func (c *Catalog) RecordExport(slideID, path string, shapeCount, precision int, transform geometry.Affine) (Export, error) {
	if _, err := c.GetSlide(slideID); err != nil {
		return Export{}, err
	}

	matrixJSON, err := json.Marshal(transform)
	if err != nil {
		return Export{}, fmt.Errorf("catalog: encoding transform: %w", err)
	}

	e := Export{
		ID:         uuid.NewString(),
		SlideID:    slideID,
		Path:       path,
		ShapeCount: shapeCount,
		Precision:  precision,
		Transform:  transform,
		CreatedAt:  time.Now().UTC(),
	}

	_, err = c.db.Exec(
		`INSERT INTO exports (export_id, slide_id, path, shape_count, precision, transform, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SlideID, e.Path, e.ShapeCount, e.Precision, string(matrixJSON), e.CreatedAt,
	)
	if err != nil {
		return Export{}, fmt.Errorf("catalog: recording export of slide %s: %w", slideID, err)
	}
	return e, nil
}

// ListExports returns all exports for one slide, newest first.
func (c *Catalog) ListExports(slideID string) ([]Export, error) {
	rows, err := c.db.Query(
		`SELECT export_id, slide_id, path, shape_count, precision, transform, created_at
		 FROM exports WHERE slide_id = ? ORDER BY created_at DESC, export_id`, slideID,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: listing exports for slide %s: %w", slideID, err)
	}
	defer rows.Close()

	var exports []Export
	for rows.Next() {
		var e Export
		var matrixJSON string
		if err := rows.Scan(&e.ID, &e.SlideID, &e.Path, &e.ShapeCount, &e.Precision, &matrixJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scanning export row: %w", err)
		}
		if err := json.Unmarshal([]byte(matrixJSON), &e.Transform); err != nil {
			return nil, fmt.Errorf("catalog: decoding transform for export %s: %w", e.ID, err)
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}
