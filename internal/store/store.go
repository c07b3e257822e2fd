// Package store persists the company document. Load hands out a snapshot
// owned by the caller; Save is the only commit point.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"airline_sim/internal/catalog"
	"airline_sim/internal/log"
	"airline_sim/internal/models"
)

type Repository interface {
	// Load returns the current document. A missing or unreadable document
	// yields a fresh default one.
	Load(ctx context.Context) (*models.CompanyState, error)
	// Save atomically replaces the document.
	Save(ctx context.Context, st *models.CompanyState) error
}

// File stores the document as indented JSON at a fixed path.
type File struct {
	path       string
	archiveDir string
	lg         *log.Logger
	now        func() time.Time
}

type Option func(*File)

// WithArchive writes entries evicted from the ledger and flight history
// into dir as LZ4-compressed JSON lines.
func WithArchive(dir string) Option {
	return func(f *File) { f.archiveDir = dir }
}

func WithLogger(lg *log.Logger) Option {
	return func(f *File) { f.lg = lg }
}

func NewFile(path string, opts ...Option) *File {
	f := &File{path: path, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Load(ctx context.Context) (*models.CompanyState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewCompanyState(), nil
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	st, version, err := models.Decode(data)
	if err != nil {
		bak := f.path + ".bak"
		if rerr := os.Rename(f.path, bak); rerr != nil {
			return nil, fmt.Errorf("quarantine %s: %w", f.path, rerr)
		}
		f.lg.Warn("corrupt save quarantined", "path", f.path, "backup", bak, "error", err)
		return models.NewCompanyState(), nil
	}
	if version < models.SchemaVersion {
		Migrate(st, version)
		f.lg.Info("migrated save", "path", f.path, "from", version, "to", models.SchemaVersion)
	}
	return st, nil
}

func (f *File) Save(ctx context.Context, st *models.CompanyState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st.Version = models.SchemaVersion
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if f.archiveDir != "" && !st.Evicted.Empty() {
		name, err := writeArchive(f.archiveDir, f.now(), st.Evicted)
		if err != nil {
			return fmt.Errorf("archive evicted history: %w", err)
		}
		f.lg.Debug("archived evicted history", "file", name,
			"ledger", len(st.Evicted.Ledger), "flights", len(st.Evicted.Flights))
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return err
	}
	st.Evicted = models.Evicted{}
	return nil
}

// Migrate upgrades a document written by an older schema in place.
func Migrate(st *models.CompanyState, from int) {
	if from < 1 {
		for i := range st.Fleet {
			ac := &st.Fleet[i]
			if ac.Oil != nil {
				continue
			}
			if t, ok := catalog.Lookup(ac.TypeCode); ok && t.TracksOil() {
				ac.Oil = &models.OilState{Level: t.OilCapacity, Capacity: t.OilCapacity, Minimum: t.OilMinimum}
			}
		}
	}
	st.Version = models.SchemaVersion
}
