// Package presets stores named equalizer snapshots in a SQLite database.
// Each row holds the same binary state blob a host would persist, so a
// loaded preset reproduces the saved coefficients exactly.
package presets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cwbudde/spectrum-eq/dsp/eq"
)

var (
	// ErrPresetNotFound is returned when no preset has the requested name.
	ErrPresetNotFound = errors.New("presets: preset not found")
	// ErrInvalidName is returned for an empty preset name.
	ErrInvalidName = errors.New("presets: name must not be empty")
)

// Preset is one stored snapshot.
type Preset struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	State     []byte `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a preset database. It is safe for concurrent use.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open opens or creates the database at path and migrates the schema.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("presets: create directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("presets: open %s: %w", path, err)
	}

	if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		return nil, fmt.Errorf("presets: set busy timeout: %w", err)
	}

	if err := db.AutoMigrate(&Preset{}); err != nil {
		return nil, fmt.Errorf("presets: migrate: %w", err)
	}

	s.db = db
	s.log.Debug().Str("path", path).Msg("preset store opened")

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("presets: %w", err)
	}

	return sqlDB.Close()
}

// Save stores settings under name, replacing an existing preset with the
// same name.
func (s *Store) Save(name string, settings eq.Settings) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	state, err := eq.MarshalSettings(settings)
	if err != nil {
		return fmt.Errorf("presets: encode %q: %w", name, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var p Preset

		err := tx.First(&p, "name = ?", name).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&Preset{Name: name, State: state}).Error
		case err != nil:
			return err
		}

		p.State = state

		return tx.Save(&p).Error
	})
	if err != nil {
		return fmt.Errorf("presets: save %q: %w", name, err)
	}

	s.log.Info().Str("preset", name).Msg("preset saved")

	return nil
}

// Load returns the settings stored under name.
func (s *Store) Load(name string) (eq.Settings, error) {
	var p Preset
	if err := s.db.First(&p, "name = ?", strings.TrimSpace(name)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return eq.Settings{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
		}

		return eq.Settings{}, fmt.Errorf("presets: load %q: %w", name, err)
	}

	settings, err := eq.UnmarshalSettings(p.State)
	if err != nil {
		return eq.Settings{}, fmt.Errorf("presets: decode %q: %w", name, err)
	}

	return settings, nil
}

// LoadInto applies the preset stored under name to params. params is left
// unchanged on error.
func (s *Store) LoadInto(name string, params *eq.Parameters) error {
	settings, err := s.Load(name)
	if err != nil {
		return err
	}

	params.Apply(settings)

	return nil
}

// List returns all preset names in alphabetical order.
func (s *Store) List() ([]string, error) {
	var names []string
	if err := s.db.Model(&Preset{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("presets: list: %w", err)
	}

	return names, nil
}

// Delete removes the preset stored under name.
func (s *Store) Delete(name string) error {
	result := s.db.Where("name = ?", strings.TrimSpace(name)).Delete(&Preset{})
	if result.Error != nil {
		return fmt.Errorf("presets: delete %q: %w", name, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}

	s.log.Info().Str("preset", name).Msg("preset deleted")

	return nil
}
