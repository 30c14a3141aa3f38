// Package prefs persists dashboard preferences in an embedded badger database.
package prefs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"wfdash/internal/domain"
)

// Well-known keys.
const (
	FiltersKey  = "windFarmDashboard_filters"
	LastLoadKey = "windFarmDashboard_lastLoad"
)

// ErrNotFound is returned when a key has never been saved.
var ErrNotFound = errors.New("preference not found")

// LastLoad records the most recent successful dataset load.
type LastLoad struct {
	LoadID   string    `json:"loadId" validate:"required"`
	LoadedAt time.Time `json:"loadedAt"`
	Cases    string    `json:"cases"`
	Actions  string    `json:"actions"`
	Sites    string    `json:"sites,omitempty"`
}

// Store is a small key/value preference store.
type Store struct {
	db       *badger.DB
	validate *validator.Validate
	once     sync.Once
}

// Open opens (or creates) the store under dir.
func Open(dir string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open preference store %s: %w", dir, err)
	}
	return &Store{db: db, validate: validator.New()}, nil
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory preference store: %w", err)
	}
	return &Store{db: db, validate: validator.New()}, nil
}

// Close releases the database. Safe to call more than once.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() { err = s.db.Close() })
	return err
}

// SaveFilters persists the selection under FiltersKey.
func (s *Store) SaveFilters(f domain.DashboardFilters) error {
	if err := s.validate.Struct(f); err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}
	return s.put(FiltersKey, f)
}

// LoadFilters returns the persisted selection. Missing, undecodable or invalid state is
// ignored in favour of DefaultFilters(now); the returned bool reports whether the stored
// value was used.
func (s *Store) LoadFilters(now time.Time) (domain.DashboardFilters, bool) {
	var f domain.DashboardFilters
	if err := s.get(FiltersKey, &f); err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Msg("Ignoring stored filters")
		}
		return domain.DefaultFilters(now), false
	}
	if err := s.validate.Struct(f); err != nil {
		log.Warn().Err(err).Msg("Ignoring invalid stored filters")
		return domain.DefaultFilters(now), false
	}
	return normalizeSets(f), true
}

// ClearFilters removes the persisted selection.
func (s *Store) ClearFilters() error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(FiltersKey)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete %s: %w", FiltersKey, err)
		}
		return nil
	})
}

// SaveLastLoad records load metadata under LastLoadKey.
func (s *Store) SaveLastLoad(l LastLoad) error {
	if err := s.validate.Struct(l); err != nil {
		return fmt.Errorf("invalid load record: %w", err)
	}
	return s.put(LastLoadKey, l)
}

// LastLoad returns the most recent load record or ErrNotFound.
func (s *Store) LastLoad() (LastLoad, error) {
	var l LastLoad
	err := s.get(LastLoadKey, &l)
	return l, err
}

func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}

func (s *Store) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, v); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
			return nil
		})
	})
}

// normalizeSets turns null inclusion sets from older records into empty ones.
func normalizeSets(f domain.DashboardFilters) domain.DashboardFilters {
	if f.Sites == nil {
		f.Sites = []string{}
	}
	if f.Turbines == nil {
		f.Turbines = []string{}
	}
	if f.Severities == nil {
		f.Severities = []domain.Severity{}
	}
	if f.Priorities == nil {
		f.Priorities = []domain.Priority{}
	}
	if f.Statuses == nil {
		f.Statuses = []domain.Status{}
	}
	if f.Components == nil {
		f.Components = []string{}
	}
	if f.FailureModes == nil {
		f.FailureModes = []string{}
	}
	return f
}
