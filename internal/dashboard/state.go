// Package dashboard holds the loaded dataset and the active filter selection, and
// derives memoised snapshots of the filtered view.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"wfdash/internal/domain"
	"wfdash/internal/ingest"
	"wfdash/internal/prefs"
	"wfdash/internal/scoring"
)

var (
	// ErrNoDataset is returned by read operations before the first successful load.
	ErrNoDataset = errors.New("no dataset loaded: call load_dataset first")
	// ErrLoadInProgress rejects a load while another one runs.
	ErrLoadInProgress = errors.New("a dataset load is already in progress")
)

// DefaultSnapshotTTL is how long a computed snapshot is reused.
const DefaultSnapshotTTL = 5 * time.Minute

// Options wires the state to its collaborators. Every field is optional.
type Options struct {
	Store           *prefs.Store
	Metrics         *ingest.Metrics
	MetricsFile     string
	SnapshotTTL     time.Duration
	CasesPerTurbine float64
}

// Status is the load state shown next to the data.
type Status struct {
	Loading   bool         `json:"loading"`
	LastError string       `json:"lastError,omitempty"`
	LoadID    string       `json:"loadId,omitempty"`
	LoadedAt  *time.Time   `json:"loadedAt,omitempty"`
	Cases     int          `json:"cases"`
	Actions   int          `json:"actions"`
	Sites     int          `json:"sites"`
	Files     ingest.Files `json:"files"`
}

// State is the single mutable application object. Safe for concurrent use.
type State struct {
	mu        sync.RWMutex
	opts      Options
	dataset   *ingest.Dataset
	files     ingest.Files
	filters   domain.DashboardFilters
	issueType domain.IssueType
	loading   bool
	lastErr   string

	snapshots *cache.Cache
	validate  *validator.Validate
}

// New creates a state with the persisted filters, or the defaults when none are stored.
func New(opts Options, now time.Time) *State {
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = DefaultSnapshotTTL
	}
	if opts.CasesPerTurbine <= 0 {
		opts.CasesPerTurbine = scoring.DefaultCasesPerTurbine
	}

	s := &State{
		opts:      opts,
		filters:   domain.DefaultFilters(now),
		issueType: domain.IssueAll,
		snapshots: cache.New(opts.SnapshotTTL, 2*opts.SnapshotTTL),
		validate:  validator.New(),
	}
	if opts.Store != nil {
		if f, ok := opts.Store.LoadFilters(now); ok {
			s.filters = f
			log.Debug().Msg("Restored persisted filters")
		}
	}
	return s
}

// Load replaces the dataset with a fresh load of files. A failed load keeps the previous
// dataset, records the error for Status and always clears the loading flag.
func (s *State) Load(ctx context.Context, files ingest.Files, now time.Time) (*ingest.Dataset, error) {
	if err := s.validate.Struct(files); err != nil {
		return nil, fmt.Errorf("invalid input files: %w", err)
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrLoadInProgress
	}
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	ds, err := ingest.Load(ctx, files, now, s.opts.Metrics)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
		s.mu.Unlock()
		return nil, err
	}
	s.dataset = ds
	s.files = files
	s.snapshots.Flush()
	s.mu.Unlock()

	s.afterLoad(ds, files)
	return ds, nil
}

// afterLoad records the load and exports metrics. Failures here never fail the load.
func (s *State) afterLoad(ds *ingest.Dataset, files ingest.Files) {
	if s.opts.Store != nil {
		rec := prefs.LastLoad{
			LoadID:   ds.LoadID,
			LoadedAt: ds.LoadedAt,
			Cases:    files.Cases,
			Actions:  files.Actions,
			Sites:    files.Sites,
		}
		if err := s.opts.Store.SaveLastLoad(rec); err != nil {
			log.Warn().Err(err).Str("load_id", ds.LoadID).Msg("Failed to record load")
		}
	}
	if s.opts.Metrics != nil && s.opts.MetricsFile != "" {
		if err := s.opts.Metrics.WriteTextfile(s.opts.MetricsFile); err != nil {
			log.Warn().Err(err).Str("path", s.opts.MetricsFile).Msg("Failed to write metrics file")
		}
	}
}

// Status reports the load state.
func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{Loading: s.loading, LastError: s.lastErr, Files: s.files}
	if ds := s.dataset; ds != nil {
		st.LoadID = ds.LoadID
		at := ds.LoadedAt
		st.LoadedAt = &at
		st.Cases = len(ds.Cases)
		st.Actions = len(ds.Actions)
		st.Sites = len(ds.Sites)
	}
	return st
}

// Dataset returns the current dataset or ErrNoDataset.
func (s *State) Dataset() (*ingest.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNoDataset
	}
	return s.dataset, nil
}

// Validation returns the validation result of the current dataset.
func (s *State) Validation() (domain.ValidationResult, error) {
	ds, err := s.Dataset()
	if err != nil {
		return domain.ValidationResult{}, err
	}
	return ds.Validation, nil
}

// Filters returns the active selection.
func (s *State) Filters() domain.DashboardFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetFilters validates and activates f, persisting it when a store is configured.
func (s *State) SetFilters(f domain.DashboardFilters) error {
	if err := s.validate.Struct(f); err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}
	if f.DateRange.Start != nil && f.DateRange.End != nil && f.DateRange.End.Before(*f.DateRange.Start) {
		return fmt.Errorf("invalid filters: date range ends before it starts")
	}

	s.mu.Lock()
	s.filters = f
	s.mu.Unlock()

	s.persist(f)
	return nil
}

// ApplyPreset replaces only the date range with a named preset ending at now.
func (s *State) ApplyPreset(name domain.DatePreset, now time.Time) error {
	r, ok := domain.Preset(now, name)
	if !ok {
		return fmt.Errorf("unknown date preset %q", name)
	}

	s.mu.Lock()
	s.filters.DateRange = r
	f := s.filters
	s.mu.Unlock()

	s.persist(f)
	return nil
}

// ResetFilters restores DefaultFilters(now) and persists them.
func (s *State) ResetFilters(now time.Time) domain.DashboardFilters {
	f := domain.DefaultFilters(now)

	s.mu.Lock()
	s.filters = f
	s.mu.Unlock()

	s.persist(f)
	return f
}

func (s *State) persist(f domain.DashboardFilters) {
	if s.opts.Store == nil {
		return
	}
	if err := s.opts.Store.SaveFilters(f); err != nil {
		log.Warn().Err(err).Msg("Failed to persist filters")
	}
}

// IssueType returns the active issue lens.
func (s *State) IssueType() domain.IssueType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issueType
}

// SetIssueType activates an issue lens.
func (s *State) SetIssueType(t domain.IssueType) error {
	switch t {
	case domain.IssueAll, domain.IssueCMSHardware, domain.IssueMechanical:
	default:
		return fmt.Errorf("unknown issue type %q", t)
	}
	s.mu.Lock()
	s.issueType = t
	s.mu.Unlock()
	return nil
}

// CasesPerTurbine is the recommendation base threshold in use.
func (s *State) CasesPerTurbine() float64 {
	return s.opts.CasesPerTurbine
}
