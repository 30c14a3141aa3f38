package prefs

import (
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfdash/internal/domain"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func putRaw(t *testing.T, s *Store, key string, data []byte) {
	t.Helper()
	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	}))
}

func TestFilters_RoundTrip(t *testing.T) {
	s := newStore(t)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)

	f := domain.DefaultFilters(now)
	f.DateRange = domain.DateRange{Start: &start, End: &end, Preset: domain.PresetCustom}
	f.Sites = []string{"S1", "S2"}
	f.Statuses = []domain.Status{domain.StatusInProgress}
	f.Priorities = []domain.Priority{domain.PriorityP1, domain.PriorityHigh}
	f.OpenOnly = true

	require.NoError(t, s.SaveFilters(f))

	got, ok := s.LoadFilters(now)
	require.True(t, ok)
	assert.Equal(t, f.Sites, got.Sites)
	assert.Equal(t, f.Statuses, got.Statuses)
	assert.Equal(t, f.Priorities, got.Priorities)
	assert.True(t, got.OpenOnly)
	assert.True(t, start.Equal(*got.DateRange.Start))
	assert.True(t, end.Equal(*got.DateRange.End))
	assert.Equal(t, domain.PresetCustom, got.DateRange.Preset)
}

func TestLoadFilters_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing", ""},
		{"corrupt json", "{not json"},
		{"bad preset", `{"dateRange":{"preset":"lastYear"}}`},
		{"bad severity", `{"dateRange":{"preset":"last7"},"severities":["Urgent"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			if tt.raw != "" {
				putRaw(t, s, FiltersKey, []byte(tt.raw))
			}
			got, ok := s.LoadFilters(now)
			assert.False(t, ok)
			assert.Equal(t, domain.DefaultFilters(now), got)
		})
	}
}

func TestLoadFilters_NullSetsBecomeEmpty(t *testing.T) {
	s := newStore(t)
	putRaw(t, s, FiltersKey, []byte(`{"dateRange":{"start":null,"end":null,"preset":"allTime"},"sites":null}`))

	got, ok := s.LoadFilters(now)
	require.True(t, ok)
	assert.NotNil(t, got.Sites)
	assert.Empty(t, got.Sites)
	assert.Equal(t, domain.PresetAllTime, got.DateRange.Preset)
}

func TestSaveFilters_RejectsInvalid(t *testing.T) {
	s := newStore(t)
	f := domain.DefaultFilters(now)
	f.Statuses = []domain.Status{"Done"}
	assert.Error(t, s.SaveFilters(f))

	_, ok := s.LoadFilters(now)
	assert.False(t, ok)
}

func TestClearFilters(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ClearFilters())
	require.NoError(t, s.SaveFilters(domain.DefaultFilters(now)))
	require.NoError(t, s.ClearFilters())
	_, ok := s.LoadFilters(now)
	assert.False(t, ok)
}

func TestLastLoad(t *testing.T) {
	s := newStore(t)
	_, err := s.LastLoad()
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Error(t, s.SaveLastLoad(LastLoad{}))

	rec := LastLoad{LoadID: "abc", LoadedAt: now, Cases: "cases.csv", Actions: "actions.csv"}
	require.NoError(t, s.SaveLastLoad(rec))
	got, err := s.LastLoad()
	require.NoError(t, err)
	assert.Equal(t, "abc", got.LoadID)
	assert.True(t, now.Equal(got.LoadedAt))
}

func TestOpen_Dir(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveFilters(domain.DefaultFilters(now)))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.LoadFilters(now)
	assert.True(t, ok)
}
