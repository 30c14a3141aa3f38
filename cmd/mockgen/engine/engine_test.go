package engine

import (
	"context"
	"testing"
	"time"

	"wfdash/internal/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Sites: 4, Cases: 120, Orphans: 3, Seed: 7, Now: now}

	a := Generate(cfg)
	b := Generate(cfg)
	assert.Equal(t, a, b)

	cfg.Seed = 8
	assert.NotEqual(t, a, Generate(cfg))
}

func TestGenerate_Shape(t *testing.T) {
	ds := Generate(GeneratorConfig{Sites: 3, TurbinesPerSite: 5, Cases: 200, Orphans: 2, Seed: 1, Now: now})

	require.Len(t, ds.Sites, 3)
	require.Len(t, ds.Cases, 200)
	for _, s := range ds.Sites {
		assert.Len(t, s.Turbines, 5)
	}

	caseIDs := map[string]bool{}
	for _, c := range ds.Cases {
		caseIDs[c.ID] = true
		assert.False(t, c.CreatedAt.After(now), c.ID)
		assert.False(t, c.UpdatedAt.Before(c.CreatedAt), c.ID)
		if c.ConfirmedAt != nil {
			require.NotNil(t, c.InspectedAt, c.ID)
			assert.True(t, c.ConfirmedAt.After(*c.InspectedAt), c.ID)
		}
		if c.ClosedAt != nil {
			require.NotNil(t, c.ConfirmedAt, c.ID)
			assert.False(t, c.ClosedAt.After(now), c.ID)
		}
	}

	orphans := 0
	for _, a := range ds.Actions {
		assert.False(t, a.CreatedAt.After(now), a.ActionID)
		assert.False(t, a.UpdatedAt.Before(a.CreatedAt), a.ActionID)
		if !caseIDs[a.CaseID] {
			orphans++
		}
	}
	assert.Equal(t, 2, orphans)
}

func TestGenerate_NoSites(t *testing.T) {
	ds := Generate(GeneratorConfig{Cases: 10, Now: now})
	assert.Empty(t, ds.Cases)
	assert.Empty(t, ds.Actions)
}

func TestSave_LoadsBack(t *testing.T) {
	ds := Generate(GeneratorConfig{Sites: 2, Cases: 50, Orphans: 1, Seed: 3, Now: now})

	files, err := Save(t.TempDir(), ds)
	require.NoError(t, err)

	loaded, err := ingest.Load(context.Background(), files, now, nil)
	require.NoError(t, err)

	assert.Len(t, loaded.Cases, len(ds.Cases))
	assert.Len(t, loaded.Actions, len(ds.Actions))
	assert.Len(t, loaded.Sites, 2)
	assert.Len(t, loaded.Validation.OrphanedActions, 1)

	// every case sits on a generated site, so all are geolocated
	for _, c := range loaded.Cases {
		assert.False(t, c.NoGeo, c.ID)
	}
	assert.Equal(t, ds.Cases[0].Severity, string(loaded.Cases[0].Severity))
	assert.Equal(t, ds.Cases[0].CreatedAt, loaded.Cases[0].CreatedAt.UTC())
}
