package ingest

import (
	"context"
	"time"

	"wfdash/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Files names the three input CSVs. Sites is optional.
type Files struct {
	Cases   string `json:"cases" validate:"required"`
	Actions string `json:"actions" validate:"required"`
	Sites   string `json:"sites"`
}

// Dataset is one complete, joined and validated load cycle.
type Dataset struct {
	LoadID     string                  `json:"loadId"`
	Cases      []domain.Case           `json:"cases"`
	Actions    []domain.Action         `json:"actions"`
	Sites      []domain.SiteLocation   `json:"sites"`
	Validation domain.ValidationResult `json:"validation"`
	LoadedAt   time.Time               `json:"loadedAt"`
}

// Load parses the three files concurrently, then joins and validates them. A parse-fatal
// error in any file aborts the whole load and no dataset is returned.
func Load(ctx context.Context, files Files, now time.Time, metrics *Metrics) (*Dataset, error) {
	loadID := uuid.NewString()
	log.Info().Str("load_id", loadID).Str("cases", files.Cases).Str("actions", files.Actions).Str("sites", files.Sites).Msg("Loading dataset")

	var (
		cases   []domain.Case
		actions []domain.Action
		sites   []domain.SiteLocation
	)

	// 1. Parse all files concurrently; first error wins
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := parse(gctx, "cases", files.Cases, metrics)
		if err != nil {
			return err
		}
		cases = make([]domain.Case, len(rows))
		for i, r := range rows {
			cases[i] = domain.BuildCase(r, now)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := parse(gctx, "actions", files.Actions, metrics)
		if err != nil {
			return err
		}
		actions = make([]domain.Action, len(rows))
		for i, r := range rows {
			actions[i] = domain.BuildAction(r, now)
		}
		return nil
	})
	g.Go(func() error {
		if files.Sites == "" {
			return nil
		}
		rows, err := parse(gctx, "sites", files.Sites, metrics)
		if err != nil {
			return err
		}
		sites = make([]domain.SiteLocation, len(rows))
		for i, r := range rows {
			sites[i] = domain.BuildSite(r)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.observeFailure()
		log.Error().Err(err).Str("load_id", loadID).Msg("Dataset load failed")
		return nil, err
	}

	// 2. Join and validate once every file is in
	ds := Assemble(cases, actions, sites, now)
	ds.LoadID = loadID
	metrics.observeValidation(len(ds.Validation.Warnings))

	for _, w := range ds.Validation.Warnings {
		log.Warn().Str("load_id", loadID).Msg(w)
	}
	for _, e := range ds.Validation.Errors {
		log.Error().Str("load_id", loadID).Msg(e)
	}
	log.Info().
		Str("load_id", loadID).
		Int("cases", len(ds.Cases)).
		Int("actions", len(ds.Actions)).
		Int("sites", len(ds.Sites)).
		Bool("valid", ds.Validation.Valid).
		Msg("Dataset loaded")

	return ds, nil
}

// Assemble joins already-built entities into a Dataset without an id.
func Assemble(cases []domain.Case, actions []domain.Action, sites []domain.SiteLocation, now time.Time) *Dataset {
	joined := domain.JoinSiteLocations(cases, sites)
	enriched := domain.EnrichActions(actions, joined)
	if sites == nil {
		sites = []domain.SiteLocation{}
	}

	return &Dataset{
		Cases:      joined,
		Actions:    enriched,
		Sites:      sites,
		Validation: domain.ValidateData(joined, enriched),
		LoadedAt:   now,
	}
}

func parse(ctx context.Context, name, path string, metrics *Metrics) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	metrics.observeParse(name, len(rows), elapsed)

	log.Debug().Str("file", name).Str("path", path).Int("rows", len(rows)).Dur("elapsed", elapsed).Msg("Parsed CSV")
	return rows, nil
}
