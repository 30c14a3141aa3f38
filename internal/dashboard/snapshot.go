package dashboard

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"

	"wfdash/internal/domain"
	"wfdash/internal/ingest"
	"wfdash/internal/scoring"
	"wfdash/internal/stats"
)

// Snapshot is the filtered view of one dataset at one instant, with the headline
// aggregates already computed. It is shared between callers and must not be modified.
type Snapshot struct {
	LoadID    string                  `json:"loadId"`
	At        time.Time               `json:"at"`
	Filters   domain.DashboardFilters `json:"filters"`
	IssueType domain.IssueType        `json:"issueType"`

	// Issue lens only, used for "what changed"
	LensCases   []domain.Case   `json:"-"`
	LensActions []domain.Action `json:"-"`
	// Issue lens plus filters
	Cases   []domain.Case   `json:"-"`
	Actions []domain.Action `json:"-"`

	KPIs          stats.KPISummary             `json:"kpis"`
	Levels        scoring.KPILevels            `json:"levels"`
	Sites         []stats.SiteKPI              `json:"sites"`
	Scorecard     []scoring.ScorecardRow       `json:"scorecard"`
	Relationships stats.ActionCaseDistribution `json:"-"`
	CaseCount     int                          `json:"caseCount"`
	ActionCount   int                          `json:"actionCount"`
}

// Snapshot returns the memoised view for the active dataset, filters and lens. now is
// truncated to the minute so repeated calls within a minute share one snapshot.
func (s *State) Snapshot(now time.Time) (*Snapshot, error) {
	s.mu.RLock()
	ds, f, lens := s.dataset, s.filters, s.issueType
	s.mu.RUnlock()
	if ds == nil {
		return nil, ErrNoDataset
	}

	at := now.Truncate(time.Minute)
	key, err := snapshotKey(ds.LoadID, f, lens, at)
	if err != nil {
		return nil, err
	}
	if v, ok := s.snapshots.Get(key); ok {
		return v.(*Snapshot), nil
	}

	snap := BuildSnapshot(ds, f, lens, at, s.opts.CasesPerTurbine)
	s.snapshots.Set(key, snap, cache.DefaultExpiration)
	return snap, nil
}

func snapshotKey(loadID string, f domain.DashboardFilters, lens domain.IssueType, at time.Time) (string, error) {
	b, err := json.Marshal(struct {
		LoadID  string                  `json:"l"`
		Filters domain.DashboardFilters `json:"f"`
		Lens    domain.IssueType        `json:"i"`
		At      int64                   `json:"t"`
	}{loadID, f, lens, at.Unix()})
	if err != nil {
		return "", fmt.Errorf("snapshot key: %w", err)
	}
	return string(b), nil
}

// BuildSnapshot derives the view without memoisation. The issue lens is applied first and
// actions follow their case through it; the dashboard filters are applied on top.
func BuildSnapshot(ds *ingest.Dataset, f domain.DashboardFilters, lens domain.IssueType, now time.Time, base float64) *Snapshot {
	// 1. Issue lens
	lensCases := domain.FilterByIssueType(ds.Cases, lens)
	lensActions := domain.RestrictToCases(ds.Actions, lensCases)

	// 2. Dashboard filters
	cases := domain.FilterCases(lensCases, f)
	actions := domain.FilterActions(lensActions, f)

	// 3. Orphans survive only without a lens, for the relationship view
	relActions := actions
	if lens == domain.IssueAll || lens == "" {
		relActions = domain.FilterActions(ds.Actions, f)
	}

	kpis := stats.ComputeKPIs(cases, actions, now)
	sites := stats.ComputeSiteKPIs(cases, actions)

	return &Snapshot{
		LoadID:        ds.LoadID,
		At:            now,
		Filters:       f,
		IssueType:     lens,
		LensCases:     lensCases,
		LensActions:   lensActions,
		Cases:         cases,
		Actions:       actions,
		KPIs:          kpis,
		Levels:        scoring.RateKPIs(kpis),
		Sites:         sites,
		Scorecard:     scoring.Scorecard(sites, base),
		Relationships: stats.ComputeActionCaseDistribution(cases, relActions),
		CaseCount:     len(cases),
		ActionCount:   len(actions),
	}
}
