package stats

import (
	"testing"

	"wfdash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteFixture() ([]domain.Case, []domain.Action) {
	cases := []domain.Case{
		{ID: "C1", SiteID: "S2", SiteName: "South", TurbineID: "T1", ComponentName: "GEARBOX", FailureModeName: "WEAR", IsOpen: true, IsCritical: true, Severity: domain.SeverityCritical, AgeDays: 10},
		{ID: "C2", SiteID: "S2", SiteName: "South", TurbineID: "T1", ComponentName: "GEARBOX", FailureModeName: "CRACK", IsOpen: true, AgeDays: 20},
		{ID: "C3", SiteID: "S2", SiteName: "South", TurbineID: "T2", ComponentName: "BLADE", FailureModeName: "CRACK", IsOpen: false, IsCritical: true, Severity: domain.SeverityCritical, AgeDays: 30},
		{ID: "C4", SiteID: "S1", SiteName: "North", TurbineID: "T9", ComponentName: "BLADE", FailureModeName: "CRACK", IsOpen: true, AgeDays: 4},
	}
	met, missed := true, false
	d := now
	actions := []domain.Action{
		{ActionID: "A1", CaseID: "C1", IsOverdue: true, Deadline: &d},
		{ActionID: "A2", CaseID: "C2", IsOverdue: true, Deadline: &d},
		{ActionID: "A3", CaseID: "C3", Deadline: &d, MetSLA: &met, Status: domain.StatusClosed},
		{ActionID: "A4", CaseID: "C4", Deadline: &d, MetSLA: &missed, Status: domain.StatusClosed},
		{ActionID: "A5", CaseID: "ORPHAN", IsOverdue: true},
	}
	return cases, actions
}

func TestComputeSiteKPIs(t *testing.T) {
	cases, actions := siteFixture()

	got := ComputeSiteKPIs(cases, actions)

	assert.Equal(t, []SiteKPI{
		{SiteID: "S1", SiteName: "North", OpenCases: 1, CriticalCases: 0, OverdueActions: 0, TurbineCount: 1, CasesPerTurbine: 1},
		{SiteID: "S2", SiteName: "South", OpenCases: 2, CriticalCases: 1, OverdueActions: 2, TurbineCount: 2, CasesPerTurbine: 1},
	}, got)
}

func TestTopSitesByOpenCases(t *testing.T) {
	sites := []SiteKPI{{SiteID: "S1", OpenCases: 3}, {SiteID: "S2", OpenCases: 5}, {SiteID: "S0", OpenCases: 3}}
	assert.Equal(t, []string{"S2", "S0"}, TopSitesByOpenCases(sites, 2))
	assert.Equal(t, []string{"S2", "S0", "S1"}, TopSitesByOpenCases(sites, 10))
}

func TestComputeHeatmap(t *testing.T) {
	cases, _ := siteFixture()

	assert.Equal(t, []HeatmapCell{
		{SiteID: "S1", SiteName: "North", ComponentName: "BLADE", OpenCount: 1},
		{SiteID: "S2", SiteName: "South", ComponentName: "BLADE"},
		{SiteID: "S2", SiteName: "South", ComponentName: "GEARBOX", CriticalCount: 1, OpenCount: 2},
	}, ComputeHeatmap(cases))
}

func TestComputeRepeatFailures(t *testing.T) {
	cases, _ := siteFixture()

	byComponent := ComputeRepeatFailures(cases, GroupByComponent)
	assert.Equal(t, []RepeatFailure{
		{Key: "GEARBOX", Label: "GEARBOX", Count: 2, Sites: 1},
		{Key: "BLADE", Label: "BLADE", Count: 1, Sites: 1},
	}, byComponent)

	byMode := ComputeRepeatFailures(cases, GroupByFailureMode)
	assert.Equal(t, []RepeatFailure{
		{Key: "CRACK", Label: "CRACK", Count: 2, Sites: 2},
		{Key: "WEAR", Label: "WEAR", Count: 1, Sites: 1},
	}, byMode)
}

func TestComputeRepeatFailures_TopTen(t *testing.T) {
	var cases []domain.Case
	for i := 0; i < 15; i++ {
		cases = append(cases, domain.Case{ComponentName: string(rune('A' + i)), IsOpen: true})
	}
	got := ComputeRepeatFailures(cases, GroupByComponent)
	require.Len(t, got, 10)
	assert.Equal(t, "A", got[0].Key)
	assert.Equal(t, "J", got[9].Key)
}

func TestComputeSiteRadarMetrics(t *testing.T) {
	cases, actions := siteFixture()

	got := ComputeSiteRadarMetrics(cases, actions, []string{"S2", "S1", "S404"})

	require.Len(t, got, 3)
	s2 := got[0]
	assert.Equal(t, "South", s2.Site)
	assert.Equal(t, 2.0, s2.OpenCases)
	assert.Equal(t, 2.0, s2.CriticalCases)
	assert.Equal(t, 20.0, s2.AvgAge)
	assert.Equal(t, 2.0, s2.OverdueActions)
	assert.InDelta(t, 100.0/3, s2.SLARate, 1e-9)

	assert.Equal(t, 0.0, got[1].SLARate)
	assert.Equal(t, "S404", got[2].Site)
	assert.Equal(t, RadarValues{}, got[2].Raw)
}

func TestComputeSiteRadarMetrics_Clamps(t *testing.T) {
	var cases []domain.Case
	for i := 0; i < 120; i++ {
		cases = append(cases, domain.Case{ID: string(rune(0x4e00 + i)), SiteID: "S1", IsOpen: true, IsCritical: true, AgeDays: 500})
	}

	got := ComputeSiteRadarMetrics(cases, nil, []string{"S1"})[0]

	assert.Equal(t, 100.0, got.OpenCases)
	assert.Equal(t, 50.0, got.CriticalCases)
	assert.Equal(t, 100.0, got.AvgAge)
	assert.Equal(t, 120.0, got.Raw.OpenCases)
	assert.Equal(t, 500.0, got.Raw.AvgAge)
}
