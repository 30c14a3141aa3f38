package stats

import (
	"testing"
	"time"

	"wfdash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func iso(t time.Time) string { return t.Format(time.RFC3339) }

func TestComputeCriticalBacklog14d(t *testing.T) {
	cases := []domain.Case{
		{ID: "C1", Severity: domain.SeverityCritical, IsCritical: true, IsOpen: true, AgeDays: 20, CreatedAt: now},
		{ID: "C2", Severity: domain.SeverityCritical, IsCritical: true, IsOpen: true, AgeDays: 10, CreatedAt: now},
		{ID: "C3", Severity: domain.SeverityHigh, IsOpen: true, AgeDays: 5, CreatedAt: now},
	}
	assert.Equal(t, 1, ComputeCriticalBacklog14d(cases))

	// exactly 14 days is not backlog
	cases[1].AgeDays = 14
	assert.Equal(t, 1, ComputeCriticalBacklog14d(cases))
	cases[1].AgeDays = 15
	assert.Equal(t, 2, ComputeCriticalBacklog14d(cases))
}

func TestComputeSLAHitRate30d(t *testing.T) {
	created := now.AddDate(0, 0, -25)
	yesterday := now.AddDate(0, 0, -1)

	actions := []domain.Action{
		domain.BuildAction(domain.Row{
			"actionId": "A1", "status": "Closed",
			"createdAt": iso(created), "deadline": iso(yesterday), "updatedAt": iso(now.AddDate(0, 0, -2)),
		}, now),
		domain.BuildAction(domain.Row{
			"actionId": "A2", "status": "Closed",
			"createdAt": iso(created), "deadline": iso(yesterday), "updatedAt": iso(yesterday.AddDate(0, 0, 1)),
		}, now),
		// outside the 30-day window
		domain.BuildAction(domain.Row{
			"actionId": "A3", "status": "Closed",
			"createdAt": iso(now.AddDate(0, 0, -45)), "deadline": iso(yesterday), "updatedAt": iso(yesterday),
		}, now),
		// no deadline
		domain.BuildAction(domain.Row{"actionId": "A4", "status": "Closed", "createdAt": iso(created)}, now),
	}

	got := ComputeSLAHitRate30d(actions, now)

	assert.Equal(t, 0.5, got.Rate)
	require.Len(t, got.Sparkline7d, 7)
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 1, 0}, got.Sparkline7d)
}

func TestComputeSLAHitRate30d_Empty(t *testing.T) {
	got := ComputeSLAHitRate30d(nil, now)
	assert.Equal(t, 0.0, got.Rate)
	assert.Equal(t, make([]float64, 7), got.Sparkline7d)
}

func TestComputeOpenCases(t *testing.T) {
	cases := []domain.Case{
		{ID: "C1", Severity: domain.SeverityCritical, IsOpen: true, CreatedAt: now.Add(-time.Hour)},
		{ID: "C2", Severity: domain.SeverityLow, IsOpen: true, CreatedAt: now.AddDate(0, 0, -6)},
		{ID: "C3", Severity: domain.SeverityLow, IsOpen: false, CreatedAt: now},
		{ID: "C4", Severity: domain.SeverityMedium, IsOpen: true, CreatedAt: now.AddDate(0, 0, -30)},
	}

	got := ComputeOpenCases(cases, now)

	assert.Equal(t, 3, got.Total)
	assert.Equal(t, SeverityCounts{Critical: 1, Medium: 1, Low: 1}, got.BySeverity)
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 1}, got.Sparkline7d)
}

func TestComputeCaseFunnel(t *testing.T) {
	ts := now
	cases := []domain.Case{
		{ID: "C1", InspectedAt: &ts, ConfirmedAt: &ts, ClosedAt: &ts},
		{ID: "C2", ClosedAt: &ts},
		{ID: "C3", ConfirmedAt: &ts},
		{ID: "C4"},
	}

	f := ComputeCaseFunnel(cases)

	assert.Equal(t, CaseFunnel{Created: 4, Inspected: 1, Confirmed: 2, Closed: 2}, f)
	for _, stage := range []int{f.Inspected, f.Confirmed, f.Closed} {
		assert.LessOrEqual(t, stage, f.Created)
	}
	assert.Equal(t, CaseFunnel{}, ComputeCaseFunnel(nil))
}

func TestComputeLifecycleMedians(t *testing.T) {
	cases := []domain.Case{
		{D2I: f64(2), I2C: f64(10)},
		{D2I: f64(4)},
		{D2I: f64(6), I2C: f64(-4)},
	}

	m := ComputeLifecycleMedians(cases)

	require.NotNil(t, m.D2I)
	assert.Equal(t, 4.0, *m.D2I)
	require.NotNil(t, m.I2C)
	assert.Equal(t, 3.0, *m.I2C)
	assert.Nil(t, m.C2Close)
}

func TestComputeActionAgingBuckets(t *testing.T) {
	actions := []domain.Action{
		{AgeDays: 0, Status: domain.StatusOpen},
		{AgeDays: 7, Status: domain.StatusInProgress},
		{AgeDays: 8, Status: domain.StatusBlocked},
		{AgeDays: 30, Status: domain.StatusOpen},
		{AgeDays: 60, Status: domain.StatusOpen},
		{AgeDays: 61, Status: domain.StatusOpen},
		{AgeDays: 400, Status: domain.StatusOpen},
		{AgeDays: 3, Status: domain.StatusClosed},
	}

	assert.Equal(t, []Bucket{
		{"0-7d", 2},
		{"8-14d", 1},
		{"15-30d", 1},
		{"31-60d", 1},
		{"60+d", 2},
	}, ComputeActionAgingBuckets(actions))
}

func TestComputePriorityChurnAndOverdue(t *testing.T) {
	actions := []domain.Action{
		{PriorityChanged: true, IsOverdue: true},
		{PriorityChanged: false},
		{PriorityChanged: true},
		{PriorityChanged: false, IsOverdue: true},
	}
	assert.Equal(t, 50.0, ComputePriorityChurnPercent(actions))
	assert.Equal(t, 0.0, ComputePriorityChurnPercent(nil))
	assert.Equal(t, 2, ComputeOverdueActions(actions))
}

func TestComputeKPIs_Bundles(t *testing.T) {
	cases := []domain.Case{{ID: "C1", IsOpen: true, IsCritical: true, Severity: domain.SeverityCritical, AgeDays: 30, CreatedAt: now.AddDate(0, 0, -30)}}
	actions := []domain.Action{{ActionID: "A1", CaseID: "C1", IsOverdue: true, Status: domain.StatusOpen, AgeDays: 2}}

	k := ComputeKPIs(cases, actions, now)

	assert.Equal(t, 1, k.OpenCases.Total)
	assert.Equal(t, 1, k.CriticalBacklog14d)
	assert.Equal(t, 1, k.OverdueActions)
	assert.Equal(t, 1, k.CaseFunnel.Created)
	assert.Equal(t, 1, k.ActionAgingBuckets[0].Count)
}

func TestTrailingDays(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	ref := time.Date(2024, 3, 1, 0, 30, 0, 0, loc)

	days := TrailingDays(ref, 3)

	require.Len(t, days, 3)
	assert.Equal(t, "2024-02-28", days[0].Label())
	assert.Equal(t, "2024-03-01", days[2].Label())
	assert.True(t, days[2].Contains(ref))
	assert.True(t, days[2].Contains(days[2].End))
	assert.False(t, days[1].Contains(days[2].Start))
	assert.Nil(t, TrailingDays(ref, 0))
}
