package visuals

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"wfdash/internal/scoring"
	"wfdash/internal/stats"
)

func TestEmptyInputsRenderNothing(t *testing.T) {
	tests := map[string]string{
		"backlog":        GenerateBacklogChart(nil),
		"action backlog": GenerateActionBacklogChart(nil),
		"trend":          GenerateCaseTrendChart(nil),
		"pie":            GenerateSharePie("Severity", []stats.Share{{Name: "Critical"}}),
		"buckets":        GenerateBucketChart("Aging", "Actions", nil),
		"health":         GenerateHealthChart(nil),
	}
	for name, got := range tests {
		if got != "" {
			t.Errorf("%s: expected empty chart, got %q", name, got)
		}
	}
}

func TestGenerateBacklogChart_Subsamples(t *testing.T) {
	var points []stats.BacklogPoint
	for i := 0; i < 90; i++ {
		points = append(points, stats.BacklogPoint{Date: fmt.Sprintf("2024-03-%02d", i%28+1), NetBacklog: i})
	}

	got := GenerateBacklogChart(points)

	assert.True(t, strings.HasPrefix(got, "```mermaid\nxychart-beta\n"))
	line := got[strings.Index(got, "    line [")+len("    line [") : strings.LastIndex(got, "]")]
	values := strings.Split(line, ", ")
	assert.LessOrEqual(t, len(values), maxPoints)
	assert.Equal(t, "89", values[len(values)-1])
	assert.Contains(t, got, "y-axis \"Cases\" 0 --> 107")
}

func TestGenerateSharePie(t *testing.T) {
	got := GenerateSharePie("Severity Mix", []stats.Share{
		{Name: "Critical", Value: 2},
		{Name: "High", Value: 0},
		{Name: "Low", Value: 5},
	})
	assert.Equal(t, "```mermaid\npie title Severity Mix\n    \"Critical\" : 2\n    \"Low\" : 5\n```", got)
}

func TestGenerateBucketChart(t *testing.T) {
	got := GenerateBucketChart("Action Aging", "Actions", []stats.Bucket{{Label: "0-7d", Count: 4}, {Label: "8-14d", Count: 1}})
	assert.Contains(t, got, "x-axis [\"0-7d\", \"8-14d\"]")
	assert.Contains(t, got, "bar [4, 1]")
	assert.Contains(t, got, "0 --> 5")
}

func TestGenerateHealthChart(t *testing.T) {
	got := GenerateHealthChart([]scoring.SiteHealth{
		{SiteKPI: stats.SiteKPI{SiteID: "S1", SiteName: "North \"A\""}, HealthScore: 40},
		{SiteKPI: stats.SiteKPI{SiteID: "S2"}, HealthScore: 90},
	})
	assert.Contains(t, got, "x-axis [\"North 'A'\", \"S2\"]")
	assert.Contains(t, got, "bar [40, 90]")
}

func TestGenerateCaseTrendChart(t *testing.T) {
	got := GenerateCaseTrendChart([]stats.CaseTrendPoint{
		{Date: "2024-06-14", SeverityCounts: stats.SeverityCounts{Critical: 1}, Total: 1},
		{Date: "2024-06-15", SeverityCounts: stats.SeverityCounts{Low: 3}, Total: 3},
	})
	assert.Contains(t, got, "x-axis [\"06-14\", \"06-15\"]")
	assert.Equal(t, 4, strings.Count(got, "    line ["))
	assert.Contains(t, got, "line [0, 3]")
}
