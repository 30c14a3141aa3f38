package stats

import (
	"testing"

	"wfdash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTurbineMakeMetrics(t *testing.T) {
	cases := []domain.Case{
		{TurbineMake: "Vestas", TurbineID: "T1", IsOpen: true, IsCritical: true, AgeDays: 10},
		{TurbineMake: "Vestas", TurbineID: "T1", AgeDays: 20},
		{TurbineMake: "Vestas", TurbineID: "T2", IsOpen: true, AgeDays: 30},
		{TurbineMake: "GE", TurbineID: "T3", AgeDays: 5},
		{TurbineMake: "Enercon", TurbineID: "T4", AgeDays: 1},
	}

	got := ComputeTurbineMakeMetrics(cases)

	require.Len(t, got, 3)
	assert.Equal(t, TurbineMakeMetrics{
		Make: "Vestas", TotalCases: 3, OpenCases: 2, CriticalCases: 1,
		AvgAgeDays: 20, TurbineCount: 2, CasesPerTurbine: 1.5,
	}, got[0])
	// equal totals fall back to make name
	assert.Equal(t, "Enercon", got[1].Make)
	assert.Equal(t, "GE", got[2].Make)
}

func TestRankOEMs_Percentile(t *testing.T) {
	makes := []TurbineMakeMetrics{
		{Make: "B", TotalCases: 10, CriticalCases: 5, CasesPerTurbine: 2},   // 2 + 5
		{Make: "A", TotalCases: 10, CriticalCases: 0, CasesPerTurbine: 1},   // 1
		{Make: "C", TotalCases: 10, CriticalCases: 10, CasesPerTurbine: 4},  // 4 + 10
		{Make: "D", TotalCases: 10, CriticalCases: 0, CasesPerTurbine: 1.0}, // tie with A
	}

	got, err := RankOEMs(makes, RankPercentile)
	require.NoError(t, err)

	var order []string
	var scores []int
	for _, r := range got {
		order = append(order, r.Make)
		scores = append(scores, r.ReliabilityScore)
	}
	assert.Equal(t, []string{"A", "D", "B", "C"}, order)
	assert.Equal(t, []int{100, 67, 33, 0}, scores)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 4, got[3].Rank)
	assert.Equal(t, 50.0, got[2].CriticalRate)
}

func TestRankOEMs_SingleMake(t *testing.T) {
	for _, m := range []RankMethod{RankPercentile, RankZScore} {
		got, err := RankOEMs([]TurbineMakeMetrics{{Make: "Solo", TotalCases: 4, CasesPerTurbine: 2}}, m)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].Rank, m)
		if m == RankPercentile {
			assert.Equal(t, 100, got[0].ReliabilityScore)
		} else {
			// zero spread leaves everyone at the midpoint
			assert.Equal(t, 50, got[0].ReliabilityScore)
		}
	}
}

func TestRankOEMs_ZScore(t *testing.T) {
	makes := []TurbineMakeMetrics{
		{Make: "Bad", TotalCases: 10, CriticalCases: 10, CasesPerTurbine: 3},
		{Make: "Good", TotalCases: 10, CriticalCases: 0, CasesPerTurbine: 1},
	}

	got, err := RankOEMs(makes, RankZScore)
	require.NoError(t, err)

	// z = ±1 on both axes, combined ±1, score 50 ± 16.67
	assert.Equal(t, "Good", got[0].Make)
	assert.Equal(t, 67, got[0].ReliabilityScore)
	assert.Equal(t, "Bad", got[1].Make)
	assert.Equal(t, 33, got[1].ReliabilityScore)
	for _, r := range got {
		assert.GreaterOrEqual(t, r.ReliabilityScore, 0)
		assert.LessOrEqual(t, r.ReliabilityScore, 100)
	}
}

func TestRankOEMs_Errors(t *testing.T) {
	_, err := RankOEMs(nil, "median")
	assert.Error(t, err)

	got, err := RankOEMs(nil, RankZScore)
	assert.NoError(t, err)
	assert.Empty(t, got)
}
