package stats

import (
	"testing"

	"wfdash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeActionCaseDistribution(t *testing.T) {
	cases := []domain.Case{{ID: "C1"}, {ID: "C2"}, {ID: "C3"}, {ID: "C4"}, {ID: "C5"}}
	actions := []domain.Action{
		{ActionID: "A1", CaseID: "C1"},
		{ActionID: "A2", CaseID: "C3"},
		{ActionID: "A3", CaseID: "C3"},
		{ActionID: "A4", CaseID: "C3"},
		{ActionID: "A5", CaseID: "C2"},
		{ActionID: "A6", CaseID: "C4"},
		{ActionID: "A7", CaseID: "C5"},
	}

	got := ComputeActionCaseDistribution(cases, actions)

	assert.Equal(t, []ActionCountBucket{
		{"1", 4}, {"2", 0}, {"3", 1}, {"4", 0}, {"5+", 0},
	}, got.Distribution)
	assert.Equal(t, 1.4, got.AvgActionsPerCase)
	assert.Equal(t, 7, got.TotalActions)
	assert.Equal(t, 5, got.TotalCases)
	assert.Equal(t, 1, got.CasesWithMultipleActions)
	assert.Empty(t, got.OrphanedActions)

	require.Len(t, got.CasesWithActions, 5)
	assert.Equal(t, "C3", got.CasesWithActions[0].Case.ID)
	assert.Equal(t, 3, got.CasesWithActions[0].ActionCount)
	assert.Equal(t, "C1", got.CasesWithActions[1].Case.ID)
	assert.Equal(t, "C5", got.CasesWithActions[4].Case.ID)
}

func TestComputeActionCaseDistribution_Orphans(t *testing.T) {
	cases := []domain.Case{{ID: "C1"}, {ID: "C2"}}
	actions := []domain.Action{
		{ActionID: "A1", CaseID: "C1"},
		{ActionID: "A2", CaseID: "ghost"},
		{ActionID: "A3", CaseID: "ghost"},
		{ActionID: "A4", CaseID: "C1"},
		{ActionID: "A5", CaseID: "C1"},
		{ActionID: "A6", CaseID: "C1"},
		{ActionID: "A7", CaseID: "C1"},
	}

	got := ComputeActionCaseDistribution(cases, actions)

	// orphans never form a bucket of their own
	assert.Equal(t, []ActionCountBucket{
		{"1", 0}, {"2", 0}, {"3", 0}, {"4", 0}, {"5+", 1},
	}, got.Distribution)
	assert.Equal(t, 5.0, got.AvgActionsPerCase)

	// same definition as the validator
	assert.Equal(t, domain.ValidateData(cases, actions).OrphanedActions, got.OrphanedActions)
	require.Len(t, got.OrphanedActions, 2)
}

func TestComputeActionCaseDistribution_Empty(t *testing.T) {
	got := ComputeActionCaseDistribution(nil, nil)
	assert.Equal(t, 0.0, got.AvgActionsPerCase)
	assert.Empty(t, got.CasesWithActions)
	assert.Len(t, got.Distribution, 5)
}
