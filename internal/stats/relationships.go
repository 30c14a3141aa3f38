package stats

import (
	"sort"

	"wfdash/internal/domain"
)

// ActionCountBucket is the number of cases having a given number of actions.
type ActionCountBucket struct {
	ActionsCount string `json:"actionsCount"`
	Cases        int    `json:"cases"`
}

// CaseActions is a case with its linked actions.
type CaseActions struct {
	Case        domain.Case     `json:"case"`
	Actions     []domain.Action `json:"actions"`
	ActionCount int             `json:"actionCount"`
}

// ActionCaseDistribution describes how actions spread over cases.
type ActionCaseDistribution struct {
	Distribution             []ActionCountBucket `json:"distribution"`
	CasesWithActions         []CaseActions       `json:"casesWithActions"`
	OrphanedActions          []domain.Action     `json:"orphanedActions"`
	TotalActions             int                 `json:"totalActions"`
	TotalCases               int                 `json:"totalCases"`
	CasesWithMultipleActions int                 `json:"casesWithMultipleActions"`
	AvgActionsPerCase        float64             `json:"avgActionsPerCase"`
}

var actionCountLabels = []string{"1", "2", "3", "4", "5+"}

// ComputeActionCaseDistribution buckets cases by action count (1, 2, 3, 4, 5+) and lists
// the cases with actions, most actions first, ties by case id. Orphaned actions are
// reported separately and kept out of the buckets and the average.
func ComputeActionCaseDistribution(cases []domain.Case, actions []domain.Action) ActionCaseDistribution {
	idx := domain.IndexCases(cases)

	byCase := map[string][]domain.Action{}
	linked := 0
	for _, a := range actions {
		if idx.IsOrphaned(a) {
			continue
		}
		byCase[a.CaseID] = append(byCase[a.CaseID], a)
		linked++
	}

	res := ActionCaseDistribution{
		Distribution:     make([]ActionCountBucket, len(actionCountLabels)),
		CasesWithActions: []CaseActions{},
		OrphanedActions:  domain.OrphanedActions(actions, idx),
		TotalActions:     len(actions),
		TotalCases:       len(cases),
	}
	if res.OrphanedActions == nil {
		res.OrphanedActions = []domain.Action{}
	}
	for i, l := range actionCountLabels {
		res.Distribution[i].ActionsCount = l
	}

	for _, acts := range byCase {
		res.Distribution[min(len(acts), 5)-1].Cases++
	}

	for id, pos := range idx {
		acts := byCase[id]
		if len(acts) == 0 {
			continue
		}
		res.CasesWithActions = append(res.CasesWithActions, CaseActions{
			Case:        cases[pos],
			Actions:     acts,
			ActionCount: len(acts),
		})
		if len(acts) > 1 {
			res.CasesWithMultipleActions++
		}
	}
	sort.Slice(res.CasesWithActions, func(i, j int) bool {
		a, b := res.CasesWithActions[i], res.CasesWithActions[j]
		if a.ActionCount != b.ActionCount {
			return a.ActionCount > b.ActionCount
		}
		return a.Case.ID < b.Case.ID
	})

	if n := len(res.CasesWithActions); n > 0 {
		res.AvgActionsPerCase = float64(linked) / float64(n)
	}
	return res
}
