package stats

import (
	"sort"

	"wfdash/internal/domain"
)

// SortActionQueue orders actions for triage: overdue first, then earliest deadline
// (actions without one last), then priority rank, then action id. The input is not modified.
func SortActionQueue(actions []domain.Action) []domain.Action {
	res := make([]domain.Action, len(actions))
	copy(res, actions)

	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.IsOverdue != b.IsOverdue {
			return a.IsOverdue
		}
		switch {
		case a.Deadline != nil && b.Deadline == nil:
			return true
		case a.Deadline == nil && b.Deadline != nil:
			return false
		case a.Deadline != nil && !a.Deadline.Equal(*b.Deadline):
			return a.Deadline.Before(*b.Deadline)
		}
		if ra, rb := domain.PriorityRank(a.Priority), domain.PriorityRank(b.Priority); ra != rb {
			return ra < rb
		}
		return a.ActionID < b.ActionID
	})
	return res
}
