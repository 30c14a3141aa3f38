package stats

import (
	"sort"
	"time"

	"wfdash/internal/domain"
)

// DefaultChangeHours is the default "what changed" lookback.
const DefaultChangeHours = 24

// EscalationsLimit caps the escalation list of DailyChanges.
const EscalationsLimit = 10

// StatusCounts holds one count per action status.
type StatusCounts struct {
	Open       int `json:"Open"`
	InProgress int `json:"In Progress"`
	Closed     int `json:"Closed"`
	Blocked    int `json:"Blocked"`
}

func (s *StatusCounts) add(st domain.Status) {
	switch st {
	case domain.StatusInProgress:
		s.InProgress++
	case domain.StatusClosed:
		s.Closed++
	case domain.StatusBlocked:
		s.Blocked++
	default:
		s.Open++
	}
}

// NewCases counts cases created in the lookback.
type NewCases struct {
	Total      int            `json:"total"`
	BySeverity SeverityCounts `json:"bySeverity"`
}

// NewActions counts actions created in the lookback.
type NewActions struct {
	Total    int          `json:"total"`
	ByStatus StatusCounts `json:"byStatus"`
}

// Escalations are actions whose priority changed in the lookback.
type Escalations struct {
	Total   int             `json:"total"`
	Actions []domain.Action `json:"actions"`
}

// DailyChanges summarises activity since now-hours.
type DailyChanges struct {
	NewCases            NewCases    `json:"newCases"`
	NewActions          NewActions  `json:"newActions"`
	ClosedCases         int         `json:"closedCases"`
	PriorityEscalations Escalations `json:"priorityEscalations"`
	NewCritical         int         `json:"newCritical"`
	NewOverdue          int         `json:"newOverdue"`
}

// ComputeDailyChanges counts what happened at or after now-hours. Escalations list the
// most recently updated first, at most EscalationsLimit, ties by action id.
func ComputeDailyChanges(cases []domain.Case, actions []domain.Action, hours int, now time.Time) DailyChanges {
	since := now.Add(-time.Duration(hours) * time.Hour)
	res := DailyChanges{}

	for _, c := range cases {
		if !c.CreatedAt.Before(since) {
			res.NewCases.Total++
			res.NewCases.BySeverity.add(c.Severity)
			if c.Severity == domain.SeverityCritical {
				res.NewCritical++
			}
		}
		if c.ClosedAt != nil && !c.ClosedAt.Before(since) {
			res.ClosedCases++
		}
	}

	escalated := []domain.Action{}
	for _, a := range actions {
		if !a.CreatedAt.Before(since) {
			res.NewActions.Total++
			res.NewActions.ByStatus.add(a.Status)
			if a.IsOverdue {
				res.NewOverdue++
			}
		}
		if a.PriorityChanged && !a.UpdatedAt.Before(since) {
			escalated = append(escalated, a)
		}
	}

	sort.Slice(escalated, func(i, j int) bool {
		if !escalated[i].UpdatedAt.Equal(escalated[j].UpdatedAt) {
			return escalated[i].UpdatedAt.After(escalated[j].UpdatedAt)
		}
		return escalated[i].ActionID < escalated[j].ActionID
	})
	res.PriorityEscalations.Total = len(escalated)
	if len(escalated) > EscalationsLimit {
		escalated = escalated[:EscalationsLimit]
	}
	res.PriorityEscalations.Actions = escalated
	return res
}
