package stats

import (
	"time"

	"wfdash/internal/domain"
)

// Default trailing windows.
const (
	DefaultTrendDays   = 30
	DefaultBacklogDays = 90
)

// CaseTrendPoint counts the cases created on one day, per severity.
type CaseTrendPoint struct {
	Date string `json:"date"`
	SeverityCounts
	Total int `json:"total"`
}

// ComputeCaseTrend returns daily case creation counts for the trailing days, oldest first.
func ComputeCaseTrend(cases []domain.Case, days int, now time.Time) []CaseTrendPoint {
	window := TrailingDays(now, days)
	res := make([]CaseTrendPoint, len(window))
	for i, d := range window {
		res[i].Date = d.Label()
		for _, c := range cases {
			if d.Contains(c.CreatedAt) {
				res[i].add(c.Severity)
				res[i].Total++
			}
		}
	}
	return res
}

// PriorityCounts holds one count per priority band. P-notation folds into its band.
type PriorityCounts struct {
	Critical int `json:"Critical"`
	High     int `json:"High"`
	Medium   int `json:"Medium"`
	Low      int `json:"Low"`
}

func (p *PriorityCounts) add(pr domain.Priority) {
	switch domain.PriorityBand(pr) {
	case domain.PriorityCritical:
		p.Critical++
	case domain.PriorityHigh:
		p.High++
	case domain.PriorityMedium:
		p.Medium++
	default:
		p.Low++
	}
}

// Get returns the count for a band.
func (p PriorityCounts) Get(band domain.Priority) int {
	switch domain.PriorityBand(band) {
	case domain.PriorityCritical:
		return p.Critical
	case domain.PriorityHigh:
		return p.High
	case domain.PriorityMedium:
		return p.Medium
	}
	return p.Low
}

// ActionTrendPoint counts the actions created on one day, per priority band.
type ActionTrendPoint struct {
	Date string `json:"date"`
	PriorityCounts
	Total int `json:"total"`
}

// ComputeActionTrend returns daily action creation counts for the trailing days.
func ComputeActionTrend(actions []domain.Action, days int, now time.Time) []ActionTrendPoint {
	window := TrailingDays(now, days)
	res := make([]ActionTrendPoint, len(window))
	for i, d := range window {
		res[i].Date = d.Label()
		for _, a := range actions {
			if d.Contains(a.CreatedAt) {
				res[i].add(a.Priority)
				res[i].Total++
			}
		}
	}
	return res
}

// BacklogPoint is one day of case backlog movement.
type BacklogPoint struct {
	Date       string `json:"date"`
	Created    int    `json:"created"`
	Closed     int    `json:"closed"`
	NetBacklog int    `json:"netBacklog"`
}

// ComputeBacklogGrowth reconstructs the open-case count at the end of each trailing day
// from timestamps alone, alongside that day's creations and closures.
func ComputeBacklogGrowth(cases []domain.Case, days int, now time.Time) []BacklogPoint {
	window := TrailingDays(now, days)
	res := make([]BacklogPoint, len(window))
	for i, d := range window {
		p := BacklogPoint{Date: d.Label()}
		for _, c := range cases {
			if d.Contains(c.CreatedAt) {
				p.Created++
			}
			if c.ClosedAt != nil && d.Contains(*c.ClosedAt) {
				p.Closed++
			}
			if !c.CreatedAt.After(d.End) && (c.ClosedAt == nil || c.ClosedAt.After(d.End)) {
				p.NetBacklog++
			}
		}
		res[i] = p
	}
	return res
}

// ActionBacklogPoint is one day of action backlog movement.
type ActionBacklogPoint struct {
	Date        string `json:"date"`
	Created     int    `json:"created"`
	Closed      int    `json:"closed"`
	OpenActions int    `json:"openActions"`
}

// ComputeActionBacklogGrowth is ComputeBacklogGrowth for actions. A closed action's
// closure time is its last update.
func ComputeActionBacklogGrowth(actions []domain.Action, days int, now time.Time) []ActionBacklogPoint {
	window := TrailingDays(now, days)
	res := make([]ActionBacklogPoint, len(window))
	for i, d := range window {
		p := ActionBacklogPoint{Date: d.Label()}
		for _, a := range actions {
			closed := a.Status == domain.StatusClosed
			if d.Contains(a.CreatedAt) {
				p.Created++
			}
			if closed && d.Contains(a.UpdatedAt) {
				p.Closed++
			}
			if !a.CreatedAt.After(d.End) && (!closed || a.UpdatedAt.After(d.End)) {
				p.OpenActions++
			}
		}
		res[i] = p
	}
	return res
}
