package stats

import (
	"math"
	"time"

	"wfdash/internal/domain"
)

// SeverityCounts holds one count per canonical severity.
type SeverityCounts struct {
	Critical int `json:"Critical"`
	High     int `json:"High"`
	Medium   int `json:"Medium"`
	Low      int `json:"Low"`
}

func (s *SeverityCounts) add(sev domain.Severity) {
	switch sev {
	case domain.SeverityCritical:
		s.Critical++
	case domain.SeverityHigh:
		s.High++
	case domain.SeverityMedium:
		s.Medium++
	default:
		s.Low++
	}
}

// Get returns the count for sev.
func (s SeverityCounts) Get(sev domain.Severity) int {
	switch sev {
	case domain.SeverityCritical:
		return s.Critical
	case domain.SeverityHigh:
		return s.High
	case domain.SeverityMedium:
		return s.Medium
	}
	return s.Low
}

// OpenCases is the open-case headline with a 7-day creation sparkline.
type OpenCases struct {
	Total       int            `json:"total"`
	BySeverity  SeverityCounts `json:"bySeverity"`
	Sparkline7d []int          `json:"sparkline7d"`
}

// LifecycleMedians are median stage durations in hours. Nil when no case has the stage.
type LifecycleMedians struct {
	D2I     *float64 `json:"d2i"`
	I2C     *float64 `json:"i2c"`
	C2Close *float64 `json:"c2close"`
}

// CaseFunnel counts cases reaching each lifecycle timestamp, independently.
type CaseFunnel struct {
	Created   int `json:"created"`
	Inspected int `json:"inspected"`
	Confirmed int `json:"confirmed"`
	Closed    int `json:"closed"`
}

// SLAHitRate is the 30-day SLA rate (0-1) with daily closure rates.
type SLAHitRate struct {
	Rate        float64   `json:"rate"`
	Sparkline7d []float64 `json:"sparkline7d"`
}

// Bucket is one labelled histogram bin.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// KPISummary is the executive snapshot over a filtered dataset.
type KPISummary struct {
	OpenCases            OpenCases        `json:"openCases"`
	CriticalBacklog14d   int              `json:"criticalBacklog14d"`
	LifecycleMedians     LifecycleMedians `json:"lifecycleMedians"`
	CaseFunnel           CaseFunnel       `json:"caseFunnel"`
	SLAHitRate30d        SLAHitRate       `json:"slaHitRate30d"`
	OverdueActions       int              `json:"overdueActions"`
	PriorityChurnPercent float64          `json:"priorityChurnPercent"`
	ActionAgingBuckets   []Bucket         `json:"actionAgingBuckets"`
}

// AgeRange is an inclusive day range.
type AgeRange struct {
	Label string
	Min   int
	Max   int
}

// ActionAgingBuckets partitions open action ages. Both ends are inclusive.
var ActionAgingBuckets = []AgeRange{
	{"0-7d", 0, 7},
	{"8-14d", 8, 14},
	{"15-30d", 15, 30},
	{"31-60d", 31, 60},
	{"60+d", 61, math.MaxInt},
}

// CriticalBacklogDays is the age a critical case must exceed to count as backlog.
const CriticalBacklogDays = 14

// SLAWindowDays is the lookback of the headline SLA rate.
const SLAWindowDays = 30

// ComputeKPIs bundles the headline metrics.
func ComputeKPIs(cases []domain.Case, actions []domain.Action, now time.Time) KPISummary {
	return KPISummary{
		OpenCases:            ComputeOpenCases(cases, now),
		CriticalBacklog14d:   ComputeCriticalBacklog14d(cases),
		LifecycleMedians:     ComputeLifecycleMedians(cases),
		CaseFunnel:           ComputeCaseFunnel(cases),
		SLAHitRate30d:        ComputeSLAHitRate30d(actions, now),
		OverdueActions:       ComputeOverdueActions(actions),
		PriorityChurnPercent: ComputePriorityChurnPercent(actions),
		ActionAgingBuckets:   ComputeActionAgingBuckets(actions),
	}
}

// ComputeOpenCases counts open cases per severity. The sparkline holds, for each of the
// last 7 days, the open cases created that day.
func ComputeOpenCases(cases []domain.Case, now time.Time) OpenCases {
	res := OpenCases{}
	for _, c := range cases {
		if c.IsOpen {
			res.Total++
			res.BySeverity.add(c.Severity)
		}
	}

	days := TrailingDays(now, 7)
	res.Sparkline7d = make([]int, len(days))
	for i, d := range days {
		for _, c := range cases {
			if c.IsOpen && d.Contains(c.CreatedAt) {
				res.Sparkline7d[i]++
			}
		}
	}
	return res
}

// ComputeCriticalBacklog14d counts open critical cases older than 14 days.
func ComputeCriticalBacklog14d(cases []domain.Case) int {
	n := 0
	for _, c := range cases {
		if c.IsOpen && c.IsCritical && c.AgeDays > CriticalBacklogDays {
			n++
		}
	}
	return n
}

// ComputeLifecycleMedians takes each stage median over the cases that have the stage.
func ComputeLifecycleMedians(cases []domain.Case) LifecycleMedians {
	var d2i, i2c, c2close []float64
	for _, c := range cases {
		if c.D2I != nil {
			d2i = append(d2i, *c.D2I)
		}
		if c.I2C != nil {
			i2c = append(i2c, *c.I2C)
		}
		if c.C2Close != nil {
			c2close = append(c2close, *c.C2Close)
		}
	}
	return LifecycleMedians{
		D2I:     Median(d2i),
		I2C:     Median(i2c),
		C2Close: Median(c2close),
	}
}

// ComputeCaseFunnel counts cases with each lifecycle timestamp set. Stages are not
// required to be monotonic.
func ComputeCaseFunnel(cases []domain.Case) CaseFunnel {
	f := CaseFunnel{Created: len(cases)}
	for _, c := range cases {
		if c.InspectedAt != nil {
			f.Inspected++
		}
		if c.ConfirmedAt != nil {
			f.Confirmed++
		}
		if c.ClosedAt != nil {
			f.Closed++
		}
	}
	return f
}

// ComputeSLAHitRate30d rates the actions with a deadline created in the last 30 days.
// The sparkline instead rates, per day, the deadline actions closed and updated that day.
func ComputeSLAHitRate30d(actions []domain.Action, now time.Time) SLAHitRate {
	from := now.AddDate(0, 0, -SLAWindowDays)

	met, total := 0, 0
	for _, a := range actions {
		if a.Deadline == nil || a.CreatedAt.Before(from) || a.CreatedAt.After(now) {
			continue
		}
		total++
		if a.MetSLA != nil && *a.MetSLA {
			met++
		}
	}

	days := TrailingDays(now, 7)
	spark := make([]float64, len(days))
	for i, d := range days {
		dayMet, dayTotal := 0, 0
		for _, a := range actions {
			if a.Deadline == nil || a.Status != domain.StatusClosed || !d.Contains(a.UpdatedAt) {
				continue
			}
			dayTotal++
			if a.MetSLA != nil && *a.MetSLA {
				dayMet++
			}
		}
		spark[i] = Ratio(dayMet, dayTotal)
	}

	return SLAHitRate{Rate: Ratio(met, total), Sparkline7d: spark}
}

// ComputeOverdueActions counts overdue actions.
func ComputeOverdueActions(actions []domain.Action) int {
	n := 0
	for _, a := range actions {
		if a.IsOverdue {
			n++
		}
	}
	return n
}

// ComputePriorityChurnPercent is the share of actions whose priority changed, 0-100.
func ComputePriorityChurnPercent(actions []domain.Action) float64 {
	changed := 0
	for _, a := range actions {
		if a.PriorityChanged {
			changed++
		}
	}
	return Percent(changed, len(actions))
}

// ComputeActionAgingBuckets histograms the ages of actions that are not closed.
func ComputeActionAgingBuckets(actions []domain.Action) []Bucket {
	res := make([]Bucket, len(ActionAgingBuckets))
	for i, b := range ActionAgingBuckets {
		res[i].Label = b.Label
	}
	for _, a := range actions {
		if a.Status == domain.StatusClosed {
			continue
		}
		for i, b := range ActionAgingBuckets {
			if a.AgeDays >= b.Min && a.AgeDays <= b.Max {
				res[i].Count++
				break
			}
		}
	}
	return res
}
