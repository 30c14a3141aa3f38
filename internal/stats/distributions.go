package stats

import (
	"math"

	"wfdash/internal/domain"
)

// Share is a category count with its percentage of the total.
type Share struct {
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
}

// ComputeSeverityDistribution counts cases per severity in canonical order.
func ComputeSeverityDistribution(cases []domain.Case) []Share {
	var counts SeverityCounts
	for _, c := range cases {
		counts.add(c.Severity)
	}

	res := make([]Share, len(domain.Severities))
	for i, s := range domain.Severities {
		v := counts.Get(s)
		res[i] = Share{Name: string(s), Value: v, Percentage: Percent(v, len(cases))}
	}
	return res
}

// ComputePriorityDistribution counts actions per priority band in rank order.
func ComputePriorityDistribution(actions []domain.Action) []Share {
	var counts PriorityCounts
	for _, a := range actions {
		counts.add(a.Priority)
	}

	res := make([]Share, len(domain.PriorityBands))
	for i, b := range domain.PriorityBands {
		v := counts.Get(b)
		res[i] = Share{Name: string(b), Value: v, Percentage: Percent(v, len(actions))}
	}
	return res
}

// ComputeStatusDistribution counts actions per status in canonical order.
func ComputeStatusDistribution(actions []domain.Action) []Share {
	counts := map[domain.Status]int{}
	for _, a := range actions {
		counts[a.Status]++
	}

	res := make([]Share, len(domain.Statuses))
	for i, s := range domain.Statuses {
		res[i] = Share{Name: string(s), Value: counts[s], Percentage: Percent(counts[s], len(actions))}
	}
	return res
}

// DayRange is a half-open [Min, Max) day range.
type DayRange struct {
	Label string
	Min   int
	Max   int
}

// ResolutionBuckets bin closed actions by whole days from creation to last update.
var ResolutionBuckets = []DayRange{
	{"0-1d", 0, 1},
	{"1-3d", 1, 3},
	{"3-7d", 3, 7},
	{"7-14d", 7, 14},
	{"14-30d", 14, 30},
	{"30+d", 30, math.MaxInt},
}

// ComputeActionResolutionVelocity histograms closed actions by resolution time, truncated
// to whole days. Updates a day or more before creation fall in no bucket.
func ComputeActionResolutionVelocity(actions []domain.Action) []Bucket {
	res := make([]Bucket, len(ResolutionBuckets))
	for i, b := range ResolutionBuckets {
		res[i].Label = b.Label
	}

	for _, a := range actions {
		if a.Status != domain.StatusClosed {
			continue
		}
		days := int(a.UpdatedAt.Sub(a.CreatedAt).Hours() / 24)
		for i, b := range ResolutionBuckets {
			if days >= b.Min && days < b.Max {
				res[i].Count++
				break
			}
		}
	}
	return res
}
