package stats

import (
	"sort"

	"wfdash/internal/domain"
)

// SiteKPI summarises one site's open workload.
type SiteKPI struct {
	SiteID          string  `json:"siteId"`
	SiteName        string  `json:"siteName"`
	OpenCases       int     `json:"openCases"`
	CriticalCases   int     `json:"criticalCases"` // open and critical
	OverdueActions  int     `json:"overdueActions"`
	TurbineCount    int     `json:"turbineCount"`
	CasesPerTurbine float64 `json:"casesPerTurbine"` // open cases per turbine
}

// ComputeSiteKPIs aggregates cases per site. Turbines are counted from the cases seen,
// overdue actions are attributed through their case. Sorted by site id.
func ComputeSiteKPIs(cases []domain.Case, actions []domain.Action) []SiteKPI {
	type acc struct {
		kpi      SiteKPI
		turbines map[string]struct{}
	}
	bySite := map[string]*acc{}
	caseSite := make(map[string]string, len(cases))

	for _, c := range cases {
		s, ok := bySite[c.SiteID]
		if !ok {
			s = &acc{
				kpi:      SiteKPI{SiteID: c.SiteID, SiteName: c.SiteName},
				turbines: map[string]struct{}{},
			}
			bySite[c.SiteID] = s
		}
		if c.IsOpen {
			s.kpi.OpenCases++
			if c.IsCritical {
				s.kpi.CriticalCases++
			}
		}
		s.turbines[c.TurbineID] = struct{}{}

		if _, seen := caseSite[c.ID]; !seen {
			caseSite[c.ID] = c.SiteID
		}
	}

	for _, a := range actions {
		if !a.IsOverdue {
			continue
		}
		if siteID, ok := caseSite[a.CaseID]; ok {
			bySite[siteID].kpi.OverdueActions++
		}
	}

	res := make([]SiteKPI, 0, len(bySite))
	for _, s := range bySite {
		k := s.kpi
		k.TurbineCount = len(s.turbines)
		if k.TurbineCount > 0 {
			k.CasesPerTurbine = float64(k.OpenCases) / float64(k.TurbineCount)
		}
		res = append(res, k)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].SiteID < res[j].SiteID })
	return res
}

// TopSitesByOpenCases returns the ids of the n sites with the most open cases.
// Ties go to the lower site id.
func TopSitesByOpenCases(sites []SiteKPI, n int) []string {
	sorted := make([]SiteKPI, len(sites))
	copy(sorted, sites)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].OpenCases != sorted[j].OpenCases {
			return sorted[i].OpenCases > sorted[j].OpenCases
		}
		return sorted[i].SiteID < sorted[j].SiteID
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}

	ids := make([]string, len(sorted))
	for i, s := range sorted {
		ids[i] = s.SiteID
	}
	return ids
}

// HeatmapCell is the open workload of one (site, component) pair.
type HeatmapCell struct {
	SiteID        string `json:"siteId"`
	SiteName      string `json:"siteName"`
	ComponentName string `json:"componentName"`
	CriticalCount int    `json:"criticalCount"`
	OpenCount     int    `json:"openCount"`
}

// ComputeHeatmap returns one cell per (site, component) pair present in cases, sorted by
// site id then component. Densifying the grid is left to the caller.
func ComputeHeatmap(cases []domain.Case) []HeatmapCell {
	type key struct{ site, component string }
	cells := map[key]*HeatmapCell{}

	for _, c := range cases {
		k := key{c.SiteID, c.ComponentName}
		cell, ok := cells[k]
		if !ok {
			cell = &HeatmapCell{SiteID: c.SiteID, SiteName: c.SiteName, ComponentName: c.ComponentName}
			cells[k] = cell
		}
		if c.IsOpen {
			cell.OpenCount++
			if c.IsCritical {
				cell.CriticalCount++
			}
		}
	}

	res := make([]HeatmapCell, 0, len(cells))
	for _, c := range cells {
		res = append(res, *c)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].SiteID != res[j].SiteID {
			return res[i].SiteID < res[j].SiteID
		}
		return res[i].ComponentName < res[j].ComponentName
	})
	return res
}

// GroupBy selects the dimension repeat failures are grouped on.
type GroupBy string

const (
	GroupByComponent   GroupBy = "component"
	GroupByFailureMode GroupBy = "failureMode"
)

// RepeatFailure is a recurring open problem and how widely it is spread.
type RepeatFailure struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Sites int    `json:"sites"`
}

// RepeatFailuresLimit caps the repeat-failure list.
const RepeatFailuresLimit = 10

// ComputeRepeatFailures groups open cases by component or failure mode and returns the
// ten most frequent, ties by key.
func ComputeRepeatFailures(cases []domain.Case, by GroupBy) []RepeatFailure {
	type acc struct {
		count int
		sites map[string]struct{}
	}
	groups := map[string]*acc{}

	for _, c := range cases {
		if !c.IsOpen {
			continue
		}
		k := c.ComponentName
		if by == GroupByFailureMode {
			k = c.FailureModeName
		}
		g, ok := groups[k]
		if !ok {
			g = &acc{sites: map[string]struct{}{}}
			groups[k] = g
		}
		g.count++
		g.sites[c.SiteID] = struct{}{}
	}

	res := make([]RepeatFailure, 0, len(groups))
	for k, g := range groups {
		res = append(res, RepeatFailure{Key: k, Label: k, Count: g.count, Sites: len(g.sites)})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Key < res[j].Key
	})
	if len(res) > RepeatFailuresLimit {
		res = res[:RepeatFailuresLimit]
	}
	return res
}

// RadarValues are the per-site comparison axes.
type RadarValues struct {
	OpenCases      float64 `json:"openCases"`
	CriticalCases  float64 `json:"criticalCases"`
	AvgAge         float64 `json:"avgAge"`
	OverdueActions float64 `json:"overdueActions"`
	SLARate        float64 `json:"slaRate"` // 0-100
}

// SiteRadar compares one site on display-scaled axes. Raw keeps the unclamped values.
type SiteRadar struct {
	SiteID string `json:"siteId"`
	Site   string `json:"site"`
	RadarValues
	Raw RadarValues `json:"raw"`
}

// Radar display caps.
const (
	RadarOpenCap     = 100
	RadarCriticalCap = 50
	RadarAgeCap      = 100
	RadarOverdueCap  = 50
)

// ComputeSiteRadarMetrics builds one radar entry per requested site, in request order.
// Critical counts here include closed critical cases.
func ComputeSiteRadarMetrics(cases []domain.Case, actions []domain.Action, siteIDs []string) []SiteRadar {
	caseSite := make(map[string]string, len(cases))
	for _, c := range cases {
		if _, ok := caseSite[c.ID]; !ok {
			caseSite[c.ID] = c.SiteID
		}
	}

	res := make([]SiteRadar, 0, len(siteIDs))
	for _, siteID := range siteIDs {
		name := ""
		open, critical, n, ageSum := 0, 0, 0, 0
		for _, c := range cases {
			if c.SiteID != siteID {
				continue
			}
			if name == "" {
				name = c.SiteName
			}
			n++
			ageSum += c.AgeDays
			if c.IsOpen {
				open++
			}
			if c.IsCritical {
				critical++
			}
		}

		overdue, withDeadline, met := 0, 0, 0
		for _, a := range actions {
			if s, ok := caseSite[a.CaseID]; !ok || s != siteID {
				continue
			}
			if a.IsOverdue {
				overdue++
			}
			if a.Deadline != nil {
				withDeadline++
			}
			if a.MetSLA != nil && *a.MetSLA {
				met++
			}
		}

		avgAge := 0.0
		if n > 0 {
			avgAge = float64(ageSum) / float64(n)
		}
		raw := RadarValues{
			OpenCases:      float64(open),
			CriticalCases:  float64(critical),
			AvgAge:         avgAge,
			OverdueActions: float64(overdue),
			SLARate:        Ratio(met, withDeadline) * 100,
		}
		if name == "" {
			name = siteID
		}
		res = append(res, SiteRadar{
			SiteID: siteID,
			Site:   name,
			RadarValues: RadarValues{
				OpenCases:      Clamp(raw.OpenCases, 0, RadarOpenCap),
				CriticalCases:  Clamp(raw.CriticalCases, 0, RadarCriticalCap),
				AvgAge:         Clamp(raw.AvgAge, 0, RadarAgeCap),
				OverdueActions: Clamp(raw.OverdueActions, 0, RadarOverdueCap),
				SLARate:        raw.SLARate,
			},
			Raw: raw,
		})
	}
	return res
}
