package scoring

import (
	"math"
	"sort"

	"wfdash/internal/stats"
)

// Health score penalties per unit.
const (
	criticalPenalty = 10
	openPenalty     = 2
	overduePenalty  = 5
)

// BottomSitesLimit is the default size of the worst-sites list.
const BottomSitesLimit = 10

// HealthScore returns max(0, 100 - 10*critical - 2*open - 5*overdue), rounded.
func HealthScore(site stats.SiteKPI) int {
	penalty := float64(site.CriticalCases*criticalPenalty +
		site.OpenCases*openPenalty +
		site.OverdueActions*overduePenalty)
	return int(math.Round(math.Max(0, 100-penalty)))
}

// SiteHealth pairs a site with its health score.
type SiteHealth struct {
	stats.SiteKPI
	HealthScore int `json:"healthScore"`
}

// BottomSites returns the n sites with the lowest health score, worst first.
// Equal scores are ordered by site id. n <= 0 returns every site.
func BottomSites(sites []stats.SiteKPI, n int) []SiteHealth {
	res := make([]SiteHealth, 0, len(sites))
	for _, s := range sites {
		res = append(res, SiteHealth{SiteKPI: s, HealthScore: HealthScore(s)})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].HealthScore != res[j].HealthScore {
			return res[i].HealthScore < res[j].HealthScore
		}
		return res[i].SiteID < res[j].SiteID
	})
	if n > 0 && len(res) > n {
		res = res[:n]
	}
	return res
}
