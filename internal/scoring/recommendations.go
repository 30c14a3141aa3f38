package scoring

import (
	"fmt"

	"wfdash/internal/stats"
)

// Tier is the urgency of a recommendation.
type Tier string

const (
	TierCritical Tier = "critical"
	TierHigh     Tier = "high"
	TierMedium   Tier = "medium"
	TierLow      Tier = "low"
)

// DefaultCasesPerTurbine is the base cases-per-turbine target.
const DefaultCasesPerTurbine = 3.0

// Recommendation is the single next step suggested for a site.
type Recommendation struct {
	Action   string `json:"action"`
	Priority Tier   `json:"priority"`
	Reason   string `json:"reason"`
	IconName string `json:"iconName"`
}

// tier is one threshold step of a rule. score returns the weight of a triggered tier.
type tier struct {
	when   func(s stats.SiteKPI, base float64) bool
	score  func(s stats.SiteKPI) int
	action string
	level  Tier
	reason func(s stats.SiteKPI) string
	icon   string
}

// rule is an ordered list of tiers; only the first matching tier of a rule fires.
type rule struct {
	name  string
	tiers []tier
}

func fixed(n int) func(stats.SiteKPI) int { return func(stats.SiteKPI) int { return n } }

// rules is evaluated in order. Registration order is the tie-break between equal scores.
var rules = []rule{
	{
		name: "critical_backlog",
		tiers: []tier{
			{
				when:   func(s stats.SiteKPI, _ float64) bool { return s.CriticalCases > 15 },
				score:  func(s stats.SiteKPI) int { return 100 + s.CriticalCases },
				action: "Emergency: Address critical backlog",
				level:  TierCritical,
				reason: func(s stats.SiteKPI) string {
					return fmt.Sprintf("%d critical cases require immediate resolution", s.CriticalCases)
				},
				icon: "AlertTriangle",
			},
			{
				when:   func(s stats.SiteKPI, _ float64) bool { return s.CriticalCases > 10 },
				score:  func(s stats.SiteKPI) int { return 90 + s.CriticalCases },
				action: "Urgent: Triage critical cases",
				level:  TierCritical,
				reason: func(s stats.SiteKPI) string {
					return fmt.Sprintf("%d critical cases need prioritization", s.CriticalCases)
				},
				icon: "AlertCircle",
			},
			{
				when:   func(s stats.SiteKPI, _ float64) bool { return s.CriticalCases > 5 },
				score:  func(s stats.SiteKPI) int { return 70 + s.CriticalCases },
				action: "Review critical cases",
				level:  TierHigh,
				reason: func(s stats.SiteKPI) string {
					return fmt.Sprintf("%d critical cases need attention", s.CriticalCases)
				},
				icon: "AlertTriangle",
			},
		},
	},
	{
		name: "overdue_actions",
		tiers: []tier{
			{
				when:   func(s stats.SiteKPI, _ float64) bool { return s.OverdueActions > 20 },
				score:  func(s stats.SiteKPI) int { return 85 + s.OverdueActions },
				action: "Clear overdue action backlog",
				level:  TierCritical,
				reason: func(s stats.SiteKPI) string {
					return fmt.Sprintf("%d actions past deadline", s.OverdueActions)
				},
				icon: "Clock",
			},
			{
				when:   func(s stats.SiteKPI, _ float64) bool { return s.OverdueActions > 10 },
				score:  func(s stats.SiteKPI) int { return 75 + s.OverdueActions },
				action: "Address overdue actions",
				level:  TierHigh,
				reason: func(s stats.SiteKPI) string {
					return fmt.Sprintf("%d overdue actions need resolution", s.OverdueActions)
				},
				icon: "Calendar",
			},
		},
	},
	{
		name: "cases_per_turbine",
		tiers: []tier{
			{
				when:   func(s stats.SiteKPI, base float64) bool { return s.CasesPerTurbine > base*2 },
				score:  fixed(80),
				action: "Reduce case load per turbine",
				level:  TierHigh,
				reason: func(s stats.SiteKPI) string {
					return fmt.Sprintf("%.1f cases/turbine exceeds target", s.CasesPerTurbine)
				},
				icon: "BarChart3",
			},
			{
				when:   func(s stats.SiteKPI, base float64) bool { return s.CasesPerTurbine > base },
				score:  fixed(60),
				action: "Monitor case accumulation",
				level:  TierMedium,
				reason: func(s stats.SiteKPI) string {
					return fmt.Sprintf("%.1f cases/turbine trending high", s.CasesPerTurbine)
				},
				icon: "ClipboardList",
			},
		},
	},
	{
		name: "open_volume",
		tiers: []tier{
			{
				when:   func(s stats.SiteKPI, _ float64) bool { return s.OpenCases > 100 },
				score:  fixed(75),
				action: "Scale up case resolution",
				level:  TierHigh,
				reason: func(s stats.SiteKPI) string {
					return fmt.Sprintf("%d open cases require more resources", s.OpenCases)
				},
				icon: "TrendingUp",
			},
			{
				when:   func(s stats.SiteKPI, _ float64) bool { return s.OpenCases > 50 },
				score:  fixed(65),
				action: "Increase case closure rate",
				level:  TierMedium,
				reason: func(s stats.SiteKPI) string {
					return fmt.Sprintf("%d open cases need attention", s.OpenCases)
				},
				icon: "FileEdit",
			},
		},
	},
	{
		name: "concentrated_problems",
		tiers: []tier{
			{
				when:   func(s stats.SiteKPI, _ float64) bool { return s.TurbineCount < 20 && s.CriticalCases > 3 },
				score:  fixed(70),
				action: "Investigate systemic issues",
				level:  TierHigh,
				reason: func(s stats.SiteKPI) string {
					return fmt.Sprintf("High critical rate for small fleet (%d turbines)", s.TurbineCount)
				},
				icon: "Search",
			},
		},
	},
}

var (
	monitor = Recommendation{
		Action:   "Monitor and maintain",
		Priority: TierLow,
		Reason:   "No critical issues, continue current operations",
		IconName: "Check",
	}
	excellent = Recommendation{
		Action:   "Excellent performance",
		Priority: TierLow,
		Reason:   "No open cases, exemplary site",
		IconName: "Star",
	}
)

// Recommend evaluates every rule against site and returns the highest scoring triggered
// tier. base is the cases-per-turbine target; base <= 0 uses DefaultCasesPerTurbine.
func Recommend(site stats.SiteKPI, base float64) Recommendation {
	if base <= 0 {
		base = DefaultCasesPerTurbine
	}

	var best *tier
	bestScore := 0
	for _, r := range rules {
		for i := range r.tiers {
			t := &r.tiers[i]
			if !t.when(site, base) {
				continue
			}
			// strict comparison keeps the earlier rule on ties
			if sc := t.score(site); best == nil || sc > bestScore {
				best, bestScore = t, sc
			}
			break
		}
	}

	if best == nil {
		if site.OpenCases > 0 {
			return monitor
		}
		return excellent
	}
	return Recommendation{
		Action:   best.action,
		Priority: best.level,
		Reason:   best.reason(site),
		IconName: best.icon,
	}
}

// ScorecardRow is one site line of the scorecard.
type ScorecardRow struct {
	stats.SiteKPI
	HealthScore    int            `json:"healthScore"`
	Recommendation Recommendation `json:"recommendation"`
}

// Scorecard attaches a health score and a recommendation to every site, keeping input order.
func Scorecard(sites []stats.SiteKPI, base float64) []ScorecardRow {
	res := make([]ScorecardRow, 0, len(sites))
	for _, s := range sites {
		res = append(res, ScorecardRow{
			SiteKPI:        s,
			HealthScore:    HealthScore(s),
			Recommendation: Recommend(s, base),
		})
	}
	return res
}
