package scoring

import "wfdash/internal/stats"

// Level is the traffic-light rating of a KPI.
type Level string

const (
	Green  Level = "green"
	Yellow Level = "yellow"
	Red    Level = "red"
)

// Cutoff is a green/yellow boundary pair. Anything beyond Yellow is red.
type Cutoff struct {
	Green  float64 `json:"green"`
	Yellow float64 `json:"yellow"`
}

// Thresholds is the fleet-level KPI rating table.
var Thresholds = struct {
	SLAHitRate         Cutoff
	CriticalBacklog14d Cutoff
	OverdueActions     Cutoff
	OpenCriticalCases  Cutoff
}{
	SLAHitRate:         Cutoff{Green: 0.90, Yellow: 0.80},
	CriticalBacklog14d: Cutoff{Green: 2, Yellow: 5},
	OverdueActions:     Cutoff{Green: 10, Yellow: 25},
	OpenCriticalCases:  Cutoff{Green: 10, Yellow: 30},
}

// atLeast rates metrics where higher is better.
func (c Cutoff) atLeast(v float64) Level {
	switch {
	case v >= c.Green:
		return Green
	case v >= c.Yellow:
		return Yellow
	}
	return Red
}

// atMost rates counts where lower is better.
func (c Cutoff) atMost(v float64) Level {
	switch {
	case v <= c.Green:
		return Green
	case v <= c.Yellow:
		return Yellow
	}
	return Red
}

// EvaluateSLA rates an SLA hit rate in [0,1].
func EvaluateSLA(rate float64) Level { return Thresholds.SLAHitRate.atLeast(rate) }

// EvaluateCriticalBacklog rates the count of critical cases open more than 14 days.
func EvaluateCriticalBacklog(count int) Level {
	return Thresholds.CriticalBacklog14d.atMost(float64(count))
}

// EvaluateOverdueActions rates the overdue action count.
func EvaluateOverdueActions(count int) Level {
	return Thresholds.OverdueActions.atMost(float64(count))
}

// EvaluateOpenCriticalCases rates the count of open critical cases.
func EvaluateOpenCriticalCases(count int) Level {
	return Thresholds.OpenCriticalCases.atMost(float64(count))
}

// KPILevels rates each headline KPI.
type KPILevels struct {
	SLAHitRate         Level `json:"slaHitRate"`
	CriticalBacklog14d Level `json:"criticalBacklog14d"`
	OverdueActions     Level `json:"overdueActions"`
	OpenCriticalCases  Level `json:"openCriticalCases"`
}

// RateKPIs applies the threshold table to a KPI summary.
func RateKPIs(k stats.KPISummary) KPILevels {
	return KPILevels{
		SLAHitRate:         EvaluateSLA(k.SLAHitRate30d.Rate),
		CriticalBacklog14d: EvaluateCriticalBacklog(k.CriticalBacklog14d),
		OverdueActions:     EvaluateOverdueActions(k.OverdueActions),
		OpenCriticalCases:  EvaluateOpenCriticalCases(k.OpenCases.BySeverity.Critical),
	}
}
