package stats

import (
	"fmt"
	"math"
	"sort"

	"wfdash/internal/domain"
)

// TurbineMakeMetrics summarises cases for one manufacturer.
type TurbineMakeMetrics struct {
	Make            string  `json:"make"`
	TotalCases      int     `json:"totalCases"`
	OpenCases       int     `json:"openCases"`
	CriticalCases   int     `json:"criticalCases"`
	AvgAgeDays      float64 `json:"avgAgeDays"`
	TurbineCount    int     `json:"turbineCount"`
	CasesPerTurbine float64 `json:"casesPerTurbine"` // all cases per turbine
}

// CriticalPercent is the percentage of the make's cases that are critical.
func (m TurbineMakeMetrics) CriticalPercent() float64 {
	return Percent(m.CriticalCases, m.TotalCases)
}

// ComputeTurbineMakeMetrics aggregates cases per turbine make, most cases first.
func ComputeTurbineMakeMetrics(cases []domain.Case) []TurbineMakeMetrics {
	type acc struct {
		m        TurbineMakeMetrics
		ageSum   int
		turbines map[string]struct{}
	}
	byMake := map[string]*acc{}

	for _, c := range cases {
		a, ok := byMake[c.TurbineMake]
		if !ok {
			a = &acc{m: TurbineMakeMetrics{Make: c.TurbineMake}, turbines: map[string]struct{}{}}
			byMake[c.TurbineMake] = a
		}
		a.m.TotalCases++
		if c.IsOpen {
			a.m.OpenCases++
		}
		if c.IsCritical {
			a.m.CriticalCases++
		}
		a.ageSum += c.AgeDays
		a.turbines[c.TurbineID] = struct{}{}
	}

	res := make([]TurbineMakeMetrics, 0, len(byMake))
	for _, a := range byMake {
		m := a.m
		m.TurbineCount = max(len(a.turbines), 1)
		m.AvgAgeDays = float64(a.ageSum) / float64(m.TotalCases)
		m.CasesPerTurbine = float64(m.TotalCases) / float64(m.TurbineCount)
		res = append(res, m)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].TotalCases != res[j].TotalCases {
			return res[i].TotalCases > res[j].TotalCases
		}
		return res[i].Make < res[j].Make
	})
	return res
}

// RankMethod selects how OEM reliability scores are normalised.
type RankMethod string

const (
	RankPercentile RankMethod = "percentile"
	RankZScore     RankMethod = "zscore"
)

// OEMRank is a manufacturer's reliability score (0-100, higher is better) and rank.
type OEMRank struct {
	TurbineMakeMetrics
	CriticalRate     float64 `json:"criticalRate"`
	ReliabilityScore int     `json:"reliabilityScore"`
	Rank             int     `json:"rank"`
}

// Z-score weights and the spread that maps one combined deviation onto the 0-100 scale.
const (
	zWeightCasesPerTurbine = 0.6
	zWeightCriticalRate    = 0.4
	zScale                 = 16.67
)

// RankOEMs scores manufacturers by cases per turbine and critical rate, lower raw values
// being better. Ties are broken by make name.
func RankOEMs(makes []TurbineMakeMetrics, method RankMethod) ([]OEMRank, error) {
	ranked := make([]OEMRank, len(makes))
	for i, m := range makes {
		ranked[i] = OEMRank{TurbineMakeMetrics: m, CriticalRate: m.CriticalPercent()}
	}

	switch method {
	case RankPercentile, "":
		rankPercentile(ranked)
	case RankZScore:
		rankZScore(ranked)
	default:
		return nil, fmt.Errorf("unknown ranking method %q", method)
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

func rankPercentile(ranked []OEMRank) {
	key := func(r OEMRank) float64 { return r.CasesPerTurbine + r.CriticalRate/10 }
	sort.Slice(ranked, func(i, j int) bool {
		ki, kj := key(ranked[i]), key(ranked[j])
		if ki != kj {
			return ki < kj
		}
		return ranked[i].Make < ranked[j].Make
	})

	n := len(ranked)
	for i := range ranked {
		if n == 1 {
			ranked[i].ReliabilityScore = 100
			continue
		}
		ranked[i].ReliabilityScore = int(math.Round(float64(n-1-i) / float64(n-1) * 100))
	}
}

func rankZScore(ranked []OEMRank) {
	cpt := make([]float64, len(ranked))
	cr := make([]float64, len(ranked))
	for i, r := range ranked {
		cpt[i] = r.CasesPerTurbine
		cr[i] = r.CriticalRate
	}
	cptMean, crMean := Mean(cpt), Mean(cr)
	cptStd, crStd := StdDev(cpt, cptMean), StdDev(cr, crMean)

	for i, r := range ranked {
		combined := zWeightCasesPerTurbine*invertedZ(r.CasesPerTurbine, cptMean, cptStd) +
			zWeightCriticalRate*invertedZ(r.CriticalRate, crMean, crStd)
		ranked[i].ReliabilityScore = int(math.Round(Clamp(50+combined*zScale, 0, 100)))
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ReliabilityScore != ranked[j].ReliabilityScore {
			return ranked[i].ReliabilityScore > ranked[j].ReliabilityScore
		}
		return ranked[i].Make < ranked[j].Make
	})
}

// invertedZ is the negated z-score, so values below the mean score positively.
func invertedZ(v, mean, std float64) float64 {
	if std == 0 {
		return 0
	}
	return -(v - mean) / std
}
