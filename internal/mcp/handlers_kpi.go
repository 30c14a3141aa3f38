package mcp

import (
	"context"
	"fmt"

	"wfdash/internal/domain"
	"wfdash/internal/scoring"
	"wfdash/internal/stats"
	"wfdash/internal/visuals"
)

// radarDefaultSites is how many sites get_site_radar compares when none are named.
const radarDefaultSites = 5

func (s *Server) handleGetKPISummary(_ context.Context, _ noInput) (interface{}, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	res := map[string]interface{}{
		"view":          viewInfo(snap),
		"kpis":          snap.KPIs,
		"levels":        snap.Levels,
		"_data_quality": s.dataQuality(),
		"_guidance": []string{
			"Lifecycle medians are in hours; a null median means no case in the view reached that stage.",
			"SLA hit rate covers actions with a deadline created in the last 30 days; the sparkline rates closures per day.",
			"Levels: green/yellow/red per KPI. Lead with the red ones.",
		},
	}

	if s.enableMermaidCharts {
		res["visual_action_aging"] = visuals.GenerateBucketChart("Open action aging", "Actions", snap.KPIs.ActionAgingBuckets)
		res["visual_severity"] = visuals.GenerateSharePie("Case severity", stats.ComputeSeverityDistribution(snap.Cases))
	}

	return res, nil
}

func (s *Server) handleGetSiteScorecard(_ context.Context, _ noInput) (interface{}, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"view":                   viewInfo(snap),
		"scorecard":              snap.Scorecard,
		"cases_per_turbine_base": s.state.CasesPerTurbine(),
		"_data_quality":          s.dataQuality(),
		"_guidance": []string{
			"Health score = 100 - 10 x open critical - 2 x open - 5 x overdue actions, floored at 0.",
			"Each site gets exactly one recommendation: the highest scoring triggered rule.",
		},
	}, nil
}

func (s *Server) handleGetBottomSites(_ context.Context, in limitInput) (interface{}, error) {
	n, err := limitOr(in.Limit, scoring.BottomSitesLimit)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	bottom := scoring.BottomSites(snap.Sites, n)
	res := map[string]interface{}{
		"view":  viewInfo(snap),
		"sites": bottom,
	}
	if s.enableMermaidCharts {
		res["visual_health"] = visuals.GenerateHealthChart(bottom)
	}
	return res, nil
}

func (s *Server) handleGetRiskHeatmap(_ context.Context, in heatmapInput) (interface{}, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	cases := snap.Cases
	if !in.IncludeNonCritical {
		cases = make([]domain.Case, 0, len(snap.Cases))
		for _, c := range snap.Cases {
			if c.IsCritical {
				cases = append(cases, c)
			}
		}
	}

	return map[string]interface{}{
		"view":  viewInfo(snap),
		"cells": stats.ComputeHeatmap(cases),
		"_guidance": []string{
			"Only pairs present in the data are listed; a missing (site, component) pair means zero.",
		},
	}, nil
}

func (s *Server) handleGetRepeatFailures(_ context.Context, in repeatFailuresInput) (interface{}, error) {
	by := stats.GroupBy(in.GroupBy)
	switch by {
	case "":
		by = stats.GroupByComponent
	case stats.GroupByComponent, stats.GroupByFailureMode:
	default:
		return nil, fmt.Errorf("unknown group_by %q", in.GroupBy)
	}

	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"view":     viewInfo(snap),
		"group_by": by,
		"failures": stats.ComputeRepeatFailures(snap.Cases, by),
	}, nil
}

func (s *Server) handleGetOEMRanking(_ context.Context, in oemRankingInput) (interface{}, error) {
	method := stats.RankMethod(in.Method)
	if method == "" {
		method = stats.RankPercentile
	}

	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	ranking, err := stats.RankOEMs(stats.ComputeTurbineMakeMetrics(snap.Cases), method)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"view":    viewInfo(snap),
		"method":  method,
		"ranking": ranking,
		"_guidance": []string{
			"Scores are relative to the manufacturers in the view; with a single make the score carries no information.",
		},
	}, nil
}

func (s *Server) handleGetDistributions(_ context.Context, _ noInput) (interface{}, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	severity := stats.ComputeSeverityDistribution(snap.Cases)
	priority := stats.ComputePriorityDistribution(snap.Actions)
	status := stats.ComputeStatusDistribution(snap.Actions)
	velocity := stats.ComputeActionResolutionVelocity(snap.Actions)

	res := map[string]interface{}{
		"view":                viewInfo(snap),
		"severity":            severity,
		"priority":            priority,
		"status":              status,
		"resolution_velocity": velocity,
		"_guidance": []string{
			"Priorities in P1-P4 notation are folded into Critical/High/Medium/Low.",
			"Resolution velocity buckets closed actions by days from creation to last update.",
		},
	}

	if s.enableMermaidCharts {
		res["visual_priority"] = visuals.GenerateSharePie("Action priority", priority)
		res["visual_status"] = visuals.GenerateSharePie("Action status", status)
		res["visual_velocity"] = visuals.GenerateBucketChart("Resolution velocity", "Actions", velocity)
	}
	return res, nil
}

func (s *Server) handleGetSiteRadar(_ context.Context, in radarInput) (interface{}, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	ids := in.SiteIDs
	if len(ids) == 0 {
		ids = stats.TopSitesByOpenCases(snap.Sites, radarDefaultSites)
	}
	return map[string]interface{}{
		"view":  viewInfo(snap),
		"sites": stats.ComputeSiteRadarMetrics(snap.Cases, snap.Actions, ids),
		"_guidance": []string{
			"Axis values are capped for display (open 100, critical 50, age 100, overdue 50); 'raw' keeps the real values.",
			"Critical counts on the radar include closed critical cases.",
		},
	}, nil
}

// limitOr validates a row limit, defaulting to def when unset.
func limitOr(limit, def int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("limit must not be negative")
	case limit == 0:
		return def, nil
	}
	return limit, nil
}
