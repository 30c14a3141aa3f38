package mcp

import (
	"context"
	"errors"
	"fmt"

	"wfdash/internal/dashboard"
	"wfdash/internal/stats"
	"wfdash/internal/visuals"
)

// Trend metrics accepted by get_trend.
const (
	trendCases         = "cases"
	trendActions       = "actions"
	trendBacklog       = "backlog"
	trendActionBacklog = "action_backlog"
)

const (
	maxTrendDays  = 365
	maxChangeHrs  = 24 * 30
	relationsRows = 20
	queueRows     = 25
)

func (s *Server) handleGetTrend(_ context.Context, in trendInput) (interface{}, error) {
	def := stats.DefaultTrendDays
	if in.Metric == trendBacklog || in.Metric == trendActionBacklog {
		def = stats.DefaultBacklogDays
	}
	days, err := limitOr(in.Days, def)
	if err != nil {
		return nil, err
	}
	if days > maxTrendDays {
		return nil, fmt.Errorf("days must be at most %d", maxTrendDays)
	}

	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	res := map[string]interface{}{
		"view":   viewInfo(snap),
		"metric": in.Metric,
		"days":   days,
	}
	var visual string
	switch in.Metric {
	case trendCases:
		points := stats.ComputeCaseTrend(snap.Cases, days, snap.At)
		res["series"] = points
		visual = visuals.GenerateCaseTrendChart(points)
	case trendActions:
		res["series"] = stats.ComputeActionTrend(snap.Actions, days, snap.At)
	case trendBacklog:
		points := stats.ComputeBacklogGrowth(snap.Cases, days, snap.At)
		res["series"] = points
		res["_guidance"] = []string{
			"netBacklog is the number of cases open at the end of each day, counted over the filtered cases.",
		}
		visual = visuals.GenerateBacklogChart(points)
	case trendActionBacklog:
		points := stats.ComputeActionBacklogGrowth(snap.Actions, days, snap.At)
		res["series"] = points
		res["_guidance"] = []string{
			"An action counts as closed on the day of its last update.",
		}
		visual = visuals.GenerateActionBacklogChart(points)
	default:
		return nil, fmt.Errorf("unknown trend metric %q", in.Metric)
	}

	if s.enableMermaidCharts && visual != "" {
		res["visual_trend"] = visual
	}
	return res, nil
}

func (s *Server) handleGetDailyChanges(_ context.Context, in dailyChangesInput) (interface{}, error) {
	hours, err := limitOr(in.Hours, stats.DefaultChangeHours)
	if err != nil {
		return nil, err
	}
	if hours > maxChangeHrs {
		return nil, fmt.Errorf("hours must be at most %d", maxChangeHrs)
	}

	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"as_of":      snap.At,
		"issue_type": snap.IssueType,
		"hours":      hours,
		"changes":    stats.ComputeDailyChanges(snap.LensCases, snap.LensActions, hours, snap.At),
		"_guidance": []string{
			"Counts cover the whole dataset through the issue lens; the date range and other dashboard filters do not apply.",
		},
	}, nil
}

func (s *Server) handleGetActionCaseDistribution(_ context.Context, in limitInput) (interface{}, error) {
	n, err := limitOr(in.Limit, relationsRows)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	rel := snap.Relationships
	listed := rel.CasesWithActions
	if len(listed) > n {
		listed = listed[:n]
	}
	return map[string]interface{}{
		"view":                        viewInfo(snap),
		"distribution":                rel.Distribution,
		"avg_actions_per_case":        rel.AvgActionsPerCase,
		"total_actions":               rel.TotalActions,
		"total_cases":                 rel.TotalCases,
		"cases_with_multiple_actions": rel.CasesWithMultipleActions,
		"cases_with_actions":          listed,
		"orphaned_actions":            rel.OrphanedActions,
		"_guidance": []string{
			"Orphaned actions are listed separately and kept out of the buckets and the average.",
			"With an issue lens active, orphans cannot be attributed to a lens and are not shown.",
		},
	}, nil
}

func (s *Server) handleGetDrilldown(_ context.Context, in drilldownInput) (interface{}, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	d, err := dashboard.Drill(snap, dashboard.View(in.View), in.ID)
	if err != nil {
		if errors.Is(err, dashboard.ErrNotFound) {
			return nil, fmt.Errorf("%w; check the id with 'get_filter_options' and the active filters with 'get_filters'", err)
		}
		return nil, err
	}
	return map[string]interface{}{
		"view":      viewInfo(snap),
		"drilldown": d,
	}, nil
}

func (s *Server) handleGetActionQueue(_ context.Context, in limitInput) (interface{}, error) {
	n, err := limitOr(in.Limit, queueRows)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	queue := stats.SortActionQueue(snap.Actions)
	total := len(queue)
	if len(queue) > n {
		queue = queue[:n]
	}
	return map[string]interface{}{
		"view":    viewInfo(snap),
		"total":   total,
		"actions": queue,
	}, nil
}
