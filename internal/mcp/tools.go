package mcp

import (
	"context"
	"fmt"

	"wfdash/internal/dashboard"
	"wfdash/internal/domain"
	"wfdash/internal/stats"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type noInput struct{}

type loadDatasetInput struct {
	Cases   string `json:"cases,omitempty" jsonschema:"Path to the cases CSV. Defaults to the configured CASES_CSV."`
	Actions string `json:"actions,omitempty" jsonschema:"Path to the actions CSV. Defaults to the configured ACTIONS_CSV."`
	Sites   string `json:"sites,omitempty" jsonschema:"Optional path to the site locations CSV. Defaults to the configured SITES_CSV."`
}

// Omitted fields keep their current value. An empty list clears a dimension.
type setFiltersInput struct {
	Preset           string   `json:"preset,omitempty" jsonschema:"Date preset. 'custom' requires start and end."`
	Start            string   `json:"start,omitempty" jsonschema:"Custom range start (YYYY-MM-DD or RFC 3339). Selects the custom preset."`
	End              string   `json:"end,omitempty" jsonschema:"Custom range end, inclusive (YYYY-MM-DD or RFC 3339)."`
	Sites            []string `json:"sites,omitempty" jsonschema:"Site ids to include"`
	Turbines         []string `json:"turbines,omitempty" jsonschema:"Turbine ids to include"`
	Severities       []string `json:"severities,omitempty" jsonschema:"Case severities to include"`
	Priorities       []string `json:"priorities,omitempty" jsonschema:"Action priorities to include"`
	Statuses         []string `json:"statuses,omitempty" jsonschema:"Action statuses to include"`
	Components       []string `json:"components,omitempty" jsonschema:"Component names to include"`
	FailureModes     []string `json:"failure_modes,omitempty" jsonschema:"Failure mode names to include"`
	OpenOnly         *bool    `json:"open_only,omitempty" jsonschema:"Keep only open cases"`
	CriticalOnly     *bool    `json:"critical_only,omitempty" jsonschema:"Keep only critical cases"`
	WithDeadlineOnly *bool    `json:"with_deadline_only,omitempty" jsonschema:"Keep only actions that have a deadline"`
	IssueType        string   `json:"issue_type,omitempty" jsonschema:"Issue lens: all, cms_hardware (monitoring hardware faults) or mechanical"`
}

type limitInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of rows to return"`
}

type heatmapInput struct {
	IncludeNonCritical bool `json:"include_non_critical,omitempty" jsonschema:"If true, every filtered case contributes, not only critical ones."`
}

type repeatFailuresInput struct {
	GroupBy string `json:"group_by,omitempty" jsonschema:"Group open cases by 'component' (default) or 'failureMode'"`
}

type trendInput struct {
	Metric string `json:"metric" jsonschema:"cases (daily creation by severity), actions (daily creation by priority), backlog (open cases over time) or action_backlog"`
	Days   int    `json:"days,omitempty" jsonschema:"Trailing days to cover. Default 30 for cases/actions, 90 for backlogs."`
}

type oemRankingInput struct {
	Method string `json:"method,omitempty" jsonschema:"Normalisation: 'percentile' (default) or 'zscore'"`
}

type dailyChangesInput struct {
	Hours int `json:"hours,omitempty" jsonschema:"Lookback in hours. Default 24."`
}

type radarInput struct {
	SiteIDs []string `json:"site_ids,omitempty" jsonschema:"Sites to compare. Defaults to the five sites with the most open cases."`
}

type drilldownInput struct {
	View string `json:"view" jsonschema:"fleet, site, turbine, case or action"`
	ID   string `json:"id,omitempty" jsonschema:"Id of the selected entity. Not needed for fleet."`
}

// addTool registers a tool whose result is rendered as indented JSON text. Handler
// errors are reported to the client as tool errors.
func addTool[In any](s *Server, server *mcp.Server, name, description string, enums map[string][]any, h func(context.Context, In) (interface{}, error)) {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("input schema for %s: %v", name, err))
	}
	for prop, vals := range enums {
		p, ok := schema.Properties[prop]
		if !ok {
			panic(fmt.Sprintf("input schema for %s: no property %q", name, prop))
		}
		if p.Items != nil {
			p = p.Items
		}
		p.Enum = vals
	}

	mcp.AddTool(server, &mcp.Tool{Name: name, Description: description, InputSchema: schema},
		func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
			log.Debug().Str("tool", name).Msg("Tool call")
			data, err := h(ctx, in)
			if err != nil {
				log.Warn().Err(err).Str("tool", name).Msg("Tool call failed")
				return nil, nil, err
			}
			return s.textResult(data), nil, nil
		})
}

func enumOf[T ~string](vals ...T) []any {
	res := make([]any, len(vals))
	for i, v := range vals {
		res[i] = string(v)
	}
	return res
}

func (s *Server) registerTools(server *mcp.Server) {
	addTool(s, server, "load_dataset",
		"Load the cases, actions and (optional) site location CSVs, replacing the current dataset. "+
			"MUST be called before any analytical tool. A failed load keeps the previously loaded dataset.",
		nil, s.handleLoadDataset)

	addTool(s, server, "get_validation",
		"Get the referential validation of the loaded dataset: errors, warnings and actions whose case is missing.",
		nil, s.handleGetValidation)

	addTool(s, server, "get_filters",
		"Get the active dashboard filters, issue lens and load status.",
		nil, s.handleGetFilters)

	addTool(s, server, "set_filters",
		"Change the dashboard filters. Only the given fields change; pass an empty list to clear a dimension. "+
			"Every analytical tool works on the filtered view.",
		map[string][]any{
			"preset":     enumOf(domain.PresetLast7, domain.PresetLast30, domain.PresetLast90, domain.PresetAllTime, domain.PresetCustom),
			"severities": enumOf(domain.Severities...),
			"priorities": enumOf(domain.Priorities...),
			"statuses":   enumOf(domain.Statuses...),
			"issue_type": enumOf(domain.IssueAll, domain.IssueCMSHardware, domain.IssueMechanical),
		},
		s.handleSetFilters)

	addTool(s, server, "reset_filters",
		"Restore the default filters (last 30 days, no restrictions) and the 'all' issue lens.",
		nil, s.handleResetFilters)

	addTool(s, server, "get_filter_options",
		"List the sites, turbines, components, failure modes, severities, statuses and priorities present in the dataset.",
		nil, s.handleGetFilterOptions)

	addTool(s, server, "get_kpi_summary",
		"Get the executive KPI summary of the filtered view (open cases, 14-day critical backlog, lifecycle medians, "+
			"funnel, 30-day SLA hit rate, overdue actions, priority churn, action aging) with a green/yellow/red rating per KPI.",
		nil, s.handleGetKPISummary)

	addTool(s, server, "get_site_scorecard",
		"Get per-site KPIs with health score and the recommended next action for every site in the filtered view.",
		nil, s.handleGetSiteScorecard)

	addTool(s, server, "get_bottom_sites",
		"Get the sites with the lowest health score, worst first.",
		nil, s.handleGetBottomSites)

	addTool(s, server, "get_risk_heatmap",
		"Get open and open-critical case counts per (site, component) pair.",
		nil, s.handleGetRiskHeatmap)

	addTool(s, server, "get_repeat_failures",
		"Get the ten most frequent open problems by component or failure mode, with how many sites they affect.",
		map[string][]any{"group_by": enumOf(stats.GroupByComponent, stats.GroupByFailureMode)},
		s.handleGetRepeatFailures)

	addTool(s, server, "get_trend",
		"Get a daily time series over the trailing days of the filtered view.",
		map[string][]any{"metric": enumOf(trendCases, trendActions, trendBacklog, trendActionBacklog)},
		s.handleGetTrend)

	addTool(s, server, "get_oem_ranking",
		"Rank turbine manufacturers by reliability (cases per turbine and critical rate, lower is better). Score 0-100, higher is better.",
		map[string][]any{"method": enumOf(stats.RankPercentile, stats.RankZScore)},
		s.handleGetOEMRanking)

	addTool(s, server, "get_daily_changes",
		"Get what changed in the lookback window: new cases and actions, closures, new criticals, overdue and priority escalations. "+
			"Ignores dashboard filters except the issue lens.",
		nil, s.handleGetDailyChanges)

	addTool(s, server, "get_action_case_distribution",
		"Get how actions spread over cases (1, 2, 3, 4, 5+ actions per case) and the cases with the most actions.",
		nil, s.handleGetActionCaseDistribution)

	addTool(s, server, "get_distributions",
		"Get the severity share of cases, the priority and status shares of actions and the resolution velocity histogram.",
		nil, s.handleGetDistributions)

	addTool(s, server, "get_site_radar",
		"Compare sites on open cases, critical cases, average age, overdue actions and SLA rate.",
		nil, s.handleGetSiteRadar)

	addTool(s, server, "get_drilldown",
		"Narrow the filtered view to one site, turbine, case or action and list its cases and actions as a triage queue.",
		map[string][]any{"view": enumOf(dashboard.ViewFleet, dashboard.ViewSite, dashboard.ViewTurbine, dashboard.ViewCase, dashboard.ViewAction)},
		s.handleGetDrilldown)

	addTool(s, server, "get_action_queue",
		"Get actions in triage order: overdue first, then by deadline, then by priority.",
		nil, s.handleGetActionQueue)
}
