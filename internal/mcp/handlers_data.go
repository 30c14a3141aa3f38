package mcp

import (
	"context"
	"fmt"
	"time"

	"wfdash/internal/domain"
	"wfdash/internal/ingest"
)

func (s *Server) handleLoadDataset(ctx context.Context, in loadDatasetInput) (interface{}, error) {
	files := ingest.Files{
		Cases:   firstNonEmpty(in.Cases, s.defaults.Cases),
		Actions: firstNonEmpty(in.Actions, s.defaults.Actions),
		Sites:   firstNonEmpty(in.Sites, s.defaults.Sites),
	}
	if files.Cases == "" || files.Actions == "" {
		return nil, fmt.Errorf("cases and actions paths are required (no CASES_CSV/ACTIONS_CSV configured)")
	}

	ds, err := s.state.Load(ctx, files, s.now())
	if err != nil {
		return nil, fmt.Errorf("load failed, previous dataset kept: %w", err)
	}

	guidance := []string{
		"All analytical tools now work on this dataset through the active filters (see 'get_filters').",
		"The default date range is the last 30 days; use 'set_filters' with preset 'allTime' to analyse the whole history.",
	}
	if !ds.Validation.Valid || len(ds.Validation.Warnings) > 0 {
		guidance = append(guidance, "The dataset has validation findings. Call 'get_validation' and mention them before drawing conclusions.")
	}

	return map[string]interface{}{
		"load_id":   ds.LoadID,
		"loaded_at": ds.LoadedAt,
		"files":     files,
		"cases":     len(ds.Cases),
		"actions":   len(ds.Actions),
		"sites":     len(ds.Sites),
		"validation": map[string]interface{}{
			"valid":            ds.Validation.Valid,
			"errors":           ds.Validation.Errors,
			"warnings":         ds.Validation.Warnings,
			"orphaned_actions": len(ds.Validation.OrphanedActions),
		},
		"_guidance": guidance,
	}, nil
}

func (s *Server) handleGetValidation(_ context.Context, _ noInput) (interface{}, error) {
	v, err := s.state.Validation()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"validation": v,
		"_guidance": []string{
			"Validation never removes data: orphaned actions stay in the dataset but are excluded from KPIs, which follow their case.",
			"An empty cases file is an error; every analytical result will be empty until a dataset with cases is loaded.",
		},
	}, nil
}

func (s *Server) handleGetFilters(_ context.Context, _ noInput) (interface{}, error) {
	return s.filtersResult(), nil
}

func (s *Server) filtersResult() map[string]interface{} {
	return map[string]interface{}{
		"filters":    s.state.Filters(),
		"issue_type": s.state.IssueType(),
		"status":     s.state.Status(),
	}
}

func (s *Server) handleSetFilters(_ context.Context, in setFiltersInput) (interface{}, error) {
	now := s.now()
	lens := domain.IssueType(in.IssueType)
	switch lens {
	case "", domain.IssueAll, domain.IssueCMSHardware, domain.IssueMechanical:
	default:
		return nil, fmt.Errorf("unknown issue type %q", in.IssueType)
	}

	f := s.state.Filters()
	if err := applyDateRange(&f, in, now); err != nil {
		return nil, err
	}
	if in.Sites != nil {
		f.Sites = in.Sites
	}
	if in.Turbines != nil {
		f.Turbines = in.Turbines
	}
	if in.Severities != nil {
		f.Severities = fromStrings[domain.Severity](in.Severities)
	}
	if in.Priorities != nil {
		f.Priorities = fromStrings[domain.Priority](in.Priorities)
	}
	if in.Statuses != nil {
		f.Statuses = fromStrings[domain.Status](in.Statuses)
	}
	if in.Components != nil {
		f.Components = in.Components
	}
	if in.FailureModes != nil {
		f.FailureModes = in.FailureModes
	}
	if in.OpenOnly != nil {
		f.OpenOnly = *in.OpenOnly
	}
	if in.CriticalOnly != nil {
		f.CriticalOnly = *in.CriticalOnly
	}
	if in.WithDeadlineOnly != nil {
		f.WithDeadlineOnly = *in.WithDeadlineOnly
	}

	if err := s.state.SetFilters(f); err != nil {
		return nil, err
	}
	if lens != "" {
		if err := s.state.SetIssueType(lens); err != nil {
			return nil, err
		}
	}
	return s.filtersResult(), nil
}

func applyDateRange(f *domain.DashboardFilters, in setFiltersInput, now time.Time) error {
	preset := domain.DatePreset(in.Preset)
	switch {
	case in.Start != "" || in.End != "":
		if in.Start == "" || in.End == "" {
			return fmt.Errorf("a custom date range needs both start and end")
		}
		if preset != "" && preset != domain.PresetCustom {
			return fmt.Errorf("preset %q cannot be combined with start/end", in.Preset)
		}
		start, err := parseBound(in.Start, false, now.Location())
		if err != nil {
			return err
		}
		end, err := parseBound(in.End, true, now.Location())
		if err != nil {
			return err
		}
		f.DateRange = domain.DateRange{Start: start, End: end, Preset: domain.PresetCustom}
	case preset == domain.PresetCustom:
		return fmt.Errorf("the custom preset needs start and end")
	case preset != "":
		r, ok := domain.Preset(now, preset)
		if !ok {
			return fmt.Errorf("unknown date preset %q", in.Preset)
		}
		f.DateRange = r
	}
	return nil
}

func (s *Server) handleResetFilters(_ context.Context, _ noInput) (interface{}, error) {
	s.state.ResetFilters(s.now())
	if err := s.state.SetIssueType(domain.IssueAll); err != nil {
		return nil, err
	}
	return s.filtersResult(), nil
}

func (s *Server) handleGetFilterOptions(_ context.Context, _ noInput) (interface{}, error) {
	ds, err := s.state.Dataset()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"options": domain.FilterOptions(ds.Cases, ds.Actions),
		"_guidance": []string{
			"Pass site and turbine ids (not names) to 'set_filters'.",
		},
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
