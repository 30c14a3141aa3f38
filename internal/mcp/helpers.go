package mcp

import (
	"fmt"
	"strings"
	"time"

	"wfdash/internal/dashboard"
	"wfdash/internal/domain"
	"wfdash/internal/stats"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

func (s *Server) formatResult(data interface{}) string {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode tool result")
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(out)
}

func (s *Server) textResult(data interface{}) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: s.formatResult(data)}},
	}
}

// snapshot returns the filtered view at the current minute.
func (s *Server) snapshot() (*dashboard.Snapshot, error) {
	return s.state.Snapshot(s.now())
}

// viewInfo describes which slice of the dataset a result was computed on.
func viewInfo(snap *dashboard.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		"load_id":    snap.LoadID,
		"as_of":      snap.At,
		"date_range": snap.Filters.DateRange,
		"issue_type": snap.IssueType,
		"cases":      snap.CaseCount,
		"actions":    snap.ActionCount,
	}
}

func (s *Server) dataQuality() []string {
	v, err := s.state.Validation()
	if err != nil {
		return []string{}
	}
	return qualityWarnings(v)
}

// parseBound parses a filter date. A date without a time of day covers the whole day,
// so an end bound of "2024-06-30" includes cases created that afternoon.
func parseBound(raw string, end bool, loc *time.Location) (*time.Time, error) {
	t := domain.ParseDate(raw, loc)
	if t == nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", raw)
	}
	if end && len(strings.TrimSpace(raw)) == len(stats.DayLabelLayout) {
		eod := stats.EndOfDay(*t)
		return &eod, nil
	}
	return t, nil
}

// qualityWarnings turns validation findings into short warnings attached to analytic results.
func qualityWarnings(v domain.ValidationResult) []string {
	warnings := []string{}
	warnings = append(warnings, v.Errors...)
	if n := len(v.OrphanedActions); n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d actions reference a case that is not in the dataset; they appear only in the relationship view.", n))
	}
	return warnings
}

func fromStrings[T ~string](vals []string) []T {
	res := make([]T, len(vals))
	for i, v := range vals {
		res[i] = T(v)
	}
	return res
}
