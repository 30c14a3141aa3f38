package domain

import (
	"strings"
	"time"
)

// CleanField trims s. Empty and whitespace-only values report ok=false.
func CleanField(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// Layouts tried in order by ParseDate. Fractional seconds are accepted by the parser
// after any seconds field. Zone-less layouts are read in the caller's location.
var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 timestamp. Invalid or empty input returns nil.
func ParseDate(s string, loc *time.Location) *time.Time {
	cleaned, ok := CleanField(s)
	if !ok {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return &t
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return &t
		}
	}
	return nil
}

// NormalizeSeverity maps free text onto a severity. The check order resolves
// ambiguous inputs: crit, then high/p1, then med/p2, then low/p3/p4.
func NormalizeSeverity(value string) Severity {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if cleaned == "" {
		return SeverityLow
	}

	switch {
	case strings.Contains(cleaned, "crit"):
		return SeverityCritical
	case strings.Contains(cleaned, "high") || cleaned == "p1":
		return SeverityHigh
	case strings.Contains(cleaned, "med") || cleaned == "p2":
		return SeverityMedium
	case strings.Contains(cleaned, "low") || cleaned == "p3" || cleaned == "p4":
		return SeverityLow
	}
	return SeverityLow
}

// NormalizeStatus maps free text onto an action status. Default Open.
func NormalizeStatus(value string) Status {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if cleaned == "" {
		return StatusOpen
	}

	switch {
	case strings.Contains(cleaned, "clos") || cleaned == "done" || cleaned == "complete":
		return StatusClosed
	case strings.Contains(cleaned, "progress") || cleaned == "in-progress" || cleaned == "inprogress":
		return StatusInProgress
	case strings.Contains(cleaned, "block"):
		return StatusBlocked
	case strings.Contains(cleaned, "open") || cleaned == "new" || cleaned == "pending":
		return StatusOpen
	}
	return StatusOpen
}

// NormalizePriority keeps P-notation when the value is exactly p1..p4, otherwise falls
// back to word notation. Default Low.
func NormalizePriority(value string) Priority {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if cleaned == "" {
		return PriorityLow
	}

	switch cleaned {
	case "p1":
		return PriorityP1
	case "p2":
		return PriorityP2
	case "p3":
		return PriorityP3
	case "p4":
		return PriorityP4
	}

	switch {
	case strings.Contains(cleaned, "crit"):
		return PriorityCritical
	case strings.Contains(cleaned, "high"):
		return PriorityHigh
	case strings.Contains(cleaned, "med"):
		return PriorityMedium
	case strings.Contains(cleaned, "low"):
		return PriorityLow
	}
	return PriorityLow
}

// NormalizeBool coerces a cell value to a boolean. Numbers are true when non-zero,
// strings when they read true/1/yes. Anything else is false.
func NormalizeBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int8:
		return v != 0
	case int16:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case uint:
		return v != 0
	case uint8:
		return v != 0
	case uint16:
		return v != 0
	case uint32:
		return v != 0
	case uint64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true
		}
	}
	return false
}
