package domain

import (
	"strconv"
	"time"
)

// Row is one CSV record keyed by canonical field name.
type Row map[string]string

// Get returns the cleaned value of field. Missing or blank cells report ok=false.
func (r Row) Get(field string) (string, bool) {
	raw, ok := r[field]
	if !ok {
		return "", false
	}
	return CleanField(raw)
}

// String returns the cleaned value of the first present field, or "".
func (r Row) String(fields ...string) string {
	for _, f := range fields {
		if v, ok := r.Get(f); ok {
			return v
		}
	}
	return ""
}

// BuildCase constructs a Case from a normalized row. Zone-less dates are read in now's
// location. A missing createdAt or updatedAt falls back to now.
func BuildCase(row Row, now time.Time) Case {
	loc := now.Location()

	// 1. Scalars
	c := Case{
		ID:              row.String("id", "caseId"),
		SiteID:          row.String("siteId"),
		SiteName:        row.String("siteName"),
		TurbineID:       row.String("turbineId"),
		TurbineName:     row.String("turbineName"),
		TurbineMake:     row.String("turbineMake"),
		ComponentID:     row.String("componentId"),
		ComponentName:   row.String("componentName"),
		FailureModeID:   row.String("failureModeId"),
		FailureModeName: row.String("failureModeName"),
		Severity:        NormalizeSeverity(row["severity"]),
		CreatedAt:       dateOr(row["createdAt"], loc, now),
		InspectedAt:     ParseDate(row["inspectedAt"], loc),
		ConfirmedAt:     ParseDate(row["confirmedAt"], loc),
		ClosedAt:        ParseDate(row["closedAt"], loc),
		UpdatedAt:       dateOr(row["updatedAt"], loc, now),
	}

	// 2. Open state and age
	c.IsOpen = c.ClosedAt == nil
	c.AgeDays = DaysBetween(c.CreatedAt, now)

	// 3. Lifecycle gaps, each independent
	c.D2I = HoursBetween(&c.CreatedAt, c.InspectedAt)
	c.I2C = HoursBetween(c.InspectedAt, c.ConfirmedAt)
	c.C2Close = HoursBetween(c.ConfirmedAt, c.ClosedAt)

	// 4. Criticality
	c.IsCritical = c.Severity == SeverityCritical

	// 5. Geolocation pending JoinSiteLocations
	c.NoGeo = true
	return c
}

// BuildAction constructs an Action from a normalized row.
func BuildAction(row Row, now time.Time) Action {
	loc := now.Location()

	a := Action{
		ActionID:        row.String("actionId", "id"),
		CaseID:          row.String("caseId"),
		CreatedAt:       dateOr(row["createdAt"], loc, now),
		UpdatedAt:       dateOr(row["updatedAt"], loc, now),
		Deadline:        ParseDate(row["deadline"], loc),
		Priority:        NormalizePriority(row["priority"]),
		PriorityChanged: NormalizeBool(row["priorityChanged"]),
		Status:          NormalizeStatus(row["status"]),
		Activity:        row.String("activity"),
		Details:         row.String("details"),
	}

	a.AgeDays = DaysBetween(a.CreatedAt, now)

	// A closed action is never overdue, even past its deadline.
	a.IsOverdue = a.Deadline != nil && a.Status != StatusClosed && now.After(*a.Deadline)

	// SLA is only defined for closed actions that carry a deadline.
	if a.Deadline != nil && a.Status == StatusClosed {
		met := !a.UpdatedAt.After(*a.Deadline)
		a.MetSLA = &met
	}
	return a
}

// BuildSite constructs a SiteLocation. Unparseable coordinates become 0.
func BuildSite(row Row) SiteLocation {
	return SiteLocation{
		SiteID:    row.String("siteId"),
		SiteName:  row.String("siteName"),
		Latitude:  parseFloat(row.String("latitude")),
		Longitude: parseFloat(row.String("longitude")),
	}
}

// DaysBetween returns the whole days elapsed from start to now, never negative.
func DaysBetween(start, now time.Time) int {
	days := int(now.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// HoursBetween returns the whole hours from start to end, truncated toward zero.
// The sign is kept so out-of-order timestamps stay visible. Nil if either end is missing.
func HoursBetween(start, end *time.Time) *float64 {
	if start == nil || end == nil {
		return nil
	}
	h := float64(int64(end.Sub(*start).Hours()))
	return &h
}

func dateOr(raw string, loc *time.Location, fallback time.Time) time.Time {
	if t := ParseDate(raw, loc); t != nil {
		return *t
	}
	return fallback
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
