package domain

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// DatePreset tags how a DateRange was chosen.
type DatePreset string

const (
	PresetLast7   DatePreset = "last7"
	PresetLast30  DatePreset = "last30"
	PresetLast90  DatePreset = "last90"
	PresetAllTime DatePreset = "allTime"
	PresetCustom  DatePreset = "custom"
)

var presetDays = map[DatePreset]int{
	PresetLast7:  7,
	PresetLast30: 30,
	PresetLast90: 90,
}

// DateRange is an inclusive interval on createdAt. It applies only when both bounds are set.
type DateRange struct {
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
	Preset DatePreset `json:"preset" validate:"required,oneof=last7 last30 last90 allTime custom"`
}

// Contains reports whether t lies within the range. A half-open range contains everything.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start == nil || r.End == nil {
		return true
	}
	return !t.Before(*r.Start) && !t.After(*r.End)
}

// DashboardFilters selects the subset of cases and actions the dashboard aggregates over.
// An empty inclusion set places no restriction on its dimension.
type DashboardFilters struct {
	DateRange    DateRange  `json:"dateRange"`
	Sites        []string   `json:"sites" validate:"dive,required"`
	Turbines     []string   `json:"turbines" validate:"dive,required"`
	Severities   []Severity `json:"severities" validate:"dive,oneof=Critical High Medium Low"`
	Priorities   []Priority `json:"priorities" validate:"dive,oneof=Critical High Medium Low P1 P2 P3 P4"`
	Statuses     []Status   `json:"statuses" validate:"dive,oneof=Open 'In Progress' Closed Blocked"`
	Components   []string   `json:"components" validate:"dive,required"`
	FailureModes []string   `json:"failureModes" validate:"dive,required"`

	OpenOnly         bool `json:"openOnly"`
	CriticalOnly     bool `json:"criticalOnly"`
	WithDeadlineOnly bool `json:"withDeadlineOnly"`
}

// DefaultFilters covers the last 30 days with no category restrictions.
func DefaultFilters(now time.Time) DashboardFilters {
	f := DashboardFilters{
		Sites:        []string{},
		Turbines:     []string{},
		Severities:   []Severity{},
		Priorities:   []Priority{},
		Statuses:     []Status{},
		Components:   []string{},
		FailureModes: []string{},
	}
	f.DateRange, _ = Preset(now, PresetLast30)
	return f
}

// Preset returns the date range for a named preset ending now. allTime yields an open
// range. Custom and unknown names report ok=false.
func Preset(now time.Time, name DatePreset) (DateRange, bool) {
	if name == PresetAllTime {
		return DateRange{Preset: PresetAllTime}, true
	}
	days, ok := presetDays[name]
	if !ok {
		return DateRange{}, false
	}
	start := now.AddDate(0, 0, -days)
	end := now
	return DateRange{Start: &start, End: &end, Preset: name}, true
}

// FilterCases keeps the cases matching every active case dimension, in input order.
func FilterCases(cases []Case, f DashboardFilters) []Case {
	res := make([]Case, 0, len(cases))
	for _, c := range cases {
		if f.matchCase(c) {
			res = append(res, c)
		}
	}
	return res
}

func (f DashboardFilters) matchCase(c Case) bool {
	if f.OpenOnly && !c.IsOpen {
		return false
	}
	if f.CriticalOnly && !c.IsCritical {
		return false
	}
	if !f.DateRange.Contains(c.CreatedAt) {
		return false
	}
	return allows(f.Sites, c.SiteID) &&
		allows(f.Turbines, c.TurbineID) &&
		allows(f.Severities, c.Severity) &&
		allows(f.Components, c.ComponentName) &&
		allows(f.FailureModes, c.FailureModeName)
}

// FilterActions keeps the actions matching the date range, statuses, priorities and the
// with-deadline toggle. Site and turbine selections reach actions through RestrictToCases.
func FilterActions(actions []Action, f DashboardFilters) []Action {
	res := make([]Action, 0, len(actions))
	for _, a := range actions {
		if f.matchAction(a) {
			res = append(res, a)
		}
	}
	return res
}

func (f DashboardFilters) matchAction(a Action) bool {
	if f.WithDeadlineOnly && a.Deadline == nil {
		return false
	}
	if !f.DateRange.Contains(a.CreatedAt) {
		return false
	}
	return allows(f.Statuses, a.Status) && allows(f.Priorities, a.Priority)
}

func allows[T comparable](set []T, v T) bool {
	return len(set) == 0 || slices.Contains(set, v)
}

// RestrictToCases keeps the actions whose case is in cases.
func RestrictToCases(actions []Action, cases []Case) []Action {
	idx := IndexCases(cases)
	res := make([]Action, 0, len(actions))
	for _, a := range actions {
		if idx.Has(a.CaseID) {
			res = append(res, a)
		}
	}
	return res
}

// IssueType is a lens separating condition-monitoring hardware faults from mechanical ones.
type IssueType string

const (
	IssueAll         IssueType = "all"
	IssueCMSHardware IssueType = "cms_hardware"
	IssueMechanical  IssueType = "mechanical"
)

var cmsComponents = []string{"CMS_DAQ_SYSTEM"}

var cmsFailureModes = []string{
	"BAD_CABLE",
	"BAD_MOUNTING",
	"BAD_SENSOR",
	"NO_COMMUNICATION",
	"NO_DATA",
	"SIGNAL_NOISE",
}

// IsCMSHardwareIssue reports whether a case concerns the monitoring hardware itself
// rather than the turbine.
func IsCMSHardwareIssue(c Case) bool {
	switch {
	case slices.Contains(cmsComponents, c.ComponentName):
		return true
	case strings.Contains(c.ComponentName, "ACCELEROMETER"):
		return true
	case strings.Contains(c.ComponentName, "SPEED_SENSOR"):
		return true
	}
	return slices.Contains(cmsFailureModes, c.FailureModeName)
}

// FilterByIssueType applies the issue lens. Unknown types behave like IssueAll.
func FilterByIssueType(cases []Case, t IssueType) []Case {
	if t != IssueCMSHardware && t != IssueMechanical {
		return cases
	}
	want := t == IssueCMSHardware
	res := make([]Case, 0, len(cases))
	for _, c := range cases {
		if IsCMSHardwareIssue(c) == want {
			res = append(res, c)
		}
	}
	return res
}

// Option is a selectable id with its display name.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Options lists the distinct values present in a dataset for each filter dimension.
type Options struct {
	Sites        []Option   `json:"sites"`
	Turbines     []Option   `json:"turbines"`
	Components   []string   `json:"components"`
	FailureModes []string   `json:"failureModes"`
	Severities   []Severity `json:"severities"`
	Statuses     []Status   `json:"statuses"`
	Priorities   []Priority `json:"priorities"`
}

// FilterOptions collects the filter choices offered for a dataset. Names come from the
// first case seen with each id.
func FilterOptions(cases []Case, actions []Action) Options {
	sites := map[string]string{}
	turbines := map[string]string{}
	components := map[string]bool{}
	modes := map[string]bool{}
	for _, c := range cases {
		if _, ok := sites[c.SiteID]; !ok {
			sites[c.SiteID] = nameOr(c.SiteName, c.SiteID)
		}
		if _, ok := turbines[c.TurbineID]; !ok {
			turbines[c.TurbineID] = nameOr(c.TurbineName, c.TurbineID)
		}
		components[c.ComponentName] = true
		modes[c.FailureModeName] = true
	}

	statuses := map[Status]bool{}
	priorities := map[Priority]bool{}
	for _, a := range actions {
		statuses[a.Status] = true
		priorities[a.Priority] = true
	}

	opts := Options{
		Sites:        toOptions(sites),
		Turbines:     toOptions(turbines),
		Components:   sortedKeys(components),
		FailureModes: sortedKeys(modes),
		Severities:   slices.Clone(Severities),
		Statuses:     []Status{},
		Priorities:   []Priority{},
	}
	for _, s := range Statuses {
		if statuses[s] {
			opts.Statuses = append(opts.Statuses, s)
		}
	}
	for _, p := range Priorities {
		if priorities[p] {
			opts.Priorities = append(opts.Priorities, p)
		}
	}
	return opts
}

func nameOr(name, id string) string {
	if name == "" {
		return id
	}
	return name
}

func toOptions(m map[string]string) []Option {
	res := make([]Option, 0, len(m))
	for id, name := range m {
		res = append(res, Option{ID: id, Name: name})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func sortedKeys(m map[string]bool) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
