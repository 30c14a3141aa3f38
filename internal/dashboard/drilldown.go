package dashboard

import (
	"errors"
	"fmt"

	"wfdash/internal/domain"
	"wfdash/internal/stats"
)

// View names a drilldown level.
type View string

const (
	ViewFleet   View = "fleet"
	ViewSite    View = "site"
	ViewTurbine View = "turbine"
	ViewCase    View = "case"
	ViewAction  View = "action"
)

// ErrNotFound is returned when a drilldown id matches nothing in the filtered view.
var ErrNotFound = errors.New("not found in the current view")

// Drilldown is the detail for one selected entity. Actions are ordered as a triage queue.
type Drilldown struct {
	View    View            `json:"view"`
	ID      string          `json:"id,omitempty"`
	Title   string          `json:"title"`
	Cases   []domain.Case   `json:"cases"`
	Actions []domain.Action `json:"actions"`
	Site    *stats.SiteKPI  `json:"site,omitempty"`
}

// Drill narrows a snapshot to one fleet, site, turbine, case or action.
func Drill(snap *Snapshot, view View, id string) (*Drilldown, error) {
	if view != ViewFleet && id == "" {
		return nil, fmt.Errorf("%s drilldown needs an id", view)
	}

	var (
		cases []domain.Case
		title string
	)
	switch view {
	case ViewFleet:
		cases, title = snap.Cases, "Fleet"
	case ViewSite:
		cases = casesWhere(snap.Cases, func(c domain.Case) bool { return c.SiteID == id })
		if len(cases) > 0 {
			title = "Site " + nameOr(cases[0].SiteName, id)
		}
	case ViewTurbine:
		cases = casesWhere(snap.Cases, func(c domain.Case) bool { return c.TurbineID == id })
		if len(cases) > 0 {
			title = "Turbine " + nameOr(cases[0].TurbineName, id)
		}
	case ViewCase:
		cases = casesWhere(snap.Cases, func(c domain.Case) bool { return c.ID == id })
		title = "Case " + id
	case ViewAction:
		return drillAction(snap, id)
	default:
		return nil, fmt.Errorf("unknown drilldown view %q", view)
	}
	if len(cases) == 0 && view != ViewFleet {
		return nil, fmt.Errorf("%s %q: %w", view, id, ErrNotFound)
	}

	d := &Drilldown{
		View:    view,
		ID:      id,
		Title:   title,
		Cases:   cases,
		Actions: stats.SortActionQueue(domain.RestrictToCases(snap.Actions, cases)),
	}
	if view == ViewSite {
		for i := range snap.Sites {
			if snap.Sites[i].SiteID == id {
				site := snap.Sites[i]
				d.Site = &site
				break
			}
		}
	}
	return d, nil
}

// drillAction opens the parent case of an action, the action listed first.
func drillAction(snap *Snapshot, id string) (*Drilldown, error) {
	for _, a := range snap.Actions {
		if a.ActionID != id {
			continue
		}
		cases := casesWhere(snap.Cases, func(c domain.Case) bool { return c.ID == a.CaseID })
		actions := []domain.Action{a}
		for _, other := range stats.SortActionQueue(domain.RestrictToCases(snap.Actions, cases)) {
			if other.ActionID != id {
				actions = append(actions, other)
			}
		}
		return &Drilldown{
			View:    ViewAction,
			ID:      id,
			Title:   "Action " + id,
			Cases:   cases,
			Actions: actions,
		}, nil
	}
	return nil, fmt.Errorf("action %q: %w", id, ErrNotFound)
}

func casesWhere(cases []domain.Case, keep func(domain.Case) bool) []domain.Case {
	res := []domain.Case{}
	for _, c := range cases {
		if keep(c) {
			res = append(res, c)
		}
	}
	return res
}

func nameOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
