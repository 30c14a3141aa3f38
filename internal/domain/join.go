package domain

import "fmt"

// CaseIndex maps case identifiers to their position in the case slice it was built from.
type CaseIndex map[string]int

// IndexCases builds a CaseIndex. On duplicate ids the first case wins.
func IndexCases(cases []Case) CaseIndex {
	idx := make(CaseIndex, len(cases))
	for i, c := range cases {
		if _, ok := idx[c.ID]; !ok {
			idx[c.ID] = i
		}
	}
	return idx
}

// Has reports whether caseID names a loaded case.
func (idx CaseIndex) Has(caseID string) bool {
	_, ok := idx[caseID]
	return ok
}

// IsOrphaned reports whether a references no loaded case.
func (idx CaseIndex) IsOrphaned(a Action) bool {
	return !idx.Has(a.CaseID)
}

// OrphanedActions returns the actions whose case id matches no case, in input order.
func OrphanedActions(actions []Action, idx CaseIndex) []Action {
	var res []Action
	for _, a := range actions {
		if idx.IsOrphaned(a) {
			res = append(res, a)
		}
	}
	return res
}

// JoinSiteLocations copies site coordinates onto matching cases and clears NoGeo.
// Cases without a site record keep nil coordinates. The input slice is not modified.
func JoinSiteLocations(cases []Case, sites []SiteLocation) []Case {
	byID := make(map[string]SiteLocation, len(sites))
	for _, s := range sites {
		byID[s.SiteID] = s
	}

	res := make([]Case, len(cases))
	for i, c := range cases {
		if s, ok := byID[c.SiteID]; ok {
			lat, lon := s.Latitude, s.Longitude
			c.Latitude = &lat
			c.Longitude = &lon
			c.NoGeo = false
		}
		res[i] = c
	}
	return res
}

// EnrichActions denormalizes site name, turbine name and severity from each action's case.
// Orphaned actions are returned unchanged.
func EnrichActions(actions []Action, cases []Case) []Action {
	idx := IndexCases(cases)

	res := make([]Action, len(actions))
	for i, a := range actions {
		if pos, ok := idx[a.CaseID]; ok {
			parent := cases[pos]
			sev := parent.Severity
			a.SiteName = parent.SiteName
			a.TurbineName = parent.TurbineName
			a.Severity = &sev
		}
		res[i] = a
	}
	return res
}

// ValidateData annotates a dataset with data-quality findings. Nothing is discarded.
func ValidateData(cases []Case, actions []Action) ValidationResult {
	res := ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	if len(cases) == 0 {
		res.Errors = append(res.Errors, "No cases loaded")
	}
	if len(actions) == 0 {
		res.Warnings = append(res.Warnings, "No actions loaded")
	}

	res.OrphanedActions = OrphanedActions(actions, IndexCases(cases))
	if n := len(res.OrphanedActions); n > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d orphaned actions found (no matching case)", n))
	}
	if res.OrphanedActions == nil {
		res.OrphanedActions = []Action{}
	}

	noGeo := 0
	for _, c := range cases {
		if c.NoGeo {
			noGeo++
		}
	}
	if noGeo > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d cases have no geolocation data", noGeo))
	}

	res.Valid = len(res.Errors) == 0
	return res
}
