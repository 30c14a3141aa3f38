package domain

// Severities lists the canonical severities in display order.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Statuses lists the canonical action statuses in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed, StatusBlocked}

// Priorities lists every accepted priority value, word notation first.
var Priorities = []Priority{
	PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow,
	PriorityP1, PriorityP2, PriorityP3, PriorityP4,
}

// SeverityOrder ranks severities for sorting (1 = most urgent).
var SeverityOrder = map[Severity]int{
	SeverityCritical: 1,
	SeverityHigh:     2,
	SeverityMedium:   3,
	SeverityLow:      4,
}

// StatusOrder ranks statuses for sorting (1 = needs attention first).
var StatusOrder = map[Status]int{
	StatusBlocked:    1,
	StatusInProgress: 2,
	StatusOpen:       3,
	StatusClosed:     4,
}

// priorityBands is the bijection between the two priority notations.
// Each entry maps a priority to its rank and its word-notation band.
var priorityBands = map[Priority]struct {
	rank int
	band Priority
}{
	PriorityCritical: {1, PriorityCritical},
	PriorityP1:       {1, PriorityCritical},
	PriorityHigh:     {2, PriorityHigh},
	PriorityP2:       {2, PriorityHigh},
	PriorityMedium:   {3, PriorityMedium},
	PriorityP3:       {3, PriorityMedium},
	PriorityLow:      {4, PriorityLow},
	PriorityP4:       {4, PriorityLow},
}

// PriorityRank returns 1 (most urgent) to 4. Unknown values rank as Low.
func PriorityRank(p Priority) int {
	if b, ok := priorityBands[p]; ok {
		return b.rank
	}
	return 4
}

// PriorityBand returns the word-notation band of p, so P1 and Critical group together.
func PriorityBand(p Priority) Priority {
	if b, ok := priorityBands[p]; ok {
		return b.band
	}
	return PriorityLow
}

// PriorityBands lists the word-notation bands in rank order.
var PriorityBands = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}
