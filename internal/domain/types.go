package domain

import (
	"time"
)

// Severity is the urgency classification of a case.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Status is the lifecycle state of an action.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
	StatusBlocked    Status = "Blocked"
)

// Priority is the urgency of an action. Both the word notation and the P-notation are
// valid values and are kept as given; PriorityBand maps one onto the other for grouping.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
	PriorityP1       Priority = "P1"
	PriorityP2       Priority = "P2"
	PriorityP3       Priority = "P3"
	PriorityP4       Priority = "P4"
)

// Case is a maintenance case tied to one turbine.
type Case struct {
	ID              string   `json:"id"`
	SiteID          string   `json:"siteId"`
	SiteName        string   `json:"siteName"`
	TurbineID       string   `json:"turbineId"`
	TurbineName     string   `json:"turbineName"`
	TurbineMake     string   `json:"turbineMake"`
	ComponentID     string   `json:"componentId"`
	ComponentName   string   `json:"componentName"`
	FailureModeID   string   `json:"failureModeId"`
	FailureModeName string   `json:"failureModeName"`
	Severity        Severity `json:"severity"`

	CreatedAt   time.Time  `json:"createdAt"`
	InspectedAt *time.Time `json:"inspectedAt"`
	ConfirmedAt *time.Time `json:"confirmedAt"`
	ClosedAt    *time.Time `json:"closedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Derived
	IsOpen     bool     `json:"isOpen"`
	AgeDays    int      `json:"ageDays"`
	D2I        *float64 `json:"d2i"`     // created -> inspected, hours
	I2C        *float64 `json:"i2c"`     // inspected -> confirmed, hours
	C2Close    *float64 `json:"c2close"` // confirmed -> closed, hours
	IsCritical bool     `json:"isCritical"`

	// Set by JoinSiteLocations
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	NoGeo     bool     `json:"noGeo"`
}

// Action is a corrective work item linked to a case by CaseID.
type Action struct {
	ActionID        string     `json:"actionId"`
	CaseID          string     `json:"caseId"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Deadline        *time.Time `json:"deadline"`
	Priority        Priority   `json:"priority"`
	PriorityChanged bool       `json:"priorityChanged"`
	Status          Status     `json:"status"`
	Activity        string     `json:"activity"`
	Details         string     `json:"details"`

	// Derived
	IsOverdue bool  `json:"isOverdue"`
	MetSLA    *bool `json:"metSLA"`
	AgeDays   int   `json:"ageDays"`

	// Copied from the parent case by EnrichActions; empty for orphaned actions.
	SiteName    string    `json:"siteName,omitempty"`
	TurbineName string    `json:"turbineName,omitempty"`
	Severity    *Severity `json:"severity,omitempty"`
}

// SiteLocation is a geolocated wind-farm site.
type SiteLocation struct {
	SiteID    string  `json:"siteId"`
	SiteName  string  `json:"siteName"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ValidationResult annotates a loaded dataset. It never removes data.
type ValidationResult struct {
	Valid           bool     `json:"valid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	OrphanedActions []Action `json:"orphanedActions"`
}
