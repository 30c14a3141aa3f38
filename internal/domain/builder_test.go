package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestBuildCase_Lifecycle(t *testing.T) {
	row := Row{
		"id":          "C1",
		"siteId":      "S1",
		"siteName":    "North",
		"turbineId":   "T1",
		"severity":    "critical",
		"createdAt":   "2024-06-01T00:00:00Z",
		"inspectedAt": "2024-06-01T10:30:00Z",
		"confirmedAt": "2024-06-01T08:00:00Z",
		"updatedAt":   "2024-06-02T00:00:00Z",
	}

	c := BuildCase(row, now)

	assert.Equal(t, "C1", c.ID)
	assert.True(t, c.IsOpen)
	assert.True(t, c.IsCritical)
	assert.Equal(t, 14, c.AgeDays)
	assert.True(t, c.NoGeo)
	assert.Nil(t, c.Latitude)

	require.NotNil(t, c.D2I)
	assert.Equal(t, 10.0, *c.D2I)
	// Out-of-order timestamps keep their sign.
	require.NotNil(t, c.I2C)
	assert.Equal(t, -2.0, *c.I2C)
	assert.Nil(t, c.C2Close)
}

func TestBuildCase_Defaults(t *testing.T) {
	c := BuildCase(Row{"caseId": "C9", "createdAt": "garbage", "closedAt": "2024-06-10"}, now)

	assert.Equal(t, "C9", c.ID)
	assert.True(t, now.Equal(c.CreatedAt))
	assert.True(t, now.Equal(c.UpdatedAt))
	assert.Equal(t, 0, c.AgeDays)
	assert.False(t, c.IsOpen)
	assert.Equal(t, SeverityLow, c.Severity)
	assert.Nil(t, c.D2I)
}

func TestBuildCase_FutureCreatedClampsAge(t *testing.T) {
	c := BuildCase(Row{"id": "C1", "createdAt": "2024-07-01T00:00:00Z"}, now)
	assert.Equal(t, 0, c.AgeDays)
}

func TestBuildCase_OpenIffNotClosed(t *testing.T) {
	rows := []Row{
		{"id": "a"},
		{"id": "b", "closedAt": "2024-06-01"},
		{"id": "c", "closedAt": "  "},
		{"id": "d", "closedAt": "nope"},
	}
	for _, r := range rows {
		c := BuildCase(r, now)
		if (c.ClosedAt != nil) == c.IsOpen {
			t.Errorf("case %s: closedAt=%v isOpen=%v", c.ID, c.ClosedAt, c.IsOpen)
		}
	}
}

func TestBuildAction_OverdueAndSLA(t *testing.T) {
	tests := []struct {
		name        string
		row         Row
		wantOverdue bool
		wantSLA     *bool
	}{
		{
			name:        "open past deadline",
			row:         Row{"actionId": "A1", "status": "open", "deadline": "2024-06-10T00:00:00Z"},
			wantOverdue: true,
		},
		{
			name: "closed past deadline is never overdue",
			row: Row{"actionId": "A2", "status": "closed", "deadline": "2024-06-10T00:00:00Z",
				"updatedAt": "2024-06-12T00:00:00Z"},
			wantSLA: ptr(false),
		},
		{
			name: "closed on time",
			row: Row{"actionId": "A3", "status": "done", "deadline": "2024-06-10T00:00:00Z",
				"updatedAt": "2024-06-10T00:00:00Z"},
			wantSLA: ptr(true),
		},
		{
			name: "closed without deadline",
			row:  Row{"actionId": "A4", "status": "closed"},
		},
		{
			name: "open before deadline",
			row:  Row{"actionId": "A5", "status": "in progress", "deadline": "2024-06-20T00:00:00Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := BuildAction(tt.row, now)
			assert.Equal(t, tt.wantOverdue, a.IsOverdue)
			assert.Equal(t, tt.wantSLA, a.MetSLA)

			if a.MetSLA != nil {
				assert.NotNil(t, a.Deadline)
				assert.Equal(t, StatusClosed, a.Status)
			}
			if a.IsOverdue {
				assert.NotNil(t, a.Deadline)
				assert.NotEqual(t, StatusClosed, a.Status)
				assert.True(t, now.After(*a.Deadline))
			}
		})
	}
}

func TestBuildAction_Fields(t *testing.T) {
	a := BuildAction(Row{
		"id":              "A7",
		"caseId":          " C1 ",
		"priority":        "P2",
		"priorityChanged": "Yes",
		"createdAt":       "2024-06-05T12:00:00Z",
		"activity":        "Replace sensor",
	}, now)

	assert.Equal(t, "A7", a.ActionID)
	assert.Equal(t, "C1", a.CaseID)
	assert.Equal(t, PriorityP2, a.Priority)
	assert.True(t, a.PriorityChanged)
	assert.Equal(t, StatusOpen, a.Status)
	assert.Equal(t, 10, a.AgeDays)
	assert.Equal(t, "Replace sensor", a.Activity)
}

func TestBuildSite(t *testing.T) {
	s := BuildSite(Row{"siteId": "S1", "siteName": "North", "latitude": "54.5", "longitude": "x"})
	assert.Equal(t, SiteLocation{SiteID: "S1", SiteName: "North", Latitude: 54.5}, s)
}
