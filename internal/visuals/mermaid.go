package visuals

import (
	"fmt"
	"math"
	"strings"

	"wfdash/internal/scoring"
	"wfdash/internal/stats"
)

// maxPoints is where Mermaid's xychart labels start to overlap.
const maxPoints = 60

// subsample returns the indexes to plot for a series of n points, always keeping the last.
func subsample(n int) []int {
	rate := 1
	if n > maxPoints {
		rate = int(math.Ceil(float64(n) / maxPoints))
	}
	var idx []int
	for i := 0; i < n; i++ {
		if i%rate == 0 || i == n-1 {
			idx = append(idx, i)
		}
	}
	return idx
}

// dayLabel shortens a YYYY-MM-DD label to MM-DD.
func dayLabel(date string) string {
	if len(date) == len("2006-01-02") {
		date = date[5:]
	}
	return fmt.Sprintf("\"%s\"", date)
}

func yMax(v float64) int {
	return int(math.Max(1, math.Ceil(v*1.2)))
}

func join(vals []string) string { return strings.Join(vals, ", ") }

// GenerateBacklogChart creates a Mermaid xychart of the open-case backlog with daily
// creations and closures as bars.
func GenerateBacklogChart(points []stats.BacklogPoint) string {
	if len(points) == 0 {
		return ""
	}

	var labels, backlog, created, closed []string
	maxY := 0
	for _, i := range subsample(len(points)) {
		p := points[i]
		labels = append(labels, dayLabel(p.Date))
		backlog = append(backlog, fmt.Sprintf("%d", p.NetBacklog))
		created = append(created, fmt.Sprintf("%d", p.Created))
		closed = append(closed, fmt.Sprintf("%d", p.Closed))
		maxY = max(maxY, p.NetBacklog, p.Created, p.Closed)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Case Backlog Growth\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", join(labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Cases\" 0 --> %d\n", yMax(float64(maxY))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", join(created)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", join(closed)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", join(backlog)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateActionBacklogChart plots the open-action count per day.
func GenerateActionBacklogChart(points []stats.ActionBacklogPoint) string {
	if len(points) == 0 {
		return ""
	}

	var labels, open []string
	maxY := 0
	for _, i := range subsample(len(points)) {
		p := points[i]
		labels = append(labels, dayLabel(p.Date))
		open = append(open, fmt.Sprintf("%d", p.OpenActions))
		maxY = max(maxY, p.OpenActions)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Open Actions\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", join(labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Actions\" 0 --> %d\n", yMax(float64(maxY))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", join(open)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCaseTrendChart draws one line per severity, Critical first.
func GenerateCaseTrendChart(points []stats.CaseTrendPoint) string {
	if len(points) == 0 {
		return ""
	}

	var labels []string
	series := make([][]string, 4)
	maxY := 0
	for _, i := range subsample(len(points)) {
		p := points[i]
		labels = append(labels, dayLabel(p.Date))
		for j, n := range []int{p.Critical, p.High, p.Medium, p.Low} {
			series[j] = append(series[j], fmt.Sprintf("%d", n))
			maxY = max(maxY, n)
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"New Cases by Severity\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", join(labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Cases\" 0 --> %d\n", yMax(float64(maxY))))
	for _, s := range series {
		sb.WriteString(fmt.Sprintf("    line [%s]\n", join(s)))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateSharePie creates a Mermaid pie chart. Zero slices are left out.
func GenerateSharePie(title string, shares []stats.Share) string {
	total := 0
	for _, s := range shares {
		total += s.Value
	}
	if total == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("pie title %s\n", title))
	for _, s := range shares {
		if s.Value == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", s.Name, s.Value))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateBucketChart creates a Mermaid bar chart over labelled buckets, such as action
// aging or resolution velocity.
func GenerateBucketChart(title, yLabel string, buckets []stats.Bucket) string {
	if len(buckets) == 0 {
		return ""
	}

	var labels, values []string
	maxY := 0
	for _, b := range buckets {
		labels = append(labels, fmt.Sprintf("\"%s\"", b.Label))
		values = append(values, fmt.Sprintf("%d", b.Count))
		maxY = max(maxY, b.Count)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", join(labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"%s\" 0 --> %d\n", yLabel, yMax(float64(maxY))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", join(values)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateHealthChart creates a bar chart of site health scores on a fixed 0-100 axis.
func GenerateHealthChart(sites []scoring.SiteHealth) string {
	if len(sites) == 0 {
		return ""
	}

	var labels, values []string
	for _, s := range sites {
		name := s.SiteName
		if name == "" {
			name = s.SiteID
		}
		// Mermaid breaks on quotes inside labels
		labels = append(labels, fmt.Sprintf("\"%s\"", strings.ReplaceAll(name, "\"", "'")))
		values = append(values, fmt.Sprintf("%d", s.HealthScore))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Site Health (Worst First)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", join(labels)))
	sb.WriteString("    y-axis \"Health Score\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", join(values)))
	sb.WriteString("```")
	return sb.String()
}
