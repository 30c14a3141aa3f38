package engine

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"wfdash/internal/ingest"
)

type GeneratorConfig struct {
	Sites           int
	TurbinesPerSite int
	Cases           int
	Orphans         int // actions pointing at a case that does not exist
	HistoryDays     int
	Seed            int64
	Now             time.Time
}

type Site struct {
	ID        string
	Name      string
	Make      string
	Latitude  float64
	Longitude float64
	Turbines  []string
}

type Case struct {
	ID              string
	SiteID          string
	SiteName        string
	TurbineID       string
	TurbineName     string
	TurbineMake     string
	ComponentName   string
	FailureModeName string
	Severity        string
	CreatedAt       time.Time
	InspectedAt     *time.Time
	ConfirmedAt     *time.Time
	ClosedAt        *time.Time
	UpdatedAt       time.Time
}

type Action struct {
	ActionID        string
	CaseID          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Deadline        *time.Time
	Priority        string
	PriorityChanged bool
	Status          string
	Activity        string
	Details         string
}

type Dataset struct {
	Sites   []Site
	Cases   []Case
	Actions []Action
}

var (
	makes      = []string{"Vestas", "Siemens Gamesa", "GE", "Nordex", "Enercon"}
	siteNames  = []string{"North Sea", "Baltic", "Highland", "Meseta", "Prairie", "Outback", "Fjord", "Atlas"}
	mechanical = map[string][]string{
		"GEARBOX":      {"WEAR", "PITTING", "OVERHEATING"},
		"MAIN_BEARING": {"WEAR", "SPALLING"},
		"GENERATOR":    {"IMBALANCE", "OVERHEATING", "MISALIGNMENT"},
		"BLADE":        {"CRACK", "EROSION", "IMBALANCE"},
		"YAW_SYSTEM":   {"MISALIGNMENT", "WEAR"},
	}
	monitoring = map[string][]string{
		"CMS_DAQ_SYSTEM":  {"NO_DATA", "NO_COMMUNICATION"},
		"ACCELEROMETER_1": {"BAD_SENSOR", "BAD_CABLE", "BAD_MOUNTING"},
		"SPEED_SENSOR":    {"SIGNAL_NOISE", "BAD_SENSOR"},
	}
	activities = []string{"Inspect", "Replace part", "Re-torque", "Lubricate", "Recalibrate", "Order spares"}
)

// Weighted draws: cumulative probabilities.
var (
	severityCDF = []struct {
		p float64
		v string
	}{{0.10, "Critical"}, {0.35, "High"}, {0.70, "Medium"}, {1, "Low"}}
	actionCountCDF = []struct {
		p float64
		v int
	}{{0.15, 0}, {0.55, 1}, {0.75, 2}, {0.87, 3}, {0.95, 4}, {1, 6}}
)

func Generate(cfg GeneratorConfig) Dataset {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.TurbinesPerSite <= 0 {
		cfg.TurbinesPerSite = 12
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = 180
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	now := cfg.Now.UTC().Truncate(time.Second)

	ds := Dataset{Sites: make([]Site, 0, cfg.Sites)}

	// 1. Sites and turbines
	for i := 0; i < cfg.Sites; i++ {
		site := Site{
			ID:        fmt.Sprintf("SITE-%02d", i+1),
			Name:      fmt.Sprintf("%s %d", siteNames[i%len(siteNames)], i/len(siteNames)+1),
			Make:      makes[rng.Intn(len(makes))],
			Latitude:  round(35+rng.Float64()*30, 4),
			Longitude: round(-10+rng.Float64()*40, 4),
		}
		for t := 0; t < cfg.TurbinesPerSite; t++ {
			site.Turbines = append(site.Turbines, fmt.Sprintf("%s-WTG%02d", site.ID, t+1))
		}
		ds.Sites = append(ds.Sites, site)
	}
	if len(ds.Sites) == 0 {
		return ds
	}

	// 2. Cases with a partial lifecycle
	for i := 0; i < cfg.Cases; i++ {
		site := ds.Sites[rng.Intn(len(ds.Sites))]
		turbine := site.Turbines[rng.Intn(len(site.Turbines))]
		component, mode := pickComponent(rng)

		created := now.Add(-time.Duration(rng.Float64()*float64(cfg.HistoryDays)*24) * time.Hour)
		c := Case{
			ID:              fmt.Sprintf("CASE-%05d", i+1),
			SiteID:          site.ID,
			SiteName:        site.Name,
			TurbineID:       turbine,
			TurbineName:     turbine[len(site.ID)+1:],
			TurbineMake:     site.Make,
			ComponentName:   component,
			FailureModeName: mode,
			Severity:        pickSeverity(rng),
			CreatedAt:       created,
			UpdatedAt:       created,
		}
		c.InspectedAt = step(rng, &created, 0.85, 1, 72, now)
		if c.InspectedAt != nil {
			c.ConfirmedAt = step(rng, c.InspectedAt, 0.7, 1, 120, now)
		}
		if c.ConfirmedAt != nil {
			c.ClosedAt = step(rng, c.ConfirmedAt, 0.6, 24, 30*24, now)
		}
		for _, t := range []*time.Time{c.InspectedAt, c.ConfirmedAt, c.ClosedAt} {
			if t != nil && t.After(c.UpdatedAt) {
				c.UpdatedAt = *t
			}
		}
		ds.Cases = append(ds.Cases, c)

		// 3. Actions following the case
		n := pickActionCount(rng)
		for j := 0; j < n; j++ {
			ds.Actions = append(ds.Actions, newAction(rng, fmt.Sprintf("ACT-%05d-%d", i+1, j+1), c, now))
		}
	}

	// 4. Orphans
	for i := 0; i < cfg.Orphans; i++ {
		ghost := Case{ID: fmt.Sprintf("CASE-MISSING-%d", i+1), CreatedAt: now.AddDate(0, 0, -rng.Intn(cfg.HistoryDays))}
		ds.Actions = append(ds.Actions, newAction(rng, fmt.Sprintf("ACT-ORPHAN-%d", i+1), ghost, now))
	}

	return ds
}

func newAction(rng *rand.Rand, id string, c Case, now time.Time) Action {
	created := minTime(c.CreatedAt.Add(time.Duration(rng.Intn(96))*time.Hour), now)
	a := Action{
		ActionID:        id,
		CaseID:          c.ID,
		CreatedAt:       created,
		UpdatedAt:       created,
		Priority:        pickPriority(rng),
		PriorityChanged: rng.Float64() < 0.15,
		Activity:        activities[rng.Intn(len(activities))],
	}
	if rng.Float64() < 0.8 {
		d := created.Add(time.Duration(3+rng.Intn(28)) * 24 * time.Hour)
		a.Deadline = &d
	}

	switch {
	case c.ClosedAt != nil && rng.Float64() < 0.9:
		a.Status = "Closed"
	default:
		a.Status = []string{"Open", "In Progress", "Blocked", "Closed"}[rng.Intn(4)]
	}
	a.UpdatedAt = minTime(created.Add(time.Duration(rng.Intn(40*24))*time.Hour), now)
	if a.PriorityChanged {
		a.Details = "Priority raised after inspection"
	}
	return a
}

// step returns from+[minH, maxH) hours with probability p, or nil when the draw misses
// or lands after now.
func step(rng *rand.Rand, from *time.Time, p float64, minH, maxH int, now time.Time) *time.Time {
	if rng.Float64() >= p {
		return nil
	}
	t := from.Add(time.Duration(minH+rng.Intn(maxH-minH)) * time.Hour)
	if t.After(now) {
		return nil
	}
	return &t
}

func pickComponent(rng *rand.Rand) (string, string) {
	pool := mechanical
	if rng.Float64() < 0.3 {
		pool = monitoring
	}
	keys := sortedKeys(pool)
	component := keys[rng.Intn(len(keys))]
	modes := pool[component]
	return component, modes[rng.Intn(len(modes))]
}

func pickSeverity(rng *rand.Rand) string {
	u := rng.Float64()
	for _, e := range severityCDF {
		if u < e.p {
			return e.v
		}
	}
	return "Low"
}

func pickActionCount(rng *rand.Rand) int {
	u := rng.Float64()
	for _, e := range actionCountCDF {
		if u < e.p {
			return e.v
		}
	}
	return 1
}

// pickPriority mixes the word and P-number vocabularies the way exports from different
// systems do.
func pickPriority(rng *rand.Rand) string {
	words := []string{"Critical", "High", "Medium", "Low"}
	i := rng.Intn(len(words))
	if rng.Intn(2) == 0 {
		return "P" + strconv.Itoa(i+1)
	}
	return words[i]
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys) // map order would break seed reproducibility
	return keys
}

func minTime(a, b time.Time) time.Time {
	if a.After(b) {
		return b
	}
	return a
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Save writes cases.csv, actions.csv and sites.csv under outDir and returns their paths.
func Save(outDir string, ds Dataset) (ingest.Files, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return ingest.Files{}, err
	}
	files := ingest.Files{
		Cases:   filepath.Join(outDir, "cases.csv"),
		Actions: filepath.Join(outDir, "actions.csv"),
		Sites:   filepath.Join(outDir, "sites.csv"),
	}

	caseRows := [][]string{{"id", "site_id", "site_name", "turbine_id", "turbine_name", "turbine_make",
		"component_name", "failure_mode_name", "severity", "created_at", "inspected_at", "confirmed_at", "closed_at", "updated_at"}}
	for _, c := range ds.Cases {
		caseRows = append(caseRows, []string{c.ID, c.SiteID, c.SiteName, c.TurbineID, c.TurbineName, c.TurbineMake,
			c.ComponentName, c.FailureModeName, c.Severity, stamp(&c.CreatedAt), stamp(c.InspectedAt),
			stamp(c.ConfirmedAt), stamp(c.ClosedAt), stamp(&c.UpdatedAt)})
	}

	actionRows := [][]string{{"action_id", "case_id", "created_at", "updated_at", "deadline", "priority",
		"priority_changed", "status", "activity", "details"}}
	for _, a := range ds.Actions {
		actionRows = append(actionRows, []string{a.ActionID, a.CaseID, stamp(&a.CreatedAt), stamp(&a.UpdatedAt),
			stamp(a.Deadline), a.Priority, strconv.FormatBool(a.PriorityChanged), a.Status, a.Activity, a.Details})
	}

	siteRows := [][]string{{"site_id", "site_name", "latitude", "longitude"}}
	for _, s := range ds.Sites {
		siteRows = append(siteRows, []string{s.ID, s.Name,
			strconv.FormatFloat(s.Latitude, 'f', -1, 64), strconv.FormatFloat(s.Longitude, 'f', -1, 64)})
	}

	for path, rows := range map[string][][]string{files.Cases: caseRows, files.Actions: actionRows, files.Sites: siteRows} {
		if err := writeCSV(path, rows); err != nil {
			return ingest.Files{}, err
		}
	}
	return files, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := csv.NewWriter(f).WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
