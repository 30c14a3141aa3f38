package commands

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"wfdash/internal/dashboard"
	"wfdash/internal/scoring"
	"wfdash/internal/stats"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed templates/report.html.tmpl
var reportFS embed.FS

var reportTmpl = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"hours": func(v *float64) string {
		if v == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.0fh", *v)
	},
	"pct": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	"date": func(t *time.Time) string {
		if t == nil {
			return "open"
		}
		return t.Format("2006-01-02")
	},
	"stamp": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 MST") },
}).ParseFS(reportFS, "templates/report.html.tmpl"))

// reportData is everything the HTML report shows.
type reportData struct {
	GeneratedAt time.Time
	Status      dashboard.Status
	Snapshot    *dashboard.Snapshot
	Bottom      []scoring.SiteHealth
	Changes     stats.DailyChanges
	Warnings    []string
}

func newReportData(status dashboard.Status, snap *dashboard.Snapshot, warnings []string) reportData {
	return reportData{
		GeneratedAt: snap.At,
		Status:      status,
		Snapshot:    snap,
		Bottom:      scoring.BottomSites(snap.Sites, scoring.BottomSitesLimit),
		Changes:     stats.ComputeDailyChanges(snap.LensCases, snap.LensActions, stats.DefaultChangeHours, snap.At),
		Warnings:    warnings,
	}
}

func renderReport(w io.Writer, data reportData) error {
	return reportTmpl.Execute(w, data)
}

var (
	reportView viewFlags
	reportOut  string
	reportOpen bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the filtered view as a static HTML page",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, snap, cleanup, err := loadSnapshot(cmd.Context(), reportView)
		if err != nil {
			return err
		}
		defer cleanup()

		var warnings []string
		if v, err := state.Validation(); err == nil {
			warnings = append(append([]string{}, v.Errors...), v.Warnings...)
		}

		out := reportOut
		if out == "" {
			out = filepath.Join(cfg.CacheDir, "report.html")
		}
		if err := writeReport(out, newReportData(state.Status(), snap, warnings)); err != nil {
			return err
		}
		log.Info().Str("path", out).Msg("Report written")
		fmt.Fprintln(cmd.OutOrStdout(), out)

		if reportOpen {
			if err := browser.OpenFile(out); err != nil {
				return fmt.Errorf("failed to open report: %w", err)
			}
		}
		return nil
	},
}

func writeReport(path string, data reportData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderReport(f, data); err != nil {
		f.Close()
		return fmt.Errorf("failed to render report: %w", err)
	}
	return f.Close()
}

func init() {
	reportView.register(reportCmd)
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default <cache>/report.html)")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "open the report in the default browser")
}
