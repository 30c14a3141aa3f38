package commands

import (
	"fmt"

	"wfdash/internal/scoring"
	"wfdash/internal/stats"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var summaryView viewFlags

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the headline KPIs of the filtered view as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, snap, cleanup, err := loadSnapshot(cmd.Context(), summaryView)
		if err != nil {
			return err
		}
		defer cleanup()

		out := map[string]interface{}{
			"status":       state.Status(),
			"filters":      snap.Filters,
			"issue_type":   snap.IssueType,
			"kpis":         snap.KPIs,
			"levels":       snap.Levels,
			"bottom_sites": scoring.BottomSites(snap.Sites, scoring.BottomSitesLimit),
			"changes":      stats.ComputeDailyChanges(snap.LensCases, snap.LensActions, stats.DefaultChangeHours, snap.At),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	summaryView.register(summaryCmd)
}
