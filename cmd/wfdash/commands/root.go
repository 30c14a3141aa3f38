package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wfdash/internal/config"
	"wfdash/internal/dashboard"
	"wfdash/internal/domain"
	"wfdash/internal/ingest"
	"wfdash/internal/logging"
	"wfdash/internal/prefs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	casesPath   string
	actionsPath string
	sitesPath   string
)

var rootCmd = &cobra.Command{
	Use:   "wfdash",
	Short: "wfdash is a wind-farm maintenance dashboard core with an MCP server",
	Long: `Loads maintenance cases, corrective actions and site locations from CSV exports and
derives fleet KPIs, site health scores, recommendations and trend series. The analysis is
served to MCP clients over stdio, or printed and rendered by the other commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("wfdash starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&casesPath, "cases", "", "cases CSV (default CASES_CSV)")
	rootCmd.PersistentFlags().StringVar(&actionsPath, "actions", "", "actions CSV (default ACTIONS_CSV)")
	rootCmd.PersistentFlags().StringVar(&sitesPath, "sites", "", "site locations CSV (default SITES_CSV)")

	rootCmd.AddCommand(serveCmd, summaryCmd, validateCmd, reportCmd)
}

// inputFiles resolves the input CSVs, flags over configuration.
func inputFiles() ingest.Files {
	pick := func(flag, conf string) string {
		if flag != "" {
			return flag
		}
		return conf
	}
	return ingest.Files{
		Cases:   pick(casesPath, cfg.CasesCSV),
		Actions: pick(actionsPath, cfg.ActionsCSV),
		Sites:   pick(sitesPath, cfg.SitesCSV),
	}
}

// newState wires the dashboard state to the preference store and load metrics. The store
// is optional: when another process holds it the state runs without persistence.
func newState(now time.Time) (*dashboard.State, func()) {
	opts := dashboard.Options{
		Metrics:         ingest.NewMetrics(),
		MetricsFile:     cfg.MetricsFile,
		SnapshotTTL:     cfg.SnapshotTTL,
		CasesPerTurbine: cfg.CasesPerTurbine,
	}

	cleanup := func() {}
	store, err := prefs.Open(cfg.PrefsDir())
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.PrefsDir()).Msg("Preferences unavailable, filters will not persist")
	} else {
		opts.Store = store
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close preference store")
			}
		}
	}
	return dashboard.New(opts, now), cleanup
}

// viewFlags select the view for the one-shot commands. Unset flags keep the persisted
// filters.
type viewFlags struct {
	preset    string
	issueType string
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.preset, "preset", "", "date preset: last7, last30, last90 or allTime")
	cmd.Flags().StringVar(&v.issueType, "issue-type", "", "issue lens: all, cms_hardware or mechanical")
}

// loadSnapshot loads the input files and returns the state with its filtered view. The
// returned cleanup must be called once the state is no longer used.
func loadSnapshot(ctx context.Context, v viewFlags) (*dashboard.State, *dashboard.Snapshot, func(), error) {
	now := time.Now()
	state, cleanup := newState(now)

	snap, err := func() (*dashboard.Snapshot, error) {
		if _, err := state.Load(ctx, inputFiles(), now); err != nil {
			return nil, err
		}
		if v.issueType != "" {
			if err := state.SetIssueType(domain.IssueType(v.issueType)); err != nil {
				return nil, err
			}
		}
		if v.preset != "" {
			if err := state.ApplyPreset(domain.DatePreset(v.preset), now); err != nil {
				return nil, err
			}
		}
		return state.Snapshot(now)
	}()
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return state, snap, cleanup, nil
}
