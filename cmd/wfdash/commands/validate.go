package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"wfdash/internal/domain"

	"github.com/spf13/cobra"
)

var errInvalidData = errors.New("dataset failed validation")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the input files and report missing fields and orphaned actions",
	Long: `Exits non-zero when any case lacks an id, site or turbine, or any action lacks an id.
Orphaned actions are reported as warnings only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.Context(), cmd.OutOrStdout())
	},
}

func runValidate(ctx context.Context, w io.Writer) error {
	now := time.Now()
	state, cleanup := newState(now)
	defer cleanup()

	if _, err := state.Load(ctx, inputFiles(), now); err != nil {
		return err
	}
	v, err := state.Validation()
	if err != nil {
		return err
	}
	printValidation(w, v)
	if !v.Valid {
		return errInvalidData
	}
	return nil
}

func printValidation(w io.Writer, v domain.ValidationResult) {
	status := "OK"
	if !v.Valid {
		status = "INVALID"
	}
	fmt.Fprintf(w, "Validation: %s (%d errors, %d warnings)\n", status, len(v.Errors), len(v.Warnings))
	for _, e := range v.Errors {
		fmt.Fprintf(w, "  error:   %s\n", e)
	}
	for _, e := range v.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", e)
	}
	for _, a := range v.OrphanedActions {
		fmt.Fprintf(w, "  orphan:  action %s -> case %s\n", a.ActionID, a.CaseID)
	}
}
