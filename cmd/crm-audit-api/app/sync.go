package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forgeo/crm-audit-server/internal/service"
	pkgsync "github.com/forgeo/crm-audit-server/internal/sync"
	"github.com/forgeo/crm-audit-server/internal/sync/state"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize and inspect the local CRM snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Usage()
	},
}

var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Synchronize the CRM data of a user into the local snapshot",
	RunE:  runSyncRun,
}

var syncLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the last completed sync of a user",
	RunE:  runSyncLatest,
}

var syncFreshnessCmd = &cobra.Command{
	Use:   "freshness",
	Short: "Assess whether the snapshot of a user needs a refresh",
	RunE:  runSyncFreshness,
}

func init() {
	for _, c := range []*cobra.Command{syncRunCmd, syncLatestCmd, syncFreshnessCmd} {
		addRunFlags(c)
		addUserFlag(c)
		syncCmd.AddCommand(c)
	}
	syncRunCmd.Flags().Duration("wait", defaultWaitTimeout, "Maximum time to wait for the sync to finish")
}

func runSyncRun(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetString("user")

	return withService(cmd, func(ctx context.Context, svc service.Service) error {
		run, err := svc.StartSync(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to start sync: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "sync %s started\n", run.ID)

		if err := waitForRuns(ctx, cmd, svc); err != nil {
			return fmt.Errorf("sync %s did not finish: %w", run.ID, err)
		}

		runs, err := svc.ListSyncs(ctx, userID, service.WithListLimit(1))
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return fmt.Errorf("sync %s not found", run.ID)
		}
		return render(cmd, runs[0], func(w io.Writer) error {
			return writeSyncRun(w, runs[0])
		})
	})
}

func runSyncLatest(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetString("user")

	return withService(cmd, func(ctx context.Context, svc service.Service) error {
		run, err := svc.LatestSync(ctx, userID)
		if errors.Is(err, service.ErrNoCompletedSync) {
			fmt.Fprintf(cmd.ErrOrStderr(), "user %s has no completed sync\n", userID)
			return nil
		}
		if err != nil {
			return err
		}
		return render(cmd, run, func(w io.Writer) error {
			return writeSyncRun(w, run)
		})
	})
}

func runSyncFreshness(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetString("user")

	return withService(cmd, func(ctx context.Context, svc service.Service) error {
		assessment, err := svc.Freshness(ctx, userID)
		if err != nil {
			return err
		}
		return render(cmd, assessment, func(w io.Writer) error {
			return writeAssessment(w, assessment)
		})
	})
}

func writeSyncRun(w io.Writer, run *state.Run) error {
	rows := [][]string{
		{"ID", run.ID.String()},
		{"Status", string(run.Status)},
		{"Started", formatTime(&run.CreatedAt)},
		{"Completed", formatTime(run.CompletedAt)},
		{"Contacts", strconv.Itoa(run.Totals.Contacts)},
		{"Companies", strconv.Itoa(run.Totals.Companies)},
		{"Deals", strconv.Itoa(run.Totals.Deals)},
	}
	if run.ErrorMessage != "" {
		rows = append(rows, []string{"Error", run.ErrorMessage})
	}
	return writeTable(w, []string{"Field", "Value"}, rows)
}

func writeAssessment(w io.Writer, a *pkgsync.Assessment) error {
	hours := "-"
	if a.HoursSinceLast != nil {
		hours = strconv.FormatFloat(*a.HoursSinceLast, 'f', 1, 64)
	}
	rows := [][]string{
		{"Should sync", strconv.FormatBool(a.ShouldSync)},
		{"Reason", string(a.Reason)},
		{"Hours since last sync", hours},
		{"Data quality", string(a.DataQuality)},
		{"Last sync", formatTime(a.LastSyncAt)},
		{"Recommendation", a.Recommendation},
	}
	return writeTable(w, []string{"Field", "Value"}, rows)
}
