package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	auditapp "github.com/forgeo/crm-audit-server/internal/app"
	"github.com/forgeo/crm-audit-server/internal/service"
)

const (
	defaultWaitTimeout = 30 * time.Minute
	cliStopTimeout     = 10 * time.Second
)

// withService builds the application without serving HTTP and hands its service to fn.
// The auto-sync coordinator is not started.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc service.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	app, err := auditapp.NewAuditApp(ctx, auditapp.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer func() {
		if err := app.Stop(cliStopTimeout); err != nil {
			slog.Error("Failed to stop application", "error", err)
		}
	}()

	return fn(ctx, app.GetService())
}

// waitForRuns blocks until the runs started by the command finish
func waitForRuns(ctx context.Context, cmd *cobra.Command, svc service.Service) error {
	timeout, err := cmd.Flags().GetDuration("wait")
	if err != nil {
		return fmt.Errorf("failed to get wait flag: %w", err)
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return svc.Shutdown(waitCtx)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to configuration file (YAML format)")
	cmd.Flags().String("format", "table", "Output format (table or json)")
}

func addUserFlag(cmd *cobra.Command) {
	cmd.Flags().String("user", "", "Identifier of the CRM user")
	if err := cmd.MarkFlagRequired("user"); err != nil {
		panic(err)
	}
}

// render writes v as indented JSON, or as a table built by table when format is "table"
func render(cmd *cobra.Command, v any, table func(w io.Writer) error) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "table", "":
		return table(out)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeTable renders rows under header
func writeTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	table.Header(cells...)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to fill table: %w", err)
	}
	return table.Render()
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
