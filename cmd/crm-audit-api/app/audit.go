package app

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/forgeo/crm-audit-server/internal/audit"
	"github.com/forgeo/crm-audit-server/internal/service"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run and inspect data quality audits",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Usage()
	},
}

var auditRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Audit the CRM data of a user and print the scores",
	Long: `Fetch the contacts, companies and deals of a user, evaluate every criterion of
the catalog and print the category scores once the audit finishes.`,
	RunE: runAuditRun,
}

var auditShowCmd = &cobra.Command{
	Use:   "show <audit-id>",
	Short: "Print the results of an audit",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditShow,
}

func init() {
	addRunFlags(auditRunCmd)
	addUserFlag(auditRunCmd)
	auditRunCmd.Flags().String("title", "", "Audit title")
	auditRunCmd.Flags().String("description", "", "Audit description")
	auditRunCmd.Flags().String("company", "", "Company name recorded with the audit")
	auditRunCmd.Flags().Duration("wait", defaultWaitTimeout, "Maximum time to wait for the audit to finish")

	addRunFlags(auditShowCmd)

	auditCmd.AddCommand(auditRunCmd)
	auditCmd.AddCommand(auditShowCmd)
}

func runAuditRun(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetString("user")
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	company, _ := cmd.Flags().GetString("company")

	return withService(cmd, func(ctx context.Context, svc service.Service) error {
		run, err := svc.StartAudit(ctx, userID, audit.Metadata{
			Title:       title,
			Description: description,
			CompanyName: company,
		})
		if err != nil {
			return fmt.Errorf("failed to start audit: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "audit %s started\n", run.ID)

		if err := waitForRuns(ctx, cmd, svc); err != nil {
			return fmt.Errorf("audit %s did not finish: %w", run.ID, err)
		}

		summary, err := svc.GetAudit(ctx, run.ID)
		if err != nil {
			return err
		}
		return render(cmd, summary, func(w io.Writer) error {
			return writeScores(w, summary)
		})
	})
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("audit id must be a UUID: %w", err)
	}

	return withService(cmd, func(ctx context.Context, svc service.Service) error {
		summary, err := svc.GetAudit(ctx, id)
		if err != nil {
			return err
		}
		results, err := svc.GetAuditResults(ctx, id)
		if err != nil {
			return err
		}

		payload := struct {
			*service.AuditSummary
			Results []audit.DecoratedResult `json:"results"`
		}{summary, results}

		return render(cmd, payload, func(w io.Writer) error {
			if err := writeScores(w, summary); err != nil {
				return err
			}
			return writeResults(w, results)
		})
	})
}

func writeScores(w io.Writer, summary *service.AuditSummary) error {
	fmt.Fprintf(w, "Audit %s (%s) for user %s\n", summary.ID, summary.Status, summary.UserID)
	if summary.ErrorMessage != "" {
		fmt.Fprintf(w, "Error: %s\n", summary.ErrorMessage)
	}

	rows := make([][]string, 0, len(summary.Scores.Categories)+1)
	for _, c := range summary.Scores.Categories {
		rows = append(rows, []string{
			string(c.Category),
			formatPercent(c.Score),
			strconv.Itoa(c.EmptyCount),
			strconv.Itoa(c.TotalCount),
			strconv.Itoa(c.Criteria),
		})
	}
	rows = append(rows, []string{"overall", formatPercent(summary.Scores.Overall), "", "", ""})
	return writeTable(w, []string{"Category", "Score", "Empty", "Checked", "Criteria"}, rows)
}

func writeResults(w io.Writer, results []audit.DecoratedResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			string(r.Category),
			r.CriterionKey,
			r.FieldName,
			strconv.Itoa(r.EmptyCount),
			strconv.Itoa(r.TotalCount),
			formatPercent(r.Percentage),
			string(r.Severity),
			strconv.FormatBool(r.Fixable),
		})
	}
	return writeTable(w,
		[]string{"Category", "Criterion", "Field", "Empty", "Total", "Percent", "Severity", "Fixable"}, rows)
}
