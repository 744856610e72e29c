// ABOUTME: Non-interactive report commands for the painel CLI
// ABOUTME: Lists the reports offered to the role and runs one with parameters

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/painel-f1/painel/internal/client"
	"github.com/spf13/cobra"
)

var reportParams []string

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List and run reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the reports available to your role",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runReportsList(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var reportsRunCmd = &cobra.Command{
	Use:   "run ID",
	Short: "Run a report",
	Long: `Run a report without the interactive panel. Required parameters must be
given with --param.

Example:
  painel reports run 3 --param ano=2023 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		params, err := parseParams(reportParams)
		if err != nil {
			return err
		}
		exitCode := runReport(ctx, os.Stdout, args[0], params)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd, reportsRunCmd)
	reportsRunCmd.Flags().StringArrayVar(&reportParams, "param", nil, "Report parameter as name=value (repeatable)")
}

// parseParams turns name=value pairs into a map
func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --param %q, expected name=value", p)
		}
		params[strings.TrimSpace(name)] = value
	}
	return params, nil
}

// runReportsList lists reports and returns exit code
func runReportsList(ctx context.Context, w io.Writer) int {
	e, code := protected(ctx, w)
	if e == nil {
		return code
	}

	resp, err := e.client.Reports(ctx)
	if err != nil {
		return e.fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, resp)
		return exitOK
	}
	fmt.Fprintln(w, formatReportsHuman(resp.Reports))
	return exitOK
}

// formatReportsHuman lists reports with their parameters
func formatReportsHuman(reports []client.Report) string {
	if len(reports) == 0 {
		return "No reports available for your role"
	}

	var b strings.Builder
	for i, r := range reports {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s] %s\n", r.ID, r.Name)
		if r.Description != "" {
			fmt.Fprintf(&b, "    %s\n", r.Description)
		}
		if r.RequiresParams {
			for _, p := range r.Params {
				req := ""
				if p.Required {
					req = " (required)"
				}
				fmt.Fprintf(&b, "    --param %s=<%s>%s\n", p.Name, p.Label, req)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// runReport executes one report and returns exit code
func runReport(ctx context.Context, w io.Writer, id string, params map[string]string) int {
	e, code := protected(ctx, w)
	if e == nil {
		return code
	}

	reports, err := e.client.Reports(ctx)
	if err != nil {
		return e.fail(w, err)
	}

	var report *client.Report
	for i := range reports.Reports {
		if reports.Reports[i].ID.String() == id {
			report = &reports.Reports[i]
			break
		}
	}
	if report == nil {
		fmt.Fprintf(w, "Error: report %q is not available for your role\n", id)
		return exitError
	}
	if missing := report.MissingParams(params); len(missing) > 0 {
		fmt.Fprintf(w, "Error: missing required parameters: %s\n", strings.Join(missing, ", "))
		return exitError
	}

	result, err := e.client.ExecuteReport(ctx, report.ID, params)
	if err != nil {
		return e.fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, result)
		return exitOK
	}
	fmt.Fprintf(w, "%s\n%s\n", report.Name, renderRows(result.Columns, result.Data))
	fmt.Fprintf(w, "%d row(s)\n", len(result.Data))
	return exitOK
}
