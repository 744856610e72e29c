// ABOUTME: Views commands for the painel CLI
// ABOUTME: Lists role views with a preview and pages through a single view

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
	"github.com/painel-f1/painel/internal/present"
	"github.com/spf13/cobra"
)

var (
	viewPage  int
	viewLimit int
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the views available to your role",
	Long:  `List every view the API offers the logged-in role, with the first rows of each.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runViews(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var viewCmd = &cobra.Command{
	Use:   "view NAME",
	Short: "Show one view page by page",
	Long: `Show one page of a view. Pages are fetched from the API.

Example:
  painel view vw_driver_standings --page 2 --limit 50`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runView(ctx, os.Stdout, args[0], viewPage, viewLimit)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(viewsCmd)
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().IntVar(&viewPage, "page", 1, "Page number")
	viewCmd.Flags().IntVar(&viewLimit, "limit", present.DefaultPageSize, "Rows per page (10, 20, 50 or 100)")
}

// runViews lists views and returns exit code
func runViews(ctx context.Context, w io.Writer) int {
	e, code := protected(ctx, w)
	if e == nil {
		return code
	}

	resp, err := e.client.Views(ctx)
	if err != nil {
		return e.fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, resp)
		return exitOK
	}
	fmt.Fprintln(w, formatViewsHuman(resp))
	return exitOK
}

// formatViewsHuman renders each view's preview
func formatViewsHuman(resp *client.ViewsResponse) string {
	if len(resp.Views) == 0 {
		return "No views available for your role"
	}

	var b strings.Builder
	for i, v := range resp.Views {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(present.Column(v.Name) + "\n")
		if v.Error != "" {
			b.WriteString("Error: " + v.Error)
			continue
		}
		b.WriteString(renderRows(v.Columns, present.Preview(v.Data)))
		if len(v.Data) > present.PreviewRows {
			fmt.Fprintf(&b, "\n%d of %d rows; run 'painel view %s' for the rest", present.PreviewRows, len(v.Data), v.Name)
		}
	}
	return b.String()
}

// validatePage ensures page and limit are acceptable before calling the API
func validatePage(page, limit int) error {
	if page < 1 {
		return fmt.Errorf("--page must be at least 1")
	}
	for _, s := range present.PageSizes {
		if s == limit {
			return nil
		}
	}
	return fmt.Errorf("--limit must be one of %v", present.PageSizes)
}

// runView fetches one page of a view and returns exit code
func runView(ctx context.Context, w io.Writer, name string, page, limit int) int {
	if err := validatePage(page, limit); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	e, code := protected(ctx, w)
	if e == nil {
		return code
	}

	resp, err := e.client.View(ctx, name, page, limit)
	if err != nil {
		return e.fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, resp)
		return exitOK
	}

	pager := present.Pager{Page: page, Limit: limit, TotalCount: resp.View.TotalCount, TotalPages: resp.View.TotalPages}
	fmt.Fprintln(w, formatViewHuman(name, &resp.View, pager))
	return exitOK
}

// formatViewHuman renders one page with its position
func formatViewHuman(name string, v *client.View, pager present.Pager) string {
	var b strings.Builder
	b.WriteString(present.Column(name) + "\n")
	b.WriteString(renderRows(v.Columns, v.Data))
	if pager.TotalCount > 0 {
		fmt.Fprintf(&b, "\n%s (page %d of %d)", pager.Range(), pager.Page, max(pager.TotalPages, 1))
	}
	return b.String()
}
