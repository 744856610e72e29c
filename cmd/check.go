// ABOUTME: Check command for the painel CLI
// ABOUTME: Verifies the stored session for scripts and CI pipelines

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/painel-f1/painel/internal/session"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the stored session is valid",
	Long: `Verify the stored token against the API and exit non-zero if it is not valid.

An invalid or unverifiable session clears the stored token.

Exit codes:
  0 - Authenticated
  1 - Not authenticated
  2 - Error (invalid configuration)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCheck(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// runCheck runs the session guard once and returns exit code
func runCheck(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	_, hadToken := e.store.Get()
	verdict := e.guard.Verify(ctx)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(verdict, hadToken))
	} else {
		fmt.Fprintln(w, formatCheckHuman(verdict, hadToken))
	}

	if verdict != session.Authenticated {
		return exitDenied
	}
	return exitOK
}

// formatCheckHuman formats the verdict for human readability
func formatCheckHuman(v session.Verdict, hadToken bool) string {
	switch {
	case v == session.Authenticated:
		return "✓ Session is valid"
	case !hadToken:
		return "✗ Not logged in\n\nRun 'painel login' to sign in."
	default:
		return "✗ Session expired or rejected; stored token cleared\n\nRun 'painel login' to sign in again."
	}
}

// formatCheckJSON formats the verdict as JSON
func formatCheckJSON(v session.Verdict, hadToken bool) string {
	output := map[string]interface{}{
		"status":        v.String(),
		"authenticated": v == session.Authenticated,
		"hadToken":      hadToken,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
