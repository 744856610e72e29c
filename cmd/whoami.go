// ABOUTME: Whoami command for the painel CLI
// ABOUTME: Shows the logged-in identity, role and the actions it allows

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/present"
	"github.com/painel-f1/painel/internal/role"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Long:  `Display the identity behind the stored session: role, name and the actions the role offers.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami fetches user info and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	e, code := protected(ctx, w)
	if e == nil {
		return code
	}

	info, err := e.client.UserInfo(ctx)
	if err != nil {
		return e.fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatWhoamiJSON(info))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(info))
	}
	return exitOK
}

// formatWhoamiHuman formats user info for human readability
func formatWhoamiHuman(info *client.UserInfo) string {
	title, subtitle := present.Identity(info, info.Tipo)
	r := role.Normalize(info.Tipo)

	var b strings.Builder
	b.WriteString(title)
	if subtitle != "" {
		b.WriteString("\n" + subtitle)
	}
	fmt.Fprintf(&b, "\n\nRole:     %s", r)
	fmt.Fprintf(&b, "\nActions:  %s", actionList(r))
	return b.String()
}

// formatWhoamiJSON formats user info as JSON
func formatWhoamiJSON(info *client.UserInfo) string {
	r := role.Normalize(info.Tipo)
	actions := []string{}
	for _, a := range r.Actions() {
		actions = append(actions, a.String())
	}

	output := map[string]interface{}{
		"role":     string(r),
		"userInfo": info,
		"actions":  actions,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}

func actionList(r role.Role) string {
	actions := r.Actions()
	if len(actions) == 0 {
		return "none"
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return strings.Join(names, ", ")
}
