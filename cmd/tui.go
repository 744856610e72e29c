// ABOUTME: Interactive panel command for the painel CLI
// ABOUTME: Wires the gateway's hard redirect into the full-screen TUI

package cmd

import (
	"fmt"
	"os"

	"github.com/painel-f1/painel/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive panel",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runTUI())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI starts the panel and returns exit code
func runTUI() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: the interactive panel needs a terminal; see 'painel --help' for scriptable commands")
		return exitError
	}

	app, err := newTUIApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	if err := tui.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

// newTUIApp builds the app on the shared env. A forced logout anywhere in
// the gateway resets the whole app to the login screen.
func newTUIApp() (*tui.App, error) {
	e, err := newEnv()
	if err != nil {
		return nil, err
	}

	app := tui.New(tui.Options{
		Client:    e.client,
		Guard:     e.guard,
		Store:     e.store,
		ConfigDir: e.cfg.ConfigDir,
		CSVDir:    e.cfg.CSVDir,
		LogLevel:  e.cfg.LogLevel,
	})
	e.onRedirect = app.HardRedirect
	return app, nil
}

