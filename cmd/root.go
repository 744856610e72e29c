// ABOUTME: Root command for the painel CLI
// ABOUTME: Handles global flags, configuration and the shared session plumbing

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/config"
	"github.com/painel-f1/painel/internal/gateway"
	"github.com/painel-f1/painel/internal/logger"
	"github.com/painel-f1/painel/internal/session"
	"github.com/painel-f1/painel/internal/tokenstore"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
	tokenFile  string
	ephemeral  bool
)

// Exit codes shared by every command
const (
	exitOK     = 0
	exitDenied = 1
	exitError  = 2
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "painel",
	Short: "Terminal client for the F1 data panel",
	Long: `painel is a terminal client for the F1 data API.

Without a subcommand it opens the interactive panel. Subcommands give
scriptable access to the same views, reports and data entry.

Exit codes:
  0 - Success
  1 - Not logged in or session expired
  2 - Error (connectivity, invalid input, API failure)

Environment Variables:
  PAINEL_API_URL       Data API URL (default: http://localhost:3001)
  PAINEL_TOKEN_FILE    Where the session token is kept
  PAINEL_CONFIG_DIR    Config directory (default: $XDG_CONFIG_HOME/painel)
  PAINEL_HTTP_TIMEOUT  Per-request timeout, e.g. 30s (default: none)
  PAINEL_CSV_DIR       Directory the upload picker lists CSV files from
  PAINEL_LOG_LEVEL     debug, info, warn, error (default: info)
  PAINEL_LOG_FORMAT    text or json (default: text)`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}
		logger.Init(os.Stderr, os.Getenv("PAINEL_LOG_LEVEL"), os.Getenv("PAINEL_LOG_FORMAT"))
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runTUI())
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Data API URL (overrides PAINEL_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Token file (overrides PAINEL_TOKEN_FILE)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the token in memory only")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// env is what a command needs to talk to the API as the stored user
type env struct {
	cfg    *config.Config
	store  tokenstore.Store
	gw     *gateway.Gateway
	client *client.Client
	guard  *session.Guard

	// expired is set when the gateway ended the session mid-command
	expired atomic.Bool

	// onRedirect, when set, also receives the gateway's hard redirect
	onRedirect func(route string)
}

// newEnv wires the token store, gateway, client and guard from flags and config.
// The API URL comes from flag, env, or default (in priority order). In the
// CLI a hard redirect ends the command; the process exit discards state.
func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	var store tokenstore.Store
	switch {
	case ephemeral:
		store = tokenstore.NewMemory()
	case tokenFile != "":
		store = tokenstore.NewFile(tokenFile)
	default:
		store = tokenstore.NewFile(cfg.TokenFile)
	}

	e := &env{cfg: cfg, store: store}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	e.gw = gateway.New(cfg.APIURL, httpClient, store, gateway.RedirectorFunc(func(route string) {
		e.expired.Store(true)
		if e.onRedirect != nil {
			e.onRedirect(route)
		}
	}))
	e.client = client.New(e.gw)
	e.guard = session.NewGuard(store, e.gw)
	return e, nil
}

// requireSession mounts a route authorization boundary for a protected
// command. On Denied it prints the login hint to w and returns false.
func (e *env) requireSession(ctx context.Context, w io.Writer) bool {
	b := session.NewBoundary(e.guard, session.NavigatorFunc(func(string) {
		fmt.Fprintf(w, "Error: %v\n", session.ErrNotAuthenticated)
	}))
	return b.Evaluate(ctx) == session.Granted
}

// protected builds the env and passes the boundary, returning the exit code
// to use when the command cannot go on.
func protected(ctx context.Context, w io.Writer) (*env, int) {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil, exitError
	}
	if !e.requireSession(ctx, w) {
		return nil, exitDenied
	}
	return e, exitOK
}

// fail prints err and maps it to an exit code
func (e *env) fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	if e.expired.Load() || errors.Is(err, gateway.ErrSessionExpired) {
		fmt.Fprintln(w, "Run 'painel login' to sign in again.")
		return exitDenied
	}
	return exitError
}
