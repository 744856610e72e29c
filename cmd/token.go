// ABOUTME: Token command for the painel CLI
// ABOUTME: Prints the claims of the stored token without verifying it

package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect the stored session token",
	Long: `Decode the claims of the stored token for troubleshooting.

The signature is NOT verified and nothing is sent to the API; use
'painel check' to find out whether the session is actually valid.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runToken(os.Stdout, time.Now())
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

// runToken decodes the stored token and returns exit code
func runToken(w io.Writer, now time.Time) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	raw, ok := e.store.Get()
	if !ok {
		fmt.Fprintln(w, "Not logged in")
		return exitDenied
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		if IsJSONOutput() {
			writeJSON(w, map[string]interface{}{"format": "opaque"})
		} else {
			fmt.Fprintln(w, "Stored token is opaque (not a JWT)")
		}
		return exitOK
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]interface{}{"format": "jwt", "claims": claims})
		return exitOK
	}
	fmt.Fprintln(w, formatClaimsHuman(claims, now))
	return exitOK
}

// formatClaimsHuman lists the registered time claims first, then the rest sorted
func formatClaimsHuman(claims jwt.MapClaims, now time.Time) string {
	var b strings.Builder
	b.WriteString("Token claims (unverified)\n")

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		fmt.Fprintf(&b, "  Subject:  %s\n", sub)
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		fmt.Fprintf(&b, "  Issued:   %s (%s)\n", iat.Format(time.RFC3339), humanize.RelTime(iat.Time, now, "ago", "from now"))
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		status := humanize.RelTime(exp.Time, now, "ago", "from now")
		if exp.Before(now) {
			status = "expired " + status
		}
		fmt.Fprintf(&b, "  Expires:  %s (%s)\n", exp.Format(time.RFC3339), status)
	}

	keys := make([]string, 0, len(claims))
	for k := range claims {
		switch k {
		case "sub", "iat", "exp":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %v\n", k, claims[k])
	}

	return strings.TrimRight(b.String(), "\n")
}
