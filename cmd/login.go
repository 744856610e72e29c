// ABOUTME: Login and logout commands for the painel CLI
// ABOUTME: Exchanges credentials for a bearer token and ends sessions

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/painel-f1/painel/internal/client"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginUsername string
	passwordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store a session token",
	Long: `Log in with a username and password. The password is read without echo
from the terminal, or from stdin with --password-stdin.

Example:
  painel login -u alice
  echo "$PASSWORD" | painel login -u alice --password-stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		username, password, err := promptCredentials(os.Stdin, os.Stderr, loginUsername, passwordStdin)
		if err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(exitError)
		}

		exitCode := runLogin(ctx, os.Stdout, username, password)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the stored token",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	loginCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
}

// promptCredentials asks for whatever was not given on the command line
func promptCredentials(in *os.File, prompt io.Writer, username string, fromStdin bool) (string, string, error) {
	reader := bufio.NewReader(in)

	if username == "" {
		fmt.Fprint(prompt, "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", fmt.Errorf("reading username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	var password string
	if !fromStdin && term.IsTerminal(int(in.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		data, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		password = string(data)
	} else {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	return username, password, nil
}

// runLogin exchanges credentials for a token and returns exit code
func runLogin(ctx context.Context, w io.Writer, username, password string) int {
	if username == "" || password == "" {
		fmt.Fprintln(w, "Error: username and password are required")
		return exitError
	}

	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	resp, err := e.client.Login(ctx, username, password)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			fmt.Fprintf(w, "Error: %s\n", loginFailureMessage(apiErr))
			return exitDenied
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]interface{}{"message": resp.Message, "username": username})
		return exitOK
	}
	fmt.Fprintf(w, "Logged in as %s\n", username)
	if resp.Message != "" {
		fmt.Fprintln(w, resp.Message)
	}
	fmt.Fprintln(w, "\nRun 'painel' to open the dashboard.")
	return exitOK
}

func loginFailureMessage(apiErr *client.APIError) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return "invalid username or password"
}

// runLogout ends the session on a best-effort basis and returns exit code
func runLogout(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	e.client.Logout(ctx)
	fmt.Fprintln(w, "Logged out")
	return exitOK
}
