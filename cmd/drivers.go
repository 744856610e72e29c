// ABOUTME: Driver and constructor data entry commands for the painel CLI
// ABOUTME: Insert, search by surname and bulk upload from CSV

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/present"
	"github.com/painel-f1/painel/internal/tui/csvfiles"
	"github.com/painel-f1/painel/internal/tui/recentfiles"
	"github.com/spf13/cobra"
)

var (
	driverInput      client.DriverInput
	constructorInput client.ConstructorInput
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "Insert, search and upload drivers",
}

var driversAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Insert a new driver (Administrador)",
	Long: `Insert a new driver. Every field is required.

Example:
  painel drivers add --ref bortoleto --number 5 --code BOR \
    --forename Gabriel --surname Bortoleto --dob 2004-10-14 --nationality Brazilian`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runDriversAdd(ctx, os.Stdout, &driverInput)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var driversSearchCmd = &cobra.Command{
	Use:   "search SURNAME",
	Short: "Search your team's drivers by surname (Escuderia)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runDriversSearch(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var driversUploadCmd = &cobra.Command{
	Use:   "upload FILE.csv",
	Short: "Insert drivers from a CSV file (Escuderia)",
	Long: `Upload a CSV file of drivers. The header must be:

  ` + present.ExpectedCSVColumns,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runDriversUpload(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var constructorsCmd = &cobra.Command{
	Use:   "constructors",
	Short: "Insert constructors",
}

var constructorsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Insert a new constructor (Administrador)",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runConstructorsAdd(ctx, os.Stdout, &constructorInput)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(driversCmd)
	rootCmd.AddCommand(constructorsCmd)
	driversCmd.AddCommand(driversAddCmd, driversSearchCmd, driversUploadCmd)
	constructorsCmd.AddCommand(constructorsAddCmd)

	f := driversAddCmd.Flags()
	f.StringVar(&driverInput.DriverRef, "ref", "", "Driver reference")
	f.StringVar(&driverInput.Number, "number", "", "Permanent number")
	f.StringVar(&driverInput.Code, "code", "", "Three-letter code")
	f.StringVar(&driverInput.Forename, "forename", "", "First name")
	f.StringVar(&driverInput.Surname, "surname", "", "Last name")
	f.StringVar(&driverInput.DOB, "dob", "", "Date of birth (YYYY-MM-DD)")
	f.StringVar(&driverInput.Nationality, "nationality", "", "Nationality")

	f = constructorsAddCmd.Flags()
	f.StringVar(&constructorInput.ConstructorRef, "ref", "", "Constructor reference")
	f.StringVar(&constructorInput.Name, "name", "", "Name")
	f.StringVar(&constructorInput.Nationality, "nationality", "", "Nationality")
	f.StringVar(&constructorInput.URL, "url", "", "Wikipedia URL")
}

// runDriversAdd validates and inserts a driver, returning exit code
func runDriversAdd(ctx context.Context, w io.Writer, input *client.DriverInput) int {
	if err := input.Validate(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	e, code := protected(ctx, w)
	if e == nil {
		return code
	}

	rec, err := e.client.CreateDriver(ctx, input)
	if err != nil {
		return e.failEntry(w, err)
	}
	return writeRecord(w, "Driver inserted", rec)
}

// runConstructorsAdd validates and inserts a constructor, returning exit code
func runConstructorsAdd(ctx context.Context, w io.Writer, input *client.ConstructorInput) int {
	if err := input.Validate(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	e, code := protected(ctx, w)
	if e == nil {
		return code
	}

	rec, err := e.client.CreateConstructor(ctx, input)
	if err != nil {
		return e.failEntry(w, err)
	}
	return writeRecord(w, "Constructor inserted", rec)
}

// failEntry reports data entry errors by status class
func (e *env) failEntry(w io.Writer, err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %s\n", present.Error(apiErr))
		return exitError
	}
	return e.fail(w, err)
}

func writeRecord(w io.Writer, title string, rec client.Record) int {
	if IsJSONOutput() {
		writeJSON(w, rec)
		return exitOK
	}
	fmt.Fprintln(w, title)
	if len(rec) > 0 {
		fmt.Fprintln(w, renderRows(nil, []client.Row{client.Row(rec)}))
	}
	return exitOK
}

// runDriversSearch searches by surname and returns exit code
func runDriversSearch(ctx context.Context, w io.Writer, surname string) int {
	if strings.TrimSpace(surname) == "" {
		fmt.Fprintln(w, "Error: surname is required")
		return exitError
	}

	e, code := protected(ctx, w)
	if e == nil {
		return code
	}

	rows, err := e.client.SearchDrivers(ctx, surname)
	if err != nil {
		return e.failEntry(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]interface{}{"drivers": rows})
		return exitOK
	}
	if len(rows) == 0 {
		fmt.Fprintf(w, "No drivers found with surname %q\n", surname)
		return exitOK
	}
	fmt.Fprintln(w, renderRows(nil, rows))
	return exitOK
}

// runDriversUpload sends a CSV file and returns exit code
func runDriversUpload(ctx context.Context, w io.Writer, path string) int {
	if !csvfiles.IsCSV(path) {
		fmt.Fprintln(w, "Error: only .csv files are accepted")
		return exitError
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer f.Close()

	e, code := protected(ctx, w)
	if e == nil {
		return code
	}

	result, err := e.client.UploadDrivers(ctx, filepath.Base(path), f)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(w, "Error: %s\n", present.UploadError(apiErr))
			return exitError
		}
		return e.fail(w, err)
	}

	if abs, err := filepath.Abs(path); err == nil {
		recent := recentfiles.New(e.cfg.ConfigDir)
		if err := recent.Add(abs); err != nil {
			slog.Warn("Could not save recent upload", "path", abs, "error", err)
		}
	}

	if IsJSONOutput() {
		writeJSON(w, result)
		return exitOK
	}
	fmt.Fprintln(w, strings.Join(present.UploadSummary(result), "\n"))
	return exitOK
}
