// ABOUTME: Entry point for the painel terminal client
// ABOUTME: Interactive panel and scriptable commands for the F1 data API

package main

import (
	"fmt"
	"os"

	"github.com/painel-f1/painel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
