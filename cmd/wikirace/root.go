package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitNoPath  = 2
)

// ErrNoPath is returned by the find command when the search was exhausted.
// The report has already been written when it is returned.
var ErrNoPath = errors.New("no path found")

// NewRootCmd creates the root command for wikirace.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikirace",
		Short: "Find the shortest link path between two encyclopedia articles",
		Long: `wikirace finds the shortest chain of links leading from one encyclopedia
article to another using breadth-first search.

Pages are fetched politely under a request rate limit, and the links of
every fetched article are cached in a local SQLite database so repeated
searches get faster over time.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewFindCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// exitCode maps an error returned by a command to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrNoPath):
		return exitNoPath
	default:
		return exitFailure
	}
}

// Execute runs the root command.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil && !errors.Is(err, ErrNoPath) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
