// Package main implements kbctl, a command-line front end over the core
// reasoning kernel's Session API. It is a thin operator convenience: every
// subcommand does nothing the session package itself doesn't already expose.
//
// # File Index
//
//   - main.go       - entry point, rootCmd, global flags, session bootstrap
//   - cmd_learn.go  - learnCmd: load a Statement DSL file into a session
//   - cmd_query.go  - queryCmd, proveCmd, findAllCmd: run a goal against a session
//   - cmd_stats.go  - statsCmd: print a session's KB/reasoning statistics
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OutfinityResearch/AGISystem2-sub015/session"
)

var (
	optionsPath string
	theoryID    string
	profile     string
)

var rootCmd = &cobra.Command{
	Use:   "kbctl",
	Short: "kbctl drives the hyperdimensional reasoning kernel from the command line",
	Long: `kbctl is an operator front end over the core reasoning kernel.

It opens one Session per invocation, loads facts/rules via the Statement DSL,
and runs query/prove/find-all against them. Sessions do not persist
between invocations; pass the same --learn file to every call that needs the
same knowledge base.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&optionsPath, "options", "", "path to a session options YAML file (defaults to session.DefaultOptions)")
	rootCmd.PersistentFlags().StringVar(&theoryID, "theory", "", "override the session's theory id")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "override the session's reasoning profile (TheoryDriven|Minimal)")

	rootCmd.AddCommand(learnCmd, queryCmd, proveCmd, findAllCmd, statsCmd)
}

// newSession builds a Session from --options plus the --theory/--profile
// overrides, the bootstrap every subcommand shares.
func newSession() (*session.Session, error) {
	opts := session.DefaultOptions()
	if optionsPath != "" {
		loaded, err := session.LoadOptionsYAML(optionsPath)
		if err != nil {
			return nil, fmt.Errorf("load options: %w", err)
		}
		opts = *loaded
	}
	if theoryID != "" {
		opts.TheoryID = theoryID
	}
	if profile != "" {
		opts.ReasoningProfile = profile
	}
	return session.New(opts)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
