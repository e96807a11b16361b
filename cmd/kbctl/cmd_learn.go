package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OutfinityResearch/AGISystem2-sub015/session"
)

var learnCmd = &cobra.Command{
	Use:   "learn <file.dsl>",
	Short: "Parse a Statement DSL file and report what was learned",
	Long: `Loads a Statement DSL source file into a fresh Session and prints how
many facts/rules were committed and any per-line errors encountered.

Since a Session does not persist across invocations, this command is mainly
useful to validate a DSL file before wiring it into a longer-lived program;
use --learn on query/prove/find-all to learn-then-reason in one process.`,
	Args: cobra.ExactArgs(1),
	RunE: runLearn,
}

func runLearn(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	sess, err := newSession()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	result := sess.Learn(string(source))
	fmt.Printf("facts added: %d\n", result.FactsAdded)
	fmt.Printf("rules added: %d\n", result.RulesAdded)
	if result.Success {
		fmt.Println("learn: success")
		return nil
	}

	fmt.Fprintln(os.Stderr, "learn: completed with errors")
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  line %d: %s\n", e.Line, e.Message)
	}
	return fmt.Errorf("%d statement(s) failed to learn", len(result.Errors))
}

// loadDSLFile learns path's contents into sess, surfacing the first error (if
// any) as a wrapped Go error rather than the full LearnResult — the shared
// helper query/prove/findAll's --learn flag uses before reasoning.
func loadDSLFile(sess *session.Session, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	result := sess.Learn(string(source))
	if !result.Success {
		return fmt.Errorf("learn %s: %d statement(s) failed (first: line %d: %s)",
			path, len(result.Errors), result.Errors[0].Line, result.Errors[0].Message)
	}
	return nil
}
