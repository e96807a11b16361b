package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file.dsl>",
	Short: "Load a DSL file and print the resulting session statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return fmt.Errorf("open session: %w", err)
		}
		if err := loadDSLFile(sess, args[0]); err != nil {
			return err
		}

		stats := sess.Stats()
		fmt.Printf("facts:    %d\n", stats.TotalFacts)
		fmt.Printf("rules:    %d\n", stats.TotalRules)
		fmt.Printf("queries:  %d\n", stats.QueriesRun)
		fmt.Printf("timeouts: %d\n", stats.Timeouts)
		fmt.Println("operators:")
		for op, count := range stats.OperatorCounts {
			fmt.Printf("  %-16s %d\n", op, count)
		}
		return nil
	},
}
