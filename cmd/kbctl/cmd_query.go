package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OutfinityResearch/AGISystem2-sub015/session"
)

var (
	learnPath string
	timeoutMs int
	maxDepth  int
	topK      int
)

func addReasoningFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&learnPath, "learn", "", "a Statement DSL file to load before reasoning")
	cmd.Flags().IntVar(&timeoutMs, "timeout-ms", 0, "reasoning timeout override, in milliseconds")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "proof depth override")
	cmd.Flags().IntVar(&topK, "top-k", 0, "meta-operator result cap override")
}

func bootstrapWithGoal() (*session.Session, *session.QueryOptions, error) {
	sess, err := newSession()
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}
	if learnPath != "" {
		if err := loadDSLFile(sess, learnPath); err != nil {
			return nil, nil, err
		}
	}
	return sess, &session.QueryOptions{TimeoutMs: timeoutMs, MaxDepth: maxDepth, TopK: topK}, nil
}

var queryCmd = &cobra.Command{
	Use:   "query <goal>",
	Short: "Return the single best answer to goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, opts, err := bootstrapWithGoal()
		if err != nil {
			return err
		}
		result, err := sess.Query(args[0], opts)
		if err != nil {
			return err
		}
		fmt.Printf("success: %v\n", result.Success)
		if result.Success {
			fmt.Printf("bindings: %v\n", result.Bindings)
			fmt.Printf("confidence: %.3f\n", result.Confidence)
		}
		if result.Reason != "" {
			fmt.Printf("reason: %s\n", result.Reason)
		}
		return nil
	},
}

var proveCmd = &cobra.Command{
	Use:   "prove <goal>",
	Short: "Check goal's validity and print its proof trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, opts, err := bootstrapWithGoal()
		if err != nil {
			return err
		}
		result, err := sess.Prove(args[0], opts)
		if err != nil {
			return err
		}
		fmt.Printf("valid: %v\n", result.Valid)
		if result.Valid {
			fmt.Println(sess.Elaborate(result.Proof))
		}
		if result.Reason != "" {
			fmt.Printf("reason: %s\n", result.Reason)
		}
		return nil
	},
}

var findAllCmd = &cobra.Command{
	Use:   "find-all <goal>",
	Short: "Return every distinct answer to goal within budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, opts, err := bootstrapWithGoal()
		if err != nil {
			return err
		}
		result, err := sess.FindAll(args[0], opts)
		if err != nil {
			return err
		}
		fmt.Printf("success: %v, ambiguous: %v, %d result(s)\n", result.Success, result.Ambiguous, len(result.AllResults))
		for i, a := range result.AllResults {
			fmt.Printf("  [%d] %v (confidence %.3f, depth %d)\n", i, a.Bindings, a.Confidence, a.Depth)
		}
		return nil
	},
}

func init() {
	addReasoningFlags(queryCmd)
	addReasoningFlags(proveCmd)
	addReasoningFlags(findAllCmd)
}
