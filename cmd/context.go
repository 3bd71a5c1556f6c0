package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finsight/advisor-cli/internal/advice"
)

var (
	contextUser  string
	contextQuery string
	contextJSON  bool
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the assembled context block for a user",
	Long:  "Builds the confidence-layered context from the user's stored profile, session answers, and budget, and prints it as prompt text or sectioned JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		// Assembly never calls the model, so no client is needed.
		engine := advice.NewEngine(st, nil, advice.EngineOpts{})

		assembled, err := engine.AssembleContext(ctx, contextUser, contextQuery)
		if err != nil {
			return err
		}

		if contextJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(assembled)
		}

		fmt.Println(assembled.Text)
		return nil
	},
}

func init() {
	contextCmd.Flags().StringVar(&contextUser, "user", "", "user ID (required)")
	contextCmd.Flags().StringVar(&contextQuery, "query", "", "current question to include as session context")
	contextCmd.Flags().BoolVar(&contextJSON, "json", false, "print sectioned JSON instead of prompt text")
	_ = contextCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(contextCmd)
}
