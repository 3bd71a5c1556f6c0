package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	adviseUser        string
	adviseShowContext bool
)

var adviseCmd = &cobra.Command{
	Use:   "advise <question...>",
	Short: "Ask for financial advice grounded in the user's stored context",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		engine, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		query := strings.Join(args, " ")
		result, err := engine.Advise(ctx, adviseUser, query)
		if err != nil {
			return err
		}

		zap.L().Info("advice generated",
			zap.String("user_id", adviseUser),
			zap.String("model", result.Model),
			zap.Int64("input_tokens", result.Usage.InputTokens),
			zap.Int64("output_tokens", result.Usage.OutputTokens),
			zap.Float64("cost_usd", result.CostUSD),
		)

		if adviseShowContext {
			fmt.Println(result.Context)
			fmt.Println()
		}
		fmt.Println(result.Advice)
		return nil
	},
}

func init() {
	adviseCmd.Flags().StringVar(&adviseUser, "user", "", "user ID (required)")
	adviseCmd.Flags().BoolVar(&adviseShowContext, "show-context", false, "print the assembled context before the advice")
	_ = adviseCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(adviseCmd)
}
