package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finsight/advisor-cli/internal/budgetio"
	"github.com/finsight/advisor-cli/internal/model"
)

var budgetUser string

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage budget documents",
}

var budgetLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a budget document from a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		budget, err := budgetio.Load(args[0])
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		record := &model.BudgetRecord{UserID: budgetUser, Budget: *budget}
		if err := st.PutBudget(ctx, record); err != nil {
			return err
		}

		zap.L().Info("budget loaded",
			zap.String("user_id", budgetUser),
			zap.String("file", args[0]),
			zap.Float64("total_income", budget.Summary.TotalIncome),
			zap.Float64("total_expenses", budget.Summary.TotalExpenses),
			zap.Float64("surplus", budget.Summary.Surplus),
		)
		return nil
	},
}

var budgetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the user's stored budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		record, err := st.GetBudget(ctx, budgetUser)
		if err != nil {
			return err
		}
		if record == nil {
			zap.L().Info("no budget found", zap.String("user_id", budgetUser))
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	},
}

func init() {
	budgetCmd.PersistentFlags().StringVar(&budgetUser, "user", "", "user ID (required)")
	_ = budgetCmd.MarkPersistentFlagRequired("user")
	budgetCmd.AddCommand(budgetLoadCmd)
	budgetCmd.AddCommand(budgetShowCmd)
	rootCmd.AddCommand(budgetCmd)
}
