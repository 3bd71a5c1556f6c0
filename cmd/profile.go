package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var profileUser string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage account profiles",
}

var profileGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print a user's account profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		profile, err := st.GetProfile(ctx, profileUser)
		if err != nil {
			return err
		}
		if profile == nil {
			zap.L().Info("no profile found", zap.String("user_id", profileUser))
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set a profile field as an explicit user edit",
	Long: `Sets one tracked preference field and marks it explicitly confirmed now.

Tracked fields: default_financial_philosophy, default_risk_tolerance,
primary_goal, goal_timeline, life_stage, emergency_fund_status,
optimization_focus.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		profile, err := st.SetProfileField(ctx, profileUser, args[0], args[1])
		if err != nil {
			return err
		}

		zap.L().Info("profile field set",
			zap.String("user_id", profileUser),
			zap.String("field", args[0]),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	},
}

func init() {
	profileCmd.PersistentFlags().StringVar(&profileUser, "user", "", "user ID (required)")
	_ = profileCmd.MarkPersistentFlagRequired("user")
	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}
