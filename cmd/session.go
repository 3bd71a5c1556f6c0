package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finsight/advisor-cli/internal/model"
)

var sessionUser string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage session context",
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Record a foundational answer for the current session",
	Long: `Records one foundational answer. Session answers shadow the account
profile for the rest of the session.

Fields: financial_philosophy, risk_tolerance, primary_goal, goal_timeline,
life_stage, emergency_fund_status.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := st.GetSession(ctx, sessionUser)
		if err != nil {
			return err
		}
		if session == nil {
			session = &model.SessionContext{UserID: sessionUser}
		}

		if !session.Foundational.Set(args[0], args[1]) {
			return eris.Errorf("unknown session field %q", args[0])
		}
		if err := st.PutSession(ctx, session); err != nil {
			return err
		}

		zap.L().Info("session field set",
			zap.String("user_id", sessionUser),
			zap.String("field", args[0]),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(session)
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the user's session context",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ClearSession(ctx, sessionUser); err != nil {
			return err
		}

		zap.L().Info("session cleared", zap.String("user_id", sessionUser))
		return nil
	},
}

func init() {
	sessionCmd.PersistentFlags().StringVar(&sessionUser, "user", "", "user ID (required)")
	_ = sessionCmd.MarkPersistentFlagRequired("user")
	sessionCmd.AddCommand(sessionSetCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}
