package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omoarwwa-coder/ayman-ai/utils"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a session token for the local profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		if rt.cfg.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is not set")
		}

		app, err := rt.newApp(cmd.Context(), nil)
		if err != nil {
			return err
		}
		user := app.Snapshot().User

		token, err := utils.GenerateSessionJWT(rt.cfg.SessionSecret, user.ID, user.Email)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
