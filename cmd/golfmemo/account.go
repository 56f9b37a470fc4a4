package main

import (
	"github.com/go-generalize/golf-score-memo/auth"
	"github.com/go-generalize/golf-score-memo/config"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account for the configured email",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Auth.Password == "" {
			return xerrors.Errorf("set %s to the new password", config.EnvPassword)
		}

		session, err := newSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		user, err := session.SignUp(cmd.Context(), cfg.Auth.Email, cfg.Auth.Password)
		if err != nil {
			cmd.PrintErrln(auth.Message(err))
			return err
		}

		cmd.Printf("アカウントを作成しました: %s\n", user.Email)
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password [email]",
	Short: "Send a password reset email",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := cfg.Auth.Email
		if len(args) == 1 {
			email = args[0]
		}

		session, err := newSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		if err := session.SendPasswordReset(cmd.Context(), email); err != nil {
			cmd.PrintErrln(auth.Message(err))
			return err
		}

		cmd.Println("パスワードリセットメールを送信しました。")
		return nil
	},
}
