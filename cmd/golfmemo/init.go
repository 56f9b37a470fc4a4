package main

import (
	"fmt"
	"os"

	"github.com/go-generalize/golf-score-memo/config"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return xerrors.Errorf("%s already exists (use --force to overwrite)", configPath)
		}

		if err := config.Save(configPath, cfg); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), configPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
}
