package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func getAppVersion() string {
	bi, ok := debug.ReadBuildInfo()

	if !ok {
		return "devel"
	}

	return bi.Main.Version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "golfmemo %s\n", getAppVersion())
	},
}
