package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vsariola/chime/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of chime",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.VersionOrHash)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
