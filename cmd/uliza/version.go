package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/savannahworks/uliza"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of uliza",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("uliza version %s\n", strings.TrimSpace(uliza.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
