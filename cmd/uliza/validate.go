package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/savannahworks/uliza/pkg/menus"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the menu trees for consistency",
	Long:  `Validates every registered menu tree: root screens exist, transitions point at real screens, terminal screens declare no transitions.`,
	Run: func(cmd *cobra.Command, args []string) {
		registry := menus.NewRegistry(menus.SampleProviders())
		if err := registry.Validate(); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		for _, code := range registry.ServiceCodes() {
			fmt.Println(code)
		}
		fmt.Println("Menus are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
