package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/savannahworks/uliza"
	"github.com/savannahworks/uliza/pkg/menus"
)

var dialCmd = &cobra.Command{
	Use:   "dial [service-code]",
	Short: "Walk a menu interactively in the terminal",
	Long:  `Emulates a handset dialing a service code: screens print to stdout and each line of stdin is one keypress. Sessions live in memory with sample data.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := menus.CodeWildlife
		if len(args) > 0 {
			code = args[0]
		}

		eng, err := uliza.New(menus.NewRegistry(menus.SampleProviders()))
		if err != nil {
			return err
		}

		fmt.Printf("Dialing %s (ctrl-d hangs up)\n\n", code)
		d := uliza.NewDialer(code)
		d.Input = os.Stdin
		d.Output = os.Stdout
		return d.Run(cmd.Context(), eng)
	},
}

func init() {
	rootCmd.AddCommand(dialCmd)
}
