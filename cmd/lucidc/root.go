package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lucidc",
		Short:         "lucidc compiles lucid source to LLVM IR",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	showVersion := root.Flags().Bool("version", false, "print version and exit")
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if *showVersion {
			fmt.Printf("lucidc version %s\n", version)
			return nil
		}
		return cmd.Help()
	}

	root.AddCommand(newBuildCmd())
	return root
}
