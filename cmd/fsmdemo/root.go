package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fsmdemo",
	Short: "fsmdemo drives a sample state machine",
	Long:  `fsmdemo runs a scripted character machine on a fixed tick rate and renders its transitions.`,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file read before the environment")
}
