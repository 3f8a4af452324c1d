package main

import (
	"github.com/spf13/cobra"

	"github.com/stateforward/go-fsm/internal/logging"
	"github.com/stateforward/go-fsm/pkg/plantuml"
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Print the demo machine as a PlantUML state diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCharacter(logging.NewNop())
		return plantuml.Generate(cmd.OutOrStdout(), c.machine.Describe())
	},
}

func init() {
	rootCmd.AddCommand(diagramCmd)
}
