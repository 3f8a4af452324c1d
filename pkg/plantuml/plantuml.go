// Package plantuml renders the configured transitions of a machine as a
// PlantUML state diagram.
package plantuml

import (
	"fmt"
	"io"
	"strings"

	"github.com/stateforward/go-fsm/embedded"
	"github.com/stateforward/go-fsm/kinds"
)

var replacer = strings.NewReplacer(" ", "_", "-", "_", "/", "_", ".", "_", "(", "_", ")", "")

func id(name string) string {
	return replacer.Replace(name)
}

func generateTransition(builder *strings.Builder, edge embedded.Edge) {
	arrow := "-->"
	if kinds.IsKind(edge.Kind, kinds.Timed) {
		arrow = "-[dashed]->"
	}
	label := ""
	if edge.Label != "" {
		label = fmt.Sprintf(" : %s", edge.Label)
	}
	fmt.Fprintf(builder, "%s %s %s%s\n", id(edge.Source), arrow, id(edge.Target), label)
}

func Generate(writer io.Writer, model embedded.Model) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "@startuml %s\n", model.Id())
	for _, state := range model.States() {
		if id(state) != state {
			fmt.Fprintf(&builder, "state \"%s\" as %s\n", state, id(state))
		} else {
			fmt.Fprintf(&builder, "state %s\n", state)
		}
	}
	if current := model.Current(); current != "" {
		fmt.Fprintf(&builder, "[*] --> %s\n", id(current))
	}
	for _, edge := range model.Edges() {
		generateTransition(&builder, edge)
	}
	fmt.Fprintln(&builder, "@enduml")
	_, err := io.WriteString(writer, builder.String())
	return err
}
