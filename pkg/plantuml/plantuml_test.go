package plantuml_test

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stateforward/go-fsm/internal/logging"
	"github.com/stateforward/go-fsm/pkg/plantuml"
)

type door int

const (
	closed door = iota
	opening
	open
	locked
)

func (d door) String() string {
	return [...]string{"closed", "opening", "open", "locked (bolted)"}[d]
}

func TestGenerate(t *testing.T) {
	m := fsm.New(closed, fsm.WithLogger(logging.NewNop()))
	m.AddConditionalTransition(closed, opening, func() bool { return false })
	m.AddConditionalTransition(closed, locked, func() bool { return false })
	m.AddTimedTransition(opening, open, 2*time.Second)

	var buf bytes.Buffer
	require.NoError(t, plantuml.Generate(&buf, m.Describe()))
	assert.Equal(t, "@startuml "+m.ID()+`
state closed
state opening
state open
state "locked (bolted)" as locked__bolted
[*] --> closed
closed --> opening : when #1
closed --> locked__bolted : when #2
opening -[dashed]-> open : after 2s
@enduml
`, buf.String())

	require.NoError(t, plantuml.Generate(os.Stdout, m.Describe()))
}
