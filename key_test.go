package fsm_test

import (
	"math"
	"testing"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stretchr/testify/assert"
)

func TestTransitionKey(t *testing.T) {
	key := fsm.TransitionKey(Walking, Stunned)
	assert.Equal(t, uint64(Stunned)<<32|uint64(Walking), key)
	assert.NotEqual(t, key, fsm.TransitionKey(Stunned, Walking), "keys are ordered")

	from, to := fsm.SplitTransitionKey[state](key)
	assert.Equal(t, Walking, from)
	assert.Equal(t, Stunned, to)
}

func TestTransitionKeySigned(t *testing.T) {
	type signed int16
	key := fsm.TransitionKey[signed](-3, 7)
	from, to := fsm.SplitTransitionKey[signed](key)
	assert.Equal(t, signed(-3), from)
	assert.Equal(t, signed(7), to)
}

func TestTransitionKeyWide(t *testing.T) {
	type wide uint32
	key := fsm.TransitionKey[wide](math.MaxUint32, 1)
	assert.Equal(t, uint64(1)<<32|math.MaxUint32, key)
	from, to := fsm.SplitTransitionKey[wide](key)
	assert.Equal(t, wide(math.MaxUint32), from)
	assert.Equal(t, wide(1), to)
}

func TestTransitionKeyPlatformInts(t *testing.T) {
	type unsigned uint
	key := fsm.TransitionKey[unsigned](3_000_000_000, math.MaxUint32)
	from, to := fsm.SplitTransitionKey[unsigned](key)
	assert.Equal(t, unsigned(3_000_000_000), from)
	assert.Equal(t, unsigned(math.MaxUint32), to)

	type signed int
	key = fsm.TransitionKey[signed](-5, math.MaxInt32)
	sfrom, sto := fsm.SplitTransitionKey[signed](key)
	assert.Equal(t, signed(-5), sfrom)
	assert.Equal(t, signed(math.MaxInt32), sto)
}
