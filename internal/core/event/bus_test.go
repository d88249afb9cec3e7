package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsDeliveredNextTick(t *testing.T) {
	b := NewBus()
	var got []ObjectSpawned
	Subscribe(b, func(ev ObjectSpawned) { got = append(got, ev) })

	Emit(b, ObjectSpawned{ID: 1, Kind: "counter"})
	assert.Equal(t, 1, b.Pending())
	assert.Zero(t, b.DispatchAll(), "nothing is delivered before the swap")

	b.SwapBuffers()
	require.Equal(t, 1, b.DispatchAll())
	require.Len(t, got, 1)
	assert.Equal(t, "counter", got[0].Kind)
	assert.Zero(t, b.Pending())

	// Next tick: front buffer is replaced by the now empty back buffer.
	b.SwapBuffers()
	assert.Zero(t, b.DispatchAll())
	assert.Len(t, got, 1)
}

func TestHandlersOnlySeeTheirType(t *testing.T) {
	b := NewBus()
	var spawned, compacted int
	Subscribe(b, func(ObjectSpawned) { spawned++ })
	Subscribe(b, func(ev PoolCompacted) { compacted += ev.Reclaimed })

	Emit(b, ObjectSpawned{ID: 7})
	Emit(b, PoolCompacted{Live: 3, Reclaimed: 4})
	Emit(b, ObjectExpired{ID: 7})
	b.SwapBuffers()

	assert.Equal(t, 3, b.DispatchAll())
	assert.Equal(t, 1, spawned)
	assert.Equal(t, 4, compacted)
}
