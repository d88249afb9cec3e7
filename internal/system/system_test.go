package system

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/objpool/internal/behavior"
	"github.com/l1jgo/objpool/internal/core/event"
	"github.com/l1jgo/objpool/internal/core/pool"
	coresys "github.com/l1jgo/objpool/internal/core/system"
	"github.com/l1jgo/objpool/internal/data"
)

const tick = 200 * time.Millisecond

type harness struct {
	pool   *pool.Pool
	bus    *event.Bus
	runner *coresys.Runner
}

func newHarness(t *testing.T, entries []data.SpawnEntry, threshold int) *harness {
	t.Helper()
	p := pool.New(pool.WithCapacity(16))
	bus := event.NewBus()
	f := &behavior.Factory{Pool: p, Bus: bus}

	spawnSys, err := NewSpawnSystem(p, bus, f, entries, zap.NewNop())
	require.NoError(t, err)

	r := coresys.NewRunner()
	r.Register(NewCompactSystem(p, bus, threshold))
	r.Register(spawnSys)
	r.Register(NewPoolUpdateSystem(p))
	r.Register(NewEventDispatchSystem(bus))
	return &harness{pool: p, bus: bus, runner: r}
}

func TestSpawnOnceAndRespawn(t *testing.T) {
	h := newHarness(t, []data.SpawnEntry{
		{Name: "static", Kind: "counter", Count: 2},
		{Name: "wave", Kind: "counter", Count: 1, RespawnMs: 600},
	}, 0)

	h.runner.Tick(tick)
	assert.Equal(t, 3, h.pool.Len())

	h.runner.Tick(tick) // elapsed 200
	h.runner.Tick(tick) // elapsed 400
	assert.Equal(t, 3, h.pool.Len())

	h.runner.Tick(tick) // elapsed 600: respawn
	assert.Equal(t, 4, h.pool.Len())
}

func TestSpawnEventsDeliveredNextTick(t *testing.T) {
	h := newHarness(t, []data.SpawnEntry{{Name: "static", Kind: "counter", Count: 2}}, 0)
	var spawned []event.ObjectSpawned
	event.Subscribe(h.bus, func(ev event.ObjectSpawned) { spawned = append(spawned, ev) })

	h.runner.Tick(tick)
	assert.Empty(t, spawned)

	h.runner.Tick(tick)
	require.Len(t, spawned, 2)
	for _, ev := range spawned {
		assert.Equal(t, "static", ev.Kind)
		assert.True(t, h.pool.Has(ev.ID))
	}
}

func TestExpiredObjectsAreCompacted(t *testing.T) {
	h := newHarness(t, []data.SpawnEntry{
		{Name: "spark", Kind: "lifetime", Count: 3, TTLMs: 300},
		{Name: "anchor", Kind: "counter", Count: 1},
	}, 3)
	var compacted []event.PoolCompacted
	event.Subscribe(h.bus, func(ev event.PoolCompacted) { compacted = append(compacted, ev) })

	h.runner.Tick(tick) // spawn, not yet updated
	assert.Equal(t, 4, h.pool.Len())

	h.runner.Tick(tick) // ttl 100 left
	assert.Equal(t, 4, h.pool.Len())

	h.runner.Tick(tick) // sparks expire and are compacted in cleanup
	assert.Equal(t, 1, h.pool.Len())
	assert.Equal(t, 1, h.pool.Slots())

	h.runner.Tick(tick)
	require.Len(t, compacted, 1)
	assert.Equal(t, event.PoolCompacted{Live: 1, Reclaimed: 3}, compacted[0])
}

func TestCompactThreshold(t *testing.T) {
	p := pool.New()
	bus := event.NewBus()
	s := NewCompactSystem(p, bus, 2)

	a := p.Create(nil)
	b := p.Create(nil)
	p.Create(nil)

	p.MarkForRemoval(a.ID())
	s.Update(tick)
	assert.Equal(t, 1, p.Condemned(), "below threshold, slots kept")

	require.NoError(t, p.Remove(b.ID()))
	s.Update(tick)
	assert.Zero(t, p.Condemned())
	assert.Equal(t, 1, p.Slots())
	assert.Equal(t, 1, bus.Pending())
}

// flakyScripts resolves every script to a counter unless down is set.
type flakyScripts struct {
	down bool
}

func (f *flakyScripts) Behavior(name string) (pool.Behavior, error) {
	if f.down {
		return nil, errors.New("lua function " + name + " not found")
	}
	return &behavior.Counter{}, nil
}

func TestNewSpawnSystemRejectsBadEntries(t *testing.T) {
	p := pool.New()
	f := &behavior.Factory{Pool: p}

	_, err := NewSpawnSystem(p, event.NewBus(), f, []data.SpawnEntry{
		{Name: "ok", Kind: "counter", Count: 1},
		{Name: "bad", Kind: "teleporter", Count: 1},
	}, zap.NewNop())
	assert.ErrorContains(t, err, "spawn entry 1")

	_, err = NewSpawnSystem(p, event.NewBus(), f, []data.SpawnEntry{
		{Name: "drifters", Kind: "lua", Script: "drift", Count: 2},
	}, zap.NewNop())
	assert.ErrorContains(t, err, "no script engine")
}

func TestFailedBatchIsRetried(t *testing.T) {
	p := pool.New()
	bus := event.NewBus()
	scripts := &flakyScripts{}
	f := &behavior.Factory{Pool: p, Bus: bus, Scripts: scripts}

	s, err := NewSpawnSystem(p, bus, f, []data.SpawnEntry{
		{Name: "drifters", Kind: "lua", Script: "drift", Count: 3},
	}, zap.NewNop())
	require.NoError(t, err)

	scripts.down = true
	s.Update(tick)
	assert.Zero(t, p.Len(), "a failing batch creates nothing")
	assert.Zero(t, bus.Pending())

	scripts.down = false
	s.Update(tick)
	assert.Equal(t, 3, p.Len(), "a spawn-once entry is retried after a failure")

	s.Update(tick)
	assert.Equal(t, 3, p.Len())
}
