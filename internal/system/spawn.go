package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/objpool/internal/behavior"
	"github.com/l1jgo/objpool/internal/core/event"
	"github.com/l1jgo/objpool/internal/core/pool"
	coresys "github.com/l1jgo/objpool/internal/core/system"
	"github.com/l1jgo/objpool/internal/data"
)

type spawnState struct {
	entry   data.SpawnEntry
	elapsed time.Duration
	fired   bool
}

// SpawnSystem creates objects from the spawn table. Every entry spawns on the
// first tick; entries with a respawn delay spawn again each time it elapses.
// Phase 3 (PostUpdate).
type SpawnSystem struct {
	pool    *pool.Pool
	bus     *event.Bus
	factory *behavior.Factory
	spawns  []spawnState
	log     *zap.Logger
}

// NewSpawnSystem checks every entry against the factory up front, so a bad
// kind or a missing script fails at startup instead of mid-batch.
func NewSpawnSystem(p *pool.Pool, bus *event.Bus, factory *behavior.Factory, entries []data.SpawnEntry, log *zap.Logger) (*SpawnSystem, error) {
	s := &SpawnSystem{pool: p, bus: bus, factory: factory, log: log}
	for i := range entries {
		if _, err := factory.Build(&entries[i]); err != nil {
			return nil, fmt.Errorf("spawn entry %d: %w", i, err)
		}
		s.spawns = append(s.spawns, spawnState{entry: entries[i]})
	}
	return s, nil
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SpawnSystem) Update(dt time.Duration) {
	for i := range s.spawns {
		st := &s.spawns[i]
		if st.fired {
			if st.entry.RespawnMs == 0 {
				continue
			}
			st.elapsed += dt
			if st.elapsed < st.entry.RespawnDelay() {
				continue
			}
		}
		// A batch that could not build anything stays unfired and is retried
		// next tick.
		if s.spawn(&st.entry) == 0 && st.entry.Count > 0 {
			continue
		}
		st.fired = true
		st.elapsed = 0
	}
}

// spawn creates up to entry.Count objects and returns how many were created.
// Behaviours are built before any object is created, so a failing batch
// leaves the pool untouched.
func (s *SpawnSystem) spawn(entry *data.SpawnEntry) int {
	behaviors := make([]pool.Behavior, 0, entry.Count)
	for n := 0; n < entry.Count; n++ {
		b, err := s.factory.Build(entry)
		if err != nil {
			s.log.Error("spawn failed", zap.String("spawn", entry.Name), zap.Error(err))
			return 0
		}
		behaviors = append(behaviors, b)
	}
	for _, b := range behaviors {
		obj := s.pool.Create(b)
		event.Emit(s.bus, event.ObjectSpawned{ID: obj.ID(), Kind: entry.Name})
	}
	return len(behaviors)
}
