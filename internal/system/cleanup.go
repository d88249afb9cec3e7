package system

import (
	"time"

	"github.com/l1jgo/objpool/internal/core/event"
	"github.com/l1jgo/objpool/internal/core/pool"
	coresys "github.com/l1jgo/objpool/internal/core/system"
)

// CompactSystem flushes queued removals and reclaims condemned slots at tick
// end once at least threshold of them have accumulated. Phase 5 (Cleanup).
type CompactSystem struct {
	pool      *pool.Pool
	bus       *event.Bus
	threshold int
}

func NewCompactSystem(p *pool.Pool, bus *event.Bus, threshold int) *CompactSystem {
	return &CompactSystem{pool: p, bus: bus, threshold: threshold}
}

func (s *CompactSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CompactSystem) Update(_ time.Duration) {
	s.pool.FlushRemovals()

	condemned := s.pool.Condemned()
	if condemned == 0 || condemned < s.threshold {
		return
	}
	s.pool.Compact()
	event.Emit(s.bus, event.PoolCompacted{Live: s.pool.Len(), Reclaimed: condemned})
}
