package system

import (
	"time"

	"github.com/l1jgo/objpool/internal/core/pool"
	coresys "github.com/l1jgo/objpool/internal/core/system"
)

// PoolUpdateSystem runs the pool's full update pass. Phase 2 (Update).
type PoolUpdateSystem struct {
	pool *pool.Pool
}

func NewPoolUpdateSystem(p *pool.Pool) *PoolUpdateSystem {
	return &PoolUpdateSystem{pool: p}
}

func (s *PoolUpdateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PoolUpdateSystem) Update(dt time.Duration) {
	s.pool.UpdateAll(dt)
}
