// Package behavior holds the per-object hooks the spawn table can attach to
// pool objects.
package behavior

import (
	"fmt"
	"time"

	"github.com/l1jgo/objpool/internal/core/event"
	"github.com/l1jgo/objpool/internal/core/pool"
	"github.com/l1jgo/objpool/internal/data"
)

// Counter counts how often its object was updated.
type Counter struct {
	Ticks int
}

func (c *Counter) Update(_ *pool.GameObject, _ time.Duration) {
	c.Ticks++
}

// Lifetime queues its object for removal once TTL has elapsed.
type Lifetime struct {
	Kind      string
	Remaining time.Duration

	pool    *pool.Pool
	bus     *event.Bus
	expired bool
}

func NewLifetime(kind string, ttl time.Duration, p *pool.Pool, bus *event.Bus) *Lifetime {
	return &Lifetime{Kind: kind, Remaining: ttl, pool: p, bus: bus}
}

func (l *Lifetime) Update(obj *pool.GameObject, dt time.Duration) {
	if l.expired {
		return
	}
	l.Remaining -= dt
	if l.Remaining > 0 {
		return
	}
	l.expired = true
	l.pool.MarkForRemoval(obj.ID())
	if l.bus != nil {
		event.Emit(l.bus, event.ObjectExpired{ID: obj.ID(), Kind: l.Kind})
	}
}

// ScriptSource resolves Lua-backed behaviours.
type ScriptSource interface {
	Behavior(fnName string) (pool.Behavior, error)
}

// Factory builds behaviours for spawn entries.
type Factory struct {
	Pool    *pool.Pool
	Bus     *event.Bus
	Scripts ScriptSource // may be nil when no scripts are loaded
}

// Build returns a fresh behaviour for one object of entry.
func (f *Factory) Build(entry *data.SpawnEntry) (pool.Behavior, error) {
	var b pool.Behavior
	switch entry.Kind {
	case "counter":
		b = &Counter{}
	case "lifetime":
		if entry.TTLMs == 0 {
			return nil, fmt.Errorf("spawn %s: lifetime needs ttl_ms", entry.Name)
		}
		return NewLifetime(entry.Name, entry.TTL(), f.Pool, f.Bus), nil
	case "lua":
		if f.Scripts == nil {
			return nil, fmt.Errorf("spawn %s: no script engine", entry.Name)
		}
		sb, err := f.Scripts.Behavior(entry.Script)
		if err != nil {
			return nil, fmt.Errorf("spawn %s: %w", entry.Name, err)
		}
		b = sb
	default:
		return nil, fmt.Errorf("spawn %s: unknown kind %q", entry.Name, entry.Kind)
	}

	// A ttl on a non-lifetime kind wraps the behaviour with an expiry.
	if entry.TTLMs > 0 {
		return &expiring{inner: b, life: NewLifetime(entry.Name, entry.TTL(), f.Pool, f.Bus)}, nil
	}
	return b, nil
}

type expiring struct {
	inner pool.Behavior
	life  *Lifetime
}

func (e *expiring) Update(obj *pool.GameObject, dt time.Duration) {
	e.inner.Update(obj, dt)
	e.life.Update(obj, dt)
}
