package pool

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultCapacity is the number of slots reserved by New when no capacity
// option is given.
const DefaultCapacity = 1024

type slotEntry struct {
	index int
	obj   *GameObject
}

// Pool owns a set of GameObjects. The directory is the only owner; dense is a
// packed, non-owning view used for iteration. Slots dense[:live] are live,
// dense[live:] are condemned (nil) until Compact truncates them.
//
// A Pool is not safe for concurrent use. It is driven from the game loop
// goroutine only.
type Pool struct {
	directory map[ObjectID]slotEntry
	dense     []*GameObject
	live      int

	updating    bool
	removeQueue []ObjectID
	log         *zap.Logger
}

// Option configures a Pool at construction.
type Option func(*Pool)

// WithCapacity reserves room for n objects up front.
func WithCapacity(n int) Option {
	return func(p *Pool) {
		if n < 0 {
			n = 0
		}
		p.directory = make(map[ObjectID]slotEntry, n)
		p.dense = make([]*GameObject, 0, n)
	}
}

// WithLogger sets the logger used for compaction and removal diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}

func New(opts ...Option) *Pool {
	p := &Pool{
		directory:   make(map[ObjectID]slotEntry, DefaultCapacity),
		dense:       make([]*GameObject, 0, DefaultCapacity),
		removeQueue: make([]ObjectID, 0, 64),
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Create builds a new object around b and registers it. The first condemned
// slot is reused when one exists, otherwise the dense slice grows by one.
//
// Create may be called from a behaviour during UpdateAll: the new object lands
// past the slots being walked and is first updated on the next pass.
func (p *Pool) Create(b Behavior) *GameObject {
	obj := newGameObject(b)

	idx := p.live
	if len(p.dense) > p.live {
		p.dense[idx] = obj
	} else {
		p.dense = append(p.dense, obj)
	}
	p.live++

	p.directory[obj.id] = slotEntry{index: idx, obj: obj}
	return obj
}

// Get returns the object registered under id.
func (p *Pool) Get(id ObjectID) (*GameObject, error) {
	e, ok := p.directory[id]
	if !ok {
		return nil, fmt.Errorf("get object %d: %w", id, ErrObjectNotFound)
	}
	return e.obj, nil
}

// MustGet is like Get but panics when id is not registered.
func (p *Pool) MustGet(id ObjectID) *GameObject {
	obj, err := p.Get(id)
	if err != nil {
		panic(err)
	}
	return obj
}

func (p *Pool) Has(id ObjectID) bool {
	_, ok := p.directory[id]
	return ok
}

// Remove unregisters id in O(1). The last live object is moved into the freed
// slot and the old tail slot is condemned; the dense slice never shrinks here.
func (p *Pool) Remove(id ObjectID) error {
	if p.updating {
		return fmt.Errorf("remove object %d: %w", id, ErrUpdateInProgress)
	}
	e, ok := p.directory[id]
	if !ok {
		return fmt.Errorf("remove object %d: %w", id, ErrObjectNotFound)
	}
	p.removeAt(id, e.index)
	return nil
}

func (p *Pool) removeAt(id ObjectID, idx int) {
	if p.live == 1 {
		p.dense[0] = nil
		delete(p.directory, id)
		p.live = 0
		return
	}

	last := p.live - 1
	p.dense[idx] = p.dense[last]
	p.dense[last] = nil
	p.live--
	delete(p.directory, id)

	// Re-point the object that moved from the tail. When idx was the tail
	// itself, dense[idx] is now nil and nothing moved.
	if moved := p.dense[idx]; moved != nil {
		p.directory[moved.id] = slotEntry{index: idx, obj: moved}
	}
}

// MarkForRemoval queues id for removal after the current update pass, or at
// the next FlushRemovals call when no pass is running.
func (p *Pool) MarkForRemoval(id ObjectID) {
	p.removeQueue = append(p.removeQueue, id)
}

// FlushRemovals removes every queued id that is still registered and returns
// how many were removed. It does nothing while an update pass is running.
func (p *Pool) FlushRemovals() int {
	if p.updating {
		return 0
	}
	removed := 0
	for _, id := range p.removeQueue {
		e, ok := p.directory[id]
		if !ok {
			continue // removed directly, or queued twice
		}
		p.removeAt(id, e.index)
		removed++
	}
	p.removeQueue = p.removeQueue[:0]
	if removed > 0 {
		p.log.Debug("flushed queued removals",
			zap.Int("removed", removed),
			zap.Int("live", p.live))
	}
	return removed
}

// Pending returns the number of queued removals.
func (p *Pool) Pending() int { return len(p.removeQueue) }

// UpdateAll calls Update on every live object in slot order, then applies
// removals queued during the pass. Re-entrant calls from a behaviour are
// ignored.
func (p *Pool) UpdateAll(dt time.Duration) {
	if p.updating {
		return
	}
	p.updating = true
	defer func() {
		p.updating = false
		p.FlushRemovals()
	}()
	n := p.live
	for i := 0; i < n; i++ {
		p.dense[i].Update(dt)
	}
}

// Compact drops the condemned tail so the dense slice holds exactly the live
// objects. Reserved capacity is kept for later Create calls.
func (p *Pool) Compact() {
	if p.updating {
		return
	}
	condemned := len(p.dense) - p.live
	if condemned == 0 {
		return
	}
	clear(p.dense[p.live:])
	p.dense = p.dense[:p.live]
	p.log.Debug("pool compacted",
		zap.Int("reclaimed", condemned),
		zap.Int("live", p.live))
}

// Len returns the number of live objects.
func (p *Pool) Len() int { return p.live }

// Slots returns the length of the dense slice, condemned slots included.
func (p *Pool) Slots() int { return len(p.dense) }

// Condemned returns the number of slots waiting for Compact.
func (p *Pool) Condemned() int { return len(p.dense) - p.live }

// Each calls fn for every live object in slot order. fn must not add or
// remove objects.
func (p *Pool) Each(fn func(*GameObject)) {
	for _, obj := range p.dense[:p.live] {
		fn(obj)
	}
}
