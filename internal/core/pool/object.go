package pool

import (
	"sync/atomic"
	"time"
)

// ObjectID is the process-unique identity of a GameObject. Zero is never
// assigned.
type ObjectID uint64

// lastObjectID is shared by every Pool in the process and only ever grows.
var lastObjectID atomic.Uint64

func nextObjectID() ObjectID {
	return ObjectID(lastObjectID.Add(1))
}

// Behavior is the per-tick hook of a GameObject.
type Behavior interface {
	Update(obj *GameObject, dt time.Duration)
}

// BehaviorFunc adapts a plain function to Behavior.
type BehaviorFunc func(obj *GameObject, dt time.Duration)

func (f BehaviorFunc) Update(obj *GameObject, dt time.Duration) { f(obj, dt) }

// GameObject is one updatable unit owned by a Pool. Only Pool.Create builds
// them; callers hold the pointer but the pool decides its lifetime.
type GameObject struct {
	id       ObjectID
	behavior Behavior
}

func newGameObject(b Behavior) *GameObject {
	return &GameObject{id: nextObjectID(), behavior: b}
}

func (o *GameObject) ID() ObjectID { return o.id }

// Behavior returns the hook the object was created with (may be nil).
func (o *GameObject) Behavior() Behavior { return o.behavior }

// Update runs the behaviour hook once.
func (o *GameObject) Update(dt time.Duration) {
	if o.behavior != nil {
		o.behavior.Update(o, dt)
	}
}
