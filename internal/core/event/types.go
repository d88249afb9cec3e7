package event

import "github.com/l1jgo/objpool/internal/core/pool"

// ObjectSpawned is emitted when the spawn system creates an object.
type ObjectSpawned struct {
	ID   pool.ObjectID
	Kind string
}

// ObjectExpired is emitted when a lifetime runs out and the object is queued
// for removal.
type ObjectExpired struct {
	ID   pool.ObjectID
	Kind string
}

// PoolCompacted is emitted after condemned slots were reclaimed.
type PoolCompacted struct {
	Live      int
	Reclaimed int
}
