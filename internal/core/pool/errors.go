package pool

import "errors"

var (
	// ErrObjectNotFound is returned for ids that were never created or were
	// already removed.
	ErrObjectNotFound = errors.New("object not found")

	// ErrUpdateInProgress is returned by Remove while UpdateAll is walking the
	// dense slots. Use MarkForRemoval from inside a behaviour instead.
	ErrUpdateInProgress = errors.New("pool update in progress")
)
