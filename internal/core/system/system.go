package system

import "time"

// Phase orders systems within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: external requests
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: pool update pass
	PhasePostUpdate              // 3: spawns
	PhaseOutput                  // 4: reporting
	PhaseCleanup                 // 5: queued removals + compaction
)

var phaseNames = [...]string{"input", "pre_update", "update", "post_update", "output", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is run once per tick by the Runner.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
