package engine

import "sync/atomic"

type Stage string

const (
	Unstarted    Stage = "Unstarted"    // constructed, game not loaded yet
	Initializing Stage = "Initializing" // game.Load is running
	Running      Stage = "Running"      // ticking and rendering
	Stopping     Stage = "Stopping"     // cleanup hooks are running
	Stopped      Stage = "Stopped"      // terminal
)

func (s Stage) String() string { return string(s) }

// StageManager holds the current Stage. It may be read from any goroutine.
type StageManager struct {
	current atomic.Value
}

func NewStageManager() *StageManager {
	m := &StageManager{}
	m.current.Store(Unstarted)
	return m
}

func (m *StageManager) Current() Stage {
	return m.current.Load().(Stage)
}

func (m *StageManager) CompareAndSwap(oldStage, newStage Stage) (swapped bool) {
	return m.current.CompareAndSwap(oldStage, newStage)
}

func (m *StageManager) Swap(newStage Stage) (oldStage Stage) {
	return m.current.Swap(newStage).(Stage)
}
