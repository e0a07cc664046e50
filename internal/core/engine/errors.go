package engine

import (
	"errors"

	"github.com/zeusync/deimos/internal/core/registry"
)

var (
	ErrAlreadyStarted      = errors.New("engine can only be started once")
	ErrNilGame             = errors.New("game is nil")
	ErrNilComponent        = registry.ErrNilComponent
	ErrNotRunning          = errors.New("engine is not running")
	ErrRendererNotAttached = errors.New("renderer not attached")
	ErrNoScene             = errors.New("game has no current scene")
)
