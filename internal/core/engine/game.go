package engine

import (
	"github.com/zeusync/deimos/internal/core/lifecycle"
	"github.com/zeusync/deimos/internal/core/scene"
)

// Game is the content the engine runs.
type Game interface {
	// Load builds the initial content and registers its components. A
	// failure ends the run.
	Load(r Registrar) error
	CurrentScene() scene.Scene
	// Renderer returns the attached renderer, or ErrRendererNotAttached.
	Renderer() (scene.Renderer, error)
}

// Registrar is the part of the engine handed to game content. Components
// keep it to spawn or stop other components at any time, including from
// inside their own hooks.
type Registrar interface {
	InitComponent(c lifecycle.Component) error
	StopComponent(c lifecycle.Component) error
}
