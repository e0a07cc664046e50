// Package trace provides a headless renderer that records and logs every
// node it is asked to render.
package trace

import (
	"fmt"
	"sync"

	"github.com/zeusync/deimos/internal/core/observability/log"
	"github.com/zeusync/deimos/internal/core/scene"
)

var _ scene.Renderer = (*Renderer)(nil)

type Option func(*Renderer)

// WithFilter sets the eligibility predicate. Nodes it rejects are skipped
// together with their subtree.
func WithFilter(fn func(scene.Entity) bool) Option {
	return func(r *Renderer) { r.filter = fn }
}

// WithDescend decides whether the children of a rendered node are
// visited.
func WithDescend(fn func(scene.Entity) bool) Option {
	return func(r *Renderer) { r.descend = fn }
}

// WithKeep bounds the recording to the n most recent visits.
func WithKeep(n int) Option {
	return func(r *Renderer) { r.keep = n }
}

func WithLogger(l log.Log) Option {
	return func(r *Renderer) { r.logger = l }
}

// Renderer records every visited node until Reset is called.
type Renderer struct {
	logger  log.Log
	filter  func(scene.Entity) bool
	descend func(scene.Entity) bool
	keep    int

	mu      sync.Mutex
	passes  int
	visited []scene.Entity
}

func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Nop()
	}
	return r
}

func (r *Renderer) StartRendering() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passes++
	return nil
}

func (r *Renderer) EndRendering() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.Debug("root rendered", log.Int("visited", len(r.visited)), log.Int("pass", r.passes))
	return nil
}

func (r *Renderer) PreRenderFilter(e scene.Entity) bool {
	if r.filter == nil {
		return true
	}
	return r.filter(e)
}

func (r *Renderer) RenderVisitNode(e scene.Entity) (bool, error) {
	r.mu.Lock()
	r.visited = append(r.visited, e)
	if r.keep > 0 && len(r.visited) >= 2*r.keep {
		r.visited = append(r.visited[:0], r.visited[len(r.visited)-r.keep:]...)
	}
	r.mu.Unlock()

	r.logger.Debug("visit", log.String("node", name(e)))
	if r.descend == nil {
		return true, nil
	}
	return r.descend(e), nil
}

// Visited returns the recorded nodes in visit order, oldest first.
func (r *Renderer) Visited() []scene.Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	visited := r.visited
	if r.keep > 0 && len(visited) > r.keep {
		visited = visited[len(visited)-r.keep:]
	}
	return append([]scene.Entity(nil), visited...)
}

// Names is Visited mapped through the node names.
func (r *Renderer) Names() []string {
	visited := r.Visited()
	names := make([]string, len(visited))
	for i, e := range visited {
		names[i] = name(e)
	}
	return names
}

// Reset forgets the recorded nodes. The pass counter is kept.
func (r *Renderer) Reset() {
	r.mu.Lock()
	r.visited = nil
	r.mu.Unlock()
}

// Passes counts StartRendering calls, one per root per frame.
func (r *Renderer) Passes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes
}

func name(e scene.Entity) string {
	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", e)
}
