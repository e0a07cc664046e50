package scene

// Entity is a node of the renderable tree. Children must be returned in
// their declared order and the tree must not contain cycles.
type Entity interface {
	Children() []Entity
}

// Scene owns the root entities, in declared order.
type Scene interface {
	Roots() []Entity
}

// Renderer is driven by Traverse. StartRendering and EndRendering bracket
// every root. PreRenderFilter decides whether a node is considered at all;
// RenderVisitNode renders it and reports whether its children should be
// visited.
type Renderer interface {
	StartRendering() error
	EndRendering() error
	PreRenderFilter(e Entity) bool
	RenderVisitNode(e Entity) (bool, error)
}

// RendererFuncs adapts plain functions to Renderer. Nil fields fall back to
// "everything is eligible, always descend".
type RendererFuncs struct {
	Start  func() error
	End    func() error
	Filter func(Entity) bool
	Visit  func(Entity) (bool, error)
}

func (f RendererFuncs) StartRendering() error {
	if f.Start == nil {
		return nil
	}
	return f.Start()
}

func (f RendererFuncs) EndRendering() error {
	if f.End == nil {
		return nil
	}
	return f.End()
}

func (f RendererFuncs) PreRenderFilter(e Entity) bool {
	if f.Filter == nil {
		return true
	}
	return f.Filter(e)
}

func (f RendererFuncs) RenderVisitNode(e Entity) (bool, error) {
	if f.Visit == nil {
		return true, nil
	}
	return f.Visit(e)
}
