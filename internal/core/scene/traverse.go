// Package scene walks a tree of renderable entities on behalf of a
// Renderer.
package scene

import "github.com/rotisserie/eris"

// Traverse renders every root of s in order. Each root is bracketed by
// StartRendering and EndRendering. The first failure aborts the traversal;
// EndRendering is not called for the root that failed.
func Traverse(s Scene, r Renderer) error {
	for i, root := range s.Roots() {
		if err := r.StartRendering(); err != nil {
			return eris.Wrapf(err, "start rendering root %d", i)
		}
		if _, err := Visit(root, r); err != nil {
			return eris.Wrapf(err, "render root %d", i)
		}
		if err := r.EndRendering(); err != nil {
			return eris.Wrapf(err, "end rendering root %d", i)
		}
	}
	return nil
}

// Visit walks one subtree depth-first, pre-order. A node rejected by
// PreRenderFilter is neither visited nor descended into; a node whose
// RenderVisitNode returns false is visited but its children are not. The
// returned bool reports whether e itself was eligible.
func Visit(e Entity, r Renderer) (bool, error) {
	if !r.PreRenderFilter(e) {
		return false, nil
	}
	descend, err := r.RenderVisitNode(e)
	if err != nil {
		return true, err
	}
	if !descend {
		return true, nil
	}
	for _, child := range e.Children() {
		if _, err := Visit(child, r); err != nil {
			return true, err
		}
	}
	return true, nil
}
