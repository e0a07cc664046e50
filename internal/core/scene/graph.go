package scene

import "slices"

var _ Scene = (*Graph)(nil)

// Graph is a Scene holding an ordered list of roots.
type Graph struct {
	roots []Entity
}

func NewGraph(roots ...Entity) *Graph {
	return &Graph{roots: slices.Clone(roots)}
}

func (g *Graph) Roots() []Entity {
	return slices.Clip(g.roots)
}

func (g *Graph) AddRoot(e Entity) {
	g.roots = append(g.roots, e)
}

func (g *Graph) RemoveRoot(e Entity) bool {
	i := slices.Index(g.roots, e)
	if i < 0 {
		return false
	}
	g.roots = slices.Delete(g.roots, i, i+1)
	return true
}

// Count returns the number of entities across all roots.
func (g *Graph) Count() int {
	n := 0
	for _, root := range g.roots {
		Walk(root, func(Entity, int) bool {
			n++
			return true
		})
	}
	return n
}
