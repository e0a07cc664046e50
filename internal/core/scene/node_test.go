package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeAddChild(t *testing.T) {
	parent, child := NewNode("parent", nil), NewNode("child", nil)
	require.NoError(t, parent.AddChild(child))
	assert.Same(t, parent, child.Parent())
	assert.Equal(t, []Entity{child}, parent.Children())
	assert.NotEqual(t, parent.ID(), child.ID())

	assert.ErrorIs(t, parent.AddChild(nil), ErrNilNode)
	assert.ErrorIs(t, NewNode("other", nil).AddChild(child), ErrHasParent)
}

func TestNodeAddChildRejectsCycles(t *testing.T) {
	a, b, c := NewNode("a", nil), NewNode("b", nil), NewNode("c", nil)
	require.NoError(t, a.AddChild(b))
	require.NoError(t, b.AddChild(c))

	assert.ErrorIs(t, c.AddChild(c), ErrCycle)

	root := NewNode("root", nil)
	require.NoError(t, root.AddChild(a))
	assert.ErrorIs(t, c.AddChild(root), ErrCycle)
}

func TestNodeRemoveChild(t *testing.T) {
	parent := NewNode("parent", nil)
	a, b := NewNode("a", nil), NewNode("b", nil)
	require.NoError(t, parent.AddChild(a))
	require.NoError(t, parent.AddChild(b))

	assert.True(t, parent.RemoveChild(a))
	assert.False(t, parent.RemoveChild(a))
	assert.Nil(t, a.Parent())
	assert.Equal(t, []Entity{b}, parent.Children())

	require.NoError(t, b.AddChild(a), "detached nodes can be re-parented")
}

func TestNodeFindAndTags(t *testing.T) {
	root := tree(t)
	d, ok := root.Find("D")
	require.True(t, ok)
	assert.Equal(t, "D", d.String())

	_, ok = root.Find("missing")
	assert.False(t, ok)

	d.AddTag("occluder")
	assert.True(t, d.HasTag("occluder"))
	d.RemoveTag("occluder")
	assert.False(t, d.HasTag("occluder"))
}

func TestWalkDepthAndEarlyExit(t *testing.T) {
	depths := map[string]int{}
	Walk(tree(t), func(e Entity, depth int) bool {
		depths[e.(*Node).Name] = depth
		return true
	})
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 1, "D": 2, "E": 2}, depths)

	var order []string
	Walk(tree(t), func(e Entity, _ int) bool {
		order = append(order, e.(*Node).Name)
		return e.(*Node).Name != "D"
	})
	assert.Equal(t, []string{"A", "B", "D"}, order)
}

func TestGraphRoots(t *testing.T) {
	a, b := NewNode("a", nil), NewNode("b", nil)
	g := NewGraph(a)
	g.AddRoot(b)
	assert.Equal(t, []Entity{a, b}, g.Roots())
	assert.Equal(t, 2, g.Count())

	assert.True(t, g.RemoveRoot(a))
	assert.False(t, g.RemoveRoot(a))
	assert.Equal(t, []Entity{b}, g.Roots())
}
