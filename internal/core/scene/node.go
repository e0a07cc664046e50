package scene

import (
	"errors"
	"slices"

	"github.com/google/uuid"
)

var (
	ErrNilNode   = errors.New("node is nil")
	ErrCycle     = errors.New("node would become its own ancestor")
	ErrHasParent = errors.New("node already has a parent")
)

var _ Entity = (*Node)(nil)

// Node is a general purpose Entity. Data carries whatever payload the
// renderer understands (sprite, bounds, ...).
type Node struct {
	id       uuid.UUID
	Name     string
	Data     any
	parent   *Node
	children []Entity
	tags     map[string]struct{}
}

func NewNode(name string, data any) *Node {
	return &Node{
		id:   uuid.New(),
		Name: name,
		Data: data,
	}
}

func (n *Node) ID() uuid.UUID { return n.id }

func (n *Node) Parent() *Node { return n.parent }

// Children returns the children in insertion order. The slice must not be
// modified.
func (n *Node) Children() []Entity {
	return slices.Clip(n.children)
}

// AddChild appends child. A node can have one parent and cannot be added
// below itself.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return ErrNilNode
	}
	if child.parent != nil {
		return ErrHasParent
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return ErrCycle
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// RemoveChild detaches child and reports whether it was a direct child.
func (n *Node) RemoveChild(child *Node) bool {
	i := slices.IndexFunc(n.children, func(e Entity) bool { return e == Entity(child) })
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return true
}

func (n *Node) AddTag(tag string) {
	if n.tags == nil {
		n.tags = make(map[string]struct{})
	}
	n.tags[tag] = struct{}{}
}

func (n *Node) RemoveTag(tag string) {
	delete(n.tags, tag)
}

func (n *Node) HasTag(tag string) bool {
	_, ok := n.tags[tag]
	return ok
}

// Find returns the first node named name in n's subtree, n included.
func (n *Node) Find(name string) (*Node, bool) {
	var found *Node
	Walk(n, func(e Entity, _ int) bool {
		if node, ok := e.(*Node); ok && node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}

func (n *Node) String() string {
	return n.Name
}

// Walk calls fn for every entity of the subtree rooted at e, depth-first,
// pre-order, with the depth relative to e. Returning false from fn stops
// the walk.
func Walk(e Entity, fn func(e Entity, depth int) bool) {
	walk(e, 0, fn)
}

func walk(e Entity, depth int, fn func(Entity, int) bool) bool {
	if !fn(e, depth) {
		return false
	}
	for _, child := range e.Children() {
		if !walk(child, depth+1, fn) {
			return false
		}
	}
	return true
}
