package paging

import (
	"context"
	"sync"

	"github.com/paulmach/orb"
)

// Visibility is supplied by the viewing host.
type Visibility interface {
	// Visible reports whether the footprint is inside the view.
	Visible(b orb.Bound) bool
	// PixelSize is the footprint's projected size on screen in pixels.
	PixelSize(b orb.Bound) float64
}

// Expander expands a batch of nodes that need children.
type Expander interface {
	ExpandAll(ctx context.Context, nodes []*Node)
}

// SerialExpander expands nodes one after another on the calling goroutine.
type SerialExpander struct{}

func (SerialExpander) ExpandAll(ctx context.Context, nodes []*Node) {
	for _, n := range nodes {
		n.Expand(ctx)
	}
}

// Traversal walks a tree for one view, expanding nodes that are large
// enough on screen and visiting the nodes to draw.
type Traversal struct {
	Visibility Visibility
	Expander   Expander
	Visit      func(n *Node)
	// Evict collapses expanded nodes that no longer need their children.
	Evict      bool
	OnCollapse func(n *Node)
}

// Run traverses breadth first so each depth is expanded as one batch.
func (t Traversal) Run(ctx context.Context, roots []*Node) error {
	expander := t.Expander
	if expander == nil {
		expander = SerialExpander{}
	}

	frontier := t.visible(roots)
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		wants := make([]bool, len(frontier))
		var pending []*Node
		for i, n := range frontier {
			if n.HasChild() && t.Visibility.PixelSize(n.Bound()) > n.Range() {
				wants[i] = true
				if n.State() != Expanded {
					pending = append(pending, n)
				}
			}
		}
		if len(pending) > 0 {
			expander.ExpandAll(ctx, pending)
		}

		var next []*Node
		for i, n := range frontier {
			if !wants[i] {
				if t.Evict && n.State() == Expanded {
					n.Collapse()
					if t.OnCollapse != nil {
						t.OnCollapse(n)
					}
				}
				t.visit(n)
				continue
			}

			children := n.Children()
			if showsSelf(children) {
				t.visit(n)
			}
			next = append(next, t.visible(children)...)
		}
		frontier = next
	}
	return nil
}

func (t Traversal) visible(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if t.Visibility.Visible(n.Bound()) {
			out = append(out, n)
		}
	}
	return out
}

func (t Traversal) visit(n *Node) {
	if t.Visit != nil {
		t.Visit(n)
	}
}

// Tree is the forest of root nodes for one graticule build.
type Tree struct {
	mu    sync.RWMutex
	roots []*Node
}

func NewTree(roots ...*Node) *Tree {
	return &Tree{roots: roots}
}

func (t *Tree) Roots() []*Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*Node(nil), t.roots...)
}

// Traverse runs tr over every root.
func (t *Tree) Traverse(ctx context.Context, tr Traversal) error {
	return tr.Run(ctx, t.Roots())
}

// Teardown collapses and drops every node.
func (t *Tree) Teardown() {
	t.mu.Lock()
	roots := t.roots
	t.roots = nil
	t.mu.Unlock()

	for _, r := range roots {
		collapseAll(r)
	}
}

// Count returns the number of live nodes and how many are expanded.
func (t *Tree) Count() (nodes, expanded int) {
	var walk func(n *Node)
	walk = func(n *Node) {
		nodes++
		if n.State() == Expanded {
			expanded++
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	for _, r := range t.Roots() {
		walk(r)
	}
	return
}

func collapseAll(n *Node) {
	for _, c := range n.Children() {
		collapseAll(c)
	}
	n.Collapse()
}
