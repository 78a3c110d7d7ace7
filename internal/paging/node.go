// Package paging holds the lazily expanded grid tree.
package paging

import (
	"context"
	"sync"

	"mgrsgrid/internal/scene"

	"github.com/paulmach/orb"
	log "github.com/sirupsen/logrus"
)

type State int

const (
	Unbuilt State = iota
	Built
	Expanded
)

func (s State) String() string {
	switch s {
	case Built:
		return "built"
	case Expanded:
		return "expanded"
	}
	return "unbuilt"
}

// Strategy supplies the level specific behaviour of a node.
type Strategy interface {
	// Build returns the node's own drawables. Called once, at creation.
	Build() []scene.Renderable
	// HasChild reports whether a finer level is configured for this node.
	HasChild() bool
	// LoadChildren creates the nodes of the next finer level.
	LoadChildren(ctx context.Context) ([]*Node, error)
}

type Options struct {
	Name  string
	Level string
	// Size is the grid resolution in meters drawn by the node, 0 if the
	// node is not part of the metric resolution chain.
	Size  float64
	Range float64
	// Additive nodes are drawn alongside their parent instead of
	// replacing it.
	Additive bool
	Bound    orb.Bound
}

// Node is one level of grid content over one footprint.
type Node struct {
	opts     Options
	id       string
	strategy Strategy
	content  []scene.Renderable

	mu       sync.Mutex
	state    State
	children []*Node
}

// NewNode creates a node and builds its own content immediately.
func NewNode(opts Options, s Strategy) *Node {
	n := &Node{opts: opts, id: opts.Name, strategy: s}
	n.content = s.Build()
	n.state = Built
	return n
}

func (n *Node) ID() string                  { return n.id }
func (n *Node) Name() string                { return n.opts.Name }
func (n *Node) Level() string               { return n.opts.Level }
func (n *Node) Size() float64               { return n.opts.Size }
func (n *Node) Range() float64              { return n.opts.Range }
func (n *Node) Additive() bool              { return n.opts.Additive }
func (n *Node) Bound() orb.Bound            { return n.opts.Bound }
func (n *Node) Strategy() Strategy          { return n.strategy }
func (n *Node) HasChild() bool              { return n.strategy.HasChild() }
func (n *Node) Content() []scene.Renderable { return n.content }

func (n *Node) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Children returns the current children, nil unless expanded.
func (n *Node) Children() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*Node(nil), n.children...)
}

// Expand builds the children of n once. Concurrent and repeated calls
// wait for and return the same children until Collapse is called.
// Loader failures, cancellation included, are logged and leave the node
// built with no children so a later call retries.
func (n *Node) Expand(ctx context.Context) []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == Expanded {
		return append([]*Node(nil), n.children...)
	}
	if !n.strategy.HasChild() {
		return nil
	}

	children, err := n.strategy.LoadChildren(ctx)
	if err != nil {
		log.Warnf("Failed to load children of %s: %v", n.id, err)
		return nil
	}

	kept := children[:0]
	for _, c := range children {
		if n.opts.Size > 0 && c.opts.Size != n.opts.Size/10 {
			log.Errorf("Dropping child %s of %s: size %v is not %v", c.opts.Name, n.id, c.opts.Size, n.opts.Size/10)
			continue
		}
		c.id = n.id + "/" + c.opts.Name
		kept = append(kept, c)
	}

	n.children = kept
	n.state = Expanded
	return append([]*Node(nil), kept...)
}

// Collapse discards the children of n.
func (n *Node) Collapse() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.children = nil
	if n.state == Expanded {
		n.state = Built
	}
}

// showsSelf reports whether an expanded node is still drawn next to the
// given children.
func showsSelf(children []*Node) bool {
	if len(children) == 0 {
		return true
	}
	for _, c := range children {
		if c.opts.Additive {
			return true
		}
	}
	return false
}
