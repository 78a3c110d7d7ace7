package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"mgrsgrid/internal/paging"
	"mgrsgrid/internal/scene"
	"mgrsgrid/internal/stats"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type slowStrategy struct {
	loads *int32
}

func (s slowStrategy) Build() []scene.Renderable { return nil }
func (s slowStrategy) HasChild() bool            { return true }

func (s slowStrategy) LoadChildren(ctx context.Context) ([]*paging.Node, error) {
	atomic.AddInt32(s.loads, 1)
	time.Sleep(10 * time.Millisecond)
	leaf := paging.NewNode(paging.Options{Name: "leaf"}, leafStrategy{})
	return []*paging.Node{leaf}, nil
}

type leafStrategy struct{}

func (leafStrategy) Build() []scene.Renderable { return nil }
func (leafStrategy) HasChild() bool            { return false }
func (leafStrategy) LoadChildren(context.Context) ([]*paging.Node, error) {
	return nil, nil
}

func TestExpansionPoolCoalesces(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := stats.NewCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	p := NewExpansionPool(4, collector)

	var loads int32
	node := paging.NewNode(paging.Options{Name: "n", Level: "geom_grid"}, slowStrategy{loads: &loads})

	// The same node listed many times is built once.
	batch := []*paging.Node{node, node, node, node, node, node}
	p.ExpandAll(context.Background(), batch)

	if loads != 1 {
		t.Errorf("node loaded %d times", loads)
	}
	if len(node.Children()) != 1 {
		t.Errorf("children = %d", len(node.Children()))
	}
	if got := testutil.ToFloat64(collector.Expansions.WithLabelValues("geom_grid")); got < 1 {
		t.Errorf("expansions metric = %v", got)
	}
}

func TestExpansionPoolManyNodes(t *testing.T) {
	p := NewExpansionPool(0, nil)
	var loads int32
	var nodes []*paging.Node
	for i := 0; i < 20; i++ {
		nodes = append(nodes, paging.NewNode(paging.Options{Name: fmt.Sprint(i)}, slowStrategy{loads: &loads}))
	}
	p.ExpandAll(context.Background(), nodes)

	if loads != 20 {
		t.Errorf("loads = %d", loads)
	}
	for _, n := range nodes {
		if n.State() != paging.Expanded {
			t.Fatalf("%s not expanded", n.ID())
		}
	}
}

// gatedStrategy reports entry on started and blocks until release closes.
type gatedStrategy struct {
	started chan<- string
	release <-chan struct{}
	name    string
}

func (g gatedStrategy) Build() []scene.Renderable { return nil }
func (g gatedStrategy) HasChild() bool            { return true }

func (g gatedStrategy) LoadChildren(ctx context.Context) ([]*paging.Node, error) {
	g.started <- g.name
	<-g.release
	return []*paging.Node{paging.NewNode(paging.Options{Name: "leaf"}, leafStrategy{})}, nil
}

func TestExpansionPoolSameIDDifferentNodes(t *testing.T) {
	p := NewExpansionPool(2, nil)
	started := make(chan string, 2)
	release := make(chan struct{})

	// Two generations of the tree carry the same ID.
	old := paging.NewNode(paging.Options{Name: "31U"}, gatedStrategy{started: started, release: release, name: "old"})
	cur := paging.NewNode(paging.Options{Name: "31U"}, gatedStrategy{started: started, release: release, name: "cur"})
	if old.ID() != cur.ID() {
		t.Fatalf("ids differ: %s %s", old.ID(), cur.ID())
	}

	done := make(chan []*paging.Node, 2)
	go func() { done <- p.Expand(context.Background(), old) }()
	if got := <-started; got != "old" {
		t.Fatalf("started %s first", got)
	}
	go func() { done <- p.Expand(context.Background(), cur) }()

	select {
	case got := <-started:
		if got != "cur" {
			t.Errorf("started %s, want cur", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second node joined the first node's expansion")
	}
	close(release)

	for i := 0; i < 2; i++ {
		<-done
	}
	if len(old.Children()) != 1 || len(cur.Children()) != 1 {
		t.Errorf("children = %d, %d", len(old.Children()), len(cur.Children()))
	}
}

type countingRebuilder struct {
	n int32
}

func (r *countingRebuilder) Rebuild() error {
	atomic.AddInt32(&r.n, 1)
	return nil
}

func TestDatasetWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.bin")
	if err := os.WriteFile(path, []byte{0, 0, 0, 0}, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &countingRebuilder{}
	StartDatasetWatcher(ctx, path, 5*time.Millisecond, r)

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&r.n) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := atomic.LoadInt32(&r.n); got != 1 {
		t.Errorf("rebuilds = %d, want 1", got)
	}
}
