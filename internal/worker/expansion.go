package worker

import (
	"context"
	"fmt"
	"time"

	"mgrsgrid/internal/paging"
	"mgrsgrid/internal/stats"

	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"
)

// ExpansionPool expands grid nodes on a bounded set of goroutines.
// Requests for a node that is already being expanded join the running
// expansion instead of queueing a second one.
type ExpansionPool struct {
	maxWorkers int
	group      singleflight.Group
	stats      *stats.Collector
}

// NewExpansionPool creates a pool running at most maxWorkers expansions
// at once. collector may be nil.
func NewExpansionPool(maxWorkers int, collector *stats.Collector) *ExpansionPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &ExpansionPool{maxWorkers: maxWorkers, stats: collector}
}

// ExpandAll expands nodes concurrently and waits for all of them.
func (p *ExpansionPool) ExpandAll(ctx context.Context, nodes []*paging.Node) {
	if len(nodes) == 0 {
		return
	}
	wp := pool.New().WithMaxGoroutines(min(p.maxWorkers, len(nodes)))
	for _, n := range nodes {
		n := n
		wp.Go(func() {
			p.Expand(ctx, n)
		})
	}
	wp.Wait()
}

// Expand expands a single node, sharing the result with concurrent
// callers for the same node. IDs repeat across rebuilds, so calls are
// keyed by node identity.
func (p *ExpansionPool) Expand(ctx context.Context, n *paging.Node) []*paging.Node {
	v, _, shared := p.group.Do(fmt.Sprintf("%p", n), func() (interface{}, error) {
		if n.State() == paging.Expanded {
			return n.Children(), nil
		}
		start := time.Now()
		children := n.Expand(ctx)
		elapsed := time.Since(start)

		p.stats.ObserveExpansion(n.Level(), elapsed)
		log.Debugf("Expanded %s into %d children in %v", n.ID(), len(children), elapsed)
		return children, nil
	})
	if shared {
		log.Debugf("Joined running expansion of %s", n.ID())
	}
	return v.([]*paging.Node)
}
