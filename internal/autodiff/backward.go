package autodiff

import (
	"k8s.io/klog/v2"

	"github.com/born-ml/scalargrad/internal/autodiff/ops"
)

// Backward computes the gradient of root with respect to every node it
// depends on.
//
// Algorithm:
//  1. Sort the nodes reachable from root topologically (parents first,
//     each node once, even when reached through several paths)
//  2. Seed root's gradient with 1
//  3. Walk the order in reverse; each node adds its contribution into its
//     parents' gradients
//
// A node runs its rule only after every consumer between it and root has
// run, so its gradient is complete by then.
//
// Gradients are not reset: calling Backward twice without ZeroGrad in
// between accumulates into the ancestors (root itself is re-seeded to 1).
//
// Returns the processed nodes in processing order, root first.
func Backward(root Value) []Value {
	g := root.mustGraph("Backward")
	processed := g.backward(root)

	klog.V(2).Infof("autodiff: backward from node %d processed %d nodes", root.id, len(processed))
	return processed
}

func (g *Graph) backward(root Value) []Value {
	g.mu.Lock()
	defer g.mu.Unlock()

	order := g.topo(root)
	g.nodes[root.id].grad = 1
	for i := len(order) - 1; i >= 0; i-- {
		g.propagate(order[i])
	}

	processed := make([]Value, len(order))
	for i, id := range order {
		processed[len(order)-1-i] = Value{g: g, id: id, gen: g.nodes[id].gen}
	}
	return processed
}

// TopoSort returns every node reachable from root in topological order:
// each node appears after all of its parents, root last.
func TopoSort(root Value) []Value {
	g := root.mustGraph("TopoSort")

	g.mu.RLock()
	defer g.mu.RUnlock()

	order := g.topo(root)
	out := make([]Value, len(order))
	for i, id := range order {
		out[i] = Value{g: g, id: id, gen: g.nodes[id].gen}
	}
	return out
}

// Propagate runs the local gradient rule of a single node: its current
// gradient is pushed into its parents' gradients. It is a no-op for leaves.
//
// Backward calls this for every node in order; it is exported for callers
// that drive the walk themselves.
func Propagate(v Value) {
	g := v.mustGraph("Propagate")

	g.mu.Lock()
	defer g.mu.Unlock()

	g.slot(v)
	g.propagate(v.id)
}

// topo is a depth-first post-order over the parent relation, keyed by arena
// index. It uses an explicit stack so long chains cannot exhaust the
// goroutine stack; the resulting order matches the recursive formulation.
// Caller holds a lock.
func (g *Graph) topo(root Value) []int32 {
	g.slot(root)

	type frame struct {
		id   int32
		next int // next parent to visit
	}

	// Every reachable node has an index <= root.id.
	visited := make([]bool, root.id+1)
	order := make([]int32, 0, 16)
	stack := []frame{{id: root.id}}
	visited[root.id] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := &g.nodes[top.id]

		if top.next < n.kind.Arity() {
			p := n.parents[top.next]
			top.next++
			if !visited[p] {
				visited[p] = true
				stack = append(stack, frame{id: p})
			}
			continue
		}

		order = append(order, top.id)
		stack = stack[:len(stack)-1]
	}

	return order
}

// propagate applies node id's rule. Caller holds the write lock.
func (g *Graph) propagate(id int32) {
	n := &g.nodes[id]
	if n.kind == ops.Leaf {
		return
	}

	pa, pb := n.parents[0], n.parents[1]
	gradA, gradB := ops.Backward(n.kind, g.nodes[pa].value, g.nodes[pb].value, n.grad)

	// pa == pb is fine: both contributions land on the same node.
	g.nodes[pa].grad += gradA
	g.nodes[pb].grad += gradB
}
