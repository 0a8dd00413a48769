package autodiff

import (
	"fmt"
	"sync"

	"github.com/born-ml/scalargrad/internal/autodiff/ops"
)

// noParent marks an unused parent slot.
const noParent = -1

// node is one arena slot.
type node struct {
	value   float64
	grad    float64
	kind    ops.Kind
	parents [2]int32 // valid up to kind.Arity()
	gen     uint32   // graph generation the slot was written in
}

// Graph is the arena that owns every node of a computation.
//
// Nodes are appended in creation order and addressed by their index, so a
// node's parents always have smaller indices than the node itself and the
// parent relation is acyclic by construction.
//
// Usage:
//
//	g := autodiff.NewGraph()
//	a, b := g.Leaf(2), g.Leaf(3)
//	y := autodiff.Mul(a, b) // y = a*b
//	autodiff.Backward(y)
//	fmt.Println(a.Grad()) // dy/da = b = 3
//
// A Graph is safe for concurrent graph construction. Backward passes take the
// write lock for their whole duration.
type Graph struct {
	mu    sync.RWMutex
	nodes []node
	gen   uint32 // bumped by Release so stale handles are detected
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make([]node, 0, 64), // Pre-allocate for common case
	}
}

// Checkpoint marks a position in the arena, see Mark and Release.
type Checkpoint struct {
	n int
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Mark returns a checkpoint at the current end of the arena.
//
// Typical use is to mark right after the parameters of a model are created
// and release after each evaluation:
//
//	mark := g.Mark()
//	for step := range steps {
//	    loss := ...          // transient nodes
//	    autodiff.Backward(loss)
//	    ...                  // read parameter gradients
//	    g.Release(mark)
//	}
func (g *Graph) Mark() Checkpoint {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Checkpoint{n: len(g.nodes)}
}

// Release drops every node created after the checkpoint.
// Nodes created before it, and their gradients, are untouched.
//
// Handles to released nodes become invalid; using one panics.
// Panics if the checkpoint lies beyond a previous release point.
func (g *Graph) Release(cp Checkpoint) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cp.n > len(g.nodes) {
		panic(fmt.Sprintf("Graph.Release: checkpoint at %d is beyond the arena end %d", cp.n, len(g.nodes)))
	}
	g.nodes = g.nodes[:cp.n]
	g.gen++
}

// ZeroGrad sets the gradient of every live node to zero.
func (g *Graph) ZeroGrad() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.nodes {
		g.nodes[i].grad = 0
	}
}

// push appends n and returns its handle. Caller holds the write lock.
func (g *Graph) push(n node) Value {
	n.gen = g.gen
	id := int32(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return Value{g: g, id: id, gen: g.gen}
}

// slot returns the arena slot of v. Caller holds a lock.
func (g *Graph) slot(v Value) *node {
	if int(v.id) >= len(g.nodes) || v.id < 0 {
		panic(fmt.Sprintf("autodiff: node %d was released (arena holds %d nodes)", v.id, len(g.nodes)))
	}
	n := &g.nodes[v.id]
	if n.gen != v.gen {
		panic(fmt.Sprintf("autodiff: node %d was released and its slot reused", v.id))
	}
	return n
}

// Value is a handle to a node of a Graph.
//
// Values are small and comparable; two handles are equal exactly when they
// refer to the same node. The zero Value refers to no node.
type Value struct {
	g   *Graph
	id  int32
	gen uint32
}

// Graph returns the graph owning v.
func (v Value) Graph() *Graph {
	return v.g
}

// ID returns the arena index of v.
func (v Value) ID() int {
	return int(v.id)
}

// Valid reports whether v refers to a live node.
func (v Value) Valid() bool {
	if v.g == nil {
		return false
	}
	v.g.mu.RLock()
	defer v.g.mu.RUnlock()
	return int(v.id) < len(v.g.nodes) && v.g.nodes[v.id].gen == v.gen
}

// Data returns the scalar value of the node.
func (v Value) Data() float64 {
	g := v.mustGraph("Data")
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.slot(v).value
}

// SetData overwrites the value of a leaf node.
//
// Nodes computed from v keep their old value until rebuilt.
// Panics if v is not a leaf.
func (v Value) SetData(x float64) {
	g := v.mustGraph("SetData")
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.slot(v)
	if n.kind != ops.Leaf {
		panic(fmt.Sprintf("Value.SetData: node %d is produced by %s, only leaves can be set", v.id, n.kind))
	}
	n.value = x
}

// Grad returns the accumulated gradient of the node.
func (v Value) Grad() float64 {
	g := v.mustGraph("Grad")
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.slot(v).grad
}

// SetGrad overwrites the gradient of the node.
func (v Value) SetGrad(grad float64) {
	g := v.mustGraph("SetGrad")
	g.mu.Lock()
	defer g.mu.Unlock()
	g.slot(v).grad = grad
}

// Op returns the operation that produced the node.
func (v Value) Op() ops.Kind {
	g := v.mustGraph("Op")
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.slot(v).kind
}

// IsLeaf reports whether the node has no parents.
func (v Value) IsLeaf() bool {
	return v.Op() == ops.Leaf
}

// Parents returns the operands of the node in operand order.
// An operand used twice (Add(x, x)) appears twice.
func (v Value) Parents() []Value {
	g := v.mustGraph("Parents")
	g.mu.RLock()
	defer g.mu.RUnlock()

	n := g.slot(v)
	parents := make([]Value, 0, n.kind.Arity())
	for _, p := range n.parents[:n.kind.Arity()] {
		parents = append(parents, Value{g: g, id: p, gen: g.nodes[p].gen})
	}
	return parents
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.Valid() {
		return "Value(invalid)"
	}
	v.g.mu.RLock()
	defer v.g.mu.RUnlock()
	n := v.g.slot(v)
	return fmt.Sprintf("Value(data=%g, grad=%g, op=%s)", n.value, n.grad, n.kind)
}

func (v Value) mustGraph(method string) *Graph {
	if v.g == nil {
		panic(fmt.Sprintf("Value.%s: zero Value has no graph", method))
	}
	return v.g
}
