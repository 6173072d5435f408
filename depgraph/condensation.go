package depgraph

import "github.com/electrolean/electrolean/frontend"

// Condensation is the DAG formed by contracting each strongly-connected
// component of a Graph to a single node (spec GLOSSARY, "Condensation").
type Condensation struct {
	g *Graph

	compOf map[NodeIndex]int
	comps  [][]NodeIndex

	// succ/pred are the condensed graph's adjacency, component id to
	// component id, deduplicated and self-loop-free.
	succ [][]int
	pred [][]int
}

// Condense computes the Tarjan SCC condensation of g.
func (g *Graph) Condense() *Condensation {
	c := &Condensation{g: g, compOf: map[NodeIndex]int{}}

	// Tarjan's algorithm, written recursively (crate-sized graphs are
	// far too small to risk stack exhaustion).
	index := 0
	indices := make([]int, len(g.defs))
	lowlink := make([]int, len(g.defs))
	onStack := make([]bool, len(g.defs))
	for i := range indices {
		indices[i] = -1
	}
	var stack []NodeIndex

	var strongconnect func(v NodeIndex)
	strongconnect = func(v NodeIndex) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.succ[v] {
			if indices[w] == -1 {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var comp []NodeIndex
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			id := len(c.comps)
			for _, w := range comp {
				c.compOf[w] = id
			}
			c.comps = append(c.comps, comp)
		}
	}

	for v := range g.defs {
		if indices[v] == -1 {
			strongconnect(NodeIndex(v))
		}
	}

	c.succ = make([][]int, len(c.comps))
	c.pred = make([][]int, len(c.comps))
	seen := make(map[[2]int]bool)
	for v := range g.defs {
		cv := c.compOf[NodeIndex(v)]
		for _, w := range g.succ[v] {
			cw := c.compOf[w]
			if cv == cw {
				continue
			}
			key := [2]int{cv, cw}
			if seen[key] {
				continue
			}
			seen[key] = true
			c.succ[cv] = append(c.succ[cv], cw)
			c.pred[cw] = append(c.pred[cw], cv)
		}
	}
	return c
}

// NumComponents returns the number of strongly-connected components.
func (c *Condensation) NumComponents() int { return len(c.comps) }

// Members returns the definition ids belonging to component idx, in an
// unspecified but stable order.
func (c *Condensation) Members(idx int) []frontend.DefID {
	defs := make([]frontend.DefID, len(c.comps[idx]))
	for i, n := range c.comps[idx] {
		defs[i] = c.g.defs[n]
	}
	return defs
}

// Incoming returns the component indices idx directly depends on (the
// predecessor components in the condensed DAG).
func (c *Condensation) Incoming(idx int) []int { return c.pred[idx] }

// ComponentOf returns the component index containing id.
func (c *Condensation) ComponentOf(id frontend.DefID) int {
	return c.compOf[c.g.NodeOf(id)]
}

// Toposort returns component indices in dependency-respecting order: for
// any component c, every component it depends on (Incoming(c)) appears
// before it (spec §8, "Topological ordering").
func (c *Condensation) Toposort() []int {
	indeg := make([]int, len(c.comps))
	for i := range c.comps {
		indeg[i] = len(c.pred[i])
	}
	var queue []int
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	order := make([]int, 0, len(c.comps))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, m := range c.succ[n] {
			indeg[m]--
			if indeg[m] == 0 {
				queue = append(queue, m)
			}
		}
	}
	return order
}

// ReverseReachable returns the reverse-reachability closure of seeds over
// the dependency graph: each seed plus everything it (transitively)
// depends on (spec §4.6, "--only filter" / §8 "--only closure"). Used to
// compute the emission set for --only.
func (g *Graph) ReverseReachable(seeds []frontend.DefID) map[frontend.DefID]bool {
	visited := make(map[NodeIndex]bool)
	var queue []NodeIndex
	for _, s := range seeds {
		idx, ok := g.indexOf[s]
		if !ok {
			continue
		}
		if !visited[idx] {
			visited[idx] = true
			queue = append(queue, idx)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, p := range g.pred[n] {
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}
	out := make(map[frontend.DefID]bool, len(visited))
	for idx := range visited {
		out[g.defs[idx]] = true
	}
	return out
}
