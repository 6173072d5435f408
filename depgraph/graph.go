// Package depgraph maintains the cross-definition dependency graph (spec
// §4.3, "Dependency Tracker") and, from it, the strongly-connected-component
// condensation and topological emission order the item emitter needs (spec
// §4.6). Its Graph/Node-index shape is modeled on the
// golang.org/x/tools/go/callgraph package's Graph/CreateNode/AddEdge idiom.
package depgraph

import "github.com/electrolean/electrolean/frontend"

// NodeIndex is an opaque, dense index into a Graph's node table.
type NodeIndex int

// Graph is a directed graph of local-definition nodes. An edge used→user
// means "translating user referenced used" (spec §3, "Dependency graph").
type Graph struct {
	indexOf map[frontend.DefID]NodeIndex
	defs    []frontend.DefID
	succ    [][]NodeIndex // succ[i] = nodes j such that edge i->j exists
	pred    [][]NodeIndex // pred[i] = nodes j such that edge j->i exists

	externalCrates map[string]bool
}

// New returns an empty dependency graph.
func New() *Graph {
	return &Graph{
		indexOf:        map[frontend.DefID]NodeIndex{},
		externalCrates: map[string]bool{},
	}
}

// NodeOf returns id's node index, creating one if id has not been seen
// before (spec §4.3: "insert-or-get").
func (g *Graph) NodeOf(id frontend.DefID) NodeIndex {
	if idx, ok := g.indexOf[id]; ok {
		return idx
	}
	idx := NodeIndex(len(g.defs))
	g.indexOf[id] = idx
	g.defs = append(g.defs, id)
	g.succ = append(g.succ, nil)
	g.pred = append(g.pred, nil)
	return idx
}

// AddDep records that translating user referenced used.
func (g *Graph) AddDep(used, user frontend.DefID) {
	from := g.NodeOf(used)
	to := g.NodeOf(user)
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
}

// RecordExternalCrate notes that the translation referenced a definition
// from an already-compiled external crate, for the emitter's import list.
func (g *Graph) RecordExternalCrate(name string) {
	if name != "" {
		g.externalCrates[name] = true
	}
}

// ExternalCrates returns the set of referenced external crate names.
func (g *Graph) ExternalCrates() map[string]bool { return g.externalCrates }

// DefAt returns the definition id stored at a node index.
func (g *Graph) DefAt(idx NodeIndex) frontend.DefID { return g.defs[idx] }

// HasSelfEdge reports whether id has an edge to itself — the signal to
// wrap its translated body in the target's fixed-point combinator (spec
// §4.5, "Whole-function assembly"; spec §9, "Recursion detection").
func (g *Graph) HasSelfEdge(id frontend.DefID) bool {
	idx, ok := g.indexOf[id]
	if !ok {
		return false
	}
	for _, s := range g.succ[idx] {
		if s == idx {
			return true
		}
	}
	return false
}

// NumNodes returns the number of distinct definitions registered so far.
func (g *Graph) NumNodes() int { return len(g.defs) }
