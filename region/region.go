// Package region partitions a function body's CFG into a nested forest of
// regions — loops and the root region enclosing them — and computes, per
// region, which locals it defines and uses (spec §4.4, "Region (Component)
// analyzer").
package region

import "github.com/electrolean/electrolean/frontend"

// Dominance holds the immediate-dominator table for one function's CFG,
// computed with the iterative Cooper–Harvey–Kennedy algorithm. Grounded on
// the idom/intersect shape of malphas-lang's
// internal/mir/ssa/dominance.go (ComputeDominators/intersect), generalized
// here to use postorder numbers in intersect so convergence doesn't depend
// on traversal order — the textbook CHK refinement that repo's own comment
// notes it skipped ("simplified ... without postorder numbers").
type Dominance struct {
	entry     frontend.BlockID
	idom      map[frontend.BlockID]frontend.BlockID
	postOrder map[frontend.BlockID]int
	rpo       []frontend.BlockID
}

// Compute builds the dominator tree for mir's CFG.
func Compute(mir *frontend.MIR) *Dominance {
	d := &Dominance{entry: mir.Entry, idom: map[frontend.BlockID]frontend.BlockID{}, postOrder: map[frontend.BlockID]int{}}
	d.rpo = reversePostorder(mir, d.postOrder)
	d.idom[d.entry] = d.entry

	changed := true
	for changed {
		changed = false
		for _, b := range d.rpo {
			if b == d.entry {
				continue
			}
			var newIdom frontend.BlockID
			haveIdom := false
			for _, p := range mir.Block(b).Preds {
				if _, ok := d.idom[p]; !ok {
					continue
				}
				if !haveIdom {
					newIdom, haveIdom = p, true
					continue
				}
				newIdom = d.intersect(p, newIdom)
			}
			if !haveIdom {
				continue
			}
			if cur, ok := d.idom[b]; !ok || cur != newIdom {
				d.idom[b] = newIdom
				changed = true
			}
		}
	}
	return d
}

func (d *Dominance) intersect(a, b frontend.BlockID) frontend.BlockID {
	for a != b {
		for d.postOrder[a] < d.postOrder[b] {
			a = d.idom[a]
		}
		for d.postOrder[b] < d.postOrder[a] {
			b = d.idom[b]
		}
	}
	return a
}

// Dominates reports whether a dominates b (reflexively: a block dominates
// itself).
func (d *Dominance) Dominates(a, b frontend.BlockID) bool {
	for {
		if a == b {
			return true
		}
		if b == d.entry {
			return a == d.entry
		}
		next := d.idom[b]
		if next == b {
			return false
		}
		b = next
	}
}

// Edge is a directed CFG edge.
type Edge struct{ From, To frontend.BlockID }

// BackEdges returns every CFG edge whose target dominates its source (spec
// GLOSSARY, "Back-edge").
func (d *Dominance) BackEdges(mir *frontend.MIR) []Edge {
	var edges []Edge
	for _, b := range mir.Blocks {
		for _, s := range frontend.Successors(b.Terminator) {
			if d.Dominates(s, b.ID) {
				edges = append(edges, Edge{From: b.ID, To: s})
			}
		}
	}
	return edges
}

// reversePostorder walks mir's CFG from Entry and returns block ids in
// reverse postorder, the processing order CHK needs for fast convergence.
// It also fills postOrder with each block's postorder number (higher number
// = finished later = closer to the root), used by intersect.
func reversePostorder(mir *frontend.MIR, postOrder map[frontend.BlockID]int) []frontend.BlockID {
	visited := map[frontend.BlockID]bool{}
	var post []frontend.BlockID

	type frame struct {
		id   frontend.BlockID
		next int
		succ []frontend.BlockID
	}
	start := mir.Entry
	visited[start] = true
	stack := []*frame{{id: start, succ: frontend.Successors(mir.Block(start).Terminator)}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next < len(top.succ) {
			s := top.succ[top.next]
			top.next++
			if !visited[s] {
				visited[s] = true
				stack = append(stack, &frame{id: s, succ: frontend.Successors(mir.Block(s).Terminator)})
			}
			continue
		}
		post = append(post, top.id)
		stack = stack[:len(stack)-1]
	}
	for i, b := range post {
		postOrder[b] = i
	}
	rpo := make([]frontend.BlockID, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	return rpo
}

// Region is a maximal set of CFG blocks translated as a unit (spec §3,
// "Region").
type Region struct {
	Blocks map[frontend.BlockID]bool
	// Header is non-nil iff this region is a loop.
	Header *frontend.BlockID
	Loops  []*Region
	// Exits is populated during translation (transpile), not here.
	Exits map[frontend.BlockID]bool
	// LiveDefs is populated by the enclosing function translator as it
	// descends, not by the analyzer itself.
	LiveDefs map[frontend.LocalIndex]bool
	// RetVal is the text of this region's return-value expression: "" for
	// the root region (whose exits use the whole function's return
	// encoding instead), and the moving-state tuple text for a loop region
	// once the function translator has computed it (spec §3, "Region").
	RetVal  string
	Prelude []string
}

func newRegion() *Region {
	return &Region{Blocks: map[frontend.BlockID]bool{}, Exits: map[frontend.BlockID]bool{}, LiveDefs: map[frontend.LocalIndex]bool{}}
}

// BuildForest computes the region forest for one function body: the root
// region covering every block, with loop regions nested inside it wherever
// the CFG has back edges (spec §4.4).
func BuildForest(mir *frontend.MIR) *Region {
	root := newRegion()
	for _, b := range mir.Blocks {
		root.Blocks[b.ID] = true
	}

	dom := Compute(mir)
	backEdges := dom.BackEdges(mir)

	tailsByHeader := map[frontend.BlockID][]frontend.BlockID{}
	var headerOrder []frontend.BlockID
	for _, e := range backEdges {
		if _, seen := tailsByHeader[e.To]; !seen {
			headerOrder = append(headerOrder, e.To)
		}
		tailsByHeader[e.To] = append(tailsByHeader[e.To], e.From)
	}

	var loops []*Region
	for _, h := range headerOrder {
		header := h
		l := newRegion()
		l.Header = &header
		for b := range naturalLoop(mir, header, tailsByHeader[h]) {
			l.Blocks[b] = true
		}
		loops = append(loops, l)
	}

	// Outermost loops first, so a smaller loop nests inside a larger one
	// that already has a place for it in the forest.
	for i := 0; i < len(loops); i++ {
		for j := i + 1; j < len(loops); j++ {
			if len(loops[j].Blocks) > len(loops[i].Blocks) {
				loops[i], loops[j] = loops[j], loops[i]
			}
		}
	}

	for _, l := range loops {
		parent := deepestContaining(root, l.Blocks)
		var remaining []*Region
		for _, c := range parent.Loops {
			if isSubset(c.Blocks, l.Blocks) {
				l.Loops = append(l.Loops, c)
			} else {
				remaining = append(remaining, c)
			}
		}
		parent.Loops = append(remaining, l)
	}
	return root
}

// naturalLoop computes the natural loop for header with the given back-edge
// sources: header plus every block that reaches a tail without passing
// through header a second time.
func naturalLoop(mir *frontend.MIR, header frontend.BlockID, tails []frontend.BlockID) map[frontend.BlockID]bool {
	loop := map[frontend.BlockID]bool{header: true}
	var worklist []frontend.BlockID
	worklist = append(worklist, tails...)
	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if loop[n] {
			continue
		}
		loop[n] = true
		worklist = append(worklist, mir.Block(n).Preds...)
	}
	return loop
}

func isSubset(small, big map[frontend.BlockID]bool) bool {
	if len(small) > len(big) {
		return false
	}
	for b := range small {
		if !big[b] {
			return false
		}
	}
	return true
}

// deepestContaining finds the innermost existing region (searching r's loop
// children recursively) whose block set is a superset of blocks, falling
// back to r itself.
func deepestContaining(r *Region, blocks map[frontend.BlockID]bool) *Region {
	for _, c := range r.Loops {
		if isSubset(blocks, c.Blocks) && !sameSet(blocks, c.Blocks) {
			return deepestContaining(c, blocks)
		}
	}
	return r
}

func sameSet(a, b map[frontend.BlockID]bool) bool {
	return len(a) == len(b) && isSubset(a, b)
}

// DefsUses returns the locals defined and used by the statements and
// terminators of the given block set, purely syntactically (spec §4.4).
func DefsUses(mir *frontend.MIR, blocks map[frontend.BlockID]bool) (defined, used map[frontend.LocalIndex]bool) {
	defined = map[frontend.LocalIndex]bool{}
	used = map[frontend.LocalIndex]bool{}

	useOperand := func(op frontend.Operand) {
		if c, ok := op.(frontend.ConsumeOperand); ok {
			if idx, ok := baseLocal(c.Lvalue); ok {
				used[idx] = true
			}
		}
	}
	useLvalue := func(lv frontend.Lvalue) {
		if idx, ok := baseLocal(lv); ok {
			used[idx] = true
		}
	}

	for id := range blocks {
		b := mir.Block(id)
		for _, st := range b.Statements {
			if lv, ok := st.Lvalue.(frontend.LocalLvalue); ok {
				defined[lv.Index] = true
			} else {
				useLvalue(st.Lvalue)
			}
			switch rv := st.Rvalue.(type) {
			case frontend.UseRvalue:
				useOperand(rv.Operand)
			case frontend.UnaryRvalue:
				useOperand(rv.Operand)
			case frontend.BinaryRvalue:
				useOperand(rv.LHS)
				useOperand(rv.RHS)
			case frontend.CastRvalue:
				useOperand(rv.Operand)
			case frontend.RefRvalue:
				useLvalue(rv.Lvalue)
			case frontend.AggregateTuple:
				for _, op := range rv.Operands {
					useOperand(op)
				}
			case frontend.AggregateAdt:
				for _, op := range rv.Operands {
					useOperand(op)
				}
			}
		}
		switch t := b.Terminator.(type) {
		case frontend.IfTerm:
			useOperand(t.Cond)
		case frontend.SwitchTerm:
			useLvalue(t.Discr)
		case frontend.SwitchIntTerm:
			useLvalue(t.Discr)
		case frontend.CallTerm:
			for _, a := range t.Args {
				useOperand(a)
			}
			// The call's destination is a definition, same as a
			// statement's lvalue, even though it lives on the
			// terminator rather than in Statements.
			if t.Dest != nil {
				if lv, ok := t.Dest.Lvalue.(frontend.LocalLvalue); ok {
					defined[lv.Index] = true
				} else {
					useLvalue(t.Dest.Lvalue)
				}
			}
		}
	}
	return defined, used
}

// baseLocal unwraps projections (*base, base.N, (base as Variant)) down to
// the local they project from. StaticLvalue has no local to report.
func baseLocal(lv frontend.Lvalue) (frontend.LocalIndex, bool) {
	for {
		switch v := lv.(type) {
		case frontend.LocalLvalue:
			return v.Index, true
		case frontend.ProjDeref:
			lv = v.Base
		case frontend.ProjDowncast:
			lv = v.Base
		case frontend.ProjField:
			lv = v.Base
		default:
			return 0, false
		}
	}
}
