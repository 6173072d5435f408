package item

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/electrolean/electrolean/depgraph"
	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/leansyntax"
)

// ignoredNames is a hard-coded set of mangled names the emitter drops
// regardless of translation outcome (spec §9, "A hard-coded ignore set
// (mem.swap) suppresses emission of selected items; this is a policy
// hole, not a principled mechanism" — carried forward verbatim from the
// retained original, not re-justified).
var ignoredNames = map[string]bool{
	"mem.swap": true,
}

// Emitter assembles the final output document from a Translator's stored
// results and the dependency graph they were recorded against (spec §4.6,
// "Emission").
type Emitter struct {
	CrateName string
	HasPre    bool
	Results   map[frontend.DefID]*Result
	Graph     *depgraph.Graph

	// Only, if non-empty, restricts emission to items whose mangled name
	// has one of these strings as a prefix, plus their dependency closure
	// (spec §6, "--only <CSV>"; spec §4.6, "--only filter").
	Only []string
}

// NewEmitter builds an Emitter over a Translator's completed results.
func NewEmitter(crateName string, hasPre bool, results map[frontend.DefID]*Result, graph *depgraph.Graph, only []string) *Emitter {
	return &Emitter{CrateName: crateName, HasPre: hasPre, Results: results, Graph: graph, Only: only}
}

// onlySet computes the --only emission set: every node whose mangled name
// has a filter prefix, plus everything it depends on (spec §4.6: "the
// included set is the reverse-reachability closure over the dependency
// graph of nodes whose mangled name has any filter as a prefix").
func (e *Emitter) onlySet() map[frontend.DefID]bool {
	if len(e.Only) == 0 {
		return nil
	}
	var seeds []frontend.DefID
	for idx := 0; idx < e.Graph.NumNodes(); idx++ {
		def := e.Graph.DefAt(depgraph.NodeIndex(idx))
		res, ok := e.Results[def]
		if !ok {
			continue
		}
		for _, prefix := range e.Only {
			if strings.HasPrefix(res.Name, prefix) {
				seeds = append(seeds, def)
				break
			}
		}
	}
	return e.Graph.ReverseReachable(seeds)
}

// WriteTo writes the assembled document: sorted imports, fixed opens and
// the namespace header, the condensation-ordered body, and the closing
// `end` (spec §4.6, "Emission").
func (e *Emitter) WriteTo(w io.Writer) error {
	crates := make([]string, 0, len(e.Graph.ExternalCrates()))
	for c := range e.Graph.ExternalCrates() {
		crates = append(crates, c)
	}
	sort.Strings(crates)
	if e.HasPre {
		crates = append([]string{e.CrateName + ".pre"}, crates...)
	}
	for _, c := range crates {
		if _, err := fmt.Fprintf(w, "import %s\n", c); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nopen bool\nopen option\nopen prod.ops\n\nnamespace %s\n", e.CrateName); err != nil {
		return err
	}
	if e.HasPre {
		if _, err := fmt.Fprintf(w, "open %s\n", e.CrateName); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, "\n"); err != nil {
		return err
	}

	only := e.onlySet()
	cond := e.Graph.Condense()
	failed := make(map[int]bool)
	for _, idx := range cond.Toposort() {
		members := cond.Members(idx)
		if len(members) == 1 {
			if err := e.emitSingleton(w, cond, idx, members[0], only, failed); err != nil {
				return err
			}
			continue
		}
		if err := e.emitComponent(w, members, idx, failed); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "end %s", e.CrateName)
	return err
}

func (e *Emitter) emitSingleton(w io.Writer, cond *depgraph.Condensation, idx int, def frontend.DefID, only map[frontend.DefID]bool, failed map[int]bool) error {
	if only != nil && !only[def] {
		return nil
	}
	res, ok := e.Results[def]
	if !ok {
		return nil
	}
	if ignoredNames[res.Name] {
		return nil
	}

	var failedDeps []string
	for _, dep := range cond.Incoming(idx) {
		if failed[dep] {
			for _, d := range cond.Members(dep) {
				if r, ok := e.Results[d]; ok {
					failedDeps = append(failedDeps, r.Name)
				}
			}
		}
	}

	if len(failedDeps) > 0 {
		failed[idx] = true
		_, err := fmt.Fprintf(w, "%s\n\n", leansyntax.BlockComment(fmt.Sprintf("%s: failed dependencies %s", res.Name, strings.Join(failedDeps, ", "))))
		return err
	}

	if res.Err != nil {
		failed[idx] = true
		_, err := fmt.Fprintf(w, "%s\n\n", leansyntax.BlockComment(fmt.Sprintf("%s: %s", res.Name, res.Err.Error())))
		return err
	}
	if res.Text == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s\n\n", res.Text)
	return err
}

func (e *Emitter) emitComponent(w io.Writer, members []frontend.DefID, idx int, failed map[int]bool) error {
	var succeeded []string
	for _, def := range members {
		res, ok := e.Results[def]
		if ok && res.Err == nil {
			succeeded = append(succeeded, res.Text)
		}
	}
	if len(succeeded) == len(members) {
		allInductive := true
		for _, txt := range succeeded {
			if !strings.HasPrefix(txt, "inductive") {
				allInductive = false
				break
			}
		}
		if allInductive {
			stripped := make([]string, len(succeeded))
			for i, txt := range succeeded {
				stripped[i] = strings.TrimPrefix(txt, "inductive")
			}
			_, err := fmt.Fprintf(w, "inductive%s\n\n", strings.Join(stripped, "\n\nwith"))
			return err
		}
	}

	failed[idx] = true
	names := make([]string, len(members))
	for i, def := range members {
		if r, ok := e.Results[def]; ok {
			names[i] = r.Name
		}
	}
	if _, err := fmt.Fprintf(w, "/- unimplemented: circular dependencies: %s\n\n", strings.Join(names, ", ")); err != nil {
		return err
	}
	for _, def := range members {
		res, ok := e.Results[def]
		if !ok {
			continue
		}
		if res.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: %s", res.Name, leansyntax.EscapeComment(res.Err.Error())); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", res.Text); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "-/\n\n")
	return err
}
