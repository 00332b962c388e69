// Package cycle detects and extracts parent-reference cycles in a pedigree.
//
// Each individual is a node with edges to its known, in-set parents. A
// cycle means an individual is (transitively) its own ancestor. Detection
// is diagnostic: it reports every cycle found so the data can be repaired.
// The ordering gate that algorithms rely on lives in package topo.
package cycle

import (
	"strings"

	"github.com/matzehuels/pedigraph/pkg/pedigree"
)

// Result lists the cycles found in a pedigree. Each cycle is a closed walk
// of ids that starts and ends with the same id, e.g. [A B C A]. A
// self-parented record yields [X X].
type Result struct {
	Count  int        `json:"count"`
	Cycles [][]string `json:"cycles"`
}

// HasCycles reports whether any cycle was found.
func (r Result) HasCycles() bool { return r.Count > 0 }

// Detect finds the cycles in p using depth-first search over parent edges.
//
// Nodes are colored white (unvisited), gray (on the current DFS path) and
// black (fully processed). Reaching a gray node closes a cycle: the path
// suffix starting at that node, with the node appended. Black nodes are
// never re-entered, so shared ancestry (diamonds) is not mistaken for a
// cycle. Identical cycles are reported once.
//
// The search is iterative and handles arbitrarily long lineages. Time
// complexity is O(V + E).
func Detect(p *pedigree.Pedigree) Result {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		node int
		next int // 0: sire, 1: dam, 2: done
	}

	n := p.Len()
	color := make([]uint8, n)
	path := make([]int, 0, 64)
	pathPos := make([]int, n)
	seen := make(map[string]struct{})
	res := Result{Cycles: [][]string{}}

	record := func(start int) {
		ids := make([]string, 0, len(path)-start+1)
		for _, v := range path[start:] {
			ids = append(ids, p.ID(v))
		}
		ids = append(ids, p.ID(path[start]))
		key := strings.Join(ids, "\x00")
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		res.Cycles = append(res.Cycles, ids)
		res.Count++
	}

	var stack []frame
	for root := range n {
		if color[root] != white {
			continue
		}
		color[root] = gray
		pathPos[root] = len(path)
		path = append(path, root)
		stack = append(stack[:0], frame{node: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == 2 {
				color[top.node] = black
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}

			parent := p.SireIndex(top.node)
			if top.next == 1 {
				parent = p.DamIndex(top.node)
			}
			top.next++
			if parent == pedigree.NoParent {
				continue
			}

			switch color[parent] {
			case white:
				color[parent] = gray
				pathPos[parent] = len(path)
				path = append(path, parent)
				stack = append(stack, frame{node: parent})
			case gray:
				record(pathPos[parent])
			}
		}
	}
	return res
}
