// Package mffc computes the maximal fanout-free cone rooted at a gate:
// the largest set of gates reachable backwards from the root whose only
// external fanout is the root itself. It is a read-only diagnostic used
// by the CLI's --cone flag; the solver never calls it.
//
// Grounded on original_source/include/mffc_view.hpp's collect/
// compute_sets refcount-decrementing traversal, translated into the
// package's own idiom rather than carried over file-for-file: the
// teacher repo has no equivalent view (its topology.go computes forward
// levels, not a bounded backward cone), so this is learned straight from
// the original implementation.
package mffc

import (
	"fmt"
	"sort"

	"github.com/fyerfyer/aigsat/pkg/aig"
)

// Cone is the result of an MFFC computation: Leaves are the boundary
// nodes (primary inputs, or gates that still have fanout outside the
// cone), Gates are the internal AND gates in topological order with the
// root always last.
type Cone struct {
	Root   int
	Leaves []int
	Gates  []int
}

// Size is the total node count, constant included.
func (c *Cone) Size() int { return 1 + len(c.Leaves) + len(c.Gates) }

// Compute walks backwards from root, decrementing a local copy of each
// gate's fanout count, until the traversal exceeds limit (in which case
// it returns an error rather than a truncated, silently-wrong cone) or
// bottoms out at constants, primary inputs, and gates whose fanout count
// has not dropped to zero (meaning something outside the cone still
// reads them).
func Compute(a *aig.AIG, root int, limit int) (*Cone, error) {
	if root == 0 {
		return &Cone{Root: root}, nil
	}
	if a.IsPI(root) {
		return &Cone{Root: root, Leaves: []int{root}}, nil
	}

	refcnt := make([]int, a.NumGates())
	for i, g := range a.Gates() {
		refcnt[i] = len(g.Fanouts)
	}

	var visited []int
	if err := collect(a, root, refcnt, limit, &visited); err != nil {
		return nil, err
	}

	leafSet := make(map[int]bool)
	innerSet := make(map[int]bool)
	for _, n := range dedupeSorted(visited) {
		if n == 0 {
			continue
		}
		if a.IsPI(n) || refcnt[n] > 0 {
			leafSet[n] = true
		} else {
			innerSet[n] = true
		}
	}
	innerSet[root] = true
	delete(leafSet, root)

	leaves := make([]int, 0, len(leafSet))
	for n := range leafSet {
		leaves = append(leaves, n)
	}
	sort.Ints(leaves)

	gates := topoSort(a, root, innerSet)

	return &Cone{Root: root, Leaves: leaves, Gates: gates}, nil
}

// collect performs the refcount-decrementing backward walk. A node is
// recursed into only once its local refcount has dropped to zero,
// mirroring the C++ original's "only descend when fully consumed inside
// the cone" rule.
func collect(a *aig.AIG, n int, refcnt []int, limit int, visited *[]int) error {
	g := a.Gate(n)
	if g.Kind != aig.KindAnd {
		return nil
	}
	for _, c := range g.Children {
		child := c.Index()
		*visited = append(*visited, child)
		if len(*visited) > limit {
			return fmt.Errorf("mffc: cone at gate %d exceeds node budget %d", n, limit)
		}
		if refcnt[child] > 0 {
			refcnt[child]--
		}
		if refcnt[child] == 0 {
			if err := collect(a, child, refcnt, limit, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

func topoSort(a *aig.AIG, root int, inner map[int]bool) []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[int]int, len(inner))
	var order []int
	var visit func(n int)
	visit = func(n int) {
		if !inner[n] || color[n] == black || color[n] == gray {
			return
		}
		color[n] = gray
		g := a.Gate(n)
		for _, c := range g.Children {
			visit(c.Index())
		}
		color[n] = black
		order = append(order, n)
	}
	visit(root)
	return order
}

func dedupeSorted(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, n := range in {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
