// Package tables builds the derived, read-mostly structures the solver
// consults on every assignment: per-gate watch values and the direct/
// indirect implication tables.
//
// Grounded on fan-atpg's pkg/algorithm/implication.go (a manager struct
// built once per run and wired to the circuit) with its map-based level
// table replaced by dense, gate-id-indexed slices so iteration order stays
// deterministic in the solver's hot paths.
package tables

import "github.com/fyerfyer/aigsat/pkg/aig"

// Implication is one forced consequence: "gate Gate must equal Want".
type Implication struct {
	Gate int
	Want aig.Value
}

// valueSlot maps an assigned Value to a 0/1 slot index. Unset has no slot;
// callers never query D or I with an unset value.
func valueSlot(v aig.Value) int {
	switch v {
	case aig.False:
		return 0
	case aig.True:
		return 1
	default:
		panic("tables: valueSlot called with Unset")
	}
}

// Tables holds the direct implication table D, the indirect (watch) table
// I, and the watch values recorded on each AND gate. Both D and I are
// dense, gate-id-indexed slices of two-element [false-slot, true-slot]
// arrays, grown in lockstep with the AIG whenever a learned gate is
// installed.
type Tables struct {
	a *aig.AIG

	// D[id][slot] is the list of implications forced by assigning gate id
	// to the value at slot.
	D [][2][]Implication

	// I[id][slot] is the list of gate ids (AND or learned) that must be
	// re-examined when gate id is assigned to the value at slot.
	I [][2][]int
}

// Build derives D, I and per-gate watch values from a constructed AIG.
// Iteration is by gate index so the resulting tables are deterministic.
func Build(a *aig.AIG) *Tables {
	t := &Tables{a: a}
	t.grow(a.NumGates())

	for _, g := range a.Gates() {
		if g.Kind != aig.KindAnd {
			continue
		}
		t.installAnd(g)
	}
	return t
}

// watchOf is the gate-value of literal lit's underlying gate that makes
// lit itself evaluate to true: unnegated literals watch True, negated
// literals watch False.
func watchOf(lit aig.Literal) aig.Value {
	if lit.Negated() {
		return aig.False
	}
	return aig.True
}

func (t *Tables) grow(n int) {
	for len(t.D) < n {
		t.D = append(t.D, [2][]Implication{})
		t.I = append(t.I, [2][]int{})
	}
}

func (t *Tables) installAnd(g *aig.Gate) {
	a, b := g.Children[0], g.Children[1]
	wa, wb, wz := watchOf(a), watchOf(b), aig.False

	g.WatchA, g.WatchB, g.WatchOut = wa, wb, wz

	// a assigned to ¬watch(a) ⇒ z = watch(z)
	t.addD(a.Index(), wa.Not(), g.Index, wz)
	// b assigned to ¬watch(b) ⇒ z = watch(z)
	t.addD(b.Index(), wb.Not(), g.Index, wz)
	// z assigned to ¬watch(z) ⇒ a = watch(a), b = watch(b)
	t.addD(g.Index, wz.Not(), a.Index(), wa)
	t.addD(g.Index, wz.Not(), b.Index(), wb)

	t.addI(a.Index(), wa, g.Index)
	t.addI(b.Index(), wb, g.Index)
	t.addI(g.Index, wz, g.Index)
}

// InstallLearned registers the indirect-table entries for a freshly
// appended learned OR gate: each fanin's recorded watch value routes back
// to this gate. Learned gates contribute no direct-table entries; BCP
// discovers their consequences purely through the indirect phase.
func (t *Tables) InstallLearned(gateIndex int, fanins []aig.Literal, watch []aig.Value) {
	t.grow(gateIndex + 1)
	for i, f := range fanins {
		t.addI(f.Index(), watch[i], gateIndex)
	}
}

// Grow extends D/I to cover at least n gates; callers append a learned
// gate to the AIG first, then call Grow before InstallLearned if the new
// gate's index was not already covered.
func (t *Tables) Grow(n int) { t.grow(n) }

func (t *Tables) addD(id int, when aig.Value, next int, want aig.Value) {
	t.grow(id + 1)
	slot := valueSlot(when)
	t.D[id][slot] = append(t.D[id][slot], Implication{Gate: next, Want: want})
}

func (t *Tables) addI(id int, when aig.Value, gate int) {
	t.grow(id + 1)
	slot := valueSlot(when)
	t.I[id][slot] = append(t.I[id][slot], gate)
}

// DirectOf returns the direct implications forced by assigning gate id to
// value v.
func (t *Tables) DirectOf(id int, v aig.Value) []Implication {
	if id >= len(t.D) {
		return nil
	}
	return t.D[id][valueSlot(v)]
}

// IndirectOf returns the gates to re-examine when gate id is assigned to
// value v.
func (t *Tables) IndirectOf(id int, v aig.Value) []int {
	if id >= len(t.I) {
		return nil
	}
	return t.I[id][valueSlot(v)]
}
