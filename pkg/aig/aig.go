// Package aig implements the And-Inverter Graph model: an immutable-after-
// construction circuit of two-input AND gates and primary inputs, with
// signed (polarity-bearing) literal references between them.
//
// Grounded on fan-atpg's pkg/circuit (gate.go/line.go/circuit.go), collapsed
// here into a single Gate-is-also-a-wire model matching the source material's
// aig_ntk/gate layout (original_source/include/aig.hpp).
package aig

import "fmt"

// AIG is a read-only-after-construction graph of gates. Gate 0 is always the
// constant gate; primary inputs occupy a contiguous range immediately after
// it, and every AND gate's children have strictly smaller indices than the
// gate itself (topological order, enforced by construction).
type AIG struct {
	gates   []*Gate
	inputs  []int     // gate indices, in declaration order
	outputs []Literal // raw output literals (index + polarity)
}

// New creates an AIG with only the constant gate present.
func New() *AIG {
	a := &AIG{}
	a.gates = append(a.gates, &Gate{Index: 0, Kind: KindConst})
	return a
}

// AddInput appends a new primary input and returns its positive literal.
func (a *AIG) AddInput() Literal {
	idx := len(a.gates)
	a.gates = append(a.gates, &Gate{Index: idx, Kind: KindPI})
	a.inputs = append(a.inputs, idx)
	return NewLiteral(idx, false)
}

// AddAnd appends a new two-input AND gate over children a and b and returns
// its positive literal. It requires the two children to reference distinct
// gates (an AND of a literal with itself, possibly negated, is never a valid
// AIG node) and records the gate in each child's fanout list. Children are
// stored in canonical (index-ascending) order for determinism.
func (a *AIG) AddAnd(x, y Literal) (Literal, error) {
	if x.Index() == y.Index() {
		return 0, fmt.Errorf("aig: AND gate cannot have equal-index children (lit %d, %d)", x, y)
	}
	if int(x.Index()) >= len(a.gates) || int(y.Index()) >= len(a.gates) {
		return 0, fmt.Errorf("aig: AND child references undefined gate")
	}
	if x.Index() > y.Index() {
		x, y = y, x
	}

	idx := len(a.gates)
	g := &Gate{Index: idx, Kind: KindAnd, Children: [2]Literal{x, y}}
	a.gates = append(a.gates, g)
	a.gates[x.Index()].addFanout(idx)
	a.gates[y.Index()].addFanout(idx)
	return NewLiteral(idx, false), nil
}

// AddOutput records lit as a new primary output.
func (a *AIG) AddOutput(lit Literal) error {
	if int(lit.Index()) >= len(a.gates) {
		return fmt.Errorf("aig: output references undefined gate %d", lit.Index())
	}
	a.outputs = append(a.outputs, lit)
	return nil
}

// AddLearned appends a learned OR gate over the given fanins (each fanin's
// recorded watch value is the assignment that produced the conflict being
// blocked) and returns its index. Learned gates live in the same indexable
// space as AND gates so the indirect table can reference them uniformly.
func (a *AIG) AddLearned(fanins []Literal, watch []Value) int {
	idx := len(a.gates)
	fi := make([]Literal, len(fanins))
	copy(fi, fanins)
	w := make([]Value, len(watch))
	copy(w, watch)
	g := &Gate{Index: idx, Kind: KindLearned, Fanins: fi, LearnedWatch: w}
	a.gates = append(a.gates, g)
	for _, f := range fi {
		a.gates[f.Index()].addFanout(idx)
	}
	return idx
}

// Gate returns the gate at index i.
func (a *AIG) Gate(i int) *Gate { return a.gates[i] }

// Gates returns every gate, indexed by gate id (index 0 is the constant).
func (a *AIG) Gates() []*Gate { return a.gates }

// NumGates is the total number of gates, including the constant and all PIs.
func (a *AIG) NumGates() int { return len(a.gates) }

// PIs returns the gate indices of every primary input, in declaration order.
func (a *AIG) PIs() []int { return a.inputs }

// NumPIs is the number of primary inputs.
func (a *AIG) NumPIs() int { return len(a.inputs) }

// POs returns the raw output literals, in declaration order.
func (a *AIG) POs() []Literal { return a.outputs }

// NumPOs is the number of primary outputs.
func (a *AIG) NumPOs() int { return len(a.outputs) }

// NumAnds is the number of two-input AND gates (excludes the constant, PIs,
// and any learned gates appended during search).
func (a *AIG) NumAnds() int {
	n := 0
	for _, g := range a.gates {
		if g.Kind == KindAnd {
			n++
		}
	}
	return n
}

// IsPI reports whether gate index i is a primary input.
func (a *AIG) IsPI(i int) bool {
	return i < len(a.gates) && a.gates[i].Kind == KindPI
}

// LiteralTo builds the literal for gate index with the given polarity.
func (a *AIG) LiteralTo(index int, negated bool) Literal {
	return NewLiteral(index, negated)
}

// Evaluate computes every gate's value under a caller-supplied, fully
// assigned primary-input table, for re-checking a witness by direct
// simulation rather than the way the solver itself derives values
// incrementally via BCP. Used by tests to confirm a produced witness
// actually drives every primary output to its asserted polarity.
func (a *AIG) Evaluate(piValues map[int]bool) map[int]bool {
	values := make(map[int]bool, len(a.gates))
	values[0] = false // constant gate is always false
	for idx, v := range piValues {
		values[idx] = v
	}
	for _, g := range a.gates {
		if g.Kind != KindAnd {
			continue
		}
		av := resolveLit(values, g.Children[0])
		bv := resolveLit(values, g.Children[1])
		values[g.Index] = av && bv
	}
	return values
}

func resolveLit(values map[int]bool, lit Literal) bool {
	v := values[lit.Index()]
	if lit.Negated() {
		return !v
	}
	return v
}

// EvaluateOutputs returns, for every primary output, whether its asserted
// polarity holds under piValues.
func (a *AIG) EvaluateOutputs(piValues map[int]bool) []bool {
	values := a.Evaluate(piValues)
	out := make([]bool, len(a.outputs))
	for i, lit := range a.outputs {
		out[i] = resolveLit(values, lit)
	}
	return out
}
