package solver

import "github.com/fyerfyer/aigsat/pkg/aig"

// assign is the only routine that extends the trail. It is a no-op if id
// is already assigned; callers that need to detect a clash against an
// already-assigned gate must check value(id) themselves first (as the
// direct/indirect BCP phases and seedOutputs do).
func (s *Solver) assign(id int, val aig.Value, antecedent []int) {
	if s.value[id] != aig.Unset {
		return
	}
	s.value[id] = val
	s.level[id] = s.currentLevel()
	s.antecedent[id] = append([]int(nil), antecedent...)
	s.trail = append(s.trail, id)
	s.queue = append(s.queue, id)

	g := s.a.Gate(id)
	if g.Kind == aig.KindAnd && val == aig.False {
		a, b := g.Children[0].Index(), g.Children[1].Index()
		if s.value[a] == aig.Unset && s.value[b] == aig.Unset {
			s.frame().JFrontier[id] = struct{}{}
		}
	}
}

// refreshJFrontier drops any member of the current level's J-frontier
// whose output is no longer false or whose inputs are no longer both
// unassigned.
func (s *Solver) refreshJFrontier() {
	f := s.frame().JFrontier
	for id := range f {
		g := s.a.Gate(id)
		a, b := g.Children[0].Index(), g.Children[1].Index()
		if s.value[id] != aig.False || s.value[a] != aig.Unset || s.value[b] != aig.Unset {
			delete(f, id)
		}
	}
}

// pushDecisionFrame opens a new decision level over gate id, inheriting
// a copy of the prior level's J-frontier.
func (s *Solver) pushDecisionFrame(id int) {
	prev := s.frame().JFrontier
	next := make(map[int]struct{}, len(prev))
	for k := range prev {
		next[k] = struct{}{}
	}
	s.decisionStack = append(s.decisionStack, &Frame{
		TrailStart:   len(s.trail),
		DecisionLine: id,
		JFrontier:    next,
	})
}

// backjump pops trail entries down to the frame opened at toLevel+1's
// trail start, resetting value/level/antecedent of each popped entry, and
// truncates the decision stack to toLevel+1 frames.
func (s *Solver) backjump(toLevel int) {
	target := s.decisionStack[toLevel+1].TrailStart
	for len(s.trail) > target {
		last := len(s.trail) - 1
		id := s.trail[last]
		s.trail = s.trail[:last]
		s.value[id] = aig.Unset
		s.level[id] = -1
		s.antecedent[id] = nil
	}
	s.decisionStack = s.decisionStack[:toLevel+1]
	s.queue = s.queue[:0]
	s.qHead = 0
}
