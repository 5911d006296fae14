package solver

import (
	"sort"

	"github.com/fyerfyer/aigsat/pkg/aig"
)

// analyzeConflict resolves the current conflict cause to a first-UIP cut,
// installs a learned gate (or asserts a unit at level 0), backjumps, and
// re-propagates. It returns false when the analysis proves UNSAT, or when
// the conflict budget has been exhausted (s.limitReached is set in that
// case so the driver can distinguish the two).
func (s *Solver) analyzeConflict() bool {
	s.conflicts++
	if s.maxConflicts > 0 && s.conflicts > s.maxConflicts {
		s.limitReached = true
		return false
	}

	level := s.currentLevel()
	set := dedupeInts(s.conflictCause)

	for {
		set = s.dropLevelZero(set)
		if len(set) == 0 {
			return false
		}
		if s.countAtLevel(set, level) == 1 {
			break
		}
		t, ok := s.chooseResolutionTarget(set, level)
		if !ok {
			break
		}
		set = s.resolve(set, t)
	}

	set = s.dropLevelZero(set)
	if len(set) == 0 {
		return false
	}

	if len(set) == 1 {
		u := set[0]
		oldU := s.value[u]
		s.backjump(0)
		s.assign(u, oldU.Not(), nil)
		s.logger.Learn("unit %d = %v asserted at level 0", u, oldU.Not())
	} else {
		s.sortDescByLevel(set)
		u := set[0]
		secondLevel := s.level[set[1]]

		watch := make([]aig.Value, len(set))
		for i, id := range set {
			watch[i] = s.value[id]
		}
		oldU := watch[0]

		lits := make([]aig.Literal, len(set))
		for i, id := range set {
			lits[i] = aig.NewLiteral(id, false)
		}

		idx := s.a.AddLearned(lits, watch)
		s.growState(idx + 1)
		s.tables.InstallLearned(idx, lits, watch)
		s.learned++

		s.backjump(secondLevel)

		ante := make([]int, 0, len(set)-1)
		for _, id := range set[1:] {
			ante = append(ante, id)
		}
		s.assign(u, oldU.Not(), ante)
		s.logger.Backjump("learned gate %d, backjump to level %d, assert %d = %v", idx, secondLevel, u, oldU.Not())
	}

	if s.propagate() {
		return true
	}
	return s.analyzeConflict()
}

func (s *Solver) dropLevelZero(set []int) []int {
	out := set[:0:0]
	for _, id := range set {
		if s.level[id] != 0 {
			out = append(out, id)
		}
	}
	return out
}

func (s *Solver) countAtLevel(set []int, level int) int {
	c := 0
	for _, id := range set {
		if s.level[id] == level {
			c++
		}
	}
	return c
}

// chooseResolutionTarget picks a member of set at the conflict level with
// a non-empty antecedent, walking the trail back-to-front so the most
// recently assigned qualifying gate is chosen (the standard 1-UIP walk),
// which keeps the choice deterministic for a given trail.
func (s *Solver) chooseResolutionTarget(set []int, level int) (int, bool) {
	inSet := make(map[int]struct{}, len(set))
	for _, id := range set {
		inSet[id] = struct{}{}
	}
	for i := len(s.trail) - 1; i >= 0; i-- {
		id := s.trail[i]
		if _, ok := inSet[id]; !ok {
			continue
		}
		if s.level[id] != level {
			continue
		}
		if len(s.antecedent[id]) > 0 {
			return id, true
		}
	}
	return 0, false
}

func (s *Solver) resolve(set []int, t int) []int {
	rest := make([]int, 0, len(set))
	for _, id := range set {
		if id != t {
			rest = append(rest, id)
		}
	}
	return unionIDs(rest, s.antecedent[t])
}

func (s *Solver) sortDescByLevel(set []int) {
	sort.Slice(set, func(i, j int) bool {
		if s.level[set[i]] != s.level[set[j]] {
			return s.level[set[i]] > s.level[set[j]]
		}
		return set[i] < set[j]
	})
}

func dedupeInts(in []int) []int {
	return unionIDs(in)
}
