package solver

import "github.com/fyerfyer/aigsat/pkg/aig"

// pickFromJFrontier chooses the next decision: among all unassigned
// inputs of the current level's J-frontier gates, return the one with the
// largest fanout in the AIG, ties broken by smaller gate id.
func (s *Solver) pickFromJFrontier() (int, bool) {
	frontier := s.frame().JFrontier
	if len(frontier) == 0 {
		return 0, false
	}

	best, bestFanout := -1, -1
	for gid := range frontier {
		g := s.a.Gate(gid)
		for _, c := range g.Children {
			cid := c.Index()
			if s.value[cid] != aig.Unset {
				continue
			}
			fanout := len(s.a.Gate(cid).Fanouts)
			if best == -1 || fanout > bestFanout || (fanout == bestFanout && cid < best) {
				best, bestFanout = cid, fanout
			}
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}
