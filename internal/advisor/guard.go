package advisor

import "github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"

// cascadeGuard enforces the no-cascading invariants while suggestions are
// accepted in rule order:
//
//   - a path referenced as a prerequisite by an accepted suggestion can never
//     become a target, and a target can never become a prerequisite;
//   - the canonical member of a duplicate group is not targeted while another
//     member of the same group is already targeted (never both copies).
type cascadeGuard struct {
	targets   map[string]bool
	prereqs   map[string]bool
	group     map[string]*models.DuplicateGroup // member path -> group
	canonical map[string]bool
}

func newCascadeGuard(groups []*models.DuplicateGroup) *cascadeGuard {
	g := &cascadeGuard{
		targets:   make(map[string]bool),
		prereqs:   make(map[string]bool),
		group:     make(map[string]*models.DuplicateGroup),
		canonical: make(map[string]bool),
	}
	for _, grp := range groups {
		for _, m := range grp.Members {
			g.group[m.Path] = grp
		}
		g.canonical[grp.CanonicalPath] = true
	}
	return g
}

// admit accepts or rejects a candidate suggestion, recording its paths on
// acceptance.
func (g *cascadeGuard) admit(s *models.ErasabilitySuggestion) bool {
	if g.prereqs[s.Path] {
		return false // already relied upon as a regeneration source
	}
	for _, p := range s.PrerequisitePaths {
		if g.targets[p] {
			return false // prerequisite is itself already targeted for erasure
		}
	}
	if g.canonical[s.Path] {
		for _, m := range g.group[s.Path].Members {
			if m.Path != s.Path && g.targets[m.Path] {
				return false // another copy is already going away
			}
		}
	}

	g.targets[s.Path] = true
	for _, p := range s.PrerequisitePaths {
		g.prereqs[p] = true
	}
	return true
}
