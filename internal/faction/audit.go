package faction

import (
	"fmt"

	"github.com/lawnchairsociety/questcore/internal/content"
)

// Audit reports content problems with a faction. Asymmetric relations are
// warnings; anything that breaks reputation math is fatal.
func (r *Registry) Audit(f *Faction) []content.Problem {
	subject := fmt.Sprintf("faction %d", f.ID)
	var problems []content.Problem

	if f.Name == "" {
		problems = append(problems, content.Warn(subject, "no name set"))
	}

	minPos, maxPos, startPos := r.ladder.Position(f.MinRung), r.ladder.Position(f.MaxRung), r.ladder.Position(f.StartRung)
	if minPos < 0 {
		problems = append(problems, content.Fatalf(subject, "min reputation level %d is not on the ladder", f.MinRung))
	}
	if maxPos < 0 {
		problems = append(problems, content.Fatalf(subject, "max reputation level %d is not on the ladder", f.MaxRung))
	}
	if startPos < 0 {
		problems = append(problems, content.Fatalf(subject, "starting reputation level %d is not on the ladder", f.StartRung))
	}
	if minPos >= 0 && maxPos >= 0 {
		if minPos > maxPos {
			problems = append(problems, content.Fatalf(subject, "min reputation is above max reputation"))
		} else if startPos >= 0 && (startPos < minPos || startPos > maxPos) {
			problems = append(problems, content.Fatalf(subject, "starting reputation is outside min/max"))
		}
	}

	for _, otherID := range f.RelatedIDs() {
		rel := f.Relations[otherID]
		if otherID == f.ID {
			problems = append(problems, content.Fatalf(subject, "relation to itself"))
			continue
		}
		if rel.Has(RelShared) && rel.Has(RelInverse) {
			problems = append(problems, content.Fatalf(subject, "relation to faction %d is both shared and inverse", otherID))
		}
		other, ok := r.factions[otherID]
		if !ok {
			problems = append(problems, content.Missing(subject, "relation to missing faction %d", otherID))
			continue
		}
		back, ok := other.Relations[f.ID]
		if !ok {
			problems = append(problems, content.Warn(subject, "faction %d has no matching relation back", otherID))
		} else if back != rel {
			problems = append(problems, content.Warn(subject, "relation flags with faction %d are asymmetric", otherID))
		}
	}

	return problems
}
