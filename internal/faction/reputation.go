package faction

import (
	"fmt"

	"github.com/lawnchairsociety/questcore/internal/logger"
)

// Member is a character whose reputation the engine tracks.
type Member interface {
	IsNPC() bool
	Standings() *Standings
	SendMessage(message string)
}

// standingFor returns a copy of the standing s holds with f, or one at the
// faction's starting rung on first contact. Nothing is stored.
func (r *Registry) standingFor(s *Standings, f *Faction) Standing {
	if st := s.Get(f.ID); st != nil {
		return *st
	}
	start := r.startRung(f)
	return Standing{FactionID: f.ID, Rung: start.ID, Value: start.Threshold}
}

// GainReputation changes m's reputation with a faction and returns the ids
// of every faction whose standing changed, cascaded ones included.
//
// Processing order: mutual exclusion, cascade to related factions (one
// level, silent), kill gate, bounds, then apply and step. The kill gate
// runs after the cascade, so related factions react to a kill even when the
// primary faction ignores kills. Existing content relies on that ordering.
//
// Only the outermost call (cascade true) messages the member.
func (r *Registry) GainReputation(m Member, factionID, amount int, isKill, cascade bool) []int {
	var changed []int
	r.gain(m, factionID, amount, isKill, cascade, &changed)
	return changed
}

func (r *Registry) gain(m Member, factionID, amount int, isKill, cascade bool, changed *[]int) {
	if m == nil || m.IsNPC() || amount == 0 {
		return
	}
	f, ok := r.factions[factionID]
	if !ok || f.InDevelopment() {
		return
	}
	standings := m.Standings()
	if standings == nil {
		return
	}
	st := r.standingFor(standings, f)

	if amount > 0 {
		for _, otherID := range f.RelatedIDs() {
			if !f.Relations[otherID].Has(RelMutuallyExclusive) {
				continue
			}
			if other := standings.Get(otherID); other != nil && other.Value > 0 {
				return
			}
		}
	}

	if cascade {
		for _, otherID := range f.RelatedIDs() {
			rel := f.Relations[otherID]
			if rel.Has(RelShared) {
				r.gain(m, otherID, amount, isKill, false, changed)
			}
			if rel.Has(RelInverse) {
				r.gain(m, otherID, -amount, isKill, false, changed)
			}
		}
	}

	if isKill && !f.Flags.Has(FlagRepFromKills) {
		if cascade && len(*changed) > 0 {
			logger.Debug("Kill reputation cascaded past kill gate", "faction", f.ID, "amount", amount, "cascaded", *changed)
		}
		return
	}

	lo, hi := r.bounds(f)
	if (amount > 0 && st.Value >= hi) || (amount < 0 && st.Value <= lo) {
		return
	}

	oldRung := st.Rung
	value := saturatingAdd(st.Value, amount)
	value = clamp(value, r.ladder.MinValue(), r.ladder.MaxValue())
	st.Value = clamp(value, lo, hi)
	st.Rung = r.ladder.At(r.ladder.step(r.ladder.Position(st.Rung), st.Value, nil)).ID
	standings.Set(st)
	*changed = append(*changed, f.ID)

	if !cascade {
		return
	}
	if st.Rung != oldRung {
		rung, _ := r.ladder.Get(st.Rung)
		m.SendMessage(fmt.Sprintf("Your reputation with %s is now %s.", f.Name, rung.Name))
	} else if amount > 0 {
		m.SendMessage(fmt.Sprintf("Your reputation with %s has improved.", f.Name))
	} else {
		m.SendMessage(fmt.Sprintf("Your reputation with %s has worsened.", f.Name))
	}
}

// CurrentRung returns m's rung id with a faction, defaulting to the
// faction's starting rung when m has no standing yet.
func (r *Registry) CurrentRung(m Member, factionID int) (int, bool) {
	f, ok := r.factions[factionID]
	if !ok {
		return 0, false
	}
	if m != nil && m.Standings() != nil {
		if st := m.Standings().Get(factionID); st != nil {
			return st.Rung, true
		}
	}
	return r.startRung(f).ID, true
}

// HasReputation reports whether m is at or above rungID with a faction.
func (r *Registry) HasReputation(m Member, factionID, rungID int) bool {
	cur, ok := r.CurrentRung(m, factionID)
	if !ok || r.ladder.Position(rungID) < 0 {
		return false
	}
	return r.ladder.Compare(cur, rungID) >= 0
}

// CompareReputation orders two rung ids by ladder position only.
func (r *Registry) CompareReputation(a, b int) int {
	return r.ladder.Compare(a, b)
}

// UpdateReputations re-clamps every standing to its faction's current
// bounds and re-derives the rung with the same stepping rules as
// GainReputation. Standings for factions that no longer exist are dropped.
// It returns the ids of factions whose standing changed.
func (r *Registry) UpdateReputations(m Member) []int {
	if m == nil || m.Standings() == nil {
		return nil
	}
	var changed []int
	for _, st := range m.Standings().All() {
		f, ok := r.factions[st.FactionID]
		if !ok {
			m.Standings().Remove(st.FactionID)
			changed = append(changed, st.FactionID)
			continue
		}
		lo, hi := r.bounds(f)
		value := clamp(st.Value, lo, hi)
		rung := r.ladder.At(r.ladder.step(r.ladder.Position(st.Rung), value, nil)).ID
		if value != st.Value || rung != st.Rung {
			st.Value, st.Rung = value, rung
			changed = append(changed, f.ID)
		}
	}
	return changed
}
