package faction

import (
	"encoding/json"
	"sort"
)

// Standing is a player's reputation with one faction.
type Standing struct {
	FactionID int `json:"faction_id"`
	Rung      int `json:"rung"` // ladder rung id
	Value     int `json:"value"`
}

// Standings holds every faction standing for one player.
type Standings struct {
	byFaction map[int]*Standing
}

// NewStandings creates an empty set of standings.
func NewStandings() *Standings {
	return &Standings{byFaction: make(map[int]*Standing)}
}

// Get returns the standing for a faction, or nil.
func (s *Standings) Get(factionID int) *Standing {
	return s.byFaction[factionID]
}

// Set stores a standing, replacing any existing one.
func (s *Standings) Set(st Standing) {
	s.byFaction[st.FactionID] = &st
}

// Remove deletes the standing for a faction and reports whether it existed.
func (s *Standings) Remove(factionID int) bool {
	if _, ok := s.byFaction[factionID]; !ok {
		return false
	}
	delete(s.byFaction, factionID)
	return true
}

// All returns the standings ordered by faction id.
func (s *Standings) All() []*Standing {
	out := make([]*Standing, 0, len(s.byFaction))
	for _, st := range s.byFaction {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FactionID < out[j].FactionID })
	return out
}

// Len returns the number of standings.
func (s *Standings) Len() int {
	return len(s.byFaction)
}

// ToJSON serializes standings for database storage.
func (s *Standings) ToJSON() string {
	data, err := json.Marshal(s.All())
	if err != nil {
		return "[]"
	}
	return string(data)
}

// StandingsFromJSON deserializes standings from the database.
func StandingsFromJSON(data string) (*Standings, error) {
	s := NewStandings()
	if data == "" || data == "[]" {
		return s, nil
	}

	var list []Standing
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, err
	}
	for _, st := range list {
		s.Set(st)
	}
	return s, nil
}
