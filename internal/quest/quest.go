package quest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// RepeatNever and RepeatImmediately are the special RepeatAfter values.
const (
	RepeatNever       = -1
	RepeatImmediately = 0
)

// Flags is the quest flag bitset.
type Flags uint32

const (
	FlagDaily                Flags = 1 << iota // part of the daily rotation and quota
	FlagEmpireOnly                             // giver must belong to the player's empire
	FlagNoGuests                               // giver must not belong to another empire
	FlagRepeatPerInstance                      // a new adventure instance allows one more completion
	FlagExpiresAfterInstance                   // tracker dropped when its instance ends
	FlagInDevelopment                          // hidden from mortals
	FlagTutorial                               // skipped by players who opt out of tutorials
	FlagEvent                                  // only offered while the event it awards points for runs
	FlagGroupCompletion                        // group members complete together
	FlagExtractTaskObjects                     // task objects are taken on turn-in
	FlagInCityOnly                             // givers must be inside a city
)

var flagNames = map[string]Flags{
	"daily":                  FlagDaily,
	"empire-only":            FlagEmpireOnly,
	"no-guests":              FlagNoGuests,
	"repeat-per-instance":    FlagRepeatPerInstance,
	"expires-after-instance": FlagExpiresAfterInstance,
	"in-development":         FlagInDevelopment,
	"tutorial":               FlagTutorial,
	"event":                  FlagEvent,
	"group-completion":       FlagGroupCompletion,
	"extract-task-objects":   FlagExtractTaskObjects,
	"in-city-only":           FlagInCityOnly,
}

// Has reports whether every bit in f is set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

// Names returns the set flag names, sorted.
func (fl Flags) Names() []string {
	var out []string
	for n, bit := range flagNames {
		if fl&bit != 0 {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// GiverKind is the type of world entity that starts or ends a quest.
type GiverKind int

const (
	GiverBuilding GiverKind = iota + 1
	GiverMobile
	GiverObject
	GiverRoomTemplate
	GiverVehicle
	GiverTrigger
	GiverQuest // completing another quest
)

var giverNames = map[GiverKind]string{
	GiverBuilding:     "building",
	GiverMobile:       "mobile",
	GiverObject:       "object",
	GiverRoomTemplate: "room-template",
	GiverVehicle:      "vehicle",
	GiverTrigger:      "trigger",
	GiverQuest:        "quest",
}

func (k GiverKind) String() string {
	if n, ok := giverNames[k]; ok {
		return n
	}
	return fmt.Sprintf("giver(%d)", int(k))
}

// ParseGiverKind converts a YAML name to a GiverKind.
func ParseGiverKind(s string) (GiverKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range giverNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown giver type %q", s)
}

// HasInstances reports whether live copies of the prototype cache the
// quest lookups and need re-pointing when the index changes.
func (k GiverKind) HasInstances() bool {
	return k == GiverMobile || k == GiverObject || k == GiverVehicle
}

// HasPrototype reports whether the kind resolves to a world prototype.
func (k GiverKind) HasPrototype() bool {
	return k != GiverTrigger && k != GiverQuest
}

// Giver is one start or end point of a quest.
type Giver struct {
	Kind GiverKind
	Vnum int
}

// RewardKind is the type of a quest reward.
type RewardKind int

const (
	RewardBonusExp RewardKind = iota + 1
	RewardCoins
	RewardCurrency
	RewardObject
	RewardSkillExp
	RewardSkillLevel
	RewardQuestChain
	RewardReputation
	RewardEventPoints
)

var rewardNames = map[RewardKind]string{
	RewardBonusExp:    "bonus-exp",
	RewardCoins:       "coins",
	RewardCurrency:    "currency",
	RewardObject:      "object",
	RewardSkillExp:    "skill-exp",
	RewardSkillLevel:  "skill-level",
	RewardQuestChain:  "quest-chain",
	RewardReputation:  "reputation",
	RewardEventPoints: "event-points",
}

func (k RewardKind) String() string {
	if n, ok := rewardNames[k]; ok {
		return n
	}
	return fmt.Sprintf("reward(%d)", int(k))
}

// ParseRewardKind converts a YAML name to a RewardKind.
func ParseRewardKind(s string) (RewardKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range rewardNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown reward type %q", s)
}

// Reward is one entry in a quest's reward list. Vnum names the object,
// currency, skill, quest, faction or event; Amount is the quantity.
type Reward struct {
	Kind   RewardKind
	Vnum   int
	Amount int
}

// Quest represents a quest definition
type Quest struct {
	ID              int
	Name            string
	Description     string
	CompleteMessage string
	Flags           Flags
	Version         int // bumped on every edit; trackers migrate forward

	MinLevel int
	MaxLevel int // 0 = no cap

	// RepeatAfter is in minutes: RepeatNever, RepeatImmediately, or a delay.
	RepeatAfter int
	DailyCycle  int // 0 = not part of a rotation

	StartsAt []Giver
	EndsAt   []Giver
	Prereqs  requirement.List
	Tasks    requirement.List
	Rewards  []Reward
	Scripts  []int
}

// InDevelopment reports whether the quest is hidden from mortals.
func (q *Quest) InDevelopment() bool {
	return q.Flags.Has(FlagInDevelopment)
}

// IsDaily reports whether the quest counts as a daily.
func (q *Quest) IsDaily() bool {
	return q.Flags.Has(FlagDaily)
}

// IsEventDaily reports whether the quest is a daily tied to an event. Event
// dailies keep their own daily quota.
func (q *Quest) IsEventDaily() bool {
	return q.Flags.Has(FlagDaily) && q.Flags.Has(FlagEvent)
}

// HasPrereqs returns true if the quest has prerequisites
func (q *Quest) HasPrereqs() bool {
	return len(q.Prereqs) > 0
}

// TaskCount returns the number of tasks
func (q *Quest) TaskCount() int {
	return len(q.Tasks)
}

// HasGiver reports whether g is registered in the given direction.
func (q *Quest) HasGiver(dir Direction, g Giver) bool {
	list := q.StartsAt
	if dir == Ends {
		list = q.EndsAt
	}
	for _, have := range list {
		if have == g {
			return true
		}
	}
	return false
}

// Event returns the event a quest awards points for.
func (q *Quest) Event() (int, bool) {
	for _, r := range q.Rewards {
		if r.Kind == RewardEventPoints {
			return r.Vnum, true
		}
	}
	return 0, false
}

// LevelFor clamps a player level into the quest's level range, used to
// scale rewards.
func (q *Quest) LevelFor(level int) int {
	if q.MinLevel > 0 && level < q.MinLevel {
		level = q.MinLevel
	}
	if q.MaxLevel > 0 && level > q.MaxLevel {
		level = q.MaxLevel
	}
	return level
}

// Clone returns a deep copy of q.
func (q *Quest) Clone() *Quest {
	c := *q
	c.StartsAt = append([]Giver(nil), q.StartsAt...)
	c.EndsAt = append([]Giver(nil), q.EndsAt...)
	c.Prereqs = q.Prereqs.Copy()
	c.Tasks = q.Tasks.Copy()
	c.Rewards = append([]Reward(nil), q.Rewards...)
	c.Scripts = append([]int(nil), q.Scripts...)
	return &c
}
