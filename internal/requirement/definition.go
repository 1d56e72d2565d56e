package requirement

import (
	"fmt"

	"github.com/lawnchairsociety/questcore/internal/content"
)

// Definition is the YAML form of a requirement.
type Definition struct {
	Type   string `yaml:"type"`
	Vnum   int    `yaml:"vnum"`
	Misc   int    `yaml:"misc,omitempty"`
	Needed int    `yaml:"needed,omitempty"`
	Group  int    `yaml:"group,omitempty"`
}

// FromDefinition converts a YAML definition. Yes/no and reputation kinds
// always need exactly 1.
func FromDefinition(def Definition) (Requirement, error) {
	kind, err := ParseKind(def.Type)
	if err != nil {
		return Requirement{}, err
	}
	r := Requirement{Kind: kind, Vnum: def.Vnum, Misc: def.Misc, Needed: def.Needed, Group: def.Group}
	switch kind.Amount() {
	case AmountNone, AmountReputation:
		r.Needed = 1
	case AmountNumber:
		if r.Needed <= 0 {
			r.Needed = 1
		}
	}
	return r, nil
}

// ToDefinition converts r back to its YAML form.
func ToDefinition(r Requirement) Definition {
	return Definition{Type: r.Kind.String(), Vnum: r.Vnum, Misc: r.Misc, Needed: r.Needed, Group: r.Group}
}

// ListFromDefinitions converts defs, skipping entries that fail to parse.
// Parse failures are returned as fatal problems against subject.
func ListFromDefinitions(subject string, defs []Definition) (List, []content.Problem) {
	var problems []content.Problem
	list := make(List, 0, len(defs))
	for i, def := range defs {
		r, err := FromDefinition(def)
		if err != nil {
			problems = append(problems, content.Fatalf(subject, "entry %d: %v", i+1, err))
			continue
		}
		list = append(list, r)
	}
	return list, problems
}

// Role says how a list is used, which decides which kinds it may hold.
type Role int

const (
	RolePrereqs Role = iota
	RoleTasks
)

// Audit reports content problems in l for the given role.
func (l List) Audit(subject string, role Role) []content.Problem {
	var problems []content.Problem
	for i, r := range l {
		where := fmt.Sprintf("%s #%d (%s %d)", roleName(role), i+1, r.Kind, r.Vnum)
		if !r.Kind.Valid() {
			problems = append(problems, content.Fatalf(subject, "%s: invalid requirement type", where))
			continue
		}
		switch role {
		case RolePrereqs:
			if !r.Kind.Refreshable() {
				problems = append(problems, content.Fatalf(subject, "%s: type cannot be evaluated as a prerequisite", where))
			}
		case RoleTasks:
			if r.Kind.PrereqOnly() {
				problems = append(problems, content.Fatalf(subject, "%s: type is only valid as a prerequisite", where))
			}
		}
		if r.Kind.Amount() == AmountNumber && r.Needed <= 0 {
			problems = append(problems, content.Warn(subject, "%s: needed amount must be positive", where))
		}
		if r.Kind.Amount() == AmountThreshold && r.Needed <= 0 {
			problems = append(problems, content.Warn(subject, "%s: threshold must be positive", where))
		}
	}
	return problems
}

func roleName(role Role) string {
	if role == RolePrereqs {
		return "prereq"
	}
	return "task"
}
