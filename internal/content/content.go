// Package content holds the error taxonomy and audit result types shared by
// the quest, faction and progress catalogs.
package content

import (
	"errors"
	"fmt"
)

var (
	// ErrContentIntegrity marks authored content that is internally
	// inconsistent: asymmetric relations, dangling references, quests
	// without givers. Detected by audits; never fatal to running players.
	ErrContentIntegrity = errors.New("content integrity")

	// ErrLookupMiss marks a prototype or definition id that no longer
	// resolves. Callers treat the feature as unavailable.
	ErrLookupMiss = errors.New("lookup miss")

	// ErrStateInconsistency marks saved player state that no longer matches
	// the catalogs (a tracker for a deleted quest, a stale record).
	ErrStateInconsistency = errors.New("state inconsistency")
)

// Problem is one finding from an audit.
type Problem struct {
	Err     error  // one of the sentinel errors above
	Subject string // e.g. "quest 1200", "faction 5"
	Message string
	fatal   bool
}

// Warn builds a non-fatal problem.
func Warn(subject, format string, args ...any) Problem {
	return Problem{Err: ErrContentIntegrity, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// Fatalf builds a problem serious enough to quarantine the content.
func Fatalf(subject, format string, args ...any) Problem {
	return Problem{Err: ErrContentIntegrity, Subject: subject, Message: fmt.Sprintf(format, args...), fatal: true}
}

// Missing builds a fatal dangling-reference problem.
func Missing(subject, format string, args ...any) Problem {
	return Problem{Err: ErrLookupMiss, Subject: subject, Message: fmt.Sprintf(format, args...), fatal: true}
}

// Fatal reports whether the content should be quarantined.
func (p Problem) Fatal() bool {
	return p.fatal
}

// Error implements error so a problem can be wrapped and matched with errors.Is.
func (p Problem) Error() string {
	return fmt.Sprintf("%s: %s", p.Subject, p.Message)
}

// Unwrap returns the sentinel category.
func (p Problem) Unwrap() error {
	return p.Err
}

// HasFatal reports whether any problem in the list is fatal.
func HasFatal(problems []Problem) bool {
	for _, p := range problems {
		if p.Fatal() {
			return true
		}
	}
	return false
}
