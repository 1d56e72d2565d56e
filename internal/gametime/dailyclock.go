package gametime

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// lookback bounds how far before "now" the clock searches for the most
// recent reset. Expressions that fire less than weekly start with a zero
// LastReset until their first firing.
const lookback = 7 * 24 * time.Hour

// DailyClock tracks the shared daily reset that gates daily quests and
// daily cycle rotation. The schedule is a standard 5-field cron expression.
type DailyClock struct {
	expr      string
	schedule  cron.Schedule
	lastReset time.Time
	nextReset time.Time
}

// NewDailyClock parses expr and positions the clock at now.
func NewDailyClock(expr string, now time.Time) (*DailyClock, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse daily reset %q: %w", expr, err)
	}

	dc := &DailyClock{expr: expr, schedule: sched}
	dc.lastReset = dc.previous(now)
	dc.nextReset = sched.Next(now)
	return dc, nil
}

// previous returns the latest firing at or before now.
func (dc *DailyClock) previous(now time.Time) time.Time {
	var last time.Time
	t := now.Add(-lookback)
	for {
		n := dc.schedule.Next(t)
		if n.IsZero() || n.After(now) {
			return last
		}
		last = n
		t = n
	}
}

// Expr returns the cron expression the clock was built from.
func (dc *DailyClock) Expr() string {
	return dc.expr
}

// LastReset returns the most recent reset that has already passed.
func (dc *DailyClock) LastReset() time.Time {
	return dc.lastReset
}

// NextReset returns the next scheduled reset.
func (dc *DailyClock) NextReset() time.Time {
	return dc.nextReset
}

// Advance moves the clock to now and reports whether a reset boundary was
// crossed since the previous call. Several missed resets count as one.
func (dc *DailyClock) Advance(now time.Time) bool {
	if now.Before(dc.nextReset) {
		return false
	}
	dc.lastReset = dc.previous(now)
	dc.nextReset = dc.schedule.Next(now)
	return true
}

// SameDay reports whether t falls inside the current reset window.
func (dc *DailyClock) SameDay(t time.Time) bool {
	return !t.Before(dc.lastReset)
}
