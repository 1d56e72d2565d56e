package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lawnchairsociety/questcore/internal/progress"
)

// SaveEmpireProgress replaces an empire's stored goal trackers and
// completed goals.
func (d *Database) SaveEmpireProgress(ctx context.Context, empireID int, p *progress.EmpireProgress) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"empire_goal_trackers", "empire_completed_goals"} {
			if _, err := tx.ExecContext(ctx, d.qb.Build("DELETE FROM "+table+" WHERE empire_id = ?"), empireID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		insertTracker := d.qb.Build(
			"INSERT INTO empire_goal_trackers (empire_id, goal_id, version, tasks) VALUES (?, ?, ?, ?)")
		for _, gt := range p.Trackers() {
			tasks, err := json.Marshal(gt.Tasks)
			if err != nil {
				return fmt.Errorf("failed to encode tasks for goal %d: %w", gt.GoalID, err)
			}
			if _, err := tx.ExecContext(ctx, insertTracker, empireID, gt.GoalID, gt.Version, string(tasks)); err != nil {
				return fmt.Errorf("failed to save goal tracker %d: %w", gt.GoalID, err)
			}
		}

		insertDone := d.qb.Build(
			"INSERT INTO empire_completed_goals (empire_id, goal_id, completed_at) VALUES (?, ?, ?)")
		for _, id := range p.CompletedIDs() {
			if _, err := tx.ExecContext(ctx, insertDone, empireID, id, p.Completed[id].UTC()); err != nil {
				return fmt.Errorf("failed to save completed goal %d: %w", id, err)
			}
		}
		return nil
	})
}

// LoadEmpireProgress reads an empire's goals. Unreadable trackers are
// dropped with a warning.
func (d *Database) LoadEmpireProgress(ctx context.Context, empireID int) (*progress.EmpireProgress, error) {
	p := progress.NewEmpireProgress()

	rows, err := d.db.QueryContext(ctx, d.qb.Build(
		"SELECT goal_id, version, tasks FROM empire_goal_trackers WHERE empire_id = ?"), empireID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goal trackers: %w", err)
	}
	for rows.Next() {
		var (
			gt    progress.GoalTracker
			tasks string
		)
		if err := rows.Scan(&gt.GoalID, &gt.Version, &tasks); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan goal tracker: %w", err)
		}
		if gt.Tasks, err = decodeTasks(tasks); err != nil {
			d.log.Warn("Dropping unreadable goal tracker", "empire", empireID, "goal", gt.GoalID, "error", err)
			continue
		}
		p.Current[gt.GoalID] = &gt
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read goal trackers: %w", err)
	}

	rows, err = d.db.QueryContext(ctx, d.qb.Build(
		"SELECT goal_id, completed_at FROM empire_completed_goals WHERE empire_id = ?"), empireID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed goals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int
			when time.Time
		)
		if err := rows.Scan(&id, &when); err != nil {
			return nil, fmt.Errorf("failed to scan completed goal: %w", err)
		}
		p.Completed[id] = when.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read completed goals: %w", err)
	}

	return p, nil
}
