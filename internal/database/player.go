package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/questcore/internal/faction"
	"github.com/lawnchairsociety/questcore/internal/quest"
	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// PlayerProgress is everything stored for one character.
type PlayerProgress struct {
	Log       *quest.PlayerLog
	Standings *faction.Standings
}

// NewPlayerProgress creates empty progress for a new character.
func NewPlayerProgress() *PlayerProgress {
	return &PlayerProgress{
		Log:       quest.NewPlayerLog(),
		Standings: faction.NewStandings(),
	}
}

// SavePlayerProgress replaces everything stored for a character in a
// single transaction.
func (d *Database) SavePlayerProgress(ctx context.Context, characterID int, p *PlayerProgress) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"quest_trackers", "quest_completions", "faction_standings"} {
			if _, err := tx.ExecContext(ctx, d.qb.Build("DELETE FROM "+table+" WHERE character_id = ?"), characterID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		insertTracker := d.qb.Build(`
			INSERT INTO quest_trackers (character_id, quest_id, instance_id, adventure_id, version, started_at, tasks)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		for _, t := range p.Log.Active() {
			tasks, err := json.Marshal(t.Tasks)
			if err != nil {
				return fmt.Errorf("failed to encode tasks for quest %d: %w", t.QuestID, err)
			}
			if _, err := tx.ExecContext(ctx, insertTracker, characterID, t.QuestID, t.InstanceID,
				t.AdventureID, t.Version, t.StartedAt.UTC(), string(tasks)); err != nil {
				return fmt.Errorf("failed to save tracker for quest %d: %w", t.QuestID, err)
			}
		}

		insertCompletion := d.qb.Build(`
			INSERT INTO quest_completions (character_id, quest_id, last_completed, last_instance_id, last_adventure_id)
			VALUES (?, ?, ?, ?, ?)`)
		for _, id := range p.Log.CompletedIDs() {
			c := p.Log.Completions[id]
			if _, err := tx.ExecContext(ctx, insertCompletion, characterID, id, c.LastCompleted.UTC(),
				c.LastInstanceID, c.LastAdventureID); err != nil {
				return fmt.Errorf("failed to save completion for quest %d: %w", id, err)
			}
		}

		if _, err := tx.ExecContext(ctx, d.qb.Build(`
			INSERT INTO quest_daily_counts (character_id, dailies_done, event_dailies_done, daily_window)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (character_id) DO UPDATE SET
				dailies_done = excluded.dailies_done,
				event_dailies_done = excluded.event_dailies_done,
				daily_window = excluded.daily_window`),
			characterID, p.Log.DailiesDone, p.Log.EventDailiesDone, p.Log.DailyWindow.UTC()); err != nil {
			return fmt.Errorf("failed to save daily count: %w", err)
		}

		insertStanding := d.qb.Build(`
			INSERT INTO faction_standings (character_id, faction_id, rung, value)
			VALUES (?, ?, ?, ?)`)
		for _, st := range p.Standings.All() {
			if _, err := tx.ExecContext(ctx, insertStanding, characterID, st.FactionID, st.Rung, st.Value); err != nil {
				return fmt.Errorf("failed to save standing for faction %d: %w", st.FactionID, err)
			}
		}
		return nil
	})
}

// LoadPlayerProgress reads everything stored for a character. A character
// with nothing stored gets empty progress. Trackers whose task data
// cannot be decoded are dropped with a warning.
func (d *Database) LoadPlayerProgress(ctx context.Context, characterID int) (*PlayerProgress, error) {
	p := NewPlayerProgress()

	rows, err := d.db.QueryContext(ctx, d.qb.Build(`
		SELECT quest_id, instance_id, adventure_id, version, started_at, tasks
		FROM quest_trackers WHERE character_id = ?`), characterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trackers: %w", err)
	}
	for rows.Next() {
		var (
			t     quest.Tracker
			tasks string
		)
		if err := rows.Scan(&t.QuestID, &t.InstanceID, &t.AdventureID, &t.Version, &t.StartedAt, &tasks); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan tracker: %w", err)
		}
		if t.Tasks, err = decodeTasks(tasks); err != nil {
			d.log.Warn("Dropping unreadable quest tracker", "character", characterID, "quest", t.QuestID, "error", err)
			continue
		}
		t.StartedAt = t.StartedAt.UTC()
		p.Log.Trackers[t.QuestID] = &t
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trackers: %w", err)
	}

	rows, err = d.db.QueryContext(ctx, d.qb.Build(`
		SELECT quest_id, last_completed, last_instance_id, last_adventure_id
		FROM quest_completions WHERE character_id = ?`), characterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	for rows.Next() {
		var c quest.Completion
		if err := rows.Scan(&c.QuestID, &c.LastCompleted, &c.LastInstanceID, &c.LastAdventureID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		c.LastCompleted = c.LastCompleted.UTC()
		p.Log.Completions[c.QuestID] = &c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read completions: %w", err)
	}

	var window time.Time
	err = d.db.QueryRowContext(ctx, d.qb.Build(
		"SELECT dailies_done, event_dailies_done, daily_window FROM quest_daily_counts WHERE character_id = ?"), characterID).
		Scan(&p.Log.DailiesDone, &p.Log.EventDailiesDone, &window)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to load daily count: %w", err)
	default:
		p.Log.DailyWindow = window.UTC()
	}

	rows, err = d.db.QueryContext(ctx, d.qb.Build(
		"SELECT faction_id, rung, value FROM faction_standings WHERE character_id = ?"), characterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var st faction.Standing
		if err := rows.Scan(&st.FactionID, &st.Rung, &st.Value); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		p.Standings.Set(st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read standings: %w", err)
	}

	return p, nil
}

// SaveCompletion writes one completion record, replacing any earlier one
// for the same quest.
func (d *Database) SaveCompletion(ctx context.Context, characterID int, rec *quest.Completion) error {
	_, err := d.db.ExecContext(ctx, d.qb.Build(`
		INSERT INTO quest_completions (character_id, quest_id, last_completed, last_instance_id, last_adventure_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (character_id, quest_id) DO UPDATE SET
			last_completed = excluded.last_completed,
			last_instance_id = excluded.last_instance_id,
			last_adventure_id = excluded.last_adventure_id`),
		characterID, rec.QuestID, rec.LastCompleted.UTC(), rec.LastInstanceID, rec.LastAdventureID)
	if err != nil {
		return fmt.Errorf("failed to save completion for quest %d: %w", rec.QuestID, err)
	}
	return nil
}

// PruneCompletions removes every stored tracker and completion record for
// a quest and returns how many completion records were removed.
func (d *Database) PruneCompletions(ctx context.Context, questID int) (int64, error) {
	var removed int64
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, d.qb.Build("DELETE FROM quest_trackers WHERE quest_id = ?"), questID); err != nil {
			return fmt.Errorf("failed to prune trackers: %w", err)
		}
		res, err := tx.ExecContext(ctx, d.qb.Build("DELETE FROM quest_completions WHERE quest_id = ?"), questID)
		if err != nil {
			return fmt.Errorf("failed to prune completions: %w", err)
		}
		removed, _ = res.RowsAffected()
		return nil
	})
	return removed, err
}

// StoredQuestIDs returns every quest id that has a stored tracker or
// completion record, in ascending order.
func (d *Database) StoredQuestIDs(ctx context.Context) ([]int, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT quest_id FROM quest_completions
		UNION
		SELECT quest_id FROM quest_trackers
		ORDER BY quest_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query quest ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan quest id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// decodeTasks parses a stored JSON task list.
func decodeTasks(data string) (requirement.List, error) {
	var tasks requirement.List
	if err := json.Unmarshal([]byte(data), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
