package quest

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lawnchairsociety/questcore/internal/logger"
	"gopkg.in/yaml.v3"
)

// DailyCyclesData is the on-disk form of the daily cycle selection.
type DailyCyclesData struct {
	SavedAt time.Time   `yaml:"saved_at"`
	Cycles  map[int]int `yaml:"cycles"` // cycle id -> active quest id
}

// DailyCycles tracks which quest is active in each daily rotation. A
// selection only takes effect after it has been written to disk, so a
// restart never re-rolls a rotation that was already announced.
type DailyCycles struct {
	path   string
	active map[int]int
}

// NewDailyCycles creates an empty selection persisted at path. An empty
// path keeps the selection in memory only.
func NewDailyCycles(path string) *DailyCycles {
	return &DailyCycles{path: path, active: make(map[int]int)}
}

// LoadDailyCycles reads the selection file. A missing file yields an empty
// selection.
func LoadDailyCycles(path string) (*DailyCycles, error) {
	d := NewDailyCycles(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("failed to read daily cycles file: %w", err)
	}

	var stored DailyCyclesData
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse daily cycles file: %w", err)
	}
	for cycle, questID := range stored.Cycles {
		d.active[cycle] = questID
	}
	return d, nil
}

// Active returns the active quest for a cycle.
func (d *DailyCycles) Active(cycle int) (int, bool) {
	id, ok := d.active[cycle]
	return id, ok
}

// Cycles returns the cycle ids with a selection, ascending.
func (d *DailyCycles) Cycles() []int {
	ids := make([]int, 0, len(d.active))
	for id := range d.active {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IsActive reports whether q is currently offered. Quests outside a
// rotation are always active.
func (d *DailyCycles) IsActive(q *Quest) bool {
	if !q.IsDaily() || q.DailyCycle == 0 {
		return true
	}
	id, ok := d.active[q.DailyCycle]
	return ok && id == q.ID
}

// eligible reports whether q may be chosen for its cycle.
func eligible(q *Quest) bool {
	return q.IsDaily() && q.DailyCycle != 0 && !q.InDevelopment()
}

// SelectDailyCycles picks one quest per cycle, uniformly at random, in a
// single pass over the catalog: each candidate replaces the current choice
// with probability 1/seen.
func SelectDailyCycles(c *Catalog, rng *rand.Rand) map[int]int {
	seen := make(map[int]int)
	chosen := make(map[int]int)
	for _, q := range c.All() {
		if !eligible(q) {
			continue
		}
		seen[q.DailyCycle]++
		if rng.IntN(seen[q.DailyCycle]) == 0 {
			chosen[q.DailyCycle] = q.ID
		}
	}
	return chosen
}

// Setup keeps every still-valid selection and fills in cycles that have
// none, dropping cycles with no eligible quest. It reports whether the
// selection changed.
func (d *DailyCycles) Setup(c *Catalog, rng *rand.Rand) (bool, error) {
	fresh := SelectDailyCycles(c, rng)
	next := make(map[int]int, len(fresh))
	for cycle, pick := range fresh {
		if cur, ok := d.active[cycle]; ok {
			if q, found := c.Get(cur); found && eligible(q) && q.DailyCycle == cycle {
				next[cycle] = cur
				continue
			}
		}
		next[cycle] = pick
	}
	if sameSelection(d.active, next) {
		return false, nil
	}
	return true, d.commit(next)
}

// Rotate re-rolls one cycle, or every cycle when cycle is 0.
func (d *DailyCycles) Rotate(c *Catalog, rng *rand.Rand, cycle int) error {
	fresh := SelectDailyCycles(c, rng)
	next := make(map[int]int, len(d.active))
	for id, q := range d.active {
		next[id] = q
	}
	if cycle == 0 {
		next = fresh
	} else if pick, ok := fresh[cycle]; ok {
		next[cycle] = pick
	} else {
		delete(next, cycle)
	}
	if err := d.commit(next); err != nil {
		return err
	}
	logger.Always("Rotated daily quests", "cycle", cycle, "active", len(next))
	return nil
}

// commit persists next and only then makes it the active selection.
func (d *DailyCycles) commit(next map[int]int) error {
	if d.path != "" {
		if err := writeDailyCycles(d.path, next); err != nil {
			return err
		}
	}
	d.active = next
	return nil
}

// Save writes the current selection to disk.
func (d *DailyCycles) Save() error {
	if d.path == "" {
		return nil
	}
	return writeDailyCycles(d.path, d.active)
}

// writeDailyCycles writes to a temp file, syncs it and renames it over path.
func writeDailyCycles(path string, cycles map[int]int) error {
	data, err := yaml.Marshal(&DailyCyclesData{SavedAt: time.Now(), Cycles: cycles})
	if err != nil {
		return fmt.Errorf("failed to marshal daily cycles: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create daily cycles temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write daily cycles: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync daily cycles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close daily cycles temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace daily cycles file: %w", err)
	}
	return nil
}

func sameSelection(a, b map[int]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}
