package schedule

import (
	"git.lost.host/meutraa/barline/internal/entity"
	"git.lost.host/meutraa/barline/internal/game"
	"git.lost.host/meutraa/barline/internal/rhythm"
)

// Reaper deletes targets, hit or not, once their own occurrence is a
// full grace period in the past. This bounds the entity count whether
// or not the player touches anything.
type Reaper struct {
	grid    *rhythm.Grid
	graceMs uint64

	store   *entity.Store
	targets *entity.Table[game.Target]
	results *entity.Table[game.HitResult]
}

func NewReaper(
	grid *rhythm.Grid,
	graceMs uint64,
	store *entity.Store,
	targets *entity.Table[game.Target],
	results *entity.Table[game.HitResult],
) *Reaper {
	return &Reaper{grid: grid, graceMs: graceMs, store: store, targets: targets, results: results}
}

// Tick removes expired targets and reports how many of them were never
// hit. An unhit expiry is a miss, not an error.
func (r *Reaper) Tick(nowMs uint64) (missed int) {
	var expired []entity.ID
	for _, id := range r.targets.IDs() {
		t, _ := r.targets.Get(id)
		at := t.Time(r.grid.BarMillis)
		if nowMs >= at && nowMs-at >= r.graceMs {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		if !r.results.Has(id) {
			missed++
		}
		r.store.Delete(id)
	}
	return missed
}
