package schedule

import (
	"git.lost.host/meutraa/barline/internal/entity"
	"git.lost.host/meutraa/barline/internal/game"
	"git.lost.host/meutraa/barline/internal/rhythm"
)

// Lane is one repeating rhythm line: a bar-relative time and the key
// that satisfies it. Lanes are configuration, scheduled independently
// of each other.
type Lane struct {
	BarTime uint64
	Key     rune
	Column  int
}

// Scheduler keeps every lane's next occurrence materialized once it
// enters the lookahead window, so the player always sees what is
// coming while the entity count stays bounded.
type Scheduler struct {
	grid        *rhythm.Grid
	lanes       []Lane
	lookaheadMs uint64

	store   *entity.Store
	targets *entity.Table[game.Target]
	sprites *entity.Table[game.Sprite]

	sprite func(lane Lane) game.Sprite
}

func NewScheduler(
	grid *rhythm.Grid,
	lanes []Lane,
	lookaheadMs uint64,
	store *entity.Store,
	targets *entity.Table[game.Target],
	sprites *entity.Table[game.Sprite],
	sprite func(lane Lane) game.Sprite,
) *Scheduler {
	return &Scheduler{
		grid:        grid,
		lanes:       lanes,
		lookaheadMs: lookaheadMs,
		store:       store,
		targets:     targets,
		sprites:     sprites,
		sprite:      sprite,
	}
}

// Tick materializes, for each lane, the smallest occurrence strictly
// after nowMs that is inside the lookahead window. Never creates a
// second entity for the same (lane, occurrence) pair, hit or not.
func (s *Scheduler) Tick(nowMs uint64) {
	for _, lane := range s.lanes {
		k := s.grid.NextOccurrence(lane.BarTime, nowMs)
		at := lane.BarTime + k*s.grid.BarMillis
		if at-nowMs >= s.lookaheadMs {
			continue
		}
		if s.materialized(lane, k) {
			continue
		}
		id := s.store.Create()
		// Both inserts are on a freshly created entity, nothing can
		// have deleted it within this tick.
		_ = s.targets.Set(id, game.Target{
			BarTime:    lane.BarTime,
			Lane:       lane.Key,
			Occurrence: k,
		})
		if s.sprite != nil {
			_ = s.sprites.Set(id, s.sprite(lane))
		}
	}
}

func (s *Scheduler) materialized(lane Lane, k uint64) bool {
	for _, id := range s.targets.IDs() {
		t, _ := s.targets.Get(id)
		if t.BarTime == lane.BarTime && t.Lane == lane.Key && t.Occurrence == k {
			return true
		}
	}
	return false
}
