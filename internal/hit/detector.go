package hit

import (
	"log"

	"git.lost.host/meutraa/barline/internal/entity"
	"git.lost.host/meutraa/barline/internal/game"
	"git.lost.host/meutraa/barline/internal/rhythm"
)

// Detector matches raw key-down events against unresolved targets.
//
// Targets recur every bar, so "closest target" is computed modulo the
// bar period against the current audio time, never against the time an
// entity happened to be created at. A naive absolute-time search picks
// the wrong instance as soon as two recurrences are materialized.
type Detector struct {
	grid        *rhythm.Grid
	toleranceMs uint64
	judgements  []game.Judgement

	targets *entity.Table[game.Target]
	results *entity.Table[game.HitResult]
}

func NewDetector(
	grid *rhythm.Grid,
	toleranceMs uint64,
	judgements []game.Judgement,
	targets *entity.Table[game.Target],
	results *entity.Table[game.HitResult],
) *Detector {
	return &Detector{
		grid:        grid,
		toleranceMs: toleranceMs,
		judgements:  judgements,
		targets:     targets,
		results:     results,
	}
}

// Resolve consumes one key event at audio time nowMs. At most one
// target is resolved per event. A keystroke with nothing in tolerance
// is an expected outcome, reported as ok=false, never as an error.
func (d *Detector) Resolve(ev game.Input, nowMs uint64) (entity.ID, game.HitResult, bool) {
	var (
		bestID  entity.ID
		bestK   uint64
		bestErr int64
		bestAbs uint64
		found   bool
	)

	// Ascending id order, so an error tie resolves to the oldest entity.
	unresolved := entity.Join(
		[]entity.Set{d.targets},
		[]entity.Set{d.results},
	)
	for _, id := range unresolved {
		t, _ := d.targets.Get(id)
		if t.Lane != ev.Key {
			continue
		}
		k := d.grid.NearestOccurrence(t.BarTime, nowMs)
		at := t.BarTime + k*d.grid.BarMillis
		errMs := int64(nowMs) - int64(at)
		abs := errMs
		if abs < 0 {
			abs = -abs
		}
		if uint64(abs) >= d.toleranceMs {
			continue
		}
		if !found || uint64(abs) < bestAbs {
			bestID, bestK, bestErr, bestAbs = id, k, errMs, uint64(abs)
			found = true
		}
	}

	if !found {
		return 0, game.HitResult{}, false
	}

	res := game.HitResult{
		Occurrence: bestK,
		ErrorMs:    bestErr,
		Judgement:  d.Judge(bestAbs),
	}
	if err := d.results.Set(bestID, res); err != nil {
		// Reaper got there first within this tick. Skip, do not abort.
		log.Println("unable to resolve target:", err)
		return 0, game.HitResult{}, false
	}
	return bestID, res, true
}

// Judge buckets an absolute error into the configured ascending bands.
// Anything past the last band but inside tolerance lands in the final
// catch-all tier.
func (d *Detector) Judge(absErrMs uint64) int {
	for i := 0; i < len(d.judgements)-1; i++ {
		if absErrMs <= d.judgements[i].WindowMs {
			return i
		}
	}
	return len(d.judgements) - 1
}
