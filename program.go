package main

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"git.lost.host/meutraa/barline/internal/config"
	"git.lost.host/meutraa/barline/internal/entity"
	"git.lost.host/meutraa/barline/internal/game"
	"git.lost.host/meutraa/barline/internal/hit"
	"git.lost.host/meutraa/barline/internal/render"
	"git.lost.host/meutraa/barline/internal/rhythm"
	"git.lost.host/meutraa/barline/internal/schedule"
	"git.lost.host/meutraa/barline/internal/score"
	"git.lost.host/meutraa/barline/internal/theme"
	"github.com/eiannone/keyboard"
)

type laneKey struct {
	barTime uint64
	key     rune
}

// Program is the per-session context threaded through every tick.
// Each field has one writer: the loop owns stop and the stats, the
// clock owns musical time, the store owns entities. No globals.
type Program struct {
	Renderer render.Renderer
	Theme    theme.Theme
	Scorer   score.Scorer

	grid  *rhythm.Grid
	clock *rhythm.Clock
	out   audioOutput

	store   *entity.Store
	targets *entity.Table[game.Target]
	results *entity.Table[game.HitResult]
	sprites *entity.Table[game.Sprite]

	scheduler *schedule.Scheduler
	detector  *hit.Detector
	reaper    *schedule.Reaper
	mapper    *render.Mapper

	lanes      []schedule.Lane
	columns    map[laneKey]int
	keyChannel <-chan keyboard.KeyEvent

	rows, cols int
	sideCol    int
	startTime  time.Time
	stop       bool

	// Stats for the current session
	sessionSum string
	hits       []score.Hit
	counts     []int
	missCount  int
	totalHits  uint64
	sumErr     int64
	mean       float64
	stdev      float64
	bestMean   float64
	sessions   int
}

// audioOutput is the slice of the output collaborator the loop needs.
type audioOutput interface {
	rhythm.FrameSource
	Done() bool
}

func (p *Program) Init(
	grid *rhythm.Grid,
	lanes []schedule.Lane,
	out audioOutput,
	keyChannel <-chan keyboard.KeyEvent,
	rows, cols int,
) error {
	p.grid = grid
	p.lanes = lanes
	p.out = out
	p.keyChannel = keyChannel
	p.rows, p.cols = rows, cols

	p.clock = rhythm.NewClock(out, grid)

	p.store = entity.NewStore()
	p.targets = entity.NewTable[game.Target](p.store)
	p.results = entity.NewTable[game.HitResult](p.store)
	p.sprites = entity.NewTable[game.Sprite](p.store)

	p.scheduler = schedule.NewScheduler(
		grid, lanes, uint64((*config.Lookahead).Milliseconds()),
		p.store, p.targets, p.sprites,
		func(lane schedule.Lane) game.Sprite {
			return p.Theme.NoteSprite(lane.Column)
		},
	)
	p.detector = hit.NewDetector(
		grid, uint64((*config.Tolerance).Milliseconds()), config.Judgements,
		p.targets, p.results,
	)
	p.reaper = schedule.NewReaper(
		grid, uint64((*config.Grace).Milliseconds()),
		p.store, p.targets, p.results,
	)
	p.mapper = &render.Mapper{
		BaselineRow: rows - int(*config.BarRow),
		RowsPerMs:   *config.ScrollSpeed / 1000,
	}

	mc := cols >> 1
	spacing := int(*config.ColumnSpacing)
	p.columns = map[laneKey]int{}
	for i, lane := range lanes {
		col := mc + (2*i-len(lanes)+1)*spacing/2
		p.columns[laneKey{lane.BarTime, lane.Key}] = col
	}
	p.sideCol = mc - len(lanes)*spacing/2 - 36
	if p.sideCol < 2 {
		p.sideCol = 2
	}

	p.counts = make([]int, len(config.Judgements))
	p.sessionSum = score.SessionSum(
		strconv.FormatUint(grid.MilliBpm, 10),
		strconv.FormatUint(grid.BeatsPerBar, 10),
		fmt.Sprint(lanes),
	)
	for _, h := range p.Scorer.Load(p.sessionSum) {
		sum := p.Scorer.Score(&h)
		if sum.HitCount == 0 {
			continue
		}
		mean := float64(sum.TotalErrorMs) / float64(sum.HitCount)
		if p.sessions == 0 || mean < p.bestMean {
			p.bestMean = mean
		}
		p.sessions++
	}

	p.startTime = time.Now()
	return p.Renderer.Init()
}

func (p *Program) Deinit() error {
	return p.Renderer.Deinit()
}

// Loop is the cooperative tick loop. Fixed order per tick: poll input,
// refresh the clock, resolve hits, schedule, reap, project, render.
// Nothing here blocks; a dead audio output just freezes the clock.
func (p *Program) Loop() {
	for !p.stop {
		deadline := time.Now().Add(*config.FramePeriod)

		events := p.pollInput()
		p.clock.Tick()
		t := p.clock.NowMs()

		for _, ev := range events {
			p.resolve(ev, t)
		}
		p.scheduler.Tick(t)
		p.missCount += p.reaper.Tick(t)

		p.draw(t)
		p.Renderer.Flush()

		if p.out != nil && p.out.Done() {
			return
		}
		time.Sleep(time.Until(deadline))
	}
}

// pollInput drains everything the keyboard buffered since last tick,
// in arrival order, so every event this tick is judged against the
// same clock reading. The stop signal is only ever checked here.
func (p *Program) pollInput() []game.Input {
	events := make([]game.Input, 0, len(p.keyChannel))
	for i := len(p.keyChannel); i > 0; i-- {
		key := <-p.keyChannel
		if key.Key == keyboard.KeyEsc {
			p.stop = true
			continue
		}
		events = append(events, game.Input{
			TimestampMs: uint32(time.Since(p.startTime).Milliseconds()),
			Key:         key.Rune,
		})
	}
	return events
}

func (p *Program) resolve(ev game.Input, nowMs uint64) {
	id, res, ok := p.detector.Resolve(ev, nowMs)
	if !ok {
		// Expected outcome, not an error. Nothing was in tolerance.
		p.missCount++
		return
	}

	tg, _ := p.targets.Get(id)
	p.hits = append(p.hits, score.Hit{Lane: ev.Key, Occurrence: res.Occurrence, ErrorMs: res.ErrorMs})
	p.counts[res.Judgement]++
	p.totalHits++
	p.sumErr += res.ErrorMs

	if col, ok := p.columns[laneKey{tg.BarTime, tg.Lane}]; ok {
		c := p.Theme.JudgementColor(res.Judgement, len(config.Judgements))
		p.Renderer.AddDecoration(p.mapper.BaselineRow, col,
			fmt.Sprintf("\033[38;2;%v;%v;%vm◉", c.R, c.G, c.B), 24)
	}

	if p.totalHits > 1 {
		p.mean = float64(p.sumErr) / float64(p.totalHits)
		p.stdev = 0.0
		for _, h := range p.hits {
			xi := float64(h.ErrorMs) - p.mean
			p.stdev += xi * xi
		}
		p.stdev /= float64(p.totalHits - 1)
		p.stdev = math.Sqrt(p.stdev)
	}
}

func (p *Program) draw(nowMs uint64) {
	cells := make([]game.Cell, 0, len(p.lanes)+p.targets.Len())

	for i, lane := range p.lanes {
		cells = append(cells, game.Cell{
			Row:   p.mapper.BaselineRow,
			Col:   p.columns[laneKey{lane.BarTime, lane.Key}],
			Color: game.Color{R: 128, G: 128, B: 128},
			Glyph: p.Theme.HitFieldGlyph(i),
		})
	}

	for _, id := range entity.Join(
		[]entity.Set{p.targets, p.sprites},
		[]entity.Set{p.results},
	) {
		tg, _ := p.targets.Get(id)
		sp, _ := p.sprites.Get(id)
		row := p.mapper.Row(tg.Time(p.grid.BarMillis), nowMs)
		if row < 1 || row > p.rows {
			continue
		}
		cells = append(cells, game.Cell{
			Row:   row,
			Col:   p.columns[laneKey{tg.BarTime, tg.Lane}],
			Color: sp.Color,
			Glyph: sp.Glyph,
		})
	}

	p.Renderer.Draw(p.Theme.PulseColor(p.clock.BeatPhase()), cells)

	p.Renderer.Fill(10, p.sideCol, fmt.Sprintf("      Stdev:  %6.2f ms", p.stdev))
	p.Renderer.Fill(11, p.sideCol, fmt.Sprintf("       Mean:  %6.2f ms", p.mean))
	p.Renderer.Fill(12, p.sideCol, fmt.Sprintf("       Hits:  %6v", p.totalHits))
	p.Renderer.Fill(13, p.sideCol, fmt.Sprintf("     Misses:  %6v", p.missCount))
	if p.sessions > 0 {
		p.Renderer.Fill(14, p.sideCol,
			fmt.Sprintf("       Best:  %6.2f ms over %v sessions", p.bestMean, p.sessions))
	}
	for i, j := range config.Judgements {
		c := p.Theme.JudgementColor(i, len(config.Judgements))
		p.Renderer.Fill(18+i, p.sideCol,
			fmt.Sprintf("\033[38;2;%v;%v;%vm%11v:  %6v", c.R, c.G, c.B, j.Name, p.counts[i]))
	}
}

// SaveSession persists this session's resolved hits.
func (p *Program) SaveSession() {
	if len(p.hits) == 0 {
		return
	}
	p.Scorer.Save(p.sessionSum, p.hits)
}
