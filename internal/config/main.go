package config

import (
	"fmt"
	"strconv"
	"strings"

	"git.lost.host/meutraa/barline/internal/game"
	"git.lost.host/meutraa/barline/internal/rhythm"
	"git.lost.host/meutraa/barline/internal/schedule"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	Directory       = kingpin.Arg("directory", "Song directory").Required().ExistingDir()
	MilliBpm        = kingpin.Flag("milli-bpm", "Beats per minute, in thousandths").Default("160000").Short('b').Uint64()
	FirstBeatOffset = kingpin.Flag("first-beat-offset", "Time from stream start to the first beat").Default("0ms").Duration()
	BeatsPerBar     = kingpin.Flag("beats-per-bar", "Beats in one bar").Default("4").Uint64()
	Lookahead       = kingpin.Flag("lookahead", "How far ahead targets are materialized").Default("1s").Duration()
	Tolerance       = kingpin.Flag("tolerance", "Matching window around a target").Default("100ms").Duration()
	Grace           = kingpin.Flag("grace", "How long past its time a target survives").Default("1s").Duration()
	Delay           = kingpin.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration()
	FramePeriod     = kingpin.Flag("frame-period", "Render frame period").Default("16ms").Short('p').Duration()
	ScrollSpeed     = kingpin.Flag("scroll-speed", "Scroll speed in rows per second").Default("20").Short('s').Float64()
	Volume          = kingpin.Flag("volume", "Playback volume, base 2 exponent").Default("-3").Float64()
	BarRow          = kingpin.Flag("bar-row", "Rows from the bottom to render the hit bar").Default("8").Uint()
	ColumnSpacing   = kingpin.Flag("spacing", "Columns between lanes").Default("6").Short('S').Uint()
	keys            = kingpin.Flag("keys", "Default lane keys, one beat each").Default("_-mp").Short('k').String()
	lanes           = kingpin.Flag("lane", "Lane as INDEX[*MULT][/DIV]=KEY, repeatable").Strings()
	judgements      = kingpin.Flag("judgements", "Ascending MS:NAME accuracy bands").Default("45:best,90:good,135:fair").String()

	Judgements []game.Judgement
)

func init() {
	kingpin.Version("0.1.0")
}

// Init builds the judgement bands. The configured bands are the named
// tiers; everything past them but still inside the matching tolerance
// falls into a final catch-all.
func Init() error {
	bands, err := parseJudgements(*judgements)
	if err != nil {
		return err
	}
	Judgements = append(bands, game.Judgement{
		WindowMs: uint64((*Tolerance).Milliseconds()),
		Name:     "poor",
	})
	return nil
}

func parseJudgements(s string) ([]game.Judgement, error) {
	bands := []game.Judgement{}
	last := uint64(0)
	for _, part := range strings.Split(s, ",") {
		ms, name, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("judgement %q is not MS:NAME", part)
		}
		window, err := strconv.ParseUint(ms, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("judgement %q: %w", part, err)
		}
		if len(bands) > 0 && window <= last {
			return nil, fmt.Errorf("judgement bands must ascend, %vms after %vms", window, last)
		}
		last = window
		bands = append(bands, game.Judgement{WindowMs: window, Name: name})
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("no judgement bands configured")
	}
	return bands, nil
}

// Lanes resolves the lane flags against the grid. With no --lane given,
// one lane per beat is built from --keys. Bad lane expressions are
// startup failures, never runtime ones.
func Lanes(g *rhythm.Grid) ([]schedule.Lane, error) {
	if len(*lanes) == 0 {
		return defaultLanes(g)
	}
	out := make([]schedule.Lane, 0, len(*lanes))
	for i, s := range *lanes {
		lane, err := parseLane(g, s, i)
		if err != nil {
			return nil, err
		}
		for _, prev := range out {
			if prev.BarTime == lane.BarTime && prev.Key == lane.Key {
				return nil, fmt.Errorf("lane %q duplicates an earlier lane", s)
			}
		}
		out = append(out, lane)
	}
	return out, nil
}

func defaultLanes(g *rhythm.Grid) ([]schedule.Lane, error) {
	ks := []rune(*keys)
	if uint64(len(ks)) < g.BeatsPerBar {
		return nil, fmt.Errorf("--keys has %v keys for %v beats", len(ks), g.BeatsPerBar)
	}
	out := make([]schedule.Lane, 0, g.BeatsPerBar)
	for i := uint64(0); i < g.BeatsPerBar; i++ {
		barTime, err := g.BarTime(1, 1, i)
		if err != nil {
			return nil, err
		}
		out = append(out, schedule.Lane{BarTime: barTime, Key: ks[i], Column: int(i)})
	}
	return out, nil
}

// parseLane reads "INDEX[*MULT][/DIV]=KEY", e.g. "3/2=m" for the
// second eighth of beat one.
func parseLane(g *rhythm.Grid, s string, column int) (schedule.Lane, error) {
	expr, key, ok := strings.Cut(s, "=")
	if !ok || len([]rune(key)) != 1 {
		return schedule.Lane{}, fmt.Errorf("lane %q is not INDEX[*MULT][/DIV]=KEY", s)
	}

	multiple, division := uint64(1), uint64(1)
	if head, div, ok := strings.Cut(expr, "/"); ok {
		d, err := strconv.ParseUint(div, 10, 64)
		if err != nil {
			return schedule.Lane{}, fmt.Errorf("lane %q division: %w", s, err)
		}
		division = d
		expr = head
	}
	if head, mult, ok := strings.Cut(expr, "*"); ok {
		m, err := strconv.ParseUint(mult, 10, 64)
		if err != nil {
			return schedule.Lane{}, fmt.Errorf("lane %q multiple: %w", s, err)
		}
		multiple = m
		expr = head
	}
	index, err := strconv.ParseUint(expr, 10, 64)
	if err != nil {
		return schedule.Lane{}, fmt.Errorf("lane %q index: %w", s, err)
	}

	barTime, err := g.BarTime(multiple, division, index)
	if err != nil {
		return schedule.Lane{}, fmt.Errorf("lane %q: %w", s, err)
	}
	return schedule.Lane{BarTime: barTime, Key: []rune(key)[0], Column: column}, nil
}

