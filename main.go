package main

import (
	"fmt"
	"log"
	"os"

	"git.lost.host/meutraa/barline/internal/audio"
	"git.lost.host/meutraa/barline/internal/config"
	"git.lost.host/meutraa/barline/internal/render"
	"git.lost.host/meutraa/barline/internal/rhythm"
	"git.lost.host/meutraa/barline/internal/score"
	"git.lost.host/meutraa/barline/internal/theme"
	"github.com/eiannone/keyboard"
	"golang.org/x/term"
	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	kingpin.Parse()
	if err := config.Init(); err != nil {
		return err
	}

	grid, err := rhythm.NewGrid(
		*config.MilliBpm,
		uint64((*config.FirstBeatOffset).Milliseconds()),
		*config.BeatsPerBar,
	)
	if err != nil {
		return err
	}
	lanes, err := config.Lanes(grid)
	if err != nil {
		return err
	}

	columns, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}

	out, err := audio.Open(*config.Directory)
	if err != nil {
		return err
	}
	defer out.Close()

	keyChannel, err := keyboard.GetKeys(128)
	if err != nil {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); err != nil {
			log.Println("unable to close keyboard:", err)
		}
	}()

	p := &Program{
		Renderer: &render.DefaultRenderer{},
		Theme:    &theme.DefaultTheme{},
		Scorer:   &score.DefaultScorer{},
	}
	if err := p.Scorer.Init(); err != nil {
		return err
	}
	defer p.Scorer.Deinit()

	if err := p.Init(grid, lanes, out, keyChannel, rows, columns); err != nil {
		return err
	}
	defer func() {
		if err := p.Deinit(); err != nil {
			log.Println("unable to restore terminal:", err)
		}
	}()

	if err := out.Start(*config.Delay, *config.Volume); err != nil {
		return err
	}

	p.Loop()
	p.SaveSession()
	return nil
}
