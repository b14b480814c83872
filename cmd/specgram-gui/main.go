// Command specgram-gui shows the spectrogram in a desktop window.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivier-w/specgram/internal/app"
	"github.com/olivier-w/specgram/internal/visualizer"
)

func main() {
	flags, err := app.ParseFlags("specgram-gui", os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, app.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if flags.Path() == "" {
		fmt.Fprintf(os.Stderr, "Error: no audio file given\n")
		os.Exit(2)
	}
	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *app.Flags) error {
	path := flags.Path()
	if err := app.CheckSource(path); err != nil {
		return err
	}
	cfg, err := flags.Config()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := app.Start(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	sched := visualizer.NewClockScheduler(nil)
	an, err := app.Open(path, cfg, sched, rt)
	if err != nil {
		return err
	}
	defer an.Close()

	g := newGame(an, sched, flags.InitialView())
	if !flags.Paused {
		an.Start()
	}

	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(an.SourceName() + " · specgram")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
