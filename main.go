package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/specgram/internal/app"
	"github.com/olivier-w/specgram/internal/ui"
)

func main() {
	flags, err := app.ParseFlags("specgram", os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, app.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	path := flags.Path()
	if path == "" {
		path, err = pickSource(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if path == "" {
			os.Exit(0)
		}
	}

	if err := run(flags, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// pickSource lets the user choose a file from dir. It returns "" when
// the user cancels.
func pickSource(dir string) (string, error) {
	picker := ui.NewPicker(dir)
	if err := picker.Err(); err != nil {
		return "", err
	}
	finalModel, err := tea.NewProgram(picker, tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	pm, ok := finalModel.(ui.PickerModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type from picker")
	}
	result := pm.Result()
	if result.Cancelled {
		return "", nil
	}
	return result.Path, nil
}

func run(flags *app.Flags, path string) error {
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

	sched := ui.NewScheduler()
	an, err := app.Open(path, cfg, sched, rt)
	if err != nil {
		return err
	}
	defer an.Close()

	model := ui.New(an, sched, ui.Options{
		View:         flags.InitialView(),
		BacklogLimit: cfg.Timing.BacklogLimit,
		AutoStart:    !flags.Paused,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
