package main

import (
	"context"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/ecoscope/internal/config"
	"github.com/jask/ecoscope/internal/database/repository"
	"github.com/jask/ecoscope/internal/tui"
)

func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "ecoscope",
		Short:        "Ask environmental questions about where you are",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}
	root.AddCommand(
		askCmd(),
		serveCmd(),
		placesCmd(),
		hintsCmd(),
		keyCmd(),
	)
	return root
}

func runTUI(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "ecoscope")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	opts := tui.Options{
		Source:        buildSource(cfg),
		Geocoder:      buildGeocoder(cfg),
		Hints:         resolveHints(cfg),
		ContinueDelay: cfg.UI.ContinueDelay,
	}
	if db := openPlaces(ctx, cfg); db != nil {
		defer db.Close()
		opts.Places = repository.NewPlaceRepo(db)
	}

	p := tea.NewProgram(tui.New(ctx, buildProvider(cfg), opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
