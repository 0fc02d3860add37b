package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/ecoscope/internal/config"
	"github.com/jask/ecoscope/internal/geo"
	"github.com/jask/ecoscope/internal/tui"
	"github.com/jask/ecoscope/internal/workflow"
)

func askCmd() *cobra.Command {
	var (
		at     string
		width  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "ask QUERY...",
		Short: "Run one query and print the full analysis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			var coord *geo.Coordinate
			if at != "" {
				c, err := geo.ParseCoordinate(at)
				if err != nil {
					return err
				}
				coord = &c
			} else {
				res := buildSource(cfg).Resolve(cmd.Context())
				coord = &res.Coordinate
			}

			snap, err := runQuery(cmd.Context(), workflow.NewController(buildProvider(cfg)), strings.Join(args, " "), coord)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			fmt.Fprintln(out, tui.RenderAnalysis(*snap.Submission, snap.Initial, snap.Full, width))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Coordinate as \"lat,lon\" instead of sensing")
	cmd.Flags().IntVar(&width, "width", 80, "Report width in columns")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis snapshot as JSON")
	return cmd
}

// runQuery drives a controller through query, pending and analysis, waiting
// for both results before continuing.
func runQuery(ctx context.Context, ctrl *workflow.Controller, text string, coord *geo.Coordinate) (workflow.Snapshot, error) {
	_, events, err := ctrl.Submit(ctx, text, coord)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	for ctrl.Initial() == nil || ctrl.Full() == nil {
		select {
		case <-ctx.Done():
			return workflow.Snapshot{}, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				if ctrl.Full() == nil {
					return workflow.Snapshot{}, errors.New("provider finished without a full analysis")
				}
				return continueOrFail(ctrl)
			}
			ctrl.Apply(ev)
		}
	}
	return continueOrFail(ctrl)
}

func continueOrFail(ctrl *workflow.Controller) (workflow.Snapshot, error) {
	if !ctrl.Continue() {
		return workflow.Snapshot{}, fmt.Errorf("continue from %s: %w", ctrl.Stage(), workflow.ErrStage)
	}
	return ctrl.Snapshot(), nil
}
