package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/ecoscope/internal/config"
	"github.com/jask/ecoscope/internal/database"
	"github.com/jask/ecoscope/internal/database/repository"
	"github.com/jask/ecoscope/internal/geo"
)

func placesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Manage the gazetteer used by the location picker",
	}
	cmd.AddCommand(placesListCmd(), placesSearchCmd(), placesAddCmd(), placesPinCmd())
	return cmd
}

// withPlaces opens the gazetteer for the duration of fn.
func withPlaces(cmd *cobra.Command, fn func(cfg config.Config, repo *repository.PlaceRepo) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.Prepare(cmd.Context(), cfg.Database.Path, cfg.Database.Migrations)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(cfg, repository.NewPlaceRepo(db))
}

func printPlaces(cmd *cobra.Command, places []repository.Place) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, p := range places {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Region, p.Coordinate())
	}
	_ = w.Flush()
}

func placesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every place",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlaces(cmd, func(_ config.Config, repo *repository.PlaceRepo) error {
				places, err := repo.List(cmd.Context())
				if err != nil {
					return err
				}
				printPlaces(cmd, places)
				return nil
			})
		},
	}
}

func placesSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Fuzzy search places by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlaces(cmd, func(_ config.Config, repo *repository.PlaceRepo) error {
				places, err := repo.Search(cmd.Context(), strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				if len(places) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no matches")
					return nil
				}
				printPlaces(cmd, places)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum results")
	return cmd
}

func placesAddCmd() *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "add NAME LAT,LON",
		Short: "Add or update a place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := geo.ParseCoordinate(args[1])
			if err != nil {
				return err
			}
			return withPlaces(cmd, func(_ config.Config, repo *repository.PlaceRepo) error {
				p := repository.Place{Name: args[0], Region: region, Latitude: c.Latitude, Longitude: c.Longitude}
				if err := repo.Upsert(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s at %s\n", p.Label(), c)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "Region or country")
	return cmd
}

// placesPinCmd makes a place (or a raw coordinate) the fallback location.
func placesPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin NAME|LAT,LON",
		Short: "Use a place as the fallback location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.Join(args, " ")
			return withPlaces(cmd, func(cfg config.Config, repo *repository.PlaceRepo) error {
				c, err := geo.ParseCoordinate(target)
				if err != nil {
					p, lookupErr := repo.ByName(cmd.Context(), target)
					if lookupErr != nil {
						return lookupErr
					}
					if p == nil {
						return errors.New("unknown place " + target)
					}
					c = p.Coordinate()
				}
				cfg.Location.FallbackLat = c.Latitude
				cfg.Location.FallbackLon = c.Longitude
				if err := config.Save(cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "fallback location set to %s\n", c)
				return nil
			})
		},
	}
}
