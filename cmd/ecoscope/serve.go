package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/ecoscope/internal/config"
	"github.com/jask/ecoscope/internal/database/repository"
	"github.com/jask/ecoscope/internal/server"
	"github.com/jask/ecoscope/internal/service"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query workflow over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			registry := service.NewRegistry(buildProvider(cfg), cfg.Server.SessionTTL)
			defer registry.Close()

			janitor := service.NewJanitor(registry, cfg.Server.PruneEvery)
			if err := janitor.Start(); err != nil {
				return err
			}
			defer janitor.Stop()

			deps := server.Deps{Sessions: registry, Location: buildSource(cfg)}
			if db := openPlaces(cmd.Context(), cfg); db != nil {
				defer db.Close()
				deps.Places = repository.NewPlaceRepo(db)
			}
			app := server.New(deps, false)

			errCh := make(chan error, 1)
			go func() {
				log.Printf("server: listening on %s", addr)
				errCh <- app.Listen(addr)
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(stop)

			select {
			case err := <-errCh:
				return err
			case <-stop:
				log.Println("server: shutting down")
				return app.ShutdownWithTimeout(5 * time.Second)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
