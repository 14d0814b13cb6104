package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sapapi "github.com/c360studio/semcred/processor/sap-api"
	"github.com/c360studio/semcred/sap"
)

// shutdownTimeout bounds how long in-flight requests may finish.
const shutdownTimeout = 5 * time.Second

func serveCmd(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulated SAP OData and credential API",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer g.app.Close()

			cfg := g.app.cfg.Server.SAPAPI()
			if addr != "" {
				cfg.Addr = addr
			}

			st, err := sap.NewStore(sap.SampleScenarios(time.Now()))
			if err != nil {
				return err
			}
			m, err := g.app.Mapper()
			if err != nil {
				return err
			}

			comp, err := sapapi.NewComponent(cfg, st, g.app.dir,
				sapapi.WithLogger(g.app.logger),
				sapapi.WithRegistry(g.app.registry),
				sapapi.WithMapper(m),
			)
			if err != nil {
				return err
			}
			if err := comp.Initialize(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := comp.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()

			g.app.logger.Info("Shutting down")
			return comp.Stop(shutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :5000)")
	return cmd
}
