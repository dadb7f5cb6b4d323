package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytheys/agency-radar/internal/auth"
	"github.com/ytheys/agency-radar/internal/monitoring"
	"github.com/ytheys/agency-radar/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the agency directory API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initDirectory(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Service.Load(ctx); err != nil {
			return err
		}

		authSvc := auth.NewService(auth.Config{
			Email:    cfg.Auth.Email,
			Password: cfg.Auth.Password,
			Secret:   cfg.Auth.Secret,
			TokenTTL: time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
			Bypass:   cfg.Auth.Bypass,
		})
		if cfg.Auth.Bypass {
			zap.L().Warn("auth bypass is enabled, every request is accepted unauthenticated")
		}

		collector := monitoring.NewCollector(env.Service, env.Loader, env.Cache, env.Breaker)
		checker := monitoring.NewChecker(collector, monitoring.NewAlerter(cfg.Monitoring), cfg.Monitoring)
		go checker.Run(ctx)

		serverCfg := cfg.Server
		if servePort != 0 {
			serverCfg.Port = servePort
		}

		return server.New(serverCfg, env.Service, authSvc, collector).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
