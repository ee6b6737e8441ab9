package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pkt.systems/gamelaunch/internal/appconfig"
	"pkt.systems/gamelaunch/internal/launchfile"
	"pkt.systems/gamelaunch/internal/store"
	"pkt.systems/gamelaunch/sshserver"
	"pkt.systems/pslog"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SSH launcher server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			launch, err := launchfile.Load(cfg.LaunchFile)
			if err != nil {
				return err
			}
			logger.Info("launch file loaded",
				"path", cfg.LaunchFile,
				"menus", len(launch.Menus),
				"games", len(launch.Games))

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			logger.Info("store opened", "backend", cfg.Store.Backend)

			server := &sshserver.Server{
				Addr:         cfg.SSH.Addr,
				HostKeyPath:  cfg.SSH.HostKeyPath,
				Launch:       launch,
				Store:        st,
				GameBinary:   cfg.Handoff.GameBinary,
				RecordBinary: cfg.Handoff.RecordBinary,
				Shell:        cfg.Handoff.Shell,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	return cmd
}

func openStore(ctx context.Context, cfg appconfig.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case appconfig.BackendSQLite:
		return store.OpenSQLite(cfg.Store.SQLitePath)
	case appconfig.BackendRedis:
		return store.OpenRedis(ctx, cfg.Store.RedisURL)
	default:
		return nil, fmt.Errorf("unsupported store.backend %q", cfg.Store.Backend)
	}
}
