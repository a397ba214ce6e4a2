package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"channel_sync/internal/config"
	"channel_sync/internal/httpapi"
	"channel_sync/internal/scheduler"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "channelsync",
		Short:         "Serve and sync a kids video channel stored in a GitHub Gist",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newPullCmd(&configPath))
	rootCmd.AddCommand(newExportCmd(&configPath))
	rootCmd.AddCommand(newImportCmd(&configPath))

	return rootCmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with debounced sync to the gist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			sched := scheduler.NewScheduler(a.channel, a.cfg.Sync.QuietPeriod, a.cfg.Sync.WriteTimeout, a.logger)
			a.channel.SetSyncTrigger(sched)
			server := httpapi.NewServer(a.channel, sched, a.metrics, a.logger)

			a.logger.Info("starting channel sync",
				"source", a.cfg.Remote.RawURL,
				"addr", a.cfg.HTTP.Addr,
				"cache", a.cfg.Cache.Driver,
				"quiet_period", a.cfg.Sync.QuietPeriod,
			)

			p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
			p.Go(func(ctx context.Context) error {
				if _, err := a.channel.Bootstrap(ctx); err != nil {
					a.logger.Warn("initial load incomplete", "error", err)
				}
				return nil
			})
			p.Go(func(ctx context.Context) error {
				if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("scheduler: %w", err)
				}
				return nil
			})
			p.Go(func(ctx context.Context) error {
				return server.Run(ctx, a.cfg.HTTP.Addr)
			})

			err = p.Wait()
			a.channel.Wait()
			return err
		},
	}
}

func newPullCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Fetch the latest document into the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.channel.Bootstrap(ctx)
			if err != nil {
				return fmt.Errorf("pull: %w", err)
			}
			a.channel.Wait()

			doc := a.channel.Document()
			fmt.Fprintf(cmd.OutOrStdout(), "videos: %d, shorts: %d, new: %d, views raised: %d\n",
				len(doc.Videos), len(doc.Shorts), stats.NewItems, stats.ViewsRaised)
			return nil
		},
	}
}

func newExportCmd(configPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the channel document to a backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithCancel(ctx)
			defer func() {
				cancel()
				a.channel.Wait()
			}()

			if _, err := a.channel.Bootstrap(ctx); err != nil && !a.channel.HasContent() {
				return fmt.Errorf("load document: %w", err)
			}

			data, filename, err := a.channel.Export(ctx)
			if err != nil {
				return err
			}
			if output == "" {
				output = filename
			} else if info, err := os.Stat(output); err == nil && info.IsDir() {
				output = filepath.Join(output, filename)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file or directory (default <prefix>_backup_<date>.json)")

	return cmd
}

func newImportCmd(configPath *string) *cobra.Command {
	var (
		file     string
		username string
		password string
		push     bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the channel document with a backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithCancel(ctx)
			defer func() {
				cancel()
				a.channel.Wait()
			}()

			if _, err := a.channel.Bootstrap(ctx); err != nil {
				a.logger.Warn("could not load current document", "error", err)
			}

			if username == "" {
				username = a.cfg.Admin.Username
			}
			if password == "" {
				password = a.cfg.Admin.Password
			}
			if err := a.channel.Login(ctx, username, password); err != nil {
				return err
			}
			defer a.channel.Logout(ctx)

			if err := a.channel.Import(ctx, data); err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", file)

			if push {
				if err := a.channel.WriteSnapshot(ctx); err != nil {
					return fmt.Errorf("push: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "pushed to gist")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "backup file to import")
	cmd.Flags().StringVar(&username, "username", "", "admin username (default from config)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default from config)")
	cmd.Flags().BoolVar(&push, "push", false, "write the imported document to the gist right away")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

func loadConfig(path string) (*config.Config, *slog.Logger, error) {
	logger := setupLogger("info")

	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return nil, nil, err
	}
	return cfg, setupLogger(cfg.LogLevel), nil
}
