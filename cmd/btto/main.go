package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"btto/internal/config"
	appLog "btto/internal/log"
	"btto/internal/store"
	"btto/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	dbPath     string
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	// CLI overrides win over the config file.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.dbPath != "" {
		conf.DBPath = flags.dbPath
	}

	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	appLog.Info("effective config",
		"listen", conf.Listen,
		"db_path", conf.DBPath,
		"maintenance", conf.MaintenanceCron,
		"enable_purge", conf.EnablePurge,
		"log_level", conf.LogLevel,
	)
	if conf.EnablePurge {
		appLog.Warn("purge endpoint is enabled")
	}

	st, err := store.Open(conf.DBPath)
	if err != nil {
		appLog.Error("failed to open agenda database", err, "db_path", conf.DBPath)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			appLog.Error("failed to close agenda database", err)
		}
	}()

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	// Periodic database maintenance.
	if conf.MaintenanceCron != "" {
		c := cron.New()
		_, err := c.AddFunc(conf.MaintenanceCron, func() {
			if err := st.Optimize(context.Background()); err != nil {
				appLog.Error("database maintenance failed", err)
				return
			}
			appLog.Debug("database maintenance completed")
		})
		if err != nil {
			appLog.Error("invalid maintenance schedule", err, "maintenance", conf.MaintenanceCron)
			os.Exit(1)
		}
		c.Start()
		defer c.Stop()
	}

	if err := web.StartServer(ctx, conf, st); err != nil {
		appLog.Error("HTTP server failed", err)
		os.Exit(1)
	}
	appLog.Info("btto exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/btto/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.dbPath, "db", "", "Path to the agenda SQLite database (overrides config if set)")

	flag.Parse()

	return cfg
}
