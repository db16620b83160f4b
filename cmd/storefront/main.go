package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/zmcomputers/storefront/config"
	"github.com/zmcomputers/storefront/internal/app"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

func main() {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configFilepath())
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := app.NewLogger(cfg.Log)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}
	log.Info("Starting storefront...")

	a, err := app.New(sigCtx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	runErr := a.Run(sigCtx)
	if err := a.Close(); err != nil {
		log.WithError(err).Warn("Shutdown finished with errors")
	}
	if runErr != nil {
		log.WithError(runErr).Error("Application exited with error")
		os.Exit(1)
	}
	log.Info("Application stopped")
}

// configFilepath --config flag, overridden by the environment
func configFilepath() string {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	path := flags.StringP("config", "c", "", "YAML config file (default ./config.yaml when present)")
	_ = flags.Parse(os.Args[1:])

	if env, ok := os.LookupEnv(configFileEnvName); ok && env != "" {
		return env
	}
	return *path
}
