package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-secrets-manager/internal/adapter"
	"github.com/MKhiriev/go-secrets-manager/internal/client"
	"github.com/MKhiriev/go-secrets-manager/internal/config"
	"github.com/MKhiriev/go-secrets-manager/internal/crypto"
	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/internal/service"
	"github.com/MKhiriev/go-secrets-manager/internal/store"
	"github.com/MKhiriev/go-secrets-manager/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const appName = "ksm-quicktest"

func main() {
	buildInfo := models.NewAppBuildInfo(orNA(buildVersion), orNA(buildDate), orNA(buildCommit))
	printBuildInfo(buildInfo)

	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger(appName).Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger(appName, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storages, err := store.NewClientStorages(ctx, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create storages")
	}

	runErr := run(ctx, cfg, storages, buildInfo, log)
	closeStorages(storages, log)
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("quick test failed")
	}
}

func closeStorages(storages io.Closer, log *logger.Logger) {
	if err := storages.Close(); err != nil {
		log.Warn().Err(err).Msg("close storages")
	}
}

func run(ctx context.Context, cfg *config.ClientConfig, storages *store.ClientStorages, buildInfo models.AppBuildInfo, log *logger.Logger) error {
	if cfg.App.Token != "" {
		if _, err := service.InitializeFromToken(ctx, storages.Config, cfg.App.Token, cfg.App.Hostname, log); err != nil {
			return fmt.Errorf("initialize from token: %w", err)
		}
	}

	keychain := crypto.NewKeyChainService()
	vaultAdapter := adapter.NewHTTPVaultAdapter(cfg.Adapter, keychain, log)
	services := service.NewClientServices(storages, vaultAdapter, keychain, cfg.Workers, service.ClientVersion(buildInfo.BuildVersion()), log)

	var clip client.Clipboard
	if cfg.QuickTest.Clipboard {
		clip = client.SystemClipboard()
	}

	app, err := client.NewApp(services, cfg.QuickTest, os.Stdout, clip, log)
	if err != nil {
		return fmt.Errorf("init quick test: %w", err)
	}
	return app.Run(ctx)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
