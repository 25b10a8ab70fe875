package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dsaplatform/backend/internal/auth"
	"github.com/dsaplatform/backend/internal/catalog"
	"github.com/dsaplatform/backend/internal/chat"
	"github.com/dsaplatform/backend/internal/config"
	"github.com/dsaplatform/backend/internal/gamification"
	"github.com/dsaplatform/backend/internal/logging"
	"github.com/dsaplatform/backend/internal/notes"
	"github.com/dsaplatform/backend/internal/progress"
	"github.com/dsaplatform/backend/internal/server"
	"github.com/dsaplatform/backend/internal/simapi"
	"github.com/dsaplatform/backend/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dsa-api",
		Short: "DSA learning platform API service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().Int("token-ttl-minutes", defaults.GetInt("token.ttl_minutes"), "Session token TTL in minutes")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("simulate-latency", defaults.GetBool("api.simulate_latency"), "Apply per-call artificial latency")
	cmd.PersistentFlags().String("signing-secret", "", "Session signing secret (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "token.ttl_minutes", "token-ttl-minutes")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "api.simulate_latency", "simulate-latency")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, err := storage.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	noteRepo, err := notes.NewRepository(notes.RepositoryConfig{Store: store, Logger: logger})
	if err != nil {
		return err
	}
	catalogRepo, err := catalog.NewRepository(catalog.RepositoryConfig{Store: store, Logger: logger})
	if err != nil {
		return err
	}

	var sleep simapi.Sleeper
	if !appConfig.SimulateLatency {
		sleep = func(context.Context, time.Duration) error { return nil }
	}

	api, err := simapi.New(simapi.Config{
		Auth:         auth.NewService(auth.ServiceConfig{Logger: logger}),
		Notes:        noteRepo,
		Catalog:      catalogRepo,
		Gamification: gamification.NewService(),
		Responder:    chat.NewResponder(nil),
		Tracker:      progress.NewTracker(),
		Store:        store,
		Sleep:        sleep,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	tokenManager, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		Issuer:        "dsa-platform",
		Audience:      "dsa-api",
		TokenTTL:      appConfig.TokenTTL,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		API:    api,
		Tokens: tokenManager,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
