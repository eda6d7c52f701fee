//go:build !wasm

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	"github.com/tinywasm/customer"
	"github.com/tinywasm/customer/internal/config"
	"github.com/tinywasm/customer/internal/logger"
)

var (
	//nolint:gochecknoglobals // bound by cobra before any command runs.
	configFilenameFromFlag string

	//nolint:gochecknoglobals // loaded once in PersistentPreRunE.
	appConfig *config.Config

	//nolint:gochecknoglobals // cobra command tree.
	rootCmd = &cobra.Command{
		Use:               "shopauth",
		Short:             "Customer sign-in and sign-up for the shop.",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	//nolint:gochecknoglobals // cobra command tree.
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the auth page and the auth API.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), appConfig)
		},
	}

	//nolint:gochecknoglobals // cobra command tree.
	purgeCmd = &cobra.Command{
		Use:   "purge-sessions",
		Short: "Delete expired sessions.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openStore(appConfig)
			if err != nil {
				return err
			}
			defer db.Close()

			return customer.PurgeExpiredSessions()
		},
	}
)

// Execute runs the root command until it returns or a signal arrives.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to a YAML configuration file (environment: %s_*)", config.EnvPrefix))

	rootCmd.AddCommand(serveCmd, purgeCmd)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)

	return nil
}

func openStore(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	err = customer.Init(customer.NewSQLExecutor(db), customer.StoreConfig{
		SessionTTL:   int(cfg.ParsedSessionTTL / time.Second),
		JWTSecret:    []byte(cfg.JWTSecret),
		ConfirmEmail: cfg.ConfirmEmail,
	})
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("init store: %w", err)
	}

	return db, nil
}

func newMux(cfg *config.Config) (*http.ServeMux, error) {
	page, err := customer.RenderPage(customer.NewViewState(customer.Config{}), customer.PageOptions{
		AnonKey: cfg.AnonKey,
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	auth := customer.NewAuthHandler(customer.NewLocalProvider(), customer.HandlerConfig{
		RateLimit:  rate.Limit(cfg.RateLimit),
		RateBurst:  cfg.RateBurst,
		TrustProxy: cfg.TrustProxy,
	})

	mux := http.NewServeMux()
	mux.Handle("/auth/v1/", auth)
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.StaticDir))))
	mux.HandleFunc("GET /shop.html", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, cfg.StaticDir+"/shop.html")
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})

	return mux, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	mux, err := newMux(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go purgeLoop(ctx, time.Hour)

	errCh := make(chan error, 1)

	go func() {
		logger.Infof(ctx, "listening on %s", cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	logger.Infof(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ParsedShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func purgeLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := customer.PurgeExpiredSessions(); err != nil {
				logger.Warnf(ctx, "purge expired sessions: %v", err)
			}
		}
	}
}
