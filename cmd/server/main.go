// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	apiconnect "github.com/osa030/onair/internal/api/connect"
	"github.com/osa030/onair/internal/api/httpapi"
	"github.com/osa030/onair/internal/app/auth"
	"github.com/osa030/onair/internal/app/content"
	"github.com/osa030/onair/internal/app/filter"
	"github.com/osa030/onair/internal/app/notification"
	"github.com/osa030/onair/internal/app/podcastimport"
	"github.com/osa030/onair/internal/infra/assets"
	"github.com/osa030/onair/internal/infra/config"
	"github.com/osa030/onair/internal/infra/logger"
	"github.com/osa030/onair/internal/infra/metrics"
	"github.com/osa030/onair/internal/infra/spotify"
	"github.com/osa030/onair/internal/infra/store"
)

const sessionPruneInterval = 5 * time.Minute

var (
	app        = kingpin.New("onair-server", "Radio station site server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available contact filters and exit")

	// migrate command
	migrateCmd = app.Command("migrate", "Create or update the database schema and exit")

	// create-admin command
	createAdminCmd      = app.Command("create-admin", "Create a back-office user")
	createAdminEmail    = createAdminCmd.Arg("email", "Login email").Required().String()
	createAdminName     = createAdminCmd.Arg("name", "Display name").String()
	createAdminPassword = createAdminCmd.Flag("password", "Password").Envar("ONAIR_ADMIN_PASSWORD").Required().String()

	// reset-password command
	resetPasswordCmd      = app.Command("reset-password", "Set a new password for a back-office user")
	resetPasswordEmail    = resetPasswordCmd.Arg("email", "Login email").Required().String()
	resetPasswordPassword = resetPasswordCmd.Flag("password", "New password").Envar("ONAIR_ADMIN_PASSWORD").Required().String()
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Handle list-filters command
	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	// Override with command-line flags if specified
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	closer, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer closer.Close()

	// Load config
	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	switch command {
	case migrateCmd.FullCommand():
		err = withDatabase(cfg, func(*gorm.DB) error {
			fmt.Println("Database schema is up to date")
			return nil
		})
	case createAdminCmd.FullCommand():
		err = withDatabase(cfg, func(db *gorm.DB) error {
			a, err := newAuthService(db, cfg).CreateAdmin(context.Background(), *createAdminEmail, *createAdminName, *createAdminPassword)
			if err != nil {
				return err
			}
			fmt.Printf("Created admin %s (%s)\n", a.Email, a.ID)
			return nil
		})
	case resetPasswordCmd.FullCommand():
		err = withDatabase(cfg, func(db *gorm.DB) error {
			if err := newAuthService(db, cfg).ResetPassword(context.Background(), *resetPasswordEmail, *resetPasswordPassword); err != nil {
				return err
			}
			fmt.Printf("Password updated for %s\n", *resetPasswordEmail)
			return nil
		})
	default:
		// Run server (defer ensures shutdown hook is called)
		err = run(cfg)
	}
	if err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		closer.Close()
		os.Exit(1)
	}
}

// withDatabase opens and migrates the database, runs fn and closes it.
func withDatabase(cfg *config.Config, fn func(db *gorm.DB) error) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(db); err != nil {
			zlog.Warn().Msgf("Failed to close database: %v", err)
		}
	}()
	return fn(db)
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := store.Open(store.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		_ = store.Close(db)
		return nil, err
	}
	return db, nil
}

func newAuthService(db *gorm.DB, cfg *config.Config) *auth.Service {
	return auth.NewService(db, auth.Config{
		Secret: []byte(cfg.Auth.JWTSecret),
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.SessionTTL(),
	}, time.Now)
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(db); err != nil {
			zlog.Warn().Msgf("Failed to close database: %v", err)
		}
	}()

	// Inbox notifications
	notifications := notification.NewManager()
	defer notifications.Close()

	services := content.New(db, content.Options{
		Inbox: apiconnect.NewInboxBroadcaster(notifications),
	})

	// Contact filters need the message history, so the chain is built afterwards
	chain, err := filter.NewChainFromConfig(cfg, filter.Deps{History: services.Contacts.History()})
	if err != nil {
		return errors.Wrap(err, "invalid filter config")
	}
	services.Contacts.SetChain(chain)

	authService := newAuthService(db, cfg)
	go authService.RunPruner(ctx, sessionPruneInterval)

	// Spotify is optional; import is disabled without credentials
	var fetcher podcastimport.Fetcher
	if cfg.SpotifyEnabled() {
		spotifyClient, err := spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return errors.Wrap(err, "failed to create Spotify client")
		}
		fetcher = spotifyClient
	} else {
		zlog.Info().Msg("Spotify credentials not configured, podcast import disabled")
	}

	assetStore, err := assets.NewStore(assets.Config{
		Root:     cfg.Assets.Root,
		BaseURL:  cfg.Assets.BaseURL,
		MaxBytes: cfg.Assets.MaxUploadBytes,
	})
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if !cfg.Metrics.Disabled {
		m = metrics.New()
	}

	// Create RPC services
	siteService := apiconnect.NewSiteService(services, cfg, m)
	authRPC := apiconnect.NewAuthService(authService, m)
	adminService := apiconnect.NewAdminService(apiconnect.AdminServiceDeps{
		Content:       services,
		Importer:      podcastimport.New(fetcher, services.Podcasts),
		Assets:        assetStore,
		Notifications: notifications,
		Metrics:       m,
	})

	handler := httpapi.NewRouter(httpapi.Deps{
		Site:          siteService,
		Auth:          authRPC,
		Admin:         adminService,
		Authenticator: authService,
		Assets:        assetStore,
		Metrics:       m,
		MetricsPath:   cfg.Metrics.Path,
		UpdateGauges: func() {
			m.SetInboxWatchers(notifications.SubscriberCount())
			m.SetActiveSessions(authService.ActiveSessions())
		},
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	serverAddr := cfg.Server.Addr
	server := httpapi.NewServer(serverAddr, handler)

	// Channel to capture server startup errors
	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	// Start server
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s station=%s", serverAddr, cfg.Station.Name)
		// Signal that we're about to start listening
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for server to start listening
	<-serverStartedCh
	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	// Execute startup hook if configured (after server is running)
	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return errors.Wrap(err, "server error")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// End inbox streams first so Shutdown does not wait for them
	adminService.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	// Execute shutdown hook if configured
	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	registry := filter.GetRegistered()
	for _, name := range filter.Names() {
		f := registry[name](filter.Deps{})
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
