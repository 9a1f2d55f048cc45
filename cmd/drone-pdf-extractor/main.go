package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/starhawk-ag/drone-pdf-extractor/internal/config"
	"github.com/starhawk-ag/drone-pdf-extractor/internal/mcp"
	"github.com/starhawk-ag/drone-pdf-extractor/internal/report"
	"github.com/starhawk-ag/drone-pdf-extractor/internal/server"
	"github.com/starhawk-ag/drone-pdf-extractor/internal/upload"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures zerolog for the selected mode
func setupLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	switch cfg.LogLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Keep output quiet in stdio mode so nothing interferes with the
	// MCP protocol on stdout
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}
}

// newUploader builds the Cloudinary uploader when credentials are
// configured; a nil uploader leaves map images inline
func newUploader(cfg *config.Config) (upload.Uploader, error) {
	if !cfg.CloudinaryEnabled() {
		return nil, nil
	}
	return upload.NewCloudinaryUploader(upload.CloudinaryConfig{
		CloudName: cfg.CloudName,
		APIKey:    cfg.CloudKey,
		APISecret: cfg.CloudSecret,
	})
}

// runServerMode handles HTTP server execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, srv *server.Server) {
	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Start server in a goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.Run(ctx)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-signalCh:
		log.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
		cancel()

		if err := <-serverErrCh; err != nil {
			log.Error().Err(err).Msg("server shutdown with error")
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}

	log.Info().Msg("server stopped")
}

// runStdioMode handles MCP stdio execution; the parent process
// controls the lifecycle
func runStdioMode(ctx context.Context, srv *mcp.Server) {
	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("MCP server error")
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		log.Debug().Str("config", cfg.String()).Msg("starting with configuration")
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cloudinary uploader")
	}
	if uploader == nil && cfg.IsServerMode() {
		log.Info().Msg("cloudinary not configured, map images stay inline")
	}

	locator := report.NewMapImageLocator(uploader, cfg.CloudFolder)
	svc := report.NewService(cfg.MaxFileSize, locator)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle different modes
	if cfg.IsServerMode() {
		httpServer, err := server.New(cfg, svc)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create HTTP server")
		}
		runServerMode(ctx, cancel, httpServer)
	} else {
		mcpServer, err := mcp.NewServer(cfg, svc)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create MCP server")
		}
		runStdioMode(ctx, mcpServer)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Drone PDF Extractor\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
