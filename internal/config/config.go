package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8000
	DefaultHost        = "0.0.0.0"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB

	// DefaultCloudFolder is where published map images land on the
	// asset host.
	DefaultCloudFolder = "starhawk-map-images"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the drone PDF extraction service
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Extraction configuration
	UploadDir   string
	MaxFileSize int64 // Maximum PDF file size in bytes

	// HTTP configuration
	CORSOrigins string // Comma-separated list of allowed origins, or "*"

	// Asset host configuration
	CloudName   string
	CloudKey    string
	CloudSecret string
	CloudFolder string

	// Application configuration
	Version     string
	ServiceName string
	LogLevel    string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:        ModeServer, // The extractor is primarily consumed over HTTP
		Host:        DefaultHost,
		Port:        DefaultPort,
		UploadDir:   filepath.Join(currentDir, "uploads", "drone-analysis"),
		MaxFileSize: DefaultMaxFileSize,
		CORSOrigins: "*",
		CloudFolder: DefaultCloudFolder,
		Version:     "1.0.0",
		ServiceName: "drone-pdf-extractor",
		LogLevel:    DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.UploadDir != "" {
		if expandedPath, err := filepath.Abs(cfg.UploadDir); err == nil {
			cfg.UploadDir = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("DRONE_PDF")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("uploaddir", cfg.UploadDir)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("corsorigins", cfg.CORSOrigins)
	viper.SetDefault("cloudname", cfg.CloudName)
	viper.SetDefault("cloudkey", cfg.CloudKey)
	viper.SetDefault("cloudsecret", cfg.CloudSecret)
	viper.SetDefault("cloudfolder", cfg.CloudFolder)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'server' for the HTTP API, 'stdio' for MCP standard I/O")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("uploaddir", cfg.UploadDir, "Directory holding uploaded report PDFs")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("corsorigins", cfg.CORSOrigins, "Comma-separated allowed CORS origins, or '*'")
	pflag.String("cloudname", cfg.CloudName, "Cloudinary cloud name (uploads disabled when empty)")
	pflag.String("cloudkey", cfg.CloudKey, "Cloudinary API key")
	pflag.String("cloudsecret", cfg.CloudSecret, "Cloudinary API secret")
	pflag.String("cloudfolder", cfg.CloudFolder, "Cloudinary folder for published map images")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("uploaddir", pflag.Lookup("uploaddir"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("corsorigins", pflag.Lookup("corsorigins"))
	_ = viper.BindPFlag("cloudname", pflag.Lookup("cloudname"))
	_ = viper.BindPFlag("cloudkey", pflag.Lookup("cloudkey"))
	_ = viper.BindPFlag("cloudsecret", pflag.Lookup("cloudsecret"))
	_ = viper.BindPFlag("cloudfolder", pflag.Lookup("cloudfolder"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nDrone PDF Extractor - structured data extraction from drone-imagery PDF reports\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          # HTTP server on 0.0.0.0:8000 (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --port=8080 --loglevel=debug             # HTTP server with debug logging\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio                             # MCP stdio mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_MODE         Run mode\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_UPLOADDIR    Uploaded report directory\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_MAXFILESIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_CORSORIGINS  Allowed CORS origins\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_CLOUDNAME    Cloudinary cloud name\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_CLOUDKEY     Cloudinary API key\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_CLOUDSECRET  Cloudinary API secret\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_CLOUDFOLDER  Cloudinary folder\n")
		fmt.Fprintf(os.Stderr, "  DRONE_PDF_LOGLEVEL     Log level\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.UploadDir = viper.GetString("uploaddir")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.CORSOrigins = viper.GetString("corsorigins")
	cfg.CloudName = viper.GetString("cloudname")
	cfg.CloudKey = viper.GetString("cloudkey")
	cfg.CloudSecret = viper.GetString("cloudsecret")
	cfg.CloudFolder = viper.GetString("cloudfolder")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate upload directory
	if c.UploadDir == "" {
		return errors.New("upload directory cannot be empty")
	}

	// Check if upload directory exists, create if it doesn't
	if _, err := os.Stat(c.UploadDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.UploadDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create upload directory %s: %w", c.UploadDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access upload directory %s: %w", c.UploadDir, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Asset host credentials are all-or-nothing
	if c.partialCloudCredentials() {
		return errors.New("cloudinary credentials are incomplete: set cloudname, cloudkey, and cloudsecret together")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

func (c *Config) partialCloudCredentials() bool {
	set := 0
	for _, v := range []string{c.CloudName, c.CloudKey, c.CloudSecret} {
		if v != "" {
			set++
		}
	}
	return set > 0 && set < 3
}

// CloudinaryEnabled returns true when a complete credential set is
// configured and map images should be published.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudName != "" && c.CloudKey != "" && c.CloudSecret != ""
}

// CORSOriginList parses the configured origins into a list
func (c *Config) CORSOriginList() []string {
	if c.CORSOrigins == "*" || c.CORSOrigins == "" {
		return []string{"*"}
	}
	origins := strings.Split(c.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration with
// credentials redacted
func (c *Config) String() string {
	secret := "unset"
	if c.CloudinaryEnabled() {
		secret = "set"
	}
	return fmt.Sprintf(
		"Config{Mode: %s, Host: %s, Port: %d, UploadDir: %s, MaxFileSize: %d, CORSOrigins: %s, CloudFolder: %s, CloudinaryCredentials: %s, LogLevel: %s}",
		c.Mode, c.Host, c.Port, c.UploadDir, c.MaxFileSize, c.CORSOrigins, c.CloudFolder, secret, c.LogLevel)
}

// IsServerMode returns true if running the HTTP API
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if running as an MCP stdio server
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
