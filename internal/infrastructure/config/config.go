package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Storage  StorageConfig
	Export   ExportConfig
	PDF      PDFConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings. The sqlite driver only
// uses Path; the remaining fields configure postgres.
type DatabaseConfig struct {
	Driver   string // sqlite (default) or postgres
	Path     string // sqlite database file
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// StorageConfig holds the filesystem locations the service reads and writes
type StorageConfig struct {
	SystemImageRoot string // root of the managed photo store
	BaseDir         string // base for legacy relative image paths
	LogoPath        string // optional letterhead logo, empty disables it
	ExportDir       string // where generated PDF files are kept
}

// ExportConfig holds batch list rendering settings
type ExportConfig struct {
	ImageCellPx  int
	AllowUpscale bool
	Title        string
	FontName     string
	UnitLabel    string
	SheetName    string
}

// PDFConfig holds the LibreOffice conversion bridge settings
type PDFConfig struct {
	Enabled    bool
	BinaryPath string
	TempDir    string
	Timeout    time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with AUCTION_ prefix (e.g., AUCTION_DATABASE_PATH)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("AUCTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("database.driver"),
			Path:     v.GetString("database.path"),
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
		},
		Storage: StorageConfig{
			SystemImageRoot: v.GetString("storage.system_image_root"),
			BaseDir:         v.GetString("storage.base_dir"),
			LogoPath:        v.GetString("storage.logo_path"),
			ExportDir:       v.GetString("storage.export_dir"),
		},
		Export: ExportConfig{
			ImageCellPx:  v.GetInt("export.image_cell_px"),
			AllowUpscale: getBoolDefault(v, "export.allow_upscale", true),
			Title:        v.GetString("export.title"),
			FontName:     v.GetString("export.font_name"),
			UnitLabel:    v.GetString("export.unit_label"),
			SheetName:    v.GetString("export.sheet_name"),
		},
		PDF: PDFConfig{
			Enabled:    getBoolDefault(v, "pdf.enabled", true),
			BinaryPath: v.GetString("pdf.binary_path"),
			TempDir:    v.GetString("pdf.temp_dir"),
			Timeout:    v.GetDuration("pdf.timeout"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getBoolDefault reads a bool that defaults to true when the key is absent
// everywhere. Viper's GetBool cannot distinguish "unset" from "false".
func getBoolDefault(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "auction-backoffice"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "auction.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "auction"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// batch export with many photos can take a while to stream
		cfg.HTTP.WriteTimeout = 120 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Storage.SystemImageRoot == "" {
		cfg.Storage.SystemImageRoot = "data/images"
	}
	if cfg.Storage.BaseDir == "" {
		cfg.Storage.BaseDir = "static"
	}
	if cfg.Storage.ExportDir == "" {
		cfg.Storage.ExportDir = "exports"
	}
	if cfg.Export.ImageCellPx == 0 {
		cfg.Export.ImageCellPx = 100
	}
	if cfg.PDF.Timeout == 0 {
		cfg.PDF.Timeout = 2 * time.Minute
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Export.ImageCellPx < 0 {
		return fmt.Errorf("export.image_cell_px cannot be negative")
	}
	if c.PDF.Timeout < 0 {
		return fmt.Errorf("pdf.timeout cannot be negative")
	}

	// Production-specific validations
	if c.App.Env == "production" && c.Database.Driver == "postgres" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}
