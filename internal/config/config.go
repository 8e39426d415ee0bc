package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/menta2k/vcollage/pkg/compositor"
	"github.com/menta2k/vcollage/pkg/processing"
)

// EnvPrefix prefixes environment overrides, e.g. VCOLLAGE_COLLAGE_WIDTH
const EnvPrefix = "VCOLLAGE"

// Config holds the application configuration
type Config struct {
	Collage CollageConfig `mapstructure:"collage"`
	Preview PreviewConfig `mapstructure:"preview"`
	Output  OutputConfig  `mapstructure:"output"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

// CollageConfig holds the default composition parameters
type CollageConfig struct {
	Width       int    `mapstructure:"width"`
	BorderWidth int    `mapstructure:"border_width"`
	BorderColor string `mapstructure:"border_color"`
	Resampler   string `mapstructure:"resampler"`
	MaxWidth    int    `mapstructure:"max_width"`
	MaxHeight   int    `mapstructure:"max_height"`
}

// PreviewConfig bounds the preview thumbnail
type PreviewConfig struct {
	MaxWidth  int `mapstructure:"max_width"`
	MaxHeight int `mapstructure:"max_height"`
}

// OutputConfig holds configuration for exported collages
type OutputConfig struct {
	Format    string `mapstructure:"format"`
	Quality   int    `mapstructure:"quality"`
	Lossless  bool   `mapstructure:"lossless"`
	OutputDir string `mapstructure:"output_dir"`
}

// ServerConfig holds configuration for the HTTP service
type ServerConfig struct {
	Port          string        `mapstructure:"port"`
	Mode          string        `mapstructure:"mode"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	MaxUploadMB   int64         `mapstructure:"max_upload_mb"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"` // 0 keeps idle sessions forever
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// LogConfig selects the log level and output format (text or json)
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Collage: CollageConfig{
			Width:       compositor.DefaultWidth,
			BorderWidth: compositor.DefaultBorderWidth,
			BorderColor: compositor.DefaultBorderColor.String(),
			Resampler:   compositor.DefaultResampler,
			MaxWidth:    compositor.DefaultMaxWidth,
			MaxHeight:   compositor.DefaultMaxHeight,
		},
		Preview: PreviewConfig{
			MaxWidth:  300,
			MaxHeight: 1000,
		},
		Output: OutputConfig{
			Format:    "jpg",
			Quality:   90,
			Lossless:  false,
			OutputDir: ".",
		},
		Server: ServerConfig{
			Port:          "8080",
			Mode:          "release",
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  2 * time.Minute,
			IdleTimeout:   2 * time.Minute,
			MaxUploadMB:   64,
			SessionTTL:    time.Hour,
			SweepInterval: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// setDefaults registers every key of d so that env overrides and
// Unmarshal see them even without a config file
func setDefaults(v *viper.Viper, d *Config) {
	for key, value := range d.settings() {
		v.SetDefault(key, value)
	}
}

func (c *Config) settings() map[string]any {
	return map[string]any{
		"collage.width":         c.Collage.Width,
		"collage.border_width":  c.Collage.BorderWidth,
		"collage.border_color":  c.Collage.BorderColor,
		"collage.resampler":     c.Collage.Resampler,
		"collage.max_width":     c.Collage.MaxWidth,
		"collage.max_height":    c.Collage.MaxHeight,
		"preview.max_width":     c.Preview.MaxWidth,
		"preview.max_height":    c.Preview.MaxHeight,
		"output.format":         c.Output.Format,
		"output.quality":        c.Output.Quality,
		"output.lossless":       c.Output.Lossless,
		"output.output_dir":     c.Output.OutputDir,
		"server.port":           c.Server.Port,
		"server.mode":           c.Server.Mode,
		"server.read_timeout":   c.Server.ReadTimeout,
		"server.write_timeout":  c.Server.WriteTimeout,
		"server.idle_timeout":   c.Server.IdleTimeout,
		"server.max_upload_mb":  c.Server.MaxUploadMB,
		"server.session_ttl":    c.Server.SessionTTL,
		"server.sweep_interval": c.Server.SweepInterval,
		"log.level":             c.Log.Level,
		"log.format":            c.Log.Format,
	}
}

// Load reads the configuration. With an explicit path the file must exist.
// Without one, config.yaml is looked up in ./config and the user config
// directory, and defaults are used when none is found. Environment
// variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(filepath.Dir(GetConfigPath()))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveToFile writes the configuration as YAML
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	for key, value := range c.settings() {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(filename); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Collage.MaxWidth < 1 || c.Collage.MaxHeight < 1 {
		return fmt.Errorf("collage.max_width and collage.max_height must be positive")
	}

	if _, err := c.Params(); err != nil {
		return fmt.Errorf("collage: %w", err)
	}

	if _, err := compositor.ParseResampler(c.Collage.Resampler); err != nil {
		return fmt.Errorf("collage.resampler: %w", err)
	}

	if c.Preview.MaxWidth < 1 || c.Preview.MaxHeight < 1 {
		return fmt.Errorf("preview.max_width and preview.max_height must be positive")
	}

	if _, err := processing.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}

	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("server.session_ttl must not be negative")
	}
	if c.Server.SessionTTL > 0 && c.Server.SweepInterval <= 0 {
		return fmt.Errorf("server.sweep_interval must be positive when server.session_ttl is set")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}

	return nil
}

// Params returns the configured default composition parameters
func (c *Config) Params() (compositor.Params, error) {
	color, err := compositor.ParseBorderColor(c.Collage.BorderColor)
	if err != nil {
		return compositor.Params{}, err
	}
	p := compositor.Params{
		Width:       c.Collage.Width,
		BorderWidth: c.Collage.BorderWidth,
		BorderColor: color,
	}
	return p, p.ValidateWithin(c.Limits())
}

// Limits returns the configured canvas limits
func (c *Config) Limits() compositor.Limits {
	return compositor.Limits{
		MaxWidth:  c.Collage.MaxWidth,
		MaxHeight: c.Collage.MaxHeight,
	}
}

// Resizer returns the configured resampler
func (c *Config) Resizer() (compositor.Resizer, error) {
	return compositor.ParseResampler(c.Collage.Resampler)
}

// SaveOptions returns the configured encoder options
func (c *Config) SaveOptions() processing.SaveOptions {
	return processing.SaveOptions{
		Quality:  c.Output.Quality,
		Lossless: c.Output.Lossless,
	}
}

// SetupLogger applies the log configuration to the standard logrus logger
func (l LogConfig) SetupLogger() error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	if strings.EqualFold(l.Format, "json") {
		logrus.SetFormatter(new(logrus.JSONFormatter))
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config/config.yaml"
	}
	return filepath.Join(home, ".config", "vcollage", "config.yaml")
}
