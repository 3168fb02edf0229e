package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every tunable setting of the tool.
type Config struct {
	Chart ChartConfig `mapstructure:"chart"`
	Log   LogConfig   `mapstructure:"log"`
}

// ChartConfig - rendering settings
type ChartConfig struct {
	DPI       float64 `mapstructure:"dpi"`        // raster resolution (by default 150)
	Width     float64 `mapstructure:"width"`      // figure width in inches (by default 10)
	Height    float64 `mapstructure:"height"`     // figure height in inches (by default 6)
	HistBins  int     `mapstructure:"hist_bins"`  // bucket count for hist (by default 20)
	MaxSeries int     `mapstructure:"max_series"` // columns drawn by bar/line (by default 5)
	FontPath  string  `mapstructure:"font_path"`  // TTF to use instead of the embedded face
}

// LogConfig - logging settings
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Flag names registered by RegisterFlags, keyed by their viper key.
var flagKeys = map[string]string{
	"chart.dpi":        "dpi",
	"chart.width":      "width",
	"chart.height":     "height",
	"chart.hist_bins":  "bins",
	"chart.max_series": "max-series",
	"chart.font_path":  "font",
	"log.file":         "log-file",
	"log.level":        "log-level",
}

// RegisterFlags adds the command-line flags LoadConfig understands.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Float64("dpi", 150, "Image resolution in dots per inch (env: CSVVIZ_DPI)")
	flags.Float64("width", 10, "Figure width in inches (env: CSVVIZ_WIDTH)")
	flags.Float64("height", 6, "Figure height in inches (env: CSVVIZ_HEIGHT)")
	flags.Int("bins", 20, "Histogram bucket count (env: CSVVIZ_BINS)")
	flags.Int("max-series", 5, "Numeric columns drawn by bar and line charts (env: CSVVIZ_MAX_SERIES)")
	flags.String("font", "", "TrueType font for chart text (env: CSVVIZ_FONT)")
	flags.String("log-file", "", "Write a debug log to this file (env: CSVVIZ_LOG_FILE)")
	flags.String("log-level", "info", "Log file level: debug, info, warn, error (env: CSVVIZ_LOG_LEVEL)")
}

// LoadConfig merges settings in this order:
// 1. defaults
// 2. .env file (seeds the environment)
// 3. CSVVIZ_* environment variables
// 4. flags that were set explicitly
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load(".env")

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CSVVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setupEnvAliases(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	config.Chart.FontPath = strings.TrimSpace(config.Chart.FontPath)
	config.Log.Level = strings.ToLower(strings.TrimSpace(config.Log.Level))

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setupEnvAliases(v *viper.Viper) {
	// Short names: CSVVIZ_BINS -> chart.hist_bins
	v.BindEnv("chart.dpi", "CSVVIZ_DPI", "CSVVIZ_CHART_DPI")
	v.BindEnv("chart.width", "CSVVIZ_WIDTH", "CSVVIZ_CHART_WIDTH")
	v.BindEnv("chart.height", "CSVVIZ_HEIGHT", "CSVVIZ_CHART_HEIGHT")
	v.BindEnv("chart.hist_bins", "CSVVIZ_BINS", "CSVVIZ_CHART_HIST_BINS")
	v.BindEnv("chart.max_series", "CSVVIZ_MAX_SERIES", "CSVVIZ_CHART_MAX_SERIES")
	v.BindEnv("chart.font_path", "CSVVIZ_FONT", "CSVVIZ_CHART_FONT_PATH")

	v.BindEnv("log.file", "CSVVIZ_LOG_FILE")
	v.BindEnv("log.level", "CSVVIZ_LOG_LEVEL")
}

// setDefaults - by default
func setDefaults(v *viper.Viper) {
	v.SetDefault("chart.dpi", 150.0)
	v.SetDefault("chart.width", 10.0)
	v.SetDefault("chart.height", 6.0)
	v.SetDefault("chart.hist_bins", 20)
	v.SetDefault("chart.max_series", 5)
	v.SetDefault("chart.font_path", "")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Chart.DPI <= 0 {
		return fmt.Errorf("chart.dpi must be positive, got %v", cfg.Chart.DPI)
	}
	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %vx%v", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Chart.HistBins <= 0 {
		return fmt.Errorf("chart.hist_bins must be positive, got %d", cfg.Chart.HistBins)
	}
	if cfg.Chart.MaxSeries <= 0 {
		return fmt.Errorf("chart.max_series must be positive, got %d", cfg.Chart.MaxSeries)
	}
	if px := cfg.Chart.DPI * cfg.Chart.Width * cfg.Chart.DPI * cfg.Chart.Height; px > 100_000_000 {
		return fmt.Errorf("chart of %vx%v in at %v dpi is too large", cfg.Chart.Width, cfg.Chart.Height, cfg.Chart.DPI)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", cfg.Log.Level)
	}

	return nil
}
