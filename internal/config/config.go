package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/paths"
)

// CurrentVersion is the config schema version this build understands.
const CurrentVersion = 1

// Config is matter's configuration.
type Config struct {
	Version       int    `mapstructure:"version" yaml:"version"`
	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`
	Output        string `mapstructure:"output" yaml:"output"`
	Workers       int    `mapstructure:"workers" yaml:"workers"`
	// Extensions maps a file extension to the frontmatter format assumed
	// for it when the format is auto. Keys are written without the dot,
	// since Viper splits keys on dots, and get one after loading.
	Extensions map[string]string `mapstructure:"extensions" yaml:"extensions,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:       CurrentVersion,
		DefaultFormat: "auto",
		Output:        "json",
		Workers:       0,
	}
}

// Init resets Viper and registers search paths, env binding and defaults.
// Call it once at startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	if dir := os.Getenv("MATTER_CONFIG_DIR"); dir != "" {
		viper.AddConfigPath(dir)
	} else {
		viper.AddConfigPath(paths.ConfigDir())
	}

	viper.SetEnvPrefix("MATTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault("version", d.Version)
	viper.SetDefault("default_format", d.DefaultFormat)
	viper.SetDefault("output", d.Output)
	viper.SetDefault("workers", d.Workers)
}

// Load reads the configuration. An explicit path must exist; with an empty
// path a missing file means defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
		case errors.As(err, &notFound), os.IsNotExist(err):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	cfg.normalize()

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errors.Mark(errs[0], errors.ErrInvalidConfig), "validating config")
	}
	return &cfg, nil
}

// FileUsed returns the config file Load read, or "" when defaults were used.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

func (c *Config) normalize() {
	c.DefaultFormat = strings.ToLower(strings.TrimSpace(c.DefaultFormat))
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	if len(c.Extensions) == 0 {
		c.Extensions = nil
		return
	}
	exts := make(map[string]string, len(c.Extensions))
	for ext, format := range c.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = strings.ToLower(format)
	}
	c.Extensions = exts
}
