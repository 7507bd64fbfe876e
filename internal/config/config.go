// Package config loads libreveal's settings from libreveal.toml, the
// environment (LIBREVEAL_*) and an optional .env file.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// RetireJSFeedURL is the upstream RetireJS signature repository.
const RetireJSFeedURL = "https://raw.githubusercontent.com/RetireJS/retire.js/master/repository/jsrepository.json"

// Config is the full libreveal configuration.
type Config struct {
	Feed   FeedConfig   `mapstructure:"feed"`
	Output OutputConfig `mapstructure:"output"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`
	Watch  WatchConfig  `mapstructure:"watch"`

	// File is the config file that was read, or "" when none was found.
	File string `mapstructure:"-"`
}

// FeedConfig locates the signature feeds.
type FeedConfig struct {
	// URL is any go-getter source for the remote feed.
	URL string `mapstructure:"url"`
	// Cache is where a copy of the last fetched remote feed is kept.
	Cache string `mapstructure:"cache"`
	// Local is the optional local-extensions feed (.json or .risor).
	Local string `mapstructure:"local"`
}

// OutputConfig names the generated artifacts.
type OutputConfig struct {
	Script   string `mapstructure:"script"`
	Minified string `mapstructure:"minified"`
}

// StoreConfig locates the run-state database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls logging.
type LogConfig struct {
	JSON      bool `mapstructure:"json"`
	Verbosity int  `mapstructure:"verbosity"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("feed.url", RetireJSFeedURL)
	v.SetDefault("feed.cache", "json/retirejs_jsrepository.json")
	v.SetDefault("feed.local", "json/libreveal_jsrepository.json")

	v.SetDefault("output.script", "libreveal.js")
	v.SetDefault("output.minified", "libreveal.min.js")

	v.SetDefault("store.path", ".libreveal/state.db")

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("watch.debounce", 500*time.Millisecond)
}

// Load reads configuration. When path is empty, libreveal.toml is looked up
// in the working directory and may be absent. An explicit path must exist.
func Load(path string) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LIBREVEAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
	} else {
		v.SetConfigName("libreveal")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "config: read libreveal.toml")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Feed.URL == "" {
		return errors.WithHint(errors.New("config: feed.url is empty"),
			"set feed.url in libreveal.toml or LIBREVEAL_FEED_URL")
	}
	if c.Output.Script == "" {
		return errors.New("config: output.script is empty")
	}
	if c.Store.Path == "" {
		return errors.New("config: store.path is empty")
	}
	if c.Watch.Debounce < 0 {
		return errors.Newf("config: watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}
