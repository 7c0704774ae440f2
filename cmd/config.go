package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/etnz/bitbaby"
	"github.com/etnz/bitbaby/renderer"
)

// Config holds the application settings.
type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Autosave AutosaveConfig `mapstructure:"autosave"`
	Export   ExportConfig   `mapstructure:"export"`
	Log      LogConfig      `mapstructure:"log"`
}

type StoreConfig struct {
	Dir string `mapstructure:"dir"`
	Key string `mapstructure:"key"`
}

type AutosaveConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type ExportConfig struct {
	Dir        string `mapstructure:"dir"`
	Scale      int    `mapstructure:"scale"`
	Background string `mapstructure:"background"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Store:    StoreConfig{Dir: defaultStoreDir(), Key: bitbaby.DefaultKey},
		Autosave: AutosaveConfig{Debounce: bitbaby.DefaultDebounce},
		Export:   ExportConfig{Dir: ".", Scale: 3, Background: renderer.DefaultBackground},
		Log:      LogConfig{Level: "warn"},
	}
}

func defaultStoreDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".bitbaby"
	}
	return filepath.Join(dir, "bitbaby")
}

// LoadConfig reads the configuration from file, or from bitbaby.yaml in the
// current directory or $HOME/.config/bitbaby when file is empty. Environment
// variables prefixed with BITBABY_ override it, e.g. BITBABY_STORE_DIR.
func LoadConfig(file string) (Config, error) {
	def := DefaultConfig()
	v := viper.New()
	v.SetDefault("store.dir", def.Store.Dir)
	v.SetDefault("store.key", def.Store.Key)
	v.SetDefault("autosave.debounce", def.Autosave.Debounce)
	v.SetDefault("export.dir", def.Export.Dir)
	v.SetDefault("export.scale", def.Export.Scale)
	v.SetDefault("export.background", def.Export.Background)
	v.SetDefault("log.level", def.Log.Level)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("bitbaby")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "bitbaby"))
		}
	}

	v.SetEnvPrefix("BITBABY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}
	if c.Export.Scale < 1 {
		return Config{}, fmt.Errorf("export.scale must be at least 1, got %d", c.Export.Scale)
	}
	if c.Autosave.Debounce < 0 {
		return Config{}, fmt.Errorf("autosave.debounce must not be negative, got %v", c.Autosave.Debounce)
	}
	return c, nil
}
