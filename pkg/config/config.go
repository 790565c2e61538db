// Copyright (c) 2025, The craftgraph Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/craftgraph/craftgraph/pkg/catalog"
	"github.com/craftgraph/craftgraph/pkg/defaults"
	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/version"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. CRAFTGRAPH_DATA_DIR.
	EnvPrefix = "CRAFTGRAPH"

	// FileName is the config file base name searched for without --config.
	FileName = "craftgraph"
)

// Keys shared by the config file, environment and CLI flags.
const (
	KeyDataDir     = "data-dir"
	KeyGameVersion = "game-version"
	KeyVariants    = "variants"
	KeyLogLevel    = "log-level"
	KeyAddress     = "address"
	KeyPort        = "port"
	KeyWatch       = "watch"
	KeyDebounce    = "debounce"
)

// Config is the resolved craftgraph configuration.
type Config struct {
	// DataDir is an external pack directory layered over the embedded pack.
	DataDir string `mapstructure:"data-dir" yaml:"data-dir,omitempty"`

	// GameVersion gates pack documents by minGameVersion. Empty disables gating.
	GameVersion string `mapstructure:"game-version" yaml:"game-version,omitempty"`

	// Variants is the number of variant indices enumerated for variant items.
	Variants int `mapstructure:"variants" yaml:"variants"`

	LogLevel string `mapstructure:"log-level" yaml:"log-level"`

	// Server settings, used by craftd.
	Address  string        `mapstructure:"address" yaml:"address,omitempty"`
	Port     int           `mapstructure:"port" yaml:"port"`
	Watch    bool          `mapstructure:"watch" yaml:"watch"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" yaml:"-"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Variants: catalog.DefaultVariantRange,
		LogLevel: "info",
		Port:     8080,
		Debounce: defaults.WatchDebounce,
	}
}

// Load resolves configuration from defaults, a config file and CRAFTGRAPH_
// environment variables, in increasing precedence. An explicit path must
// exist; without one craftgraph.yaml is looked up in the working directory
// and then in $HOME/.config/craftgraph, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyGameVersion, d.GameVersion)
	v.SetDefault(KeyVariants, d.Variants)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyAddress, d.Address)
	v.SetDefault(KeyPort, d.Port)
	v.SetDefault(KeyWatch, d.Watch)
	v.SetDefault(KeyDebounce, d.Debounce)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// PORT is honored for platforms that inject it.
	_ = v.BindEnv(KeyPort, EnvPrefix+"_PORT", "PORT")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound) {
				return nil, cgerrors.Wrap(cgerrors.ErrCodeNotFound,
					fmt.Sprintf("config file %s not found", path), err)
			}
			return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("failed to read config file %s", path), err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidRequest, "failed to read config file", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidRequest, "failed to decode configuration", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if c.Variants <= 0 {
		return cgerrors.NewWithContext(cgerrors.ErrCodeInvalidRequest,
			"variants must be positive", map[string]any{"variants": c.Variants})
	}
	if c.Port < 0 || c.Port > 65535 {
		return cgerrors.NewWithContext(cgerrors.ErrCodeInvalidRequest,
			"port out of range", map[string]any{"port": c.Port})
	}
	if c.Debounce < 0 {
		return cgerrors.NewWithContext(cgerrors.ErrCodeInvalidRequest,
			"debounce cannot be negative", map[string]any{"debounce": c.Debounce.String()})
	}
	if _, err := c.Game(); err != nil {
		return err
	}
	return nil
}

// Game parses GameVersion. An empty value yields the zero version, which
// disables pack gating.
func (c *Config) Game() (version.Version, error) {
	if c.GameVersion == "" {
		return version.Version{}, nil
	}
	v, err := version.Parse(c.GameVersion)
	if err != nil {
		return version.Version{}, cgerrors.WrapWithContext(cgerrors.ErrCodeInvalidRequest,
			"invalid game version", err, map[string]any{"gameVersion": c.GameVersion})
	}
	return v, nil
}
