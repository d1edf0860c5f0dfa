/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Comcast/parley/dispatch/mqtt"

	"github.com/spf13/viper"
)

// Config is everything that can come from parley.yaml, PARLEY_*
// environment variables, or flags.
type Config struct {
	// Patterns are category files and directories.
	Patterns []string `mapstructure:"patterns"`

	// MaxDepth bounds srai recursion.
	MaxDepth int `mapstructure:"max_depth"`

	// Learned, if not empty, is the file where learned
	// categories are saved.
	Learned string `mapstructure:"learned"`

	Storage StorageConfig `mapstructure:"storage"`
	Serve   ServeConfig   `mapstructure:"serve"`
	MQTT    mqtt.Config   `mapstructure:"mqtt"`
	Log     LogConfig     `mapstructure:"log"`
}

type StorageConfig struct {
	// Path is a bbolt file or, with a ".json" extension, a JSON
	// file.  Empty means no persistence.
	Path string `mapstructure:"path"`

	// Crew is the namespace for conversations.
	Crew string `mapstructure:"crew"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`

	// EvictSchedule is a cron expression.
	EvictSchedule string `mapstructure:"evict_schedule"`

	// Idle is how long a conversation can be quiet before it's
	// evicted.
	Idle time.Duration `mapstructure:"idle"`
}

type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("patterns", []string{})
	v.SetDefault("max_depth", 10)
	v.SetDefault("learned", "")

	v.SetDefault("storage.path", "")
	v.SetDefault("storage.crew", "parley")

	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.evict_schedule", "*/5 * * * *")
	v.SetDefault("serve.idle", time.Hour)

	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "parley")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.keep_alive", 30*time.Second)
	v.SetDefault("mqtt.reconnect", true)
	v.SetDefault("mqtt.topic", "parley/workflows/"+mqtt.WorkflowPlaceholder+":1")

	v.SetDefault("log.verbose", false)
}

// newViper makes a Viper with defaults and environment variables.  If
// configFile is empty, an optional parley.yaml in the current
// directory is used.
func newViper(configFile string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("parley")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PARLEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadConfig reads the config file (if any) and decodes the
// configuration.
func loadConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration makes sense.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0")
	}
	if c.Storage.Crew == "" {
		return fmt.Errorf("storage.crew must not be empty")
	}
	if c.Serve.Idle < 0 {
		return fmt.Errorf("serve.idle must be >= 0")
	}
	return nil
}
