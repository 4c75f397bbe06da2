// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

package exporter

import (
	"fmt"
	"os"

	"github.com/woog-life/temperature-scraper/internal/email"
	"github.com/woog-life/temperature-scraper/pkg/errors"

	"github.com/pelletier/go-toml"
)

var (
	errFailedToReadConfig = errors.New("failed to read config file")
	errEmptyPath          = errors.New("empty config file path")
)

// ServiceConf represents runtime settings of the scraper itself.
type ServiceConf struct {
	LogLevel       string `toml:"log_level"`
	Timeout        string `toml:"timeout"`
	RunTimeout     string `toml:"run_timeout"`
	Air            string `toml:"air"`
	MetricsPushURL string `toml:"metrics_push_url"`
}

// Sensor represents the sensor endpoint config.
type Sensor struct {
	URL             string `toml:"url"`
	TLSVerification bool   `toml:"tls_verification"`
}

// Backend represents the backend API config.
type Backend struct {
	URL             string `toml:"url"`
	WaterPath       string `toml:"water_path"`
	AirPath         string `toml:"air_path"`
	SiteID          string `toml:"site_id"`
	Key             string `toml:"key"`
	AuthScheme      string `toml:"auth_scheme"`
	Gate            string `toml:"gate"`
	TLSVerification bool   `toml:"tls_verification"`
}

// Alert represents the operator alert channel config.
type Alert struct {
	Channel    string   `toml:"channel"`
	Token      string   `toml:"token"`
	Recipients []string `toml:"recipients"`
}

// Config struct of the scraper.
type Config struct {
	File    string       `toml:"file"`
	Server  ServiceConf  `toml:"server"`
	Sensor  Sensor       `toml:"sensor"`
	Backend Backend      `toml:"backend"`
	Alert   Alert        `toml:"alert"`
	Email   email.Config `toml:"email"`
}

// Save - store config in a file.
func Save(c Config, file string) error {
	if file == "" {
		return errEmptyPath
	}

	b, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(errFailedToReadConfig, err)
	}
	if err := os.WriteFile(file, b, 0o644); err != nil {
		return fmt.Errorf("Error writing toml: %w", err)
	}

	return nil
}

// Read - retrieve config from a file.
func Read(file string) (Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Config{}, errors.Wrap(errFailedToReadConfig, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("Error unmarshaling toml: %w", err)
	}

	return c, nil
}
