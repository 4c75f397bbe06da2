// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

package exporter_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/woog-life/temperature-scraper/exporter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validConfig = exporter.Config{
	Server: exporter.ServiceConf{
		LogLevel:   "info",
		Timeout:    "10s",
		RunTimeout: "2m",
		Air:        exporter.AirEnabled,
	},
	Sensor: exporter.Sensor{
		URL:             "https://sensor.example.com/data.xml",
		TLSVerification: true,
	},
	Backend: exporter.Backend{
		URL:        "https://api.example.com",
		WaterPath:  "lake/{}/temperature",
		AirPath:    "lake/{}/air-temperature",
		SiteID:     "woog",
		Key:        "secret",
		AuthScheme: "api-key",
		Gate:       "block",
	},
	Alert: exporter.Alert{
		Channel:    "telegram",
		Token:      "123456:bot-token",
		Recipients: []string{"1001", "1002"},
	},
}

func TestSaveRead(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")

	err := exporter.Save(validConfig, file)
	require.Nil(t, err, fmt.Sprintf("unexpected error saving config: %s", err))

	got, err := exporter.Read(file)
	require.Nil(t, err, fmt.Sprintf("unexpected error reading config: %s", err))
	assert.Equal(t, validConfig, got, fmt.Sprintf("expected %v got %v\n", validConfig, got))
}

func TestSaveEmptyPath(t *testing.T) {
	err := exporter.Save(validConfig, "")
	assert.NotNil(t, err, "expected error saving config to an empty path\n")
}

func TestReadMissingFile(t *testing.T) {
	_, err := exporter.Read(filepath.Join(t.TempDir(), "absent.toml"))
	assert.NotNil(t, err, "expected error reading an absent config file\n")
}

func TestReadMalformed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(file, []byte("not = [valid"), 0o644)
	require.Nil(t, err, fmt.Sprintf("unexpected error writing file: %s", err))

	_, err = exporter.Read(file)
	assert.NotNil(t, err, "expected error reading malformed config\n")
}
