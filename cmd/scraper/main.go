// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	scraper "github.com/woog-life/temperature-scraper"
	"github.com/woog-life/temperature-scraper/backend"
	"github.com/woog-life/temperature-scraper/exporter"
	"github.com/woog-life/temperature-scraper/exporter/api"
	"github.com/woog-life/temperature-scraper/internal/email"
	"github.com/woog-life/temperature-scraper/logger"
	"github.com/woog-life/temperature-scraper/notifiers"
	"github.com/woog-life/temperature-scraper/notifiers/smtp"
	"github.com/woog-life/temperature-scraper/notifiers/telegram"
	"github.com/woog-life/temperature-scraper/pkg/errors"
	"github.com/woog-life/temperature-scraper/pkg/ulid"
	"github.com/woog-life/temperature-scraper/sensor"
)

const (
	svcName = "temperature-scraper"

	chanTelegram = "telegram"
	chanSMTP     = "smtp"

	defLogLevel        = "info"
	defEnvFile         = ""
	defConfigFile      = "config.toml"
	defTimeout         = "10s"
	defRunTimeout      = "2m"
	defAir             = exporter.AirAuto
	defMetricsPushURL  = ""
	defSensorURL       = ""
	defSensorTLS       = "true"
	defBackendURL      = ""
	defWaterPath       = "lake/{}/temperature"
	defAirPath         = "lake/{}/air-temperature"
	defSiteID          = ""
	defAPIKey          = ""
	defAuthScheme      = backend.AuthAPIKey
	defGate            = backend.GateBlock
	defBackendTLS      = "true"
	defAlertChannel    = ""
	defAlertToken      = ""
	defAlertRecipients = ""
	defEmailHost       = "localhost"
	defEmailPort       = "25"
	defEmailUsername   = ""
	defEmailPassword   = ""
	defEmailFromAddr   = ""
	defEmailFromName   = ""
	defEmailTemplate   = ""

	envLogLevel        = "WL_SCRAPER_LOG_LEVEL"
	envEnvFile         = "WL_SCRAPER_ENV_FILE"
	envConfigFile      = "WL_SCRAPER_CONFIG_FILE"
	envTimeout         = "WL_SCRAPER_TIMEOUT"
	envRunTimeout      = "WL_SCRAPER_RUN_TIMEOUT"
	envAir             = "WL_SCRAPER_AIR"
	envMetricsPushURL  = "WL_SCRAPER_METRICS_PUSH_URL"
	envSensorURL       = "WL_SCRAPER_SENSOR_URL"
	envSensorTLS       = "WL_SCRAPER_SENSOR_TLS_VERIFICATION"
	envBackendURL      = "WL_SCRAPER_BACKEND_URL"
	envWaterPath       = "WL_SCRAPER_BACKEND_WATER_PATH"
	envAirPath         = "WL_SCRAPER_BACKEND_AIR_PATH"
	envSiteID          = "WL_SCRAPER_SITE_ID"
	envAPIKey          = "WL_SCRAPER_API_KEY"
	envAuthScheme      = "WL_SCRAPER_AUTH_SCHEME"
	envGate            = "WL_SCRAPER_GATE"
	envBackendTLS      = "WL_SCRAPER_BACKEND_TLS_VERIFICATION"
	envAlertChannel    = "WL_SCRAPER_ALERT_CHANNEL"
	envAlertToken      = "WL_SCRAPER_ALERT_TOKEN"
	envAlertRecipients = "WL_SCRAPER_ALERT_RECIPIENTS"
	envEmailHost       = "WL_SCRAPER_EMAIL_HOST"
	envEmailPort       = "WL_SCRAPER_EMAIL_PORT"
	envEmailUsername   = "WL_SCRAPER_EMAIL_USERNAME"
	envEmailPassword   = "WL_SCRAPER_EMAIL_PASSWORD"
	envEmailFromAddr   = "WL_SCRAPER_EMAIL_FROM_ADDRESS"
	envEmailFromName   = "WL_SCRAPER_EMAIL_FROM_NAME"
	envEmailTemplate   = "WL_SCRAPER_EMAIL_TEMPLATE"
)

var (
	errMissingConfigFile     = errors.New("missing config file setting")
	errFailLoadingConfigFile = errors.New("failed to load config from file")
	errFailGettingTLSConf    = errors.New("failed to get TLS verification setting")
	errMissingSensorURL      = errors.New("missing sensor URL setting")
	errMissingBackendURL     = errors.New("missing backend URL setting")
	errMissingSiteID         = errors.New("missing site id setting")
	errMissingAPIKey         = errors.New("missing backend credential setting")
)

func main() {
	if envFile := scraper.Env(envEnvFile, defEnvFile); envFile != "" {
		if err := scraper.LoadEnvFile(envFile); err != nil {
			log.Fatalf("failed to load env file %s: %s", envFile, err)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf(err.Error())
	}
	logger, err := logger.New(os.Stdout, cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf(err.Error())
	}
	if cfgFromFile, err := loadConfigFromFile(cfg.File); err != nil {
		logger.Warn(fmt.Sprintf("Continue with settings from env, failed to load from: %s: %s", cfg.File, err))
	} else {
		// Merge environment variables and file settings.
		mergeConfigs(&cfgFromFile, &cfg)
		cfg = cfgFromFile
		logger.Info("Continue with settings from file: " + cfg.File)
	}

	if err := validateConfig(cfg); err != nil {
		logger.Error(fmt.Sprintf("Refusing to run: %s", err))
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(cfg.Server.Timeout)
	if err != nil {
		logger.Error(fmt.Sprintf("Invalid timeout setting %s: %s", cfg.Server.Timeout, err))
		os.Exit(1)
	}
	runTimeout, err := time.ParseDuration(cfg.Server.RunTimeout)
	if err != nil {
		logger.Error(fmt.Sprintf("Invalid run timeout setting %s: %s", cfg.Server.RunTimeout, err))
		os.Exit(1)
	}

	sc := sensor.NewClient(sensor.Config{
		URL:             cfg.Sensor.URL,
		Timeout:         timeout,
		TLSVerification: cfg.Sensor.TLSVerification,
	})
	fwd := backend.New(backend.Config{
		URL:             cfg.Backend.URL,
		WaterPath:       cfg.Backend.WaterPath,
		AirPath:         cfg.Backend.AirPath,
		SiteID:          cfg.Backend.SiteID,
		Key:             cfg.Backend.Key,
		AuthScheme:      cfg.Backend.AuthScheme,
		Gate:            cfg.Backend.Gate,
		Timeout:         timeout,
		TLSVerification: cfg.Backend.TLSVerification,
	})
	notifier := newNotifier(cfg, timeout, logger)

	svc := exporter.New(sc, fwd, notifier, ulid.New(), cfg, logger)
	svc = api.NewLoggingMiddleware(svc, logger)
	counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: "scraper",
		Subsystem: "exporter",
		Name:      "request_count",
		Help:      "Number of export runs.",
	}, []string{"method"})
	latency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace: "scraper",
		Subsystem: "exporter",
		Name:      "request_latency_microseconds",
		Help:      "Total duration of export runs in microseconds.",
	}, []string{"method"})
	svc = api.MetricsMiddleware(svc, counter, latency)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	report, err := svc.Export(ctx)
	pushMetrics(cfg, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("Scraper run terminated: %s", err))
		os.Exit(1)
	}

	logger.Info(fmt.Sprintf("Run %s: water %.2f at %s put to backend", report.RunID, report.Water.Temperature, report.Water.Timestamp))
	if report.Air != nil {
		logger.Info(fmt.Sprintf("Run %s: air %.2f at %s put to backend", report.RunID, report.Air.Temperature, report.Air.Timestamp))
	}
}

func newNotifier(cfg exporter.Config, timeout time.Duration, logger logger.Logger) notifiers.Notifier {
	switch cfg.Alert.Channel {
	case chanTelegram:
		if cfg.Alert.Token == "" {
			logger.Error("Telegram alert channel configured without a token, running unalerted")
			return nil
		}
		return telegram.New(telegram.Config{Token: cfg.Alert.Token, Timeout: timeout})
	case chanSMTP:
		agent, err := email.New(&cfg.Email)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to configure e-mail agent, running unalerted: %s", err))
			return nil
		}
		return smtp.New(agent)
	case "":
		logger.Info("No alert channel configured")
		return nil
	default:
		logger.Error(fmt.Sprintf("Unknown alert channel %s, running unalerted", cfg.Alert.Channel))
		return nil
	}
}

func validateConfig(cfg exporter.Config) error {
	if cfg.Sensor.URL == "" {
		return errMissingSensorURL
	}
	if cfg.Backend.URL == "" {
		return errMissingBackendURL
	}
	if cfg.Backend.SiteID == "" {
		return errMissingSiteID
	}
	if cfg.Backend.Key == "" {
		return errMissingAPIKey
	}
	return nil
}

func pushMetrics(cfg exporter.Config, logger logger.Logger) {
	if cfg.Server.MetricsPushURL == "" {
		return
	}
	if err := push.New(cfg.Server.MetricsPushURL, svcName).Gatherer(stdprometheus.DefaultGatherer).Push(); err != nil {
		logger.Warn(fmt.Sprintf("Failed to push metrics to %s: %s", cfg.Server.MetricsPushURL, err))
	}
}

func loadConfigFromFile(file string) (exporter.Config, error) {
	_, err := os.Stat(file)
	if os.IsNotExist(err) {
		return exporter.Config{}, errors.Wrap(errMissingConfigFile, err)
	}
	c, err := exporter.Read(file)
	if err != nil {
		return exporter.Config{}, errors.Wrap(errFailLoadingConfigFile, err)
	}
	return c, nil
}

func loadConfig() (exporter.Config, error) {
	sensorTLS, err := strconv.ParseBool(scraper.Env(envSensorTLS, defSensorTLS))
	if err != nil {
		return exporter.Config{}, errors.Wrap(errFailGettingTLSConf, err)
	}
	backendTLS, err := strconv.ParseBool(scraper.Env(envBackendTLS, defBackendTLS))
	if err != nil {
		return exporter.Config{}, errors.Wrap(errFailGettingTLSConf, err)
	}
	var recipients []string
	if raw := scraper.Env(envAlertRecipients, defAlertRecipients); raw != "" {
		for _, r := range strings.Split(raw, ",") {
			if r = strings.TrimSpace(r); r != "" {
				recipients = append(recipients, r)
			}
		}
	}

	cfg := exporter.Config{
		Server: exporter.ServiceConf{
			LogLevel:       scraper.Env(envLogLevel, defLogLevel),
			Timeout:        scraper.Env(envTimeout, defTimeout),
			RunTimeout:     scraper.Env(envRunTimeout, defRunTimeout),
			Air:            scraper.Env(envAir, defAir),
			MetricsPushURL: scraper.Env(envMetricsPushURL, defMetricsPushURL),
		},
		Sensor: exporter.Sensor{
			URL:             scraper.Env(envSensorURL, defSensorURL),
			TLSVerification: sensorTLS,
		},
		Backend: exporter.Backend{
			URL:             scraper.Env(envBackendURL, defBackendURL),
			WaterPath:       scraper.Env(envWaterPath, defWaterPath),
			AirPath:         scraper.Env(envAirPath, defAirPath),
			SiteID:          scraper.Env(envSiteID, defSiteID),
			Key:             scraper.Env(envAPIKey, defAPIKey),
			AuthScheme:      scraper.Env(envAuthScheme, defAuthScheme),
			Gate:            scraper.Env(envGate, defGate),
			TLSVerification: backendTLS,
		},
		Alert: exporter.Alert{
			Channel:    scraper.Env(envAlertChannel, defAlertChannel),
			Token:      scraper.Env(envAlertToken, defAlertToken),
			Recipients: recipients,
		},
		Email: email.Config{
			Host:        scraper.Env(envEmailHost, defEmailHost),
			Port:        scraper.Env(envEmailPort, defEmailPort),
			Username:    scraper.Env(envEmailUsername, defEmailUsername),
			Password:    scraper.Env(envEmailPassword, defEmailPassword),
			FromAddress: scraper.Env(envEmailFromAddr, defEmailFromAddr),
			FromName:    scraper.Env(envEmailFromName, defEmailFromName),
			Template:    scraper.Env(envEmailTemplate, defEmailTemplate),
		},
	}

	cfg.File = scraper.Env(envConfigFile, defConfigFile)
	return cfg, nil
}

func mergeConfigs(dst, src interface{}) interface{} {
	d := reflect.ValueOf(dst).Elem()
	s := reflect.ValueOf(src).Elem()

	for i := 0; i < d.NumField(); i++ {
		dField := d.Field(i)
		sField := s.Field(i)
		switch dField.Kind() {
		case reflect.Struct:
			dst := dField.Addr().Interface()
			src := sField.Addr().Interface()
			m := mergeConfigs(dst, src)
			val := reflect.ValueOf(m).Elem().Interface()
			dField.Set(reflect.ValueOf(val))
		case reflect.Slice:
			if dField.Len() == 0 {
				dField.Set(reflect.ValueOf(sField.Interface()))
			}
		case reflect.Bool:
			if dField.Interface() == false {
				dField.Set(reflect.ValueOf(sField.Interface()))
			}
		case reflect.Int:
			if dField.Interface() == 0 {
				dField.Set(reflect.ValueOf(sField.Interface()))
			}
		case reflect.String:
			if dField.Interface() == "" {
				dField.Set(reflect.ValueOf(sField.Interface()))
			}
		}
	}
	return dst
}
