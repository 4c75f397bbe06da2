// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package exporter runs the temperature export pipeline: fetch the
// sensor document, validate the readings and put them to the backend,
// notifying operators when the run halts.
package exporter

import (
	"context"
	"fmt"

	scraper "github.com/woog-life/temperature-scraper"
	"github.com/woog-life/temperature-scraper/backend"
	"github.com/woog-life/temperature-scraper/logger"
	"github.com/woog-life/temperature-scraper/notifiers"
	"github.com/woog-life/temperature-scraper/pkg/errors"
	"github.com/woog-life/temperature-scraper/sensor"
)

const (
	// AirEnabled forwards the air channel unconditionally; a document
	// without one halts the run.
	AirEnabled = "enabled"

	// AirDisabled never forwards the air channel.
	AirDisabled = "disabled"

	// AirAuto forwards the air channel when the document carries one.
	// This is the default: unrecognized modes behave like auto.
	AirAuto = "auto"
)

var (
	// ErrForward indicates the backend did not acknowledge a reading.
	ErrForward = errors.New("failed to put reading to backend")

	// ErrNoResponse indicates a connection-level failure reaching the backend.
	ErrNoResponse = errors.New("no response from backend")

	// ErrGenerateRunID indicates a failure minting the run identifier.
	ErrGenerateRunID = errors.New("failed to generate run id")
)

// Report describes a completed or halted run.
type Report struct {
	RunID   string
	Water   sensor.Reading
	Air     *sensor.Reading
	Results []backend.Result
}

// Service specifies the export pipeline API.
type Service interface {
	// Export runs the pipeline once. A non-nil error means the run
	// halted; the report carries whatever was established before the
	// halt.
	Export(ctx context.Context) (Report, error)
}

var _ Service = (*exporterService)(nil)

type exporterService struct {
	sensor     sensor.Client
	backend    backend.Forwarder
	notifier   notifiers.Notifier
	idp        scraper.IDProvider
	recipients []string
	air        string
	gate       string
	logger     logger.Logger
}

// New instantiates the export pipeline. The notifier may be nil when no
// alert channel is configured.
func New(sc sensor.Client, fwd backend.Forwarder, notifier notifiers.Notifier, idp scraper.IDProvider, cfg Config, logger logger.Logger) Service {
	return &exporterService{
		sensor:     sc,
		backend:    fwd,
		notifier:   notifier,
		idp:        idp,
		recipients: cfg.Alert.Recipients,
		air:        cfg.Server.Air,
		gate:       cfg.Backend.Gate,
		logger:     logger,
	}
}

func (es *exporterService) Export(ctx context.Context) (Report, error) {
	runID, err := es.idp.ID()
	if err != nil {
		return Report{}, errors.Wrap(ErrGenerateRunID, err)
	}
	report := Report{RunID: runID}

	raw, err := es.sensor.Fetch(ctx)
	if err != nil {
		return es.halt(ctx, report, err)
	}

	doc, err := sensor.Parse(raw)
	if err != nil {
		return es.halt(ctx, report, err)
	}

	water, err := sensor.WaterReading(doc)
	if err != nil {
		return es.halt(ctx, report, err)
	}
	report.Water = water

	if es.withAir(doc) {
		air, err := sensor.AirReading(doc)
		if err != nil {
			return es.halt(ctx, report, err)
		}
		report.Air = &air
	}

	if water.Temperature <= 0 && !backend.GateRefuses(es.gate, water) {
		es.logger.Warn(fmt.Sprintf("Run %s: water temperature %.2f flagged for review", runID, water.Temperature))
	}

	res, err := es.backend.ForwardWater(ctx, runID, water)
	if err != nil {
		return es.halt(ctx, report, err)
	}
	report.Results = append(report.Results, res)
	if !res.Ok() {
		return es.halt(ctx, report, forwardErr(res))
	}

	if report.Air != nil {
		res, err := es.backend.ForwardAir(ctx, runID, *report.Air)
		if err != nil {
			return es.halt(ctx, report, err)
		}
		report.Results = append(report.Results, res)
		if !res.Ok() {
			return es.halt(ctx, report, forwardErr(res))
		}
	}

	return report, nil
}

func (es *exporterService) withAir(doc *sensor.Document) bool {
	switch es.air {
	case AirEnabled:
		return true
	case AirDisabled:
		return false
	default:
		return sensor.HasAir(doc)
	}
}

func forwardErr(res backend.Result) error {
	if res.NoResponse {
		return errors.Wrap(ErrForward, errors.Wrap(ErrNoResponse, errors.New(res.URL)))
	}
	return errors.Wrap(ErrForward, errors.New(fmt.Sprintf("%s responded %d: %s", res.URL, res.StatusCode, res.Body)))
}

func (es *exporterService) halt(ctx context.Context, report Report, err error) (Report, error) {
	es.alert(ctx, fmt.Sprintf("Temperature scraper run %s failed: %s", report.RunID, err))
	return report, err
}

func (es *exporterService) alert(ctx context.Context, msg string) {
	if es.notifier == nil {
		return
	}
	if len(es.recipients) == 0 {
		es.logger.Error("Alert channel configured without recipients")
		return
	}
	if err := es.notifier.Notify(ctx, es.recipients, msg); err != nil {
		es.logger.Error(fmt.Sprintf("Failed to notify operators: %s", err))
	}
}
