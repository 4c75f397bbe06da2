// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/woog-life/temperature-scraper/pkg/errors"
	"github.com/woog-life/temperature-scraper/sensor"
)

const (
	// AuthAPIKey authenticates forward calls with an X-ApiKey header.
	AuthAPIKey = "api-key"

	// AuthBearer authenticates forward calls with a bearer token.
	AuthBearer = "bearer"

	// GateBlock refuses to forward non-positive water temperatures.
	// This is the default: unrecognized gate modes behave like block.
	GateBlock = "block"

	// GateFlag forwards non-positive water temperatures; the caller is
	// expected to flag them for review.
	GateFlag = "flag"

	// BearerPrefix represents the token prefix for the bearer scheme.
	BearerPrefix = "Bearer "

	contentType = "application/json"
)

var (
	// ErrManualApproval indicates a physically implausible water reading
	// that must not be forwarded without review.
	ErrManualApproval = errors.New("water temperature requires manual approval")

	// ErrEncode indicates a failure serializing the forward request body.
	ErrEncode = errors.New("failed to encode forward request body")
)

// Config contains backend endpoint settings. Path templates hold a {}
// placeholder substituted with the site identifier.
type Config struct {
	URL             string
	WaterPath       string
	AirPath         string
	SiteID          string
	Key             string
	AuthScheme      string
	Gate            string
	Timeout         time.Duration
	TLSVerification bool
}

// Result is the outcome of a forwarding attempt: either a response with
// its status and body, or a no-response marker carrying the attempted
// URL after a connection-level failure.
type Result struct {
	URL        string
	StatusCode int
	Body       string
	NoResponse bool
}

// Ok reports whether the backend acknowledged the reading.
func (r Result) Ok() bool {
	return !r.NoResponse && r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Forwarder puts validated readings to the backend API.
type Forwarder interface {
	// ForwardWater puts a water reading. It refuses non-positive
	// temperatures when the blocking gate is configured.
	ForwardWater(ctx context.Context, runID string, reading sensor.Reading) (Result, error)

	// ForwardAir puts an air reading.
	ForwardAir(ctx context.Context, runID string, reading sensor.Reading) (Result, error)
}

var _ Forwarder = (*forwarder)(nil)

type forwarder struct {
	conf Config
	http *http.Client
}

// New returns a backend forwarder with an explicit timeout.
func New(conf Config) Forwarder {
	return &forwarder{
		conf: conf,
		http: &http.Client{
			Timeout: conf.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !conf.TLSVerification,
				},
			},
		},
	}
}

type forwardReq struct {
	Temperature float64 `json:"temperature"`
	Time        string  `json:"time"`
}

// GateRefuses reports whether the given gate mode refuses a water
// reading. Every mode except GateFlag blocks non-positive temperatures.
func GateRefuses(gate string, reading sensor.Reading) bool {
	return reading.Temperature <= 0 && gate != GateFlag
}

func (f *forwarder) ForwardWater(ctx context.Context, runID string, reading sensor.Reading) (Result, error) {
	if GateRefuses(f.conf.Gate, reading) {
		return Result{}, ErrManualApproval
	}

	return f.forward(ctx, runID, f.conf.WaterPath, reading)
}

func (f *forwarder) ForwardAir(ctx context.Context, runID string, reading sensor.Reading) (Result, error) {
	return f.forward(ctx, runID, f.conf.AirPath, reading)
}

func (f *forwarder) forward(ctx context.Context, runID, pathTemplate string, reading sensor.Reading) (Result, error) {
	url := f.buildURL(pathTemplate)

	data, err := json.Marshal(forwardReq{
		Temperature: reading.Temperature,
		Time:        reading.Timestamp,
	})
	if err != nil {
		return Result{URL: url}, errors.Wrap(ErrEncode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return Result{URL: url}, errors.Wrap(ErrEncode, err)
	}

	req.Header.Set("Content-Type", contentType)
	if runID != "" {
		req.Header.Set("X-Request-Id", runID)
	}
	switch f.conf.AuthScheme {
	case AuthBearer:
		req.Header.Set("Authorization", BearerPrefix+f.conf.Key)
	default:
		req.Header.Set("X-ApiKey", f.conf.Key)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		// Connection-level failure: no response to report, keep the
		// attempted URL for diagnostics.
		return Result{URL: url, NoResponse: true}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{URL: url, StatusCode: resp.StatusCode}, nil
	}

	return Result{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}

func (f *forwarder) buildURL(pathTemplate string) string {
	path := strings.Replace(pathTemplate, "{}", f.conf.SiteID, 1)
	return strings.TrimRight(f.conf.URL, "/") + "/" + strings.TrimLeft(path, "/")
}
