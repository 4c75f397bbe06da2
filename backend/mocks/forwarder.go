// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package mocks contains test doubles for the backend package.
package mocks

import (
	"context"
	"sync"

	"github.com/woog-life/temperature-scraper/backend"
	"github.com/woog-life/temperature-scraper/sensor"
)

var _ backend.Forwarder = (*Forwarder)(nil)

// Forward records a single forwarding attempt.
type Forward struct {
	RunID   string
	Reading sensor.Reading
	Air     bool
}

// Forwarder is a recording forwarder mock with configurable outcomes.
type Forwarder struct {
	mu    sync.Mutex
	calls []Forward

	WaterResult backend.Result
	WaterErr    error
	AirResult   backend.Result
	AirErr      error
}

// NewForwarder returns a forwarder mock acknowledging every reading.
func NewForwarder() *Forwarder {
	ok := backend.Result{StatusCode: 200}
	return &Forwarder{WaterResult: ok, AirResult: ok}
}

func (f *Forwarder) ForwardWater(_ context.Context, runID string, reading sensor.Reading) (backend.Result, error) {
	f.record(Forward{RunID: runID, Reading: reading})
	return f.WaterResult, f.WaterErr
}

func (f *Forwarder) ForwardAir(_ context.Context, runID string, reading sensor.Reading) (backend.Result, error) {
	f.record(Forward{RunID: runID, Reading: reading, Air: true})
	return f.AirResult, f.AirErr
}

func (f *Forwarder) record(fw Forward) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fw)
}

// Calls returns the forwarding attempts recorded so far.
func (f *Forwarder) Calls() []Forward {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Forward, len(f.calls))
	copy(out, f.calls)
	return out
}
