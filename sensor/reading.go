// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

package sensor

import (
	"strconv"
	"strings"
	"time"

	"github.com/woog-life/temperature-scraper/pkg/errors"
)

const (
	waterElement = "Water_Temperature"
	airElement   = "Air_Temperature"
	valueField   = "value"
	tsField      = "ts"

	// Canonical timestamp form sent to the backend.
	timeLayout = "2006-01-02T15:04:05"
)

var (
	// ErrFieldMissing indicates an expected element is absent from the document.
	ErrFieldMissing = errors.New("field missing")

	// ErrInvalidValue indicates a temperature value that is not a decimal number.
	ErrInvalidValue = errors.New("invalid numeric value")

	// ErrInvalidTimestamp indicates an absent or non-integer ts field.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Reading is a validated (timestamp, temperature) pair for one sensor
// channel. It is only ever constructed with both fields present and
// numerically valid.
type Reading struct {
	Timestamp   string
	Temperature float64
}

// WaterReading extracts and validates the water temperature channel.
func WaterReading(doc *Document) (Reading, error) {
	return reading(doc, waterElement)
}

// AirReading extracts and validates the air temperature channel.
func AirReading(doc *Document) (Reading, error) {
	return reading(doc, airElement)
}

// HasAir reports whether the document carries an air temperature channel.
func HasAir(doc *Document) bool {
	_, ok := doc.First(airElement)
	return ok
}

func reading(doc *Document, outer string) (Reading, error) {
	node, ok := doc.First(outer)
	if !ok {
		return Reading{}, errors.Wrap(ErrFieldMissing, errors.New(outer))
	}

	raw, ok := node.First(valueField)
	if !ok {
		return Reading{}, errors.Wrap(ErrFieldMissing, errors.New(outer+"/"+valueField))
	}
	temperature, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Reading{}, errors.Wrap(ErrInvalidValue, err)
	}

	raw, ok = node.First(tsField)
	if !ok {
		return Reading{}, errors.Wrap(ErrInvalidTimestamp, errors.New(outer+"/"+tsField+" absent"))
	}
	millis, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return Reading{}, errors.Wrap(ErrInvalidTimestamp, err)
	}

	return Reading{
		Timestamp:   time.UnixMilli(millis).UTC().Format(timeLayout),
		Temperature: temperature,
	}, nil
}
