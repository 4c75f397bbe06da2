// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

package exporter_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/woog-life/temperature-scraper/backend"
	bmocks "github.com/woog-life/temperature-scraper/backend/mocks"
	"github.com/woog-life/temperature-scraper/exporter"
	"github.com/woog-life/temperature-scraper/logger"
	nmocks "github.com/woog-life/temperature-scraper/notifiers/mocks"
	"github.com/woog-life/temperature-scraper/pkg/errors"
	"github.com/woog-life/temperature-scraper/pkg/ulid"
	"github.com/woog-life/temperature-scraper/sensor"
	smocks "github.com/woog-life/temperature-scraper/sensor/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validXML = `<Environment>
	<Water_Temperature>
		<value>18.5</value>
		<ts>1700000000000</ts>
	</Water_Temperature>
	<Air_Temperature>
		<value>21.3</value>
		<ts>1700000000000</ts>
	</Air_Temperature>
</Environment>`

const waterOnlyXML = `<Environment>
	<Water_Temperature>
		<value>18.5</value>
		<ts>1700000000000</ts>
	</Water_Temperature>
</Environment>`

var recipients = []string{"1001", "1002"}

func newService(sc sensor.Client, fwd backend.Forwarder, n *nmocks.Notifier, cfg exporter.Config) exporter.Service {
	cfg.Alert.Recipients = recipients
	return exporter.New(sc, fwd, n, ulid.NewMock(), cfg, logger.NewMock())
}

func TestExport(t *testing.T) {
	fwd := bmocks.NewForwarder()
	notifier := nmocks.NewNotifier(nil)
	svc := newService(smocks.NewClient(waterOnlyXML, nil), fwd, notifier, exporter.Config{})

	report, err := svc.Export(context.Background())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	assert.Equal(t, ulid.Prefix+"0000000001", report.RunID, fmt.Sprintf("expected mock run id got %s\n", report.RunID))
	assert.Equal(t, 18.5, report.Water.Temperature, fmt.Sprintf("expected water temperature 18.5 got %f\n", report.Water.Temperature))
	assert.Equal(t, "2023-11-14T22:13:20", report.Water.Timestamp, fmt.Sprintf("expected normalized timestamp got %s\n", report.Water.Timestamp))
	assert.Nil(t, report.Air, "expected no air reading for a water-only document\n")

	calls := fwd.Calls()
	require.Len(t, calls, 1, fmt.Sprintf("expected 1 forward call got %d", len(calls)))
	assert.Equal(t, report.RunID, calls[0].RunID, fmt.Sprintf("expected run id %s got %s\n", report.RunID, calls[0].RunID))
	assert.False(t, calls[0].Air, "expected a water forward call\n")
	assert.Empty(t, notifier.Sent(), "expected no notifications on success\n")
}

func TestExportAir(t *testing.T) {
	fwd := bmocks.NewForwarder()
	cfg := exporter.Config{}
	cfg.Server.Air = exporter.AirEnabled
	svc := newService(smocks.NewClient(validXML, nil), fwd, nmocks.NewNotifier(nil), cfg)

	report, err := svc.Export(context.Background())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	require.NotNil(t, report.Air, "expected an air reading when the air channel is enabled\n")
	assert.Equal(t, 21.3, report.Air.Temperature, fmt.Sprintf("expected air temperature 21.3 got %f\n", report.Air.Temperature))

	calls := fwd.Calls()
	require.Len(t, calls, 2, fmt.Sprintf("expected 2 forward calls got %d", len(calls)))
	assert.True(t, calls[1].Air, "expected the second forward call to carry the air reading\n")
}

func TestExportAirModes(t *testing.T) {
	cases := []struct {
		desc     string
		air      string
		body     string
		forwards int
		err      error
	}{
		{
			desc:     "auto forwards air when the channel is present",
			air:      exporter.AirAuto,
			body:     validXML,
			forwards: 2,
		},
		{
			desc:     "auto skips air when the channel is absent",
			air:      exporter.AirAuto,
			body:     waterOnlyXML,
			forwards: 1,
		},
		{
			desc:     "unset mode behaves like auto",
			air:      "",
			body:     validXML,
			forwards: 2,
		},
		{
			desc:     "disabled never forwards air",
			air:      exporter.AirDisabled,
			body:     validXML,
			forwards: 1,
		},
		{
			desc:     "enabled demands the air channel",
			air:      exporter.AirEnabled,
			body:     waterOnlyXML,
			forwards: 0,
			err:      sensor.ErrFieldMissing,
		},
	}

	for _, tc := range cases {
		fwd := bmocks.NewForwarder()
		cfg := exporter.Config{}
		cfg.Server.Air = tc.air
		svc := newService(smocks.NewClient(tc.body, nil), fwd, nmocks.NewNotifier(nil), cfg)

		_, err := svc.Export(context.Background())
		if tc.err != nil {
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
		} else {
			assert.Nil(t, err, fmt.Sprintf("%s: unexpected error: %s", tc.desc, err))
		}
		calls := fwd.Calls()
		assert.Len(t, calls, tc.forwards, fmt.Sprintf("%s: expected %d forward calls got %d\n", tc.desc, tc.forwards, len(calls)))
	}
}

func TestExportHalts(t *testing.T) {
	missingValueXML := "<Environment><Water_Temperature><ts>1700000000000</ts></Water_Temperature></Environment>"

	cases := []struct {
		desc string
		body string
		err  error
		want error
	}{
		{
			desc: "sensor unreachable",
			err:  errors.Wrap(sensor.ErrFetch, errors.New("connection refused")),
			want: sensor.ErrFetch,
		},
		{
			desc: "malformed document",
			body: "<Environment><unclosed>",
			want: sensor.ErrParse,
		},
		{
			desc: "water channel absent",
			body: "<Environment></Environment>",
			want: sensor.ErrFieldMissing,
		},
		{
			desc: "water value absent",
			body: missingValueXML,
			want: sensor.ErrFieldMissing,
		},
	}

	for _, tc := range cases {
		notifier := nmocks.NewNotifier(nil)
		svc := newService(smocks.NewClient(tc.body, tc.err), bmocks.NewForwarder(), notifier, exporter.Config{})

		_, err := svc.Export(context.Background())
		assert.True(t, errors.Contains(err, tc.want), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.want, err))

		sent := notifier.Sent()
		require.Len(t, sent, 1, fmt.Sprintf("%s: expected 1 notification got %d", tc.desc, len(sent)))
		assert.Equal(t, recipients, sent[0].To, fmt.Sprintf("%s: expected recipients %v got %v\n", tc.desc, recipients, sent[0].To))
		assert.True(t, strings.Contains(sent[0].Msg, "failed"), fmt.Sprintf("%s: expected failure message got %s\n", tc.desc, sent[0].Msg))
	}
}

func TestExportForwardFailure(t *testing.T) {
	cases := []struct {
		desc   string
		result backend.Result
		err    error
		want   error
		inMsg  string
	}{
		{
			desc:   "backend unreachable",
			result: backend.Result{URL: "https://backend/lake/woog/temperature", NoResponse: true},
			want:   exporter.ErrNoResponse,
			inMsg:  "https://backend/lake/woog/temperature",
		},
		{
			desc:   "backend rejects reading",
			result: backend.Result{URL: "https://backend/lake/woog/temperature", StatusCode: 500, Body: "boom"},
			want:   exporter.ErrForward,
			inMsg:  "500",
		},
		{
			desc:  "gate refuses reading",
			err:   backend.ErrManualApproval,
			want:  backend.ErrManualApproval,
			inMsg: backend.ErrManualApproval.Error(),
		},
	}

	for _, tc := range cases {
		fwd := bmocks.NewForwarder()
		fwd.WaterResult = tc.result
		fwd.WaterErr = tc.err
		notifier := nmocks.NewNotifier(nil)
		svc := newService(smocks.NewClient(validXML, nil), fwd, notifier, exporter.Config{})

		_, err := svc.Export(context.Background())
		assert.True(t, errors.Contains(err, tc.want), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.want, err))

		sent := notifier.Sent()
		require.Len(t, sent, 1, fmt.Sprintf("%s: expected 1 notification got %d", tc.desc, len(sent)))
		assert.True(t, strings.Contains(sent[0].Msg, tc.inMsg), fmt.Sprintf("%s: expected %q in message got %s\n", tc.desc, tc.inMsg, sent[0].Msg))
	}
}

func TestExportAirForwardFailure(t *testing.T) {
	fwd := bmocks.NewForwarder()
	fwd.AirResult = backend.Result{URL: "https://backend/lake/woog/air-temperature", NoResponse: true}
	notifier := nmocks.NewNotifier(nil)
	cfg := exporter.Config{}
	cfg.Server.Air = exporter.AirEnabled
	svc := newService(smocks.NewClient(validXML, nil), fwd, notifier, cfg)

	report, err := svc.Export(context.Background())
	assert.True(t, errors.Contains(err, exporter.ErrNoResponse), fmt.Sprintf("expected %s got %s\n", exporter.ErrNoResponse, err))
	require.Len(t, report.Results, 2, fmt.Sprintf("expected 2 results got %d", len(report.Results)))
	assert.True(t, report.Results[0].Ok(), "expected the water forward to succeed\n")
	assert.False(t, report.Results[1].Ok(), "expected the air forward to fail\n")
	assert.Len(t, notifier.Sent(), 1, "expected 1 notification\n")
}

func TestExportWithoutNotifier(t *testing.T) {
	cfg := exporter.Config{}
	svc := exporter.New(smocks.NewClient("", errors.Wrap(sensor.ErrFetch, nil)), bmocks.NewForwarder(), nil, ulid.NewMock(), cfg, logger.NewMock())

	_, err := svc.Export(context.Background())
	assert.True(t, errors.Contains(err, sensor.ErrFetch), fmt.Sprintf("expected %s got %s\n", sensor.ErrFetch, err))
}

func TestExportWithoutRecipients(t *testing.T) {
	notifier := nmocks.NewNotifier(nil)
	cfg := exporter.Config{}
	svc := exporter.New(smocks.NewClient("not xml at all", nil), bmocks.NewForwarder(), notifier, ulid.NewMock(), cfg, logger.NewMock())

	_, err := svc.Export(context.Background())
	assert.True(t, errors.Contains(err, sensor.ErrParse), fmt.Sprintf("expected %s got %s\n", sensor.ErrParse, err))
	assert.Empty(t, notifier.Sent(), "expected no notifications without recipients\n")
}
