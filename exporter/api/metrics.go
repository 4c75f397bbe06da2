// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

//go:build !test

package api

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/woog-life/temperature-scraper/exporter"
)

var _ exporter.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     exporter.Service
}

// MetricsMiddleware instruments core service by tracking request count and latency.
func MetricsMiddleware(svc exporter.Service, counter metrics.Counter, latency metrics.Histogram) exporter.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (ms *metricsMiddleware) Export(ctx context.Context) (exporter.Report, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "export").Add(1)
		ms.latency.With("method", "export").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Export(ctx)
}
