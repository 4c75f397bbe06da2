// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

//go:build !test

package api

import (
	"context"
	"fmt"
	"time"

	"github.com/woog-life/temperature-scraper/exporter"
	log "github.com/woog-life/temperature-scraper/logger"
)

var _ exporter.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger log.Logger
	svc    exporter.Service
}

// NewLoggingMiddleware adds logging facilities to the core service.
func NewLoggingMiddleware(svc exporter.Service, logger log.Logger) exporter.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) Export(ctx context.Context) (report exporter.Report, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method export for run %s took %s to complete", report.RunID, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.Export(ctx)
}
