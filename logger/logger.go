// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package logger provides a leveled JSON logger shared by all scraper
// components. A single instance is created at process start and injected
// into every collaborator.
package logger

import (
	"io"

	"github.com/go-kit/log"
)

// Logger specifies logging API.
type Logger interface {
	// Debug logs message on debug level.
	Debug(msg string)

	// Info logs message on info level.
	Info(msg string)

	// Warn logs message on warn level.
	Warn(msg string)

	// Error logs message on error level.
	Error(msg string)
}

var _ Logger = (*logger)(nil)

type logger struct {
	kitLogger log.Logger
	level     Level
}

// New returns a wrapped go kit logger writing JSON log lines to out.
// Messages below the given level are dropped.
func New(out io.Writer, levelText string) (Logger, error) {
	var level Level
	if err := level.UnmarshalText(levelText); err != nil {
		return nil, err
	}

	l := log.NewJSONLogger(log.NewSyncWriter(out))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	return &logger{l, level}, nil
}

func (l logger) Debug(msg string) {
	if Debug.isAllowed(l.level) {
		_ = l.kitLogger.Log("level", Debug.String(), "message", msg)
	}
}

func (l logger) Info(msg string) {
	if Info.isAllowed(l.level) {
		_ = l.kitLogger.Log("level", Info.String(), "message", msg)
	}
}

func (l logger) Warn(msg string) {
	if Warn.isAllowed(l.level) {
		_ = l.kitLogger.Log("level", Warn.String(), "message", msg)
	}
}

func (l logger) Error(msg string) {
	if Error.isAllowed(l.level) {
		_ = l.kitLogger.Log("level", Error.String(), "message", msg)
	}
}
