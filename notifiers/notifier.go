// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package notifiers defines the operator alerting API used when a
// scraper run fails, together with its delivery channel implementations.
package notifiers

import (
	"context"

	"github.com/woog-life/temperature-scraper/pkg/errors"
)

// ErrNotify wraps sending notification errors.
var ErrNotify = errors.New("error sending notification")

// Notifier represents an API for sending notification.
type Notifier interface {
	// Notify sends the failure message to the provided list of
	// recipients, one message per recipient, sequentially.
	Notify(ctx context.Context, to []string, msg string) error
}
