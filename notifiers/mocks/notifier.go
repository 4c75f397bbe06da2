// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package mocks contains test doubles for the notifiers package.
package mocks

import (
	"context"
	"sync"

	"github.com/woog-life/temperature-scraper/notifiers"
)

var _ notifiers.Notifier = (*Notifier)(nil)

// Notification records a single delivered notification.
type Notification struct {
	To  []string
	Msg string
}

// Notifier is a recording notifier mock.
type Notifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

// NewNotifier returns a recording notifier mock that fails with the
// given error, if any.
func NewNotifier(err error) *Notifier {
	return &Notifier{err: err}
}

func (n *Notifier) Notify(_ context.Context, to []string, msg string) error {
	if n.err != nil {
		return n.err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, Notification{To: to, Msg: msg})
	return nil
}

// Sent returns the notifications delivered so far.
func (n *Notifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.sent))
	copy(out, n.sent)
	return out
}
