// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package smtp provides an operator notifier delivering failure
// messages by e-mail.
package smtp

import (
	"context"
	"fmt"

	"github.com/woog-life/temperature-scraper/internal/email"
	"github.com/woog-life/temperature-scraper/notifiers"
	"github.com/woog-life/temperature-scraper/pkg/errors"
)

const subject = "Temperature scraper run failed"

var _ notifiers.Notifier = (*notifier)(nil)

type notifier struct {
	agent *email.Agent
}

// New instantiates SMTP message notifier.
func New(agent *email.Agent) notifiers.Notifier {
	return &notifier{agent: agent}
}

func (n *notifier) Notify(_ context.Context, to []string, msg string) error {
	for _, recipient := range to {
		content := fmt.Sprintf("%s\n", msg)
		if err := n.agent.Send([]string{recipient}, subject, content); err != nil {
			return errors.Wrap(notifiers.ErrNotify, err)
		}
	}

	return nil
}
