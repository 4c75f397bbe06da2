// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package telegram provides an operator notifier backed by the Telegram
// bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/woog-life/temperature-scraper/notifiers"
	"github.com/woog-life/temperature-scraper/pkg/errors"
)

const defBaseURL = "https://api.telegram.org"

var _ notifiers.Notifier = (*notifier)(nil)

// Config contains Telegram bot settings.
type Config struct {
	// BaseURL overrides the bot API host, used in tests.
	BaseURL string
	Token   string
	Timeout time.Duration
}

type notifier struct {
	conf Config
	http *http.Client
}

// New instantiates a Telegram message notifier.
func New(conf Config) notifiers.Notifier {
	if conf.BaseURL == "" {
		conf.BaseURL = defBaseURL
	}
	return &notifier{
		conf: conf,
		http: &http.Client{Timeout: conf.Timeout},
	}
}

type sendMessageReq struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func (n *notifier) Notify(ctx context.Context, to []string, msg string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.conf.BaseURL, n.conf.Token)

	for _, chatID := range to {
		data, err := json.Marshal(sendMessageReq{ChatID: chatID, Text: msg})
		if err != nil {
			return errors.Wrap(notifiers.ErrNotify, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return errors.Wrap(notifiers.ErrNotify, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.http.Do(req)
		if err != nil {
			return errors.Wrap(notifiers.ErrNotify, err)
		}
		err = errors.CheckError(resp, http.StatusOK)
		resp.Body.Close()
		if err != nil {
			return errors.Wrap(notifiers.ErrNotify, err)
		}
	}

	return nil
}
