// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package mocks contains test doubles for the sensor package.
package mocks

import (
	"context"

	"github.com/woog-life/temperature-scraper/sensor"
)

var _ sensor.Client = (*Client)(nil)

// Client is a sensor client mock serving a canned document.
type Client struct {
	body string
	err  error
}

// NewClient returns a sensor client mock that serves the given document,
// or fails with the given error.
func NewClient(body string, err error) *Client {
	return &Client{body: body, err: err}
}

func (c *Client) Fetch(_ context.Context) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.body, nil
}
