// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

package sensor

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/woog-life/temperature-scraper/pkg/errors"
)

// ErrFetch indicates a failure retrieving the sensor document.
var ErrFetch = errors.New("failed to fetch sensor document")

// Client retrieves the raw sensor document.
type Client interface {
	// Fetch performs a GET request against the configured sensor
	// endpoint and returns the raw response body.
	Fetch(ctx context.Context) (string, error)
}

// Config contains sensor endpoint settings.
type Config struct {
	URL             string
	Timeout         time.Duration
	TLSVerification bool
}

var _ Client = (*client)(nil)

type client struct {
	url  string
	http *http.Client
}

// NewClient returns a sensor endpoint client with an explicit timeout.
func NewClient(cfg Config) Client {
	return &client{
		url: cfg.URL,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (c *client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", errors.Wrap(ErrFetch, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(ErrFetch, err)
	}
	defer resp.Body.Close()

	if err := errors.CheckError(resp, http.StatusOK); err != nil {
		return "", errors.Wrap(ErrFetch, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(ErrFetch, err)
	}

	return string(body), nil
}
