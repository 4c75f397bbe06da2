// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

package ulid

import (
	"fmt"
	"sync"

	scraper "github.com/woog-life/temperature-scraper"
)

// Prefix represents the prefix used to generate ULID mocks.
const Prefix = "01HRUN0000000000"

var _ scraper.IDProvider = (*ulidProviderMock)(nil)

type ulidProviderMock struct {
	mu      sync.Mutex
	counter int
}

func (up *ulidProviderMock) ID() (string, error) {
	up.mu.Lock()
	defer up.mu.Unlock()

	up.counter++
	return fmt.Sprintf("%s%010d", Prefix, up.counter), nil
}

// NewMock creates a deterministic ULID provider for tests.
func NewMock() scraper.IDProvider {
	return &ulidProviderMock{}
}
