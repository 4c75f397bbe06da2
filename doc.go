// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package scraper contains cross-cutting primitives shared by the
// temperature scraper services: environment lookup helpers and the
// identity provider abstraction used to tag every run.
package scraper
