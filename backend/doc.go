// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package backend forwards validated temperature readings to the
// woog.life backend API.
package backend
