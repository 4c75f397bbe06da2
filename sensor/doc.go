// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

// Package sensor retrieves the raw XML document published by the lake
// monitoring station and turns it into validated temperature readings.
package sensor
