// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"log/slog"
	"strconv"
	"time"
)

// =============================================================================
// REQUEST OPTIONS
// =============================================================================

// ResponseFormat selects the shape the provider should return.
type ResponseFormat string

const (
	// FormatText leaves the response format at the provider default and is
	// omitted from the envelope.
	FormatText ResponseFormat = "text"

	// FormatJSON asks the provider for a JSON object response.
	FormatJSON ResponseFormat = "json_object"
)

// Options are per-request settings. The zero value is usable: no temperature,
// text format, no streaming, and the client's default timeout.
type Options struct {
	// Timeout is the single end-to-end HTTP timeout for the request,
	// including reading the full (or streamed) body.
	Timeout time.Duration

	// Temperature is the sampling temperature in [0, 2]. Nil means the
	// provider default.
	Temperature *float64

	// ResponseFormat is "text" or "json_object".
	ResponseFormat ResponseFormat

	// Stream selects the streaming transport.
	Stream bool
}

// ParseTemperature parses a user-entered temperature string. A value that is
// not numeric or falls outside [0, 2] is logged and dropped so the provider
// default applies; it is never an error.
func ParseTemperature(s string) *float64 {
	if s == "" {
		return nil
	}
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		slog.Warn("temperature is not numeric, using provider default", "value", s)
		return nil
	}
	if t < 0 || t > 2 {
		slog.Warn("temperature out of range [0,2], using provider default", "value", t)
		return nil
	}
	return &t
}
