// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// =============================================================================
// STREAMING TRANSPORT
// =============================================================================

// streamChunk is a single decoded data payload from the event stream.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// content returns the delta text of the first choice, if any.
func (c *streamChunk) content() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Content
	}
	return ""
}

// SendStream issues a single streaming request. Each non-empty content delta
// is appended to the running total and forwarded verbatim to onChunk, which
// is invoked synchronously on the goroutine reading the stream — callers
// bridge to their own event loop if they need to.
//
// The body is read as newline-delimited SSE lines: "event:" lines are
// ignored, "data:" payloads are trimmed and decoded, a payload of "[DONE]"
// ends the stream successfully (early termination is not an error), and a
// payload that fails to decode is skipped with a warning rather than
// aborting. The accumulated text is returned after the stream ends.
func (c *Client) SendStream(ctx context.Context, messages []Message, model ModelSpec, opts Options, onChunk func(string)) (string, error) {
	resp, err := c.post(ctx, buildEnvelope(c.application, messages, model, opts, true), opts.Timeout)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := readResponse(resp.Body)
		return "", &RequestError{Status: resp.StatusCode, Body: string(body)}
	}

	var total strings.Builder
	reader := bufio.NewReader(resp.Body)

	for {
		line, err := reader.ReadString('\n')

		// Process whatever arrived before EOF or a read error.
		if trimmed := strings.TrimRight(line, "\r\n"); trimmed != "" {
			done, handleErr := handleLine(trimmed, &total, onChunk)
			if handleErr != nil {
				return total.String(), handleErr
			}
			if done {
				return total.String(), nil
			}
		}

		if err == io.EOF {
			return total.String(), nil
		}
		if err != nil {
			return total.String(), fmt.Errorf("stream read failed: %w", err)
		}
	}
}

// handleLine processes one SSE line. It reports done=true when the [DONE]
// sentinel is seen.
func handleLine(line string, total *strings.Builder, onChunk func(string)) (done bool, err error) {
	if strings.HasPrefix(line, "event:") {
		return false, nil
	}
	if !strings.HasPrefix(line, "data:") {
		return false, nil
	}

	payload := strings.TrimSpace(line[len("data:"):])
	if payload == "[DONE]" {
		return true, nil
	}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		slog.Warn("skipping malformed stream frame", "payload", payload, "error", err)
		return false, nil
	}

	// Role-only or empty frames produce no callback and no accumulation.
	if delta := chunk.content(); delta != "" {
		total.WriteString(delta)
		if onChunk != nil {
			onChunk(delta)
		}
	}
	return false, nil
}
