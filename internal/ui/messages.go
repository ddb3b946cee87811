// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the prompt workbench terminal interface.
//
// This file defines the Bubble Tea message types exchanged between the
// request worker goroutine and the UI event loop. Worker goroutines never
// touch the model directly: they post these messages through the program's
// Send function and the Update loop applies them on the UI goroutine.
package ui

import (
	"github.com/jeranaias/promptpad/internal/config"
	"github.com/jeranaias/promptpad/internal/pdfimg"
)

// =============================================================================
// REQUEST LIFECYCLE MESSAGES
// =============================================================================

// StreamChunkMsg delivers one streamed content delta.
// RequestID ties the chunk to the request that produced it; chunks from
// superseded requests are discarded by the Update loop.
type StreamChunkMsg struct {
	RequestID string
	Text      string
}

// RequestDoneMsg signals that a request finished successfully.
// For non-streaming requests Text carries the full response body; for
// streaming requests it carries the accumulated text (already delivered
// chunk by chunk) so the final render works from one canonical string.
type RequestDoneMsg struct {
	RequestID string
	Text      string
	Streamed  bool
}

// RequestErrorMsg signals that a request failed.
type RequestErrorMsg struct {
	RequestID string
	Err       error
}

// =============================================================================
// ATTACHMENT MESSAGES
// =============================================================================

// PDFConvertedMsg carries the result of a background PDF conversion.
type PDFConvertedMsg struct {
	Path string
	Doc  *pdfimg.Document
	Err  error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg is posted by the file watcher when the config file
// changes on disk outside the running program.
type ConfigReloadedMsg struct {
	Config *config.Config
}
