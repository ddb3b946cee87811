// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the prompt workbench terminal interface.
//
// This file defines the root Bubble Tea model: two prompt editors on the
// left, the response viewport on the right, a request log pane, and a
// status bar. Requests run on a worker goroutine and report back through
// the message types in messages.go.
package ui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/promptpad/internal/config"
	"github.com/jeranaias/promptpad/internal/llm"
	"github.com/jeranaias/promptpad/internal/pdfimg"
)

// =============================================================================
// MODEL STATE
// =============================================================================

// focusArea identifies which prompt editor receives keystrokes.
type focusArea int

const (
	focusSystem focusArea = iota
	focusUser
)

// uiMode identifies which input surface is active.
type uiMode int

const (
	modeEdit uiMode = iota
	modeAttach
	modeSettings
)

// maxLogLines bounds the in-memory request log.
const maxLogLines = 200

// Model is the root Bubble Tea model for the workbench.
type Model struct {
	cfg    *config.Config
	keys   KeyMap
	styles Styles

	// sender posts messages to the running program from worker goroutines.
	sender func(tea.Msg)

	systemInput textarea.Model
	userInput   textarea.Model
	output      viewport.Model
	attachInput textinput.Model
	settings    *settingsForm
	spin        spinner.Model
	renderer    *glamour.TermRenderer

	width  int
	height int
	focus  focusArea
	mode   uiMode
	ready  bool

	busy      bool
	requestID string
	stats     *llm.Stats
	answer    string
	modelKey  string
	attached  *pdfimg.Document
	logLines  []string
	status    string
}

// New constructs the workbench model. The sender function must deliver
// messages to the running tea.Program; it is called from worker goroutines.
func New(cfg *config.Config, sender func(tea.Msg)) Model {
	sys := textarea.New()
	sys.Placeholder = "System prompt (optional)"
	sys.ShowLineNumbers = false
	sys.CharLimit = 0

	usr := textarea.New()
	usr.Placeholder = "User prompt"
	usr.ShowLineNumbers = false
	usr.CharLimit = 0
	usr.Focus()

	attach := textinput.New()
	attach.Placeholder = "/path/to/document.pdf"

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		cfg:         cfg,
		keys:        DefaultKeyMap(),
		styles:      DefaultStyles(),
		sender:      sender,
		systemInput: sys,
		userInput:   usr,
		attachInput: attach,
		spin:        sp,
		focus:       focusUser,
		modelKey:    resolveModelKey(cfg.Model),
		status:      "Ready",
	}
	if m.modelKey != cfg.Model {
		m.logf("unknown saved model %q, using %s", cfg.Model, m.modelKey)
	}
	return m
}

// Init starts the cursor blink loop.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// =============================================================================
// HELPERS
// =============================================================================

// resolveModelKey maps a persisted model value to a registry key, falling
// back to the default entry when the value matches nothing.
func resolveModelKey(saved string) string {
	for _, key := range llm.ModelKeys() {
		if key == saved {
			return key
		}
		if spec, ok := llm.GetModel(key); ok && spec.Model == saved {
			return key
		}
	}
	return llm.DefaultModelKey
}

// currentModel returns the active model spec.
func (m *Model) currentModel() llm.ModelSpec {
	return llm.ResolveModel(m.modelKey)
}

// cycleModel advances the active model by delta within the sorted key list.
func (m *Model) cycleModel(delta int) {
	keys := llm.ModelKeys()
	if len(keys) == 0 {
		return
	}
	idx := 0
	for i, key := range keys {
		if key == m.modelKey {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(keys)) % len(keys)
	m.modelKey = keys[idx]
	m.cfg.Model = m.modelKey
	m.logf("model: %s", m.currentModel().Name)
}

// logf appends a formatted line to the request log pane.
func (m *Model) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
}

// setOutput replaces the viewport content, rendering markdown when a
// renderer is available and the response format is plain text.
func (m *Model) setOutput(text string, final bool) {
	content := text
	if final && m.renderer != nil && m.cfg.ResponseFormat != string(llm.FormatJSON) {
		if rendered, err := m.renderer.Render(text); err == nil {
			content = rendered
		} else {
			slog.Warn("markdown render failed", "error", err)
		}
	}
	m.output.SetContent(content)
	m.output.GotoBottom()
}
