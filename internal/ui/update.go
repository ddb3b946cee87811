// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the prompt workbench terminal interface.
//
// This file implements the Update loop. Worker results arrive as the
// message types in messages.go; stale results (from a request ID other
// than the current one) are dropped.
package ui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/promptpad/internal/config"
)

// Layout constants, in terminal rows.
const (
	headerHeight = 1
	logHeight    = 5
	statusHeight = 1
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case StreamChunkMsg:
		return m.onStreamChunk(msg)

	case RequestDoneMsg:
		return m.onRequestDone(msg)

	case RequestErrorMsg:
		return m.onRequestError(msg)

	case PDFConvertedMsg:
		return m.onPDFConverted(msg)

	case ConfigReloadedMsg:
		if msg.Config != nil && m.mode != modeSettings {
			m.cfg = msg.Config
			m.modelKey = resolveModelKey(m.cfg.Model)
			m.logf("config reloaded from disk")
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	// Everything else (cursor blink and friends) goes to the focused
	// components.
	return m, m.updateComponents(msg)
}

// =============================================================================
// WORKER RESULT HANDLERS
// =============================================================================

func (m Model) onStreamChunk(msg StreamChunkMsg) (tea.Model, tea.Cmd) {
	if msg.RequestID != m.requestID || !m.busy {
		return m, nil
	}
	if m.answer == "" {
		m.stats.RecordFirstChunk()
		m.logf("first chunk after %.2fs", m.stats.TTFT().Seconds())
	}
	m.answer += msg.Text
	m.setOutput(m.answer, false)
	return m, nil
}

func (m Model) onRequestDone(msg RequestDoneMsg) (tea.Model, tea.Cmd) {
	if msg.RequestID != m.requestID {
		return m, nil
	}
	m.busy = false
	m.stats.Finalize()
	m.answer = msg.Text
	m.setOutput(m.answer, true)
	m.status = "Ready"
	if msg.Streamed {
		m.logf("<- done: %s", m.stats.Format())
	} else {
		m.logf("<- done: total %.2fs", m.stats.Total().Seconds())
	}
	slog.Info("request finished",
		"request_id", msg.RequestID,
		"streamed", msg.Streamed,
		"chars", len(msg.Text),
		"total", m.stats.Total())
	return m, nil
}

func (m Model) onRequestError(msg RequestErrorMsg) (tea.Model, tea.Cmd) {
	if msg.RequestID != m.requestID {
		return m, nil
	}
	m.busy = false
	m.stats.Finalize()
	m.status = "Ready"
	m.logf("error: %v", msg.Err)
	if m.answer == "" {
		m.output.SetContent("request failed: " + msg.Err.Error())
	}
	slog.Error("request failed", "request_id", msg.RequestID, "error", msg.Err)
	return m, nil
}

func (m Model) onPDFConverted(msg PDFConvertedMsg) (tea.Model, tea.Cmd) {
	m.status = "Ready"
	if msg.Err != nil {
		m.logf("pdf %s: %v", msg.Path, msg.Err)
		return m, nil
	}
	m.attached = msg.Doc
	m.logf("attached %s (%d pages)", msg.Doc.Name, msg.Doc.PageCount())
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAttach:
		return m.onAttachKey(msg)
	case modeSettings:
		return m.onSettingsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		return m, m.startRequest()

	case key.Matches(msg, m.keys.NextField):
		if m.focus == focusSystem {
			m.focus = focusUser
			m.systemInput.Blur()
			return m, m.userInput.Focus()
		}
		m.focus = focusSystem
		m.userInput.Blur()
		return m, m.systemInput.Focus()

	case key.Matches(msg, m.keys.NextModel):
		m.cycleModel(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevModel):
		m.cycleModel(-1)
		return m, nil

	case key.Matches(msg, m.keys.ToggleStream):
		m.cfg.UseStream = !m.cfg.UseStream
		m.logf("streaming: %t", m.cfg.UseStream)
		return m, nil

	case key.Matches(msg, m.keys.AttachPDF):
		m.mode = modeAttach
		m.attachInput.SetValue("")
		return m, m.attachInput.Focus()

	case key.Matches(msg, m.keys.ClearAttach):
		if m.attached != nil {
			m.logf("attachment cleared: %s", m.attached.Name)
			m.attached = nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.mode = modeSettings
		m.settings = newSettingsForm(m.cfg)
		return m, nil

	case key.Matches(msg, m.keys.SaveConfig):
		if err := config.Save(m.cfg); err != nil {
			m.logf("save config: %v", err)
		} else {
			m.logf("config saved")
		}
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	return m, m.updateComponents(msg)
}

func (m Model) onAttachKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeEdit
		m.attachInput.Blur()
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.attachInput.Value())
		m.mode = modeEdit
		m.attachInput.Blur()
		if path == "" {
			return m, nil
		}
		m.status = "Converting PDF"
		m.logf("converting %s", path)
		return m, convertCmd(path)
	}
	var cmd tea.Cmd
	m.attachInput, cmd = m.attachInput.Update(msg)
	return m, cmd
}

func (m Model) onSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeEdit
		m.settings = nil
		m.logf("settings discarded")
		return m, nil
	case "up", "shift+tab":
		m.settings.move(-1)
		return m, nil
	case "down", "tab":
		m.settings.move(1)
		return m, nil
	case "enter":
		for _, note := range m.settings.apply(m.cfg) {
			m.logf("%s", note)
		}
		m.modelKey = resolveModelKey(m.cfg.Model)
		if err := config.Save(m.cfg); err != nil {
			m.logf("save config: %v", err)
		} else {
			m.logf("settings saved")
		}
		m.mode = modeEdit
		m.settings = nil
		return m, nil
	}
	return m, m.settings.Update(msg)
}

// =============================================================================
// COMPONENT ROUTING AND LAYOUT
// =============================================================================

// updateComponents forwards a message to whichever text component is
// focused for the current mode.
func (m *Model) updateComponents(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch m.mode {
	case modeAttach:
		m.attachInput, cmd = m.attachInput.Update(msg)
		cmds = append(cmds, cmd)
	case modeSettings:
		if m.settings != nil {
			cmds = append(cmds, m.settings.Update(msg))
		}
	default:
		if m.focus == focusSystem {
			m.systemInput, cmd = m.systemInput.Update(msg)
		} else {
			m.userInput, cmd = m.userInput.Update(msg)
		}
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// resize recomputes component dimensions after a terminal resize.
func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	contentH := m.height - headerHeight - logHeight - statusHeight
	if contentH < 8 {
		contentH = 8
	}
	leftW := m.width / 2
	rightW := m.width - leftW

	// Two bordered editors stacked on the left; border eats two rows and
	// two columns each.
	sysH := contentH / 3
	usrH := contentH - sysH
	m.systemInput.SetWidth(leftW - 2)
	m.systemInput.SetHeight(max(sysH-3, 1))
	m.userInput.SetWidth(leftW - 2)
	m.userInput.SetHeight(max(usrH-3, 1))

	if !m.ready {
		m.output = viewport.New(rightW-2, contentH-2)
		m.ready = true
	} else {
		m.output.Width = rightW - 2
		m.output.Height = contentH - 2
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(rightW-4, 20)),
	)
	if err != nil {
		slog.Warn("markdown renderer unavailable", "error", err)
		m.renderer = nil
		return
	}
	m.renderer = renderer
}
