// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the prompt workbench terminal interface.
//
// This file renders the workbench: header, prompt editors, response
// viewport, request log, and status bar. The settings overlay replaces
// the main area while it is open.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}
	if m.mode == modeSettings && m.settings != nil {
		return m.viewSettings()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewContent())
	b.WriteString("\n")
	b.WriteString(m.viewLog())
	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	return b.String()
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) viewHeader() string {
	spec := m.currentModel()
	title := m.styles.Title.Render("promptpad")
	info := fmt.Sprintf(" %s · %s", spec.Name, spec.Provider)
	if m.cfg.UseStream {
		info += " · stream"
	}
	if m.attached != nil {
		info += fmt.Sprintf(" · [%s, %d pages]", m.attached.Name, m.attached.PageCount())
	}
	info = runewidth.Truncate(info, max(m.width-lipgloss.Width(title), 0), "…")
	return title + m.styles.ModelInfo.Render(info)
}

func (m Model) viewContent() string {
	sysStyle := m.styles.Pane
	usrStyle := m.styles.Pane
	if m.focus == focusSystem {
		sysStyle = m.styles.FocusedPane
	} else {
		usrStyle = m.styles.FocusedPane
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.PaneTitle.Render("System"),
		sysStyle.Render(m.systemInput.View()),
		m.styles.PaneTitle.Render("Prompt"),
		usrStyle.Render(m.userInput.View()),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.PaneTitle.Render("Response"),
		m.styles.Output.Render(m.output.View()),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) viewLog() string {
	visible := logHeight - 1
	lines := m.logLines
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	var b strings.Builder
	b.WriteString(m.styles.PaneTitle.Render("Log"))
	for _, line := range lines {
		b.WriteString("\n")
		style := m.styles.LogLine
		switch {
		case strings.HasPrefix(line, "error:"):
			style = m.styles.LogError
		case strings.HasPrefix(line, "<- done"), strings.HasPrefix(line, "first chunk"):
			style = m.styles.LogTiming
		}
		b.WriteString(style.Render(runewidth.Truncate(line, max(m.width, 1), "…")))
	}
	return b.String()
}

func (m Model) viewStatus() string {
	if m.mode == modeAttach {
		return "Attach PDF: " + m.attachInput.View()
	}

	var left string
	if m.busy {
		left = m.spin.View() + m.styles.StatusBusy.Render(m.status)
	} else {
		left = m.styles.StatusReady.Render(m.status)
	}

	hints := "C-s send · Tab field · C-n model · C-t stream · C-p pdf · C-g settings · C-c quit"
	hints = runewidth.Truncate("  "+hints, max(m.width-lipgloss.Width(left), 0), "…")
	return left + m.styles.Hints.Render(hints)
}

func (m Model) viewSettings() string {
	box := m.styles.SettingsBox.Render(m.settings.View(m.styles))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
