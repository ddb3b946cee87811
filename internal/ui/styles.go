// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the prompt workbench terminal interface.
//
// This file defines the lipgloss styles used by the views.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the styled components for the workbench.
type Styles struct {
	// Header
	Title     lipgloss.Style
	ModelInfo lipgloss.Style

	// Panes
	PaneTitle   lipgloss.Style
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style
	Output      lipgloss.Style

	// Log pane
	LogLine   lipgloss.Style
	LogError  lipgloss.Style
	LogTiming lipgloss.Style

	// Status bar
	StatusBar   lipgloss.Style
	StatusBusy  lipgloss.Style
	StatusReady lipgloss.Style
	Hints       lipgloss.Style

	// Settings overlay
	SettingsBox   lipgloss.Style
	SettingsLabel lipgloss.Style
	SettingsFocus lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	var (
		accent = lipgloss.Color("39")  // blue
		dim    = lipgloss.Color("241") // gray
		green  = lipgloss.Color("42")
		red    = lipgloss.Color("203")
		amber  = lipgloss.Color("214")
	)

	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		ModelInfo: lipgloss.NewStyle().Foreground(dim),

		PaneTitle: lipgloss.NewStyle().Bold(true).Foreground(dim),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim),
		FocusedPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent),
		Output: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim),

		LogLine:   lipgloss.NewStyle().Foreground(dim),
		LogError:  lipgloss.NewStyle().Foreground(red),
		LogTiming: lipgloss.NewStyle().Foreground(green),

		StatusBar:   lipgloss.NewStyle().Foreground(dim),
		StatusBusy:  lipgloss.NewStyle().Foreground(amber).Bold(true),
		StatusReady: lipgloss.NewStyle().Foreground(green),
		Hints:       lipgloss.NewStyle().Foreground(dim),

		SettingsBox: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Padding(1, 2),
		SettingsLabel: lipgloss.NewStyle().Foreground(dim).Width(16),
		SettingsFocus: lipgloss.NewStyle().Foreground(accent).Bold(true).Width(16),
	}
}
