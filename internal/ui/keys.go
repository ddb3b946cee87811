// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the prompt workbench terminal interface.
//
// This file defines the keyboard bindings. Control-key chords are used for
// every action so plain typing always reaches the focused text area.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings for the workbench.
type KeyMap struct {
	Send         key.Binding
	NextField    key.Binding
	NextModel    key.Binding
	PrevModel    key.Binding
	ToggleStream key.Binding
	AttachPDF    key.Binding
	ClearAttach  key.Binding
	Settings     key.Binding
	SaveConfig   key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	Cancel       key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "send"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "switch field"),
		),
		NextModel: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "next model"),
		),
		PrevModel: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("C-b", "prev model"),
		),
		ToggleStream: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "toggle streaming"),
		),
		AttachPDF: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "attach PDF"),
		),
		ClearAttach: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "clear attachment"),
		),
		Settings: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "settings"),
		),
		SaveConfig: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "save config"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll output up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll output down"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}
