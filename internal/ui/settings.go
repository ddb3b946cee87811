// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the prompt workbench terminal interface.
//
// This file implements the settings overlay: a small form over the flat
// config keys. Enter applies and persists, Esc discards. Invalid entries
// are logged and the previous value is kept; they never abort the save.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/promptpad/internal/config"
	"github.com/jeranaias/promptpad/internal/llm"
)

// =============================================================================
// SETTINGS FORM
// =============================================================================

// Field indices within the form, in display order.
const (
	fieldAPIURL = iota
	fieldApplication
	fieldAPIKey
	fieldTimeout
	fieldTemperature
	fieldFormat
	fieldStream
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"api_url",
	"application",
	"api_key",
	"timeout",
	"temperature",
	"response_format",
	"use_stream",
}

// settingsForm edits a copy of the config values; nothing is written until
// apply is called.
type settingsForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

// newSettingsForm seeds the form from the current config.
func newSettingsForm(cfg *config.Config) *settingsForm {
	f := &settingsForm{}
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 0
		ti.Width = 48
		f.inputs[i] = ti
	}
	f.inputs[fieldAPIKey].EchoMode = textinput.EchoPassword

	f.inputs[fieldAPIURL].SetValue(cfg.APIURL)
	f.inputs[fieldApplication].SetValue(cfg.Application)
	f.inputs[fieldAPIKey].SetValue(cfg.APIKey)
	f.inputs[fieldTimeout].SetValue(strconv.Itoa(cfg.Timeout))
	f.inputs[fieldTemperature].SetValue(cfg.Temperature)
	f.inputs[fieldFormat].SetValue(cfg.ResponseFormat)
	f.inputs[fieldStream].SetValue(strconv.FormatBool(cfg.UseStream))

	f.inputs[fieldAPIURL].Focus()
	return f
}

// move shifts focus by delta, wrapping around the field list.
func (f *settingsForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

// Update routes a message to the focused field.
func (f *settingsForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// apply validates the form and writes accepted values into cfg.
// Each rejected field produces one log line; accepted fields still apply.
func (f *settingsForm) apply(cfg *config.Config) []string {
	var notes []string

	cfg.APIURL = strings.TrimSpace(f.inputs[fieldAPIURL].Value())
	cfg.Application = strings.TrimSpace(f.inputs[fieldApplication].Value())
	cfg.APIKey = strings.TrimSpace(f.inputs[fieldAPIKey].Value())

	if raw := strings.TrimSpace(f.inputs[fieldTimeout].Value()); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.Timeout = n
		} else {
			notes = append(notes, fmt.Sprintf("invalid timeout %q, keeping %d", raw, cfg.Timeout))
		}
	}

	// Temperature is stored raw; an unparsable value is dropped at request
	// time with a warning, not here.
	cfg.Temperature = strings.TrimSpace(f.inputs[fieldTemperature].Value())

	switch format := strings.TrimSpace(f.inputs[fieldFormat].Value()); format {
	case string(llm.FormatText), string(llm.FormatJSON):
		cfg.ResponseFormat = format
	default:
		notes = append(notes, fmt.Sprintf("invalid response_format %q, keeping %q", format, cfg.ResponseFormat))
	}

	if raw := strings.TrimSpace(f.inputs[fieldStream].Value()); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			cfg.UseStream = b
		} else {
			notes = append(notes, fmt.Sprintf("invalid use_stream %q, keeping %t", raw, cfg.UseStream))
		}
	}

	return notes
}

// View renders the form body.
func (f *settingsForm) View(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Settings"))
	b.WriteString("\n\n")
	for i, ti := range f.inputs {
		label := st.SettingsLabel
		if i == f.focus {
			label = st.SettingsFocus
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(" ")
		b.WriteString(ti.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(st.Hints.Render("Up/Down move · Enter save · Esc cancel"))
	return b.String()
}
