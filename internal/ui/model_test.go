// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/promptpad/internal/config"
	"github.com/jeranaias/promptpad/internal/llm"
	"github.com/jeranaias/promptpad/internal/pdfimg"
)

// newTestModel builds a sized model with a no-op sender.
func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(config.Default(), func(tea.Msg) {})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func lastLog(m Model) string {
	if len(m.logLines) == 0 {
		return ""
	}
	return m.logLines[len(m.logLines)-1]
}

// =============================================================================
// STREAM MESSAGE HANDLING
// =============================================================================

func TestUpdate_StreamChunksAccumulate(t *testing.T) {
	m := newTestModel(t)
	m.busy = true
	m.requestID = "req-1"
	m.stats = llm.NewStats()

	next, _ := m.Update(StreamChunkMsg{RequestID: "req-1", Text: "He"})
	m = next.(Model)
	next, _ = m.Update(StreamChunkMsg{RequestID: "req-1", Text: "llo"})
	m = next.(Model)

	assert.Equal(t, "Hello", m.answer)
	assert.False(t, m.stats.TTFT() < 0)
}

func TestUpdate_StaleChunkIsDropped(t *testing.T) {
	m := newTestModel(t)
	m.busy = true
	m.requestID = "req-2"
	m.stats = llm.NewStats()

	next, _ := m.Update(StreamChunkMsg{RequestID: "req-1", Text: "old"})
	m = next.(Model)

	assert.Empty(t, m.answer)
}

func TestUpdate_RequestDoneClearsBusy(t *testing.T) {
	m := newTestModel(t)
	m.busy = true
	m.requestID = "req-1"
	m.stats = llm.NewStats()

	next, _ := m.Update(RequestDoneMsg{RequestID: "req-1", Text: "final", Streamed: true})
	m = next.(Model)

	assert.False(t, m.busy)
	assert.Equal(t, "final", m.answer)
	assert.Equal(t, "Ready", m.status)
	assert.Contains(t, lastLog(m), "done")
}

func TestUpdate_RequestErrorClearsBusy(t *testing.T) {
	m := newTestModel(t)
	m.busy = true
	m.requestID = "req-1"
	m.stats = llm.NewStats()

	next, _ := m.Update(RequestErrorMsg{RequestID: "req-1", Err: errors.New("boom")})
	m = next.(Model)

	assert.False(t, m.busy)
	assert.Contains(t, lastLog(m), "boom")
}

func TestUpdate_StaleDoneIsDropped(t *testing.T) {
	m := newTestModel(t)
	m.busy = true
	m.requestID = "req-2"
	m.stats = llm.NewStats()

	next, _ := m.Update(RequestDoneMsg{RequestID: "req-1", Text: "old"})
	m = next.(Model)

	assert.True(t, m.busy)
	assert.Empty(t, m.answer)
}

// =============================================================================
// SEND GATING
// =============================================================================

func TestStartRequest_RefusedWhileBusy(t *testing.T) {
	m := newTestModel(t)
	m.cfg.APIURL = "http://localhost:9"
	m.userInput.SetValue("hi")
	m.busy = true

	cmd := m.startRequest()

	assert.Nil(t, cmd)
	assert.Contains(t, lastLog(m), "in flight")
}

func TestStartRequest_RefusedWithoutPrompt(t *testing.T) {
	m := newTestModel(t)
	m.cfg.APIURL = "http://localhost:9"

	cmd := m.startRequest()

	assert.Nil(t, cmd)
	assert.False(t, m.busy)
}

func TestStartRequest_RefusedWithoutEndpoint(t *testing.T) {
	m := newTestModel(t)
	m.cfg.APIURL = ""
	m.userInput.SetValue("hi")

	cmd := m.startRequest()

	assert.Nil(t, cmd)
	assert.False(t, m.busy)
}

func TestStartRequest_SetsBusyAndRequestID(t *testing.T) {
	m := newTestModel(t)
	m.cfg.APIURL = "http://localhost:9"
	m.userInput.SetValue("hi")

	cmd := m.startRequest()

	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.NotEmpty(t, m.requestID)
	assert.NotNil(t, m.stats)
}

// =============================================================================
// MESSAGE CONSTRUCTION
// =============================================================================

func TestBuildMessages_TextOnly(t *testing.T) {
	m := newTestModel(t)
	m.systemInput.SetValue("be brief")
	m.userInput.SetValue("hello")

	msgs := m.buildMessages()

	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, llm.TextContent{Text: "be brief"}, msgs[0].Content)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
}

func TestBuildMessages_EmptySystemIsOmitted(t *testing.T) {
	m := newTestModel(t)
	m.userInput.SetValue("hello")

	msgs := m.buildMessages()

	require.Len(t, msgs, 1)
	assert.Equal(t, llm.RoleUser, msgs[0].Role)
}

func TestBuildMessages_AttachmentBecomesParts(t *testing.T) {
	m := newTestModel(t)
	m.userInput.SetValue("describe this")
	m.attached = &pdfimg.Document{Name: "doc.pdf", Pages: []string{"aaaa", "bbbb"}}

	msgs := m.buildMessages()

	require.Len(t, msgs, 1)
	parts, ok := msgs[0].Content.(llm.PartsContent)
	require.True(t, ok)
	require.Len(t, parts.Parts, 3) // text + one part per page
	assert.Equal(t, "text", parts.Parts[0].Type)
	assert.Equal(t, "image_url", parts.Parts[1].Type)
}

// =============================================================================
// MODEL SELECTION
// =============================================================================

func TestResolveModelKey_UnknownFallsBackToDefault(t *testing.T) {
	assert.Equal(t, llm.DefaultModelKey, resolveModelKey("no-such-model"))
}

func TestResolveModelKey_AcceptsKeyAndIdentifier(t *testing.T) {
	spec := llm.ResolveModel(llm.DefaultModelKey)
	assert.Equal(t, llm.DefaultModelKey, resolveModelKey(llm.DefaultModelKey))
	assert.Equal(t, llm.DefaultModelKey, resolveModelKey(spec.Model))
}

func TestCycleModel_WrapsAround(t *testing.T) {
	m := newTestModel(t)
	keys := llm.ModelKeys()
	require.NotEmpty(t, keys)

	m.modelKey = keys[len(keys)-1]
	m.cycleModel(1)
	assert.Equal(t, keys[0], m.modelKey)

	m.cycleModel(-1)
	assert.Equal(t, keys[len(keys)-1], m.modelKey)
	assert.Equal(t, m.modelKey, m.cfg.Model)
}

// =============================================================================
// SETTINGS FORM
// =============================================================================

func TestSettingsApply_ValidValues(t *testing.T) {
	cfg := config.Default()
	f := newSettingsForm(cfg)
	f.inputs[fieldAPIURL].SetValue("http://example.com/v1/chat")
	f.inputs[fieldTimeout].SetValue("120")
	f.inputs[fieldFormat].SetValue("json_object")
	f.inputs[fieldStream].SetValue("false")

	notes := f.apply(cfg)

	assert.Empty(t, notes)
	assert.Equal(t, "http://example.com/v1/chat", cfg.APIURL)
	assert.Equal(t, 120, cfg.Timeout)
	assert.Equal(t, "json_object", cfg.ResponseFormat)
	assert.False(t, cfg.UseStream)
}

func TestSettingsApply_InvalidValuesKeepOld(t *testing.T) {
	cfg := config.Default()
	oldTimeout := cfg.Timeout
	oldFormat := cfg.ResponseFormat
	f := newSettingsForm(cfg)
	f.inputs[fieldTimeout].SetValue("soon")
	f.inputs[fieldFormat].SetValue("xml")
	f.inputs[fieldStream].SetValue("maybe")

	notes := f.apply(cfg)

	assert.Len(t, notes, 3)
	assert.Equal(t, oldTimeout, cfg.Timeout)
	assert.Equal(t, oldFormat, cfg.ResponseFormat)
	assert.True(t, cfg.UseStream)
}

func TestSettingsApply_RawTemperatureIsKept(t *testing.T) {
	cfg := config.Default()
	f := newSettingsForm(cfg)
	f.inputs[fieldTemperature].SetValue("not-a-number")

	notes := f.apply(cfg)

	assert.Empty(t, notes)
	assert.Equal(t, "not-a-number", cfg.Temperature)
	assert.Nil(t, llm.ParseTemperature(cfg.Temperature))
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func TestUpdate_ConfigReloadSwapsConfig(t *testing.T) {
	m := newTestModel(t)
	fresh := config.Default()
	fresh.Model = "bogus"

	next, _ := m.Update(ConfigReloadedMsg{Config: fresh})
	m = next.(Model)

	assert.Same(t, fresh, m.cfg)
	assert.Equal(t, llm.DefaultModelKey, m.modelKey)
	assert.Contains(t, strings.Join(m.logLines, "\n"), "reloaded")
}

func TestUpdate_ConfigReloadIgnoredWhileEditingSettings(t *testing.T) {
	m := newTestModel(t)
	old := m.cfg
	m.mode = modeSettings
	m.settings = newSettingsForm(old)

	next, _ := m.Update(ConfigReloadedMsg{Config: config.Default()})
	m = next.(Model)

	assert.Same(t, old, m.cfg)
}
