// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the prompt workbench terminal interface.
//
// This file builds requests from the editor state and runs them on a worker
// goroutine. Only one request may be in flight; startRequest refuses to
// start another while busy. Streamed chunks are posted back through the
// sender function so the UI loop applies them on its own goroutine.
package ui

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/promptpad/internal/llm"
	"github.com/jeranaias/promptpad/internal/pdfimg"
)

// =============================================================================
// REQUEST CONSTRUCTION
// =============================================================================

// buildMessages assembles the request messages from the prompt editors and
// the attached document, if any.
func (m *Model) buildMessages() []llm.Message {
	var messages []llm.Message
	if sys := strings.TrimSpace(m.systemInput.Value()); sys != "" {
		messages = append(messages, llm.NewSystemMessage(sys))
	}
	user := strings.TrimSpace(m.userInput.Value())
	if m.attached != nil && m.attached.PageCount() > 0 {
		messages = append(messages, llm.NewUserImageMessage(user, m.attached.Pages))
	} else {
		messages = append(messages, llm.NewUserMessage(user))
	}
	return messages
}

// buildOptions derives per-request options from the live config.
func (m *Model) buildOptions() llm.Options {
	return llm.Options{
		Timeout:        m.cfg.RequestTimeout(),
		Temperature:    llm.ParseTemperature(m.cfg.Temperature),
		ResponseFormat: llm.ResponseFormat(m.cfg.ResponseFormat),
		Stream:         m.cfg.UseStream,
	}
}

// startRequest validates editor state and kicks off the worker command.
// It returns nil when nothing was started.
func (m *Model) startRequest() tea.Cmd {
	if m.busy {
		m.logf("request already in flight")
		return nil
	}
	if strings.TrimSpace(m.userInput.Value()) == "" {
		m.logf("user prompt is empty")
		return nil
	}

	client := llm.NewClient(m.cfg.APIURL, m.cfg.Application).
		WithAPIKey(m.cfg.APIKey)
	if !client.IsConfigured() {
		m.logf("no api_url configured, open settings with C-g")
		return nil
	}

	spec := m.currentModel()
	opts := m.buildOptions()
	messages := m.buildMessages()

	m.busy = true
	m.requestID = uuid.NewString()
	m.stats = llm.NewStats()
	m.answer = ""
	m.output.SetContent("")
	m.status = "Waiting for response"
	if opts.Stream {
		m.status = "Streaming"
	}
	m.logf("-> %s (%s)", spec.Name, spec.Model)
	slog.Info("request started",
		"request_id", m.requestID,
		"model", spec.Model,
		"provider", spec.Provider,
		"stream", opts.Stream,
		"pages", pageCount(m.attached))

	return tea.Batch(m.spin.Tick, m.sendCmd(m.requestID, client, messages, spec, opts))
}

func pageCount(doc *pdfimg.Document) int {
	if doc == nil {
		return 0
	}
	return doc.PageCount()
}

// =============================================================================
// WORKER COMMANDS
// =============================================================================

// sendCmd returns the command that performs the HTTP request. It runs on a
// goroutine owned by Bubble Tea; intermediate chunks go through the sender,
// the final result is returned as the command's message.
func (m *Model) sendCmd(id string, client *llm.Client, messages []llm.Message, spec llm.ModelSpec, opts llm.Options) tea.Cmd {
	send := m.sender
	return func() tea.Msg {
		ctx := context.Background()
		if opts.Stream {
			total, err := client.SendStream(ctx, messages, spec, opts, func(chunk string) {
				send(StreamChunkMsg{RequestID: id, Text: chunk})
			})
			if err != nil {
				return RequestErrorMsg{RequestID: id, Err: err}
			}
			return RequestDoneMsg{RequestID: id, Text: total, Streamed: true}
		}
		total, err := client.Send(ctx, messages, spec, opts)
		if err != nil {
			return RequestErrorMsg{RequestID: id, Err: err}
		}
		return RequestDoneMsg{RequestID: id, Text: total}
	}
}

// convertCmd rasterizes a PDF off the UI goroutine.
func convertCmd(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := pdfimg.ConvertFile(path)
		return PDFConvertedMsg{Path: path, Doc: doc, Err: err}
	}
}
