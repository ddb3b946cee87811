// promptpad - A terminal workbench for exercising a chat-completion API.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/promptpad/internal/config"
	"github.com/jeranaias/promptpad/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async message delivery
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

// sendToProgram posts a message to the running program. Safe to call from
// any goroutine, including before the program starts (messages are dropped).
func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("promptpad %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	logClose, err := setupLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	} else {
		defer logClose()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	slog.Info("starting", "version", Version, "stream", cfg.UseStream, "model", cfg.Model)

	m := ui.New(cfg, sendToProgram)
	p := tea.NewProgram(m, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	stopWatcher := watchConfig()
	defer stopWatcher()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running promptpad: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// LOGGING
// =============================================================================

// setupLogging routes slog to a file in the config directory. The terminal
// belongs to the TUI, so nothing is ever written to stdout or stderr after
// startup.
func setupLogging() (func(), error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "promptpad.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
	return func() { _ = f.Close() }, nil
}

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// watchConfig reloads the config file when it changes on disk and posts the
// fresh copy to the UI. Editors that replace the file (rename) recreate the
// watch on the parent directory, so the directory is watched instead of the
// file itself.
func watchConfig() func() {
	path, err := config.Path()
	if err != nil {
		slog.Warn("config watch disabled", "error", err)
		return func() {}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("config watch disabled", "error", err)
		return func() {}
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		slog.Warn("config watch disabled", "error", err)
		_ = watcher.Close()
		return func() {}
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				cfg, err := config.Load()
				if err != nil {
					slog.Warn("config reload failed", "error", err)
					continue
				}
				slog.Info("config changed on disk", "path", path)
				sendToProgram(ui.ConfigReloadedMsg{Config: cfg})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if err != nil && err != io.EOF {
					slog.Warn("config watch error", "error", err)
				}
			}
		}
	}()

	return func() { _ = watcher.Close() }
}
