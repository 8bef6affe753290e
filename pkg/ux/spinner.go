// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux holds small terminal helpers for interactive runs.
package ux

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	clearLine     = "\r\033[K"
	frameInterval = 80 * time.Millisecond
)

// Spinner draws an animated status line on w.
//
// A Spinner is also an io.Writer: anything written through it (log
// records, typically) clears the current frame first, so the animation
// and the log lines never interleave on one line. Before Start and after
// Stop, writes pass straight through.
type Spinner struct {
	w        io.Writer
	message  string
	interval time.Duration
	frame    *color.Color

	mu         sync.Mutex
	isRunning  bool
	drawn      bool
	frameIndex int
	stop       chan struct{}
	done       chan struct{}
}

// NewSpinner creates a spinner that draws message on w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:        w,
		message:  message,
		interval: frameInterval,
		frame:    color.New(color.FgCyan, color.Bold),
	}
}

// Start begins the spinner animation. Calling Start on a running
// spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop(s.stop, s.done)
}

func (s *Spinner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.draw()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.draw()
		}
	}
}

func (s *Spinner) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	fmt.Fprintf(s.w, "\r%s %s", s.frame.Sprint(spinnerFrames[s.frameIndex]), s.message)
	s.frameIndex = (s.frameIndex + 1) % len(spinnerFrames)
	s.drawn = true
}

// Stop halts the animation and clears the spinner line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	stop, done := s.stop, s.done
	s.clearLocked()
	s.mu.Unlock()

	close(stop)
	<-done
}

// UpdateMessage changes the message shown by the next frame. It is a
// no-op on a nil Spinner.
func (s *Spinner) UpdateMessage(message string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Write implements io.Writer.
func (s *Spinner) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	return s.w.Write(p)
}

func (s *Spinner) clearLocked() {
	if s.drawn {
		_, _ = io.WriteString(s.w, clearLine)
		s.drawn = false
	}
}

// Run shows the spinner while fn executes. A nil Spinner just runs fn.
func (s *Spinner) Run(fn func() error) error {
	if s == nil {
		return fn()
	}
	s.Start()
	defer s.Stop()
	return fn()
}
