// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"fmt"
	"time"
)

// =============================================================================
// TIMING STATISTICS
// =============================================================================

// Stats holds timing information for a single request: when it started, when
// the first chunk arrived (streaming only), and when it finished. All fields
// are scoped to the one in-flight request.
type Stats struct {
	StartTime      time.Time
	FirstChunkTime time.Time
	EndTime        time.Time
}

// NewStats creates a Stats with the start time set.
func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// RecordFirstChunk records the arrival of the first chunk. Later calls are
// no-ops.
func (s *Stats) RecordFirstChunk() {
	if s.FirstChunkTime.IsZero() {
		s.FirstChunkTime = time.Now()
	}
}

// Finalize records the end time.
func (s *Stats) Finalize() {
	s.EndTime = time.Now()
}

// TTFT returns the time to first chunk, or zero if none arrived.
func (s *Stats) TTFT() time.Duration {
	if s.FirstChunkTime.IsZero() {
		return 0
	}
	return s.FirstChunkTime.Sub(s.StartTime)
}

// Total returns the total request duration.
func (s *Stats) Total() time.Duration {
	end := s.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(s.StartTime)
}

// Format returns a display string of the collected timings.
func (s *Stats) Format() string {
	if s.FirstChunkTime.IsZero() {
		return fmt.Sprintf("total %.2fs", s.Total().Seconds())
	}
	return fmt.Sprintf("total %.2fs | first chunk %.2fs", s.Total().Seconds(), s.TTFT().Seconds())
}
