// Package report stores scan results as YAML so a trim can be repeated or
// inspected without rasterizing again.
package report

import "github.com/ivlev/lottietrim/internal/analyzer"

const Version = "1"

// Report represents the bounding boxes found for one animation
type Report struct {
	Version    string       `yaml:"version"`
	Input      string       `yaml:"input"`
	Background string       `yaml:"background"`
	FirstFrame int          `yaml:"first_frame"`
	LastFrame  int          `yaml:"last_frame"`
	Frames     []Frame      `yaml:"frames"`
	Overall    analyzer.Box `yaml:"overall"`
}

// Frame is the box of a single frame
type Frame struct {
	Index        int `yaml:"index"`
	analyzer.Box `yaml:",inline"`
}

// New builds a report from per-frame boxes starting at first.
func New(input, background string, first int, perFrame []analyzer.Box, overall analyzer.Box) *Report {
	frames := make([]Frame, len(perFrame))
	for i, box := range perFrame {
		frames[i] = Frame{Index: first + i, Box: box}
	}
	last := first + len(perFrame) - 1
	if len(perFrame) == 0 {
		last = first
	}
	return &Report{
		Version:    Version,
		Input:      input,
		Background: background,
		FirstFrame: first,
		LastFrame:  last,
		Frames:     frames,
		Overall:    overall,
	}
}

// Covers reports whether the report was made for the inclusive range
// [first, last].
func (r *Report) Covers(first, last int) bool {
	return r.FirstFrame == first && r.LastFrame == last
}
