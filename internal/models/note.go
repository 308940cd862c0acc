// Package models defines the domain types shared across the build pipeline.
package models

import "time"

// Post is the output unit of the preprocessor: one normalized document built
// from exactly one vault note.
type Post struct {
	Source   string   `json:"source"`
	Slug     string   `json:"slug"`
	Filename string   `json:"filename"`
	Content  string   `json:"-"`
	Images   []string `json:"images,omitempty"` // as referenced in the note, before renaming

	// DroppedKeys are header keys the normalized output does not carry.
	DroppedKeys []string `json:"droppedKeys,omitempty"`
}

// Skipped records a vault file that was intentionally not published.
type Skipped struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Failure records a vault file whose processing failed.
type Failure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Result summarizes one batch run. Every enumerated file appears in exactly
// one of the three lists.
type Result struct {
	Processed []string  `json:"processed"`
	Skipped   []Skipped `json:"skipped"`
	Errors    []Failure `json:"errors"`
}

// Failed reports whether any file errored.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Total returns the number of files the run looked at.
func (r *Result) Total() int {
	return len(r.Processed) + len(r.Skipped) + len(r.Errors)
}

// FileMeta is one entry returned by storage list operations. UpdatedAt is
// zero when the entry cannot be stat'ed.
type FileMeta struct {
	Path      string    `json:"path"`
	UpdatedAt time.Time `json:"updated_at"`
}
