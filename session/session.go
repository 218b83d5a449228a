// Package session tracks the document currently open in the shell window.
package session

import (
	"fmt"
	"path/filepath"
)

// UntitledName is shown when the session has no backing file.
const UntitledName = "Untitled"

// Session is the single in-memory record of the open file. The path is the
// only identity a document has. Session is not safe for concurrent use; the
// bridge serializes access.
type Session struct {
	path     string
	modified bool
}

// State is the JSON view returned by get_file_state.
type State struct {
	Path     *string `json:"path"`
	Modified bool    `json:"modified"`
	Filename string  `json:"filename"`
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Path returns the current file path, or "" for an unsaved document.
func (s *Session) Path() string { return s.path }

// HasPath reports whether the document is backed by a file.
func (s *Session) HasPath() bool { return s.path != "" }

// Modified reports the dirty flag.
func (s *Session) Modified() bool { return s.modified }

// Reset points the session at path with a clean dirty flag.
func (s *Session) Reset(path string) {
	s.path = path
	s.modified = false
}

// Clear forgets the current file, as for "new file".
func (s *Session) Clear() {
	s.Reset("")
}

// SetModified updates the dirty flag.
func (s *Session) SetModified(modified bool) {
	s.modified = modified
}

// Filename is the base name of the current file, or UntitledName.
func (s *Session) Filename() string {
	if s.path == "" {
		return UntitledName
	}
	return filepath.Base(s.path)
}

// Title renders the window title: "<app> - <filename>" plus "*" when dirty.
func (s *Session) Title(app string) string {
	marker := ""
	if s.modified {
		marker = "*"
	}
	return fmt.Sprintf("%s - %s%s", app, s.Filename(), marker)
}

// State snapshots the session for the UI.
func (s *Session) State() State {
	st := State{Modified: s.modified, Filename: s.Filename()}
	if s.path != "" {
		p := s.path
		st.Path = &p
	}
	return st
}
