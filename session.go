package canvix

import (
	"context"
	"sync"
)

// Session tracks the lifecycle of a single working canvas. It mirrors the
// usual editing flow: no canvas at first, then a canvas without selection,
// then a canvas with a selected layer the reorder and export operations act
// upon. Creating a new canvas replaces the previous one; a failed creation
// leaves the previous canvas untouched.
type Session struct {
	mu     sync.Mutex
	canvas *Canvas
}

// NewSession returns an empty session without a canvas.
func NewSession() *Session {
	return &Session{}
}

// CreateCanvas creates the working canvas, replacing the previous one.
// On construction failure the previously created canvas is preserved.
func (s *Session) CreateCanvas(width, height int, opts ...Option) (*Canvas, error) {
	c, err := NewCanvas(width, height, opts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.canvas = c
	s.mu.Unlock()

	return c, nil
}

// Canvas returns the working canvas or nil when none has been created.
func (s *Session) Canvas() *Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.canvas
}

// AddImageLayer loads an image and appends it on top of the working canvas.
func (s *Session) AddImageLayer(ctx context.Context, src string) (*Layer, error) {
	c := s.Canvas()
	if c == nil {
		return nil, ErrNoCanvas
	}
	return c.AddImageLayer(ctx, src)
}

// Select marks a layer of the working canvas as the current selection.
func (s *Session) Select(id string) error {
	c := s.Canvas()
	if c == nil {
		return ErrNoCanvas
	}
	return c.Select(id)
}

// BringForward raises the selected layer one position.
// It is a no-op without a canvas or a selection.
func (s *Session) BringForward() {
	if c := s.Canvas(); c != nil {
		c.BringForward()
	}
}

// BringToFront raises the selected layer to the top of the stack.
// It is a no-op without a canvas or a selection.
func (s *Session) BringToFront() {
	if c := s.Canvas(); c != nil {
		c.BringToFront()
	}
}

// DataURL exports the working canvas as a PNG data URL.
// It returns an empty string and ErrNoCanvas before a canvas is created.
func (s *Session) DataURL() (string, error) {
	c := s.Canvas()
	if c == nil {
		return "", ErrNoCanvas
	}
	return c.DataURL()
}

// Blob exports the working canvas as a PNG encoded binary blob.
// It returns a nil blob and ErrNoCanvas before a canvas is created.
func (s *Session) Blob() (*Blob, error) {
	c := s.Canvas()
	if c == nil {
		return nil, ErrNoCanvas
	}
	return c.Blob()
}
