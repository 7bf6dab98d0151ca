package canvix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/canvix/canvix/imop"
)

// Sentinel errors returned by the canvas and session operations.
var (
	// ErrNoCanvas is returned by session operations invoked before a canvas exists.
	ErrNoCanvas = errors.New("canvix: no canvas has been created")
	// ErrNoLayer is returned when a layer lookup by id fails.
	ErrNoLayer = errors.New("canvix: layer not found")
	// ErrEmptyLayer is returned when a nil layer or a layer without pixels is added.
	ErrEmptyLayer = errors.New("canvix: cannot add an empty layer")
)

// DefaultBackground is the fill color used when no explicit background is provided.
var DefaultBackground = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Option configures the canvas at construction time.
type Option func(*Canvas)

// WithBackground sets the canvas background fill color.
func WithBackground(col color.NRGBA) Option {
	return func(c *Canvas) {
		c.background = col
	}
}

// Canvas is a fixed-size drawing surface holding an ordered stack of image
// layers. The layer at index zero is the bottommost one and adding a new
// layer never reorders the existing ones; the z-order changes only through
// the explicit reorder operations.
//
// All exported methods are safe for concurrent use.
type Canvas struct {
	mu         sync.Mutex
	width      int
	height     int
	background color.NRGBA
	layers     []*Layer
	selected   *Layer
	comp       *imop.Composite
}

// NewCanvas creates a new canvas of the given dimensions.
func NewCanvas(width, height int, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvix: invalid canvas size %dx%d", width, height)
	}

	c := &Canvas{
		width:      width,
		height:     height,
		background: DefaultBackground,
		comp:       imop.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Background returns the canvas background fill color.
func (c *Canvas) Background() color.NRGBA { return c.background }

// Bounds returns the canvas rectangle anchored at the origin.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// AddLayer appends the layer on top of the stack.
func (c *Canvas) AddLayer(l *Layer) error {
	if l == nil || l.img == nil {
		return ErrEmptyLayer
	}

	c.mu.Lock()
	c.layers = append(c.layers, l)
	c.mu.Unlock()

	return nil
}

// AddImageLayer decodes an image from a file path, URL or data URL and
// appends it as the topmost layer, positioned at the canvas origin.
func (c *Canvas) AddImageLayer(ctx context.Context, src string) (*Layer, error) {
	img, err := loadImage(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("canvix: could not load the layer source: %w", err)
	}

	l := NewLayer(img, src)
	if err := c.AddLayer(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Layers returns a bottom-to-top snapshot of the layer stack.
func (c *Canvas) Layers() []*Layer {
	c.mu.Lock()
	defer c.mu.Unlock()

	layers := make([]*Layer, len(c.layers))
	copy(layers, c.layers)

	return layers
}

// Layer retrieves a layer by its id.
func (c *Canvas) Layer(id string) (*Layer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.layers {
		if l.id == id {
			return l, nil
		}
	}
	return nil, ErrNoLayer
}

// Select marks the layer with the given id as the current selection.
func (c *Canvas) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.layers {
		if l.id == id {
			c.selected = l
			return nil
		}
	}
	return ErrNoLayer
}

// Selected returns the currently selected layer or nil.
func (c *Canvas) Selected() *Layer {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selected
}

// Deselect clears the current selection.
func (c *Canvas) Deselect() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
}

// RemoveLayer removes the layer with the given id from the stack.
// The selection is cleared in case the removed layer was selected.
func (c *Canvas) RemoveLayer(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, l := range c.layers {
		if l.id == id {
			c.layers = append(c.layers[:i], c.layers[i+1:]...)
			if c.selected == l {
				c.selected = nil
			}
			return nil
		}
	}
	return ErrNoLayer
}

// BringForward swaps the selected layer with the one right above it.
// It is a no-op when nothing is selected or the layer is already topmost.
func (c *Canvas) BringForward() {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.selectedIndex()
	if i < 0 || i == len(c.layers)-1 {
		return
	}
	c.layers[i], c.layers[i+1] = c.layers[i+1], c.layers[i]
}

// BringToFront moves the selected layer to the top of the stack.
// It is a no-op when nothing is selected or the layer is already topmost.
func (c *Canvas) BringToFront() {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.selectedIndex()
	if i < 0 || i == len(c.layers)-1 {
		return
	}
	l := c.layers[i]
	c.layers = append(c.layers[:i], c.layers[i+1:]...)
	c.layers = append(c.layers, l)
}

// SendBackward swaps the selected layer with the one right below it.
// It is a no-op when nothing is selected or the layer is already bottommost.
func (c *Canvas) SendBackward() {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.selectedIndex()
	if i <= 0 {
		return
	}
	c.layers[i-1], c.layers[i] = c.layers[i], c.layers[i-1]
}

// SendToBack moves the selected layer to the bottom of the stack.
// It is a no-op when nothing is selected or the layer is already bottommost.
func (c *Canvas) SendToBack() {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.selectedIndex()
	if i <= 0 {
		return
	}
	l := c.layers[i]
	c.layers = append(c.layers[:i], c.layers[i+1:]...)
	c.layers = append([]*Layer{l}, c.layers...)
}

// selectedIndex returns the stack index of the selected layer or -1.
// Caller must hold the locker.
func (c *Canvas) selectedIndex() int {
	if c.selected == nil {
		return -1
	}
	for i, l := range c.layers {
		if l == c.selected {
			return i
		}
	}
	return -1
}

// Flatten renders the canvas into a single image: the background fill first,
// then each layer composed bottom-to-top at its offset, honoring the layer
// opacity, filter and blend mode. A canvas without layers flattens to the
// background only.
func (c *Canvas) Flatten() *image.NRGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	dst := image.NewNRGBA(c.Bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)

	for _, l := range c.layers {
		c.comp.Draw(dst, l.render(), l.offset, l.opacity, l.blend)
	}
	return dst
}

// Blob exports the flattened canvas as a PNG encoded binary blob.
func (c *Canvas) Blob() (*Blob, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Flatten()); err != nil {
		return nil, fmt.Errorf("canvix: could not encode the canvas: %w", err)
	}
	return &Blob{Data: buf.Bytes(), MIME: "image/png"}, nil
}

// DataURL exports the flattened canvas as a base64 encoded PNG data URL.
func (c *Canvas) DataURL() (string, error) {
	blob, err := c.Blob()
	if err != nil {
		return "", err
	}
	return EncodeDataURL(blob), nil
}
