// Package buffer provides a typed floating-point image buffer.
//
// A Buffer records its rank alongside its channel count so callers can tell a
// 2D single-channel array from a 3D array that happens to carry one channel.
// Samples are stored row-major with the channel axis innermost.
package buffer

import (
	"errors"
	"fmt"
)

// ErrShape is returned when dimensions or pixel counts don't line up
var ErrShape = errors.New("invalid buffer shape")

// Buffer is a height x width (x channels) array of float64 samples
type Buffer struct {
	Height   int
	Width    int
	Channels int
	Rank     int // 2 for a plain 2D plane, 3 when a channel axis is present

	Pix []float64
}

// New2D allocates a zeroed single-channel rank-2 buffer
func New2D(height, width int) *Buffer {
	return &Buffer{
		Height:   height,
		Width:    width,
		Channels: 1,
		Rank:     2,
		Pix:      make([]float64, height*width),
	}
}

// New3D allocates a zeroed rank-3 buffer with the given channel count
func New3D(height, width, channels int) *Buffer {
	return &Buffer{
		Height:   height,
		Width:    width,
		Channels: channels,
		Rank:     3,
		Pix:      make([]float64, height*width*channels),
	}
}

// FromSlice wraps pix without copying. channels == 0 produces a rank-2 buffer.
func FromSlice(height, width, channels int, pix []float64) (*Buffer, error) {
	if height < 0 || width < 0 || channels < 0 {
		return nil, fmt.Errorf("%w: negative dimension %dx%dx%d", ErrShape, height, width, channels)
	}
	rank := 3
	if channels == 0 {
		rank, channels = 2, 1
	}
	if want := height * width * channels; len(pix) != want {
		return nil, fmt.Errorf("%w: need %d samples, got %d", ErrShape, want, len(pix))
	}
	return &Buffer{Height: height, Width: width, Channels: channels, Rank: rank, Pix: pix}, nil
}

// Validate checks that the dimensions and rank agree with the sample count
func (b *Buffer) Validate() error {
	if b.Height < 0 || b.Width < 0 || b.Channels < 1 {
		return fmt.Errorf("%w: dimensions %dx%dx%d", ErrShape, b.Height, b.Width, b.Channels)
	}
	switch b.Rank {
	case 2:
		if b.Channels != 1 {
			return fmt.Errorf("%w: rank 2 with %d channels", ErrShape, b.Channels)
		}
	case 3:
	default:
		return fmt.Errorf("%w: rank %d", ErrShape, b.Rank)
	}
	if want := b.Height * b.Width * b.Channels; len(b.Pix) != want {
		return fmt.Errorf("%w: need %d samples, got %d", ErrShape, want, len(b.Pix))
	}
	return nil
}

// Shape returns the dimensions the way an ndarray would report them
func (b *Buffer) Shape() []int {
	if b.Rank == 2 {
		return []int{b.Height, b.Width}
	}
	return []int{b.Height, b.Width, b.Channels}
}

// IsSingleChannel is true for rank-2 buffers and rank-3 buffers with one channel
func (b *Buffer) IsSingleChannel() bool {
	return b.Channels == 1 && (b.Rank == 2 || b.Rank == 3)
}

func (b *Buffer) index(y, x, c int) int {
	return (y*b.Width+x)*b.Channels + c
}

// At returns the sample at (y, x, c), or 0 when out of bounds
func (b *Buffer) At(y, x, c int) float64 {
	if y < 0 || y >= b.Height || x < 0 || x >= b.Width || c < 0 || c >= b.Channels {
		return 0
	}
	return b.Pix[b.index(y, x, c)]
}

// Set stores v at (y, x, c); out of bounds writes are ignored
func (b *Buffer) Set(y, x, c int, v float64) {
	if y < 0 || y >= b.Height || x < 0 || x >= b.Width || c < 0 || c >= b.Channels {
		return
	}
	b.Pix[b.index(y, x, c)] = v
}

// Clone returns a deep copy
func (b *Buffer) Clone() *Buffer {
	out := *b
	out.Pix = make([]float64, len(b.Pix))
	copy(out.Pix, b.Pix)
	return &out
}

// Plane extracts channel c as a rank-2 buffer
func (b *Buffer) Plane(c int) (*Buffer, error) {
	if c < 0 || c >= b.Channels {
		return nil, fmt.Errorf("%w: channel %d of %d", ErrShape, c, b.Channels)
	}
	out := New2D(b.Height, b.Width)
	for i := range out.Pix {
		out.Pix[i] = b.Pix[i*b.Channels+c]
	}
	return out, nil
}

// Stack interleaves equally sized single-channel planes into a rank-3 buffer
func Stack(planes ...*Buffer) (*Buffer, error) {
	if len(planes) == 0 {
		return nil, fmt.Errorf("%w: no planes to stack", ErrShape)
	}
	h, w := planes[0].Height, planes[0].Width
	for i, p := range planes {
		if !p.IsSingleChannel() {
			return nil, fmt.Errorf("%w: plane %d has %d channels", ErrShape, i, p.Channels)
		}
		if p.Height != h || p.Width != w {
			return nil, fmt.Errorf("%w: plane %d is %dx%d, want %dx%d", ErrShape, i, p.Height, p.Width, h, w)
		}
	}
	n := len(planes)
	out := New3D(h, w, n)
	for c, p := range planes {
		for i, v := range p.Pix {
			out.Pix[i*n+c] = v
		}
	}
	return out, nil
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer%v", b.Shape())
}
