// Package resample resizes float image buffers.
//
// Edge is a separable resizer: an optional Gaussian prefilter suppresses
// aliasing when an axis shrinks, then samples are linearly interpolated.
// Both steps replicate edge samples for positions outside the image, so
// borders are never pulled toward zero.
package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/jpfielding/ycbcr.go/pkg/image/buffer"
)

// ErrSize is returned for empty sources or non-positive target sizes
var ErrSize = errors.New("invalid resize dimensions")

// Resizer scales every channel of src to height x width
type Resizer interface {
	Resize(src *buffer.Buffer, height, width int) (*buffer.Buffer, error)
}

// Edge resizes with edge-replicating boundaries
type Edge struct {
	// AntiAlias applies a Gaussian prefilter along each axis that shrinks
	AntiAlias bool
}

// Resize implements Resizer
func (e Edge) Resize(src *buffer.Buffer, height, width int) (*buffer.Buffer, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrSize)
	}
	if src.Height < 1 || src.Width < 1 {
		return nil, fmt.Errorf("%w: empty source %dx%d", ErrSize, src.Height, src.Width)
	}
	if height < 1 || width < 1 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrSize, height, width)
	}
	if src.Height == height && src.Width == width {
		return src.Clone(), nil
	}

	out := src
	if out.Height != height {
		out = e.resizeAxis(out, 0, height)
	}
	if out.Width != width {
		out = e.resizeAxis(out, 1, width)
	}
	return out, nil
}

// resizeAxis rescales along rows (axis 0) or columns (axis 1)
func (e Edge) resizeAxis(src *buffer.Buffer, axis, size int) *buffer.Buffer {
	dst := &buffer.Buffer{
		Channels: src.Channels,
		Rank:     src.Rank,
		Height:   src.Height,
		Width:    src.Width,
	}
	n := src.Height
	if axis == 0 {
		dst.Height = size
	} else {
		n = src.Width
		dst.Width = size
	}
	dst.Pix = make([]float64, dst.Height*dst.Width*dst.Channels)

	scale := float64(n) / float64(size)
	var kernel []float64
	if e.AntiAlias && scale > 1 {
		kernel = Gaussian1D((scale - 1) / 2)
	}

	line := make([]float64, n)
	blurred := make([]float64, n)
	resized := make([]float64, size)

	// lines run across the other spatial axis and every channel
	var lines, srcStride, dstStride int
	var srcStart, dstStart func(l int) int
	ch := src.Channels
	if axis == 0 {
		lines = src.Width * ch
		srcStride, dstStride = src.Width*ch, dst.Width*ch
		srcStart = func(l int) int { return l }
		dstStart = srcStart
	} else {
		lines = src.Height * ch
		srcStride, dstStride = ch, ch
		srcStart = func(l int) int { return (l/ch)*src.Width*ch + l%ch }
		dstStart = func(l int) int { return (l/ch)*dst.Width*ch + l%ch }
	}

	for l := 0; l < lines; l++ {
		s := srcStart(l)
		for i := range line {
			line[i] = src.Pix[s+i*srcStride]
		}
		in := line
		if kernel != nil {
			convolve(line, kernel, blurred)
			in = blurred
		}
		interpolate(in, scale, resized)
		d := dstStart(l)
		for i, v := range resized {
			dst.Pix[d+i*dstStride] = v
		}
	}
	return dst
}

// interpolate linearly samples in at pixel-centre aligned positions
func interpolate(in []float64, scale float64, out []float64) {
	last := len(in) - 1
	for o := range out {
		pos := (float64(o)+0.5)*scale - 0.5
		if pos <= 0 {
			out[o] = in[0]
			continue
		}
		if pos >= float64(last) {
			out[o] = in[last]
			continue
		}
		i0 := int(pos)
		frac := pos - float64(i0)
		out[o] = in[i0]*(1-frac) + in[i0+1]*frac
	}
}

// convolve applies an odd-length kernel, replicating edge samples
func convolve(in, kernel, out []float64) {
	r := len(kernel) / 2
	last := len(in) - 1
	for i := range out {
		var sum float64
		for k, w := range kernel {
			j := i + k - r
			if j < 0 {
				j = 0
			} else if j > last {
				j = last
			}
			sum += in[j] * w
		}
		out[i] = sum
	}
}

// Gaussian1D returns a normalized kernel truncated at four standard deviations.
// sigma <= 0 yields the identity kernel.
func Gaussian1D(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	r := int(4*sigma + 0.5)
	kernel := make([]float64, 2*r+1)
	var sum float64
	for i := range kernel {
		x := float64(i - r)
		kernel[i] = math.Exp(-0.5 * x * x / (sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
