// Package colorspace converts images between RGB and the JPEG variant of YCbCr.
//
// The luma plane always keeps the full image resolution. The chroma planes may
// be subsampled by an integer factor: a factor of 2 halves both chroma
// dimensions. Reconstruction upsamples chroma back to the luma size before the
// inverse transform. Values are never clamped; a round trip can land slightly
// outside [0,1].
package colorspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jpfielding/ycbcr.go/pkg/image/buffer"
	"github.com/jpfielding/ycbcr.go/pkg/image/resample"
)

// ErrInvalidArgument marks a bad sampling factor or a wrongly shaped buffer
var ErrInvalidArgument = errors.New("invalid argument")

// RGBToYCbCr applies the forward JPEG transform to one pixel
func RGBToYCbCr(r, g, b float64) (y, cb, cr float64) {
	y = 0.299*r + 0.587*g + 0.114*b
	cb = -0.168736*r - 0.331264*g + 0.5*b
	cr = 0.5*r - 0.418688*g - 0.081312*b
	return
}

// YCbCrToRGB applies the inverse JPEG transform to one pixel
func YCbCrToRGB(y, cb, cr float64) (r, g, b float64) {
	r = y + 1.402*cr
	g = y - 0.344136*cb - 0.714136*cr
	b = y + 1.772*cb
	return
}

// Option configures a Converter
type Option func(*Converter)

// WithResizer replaces the chroma resampler
func WithResizer(rs resample.Resizer) Option {
	return func(c *Converter) {
		c.resizer = rs
	}
}

// WithLogContext sets the context passed to debug records, so attributes
// attached with logging.AppendCtx show up on them. It has no other effect.
func WithLogContext(ctx context.Context) Option {
	return func(c *Converter) {
		c.logCtx = ctx
	}
}

// Converter moves images between RGB and YCbCr with chroma subsampling.
// It holds no per-call state and is safe for concurrent use.
type Converter struct {
	sampling int
	resizer  resample.Resizer
	logCtx   context.Context
}

// New creates a converter. sampling must be at least 1; 1 disables subsampling.
func New(sampling int, opts ...Option) (*Converter, error) {
	if sampling < 1 {
		return nil, fmt.Errorf("%w: sampling factor must be at least 1, got %d", ErrInvalidArgument, sampling)
	}
	c := &Converter{
		sampling: sampling,
		resizer:  resample.Edge{AntiAlias: true},
		logCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.resizer == nil {
		return nil, fmt.Errorf("%w: nil resizer", ErrInvalidArgument)
	}
	if c.logCtx == nil {
		return nil, fmt.Errorf("%w: nil log context", ErrInvalidArgument)
	}
	return c, nil
}

// Sampling returns the chroma subsampling factor
func (c *Converter) Sampling() int {
	return c.sampling
}

// ChromaSize returns the chroma plane size for a height x width image.
// Dimensions that don't divide evenly round up.
func (c *Converter) ChromaSize(height, width int) (int, int) {
	return ceilDiv(height, c.sampling), ceilDiv(width, c.sampling)
}

// ToYCbCr splits an RGB image into a full resolution luma plane and a
// two-channel (Cb, Cr) buffer downsampled by the sampling factor.
func (c *Converter) ToYCbCr(img *buffer.Buffer) (y, cbcr *buffer.Buffer, err error) {
	if img == nil {
		return nil, nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	if err := img.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: image: %w", ErrInvalidArgument, err)
	}
	if img.Rank != 3 || img.Channels != 3 {
		return nil, nil, fmt.Errorf("%w: expected a 3-channel colour image, got shape %v", ErrInvalidArgument, img.Shape())
	}

	y = buffer.New2D(img.Height, img.Width)
	full := buffer.New3D(img.Height, img.Width, 2)
	for i := range y.Pix {
		p := img.Pix[i*3 : i*3+3 : i*3+3]
		luma, cb, cr := RGBToYCbCr(p[0], p[1], p[2])
		y.Pix[i] = luma
		full.Pix[i*2] = cb
		full.Pix[i*2+1] = cr
	}

	cbcr, err = c.downsample(full)
	if err != nil {
		return nil, nil, fmt.Errorf("downsampling chroma: %w", err)
	}

	if slog.Default().Enabled(c.logCtx, slog.LevelDebug) {
		slog.DebugContext(c.logCtx, "Converted RGB to YCbCr",
			slog.Any("shape", img.Shape()),
			slog.Int("sampling", c.sampling),
			slog.Any("chroma", cbcr.Shape()),
			slog.String("fingerprint", cbcr.Fingerprint()))
	}
	return y, cbcr, nil
}

// ToRGB rebuilds an RGB image from a luma plane and (possibly subsampled)
// chroma. The chroma may not be larger than the luma in either dimension.
func (c *Converter) ToRGB(y, cbcr *buffer.Buffer) (*buffer.Buffer, error) {
	if y == nil || cbcr == nil {
		return nil, fmt.Errorf("%w: nil luma or chroma", ErrInvalidArgument)
	}
	if err := y.Validate(); err != nil {
		return nil, fmt.Errorf("%w: luma: %w", ErrInvalidArgument, err)
	}
	if err := cbcr.Validate(); err != nil {
		return nil, fmt.Errorf("%w: chroma: %w", ErrInvalidArgument, err)
	}
	if !y.IsSingleChannel() {
		return nil, fmt.Errorf("%w: luma must be single-channel, got shape %v", ErrInvalidArgument, y.Shape())
	}
	if cbcr.Rank != 3 || cbcr.Channels != 2 {
		return nil, fmt.Errorf("%w: chroma must have 2 channels, got shape %v", ErrInvalidArgument, cbcr.Shape())
	}
	if cbcr.Height > y.Height || cbcr.Width > y.Width {
		return nil, fmt.Errorf("%w: chroma %dx%d is larger than luma %dx%d",
			ErrInvalidArgument, cbcr.Height, cbcr.Width, y.Height, y.Width)
	}
	if len(cbcr.Pix) == 0 && len(y.Pix) > 0 {
		return nil, fmt.Errorf("%w: empty chroma %dx%d for luma %dx%d",
			ErrInvalidArgument, cbcr.Height, cbcr.Width, y.Height, y.Width)
	}

	full, err := c.upsample(cbcr, y.Height, y.Width)
	if err != nil {
		return nil, fmt.Errorf("upsampling chroma: %w", err)
	}

	rgb := buffer.New3D(y.Height, y.Width, 3)
	for i, luma := range y.Pix {
		r, g, b := YCbCrToRGB(luma, full.Pix[i*2], full.Pix[i*2+1])
		rgb.Pix[i*3] = r
		rgb.Pix[i*3+1] = g
		rgb.Pix[i*3+2] = b
	}

	if slog.Default().Enabled(c.logCtx, slog.LevelDebug) {
		slog.DebugContext(c.logCtx, "Converted YCbCr to RGB",
			slog.Any("shape", rgb.Shape()),
			slog.Any("chroma", cbcr.Shape()),
			slog.Int("sampling", c.sampling),
			slog.String("fingerprint", rgb.Fingerprint()))
	}
	return rgb, nil
}

func (c *Converter) downsample(ch *buffer.Buffer) (*buffer.Buffer, error) {
	if c.sampling == 1 {
		return ch, nil
	}
	h, w := c.ChromaSize(ch.Height, ch.Width)
	if len(ch.Pix) == 0 {
		return buffer.New3D(h, w, ch.Channels), nil
	}
	return c.resizer.Resize(ch, h, w)
}

func (c *Converter) upsample(ch *buffer.Buffer, height, width int) (*buffer.Buffer, error) {
	if ch.Height == height && ch.Width == width {
		return ch, nil
	}
	if height == 0 || width == 0 {
		return buffer.New3D(height, width, ch.Channels), nil
	}
	return c.resizer.Resize(ch, height, width)
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
