package resample

import (
	"errors"
	"testing"

	"github.com/jpfielding/ycbcr.go/pkg/image/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussian1D(t *testing.T) {
	assert.Equal(t, []float64{1}, Gaussian1D(0))
	assert.Equal(t, []float64{1}, Gaussian1D(-1))

	k := Gaussian1D(0.5)
	assert.Len(t, k, 5) // radius int(4*0.5+0.5) = 2
	var sum float64
	for _, w := range k {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.InDelta(t, k[0], k[4], 1e-15)
	assert.Greater(t, k[2], k[1])
}

func TestResize_Shape(t *testing.T) {
	tests := []struct {
		name          string
		src           *buffer.Buffer
		height, width int
		want          []int
	}{
		{"down 2d", buffer.New2D(8, 6), 4, 3, []int{4, 3}},
		{"down chroma", buffer.New3D(8, 6, 2), 4, 3, []int{4, 3, 2}},
		{"up chroma", buffer.New3D(4, 3, 2), 8, 6, []int{8, 6, 2}},
		{"odd", buffer.New3D(5, 7, 2), 3, 4, []int{3, 4, 2}},
		{"mixed", buffer.New3D(4, 4, 3), 8, 2, []int{8, 2, 3}},
		{"same", buffer.New3D(4, 4, 3), 4, 4, []int{4, 4, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, aa := range []bool{false, true} {
				out, err := Edge{AntiAlias: aa}.Resize(tt.src, tt.height, tt.width)
				require.NoError(t, err)
				assert.Equal(t, tt.want, out.Shape())
				assert.Len(t, out.Pix, tt.height*tt.width*tt.src.Channels)
			}
		})
	}
}

func TestResize_SameSizeClones(t *testing.T) {
	src := buffer.New2D(2, 2)
	out, err := Edge{}.Resize(src, 2, 2)
	require.NoError(t, err)
	out.Set(0, 0, 0, 1)
	assert.Equal(t, 0.0, src.At(0, 0, 0))
}

func TestResize_ConstantPreserved(t *testing.T) {
	src := buffer.New3D(9, 13, 2)
	for i := range src.Pix {
		if i%2 == 0 {
			src.Pix[i] = 0.25
		} else {
			src.Pix[i] = -0.4
		}
	}

	for _, size := range [][2]int{{5, 7}, {3, 3}, {1, 1}, {20, 31}} {
		out, err := Edge{AntiAlias: true}.Resize(src, size[0], size[1])
		require.NoError(t, err)
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				assert.InDelta(t, 0.25, out.At(y, x, 0), 1e-12)
				assert.InDelta(t, -0.4, out.At(y, x, 1), 1e-12)
			}
		}
	}
}

func TestResize_EdgeReplication(t *testing.T) {
	// Bright border on a bright image: zero padding would darken it
	src := buffer.New2D(8, 8)
	for i := range src.Pix {
		src.Pix[i] = 1
	}
	out, err := Edge{AntiAlias: true}.Resize(src, 2, 2)
	require.NoError(t, err)
	for _, v := range out.Pix {
		assert.InDelta(t, 1.0, v, 1e-12)
	}

	// Upsampling holds the outermost samples at the border
	up, err := Edge{AntiAlias: true}.Resize(mustSlice(t, 1, 2, []float64{0, 1}), 1, 4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.75, 1}, up.Pix, 1e-12)
}

func TestResize_Downsample(t *testing.T) {
	src := mustSlice(t, 1, 4, []float64{0, 1, 2, 3})

	// Without the prefilter each output is the mean of a pixel pair
	plain, err := Edge{}.Resize(src, 1, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 2.5}, plain.Pix, 1e-12)

	// The prefilter is symmetric, so a linear ramp keeps its interior values
	// and only the replicated edges bend it inward
	smooth, err := Edge{AntiAlias: true}.Resize(src, 1, 2)
	require.NoError(t, err)
	assert.Greater(t, smooth.Pix[0], 0.5)
	assert.Less(t, smooth.Pix[1], 2.5)
	assert.InDelta(t, 3.0, smooth.Pix[0]+smooth.Pix[1], 1e-12)
}

// Reference values follow scipy's gaussian_filter (mode nearest, truncate 4)
// and an order-1 grid-mode zoom, the pipeline behind skimage's
// resize(..., mode='edge', anti_aliasing=True).
func TestResize_ReferenceValues(t *testing.T) {
	ramp, err := Edge{AntiAlias: true}.Resize(mustSlice(t, 1, 4, []float64{0, 1, 2, 3}), 1, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5536211836109017, 2.446378816389098}, ramp.Pix, 1e-12)

	// 5x7 ramp with a checker overlay, shrunk to 3x4
	src := buffer.New2D(5, 7)
	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			v := float64(y*7+x) / 34
			if (x+y)%2 == 1 {
				v += 0.3
			}
			src.Set(y, x, 0, v)
		}
	}
	out, err := Edge{AntiAlias: true}.Resize(src, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, out.Shape())
	assert.InDeltaSlice(t, []float64{
		0.218807443692045, 0.249172327633258, 0.300642915868553, 0.372225703755412,
		0.536451669000364, 0.528286272704459, 0.579756860939753, 0.689869929063731,
		0.902098706789165, 0.932463590730379, 0.983934178965673, 1.05551696685253,
	}, out.Pix, 1e-12)
}

func TestResize_AntiAliasSuppressesAlternation(t *testing.T) {
	// A one-pixel checker decimated by 3 lands on alternating samples
	src := buffer.New2D(1, 15)
	for x := 0; x < 15; x++ {
		src.Set(0, x, 0, float64(x%2))
	}

	plain, err := Edge{}.Resize(src, 1, 5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0, 1, 0, 1}, plain.Pix, 1e-12)

	out, err := Edge{AntiAlias: true}.Resize(src, 1, 5)
	require.NoError(t, err)
	for _, v := range out.Pix {
		assert.InDelta(t, 0.5, v, 0.1)
	}
}

func TestResize_Errors(t *testing.T) {
	_, err := Edge{}.Resize(nil, 1, 1)
	assert.True(t, errors.Is(err, ErrSize))

	_, err = Edge{}.Resize(buffer.New2D(0, 3), 1, 1)
	assert.True(t, errors.Is(err, ErrSize))

	_, err = Edge{}.Resize(buffer.New2D(3, 3), 0, 1)
	assert.True(t, errors.Is(err, ErrSize))

	_, err = Edge{}.Resize(buffer.New2D(3, 3), 1, -1)
	assert.True(t, errors.Is(err, ErrSize))
}

func mustSlice(t *testing.T, h, w int, pix []float64) *buffer.Buffer {
	t.Helper()
	b, err := buffer.FromSlice(h, w, 0, pix)
	require.NoError(t, err)
	return b
}
