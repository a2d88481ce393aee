package buffer

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// FromBytes normalizes 8-bit samples into [0,1]. channels == 0 produces a rank-2 buffer.
func FromBytes(height, width, channels int, pix []uint8) (*Buffer, error) {
	data := make([]float64, len(pix))
	for i, v := range pix {
		data[i] = float64(v) / 255
	}
	return FromSlice(height, width, channels, data)
}

// FromImage converts img into a rank-3 RGB buffer in [0,1]. Alpha is dropped.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	out := New3D(bounds.Dy(), bounds.Dx(), 3)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			switch src := img.(type) {
			case *image.NRGBA:
				c := src.NRGBAAt(x, y)
				out.Pix[i] = float64(c.R) / 255
				out.Pix[i+1] = float64(c.G) / 255
				out.Pix[i+2] = float64(c.B) / 255
			case *image.Gray:
				v := float64(src.GrayAt(x, y).Y) / 255
				out.Pix[i], out.Pix[i+1], out.Pix[i+2] = v, v, v
			default:
				// RGBA() is premultiplied, undo it so colour survives translucency
				c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
				out.Pix[i] = float64(c.R) / 0xffff
				out.Pix[i+1] = float64(c.G) / 0xffff
				out.Pix[i+2] = float64(c.B) / 0xffff
			}
			i += 3
		}
	}
	return out
}

// ToNRGBA clamps a 3-channel buffer into [0,1] and quantizes it to 8 bits
func (b *Buffer) ToNRGBA() (*image.NRGBA, error) {
	if b.Rank != 3 || b.Channels != 3 {
		return nil, fmt.Errorf("%w: need 3 channels for RGB, got %v", ErrShape, b.Shape())
	}
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			s := b.Pix[b.index(y, x, 0):]
			j := y*img.Stride + x*4
			d := img.Pix[j : j+4 : j+4]
			d[0] = quantize(s[0])
			d[1] = quantize(s[1])
			d[2] = quantize(s[2])
			d[3] = 0xff
		}
	}
	return img, nil
}

// ToGray clamps a single-channel buffer into [0,1] and quantizes it to 8 bits
func (b *Buffer) ToGray() (*image.Gray, error) {
	if !b.IsSingleChannel() {
		return nil, fmt.Errorf("%w: need a single channel, got %v", ErrShape, b.Shape())
	}
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			img.Pix[y*img.Stride+x] = quantize(b.Pix[y*b.Width+x])
		}
	}
	return img, nil
}

func quantize(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 255))
}
