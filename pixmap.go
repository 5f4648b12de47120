package imgfx

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Pixmap is a rectangular RGBA pixel buffer: width*height pixels, four
// 8-bit samples each, row-major from the top row down.
//
// A Pixmap has a single owner at a time. Effects never mutate the Pixmap
// they are given; they return a new one.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new transparent-black pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// PixmapFromData wraps data as a pixmap without copying.
// len(data) must equal width*height*4.
func PixmapFromData(width, height int, data []uint8) (*Pixmap, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("imgfx: invalid dimensions %dx%d", width, height)
	}
	if len(data) != width*height*4 {
		return nil, fmt.Errorf("imgfx: pixel data is %d bytes, want %d for %dx%d",
			len(data), width*height*4, width, height)
	}
	return &Pixmap{width: width, height: height, data: data}, nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Row returns the RGBA samples of row y, or nil if y is out of range.
func (p *Pixmap) Row(y int) []uint8 {
	if y < 0 || y >= p.height {
		return nil
	}
	stride := p.width * 4
	return p.data[y*stride : (y+1)*stride]
}

// Pixel returns the RGBA samples of a single pixel.
// Out-of-range coordinates yield transparent black.
func (p *Pixmap) Pixel(x, y int) [4]uint8 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return [4]uint8{}
	}
	i := (y*p.width + x) * 4
	return [4]uint8{p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]}
}

// SetPixel sets the RGBA samples of a single pixel.
// Out-of-range coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, px [4]uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	copy(p.data[i:i+4], px[:])
}

// Fill sets every pixel to px.
func (p *Pixmap) Fill(px [4]uint8) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = px[0]
		p.data[i+1] = px[1]
		p.data[i+2] = px[2]
		p.data[i+3] = px[3]
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	data := make([]uint8, len(p.data))
	copy(data, p.data)
	return &Pixmap{width: p.width, height: p.height, data: data}
}

// SameSize reports whether p and other have identical dimensions.
func (p *Pixmap) SameSize(other *Pixmap) bool {
	return other != nil && p.width == other.width && p.height == other.height
}

// Equal reports whether p and other have identical dimensions and samples.
func (p *Pixmap) Equal(other *Pixmap) bool {
	if !p.SameSize(other) {
		return false
	}
	for i := range p.data {
		if p.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// ToImage converts the pixmap to a non-premultiplied image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from any image, converting it to
// non-premultiplied RGBA.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == bounds.Dx()*4 {
		pm := NewPixmap(bounds.Dx(), bounds.Dy())
		copy(pm.data, nrgba.Pix)
		return pm
	}

	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return &Pixmap{width: bounds.Dx(), height: bounds.Dy(), data: dst.Pix}
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	px := p.Pixel(x, y)
	return color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
