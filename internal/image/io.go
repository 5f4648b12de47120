// Package image loads and saves still images as imgfx pixmaps.
//
// The format is chosen from the file extension. Loading falls back to content
// sniffing when the extension is unknown. Supported formats:
//
//	PNG, JPEG, GIF     image/png, image/jpeg, image/gif
//	BMP, TIFF          golang.org/x/image/bmp, golang.org/x/image/tiff
//	WebP (decode only) golang.org/x/image/webp
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/gogpu/imgfx"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// JPEGQuality is the quality used when saving JPEG files.
const JPEGQuality = 95

// Format is a still-image file format.
type Format uint8

// Formats.
const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatBMP
	FormatTIFF
	FormatWebP
)

var formatNames = [...]string{
	FormatUnknown: "unknown",
	FormatPNG:     "png",
	FormatJPEG:    "jpeg",
	FormatGIF:     "gif",
	FormatBMP:     "bmp",
	FormatTIFF:    "tiff",
	FormatWebP:    "webp",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// CanEncode reports whether Save supports the format.
func (f Format) CanEncode() bool {
	return f != FormatUnknown && f != FormatWebP
}

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".gif":
		return FormatGIF
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	case ".webp":
		return FormatWebP
	}
	return FormatUnknown
}

// Load loads an image from the given file path. The format comes from the
// extension; unknown extensions are sniffed from the content.
func Load(path string) (*imgfx.Pixmap, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeFormat(f, FormatFromPath(path))
}

// LoadFromBytes decodes an image from a byte slice, sniffing the format.
func LoadFromBytes(data []byte) (*imgfx.Pixmap, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from r, sniffing the format.
func Decode(r io.Reader) (*imgfx.Pixmap, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	imgfx.Logger().Debug("image: decoded", "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return imgfx.FromImage(img), nil
}

// DecodeFormat decodes an image of a known format from r.
// FormatUnknown sniffs the content.
func DecodeFormat(r io.Reader, format Format) (*imgfx.Pixmap, error) {
	var decode func(io.Reader) (image.Image, error)
	switch format {
	case FormatPNG:
		decode = png.Decode
	case FormatJPEG:
		decode = jpeg.Decode
	case FormatGIF:
		decode = gif.Decode
	case FormatBMP:
		decode = bmp.Decode
	case FormatTIFF:
		decode = tiff.Decode
	case FormatWebP:
		decode = webp.Decode
	default:
		return Decode(r)
	}

	img, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode %s: %w", format, err)
	}
	return imgfx.FromImage(img), nil
}

// Save writes pm to path in the format implied by the extension.
func Save(path string, pm *imgfx.Pixmap) error {
	format := FormatFromPath(path)
	if !format.CanEncode() {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := Encode(f, pm, format); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// Encode writes pm to w in the given format.
func Encode(w io.Writer, pm *imgfx.Pixmap, format Format) error {
	img := pm.ToImage()

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatGIF:
		err = gif.Encode(w, img, nil)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("image: encode %s: %w", format, err)
	}
	return nil
}

// EncodeToBytes encodes pm as PNG and returns the bytes.
func EncodeToBytes(pm *imgfx.Pixmap) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, pm, FormatPNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
