// Package decode turns image files and in-memory buffers into display-ready images.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when the content does not look like a known image format.
var ErrNotImage = errors.New("not an image")

// sniffLen is the number of header bytes filetype needs to match every type it knows.
const sniffLen = 261

// Info holds metadata about a decoded image.
type Info struct {
	Width       int // after orientation and downscaling
	Height      int
	Size        int64
	ModTime     time.Time
	Format      string
	Orientation int
	EXIFData    map[string]string
}

// Decoder loads images, applies EXIF orientation and limits their size.
type Decoder struct {
	// MaxTextureSize bounds the longest edge of decoded images. Zero disables downscaling.
	MaxTextureSize int
}

// NewDecoder creates a Decoder limiting textures to maxTextureSize pixels per edge.
func NewDecoder(maxTextureSize int) *Decoder {
	return &Decoder{MaxTextureSize: maxTextureSize}
}

var exifFields = []exif.FieldName{
	exif.DateTime, exif.Model, exif.Make, exif.ExposureTime, exif.FNumber, exif.ISOSpeedRatings, exif.FocalLength,
}

// readEXIF extracts the orientation and a few common fields. Missing EXIF is not an error.
func readEXIF(r io.Reader) (int, map[string]string) {
	x, err := exif.Decode(r)
	if err != nil {
		return 1, nil
	}
	orientation := 1
	if tag, err := x.Get(exif.Orientation); err == nil && tag != nil {
		if v, err := tag.Int(0); err == nil {
			orientation = v
		}
	}
	result := make(map[string]string)
	for _, field := range exifFields {
		tag, err := x.Get(field)
		if err == nil && tag != nil {
			result[string(field)] = tag.String()
		}
	}
	return orientation, result
}

// DecodeFile reads and decodes the image at path.
func (d *Decoder) DecodeFile(path string) (image.Image, *Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	img, info, err := d.decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	info.Size = fi.Size()
	info.ModTime = fi.ModTime()
	return img, info, nil
}

// DecodeBytes decodes an image held in memory. name is only used in error messages.
func (d *Decoder) DecodeBytes(name string, data []byte) (image.Image, *Info, error) {
	img, info, err := d.decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	info.Size = int64(len(data))
	return img, info, nil
}

func (d *Decoder) decode(r io.ReadSeeker) (image.Image, *Info, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if !filetype.IsImage(head[:n]) {
		return nil, nil, ErrNotImage
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("failed to seek in image: %w", err)
	}
	orientation, exifData := readEXIF(r)

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("failed to seek in image: %w", err)
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = Orient(img, orientation)
	if d.MaxTextureSize > 0 {
		img = Fit(img, d.MaxTextureSize)
	}
	b := img.Bounds()
	return img, &Info{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Format:      format,
		Orientation: orientation,
		EXIFData:    exifData,
	}, nil
}

// Orient rotates and mirrors img so that it displays upright for the given EXIF orientation (1-8).
func Orient(img image.Image, orientation int) image.Image {
	quarter := &transform.RotationOptions{ResizeBounds: true}
	switch orientation {
	case 2:
		return transform.FlipH(img)
	case 3:
		return transform.Rotate(img, 180, nil)
	case 4:
		return transform.FlipV(img)
	case 5:
		return transform.FlipH(transform.Rotate(img, 90, quarter))
	case 6:
		return transform.Rotate(img, 90, quarter)
	case 7:
		return transform.FlipV(transform.Rotate(img, 90, quarter))
	case 8:
		return transform.Rotate(img, 270, quarter)
	default:
		return img
	}
}

// Fit downscales img so that neither edge exceeds maxEdge, keeping the aspect ratio.
// Images that already fit are returned unchanged.
func Fit(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxEdge && b.Dy() <= maxEdge {
		return img
	}
	return resize.Thumbnail(uint(maxEdge), uint(maxEdge), img, resize.Lanczos3)
}
