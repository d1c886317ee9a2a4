// Package floorplan loads raster floor plans shown beneath a venue layout.
package floorplan

import (
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"

	"venue-designer/pkg/geometry"
)

// Layer is a floor plan image placed on the canvas.
type Layer struct {
	Path    string      // Original file path
	Image   image.Image // Loaded image data
	DPI     float64     // From TIFF metadata, 0 if unknown
	Visible bool
	Opacity float64 // 0.0 - 1.0

	// Canvas position of the top-left pixel and canvas units per pixel.
	Origin geometry.Point2D
	Scale  float64
}

// NewLayer creates a Layer with default settings.
func NewLayer() *Layer {
	return &Layer{
		Visible: true,
		Opacity: 0.5,
		Scale:   1,
	}
}

// Load loads an image from the specified path and returns a Layer.
func Load(path string) (*Layer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	layer := NewLayer()
	layer.Path = path
	layer.Image = img

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tiff" || ext == ".tif" {
		if dpi, err := extractTIFFDPI(path); err == nil {
			layer.DPI = dpi
		}
	}
	return layer, nil
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Transform maps image pixels to canvas coordinates.
func (l *Layer) Transform() geometry.AffineTransform {
	s := l.Scale
	if s <= 0 {
		s = 1
	}
	return geometry.Translation(l.Origin.X, l.Origin.Y).Compose(geometry.Scale(s, s))
}

// Bounds returns the canvas rectangle covered by the image.
func (l *Layer) Bounds() geometry.Rect {
	t := l.Transform()
	return geometry.RectFromPoints(
		t.Apply(geometry.Point2D{}),
		t.Apply(geometry.NewPoint2D(float64(l.Width()), float64(l.Height()))),
	)
}

// FitTo scales and places the image so it fills box, keeping its aspect
// ratio, centered.
func (l *Layer) FitTo(box geometry.Rect) {
	w, h := float64(l.Width()), float64(l.Height())
	if w == 0 || h == 0 || box.Width <= 0 || box.Height <= 0 {
		return
	}
	l.Scale = min(box.Width/w, box.Height/h)
	l.Origin = geometry.NewPoint2D(
		box.X+(box.Width-w*l.Scale)/2,
		box.Y+(box.Height-h*l.Scale)/2,
	)
}

// extractTIFFDPI reads the resolution tags of the first IFD.
func extractTIFFDPI(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	header := make([]byte, 8)
	if _, err := file.Read(header); err != nil {
		return 0, err
	}

	var byteOrder binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		byteOrder = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		byteOrder = binary.BigEndian
	default:
		return 0, fmt.Errorf("not a valid TIFF file")
	}

	if _, err := file.Seek(int64(byteOrder.Uint32(header[4:8])), 0); err != nil {
		return 0, err
	}
	var numEntries uint16
	if err := binary.Read(file, byteOrder, &numEntries); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	var resUnit uint16 = 2 // inches

	entry := make([]byte, 12)
	for i := uint16(0); i < numEntries; i++ {
		if _, err := file.Read(entry); err != nil {
			return 0, err
		}
		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])

		switch {
		case tag == 282 && fieldType == 5: // XResolution, RATIONAL
			xRes = readTIFFRational(file, int64(byteOrder.Uint32(entry[8:12])), byteOrder)
		case tag == 283 && fieldType == 5: // YResolution, RATIONAL
			yRes = readTIFFRational(file, int64(byteOrder.Uint32(entry[8:12])), byteOrder)
		case tag == 296 && fieldType == 3: // ResolutionUnit, SHORT
			resUnit = byteOrder.Uint16(entry[8:10])
		}
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if resUnit == 3 {
		dpi *= 2.54
	}
	if dpi == 0 {
		return 0, fmt.Errorf("no resolution tags found")
	}
	return dpi, nil
}

// readTIFFRational reads a RATIONAL value (two uint32s) at offset.
func readTIFFRational(file *os.File, offset int64, byteOrder binary.ByteOrder) float64 {
	currentPos, _ := file.Seek(0, 1)
	defer file.Seek(currentPos, 0)

	file.Seek(offset, 0)
	var num, denom uint32
	binary.Read(file, byteOrder, &num)
	binary.Read(file, byteOrder, &denom)
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
