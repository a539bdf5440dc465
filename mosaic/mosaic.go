// Package mosaic assembles a quad's decoded maplets into a single raster.
package mosaic

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/connorworley/topodump/maplet"
	"github.com/connorworley/topodump/tpq/spec"
)

// Upper bound on total mosaic pixels (10000 x 10000), a guard against
// absurd headers.
const maxMosaicPixels = 10000 * 10000

var ErrMapletDecode = errors.New("topodump: maplet decode failed")
var ErrMapletSizeMismatch = errors.New("topodump: maplet size mismatch")
var ErrIncompleteGrid = errors.New("topodump: incomplete maplet grid")

// DecodeMaplet decodes one embedded JPEG into an RGBA image. The input slice
// may extend past the image; decoding stops at the JPEG's own end-of-image
// marker.
func DecodeMaplet(jpegData []byte) (*image.RGBA, error) {
	img, err := jpeg.Decode(bytes.NewReader(jpegData))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMapletDecode, err)
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, img.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

// Assembler implements the maplet.Writer interface by decoding each maplet
// and pasting it into its cell of one RGBA canvas.
//
// The header-declared maplet dimensions are authoritative: every decoded
// maplet must match them exactly. Sizing the grid from the first decoded
// maplet instead would let a header that disagrees with its payloads shift
// every following cell, so mismatches abort the run.
type Assembler struct {
	header *spec.Header
	canvas *image.RGBA
	placed []bool
	count  int
}

// NewAssembler allocates the mosaic canvas for a quad, prefilled opaque white.
func NewAssembler(header *spec.Header) (*Assembler, error) {
	width := int(header.LongCount) * int(header.MapletWidth)
	height := int(header.LatCount) * int(header.MapletHeight)
	// The bound is width*height > maxMosaicPixels, phrased so huge header
	// values cannot overflow the product.
	if width <= 0 || height <= 0 || width > maxMosaicPixels/height {
		return nil, fmt.Errorf("topodump: unreasonable mosaic size %vx%v", width, height)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	return &Assembler{
		header: header,
		canvas: canvas,
		placed: make([]bool, int(header.LatCount)*int(header.LongCount)),
	}, nil
}

// WriteMaplet decodes a maplet and pastes it into its grid cell. Source
// pixels replace destination pixels; maplets are fully opaque, so the canvas
// stays opaque throughout.
func (a *Assembler) WriteMaplet(cell maplet.Cell, jpegData []byte) error {
	if cell.Row >= a.header.LatCount || cell.Col >= a.header.LongCount {
		return fmt.Errorf("topodump: maplet at row %v col %v outside the %vx%v grid",
			cell.Row, cell.Col, a.header.LatCount, a.header.LongCount)
	}

	img, err := DecodeMaplet(jpegData)
	if err != nil {
		return fmt.Errorf("%w: at row %v col %v", err, cell.Row, cell.Col)
	}

	bounds := img.Bounds()
	if bounds.Dx() != int(a.header.MapletWidth) || bounds.Dy() != int(a.header.MapletHeight) {
		return fmt.Errorf("%w: maplet at row %v col %v is %vx%v, header declares %vx%v",
			ErrMapletSizeMismatch, cell.Row, cell.Col,
			bounds.Dx(), bounds.Dy(), a.header.MapletWidth, a.header.MapletHeight)
	}

	origin := image.Pt(int(cell.Col)*int(a.header.MapletWidth), int(cell.Row)*int(a.header.MapletHeight))
	target := image.Rectangle{Min: origin, Max: origin.Add(bounds.Size())}
	draw.Draw(a.canvas, target, img, bounds.Min, draw.Src)

	idx := cell.Index(a.header.LongCount)
	if !a.placed[idx] {
		a.placed[idx] = true
		a.count++
	}
	return nil
}

// Finalize verifies the grid is gap-free. Georeferencing assumes every cell
// was written; a partial mosaic is not salvageable.
func (a *Assembler) Finalize() error {
	if a.count != len(a.placed) {
		return fmt.Errorf("%w: %v of %v maplets written", ErrIncompleteGrid, a.count, len(a.placed))
	}
	return nil
}

// Image returns the assembled canvas. The Assembler owns the canvas and
// mutates it in place until Finalize succeeds; afterwards the caller takes
// it over.
func (a *Assembler) Image() *image.RGBA {
	return a.canvas
}
