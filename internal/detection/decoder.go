package detection

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrBorder rejects a canonical image whose outer ring has a white cell.
	ErrBorder = errors.New("detection: marker border is not solid")

	// ErrOrientation rejects a canonical image whose orientation ring does
	// not carry exactly three white corner cells in a known pattern.
	ErrOrientation = errors.New("detection: orientation cells not recognised")
)

// IntegrityError reports a decoded identifier whose checksum does not match.
type IntegrityError struct {
	ID       uint64
	Decoded  uint16
	Computed uint16
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("detection: checksum mismatch for id %d: decoded %#04x, computed %#04x",
		e.ID, e.Decoded, e.Computed)
}

// Decoding is the content read from a canonical marker image.
type Decoding struct {
	ID          uint64
	Checksum    uint16
	Orientation Orientation
	// Code is the raw orientation corner code.
	Code int
}

// Decoder reads identifiers from canonical marker images.
type Decoder struct {
	layout Layout
}

// NewDecoder returns a decoder for canonical images of the given layout.
func NewDecoder(layout Layout) *Decoder {
	return &Decoder{layout: layout}
}

// Decode validates and reads a canonical image.
//
// The outer ring of cells must be black, the ring inside it must mark three
// of its corners white, and the 8×8 data grid read in that orientation must
// carry an identifier whose checksum matches the two last rows.
func (d *Decoder) Decode(canonical *image.Gray) (Decoding, error) {
	if err := d.checkBorder(canonical); err != nil {
		return Decoding{}, err
	}

	b := canonical.Bounds()
	c := d.layout.Cell
	inner := canonical.SubImage(image.Rect(c, c, b.Dx()-c, b.Dy()-c).Add(b.Min)).(*image.Gray)

	code, err := d.orientationCode(inner)
	if err != nil {
		return Decoding{}, err
	}
	o := OrientationFromCode(code)
	if o == OrientationInvalid {
		return Decoding{}, fmt.Errorf("%w: corner code %d", ErrOrientation, code)
	}

	turned := o.Apply(inner)
	tb := turned.Bounds()
	data := turned.SubImage(image.Rect(c, c, tb.Dx()-c, tb.Dy()-c)).(*image.Gray)

	dec := Decoding{
		ID:          d.readBits(data, 0, IDRows),
		Checksum:    uint16(d.readBits(data, IDRows, ChecksumRows)),
		Orientation: o,
		Code:        code,
	}
	if computed := Checksum(dec.ID); computed != dec.Checksum {
		return Decoding{}, &IntegrityError{ID: dec.ID, Decoded: dec.Checksum, Computed: computed}
	}
	return dec, nil
}

func (d *Decoder) checkBorder(img *image.Gray) error {
	b := img.Bounds()
	c := d.layout.Cell
	right, bottom := b.Dx()-c, b.Dy()-c

	for i := 0; i < GridCells; i++ {
		switch {
		case d.layout.white(img, i*c, 0):
			return fmt.Errorf("%w: top cell %d", ErrBorder, i)
		case d.layout.white(img, i*c, bottom):
			return fmt.Errorf("%w: bottom cell %d", ErrBorder, i)
		case d.layout.white(img, 0, i*c):
			return fmt.Errorf("%w: left cell %d", ErrBorder, i)
		case d.layout.white(img, right, i*c):
			return fmt.Errorf("%w: right cell %d", ErrBorder, i)
		}
	}
	return nil
}

// orientationCode counts the white cells on the top and bottom rows of the
// inner grid and encodes which corners are white.
func (d *Decoder) orientationCode(inner *image.Gray) (int, error) {
	b := inner.Bounds()
	c := d.layout.Cell
	right, bottom := b.Dx()-c, b.Dy()-c

	white := 0
	for i := 0; i < GridCells-2; i++ {
		if d.layout.white(inner, i*c, 0) {
			white++
		}
		if d.layout.white(inner, i*c, bottom) {
			white++
		}
	}
	if white != 3 {
		return 0, fmt.Errorf("%w: %d white cells on the top and bottom rows", ErrOrientation, white)
	}

	code := 0
	if d.layout.white(inner, right, bottom) {
		code |= cornerBottomRight
	}
	if d.layout.white(inner, 0, 0) {
		code |= cornerTopLeft
	}
	if d.layout.white(inner, right, 0) {
		code |= cornerTopRight
	}
	if d.layout.white(inner, 0, bottom) {
		code |= cornerBottomLeft
	}
	return code, nil
}

// readBits reads rows of data cells into an integer, least significant bit
// first, row by row.
func (d *Decoder) readBits(data *image.Gray, firstRow, rows int) uint64 {
	var v uint64
	for r := 0; r < rows; r++ {
		for c := 0; c < DataCells; c++ {
			if d.layout.cellWhite(data, c, firstRow+r) {
				v |= 1 << uint(r*DataCells+c)
			}
		}
	}
	return v
}
