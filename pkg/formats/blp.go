// Package formats provides parsers for World of Warcraft file formats.
// BLP2 texture decoder.
package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"os"
)

// BLP format errors.
var (
	ErrBadBLP         = errors.New("blp: bad file")
	ErrUnsupportedBLP = errors.New("blp: unsupported format")
)

// blpHeaderSize is magic + fixed fields + mip offsets + mip sizes + palette.
const blpHeaderSize = 4 + 16 + 64 + 64 + 1024

// BLP color encodings.
const (
	BLPEncodingPalette uint8 = 1
	BLPEncodingDXT     uint8 = 2
	BLPEncodingARGB    uint8 = 3
)

// BLP alpha types for DXT encoded textures.
const (
	BLPAlphaDXT1 uint8 = 0
	BLPAlphaDXT3 uint8 = 1
	BLPAlphaDXT5 uint8 = 7
)

// BLPHeader is the BLP2 file header.
type BLPHeader struct {
	Version       uint32
	ColorEncoding uint8
	AlphaDepth    uint8
	AlphaType     uint8
	HasMips       uint8
	Width         uint32
	Height        uint32
	Offsets       [16]uint32
	Sizes         [16]uint32
	Palette       [256]uint32 // BGRA
}

// DecodeBLP decodes the first mip level of a BLP2 texture.
func DecodeBLP(data []byte) (image.Image, error) {
	h, err := ParseBLPHeader(data)
	if err != nil {
		return nil, err
	}

	off := int(h.Offsets[0])
	sz := int(h.Sizes[0])
	if off <= 0 || sz <= 0 || off+sz > len(data) {
		return nil, fmt.Errorf("%w: mip 0 out of range (offset %d, size %d)", ErrBadBLP, off, sz)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: zero dimensions", ErrBadBLP)
	}

	w, ht := int(h.Width), int(h.Height)
	mip := data[off : off+sz]

	switch h.ColorEncoding {
	case BLPEncodingDXT:
		switch h.AlphaType {
		case BLPAlphaDXT3:
			return decodeDXT3(w, ht, mip)
		case BLPAlphaDXT5:
			return decodeDXT5(w, ht, mip)
		default:
			return decodeDXT1(w, ht, mip, h.AlphaDepth > 0)
		}
	case BLPEncodingARGB:
		return decodeBGRA(w, ht, mip)
	case BLPEncodingPalette:
		return decodePalette(w, ht, mip, &h.Palette, h.AlphaDepth)
	default:
		return nil, fmt.Errorf("%w: color encoding %d", ErrUnsupportedBLP, h.ColorEncoding)
	}
}

// DecodeBLPFile loads and decodes a BLP file from disk.
func DecodeBLPFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading BLP file: %w", err)
	}
	img, err := DecodeBLP(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return img, nil
}

// ParseBLPHeader parses and validates a BLP2 header.
func ParseBLPHeader(b []byte) (*BLPHeader, error) {
	if len(b) < blpHeaderSize {
		return nil, fmt.Errorf("%w: file too small (%d bytes)", ErrBadBLP, len(b))
	}
	if string(b[0:4]) != "BLP2" {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadBLP, b[0:4])
	}

	h := &BLPHeader{
		Version:       binary.LittleEndian.Uint32(b[4:8]),
		ColorEncoding: b[8],
		AlphaDepth:    b[9],
		AlphaType:     b[10],
		HasMips:       b[11],
		Width:         binary.LittleEndian.Uint32(b[12:16]),
		Height:        binary.LittleEndian.Uint32(b[16:20]),
	}

	o := 20
	for i := 0; i < 16; i++ {
		h.Offsets[i] = binary.LittleEndian.Uint32(b[o:])
		o += 4
	}
	for i := 0; i < 16; i++ {
		h.Sizes[i] = binary.LittleEndian.Uint32(b[o:])
		o += 4
	}
	for i := 0; i < 256; i++ {
		h.Palette[i] = binary.LittleEndian.Uint32(b[o:])
		o += 4
	}

	return h, nil
}
