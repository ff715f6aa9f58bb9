package formats

import (
	"encoding/binary"
	"errors"
	"image/color"
	"testing"
)

func TestParseBLPHeader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"too small", []byte("BLP2")},
		{"bad magic", append([]byte("BLP1"), make([]byte, blpHeaderSize)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBLPHeader(tt.data)
			if !errors.Is(err, ErrBadBLP) {
				t.Errorf("got error %v, want ErrBadBLP", err)
			}
		})
	}
}

func TestDecodeBLP_BGRA(t *testing.T) {
	pixels := []byte{
		0x00, 0x00, 0xFF, 0xFF, // red
		0x00, 0xFF, 0x00, 0x80, // green, half alpha
		0xFF, 0x00, 0x00, 0xFF, // blue
		0x10, 0x20, 0x30, 0x40,
	}
	data := makeBLP(BLPEncodingARGB, 8, 0, 2, 2, nil, pixels)

	img, err := DecodeBLP(data)
	if err != nil {
		t.Fatalf("DecodeBLP failed: %v", err)
	}

	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 2x2", b)
	}

	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, color.NRGBA{0xFF, 0, 0, 0xFF}},
		{1, 0, color.NRGBA{0, 0xFF, 0, 0x80}},
		{0, 1, color.NRGBA{0, 0, 0xFF, 0xFF}},
		{1, 1, color.NRGBA{0x30, 0x20, 0x10, 0x40}},
	}
	for _, tt := range tests {
		got := color.NRGBAModel.Convert(img.At(tt.x, tt.y)).(color.NRGBA)
		if got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDecodeBLP_DXT1(t *testing.T) {
	block := make([]byte, 8)
	binary.LittleEndian.PutUint16(block[0:], 0xF800)     // pure red
	binary.LittleEndian.PutUint16(block[2:], 0x001F)     // pure blue
	binary.LittleEndian.PutUint32(block[4:], 0x00000001) // pixel 0 -> c1, rest -> c0

	img, err := DecodeBLP(makeBLP(BLPEncodingDXT, 0, BLPAlphaDXT1, 4, 4, nil, block))
	if err != nil {
		t.Fatalf("DecodeBLP failed: %v", err)
	}

	if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got != (color.NRGBA{0, 0, 0xFF, 0xFF}) {
		t.Errorf("pixel (0,0) = %v, want blue", got)
	}
	if got := color.NRGBAModel.Convert(img.At(3, 3)).(color.NRGBA); got != (color.NRGBA{0xFF, 0, 0, 0xFF}) {
		t.Errorf("pixel (3,3) = %v, want red", got)
	}
}

func TestDecodeBLP_DXT5Alpha(t *testing.T) {
	block := make([]byte, 16)
	block[0] = 0xFF // a0
	block[1] = 0x00 // a1, all indices 0 -> a0

	binary.LittleEndian.PutUint16(block[8:], 0x07E0) // green

	img, err := DecodeBLP(makeBLP(BLPEncodingDXT, 8, BLPAlphaDXT5, 4, 4, nil, block))
	if err != nil {
		t.Fatalf("DecodeBLP failed: %v", err)
	}
	if got := color.NRGBAModel.Convert(img.At(2, 1)).(color.NRGBA); got != (color.NRGBA{0, 0xFF, 0, 0xFF}) {
		t.Errorf("pixel (2,1) = %v, want opaque green", got)
	}
}

func TestDecodeBLP_Palette(t *testing.T) {
	var palette [256]uint32
	palette[1] = 0x00FF0000 // BGRA little-endian -> red
	palette[2] = 0x000000FF // blue

	pixels := []byte{1, 2, 0x7F, 0xFF} // two indices, then 8-bit alpha plane
	img, err := DecodeBLP(makeBLP(BLPEncodingPalette, 8, 0, 2, 1, &palette, pixels))
	if err != nil {
		t.Fatalf("DecodeBLP failed: %v", err)
	}

	if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got != (color.NRGBA{0xFF, 0, 0, 0x7F}) {
		t.Errorf("pixel (0,0) = %v, want red at alpha 0x7F", got)
	}
	if got := color.NRGBAModel.Convert(img.At(1, 0)).(color.NRGBA); got != (color.NRGBA{0, 0, 0xFF, 0xFF}) {
		t.Errorf("pixel (1,0) = %v, want blue", got)
	}
}

func TestDecodeBLP_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"truncated mip", makeBLP(BLPEncodingDXT, 0, BLPAlphaDXT1, 8, 8, nil, make([]byte, 8)), ErrBadBLP},
		{"unknown encoding", makeBLP(9, 0, 0, 1, 1, nil, make([]byte, 4)), ErrUnsupportedBLP},
		{"zero size", makeBLP(BLPEncodingARGB, 0, 0, 0, 0, nil, make([]byte, 4)), ErrBadBLP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBLP(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// makeBLP builds a single-mip BLP2 file.
func makeBLP(encoding, alphaDepth, alphaType uint8, w, h uint32, palette *[256]uint32, mip []byte) []byte {
	data := make([]byte, blpHeaderSize, blpHeaderSize+len(mip))
	copy(data[0:4], "BLP2")
	binary.LittleEndian.PutUint32(data[4:], 1)
	data[8] = encoding
	data[9] = alphaDepth
	data[10] = alphaType
	binary.LittleEndian.PutUint32(data[12:], w)
	binary.LittleEndian.PutUint32(data[16:], h)
	binary.LittleEndian.PutUint32(data[20:], blpHeaderSize)       // offsets[0]
	binary.LittleEndian.PutUint32(data[20+64:], uint32(len(mip))) // sizes[0]
	if palette != nil {
		for i, c := range palette {
			binary.LittleEndian.PutUint32(data[20+128+i*4:], c)
		}
	}
	return append(data, mip...)
}
