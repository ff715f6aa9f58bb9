package formats

import (
	"encoding/binary"
	"fmt"
	"image"
)

// set writes a straight-alpha pixel directly into an image.NRGBA.
func set(img *image.NRGBA, x, y int, r, g, b, a uint8) {
	i := y*img.Stride + x*4
	img.Pix[i+0] = r
	img.Pix[i+1] = g
	img.Pix[i+2] = b
	img.Pix[i+3] = a
}

// rgb565 converts a 16-bit RGB565 value to 8-bit RGB.
func rgb565(c uint16) (r, g, b uint8) {
	r = uint8((c >> 11) & 0x1F)
	g = uint8((c >> 5) & 0x3F)
	b = uint8(c & 0x1F)

	r = (r << 3) | (r >> 2)
	g = (g << 2) | (g >> 4)
	b = (b << 3) | (b >> 2)
	return
}

// colorPalette builds the 4-color block palette. With threeColor set
// (DXT1 with c0 <= c1) the last entry is transparent black.
func colorPalette(c0, c1 uint16, threeColor bool) [4][4]uint8 {
	r0, g0, b0 := rgb565(c0)
	r1, g1, b1 := rgb565(c1)

	p := [4][4]uint8{
		{r0, g0, b0, 255},
		{r1, g1, b1, 255},
	}
	if threeColor {
		p[2] = [4]uint8{
			uint8((int(r0) + int(r1)) / 2),
			uint8((int(g0) + int(g1)) / 2),
			uint8((int(b0) + int(b1)) / 2),
			255,
		}
		p[3] = [4]uint8{0, 0, 0, 0}
		return p
	}
	p[2] = [4]uint8{
		uint8((2*int(r0) + int(r1)) / 3),
		uint8((2*int(g0) + int(g1)) / 3),
		uint8((2*int(b0) + int(b1)) / 3),
		255,
	}
	p[3] = [4]uint8{
		uint8((int(r0) + 2*int(r1)) / 3),
		uint8((int(g0) + 2*int(g1)) / 3),
		uint8((int(b0) + 2*int(b1)) / 3),
		255,
	}
	return p
}

// alphaPalette builds the 8-entry alpha palette used by DXT5.
func alphaPalette(a0, a1 uint8) [8]uint8 {
	var p [8]uint8
	p[0], p[1] = a0, a1

	if a0 > a1 {
		for i := 2; i < 8; i++ {
			p[i] = uint8(((8-i)*int(a0) + (i-1)*int(a1)) / 7)
		}
	} else {
		for i := 2; i < 6; i++ {
			p[i] = uint8(((6-i)*int(a0) + (i-1)*int(a1)) / 5)
		}
		p[6] = 0
		p[7] = 255
	}
	return p
}

func blockCount(w, h int) int {
	return ((w + 3) / 4) * ((h + 3) / 4)
}

func checkSize(format string, data []byte, want int) error {
	if len(data) < want {
		return fmt.Errorf("%w: %s needs %d bytes, have %d", ErrBadBLP, format, want, len(data))
	}
	return nil
}

// forEachBlockPixel calls fn for every in-bounds pixel of the 4x4 block at (bx, by).
func forEachBlockPixel(w, h, bx, by int, fn func(x, y, p int)) {
	for py := 0; py < 4; py++ {
		for px := 0; px < 4; px++ {
			x := bx*4 + px
			y := by*4 + py
			if x >= w || y >= h {
				continue
			}
			fn(x, y, py*4+px)
		}
	}
}

func decodeDXT1(w, h int, data []byte, hasAlpha bool) (image.Image, error) {
	if err := checkSize("DXT1", data, blockCount(w, h)*8); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bw, bh := (w+3)/4, (h+3)/4
	offset := 0

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			c0 := binary.LittleEndian.Uint16(data[offset:])
			c1 := binary.LittleEndian.Uint16(data[offset+2:])
			indices := binary.LittleEndian.Uint32(data[offset+4:])
			offset += 8

			colors := colorPalette(c0, c1, c0 <= c1)
			forEachBlockPixel(w, h, bx, by, func(x, y, p int) {
				c := colors[(indices>>uint(2*p))&0x03]
				a := c[3]
				if !hasAlpha {
					a = 255
				}
				set(img, x, y, c[0], c[1], c[2], a)
			})
		}
	}

	return img, nil
}

func decodeDXT3(w, h int, data []byte) (image.Image, error) {
	if err := checkSize("DXT3", data, blockCount(w, h)*16); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bw, bh := (w+3)/4, (h+3)/4
	offset := 0

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			alphaBits := binary.LittleEndian.Uint64(data[offset:])
			c0 := binary.LittleEndian.Uint16(data[offset+8:])
			c1 := binary.LittleEndian.Uint16(data[offset+10:])
			indices := binary.LittleEndian.Uint32(data[offset+12:])
			offset += 16

			colors := colorPalette(c0, c1, false)
			forEachBlockPixel(w, h, bx, by, func(x, y, p int) {
				a := uint8((alphaBits>>(4*uint(p)))&0x0F) * 17
				c := colors[(indices>>uint(2*p))&0x03]
				set(img, x, y, c[0], c[1], c[2], a)
			})
		}
	}

	return img, nil
}

func decodeDXT5(w, h int, data []byte) (image.Image, error) {
	if err := checkSize("DXT5", data, blockCount(w, h)*16); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bw, bh := (w+3)/4, (h+3)/4
	offset := 0

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			a0 := data[offset]
			a1 := data[offset+1]

			var alphaBits uint64
			for i := 0; i < 6; i++ {
				alphaBits |= uint64(data[offset+2+i]) << (8 * i)
			}

			c0 := binary.LittleEndian.Uint16(data[offset+8:])
			c1 := binary.LittleEndian.Uint16(data[offset+10:])
			indices := binary.LittleEndian.Uint32(data[offset+12:])
			offset += 16

			alpha := alphaPalette(a0, a1)
			colors := colorPalette(c0, c1, false)
			forEachBlockPixel(w, h, bx, by, func(x, y, p int) {
				a := alpha[(alphaBits>>(3*uint(p)))&0x07]
				c := colors[(indices>>uint(2*p))&0x03]
				set(img, x, y, c[0], c[1], c[2], a)
			})
		}
	}

	return img, nil
}

// decodeBGRA decodes uncompressed 32-bit pixels stored B, G, R, A.
func decodeBGRA(w, h int, data []byte) (image.Image, error) {
	if err := checkSize("BGRA", data, w*h*4); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		o := i * 4
		set(img, i%w, i/w, data[o+2], data[o+1], data[o+0], data[o+3])
	}
	return img, nil
}

// decodePalette decodes 8-bit palette indices followed by an optional
// alpha plane of alphaDepth bits per pixel.
func decodePalette(w, h int, data []byte, palette *[256]uint32, alphaDepth uint8) (image.Image, error) {
	pixels := w * h
	alphaBytes := (pixels*int(alphaDepth) + 7) / 8
	if err := checkSize("palette", data, pixels+alphaBytes); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	alpha := data[pixels:]

	for i := 0; i < pixels; i++ {
		c := palette[data[i]]
		a := uint8(255)
		switch alphaDepth {
		case 1:
			if (alpha[i/8]>>(uint(i)%8))&0x01 == 0 {
				a = 0
			}
		case 4:
			a = ((alpha[i/2] >> (4 * (uint(i) % 2))) & 0x0F) * 17
		case 8:
			a = alpha[i]
		}
		set(img, i%w, i/w, uint8(c>>16), uint8(c>>8), uint8(c), a)
	}
	return img, nil
}
