package voodoo

import "encoding/binary"

const (
	fbiRAMSize = 4 << 20
	maxClip    = 0x3FF
)

// fbiState is the frame buffer interface: it owns the color and aux buffers
// and all per-triangle iteration scratch.
type fbiState struct {
	ram  []byte
	mask uint32

	rgboffs [3]uint32
	auxoffs uint32
	numBufs int
	hasAux  bool

	frontbuf int
	backbuf  int

	width     int32
	height    int32
	rowpixels int32
	yorigin   int32

	// Software clip rectangle, mirrored in clipLeftRight/clipLowYHighY.
	clipLeft, clipRight int32
	clipTop, clipBottom int32

	vpX, vpY float32
	cullMode CullMode

	// Triangle setup scratch: vertices in 12.4, parameter starts and
	// per-X/Y deltas in their canonical scales.
	ax, ay, bx, by, cx, cy int32

	startR, startG, startB, startA int32 // 12.12
	drdx, dgdx, dbdx, dadx         int32
	drdy, dgdy, dbdy, dady         int32

	startZ     int32 // 20.12
	dzdx, dzdy int32

	startW     int64 // 16.32
	dwdx, dwdy int64

	// Fog blend and delta tables, downloaded via the fog table registers.
	fogblend [64]uint8
	fogdelta [64]uint8

	stats fbiStats
}

type fbiStats struct {
	pixelsIn   int32
	pixelsOut  int32
	chromaFail int32
	zfuncFail  int32
	afuncFail  int32
}

// allocate sizes the FBI buffers for the given geometry. Color buffers are
// packed first, then the aux buffer; every buffer must fit in FBI RAM.
func (f *fbiState) allocate(width, height int32, numColBufs, numAuxBufs int) bool {
	bufBytes := uint32(width) * uint32(height) * 2
	if numColBufs < 2 {
		numColBufs = 2
	}
	if numColBufs > 3 {
		numColBufs = 3
	}
	total := uint32(numColBufs) * bufBytes
	if numAuxBufs > 0 {
		total += bufBytes
	}
	if total > fbiRAMSize {
		return false
	}

	f.ram = make([]byte, fbiRAMSize)
	f.mask = fbiRAMSize - 1
	f.width = width
	f.height = height
	f.rowpixels = width
	f.yorigin = 0
	f.numBufs = numColBufs
	f.hasAux = numAuxBufs > 0

	for i := 0; i < 3; i++ {
		if i < numColBufs {
			f.rgboffs[i] = uint32(i) * bufBytes
		} else {
			f.rgboffs[i] = 0
		}
	}
	if f.hasAux {
		f.auxoffs = uint32(numColBufs) * bufBytes
	}
	f.frontbuf = 0
	f.backbuf = 1

	f.clipLeft, f.clipTop = 0, 0
	f.clipRight, f.clipBottom = width, height
	return true
}

func (f *fbiState) release() {
	f.ram = nil
	f.mask = 0
}

// drawBufOffset resolves the fbzMode draw-buffer select to a byte offset.
func (f *fbiState) drawBufOffset(fbz fbzMode) uint32 {
	if fbz.drawBuffer() == 1 {
		return f.rgboffs[f.backbuf]
	}
	return f.rgboffs[f.frontbuf]
}

// rowColor returns the 16-bit color row at screen line y of the draw buffer.
func (f *fbiState) rowColor(offs uint32, y int32) []byte {
	start := offs + uint32(y)*uint32(f.rowpixels)*2
	return f.ram[start : start+uint32(f.rowpixels)*2]
}

func (f *fbiState) rowAux(y int32) []byte {
	start := f.auxoffs + uint32(y)*uint32(f.rowpixels)*2
	return f.ram[start : start+uint32(f.rowpixels)*2]
}

// swap exchanges the front and back buffer assignments. The vsync interval
// of the original swapbufferCMD is accepted and ignored: there is no raster
// beam to wait on.
func (f *fbiState) swap() {
	f.frontbuf, f.backbuf = f.backbuf, f.frontbuf
}

// frontBuffer returns the current front color buffer as raw RGB565 words.
func (f *fbiState) frontBuffer() []byte {
	if f.ram == nil {
		return nil
	}
	start := f.rgboffs[f.frontbuf]
	return f.ram[start : start+uint32(f.width)*uint32(f.height)*2]
}

// fastFill fills the clip rectangle of the draw buffer with color1, dithered
// per fbzMode, and the aux buffer with the zaColor depth when aux writes are
// enabled.
func (c *Context) fastFill() {
	f := &c.fbi
	if f.ram == nil {
		return
	}
	fbz := fbzMode(c.reg.read(regFbzMode))

	sx, ex := f.clipLeft, f.clipRight
	sy, ey := f.clipTop, f.clipBottom

	if fbz.rgbBufferMask() {
		_, r, g, b := c.reg.rgba(regColor1)
		offs := f.drawBufOffset(fbz)

		// Precompute one dithered 16-bit pattern per (y&3, x&3).
		var pattern [4][4]uint16
		for y := int32(0); y < 4; y++ {
			for x := int32(0); x < 4; x++ {
				dr, dg, db := ditherPixel(fbz, int32(r), int32(g), int32(b), x, y)
				pattern[y][x] = uint16(dr<<11 | dg<<5 | db)
			}
		}

		for y := sy; y < ey; y++ {
			scry := y
			if fbz.yOrigin() {
				scry = (f.yorigin - y) & maxClip
			}
			dest := f.rowColor(offs, scry)
			row := &pattern[y&3]
			for x := sx; x < ex; x++ {
				binary.LittleEndian.PutUint16(dest[x*2:], row[x&3])
			}
		}
	}

	if f.hasAux && fbz.auxBufferMask() {
		depth := uint16(c.reg.read(regZaColor))
		for y := sy; y < ey; y++ {
			scry := y
			if fbz.yOrigin() {
				scry = (f.yorigin - y) & maxClip
			}
			dest := f.rowAux(scry)
			for x := sx; x < ex; x++ {
				binary.LittleEndian.PutUint16(dest[x*2:], depth)
			}
		}
	}
}

// ditherPixel maps 8-bit RGB to the 5-6-5 lattice for pixel (x, y),
// applying ordered dither when enabled and plain truncation otherwise.
func ditherPixel(fbz fbzMode, r, g, b, x, y int32) (int32, int32, int32) {
	if !fbz.enableDithering() {
		return r >> 3, g >> 2, b >> 3
	}
	base := (y&3)*256*4 + x&3
	if fbz.dither2x2() {
		return int32(dither2Lookup[base+r*4]), int32(dither2LookupG[base+g*4]), int32(dither2Lookup[base+b*4])
	}
	return int32(dither4Lookup[base+r*4]), int32(dither4LookupG[base+g*4]), int32(dither4Lookup[base+b*4])
}

// writeFogTable stores one fog table register word: two (delta, blend)
// entry pairs packed little-end first.
func (f *fbiState) writeFogTable(index int, data uint32) {
	base := index * 2
	f.fogdelta[base+0] = uint8(data)
	f.fogblend[base+0] = uint8(data >> 8)
	f.fogdelta[base+1] = uint8(data >> 16)
	f.fogblend[base+1] = uint8(data >> 24)
}
