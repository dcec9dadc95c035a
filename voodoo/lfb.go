package voodoo

import "encoding/binary"

// LfbLockType selects read or write access for an LFB lock.
type LfbLockType int32

const (
	LfbReadOnly LfbLockType = iota
	LfbWriteOnly
	LfbReadWrite
)

// LfbWriteMode names the pixel format a writer promises to use. Only the
// native 16-bit 565 layout is stored: LfbLock always reports
// LfbWriteMode565, and written pixel words are stored as given.
type LfbWriteMode int32

const (
	LfbWriteMode565 LfbWriteMode = iota
	LfbWriteMode555
	LfbWriteMode1555
	LfbWriteMode888
	LfbWriteMode8888
)

// LfbInfo is filled in by LfbLock: direct access to the locked buffer plus
// its geometry.
type LfbInfo struct {
	Buf         []byte
	StrideBytes int32
	WriteMode   LfbWriteMode
	Origin      OriginLocation
}

type lfbState struct {
	locked bool
	buffer Buffer
}

// lfbBufferOffset resolves a buffer name to its byte offset in FBI RAM.
func (c *Context) lfbBufferOffset(buffer Buffer) (uint32, bool) {
	switch buffer {
	case BufferFront:
		return c.fbi.rgboffs[c.fbi.frontbuf], true
	case BufferBack:
		return c.fbi.rgboffs[c.fbi.backbuf], true
	case BufferAux:
		if !c.fbi.hasAux {
			return 0, false
		}
		return c.fbi.auxoffs, true
	}
	return 0, false
}

// LfbLock grants direct linear access to a color or aux buffer. It fails
// (returns false) before a window exists or while another lock is held.
func (c *Context) LfbLock(lockType LfbLockType, buffer Buffer, writeMode LfbWriteMode, origin OriginLocation, pixelPipeline bool, info *LfbInfo) bool {
	if !c.ready() || info == nil || c.lfb.locked {
		return false
	}
	offs, ok := c.lfbBufferOffset(buffer)
	if !ok {
		return false
	}
	size := uint32(c.fbi.width) * uint32(c.fbi.height) * 2
	info.Buf = c.fbi.ram[offs : offs+size]
	info.StrideBytes = c.fbi.rowpixels * 2
	info.WriteMode = LfbWriteMode565
	info.Origin = origin
	c.lfb.locked = true
	c.lfb.buffer = buffer
	return true
}

// LfbUnlock releases a held lock.
func (c *Context) LfbUnlock(lockType LfbLockType, buffer Buffer) bool {
	if !c.ready() || !c.lfb.locked || buffer != c.lfb.buffer {
		return false
	}
	c.lfb.locked = false
	return true
}

// LfbWriteRegion copies a rectangle of 16-bit pixels into a buffer without
// running the pixel pipeline.
func (c *Context) LfbWriteRegion(buffer Buffer, dstX, dstY int32, srcFormat LfbWriteMode, width, height int32, pixels []uint16, strideWords int32) bool {
	if !c.ready() {
		return false
	}
	offs, ok := c.lfbBufferOffset(buffer)
	if !ok {
		return false
	}
	f := &c.fbi
	for y := int32(0); y < height; y++ {
		ty := dstY + y
		if ty < 0 || ty >= f.height {
			continue
		}
		row := offs + uint32(ty)*uint32(f.rowpixels)*2
		for x := int32(0); x < width; x++ {
			tx := dstX + x
			if tx < 0 || tx >= f.width {
				continue
			}
			src := y*strideWords + x
			if int(src) >= len(pixels) {
				return true
			}
			binary.LittleEndian.PutUint16(f.ram[row+uint32(tx)*2:], pixels[src])
		}
	}
	return true
}

// LfbReadRegion copies a rectangle of 16-bit pixels out of a buffer.
func (c *Context) LfbReadRegion(buffer Buffer, srcX, srcY int32, width, height int32, dst []uint16, strideWords int32) bool {
	if !c.ready() {
		return false
	}
	offs, ok := c.lfbBufferOffset(buffer)
	if !ok {
		return false
	}
	f := &c.fbi
	for y := int32(0); y < height; y++ {
		sy := srcY + y
		if sy < 0 || sy >= f.height {
			continue
		}
		row := offs + uint32(sy)*uint32(f.rowpixels)*2
		for x := int32(0); x < width; x++ {
			sx := srcX + x
			if sx < 0 || sx >= f.width {
				continue
			}
			d := y*strideWords + x
			if int(d) >= len(dst) {
				return true
			}
			dst[d] = binary.LittleEndian.Uint16(f.ram[row+uint32(sx)*2:])
		}
	}
	return true
}
