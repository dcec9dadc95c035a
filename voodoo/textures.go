package voodoo

import "log"

// TexFormat is the wire-level texture format of uploads. Values match the
// hardware format indices used in textureMode bits 8-11.
type TexFormat int32

const (
	TexFmtRGB332     TexFormat = texFmtRGB332
	TexFmtYIQ422     TexFormat = texFmtYIQ422
	TexFmtAlpha8     TexFormat = texFmtAlpha8
	TexFmtIntensity8 TexFormat = texFmtIntensity8
	TexFmtAI44       TexFormat = texFmtAI44
	TexFmtP8         TexFormat = texFmtP8
	TexFmtARGB8332   TexFormat = texFmtARGB8332
	TexFmtAYIQ8422   TexFormat = texFmtAYIQ8422
	TexFmtRGB565     TexFormat = texFmtRGB565
	TexFmtARGB1555   TexFormat = texFmtARGB1555
	TexFmtARGB4444   TexFormat = texFmtARGB4444
	TexFmtAI88       TexFormat = texFmtAI88
	TexFmtAP88       TexFormat = texFmtAP88
)

// LOD constants name mip levels by their largest-dimension log2.
type LOD int32

const (
	LodLog2_1 LOD = iota
	LodLog2_2
	LodLog2_4
	LodLog2_8
	LodLog2_16
	LodLog2_32
	LodLog2_64
	LodLog2_128
	LodLog2_256
)

// AspectLog2 is log2(width/height): positive when S is wider.
type AspectLog2 int32

const (
	Aspect8x1 AspectLog2 = 3
	Aspect4x1 AspectLog2 = 2
	Aspect2x1 AspectLog2 = 1
	Aspect1x1 AspectLog2 = 0
	Aspect1x2 AspectLog2 = -1
	Aspect1x4 AspectLog2 = -2
	Aspect1x8 AspectLog2 = -3
)

// TexInfo describes a mipmapped texture: the LOD range, aspect, format, and
// (for downloads) the raw texel data, concatenated largest-to-smallest.
type TexInfo struct {
	SmallLodLog2 LOD
	LargeLodLog2 LOD
	AspectLog2   AspectLog2
	Format       TexFormat
	Data         []byte
}

// lodSize returns the dimensions of mip level lod (by largest-dim log2)
// under the given aspect.
func lodSize(lod LOD, aspect AspectLog2) (w, h int32) {
	w = 1 << uint(lod)
	h = w
	if aspect >= 0 {
		h >>= uint(aspect)
	} else {
		w >>= uint(-aspect)
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func bytesPerTexel(format TexFormat) int32 {
	if is16BitFormat(uint32(format)) {
		return 2
	}
	return 1
}

// alignTexture rounds a byte size up to the 16-byte texture alignment.
func alignTexture(n int32) int32 {
	return (n + textureAlign - 1) &^ (textureAlign - 1)
}

// lodBytes is the aligned storage size of one mip level.
func lodBytes(lod LOD, aspect AspectLog2, format TexFormat) int32 {
	w, h := lodSize(lod, aspect)
	return alignTexture(w * h * bytesPerTexel(format))
}

// TexTextureMemRequired computes the bytes a texture occupies when
// downloaded: every level from large to small, each 16-byte aligned.
func (c *Context) TexTextureMemRequired(info *TexInfo) uint32 {
	if info == nil {
		return 0
	}
	var total int32
	for lod := info.LargeLodLog2; lod >= info.SmallLodLog2; lod-- {
		total += lodBytes(lod, info.AspectLog2, info.Format)
	}
	return uint32(total)
}

// TexMinAddress returns the lowest usable texture start address.
func (c *Context) TexMinAddress(tmu int) uint32 { return 0 }

// TexMaxAddress returns the highest usable texture start address.
func (c *Context) TexMaxAddress(tmu int) uint32 { return tmuRAMSize - textureAlign }

func (c *Context) tmuOK(tmu int) bool {
	return c.ready() && tmu >= 0 && tmu < len(c.tmu)
}

// TexSource points a TMU at a downloaded texture: it derives the per-LOD
// byte offsets, dimension masks, and LOD clamp range, and writes the tLOD
// register accordingly.
func (c *Context) TexSource(tmu int, startAddress uint32, evenOdd uint32, info *TexInfo) {
	if !c.tmuOK(tmu) || info == nil {
		return
	}
	t := &c.tmu[tmu]

	w, h := lodSize(info.LargeLodLog2, info.AspectLog2)
	t.wmask = w - 1
	t.hmask = h - 1

	levels := int32(info.LargeLodLog2 - info.SmallLodLog2)
	if levels < 0 {
		levels = 0
	}
	t.lodmask = 0
	offset := startAddress
	for i := int32(0); i <= levels && i < numTexLODs; i++ {
		t.lodoffset[i] = offset
		t.lodmask |= 1 << uint(i)
		offset += uint32(lodBytes(info.LargeLodLog2-LOD(i), info.AspectLog2, info.Format))
	}
	for i := levels + 1; i < numTexLODs; i++ {
		t.lodoffset[i] = t.lodoffset[levels]
	}

	t.lodmin = 0
	t.lodmax = levels << 8
	t.active = true

	// Mirror the derived state into tLOD for register-level readers.
	tlod := uint32(0)
	tlod |= uint32(levels) << 2 << 6 // lodmax in 4.2
	if info.AspectLog2 > 0 {
		tlod |= 1 << 20
		tlod |= uint32(info.AspectLog2) & 3 << 21
	} else if info.AspectLog2 < 0 {
		tlod |= uint32(-info.AspectLog2) & 3 << 21
	}
	c.reg.write(tmuRegBase(tmu)+regTLOD, tlod)
	c.reg.write(tmuRegBase(tmu)+regTexBaseAddr, startAddress)

	tm := c.reg.read(tmuRegBase(tmu)+regTextureMode)&^(0xF<<8) | uint32(info.Format)&0xF<<8
	c.reg.write(tmuRegBase(tmu)+regTextureMode, tm)
}

// TexDownloadMipMap uploads a complete mip chain at startAddress and points
// the TMU at it.
func (c *Context) TexDownloadMipMap(tmu int, startAddress uint32, evenOdd uint32, info *TexInfo) {
	if !c.tmuOK(tmu) || info == nil {
		return
	}
	offset := startAddress
	data := info.Data
	for lod := info.LargeLodLog2; lod >= info.SmallLodLog2; lod-- {
		w, h := lodSize(lod, info.AspectLog2)
		n := w * h * bytesPerTexel(info.Format)
		if int(n) > len(data) {
			log.Printf("tmu%d: short mipmap download at lod %d", tmu, lod)
			n = int32(len(data))
		}
		c.tmu[tmu].upload(offset, data[:n], uint32(info.Format))
		data = data[n:]
		offset += uint32(lodBytes(lod, info.AspectLog2, info.Format))
	}
	c.TexSource(tmu, startAddress, evenOdd, info)
}

// TexDownloadMipMapLevel uploads one mip level.
func (c *Context) TexDownloadMipMapLevel(tmu int, startAddress uint32, thisLod, largeLod LOD, aspect AspectLog2, format TexFormat, evenOdd uint32, data []byte) {
	if !c.tmuOK(tmu) {
		return
	}
	offset := startAddress
	for lod := largeLod; lod > thisLod; lod-- {
		offset += uint32(lodBytes(lod, aspect, format))
	}
	w, h := lodSize(thisLod, aspect)
	n := int(w * h * bytesPerTexel(format))
	if n > len(data) {
		n = len(data)
	}
	c.tmu[tmu].upload(offset, data[:n], uint32(format))
}

// TexDownloadMipMapLevelPartial uploads rows [startRow, endRow] of one mip
// level. Offsets are computed strictly by row bytes, mirroring the original
// behavior for partial updates.
func (c *Context) TexDownloadMipMapLevelPartial(tmu int, startAddress uint32, thisLod, largeLod LOD, aspect AspectLog2, format TexFormat, evenOdd uint32, data []byte, startRow, endRow int32) {
	if !c.tmuOK(tmu) || startRow > endRow {
		return
	}
	offset := startAddress
	for lod := largeLod; lod > thisLod; lod-- {
		offset += uint32(lodBytes(lod, aspect, format))
	}
	w, _ := lodSize(thisLod, aspect)
	rowBytes := w * bytesPerTexel(format)
	offset += uint32(startRow * rowBytes)
	n := int((endRow - startRow + 1) * rowBytes)
	if n > len(data) {
		n = len(data)
	}
	c.tmu[tmu].upload(offset, data[:n], uint32(format))
}

// TexCombine configures a TMU's combine unit for RGB and alpha.
func (c *Context) TexCombine(tmu int, rgbFn CombineFunction, rgbFactor CombineFactor, aFn CombineFunction, aFactor CombineFactor, rgbInvert, aInvert bool) {
	if !c.tmuOK(tmu) {
		return
	}
	rgb := combineBits(rgbFn, rgbFactor, rgbInvert)
	alpha := combineBits(aFn, aFactor, aInvert)

	idx := tmuRegBase(tmu) + regTextureMode
	v := c.reg.read(idx) &^ (0x3FFFF << 12)
	v |= rgb & 0x1FF << 12
	v |= alpha & 0x1FF << 21
	c.reg.write(idx, v)
}

type TextureFilter int32

const (
	TextureFilterPoint TextureFilter = iota
	TextureFilterBilinear
)

func (c *Context) TexFilterMode(tmu int, minFilter, magFilter TextureFilter) {
	if !c.tmuOK(tmu) {
		return
	}
	idx := tmuRegBase(tmu) + regTextureMode
	v := c.reg.read(idx) &^ (1<<1 | 1<<2)
	if minFilter == TextureFilterBilinear {
		v |= 1 << 1
	}
	if magFilter == TextureFilterBilinear {
		v |= 1 << 2
	}
	c.reg.write(idx, v)
}

type TextureClamp int32

const (
	TextureWrap TextureClamp = iota
	TextureClampMode
)

func (c *Context) TexClampMode(tmu int, sMode, tMode TextureClamp) {
	if !c.tmuOK(tmu) {
		return
	}
	idx := tmuRegBase(tmu) + regTextureMode
	v := c.reg.read(idx) &^ (1<<6 | 1<<7)
	if sMode == TextureClampMode {
		v |= 1 << 6
	}
	if tMode == TextureClampMode {
		v |= 1 << 7
	}
	c.reg.write(idx, v)
}

type MipMapMode int32

const (
	MipMapDisable MipMapMode = iota
	MipMapNearest
	MipMapNearestDither
)

// TexMipMapMode selects mip level behavior: disabling clamps everything to
// the large level, dither mode enables the per-pixel LOD jitter.
func (c *Context) TexMipMapMode(tmu int, mode MipMapMode, lodBlend bool) {
	if !c.tmuOK(tmu) {
		return
	}
	t := &c.tmu[tmu]
	idx := tmuRegBase(tmu) + regTextureMode
	v := c.reg.read(idx) &^ (1<<4 | 1<<30)
	switch mode {
	case MipMapDisable:
		t.lodmax = 0
	case MipMapNearestDither:
		v |= 1 << 4
	}
	if lodBlend {
		v |= 1 << 30
	}
	c.reg.write(idx, v)
}

// TexLodBiasValue sets the LOD bias in levels (4.2 precision in tLOD).
func (c *Context) TexLodBiasValue(tmu int, bias float32) {
	if !c.tmuOK(tmu) {
		return
	}
	b := int32(bias * 4) // 4.2
	if b < -32 {
		b = -32
	}
	if b > 31 {
		b = 31
	}
	idx := tmuRegBase(tmu) + regTLOD
	v := c.reg.read(idx)&^(0x3F<<12) | uint32(b)&0x3F<<12
	c.reg.write(idx, v)
	c.tmu[tmu].lodbias = texLOD(v).lodBias()
}

// TexTable selects the download-table kind for TexDownloadTable.
type TexTable int32

const (
	TexTableNCC0 TexTable = iota
	TexTableNCC1
	TexTablePalette
	TexTablePalette6666
)

// TexDownloadTable downloads a palette, an alpha-capable PALETTE6666 table,
// or an NCC table to a TMU. A PALETTE6666 download becomes the active
// paletted lookup, with its alpha channel intact; NCC tables are stored but
// not decompressed, so YIQ formats render as zero color.
func (c *Context) TexDownloadTable(tmu int, kind TexTable, data []uint32) {
	if !c.tmuOK(tmu) {
		return
	}
	switch kind {
	case TexTablePalette:
		c.tmu[tmu].setPalette(data, false)
	case TexTablePalette6666:
		c.tmu[tmu].setPalette(data, true)
	case TexTableNCC0:
		c.tmu[tmu].setNCC(0, data)
	case TexTableNCC1:
		c.tmu[tmu].setNCC(1, data)
	}
}

// TexPerspectiveMode toggles perspective correction for a TMU.
func (c *Context) TexPerspectiveMode(tmu int, enable bool) {
	if !c.tmuOK(tmu) {
		return
	}
	idx := tmuRegBase(tmu) + regTextureMode
	v := c.reg.read(idx) &^ 1
	if enable {
		v |= 1
	}
	c.reg.write(idx, v)
}
