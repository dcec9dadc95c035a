package voodoo

import "log"

const (
	tmuRAMSize      = 2 << 20
	textureAlign    = 16 // every LOD offset is 16-byte aligned
	maxP8Regions    = 64
	numTexLODs      = 9
	bilinearMaskV1  = 0xF0 // Voodoo keeps 4 bits of bilinear fraction
)

// Shared ARGB32 expansion tables, one per compact format. Built once at
// startup and shared by both TMUs.
var (
	texelRGB332   [256]uint32
	texelAlpha8   [256]uint32
	texelInt8     [256]uint32
	texelAI44     [256]uint32
	texelRGB565   [65536]uint32
	texelARGB1555 [65536]uint32
	texelARGB4444 [65536]uint32
)

func init() {
	for v := uint32(0); v < 256; v++ {
		r := v >> 5 & 7
		g := v >> 2 & 7
		b := v & 3
		r = r<<5 | r<<2 | r>>1
		g = g<<5 | g<<2 | g>>1
		b = b<<6 | b<<4 | b<<2 | b
		texelRGB332[v] = 0xFF000000 | r<<16 | g<<8 | b

		texelAlpha8[v] = v<<24 | v<<16 | v<<8 | v
		texelInt8[v] = 0xFF000000 | v<<16 | v<<8 | v

		a := v&0xF0 | v>>4
		i := v<<4&0xF0 | v&0x0F
		texelAI44[v] = a<<24 | i<<16 | i<<8 | i
	}
	for v := uint32(0); v < 65536; v++ {
		r := v >> 11 & 0x1F
		g := v >> 5 & 0x3F
		b := v & 0x1F
		texelRGB565[v] = 0xFF000000 | (r<<3|r>>2)<<16 | (g<<2|g>>4)<<8 | (b<<3 | b>>2)

		var a uint32
		if v&0x8000 != 0 {
			a = 0xFF
		}
		r = v >> 10 & 0x1F
		g = v >> 5 & 0x1F
		b = v & 0x1F
		texelARGB1555[v] = a<<24 | (r<<3|r>>2)<<16 | (g<<3|g>>2)<<8 | (b<<3 | b>>2)

		a = v >> 12 & 0xF
		r = v >> 8 & 0xF
		g = v >> 4 & 0xF
		b = v & 0xF
		texelARGB4444[v] = (a<<4|a)<<24 | (r<<4|r)<<16 | (g<<4|g)<<8 | (b<<4 | b)
	}
}

// p8Region remembers a range of TMU RAM holding paletted texels so it can
// be re-decoded into the shadow buffer when the palette changes.
type p8Region struct {
	start uint32
	size  uint32 // texel count == byte count for 8-bit formats
}

// tmuState is one texture mapping unit.
type tmuState struct {
	index int
	ram   []byte
	mask  uint32

	// Parallel ARGB32 shadow: one word per byte of ram for 8-bit formats,
	// one word per texel for 16-bit formats. Holds pre-decoded texels for
	// the format they were uploaded in; shadowAlt records which palette the
	// paletted entries were decoded against.
	argb        []uint32
	shadowFmt   uint32
	shadowValid bool
	shadowAlt   bool

	p8Regions []p8Region

	palette  [256]uint32 // P8 colors, forced opaque at download
	paletteA [256]uint32 // alpha-capable palette (PALETTE6666)

	// alphaTable is set while a PALETTE6666 download is the most recent
	// table, selecting paletteA for paletted fetches (the textureMode NCC
	// select bit forces the same choice).
	alphaTable bool

	// Raw NCC table words, stored but never decompressed.
	ncc [2][32]uint32

	// Texture iteration state, 32 fraction bits internally.
	startS, startT int64 // from 14.18
	startW         int64 // from 2.30
	dsdx, dtdx     int64
	dsdy, dtdy     int64
	dwdx, dwdy     int64

	// LOD configuration derived from tLOD and the texture source.
	lodmin, lodmax int32 // .8 fixed
	lodbias        int32
	lodmask        uint32
	lodoffset      [numTexLODs]uint32

	wmask, hmask int32
	bilinearMask uint32

	active bool
}

func (t *tmuState) allocate(index int) {
	t.index = index
	t.ram = make([]byte, tmuRAMSize)
	t.argb = make([]uint32, tmuRAMSize)
	t.mask = tmuRAMSize - 1
	t.bilinearMask = bilinearMaskV1
	t.lodmask = 0x1FF
	for i := range t.palette {
		t.palette[i] = 0xFF000000
		t.paletteA[i] = 0
	}
}

func (t *tmuState) release() {
	t.ram = nil
	t.argb = nil
	t.p8Regions = nil
}

// isPaletteFormat reports whether a hardware format index fetches through
// the TMU palette.
func isPaletteFormat(format uint32) bool {
	return format == texFmtP8 || format == texFmtP8Alt || format == texFmtAP88
}

func is16BitFormat(format uint32) bool { return format >= 8 }

// paletteFor returns the lookup table a paletted fetch goes through: the
// plain opaque palette, or the alpha-capable one when alt is set.
func (t *tmuState) paletteFor(alt bool) *[256]uint32 {
	if alt {
		return &t.paletteA
	}
	return &t.palette
}

// decodeTexel expands one raw texel to ARGB32 for the given format. alt
// selects the alpha palette for the paletted formats. YIQ formats are not
// decompressed: they produce zero color, preserving only the explicit
// alpha byte of AYIQ8422.
func (t *tmuState) decodeTexel(format, raw uint32, alt bool) uint32 {
	switch format {
	case texFmtRGB332:
		return texelRGB332[raw&0xFF]
	case texFmtYIQ422:
		return 0
	case texFmtAlpha8:
		return texelAlpha8[raw&0xFF]
	case texFmtIntensity8:
		return texelInt8[raw&0xFF]
	case texFmtAI44:
		return texelAI44[raw&0xFF]
	case texFmtP8, texFmtP8Alt:
		return t.paletteFor(alt)[raw&0xFF]
	case texFmtARGB8332:
		return raw>>8<<24 | texelRGB332[raw&0xFF]&0x00FFFFFF
	case texFmtAYIQ8422:
		return raw >> 8 << 24
	case texFmtRGB565:
		return texelRGB565[raw&0xFFFF]
	case texFmtARGB1555:
		return texelARGB1555[raw&0xFFFF]
	case texFmtARGB4444:
		return texelARGB4444[raw&0xFFFF]
	case texFmtAI88:
		i := raw & 0xFF
		return raw>>8<<24 | i<<16 | i<<8 | i
	case texFmtAP88:
		return raw>>8<<24 | t.paletteFor(alt)[raw&0xFF]&0x00FFFFFF
	}
	return 0
}

// upload copies texel bytes into TMU RAM at start, refreshing the ARGB
// shadow and the P8 region list. Uploads that run past the end of RAM are
// truncated.
func (t *tmuState) upload(start uint32, data []byte, format uint32) {
	if t.ram == nil {
		return
	}
	if start >= uint32(len(t.ram)) {
		log.Printf("tmu%d: dropping texture upload at 0x%X", t.index, start)
		return
	}
	if start+uint32(len(data)) > uint32(len(t.ram)) {
		log.Printf("tmu%d: truncating texture upload at 0x%X (%d bytes)", t.index, start, len(data))
		data = data[:uint32(len(t.ram))-start]
	}
	copy(t.ram[start:], data)

	size := uint32(len(data))
	if isPaletteFormat(format) && !is16BitFormat(format) {
		t.trackP8Region(start, size)
	} else {
		t.dropP8Regions(start, size)
	}
	t.shadowDecode(start, size, format, t.alphaTable)
	t.shadowFmt = format
	t.shadowValid = true
}

// shadowDecode refreshes the ARGB shadow for a byte range of RAM, recording
// which palette the paletted entries were decoded against.
func (t *tmuState) shadowDecode(start, size uint32, format uint32, alt bool) {
	if is16BitFormat(format) {
		for off := start &^ 1; off+1 < start+size; off += 2 {
			raw := uint32(t.ram[off]) | uint32(t.ram[off+1])<<8
			t.argb[off>>1] = t.decodeTexel(format, raw, alt)
		}
	} else {
		for off := start; off < start+size; off++ {
			t.argb[off] = t.decodeTexel(format, uint32(t.ram[off]), alt)
		}
	}
	t.shadowAlt = alt
}

// trackP8Region records a paletted upload, merging overlapping or adjacent
// entries so every byte is covered at most once.
func (t *tmuState) trackP8Region(start, size uint32) {
	end := start + size
	merged := t.p8Regions[:0]
	for _, r := range t.p8Regions {
		rEnd := r.start + r.size
		if rEnd < start || r.start > end {
			merged = append(merged, r)
			continue
		}
		if r.start < start {
			start = r.start
		}
		if rEnd > end {
			end = rEnd
		}
	}
	t.p8Regions = merged
	if len(t.p8Regions) < maxP8Regions {
		t.p8Regions = append(t.p8Regions, p8Region{start: start, size: end - start})
	}
}

// dropP8Regions removes tracking for any paletted range overwritten by a
// non-paletted upload.
func (t *tmuState) dropP8Regions(start, size uint32) {
	end := start + size
	// A split can emit two entries for one input, so filter into a fresh
	// slice rather than reusing the backing array.
	kept := make([]p8Region, 0, len(t.p8Regions)+1)
	for _, r := range t.p8Regions {
		rEnd := r.start + r.size
		if rEnd <= start || r.start >= end {
			kept = append(kept, r)
			continue
		}
		// Keep any non-overlapped head or tail.
		if r.start < start {
			kept = append(kept, p8Region{start: r.start, size: start - r.start})
		}
		if rEnd > end {
			kept = append(kept, p8Region{start: end, size: rEnd - end})
		}
	}
	t.p8Regions = kept
}

// setPalette overwrites a 256-entry palette and re-decodes every tracked
// paletted region against it, so P8 textures pick up the new colors without
// a fresh upload. The plain palette forces opaque entries; the PALETTE6666
// table keeps its alpha channel and becomes the active lookup.
func (t *tmuState) setPalette(data []uint32, alpha bool) {
	n := len(data)
	if n > 256 {
		n = 256
	}
	for i := 0; i < n; i++ {
		if alpha {
			t.paletteA[i] = data[i]
		} else {
			t.palette[i] = 0xFF000000 | data[i]&0x00FFFFFF
		}
	}
	t.alphaTable = alpha
	for _, r := range t.p8Regions {
		t.shadowDecode(r.start, r.size, texFmtP8, alpha)
	}
}

// setNCC stores one of the two NCC tables. The words are kept for readback
// but never decompressed; YIQ formats decode as zero color.
func (t *tmuState) setNCC(which int, data []uint32) {
	n := len(data)
	if n > len(t.ncc[which]) {
		n = len(t.ncc[which])
	}
	copy(t.ncc[which][:], data[:n])
}

// texel fetches and decodes one texel at integer coordinates for the given
// LOD, going through the shadow buffer when it matches the active format
// and palette selection.
func (t *tmuState) texel(tm textureMode, texbase uint32, s, tt, ilod int32) uint32 {
	format := tm.format()
	alt := t.alphaTable
	if isPaletteFormat(format) && tm.nccSelect() {
		alt = true
	}
	rowTexels := uint32(t.wmask>>ilod) + 1
	if is16BitFormat(format) {
		addr := (texbase + (uint32(tt)*rowTexels+uint32(s))*2) & t.mask
		if t.shadowValid && t.shadowFmt == format && !isPaletteFormat(format) {
			return t.argb[addr>>1]
		}
		raw := uint32(t.ram[addr]) | uint32(t.ram[(addr+1)&t.mask])<<8
		return t.decodeTexel(format, raw, alt)
	}
	addr := (texbase + uint32(tt)*rowTexels + uint32(s)) & t.mask
	if t.shadowValid && t.shadowFmt == format && (!isPaletteFormat(format) || t.shadowAlt == alt) {
		return t.argb[addr]
	}
	return t.decodeTexel(format, uint32(t.ram[addr]), alt)
}

// lodDimensions computes Smax/Tmax for an integer LOD.
func (t *tmuState) lodDimensions(ilod int32) (smax, tmax int32) {
	return t.wmask >> ilod, t.hmask >> ilod
}
