package voodoo

// Combine units. The function selects the arithmetic shape, the factor the
// blend multiplier; both translate to deterministic fbzColorPath /
// textureMode bit patterns.
type CombineFunction int32

const (
	CombineFunctionZero CombineFunction = iota
	CombineFunctionLocal
	CombineFunctionLocalAlpha
	CombineFunctionScaleOther
	CombineFunctionScaleOtherAddLocal
	CombineFunctionScaleOtherAddLocalAlpha
	CombineFunctionScaleOtherMinusLocal
	CombineFunctionScaleOtherMinusLocalAddLocal
	CombineFunctionScaleOtherMinusLocalAddLocalAlpha
	CombineFunctionScaleMinusLocalAddLocal
	CombineFunctionScaleMinusLocalAddLocalAlpha
)

type CombineFactor int32

const (
	CombineFactorZero CombineFactor = iota
	CombineFactorLocal
	CombineFactorOtherAlpha
	CombineFactorLocalAlpha
	CombineFactorTextureAlpha
	CombineFactorTextureRGB
	CombineFactorDetailFactor = CombineFactorTextureAlpha
	CombineFactorLodFraction  = CombineFactorTextureRGB
)

const (
	CombineFactorOne CombineFactor = iota + 8
	CombineFactorOneMinusLocal
	CombineFactorOneMinusOtherAlpha
	CombineFactorOneMinusLocalAlpha
	CombineFactorOneMinusTextureAlpha
	CombineFactorOneMinusTextureRGB
	CombineFactorOneMinusDetailFactor = CombineFactorOneMinusTextureAlpha
	CombineFactorOneMinusLodFraction  = CombineFactorOneMinusTextureRGB
)

type CombineLocal int32

const (
	CombineLocalIterated CombineLocal = iota
	CombineLocalConstant
	CombineLocalDepth
)

type CombineOther int32

const (
	CombineOtherIterated CombineOther = iota
	CombineOtherTexture
	CombineOtherConstant
)

// combineBits translates a function/factor pair into the shared nine-bit
// combine shape (zero-other, sub-local, m-select, reverse, add-local,
// add-alpha, invert).
func combineBits(fn CombineFunction, factor CombineFactor, invert bool) (bits uint32) {
	switch fn {
	case CombineFunctionZero:
		bits |= 1 << 0 // zero other
	case CombineFunctionLocal:
		bits |= 1<<0 | 1<<6
	case CombineFunctionLocalAlpha:
		bits |= 1<<0 | 1<<7
	case CombineFunctionScaleOther:
	case CombineFunctionScaleOtherAddLocal:
		bits |= 1 << 6
	case CombineFunctionScaleOtherAddLocalAlpha:
		bits |= 1 << 7
	case CombineFunctionScaleOtherMinusLocal:
		bits |= 1 << 1
	case CombineFunctionScaleOtherMinusLocalAddLocal:
		bits |= 1<<1 | 1<<6
	case CombineFunctionScaleOtherMinusLocalAddLocalAlpha:
		bits |= 1<<1 | 1<<7
	case CombineFunctionScaleMinusLocalAddLocal:
		bits |= 1<<0 | 1<<1 | 1<<6
	case CombineFunctionScaleMinusLocalAddLocalAlpha:
		bits |= 1<<0 | 1<<1 | 1<<7
	}

	msel := uint32(factor) & 7
	if factor < CombineFactorOne {
		bits |= 1 << 5 // reverse blend: use the factor directly
	} else {
		msel = uint32(factor-CombineFactorOne) & 7
	}
	bits |= msel << 2

	if invert {
		bits |= 1 << 8
	}
	return bits
}

// factorNeedsTexture reports whether a combine factor reads the texture
// output.
func factorNeedsTexture(factor CombineFactor) bool {
	return factor == CombineFactorTextureAlpha || factor == CombineFactorTextureRGB ||
		factor == CombineFactorOneMinusTextureAlpha || factor == CombineFactorOneMinusTextureRGB
}

// updateTextureEnable re-derives fbzColorPath bit 27 from the two combine
// units' needs. Every combine setter funnels through here.
func (c *Context) updateTextureEnable() {
	v := c.reg.read(regFbzColorPath) &^ (1 << 27)
	if c.rgbNeedsTex || c.aNeedsTex {
		v |= 1 << 27
	}
	c.reg.write(regFbzColorPath, v)
}

// ColorCombine configures the RGB half of the color path.
func (c *Context) ColorCombine(fn CombineFunction, factor CombineFactor, local CombineLocal, other CombineOther, invert bool) {
	if !c.ready() {
		return
	}
	// zero-other(8) sub(9) msel(10-12) reverse(13) addC(14) addA(15) invert(16)
	shape := combineBits(fn, factor, invert)
	bits := shape>>0&1<<8 | shape>>1&1<<9 | shape>>2&7<<10 |
		shape>>5&1<<13 | shape>>6&1<<14 | shape>>7&1<<15 | shape>>8&1<<16

	v := c.reg.read(regFbzColorPath)
	v &^= 0x3 | 1<<4 | 1<<8 | 1<<9 | 7<<10 | 1<<13 | 1<<14 | 1<<15 | 1<<16
	v |= uint32(other) & 3
	if local == CombineLocalConstant {
		v |= 1 << 4
	}
	v |= bits
	c.reg.write(regFbzColorPath, v)

	c.rgbNeedsTex = other == CombineOtherTexture || factorNeedsTexture(factor)
	c.updateTextureEnable()
}

// AlphaCombine configures the alpha half of the color path.
func (c *Context) AlphaCombine(fn CombineFunction, factor CombineFactor, local CombineLocal, other CombineOther, invert bool) {
	if !c.ready() {
		return
	}
	shape := combineBits(fn, factor, invert)
	bits := shape>>0&1<<17 | shape>>1&1<<18 | shape>>2&7<<19 |
		shape>>5&1<<22 | shape>>6&1<<23 | shape>>7&1<<24 | shape>>8&1<<25

	v := c.reg.read(regFbzColorPath)
	v &^= 3<<2 | 3<<5 | 1<<17 | 1<<18 | 7<<19 | 1<<22 | 1<<23 | 1<<24 | 1<<25
	v |= uint32(other) & 3 << 2
	v |= uint32(local) & 3 << 5
	v |= bits
	c.reg.write(regFbzColorPath, v)

	c.aNeedsTex = other == CombineOtherTexture || factorNeedsTexture(factor)
	c.updateTextureEnable()
}

// ConstantColorValue sets the constant color used by the combine units and
// constant fog/blend paths.
func (c *Context) ConstantColorValue(argb uint32) {
	if !c.ready() {
		return
	}
	c.reg.write(regColor0, argb)
	c.reg.write(regColor1, argb)
}

type BlendFactor int32

const (
	BlendZero              BlendFactor = 0
	BlendSrcAlpha          BlendFactor = 1
	BlendSrcColor          BlendFactor = 2
	BlendDstColor          BlendFactor = 2
	BlendDstAlpha          BlendFactor = 3
	BlendOne               BlendFactor = 4
	BlendOneMinusSrcAlpha  BlendFactor = 5
	BlendOneMinusSrcColor  BlendFactor = 6
	BlendOneMinusDstColor  BlendFactor = 6
	BlendOneMinusDstAlpha  BlendFactor = 7
	BlendAlphaSaturate     BlendFactor = 15
	BlendPrefogColor       BlendFactor = 15
)

// AlphaBlendFunction enables blending with the four given factors.
func (c *Context) AlphaBlendFunction(srcRGB, dstRGB, srcA, dstA BlendFactor) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regAlphaMode)
	v &^= 0xF<<8 | 0xF<<12 | 0xF<<16 | 0xF<<20
	v |= 1 << 4
	v |= uint32(srcRGB) & 0xF << 8
	v |= uint32(dstRGB) & 0xF << 12
	v |= uint32(srcA) & 0xF << 16
	v |= uint32(dstA) & 0xF << 20
	c.reg.write(regAlphaMode, v)
}

type CmpFunction int32

const (
	CmpNever CmpFunction = iota
	CmpLess
	CmpEqual
	CmpLessEqual
	CmpGreater
	CmpNotEqual
	CmpGreaterEqual
	CmpAlways
)

// AlphaTestFunction sets the alpha test comparison and enables the test
// (ALWAYS disables it, matching the hardware's no-op behavior).
func (c *Context) AlphaTestFunction(fn CmpFunction) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regAlphaMode) &^ (7<<1 | 1)
	v |= uint32(fn) & 7 << 1
	if fn != CmpAlways {
		v |= 1
	}
	c.reg.write(regAlphaMode, v)
}

// AlphaTestReferenceValue sets the 8-bit alpha reference.
func (c *Context) AlphaTestReferenceValue(ref uint8) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regAlphaMode)&0x00FFFFFF | uint32(ref)<<24
	c.reg.write(regAlphaMode, v)
}

// ColorMask gates RGB and alpha-plane writes. The aux write enable bit is
// kept equal to (depth mask OR alpha mask).
func (c *Context) ColorMask(rgb, alpha bool) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regFbzMode) &^ (1<<9 | 1<<18)
	if rgb {
		v |= 1 << 9
	}
	if alpha {
		v |= 1 << 18
	}
	c.reg.write(regFbzMode, v)
	c.alphaMask = alpha
	c.updateAuxMask()
}

// DepthMask gates depth buffer writes.
func (c *Context) DepthMask(enable bool) {
	if !c.ready() {
		return
	}
	c.depthMask = enable
	c.updateAuxMask()
}

func (c *Context) updateAuxMask() {
	v := c.reg.read(regFbzMode) &^ (1 << 10)
	if c.depthMask || c.alphaMask {
		v |= 1 << 10
	}
	c.reg.write(regFbzMode, v)
}

// DepthBufferFunction sets the depth comparison.
func (c *Context) DepthBufferFunction(fn CmpFunction) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regFbzMode)&^(7<<5) | uint32(fn)&7<<5
	c.reg.write(regFbzMode, v)
}

type DepthBufferMode int32

const (
	DepthBufferDisable DepthBufferMode = iota
	DepthBufferZBuffer
	DepthBufferWBuffer
	DepthBufferZBufferCompareToBias
	DepthBufferWBufferCompareToBias
)

// DepthBufferModeValue selects Z vs W buffering and bias-compare modes.
func (c *Context) DepthBufferModeValue(mode DepthBufferMode) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regFbzMode) &^ (1<<3 | 1<<4 | 1<<20)
	switch mode {
	case DepthBufferZBuffer:
		v |= 1 << 4
	case DepthBufferWBuffer:
		v |= 1<<3 | 1<<4
	case DepthBufferZBufferCompareToBias:
		v |= 1<<4 | 1<<20
	case DepthBufferWBufferCompareToBias:
		v |= 1<<3 | 1<<4 | 1<<20
	}
	c.reg.write(regFbzMode, v)
}

// DepthBiasLevel sets the signed 16-bit depth bias held in zaColor.
func (c *Context) DepthBiasLevel(level int16) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regZaColor)&0xFFFF0000 | uint32(uint16(level))
	c.reg.write(regZaColor, v)
	fb := c.reg.read(regFbzMode) &^ (1 << 16)
	if level != 0 {
		fb |= 1 << 16
	}
	c.reg.write(regFbzMode, fb)
}

type DitherMode int32

const (
	DitherDisable DitherMode = iota
	Dither2x2
	Dither4x4
)

func (c *Context) DitherMode(mode DitherMode) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regFbzMode) &^ (1<<8 | 1<<11)
	switch mode {
	case Dither2x2:
		v |= 1<<8 | 1<<11
	case Dither4x4:
		v |= 1 << 8
	}
	c.reg.write(regFbzMode, v)
}

type StippleModeValue int32

const (
	StippleDisable StippleModeValue = iota
	StipplePatternMode
	StippleRotate
)

// StippleMode enables the stipple stage in pattern or rotate mode.
func (c *Context) StippleMode(mode StippleModeValue) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regFbzMode) &^ (1<<2 | 1<<12)
	switch mode {
	case StipplePatternMode:
		v |= 1<<2 | 1<<12
	case StippleRotate:
		v |= 1 << 2
	}
	c.reg.write(regFbzMode, v)
}

// StipplePattern loads the 32-bit stipple register.
func (c *Context) StipplePattern(pattern uint32) {
	if !c.ready() {
		return
	}
	c.reg.write(regStipple, pattern)
}

type ChromakeyMode int32

const (
	ChromakeyDisable ChromakeyMode = iota
	ChromakeyEnable
)

func (c *Context) ChromakeyMode(mode ChromakeyMode) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regFbzMode) &^ (1 << 1)
	if mode == ChromakeyEnable {
		v |= 1 << 1
	}
	c.reg.write(regFbzMode, v)
}

func (c *Context) ChromakeyValue(color uint32) {
	if !c.ready() {
		return
	}
	c.reg.write(regChromaKey, color)
}

func (c *Context) ChromaRangeValue(color uint32, mode uint32) {
	if !c.ready() {
		return
	}
	c.reg.write(regChromaRange, color|mode)
}

func (c *Context) CullMode(mode CullMode) {
	if !c.ready() {
		return
	}
	c.fbi.cullMode = mode
}

// ClipWindow stores the clamped clip rectangle both in the software clip
// fields and the clip registers.
func (c *Context) ClipWindow(left, top, right, bottom int32) {
	if !c.ready() {
		return
	}
	f := &c.fbi
	if left < 0 {
		left = 0
	}
	if top < 0 {
		top = 0
	}
	if right > f.width {
		right = f.width
	}
	if bottom > f.height {
		bottom = f.height
	}
	if left > right {
		left = right
	}
	if top > bottom {
		top = bottom
	}
	f.clipLeft, f.clipTop = left, top
	f.clipRight, f.clipBottom = right, bottom
	c.reg.write(regClipLeftRight, uint32(left)&maxClip<<16|uint32(right)&maxClip)
	c.reg.write(regClipLowYHighY, uint32(top)&maxClip<<16|uint32(bottom)&maxClip)

	v := c.reg.read(regFbzMode) | 1<<0
	c.reg.write(regFbzMode, v)
}

// Origin places the Y origin at the upper or lower left; lower left flips
// every row through yorigin.
func (c *Context) Origin(origin OriginLocation) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regFbzMode) &^ (1 << 17)
	if origin == OriginLowerLeft {
		v |= 1 << 17
		c.fbi.yorigin = c.fbi.height - 1
	} else {
		c.fbi.yorigin = 0
	}
	c.reg.write(regFbzMode, v)
}

// Viewport sets the screen-space offset applied to every vertex.
func (c *Context) Viewport(x, y, width, height int32) {
	if !c.ready() {
		return
	}
	c.fbi.vpX = float32(x)
	c.fbi.vpY = float32(y)
}

type FogModeFlag int32

const (
	FogDisable      FogModeFlag = 0
	FogWithTableOnQ FogModeFlag = 1 << 0
	FogWithIterated FogModeFlag = 1 << 1
	FogMultAlpha    FogModeFlag = 1 << 2
	FogAddAlpha     FogModeFlag = 1 << 3
)

// FogMode configures the fog unit. Table fog blends on floating W; iterated
// fog uses the vertex alpha channel as the blend value.
func (c *Context) FogMode(mode FogModeFlag) {
	if !c.ready() {
		return
	}
	var v uint32
	if mode&FogWithTableOnQ != 0 {
		v |= 1 | uint32(fogSrcWTable)<<3
	}
	if mode&FogWithIterated != 0 {
		v |= 1 | uint32(fogSrcAlpha)<<3
	}
	if mode&FogMultAlpha != 0 {
		v |= 1 << 2
	}
	if mode&FogAddAlpha != 0 {
		v |= 1 << 1
	}
	c.reg.write(regFogMode, v)
}

func (c *Context) FogColorValue(argb uint32) {
	if !c.ready() {
		return
	}
	c.reg.write(regFogColor, argb)
}

// FogTable downloads the 64-entry fog blend table. Deltas between adjacent
// entries feed the in-segment interpolation.
func (c *Context) FogTable(table []uint8) {
	if !c.ready() || len(table) < 64 {
		return
	}
	for i := 0; i < 32; i++ {
		b0 := table[i*2]
		b1 := table[i*2+1]
		var d0, d1 uint8
		d0 = b1 - b0
		if i*2+2 < 64 {
			d1 = table[i*2+2] - b1
		}
		word := uint32(d0) | uint32(b0)<<8 | uint32(d1)<<16 | uint32(b1)<<24
		c.reg.write(regFogTable+i, word)
		c.fbi.writeFogTable(i, word)
	}
}

// BufferClear fills the clip rectangle of the draw buffer with the given
// color and the aux plane with depth, by loading color1/zaColor and issuing
// a fast fill. Alpha is loaded into the top byte of zaColor; the fast fill
// writes only the depth word to the aux plane, so alpha is not written
// there even when alpha planes are enabled.
func (c *Context) BufferClear(color uint32, alpha uint8, depth uint16) {
	if !c.ready() {
		return
	}
	c.reg.write(regColor1, color)
	za := uint32(alpha)<<24 | uint32(depth)
	c.reg.write(regZaColor, za)
	c.reg.write(regFastfillCMD, 0)
	c.fastFill()
}

// BufferSwap exchanges the front and back buffers. The swap interval is
// accepted for contract compatibility; all writes made before the swap are
// observed by the display.
func (c *Context) BufferSwap(interval int) {
	if !c.ready() {
		return
	}
	c.reg.write(regSwapbufferCMD, uint32(interval))
	c.fbi.swap()
}

// RenderBuffer selects the draw buffer for subsequent rendering.
func (c *Context) RenderBuffer(buf Buffer) {
	if !c.ready() {
		return
	}
	v := c.reg.read(regFbzMode) &^ (3 << 14)
	if buf == BufferBack {
		v |= 1 << 14
	}
	c.reg.write(regFbzMode, v)
}

// Query parameter names for Get and GetString.
type Pname int32

const (
	QueryNumBoards Pname = iota
	QueryNumFB
	QueryNumTMU
	QueryMemoryFB
	QueryMemoryTMU
	QueryMaxTextureSize
	QueryMaxTextureAspect
	QueryBitsDepth
	QueryBitsRGBA
	QueryPixelsIn
	QueryPixelsOut
	QueryZfuncFail
	QueryAfuncFail
	QueryChromaFail
	QueryRevision
)

type StringPname int32

const (
	StringVendor StringPname = iota
	StringRenderer
	StringVersion
	StringHardware
	StringExtension
)

// Get writes query results into data and reports whether the parameter was
// recognized. Unknown parameters leave data untouched and return false.
func (c *Context) Get(pname Pname, data []int32) bool {
	if c == nil || len(data) == 0 {
		return false
	}
	put := func(v ...int32) bool {
		copy(data, v)
		return true
	}
	switch pname {
	case QueryNumBoards:
		return put(1)
	case QueryNumFB:
		return put(1)
	case QueryNumTMU:
		return put(2)
	case QueryMemoryFB:
		return put(fbiRAMSize)
	case QueryMemoryTMU:
		return put(tmuRAMSize)
	case QueryMaxTextureSize:
		return put(256)
	case QueryMaxTextureAspect:
		return put(3)
	case QueryBitsDepth:
		return put(16)
	case QueryBitsRGBA:
		return put(5, 6, 5, 0)
	case QueryPixelsIn:
		return put(c.fbi.stats.pixelsIn)
	case QueryPixelsOut:
		return put(c.fbi.stats.pixelsOut)
	case QueryZfuncFail:
		return put(c.fbi.stats.zfuncFail)
	case QueryAfuncFail:
		return put(c.fbi.stats.afuncFail)
	case QueryChromaFail:
		return put(c.fbi.stats.chromaFail)
	case QueryRevision:
		return put(2)
	}
	return false
}

// GetString returns a static identification string; unknown names yield the
// empty string.
func (c *Context) GetString(pname StringPname) string {
	switch pname {
	case StringVendor:
		return "3Dfx Interactive"
	case StringRenderer:
		return "Glide"
	case StringVersion:
		return "3.0"
	case StringHardware:
		return "Voodoo2 (TM)"
	case StringExtension:
		return ""
	}
	return ""
}

// GetProcAddress resolves an extension entry point from a static table.
func (c *Context) GetProcAddress(name string) interface{} {
	switch name {
	case "grGet":
		return c.Get
	case "grGetString":
		return c.GetString
	case "grBufferClear":
		return c.BufferClear
	case "grBufferSwap":
		return c.BufferSwap
	case "grDrawTriangle":
		return c.DrawTriangle
	case "grLfbLock":
		return c.LfbLock
	case "grLfbUnlock":
		return c.LfbUnlock
	}
	return nil
}

// HwConfig describes the emulated board set.
type HwConfig struct {
	NumSST    int
	FbRAM     int
	TmuCount  int
	TmuRAM    int
}

// QueryHardware reports the single emulated Voodoo 2.
func (c *Context) QueryHardware() (HwConfig, bool) {
	if c == nil {
		return HwConfig{}, false
	}
	return HwConfig{NumSST: 1, FbRAM: fbiRAMSize, TmuCount: 2, TmuRAM: tmuRAMSize}, true
}

// QueryBoards returns the number of boards installed.
func (c *Context) QueryBoards() int { return 1 }

// SelectBoard activates a board; only board 0 exists.
func (c *Context) SelectBoard(which int) bool { return which == 0 }
