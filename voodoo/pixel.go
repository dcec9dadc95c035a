package voodoo

import "encoding/binary"

// pixelIters carries every iterator value at the current pixel.
type pixelIters struct {
	r, g, b, a int32 // 12.12
	z          int32 // 20.12
	w          int64 // 16.32
	tex        [2]texIter
}

// pixelPipeline runs one pixel through the full fixed-function pipeline:
// stipple, depth, depth test, color path, chroma key, alpha mask, alpha
// test, fog, alpha blend, dither, write. Each stage either accepts the
// pixel or rejects it, bumping the matching failure counter.
func (c *Context) pixelPipeline(px *pixelIters, x, y int32, dest, aux []byte) {
	f := &c.fbi
	fbz := fbzMode(c.reg.read(regFbzMode))
	fcp := fbzColorPath(c.reg.read(regFbzColorPath))
	amode := alphaMode(c.reg.read(regAlphaMode))

	f.stats.pixelsIn++

	// 1. Stipple.
	if fbz.enableStipple() {
		stip := c.reg.read(regStipple)
		if fbz.stipplePattern() {
			bit := (uint32(y)&3)<<3 | ^uint32(x)&7
			if stip>>bit&1 == 0 {
				return
			}
		} else {
			stip = stip<<1 | stip>>31
			c.reg.write(regStipple, stip)
			if stip&0x80000000 == 0 {
				return
			}
		}
	}

	// 2. Depth value.
	var depthval int32
	if fbz.wbufferSelect() {
		depthval = wFloat(px.w)
	} else if fbz.depthFloatSelect() {
		depthval = zFloat(px.z)
	} else {
		depthval = clampToUint16(px.z >> 12)
	}
	if fbz.enableDepthBias() {
		depthval = clampToUint16(depthval + int32(int16(c.reg.read(regZaColor))))
	}

	// 3. Depth test.
	if fbz.enableDepthbuf() && aux != nil {
		depthsource := depthval
		if fbz.depthSourceCompare() {
			depthsource = int32(uint16(c.reg.read(regZaColor)))
		}
		depthdest := int32(binary.LittleEndian.Uint16(aux[x*2:]))
		if !compare(fbz.depthFunction(), depthsource, depthdest) {
			f.stats.zfuncFail++
			return
		}
	}

	// 4. Texture unit.
	var texel uint32
	texEnable := fcp.textureEnable()
	if texEnable {
		texel = c.textureUnit(x, px.tex[0], px.tex[1])
	}

	// 5. Color path: select c_other, chroma key it, select a_other, apply
	// alpha mask and alpha test, then run the combine arithmetic.
	iterR := clampedARGB(px.r, fcp)
	iterG := clampedARGB(px.g, fcp)
	iterB := clampedARGB(px.b, fcp)
	iterA := clampedARGB(px.a, fcp)

	var or, og, ob int32
	switch fcp.rgbSelect() {
	case ccSelectIterated:
		or, og, ob = iterR, iterG, iterB
		// Decal compatibility: iterated RGB with neither zero-other nor a
		// c_local add configured passes the texture through unchanged.
		if texEnable && !fcp.zeroOther() && !fcp.addCLocal() {
			or = int32(texel >> 16 & 0xFF)
			og = int32(texel >> 8 & 0xFF)
			ob = int32(texel & 0xFF)
		}
	case ccSelectTexture:
		or = int32(texel >> 16 & 0xFF)
		og = int32(texel >> 8 & 0xFF)
		ob = int32(texel & 0xFF)
	case ccSelectColor1, ccSelectLFB:
		_, r1, g1, b1 := c.reg.rgba(regColor1)
		or, og, ob = int32(r1), int32(g1), int32(b1)
	}

	if fbz.enableChromakey() {
		if c.chromaKeyTest(or, og, ob) {
			f.stats.chromaFail++
			return
		}
	}

	var oa int32
	switch fcp.aSelect() {
	case ccSelectIterated:
		oa = iterA
	case ccSelectTexture:
		oa = int32(texel >> 24)
	default:
		a1, _, _, _ := c.reg.rgba(regColor1)
		oa = int32(a1)
	}

	// 6. Alpha mask.
	if fbz.enableAlphaMask() && oa&1 == 0 {
		f.stats.afuncFail++
		return
	}

	// 7. Alpha test.
	if amode.alphaTest() {
		if !compare(amode.alphaFunction(), oa, amode.alphaRef()) {
			f.stats.afuncFail++
			return
		}
	}

	// Local color and alpha.
	var lr, lg, lb int32
	if !fcp.localSelect() {
		lr, lg, lb = iterR, iterG, iterB
	} else {
		_, r0, g0, b0 := c.reg.rgba(regColor0)
		lr, lg, lb = int32(r0), int32(g0), int32(b0)
	}
	var la int32
	switch fcp.localSelectA() {
	case 1:
		a0, _, _, _ := c.reg.rgba(regColor0)
		la = int32(a0)
	case 2:
		la = clampToByte(clampedZ(px.z, fcp) >> 8)
	default:
		la = iterA
	}

	r, g, b := c.combineColor(fcp, or, og, ob, oa, lr, lg, lb, la, texel)
	a := c.combineAlpha(fcp, oa, la, texel)

	// Pre-fog color, kept for the dst blend factor 15 quirk.
	prefogR, prefogG, prefogB := r, g, b

	// 8. Fog.
	fog := fogMode(c.reg.read(regFogMode))
	if fog.enable() {
		r, g, b = c.applyFog(fog, fcp, r, g, b, iterA, px, x, y)
	}

	// 9. Alpha blend.
	if amode.alphaBlend() {
		r, g, b, a = c.alphaBlend(amode, fbz, r, g, b, a, prefogR, prefogG, prefogB, dest, aux, x)
	}

	// 10-11. Dither and write.
	if fbz.rgbBufferMask() {
		dr, dg, db := ditherPixel(fbz, r, g, b, x, y)
		binary.LittleEndian.PutUint16(dest[x*2:], uint16(dr<<11|dg<<5|db))
	}
	if aux != nil && fbz.auxBufferMask() {
		if fbz.enableAlphaPlanes() {
			binary.LittleEndian.PutUint16(aux[x*2:], uint16(a))
		} else {
			binary.LittleEndian.PutUint16(aux[x*2:], uint16(depthval))
		}
	}

	f.stats.pixelsOut++
}

// compare evaluates one of the eight shared comparison functions.
func compare(fn uint32, value, ref int32) bool {
	switch fn {
	case cmpNever:
		return false
	case cmpLess:
		return value < ref
	case cmpEqual:
		return value == ref
	case cmpLessEqual:
		return value <= ref
	case cmpGreater:
		return value > ref
	case cmpNotEqual:
		return value != ref
	case cmpGreaterEqual:
		return value >= ref
	}
	return true
}

// chromaKeyTest reports whether incoming RGB matches the chroma key: an
// exact match against chromaKey, or the per-channel range test against
// chromaKey low and chromaRange high when range keying is enabled.
func (c *Context) chromaKeyTest(r, g, b int32) bool {
	key := c.reg.read(regChromaKey)
	rng := chromaRange(c.reg.read(regChromaRange))

	if !rng.enable() {
		return uint32(r)<<16|uint32(g)<<8|uint32(b) == key&0xFFFFFF
	}

	lowR := int32(key >> 16 & 0xFF)
	lowG := int32(key >> 8 & 0xFF)
	lowB := int32(key & 0xFF)

	inR := r >= lowR && r <= rng.red()
	inG := g >= lowG && g <= rng.green()
	inB := b >= lowB && b <= rng.blue()
	if rng.redExclusive() {
		inR = !inR
	}
	if rng.greenExclusive() {
		inG = !inG
	}
	if rng.blueExclusive() {
		inB = !inB
	}
	if rng.unionMode() {
		return inR || inG || inB
	}
	return inR && inG && inB
}

// combineColor runs the color combine arithmetic over the selected other
// and local inputs.
func (c *Context) combineColor(fcp fbzColorPath, or, og, ob, oa, lr, lg, lb, la int32, texel uint32) (int32, int32, int32) {
	factor := func(local, texChan int32) int32 {
		var blend int32
		switch fcp.mSelect() {
		case 0:
			blend = 0
		case 1:
			blend = local
		case 2:
			blend = oa
		case 3:
			blend = la
		case 4:
			blend = int32(texel >> 24)
		case 5:
			blend = texChan
		}
		if !fcp.reverseBlend() {
			blend ^= 0xFF
		}
		return blend
	}

	channel := func(other, local, texChan int32) int32 {
		v := other
		if fcp.zeroOther() {
			v = 0
		}
		if fcp.subCLocal() {
			v -= local
		}
		v = v * (factor(local, texChan) + 1) >> 8
		if fcp.addCLocal() {
			v += local
		}
		if fcp.addALocal() {
			v += la
		}
		v = clampToByte(v)
		if fcp.invertOutput() {
			v ^= 0xFF
		}
		return v
	}

	tr := int32(texel >> 16 & 0xFF)
	tg := int32(texel >> 8 & 0xFF)
	tb := int32(texel & 0xFF)
	return channel(or, lr, tr), channel(og, lg, tg), channel(ob, lb, tb)
}

// combineAlpha mirrors combineColor for the alpha channel using the
// fbzColorPath alpha-combine bits.
func (c *Context) combineAlpha(fcp fbzColorPath, oa, la int32, texel uint32) int32 {
	var blend int32
	switch fcp.aMSelect() {
	case 0:
		blend = 0
	case 1, 3:
		blend = la
	case 2:
		blend = oa
	case 4:
		blend = int32(texel >> 24)
	}
	if !fcp.aReverseBlend() {
		blend ^= 0xFF
	}

	v := oa
	if fcp.aZeroOther() {
		v = 0
	}
	if fcp.aSubCLocal() {
		v -= la
	}
	v = v * (blend + 1) >> 8
	if fcp.aAdd() {
		v += la
	}
	v = clampToByte(v)
	if fcp.aInvertOutput() {
		v ^= 0xFF
	}
	return v
}

// applyFog blends the fog color in, selecting the blend value from the fog
// table (indexed by floating W), iterated alpha, iterated Z, or iterated W.
func (c *Context) applyFog(fog fogMode, fcp fbzColorPath, r, g, b, iterA int32, px *pixelIters, x, y int32) (int32, int32, int32) {
	_, fogR, fogG, fogB := c.reg.rgba(regFogColor)
	fr, fg, fb := int32(fogR), int32(fogG), int32(fogB)

	// Constant fog bypasses the blend entirely.
	if fog.constant() {
		if fog.fogMult() {
			return fr, fg, fb
		}
		return clampToByte(r + fr), clampToByte(g + fg), clampToByte(b + fb)
	}

	// When fog_add is set the fog color contribution starts from zero;
	// when fog_mult is clear the current color is subtracted so the result
	// is a lerp toward the fog color; when it is set the scaled fog term
	// replaces the color.
	if fog.fogAdd() {
		fr, fg, fb = 0, 0, 0
	}
	if !fog.fogMult() {
		fr -= r
		fg -= g
		fb -= b
	}

	var blend int32
	switch fog.source() {
	case fogSrcWTable:
		wf := wFloat(px.w)
		idx := wf >> 10 & 0x3F
		delta := int32(c.fbi.fogdelta[idx])
		deltaval := delta * (wf >> 2 & 0xFF) >> 10
		if fog.dither() {
			deltaval += ditherMatrix4x4[(y&3)*4+(x&3)] >> 2
		}
		blend = int32(c.fbi.fogblend[idx]) + deltaval
	case fogSrcAlpha:
		blend = clampToByte(iterA)
	case fogSrcZ:
		blend = clampToByte(px.z >> 20)
	case fogSrcW:
		blend = clampedW(px.w, fcp)
	}
	blend = clampToByte(blend)

	if fog.fogMult() {
		return clampToByte(fr * blend >> 8), clampToByte(fg * blend >> 8), clampToByte(fb * blend >> 8)
	}
	r += fr * blend >> 8
	g += fg * blend >> 8
	b += fb * blend >> 8
	return clampToByte(r), clampToByte(g), clampToByte(b)
}

// alphaBlend combines the source color with the destination pixel using the
// four configured blend factors. The destination alpha comes from the aux
// plane when alpha planes are enabled, and is opaque otherwise.
func (c *Context) alphaBlend(amode alphaMode, fbz fbzMode, r, g, b, a, prefogR, prefogG, prefogB int32, dest, aux []byte, x int32) (int32, int32, int32, int32) {
	dpix := binary.LittleEndian.Uint16(dest[x*2:])
	dr := int32(dpix >> 11)
	dg := int32(dpix >> 5 & 0x3F)
	db := int32(dpix & 0x1F)
	dr = dr<<3 | dr>>2
	dg = dg<<2 | dg>>4
	db = db<<3 | db>>2

	da := int32(0xFF)
	if fbz.enableAlphaPlanes() && aux != nil {
		da = int32(binary.LittleEndian.Uint16(aux[x*2:])) & 0xFF
	}

	srcFactor := func(sel uint32, dc int32) int32 {
		switch sel {
		case blendZero:
			return 0
		case blendSrcAlpha:
			return a
		case blendColor:
			return dc
		case blendDstAlpha:
			return da
		case blendOne:
			return 0xFF
		case blendOMSrcAlpha:
			return 0xFF - a
		case blendOMColor:
			return 0xFF - dc
		case blendOMDstAlpha:
			return 0xFF - da
		case blendSaturate:
			if a < 0xFF-da {
				return a
			}
			return 0xFF - da
		}
		return 0xFF
	}
	dstFactor := func(sel uint32, sc, prefog int32) int32 {
		if sel == blendSaturate {
			// Factor 15 on the destination side means the pre-fog source
			// color, not alpha-saturate.
			return prefog
		}
		return srcFactor(sel, sc)
	}

	srcRGB := amode.srcRGBBlend()
	dstRGB := amode.dstRGBBlend()
	nr := (r*(srcFactor(srcRGB, dr)+1) + dr*(dstFactor(dstRGB, r, prefogR)+1)) >> 8
	ng := (g*(srcFactor(srcRGB, dg)+1) + dg*(dstFactor(dstRGB, g, prefogG)+1)) >> 8
	nb := (b*(srcFactor(srcRGB, db)+1) + db*(dstFactor(dstRGB, b, prefogB)+1)) >> 8

	srcA := amode.srcABlend()
	dstA := amode.dstABlend()
	na := (a*(srcFactor(srcA, da)+1) + da*(srcFactor(dstA, a)+1)) >> 8

	return clampToByte(nr), clampToByte(ng), clampToByte(nb), clampToByte(na)
}
