package voodoo

// texIter carries one TMU's iterator values at the current pixel.
type texIter struct {
	s, t, w int64
}

// sampleTexel produces one ARGB32 texel for the current pixel: it performs
// the perspective divide and LOD selection, picks the mip level, fetches
// with point or bilinear filtering, and decodes to ARGB32. The clamped LOD
// is returned for the combine unit's detail factors.
func (t *tmuState) sampleTexel(tm textureMode, it texIter, x int32) (uint32, int32) {
	var s, tt int64
	var lod int32

	if tm.enablePerspective() {
		recip, logw := fastReciplog(it.w)
		s = int64(recip) * it.s >> 29
		tt = int64(recip) * it.t >> 29
		lod = logw
	} else {
		s = it.s >> 14
		tt = it.t >> 14
		lod = 0
	}
	if tm.clampNegW() && it.w < 0 {
		s, tt = 0, 0
	}

	lod += t.lodbias
	if tm.lodDither() {
		lod += ditherMatrix4x4[x&3] << 4
	}
	if lod < t.lodmin {
		lod = t.lodmin
	}
	if lod > t.lodmax {
		lod = t.lodmax
	}

	// Integer level, advanced past any level absent from the mask.
	ilod := lod >> 8
	for ilod < numTexLODs-1 && t.lodmask>>uint(ilod)&1 == 0 {
		ilod++
	}
	texbase := t.lodoffset[ilod]
	smax, tmax := t.lodDimensions(ilod)

	if !magFilterLinear(tm, lod) {
		// Point sampling: strip the fraction entirely.
		is := int32(s >> (uint(ilod) + 18))
		itt := int32(tt >> (uint(ilod) + 18))
		is = t.wrapS(tm, is, smax)
		itt = t.wrapT(tm, itt, tmax)
		return t.texel(tm, texbase, is, itt, ilod), lod
	}

	// Bilinear: keep 8 fraction bits, back up half a texel, and blend the
	// four neighbors with 256-weight precision.
	bs := int32(s>>(uint(ilod)+10)) - 0x80
	bt := int32(tt>>(uint(ilod)+10)) - 0x80
	sfrac := uint32(bs) & t.bilinearMask
	tfrac := uint32(bt) & t.bilinearMask
	is := bs >> 8
	itt := bt >> 8

	s0 := t.wrapS(tm, is, smax)
	s1 := t.wrapS(tm, is+1, smax)
	t0 := t.wrapT(tm, itt, tmax)
	t1 := t.wrapT(tm, itt+1, tmax)

	t00 := t.texel(tm, texbase, s0, t0, ilod)
	t01 := t.texel(tm, texbase, s1, t0, ilod)
	t10 := t.texel(tm, texbase, s0, t1, ilod)
	t11 := t.texel(tm, texbase, s1, t1, ilod)
	return bilinearBlend(t00, t01, t10, t11, sfrac, tfrac), lod
}

// magFilterLinear selects between the minification and magnification filter
// bits based on whether the pixel is minified (lod > 0).
func magFilterLinear(tm textureMode, lod int32) bool {
	if lod > 0 {
		return tm.minFilterLinear()
	}
	return tm.magFilterLinear()
}

func (t *tmuState) wrapS(tm textureMode, s, smax int32) int32 {
	if tm.clampS() {
		if s < 0 {
			return 0
		}
		if s > smax {
			return smax
		}
		return s
	}
	return s & smax
}

func (t *tmuState) wrapT(tm textureMode, tt, tmax int32) int32 {
	if tm.clampT() {
		if tt < 0 {
			return 0
		}
		if tt > tmax {
			return tmax
		}
		return tt
	}
	return tt & tmax
}

// combineTexture runs the texture combine unit: the sampled texel is
// c_local, the upstream TMU's output (or zero) is c_other, and textureMode
// bits 12-29 select the arithmetic, separately for RGB and alpha.
func (t *tmuState) combineTexture(tm textureMode, cLocal, cOther uint32, det texDetail, lod int32) uint32 {
	la := int32(cLocal >> 24)
	lr := int32(cLocal >> 16 & 0xFF)
	lg := int32(cLocal >> 8 & 0xFF)
	lb := int32(cLocal & 0xFF)
	oa := int32(cOther >> 24)
	or := int32(cOther >> 16 & 0xFF)
	og := int32(cOther >> 8 & 0xFF)
	ob := int32(cOther & 0xFF)

	// Blend factor per channel.
	factor := func(msel uint32, reverse bool, local int32) int32 {
		var blend int32
		switch msel {
		case 0:
			blend = 0
		case 1:
			blend = local
		case 2:
			blend = oa
		case 3:
			blend = la
		case 4:
			blend = detailFactor(det, lod)
		case 5:
			blend = lod & 0xFF
		}
		if !reverse {
			blend ^= 0xFF
		}
		return blend
	}

	combineChannel := func(other, local int32, zero, sub bool, blend int32, addC, addA bool) int32 {
		v := other
		if zero {
			v = 0
		}
		if sub {
			v -= local
		}
		v = v * (blend + 1) >> 8
		if addC {
			v += local
		}
		if addA {
			v += la
		}
		return clampToByte(v)
	}

	zero, sub := tm.tcZeroOther(), tm.tcSubCLocal()
	addC, addA := tm.tcAddCLocal(), tm.tcAddALocal()
	rr := combineChannel(or, lr, zero, sub, factor(tm.tcMSelect(), tm.tcReverseBlend(), lr), addC, addA)
	rg := combineChannel(og, lg, zero, sub, factor(tm.tcMSelect(), tm.tcReverseBlend(), lg), addC, addA)
	rb := combineChannel(ob, lb, zero, sub, factor(tm.tcMSelect(), tm.tcReverseBlend(), lb), addC, addA)
	if tm.tcInvertOutput() {
		rr ^= 0xFF
		rg ^= 0xFF
		rb ^= 0xFF
	}

	ra := combineChannel(oa, la, tm.tcaZeroOther(), tm.tcaSubCLocal(),
		factor(tm.tcaMSelect(), tm.tcaReverseBlend(), la), tm.tcaAddCLocal(), tm.tcaAddALocal())
	if tm.tcaInvertOutput() {
		ra ^= 0xFF
	}

	return uint32(ra)<<24 | uint32(rr)<<16 | uint32(rg)<<8 | uint32(rb)
}

// detailFactor computes the LOD-based detail blend value from tDetail.
func detailFactor(det texDetail, lod int32) int32 {
	bias := det.detailBias()
	if bias <= lod {
		return 0
	}
	blend := (bias - lod) << det.detailScale() >> 8
	if blend > det.detailMax() {
		blend = det.detailMax()
	}
	return blend
}

// textureUnit runs the full per-pixel texture path: TMU1 first when active,
// its output feeding TMU0's other input.
func (c *Context) textureUnit(x int32, it0, it1 texIter) uint32 {
	var other uint32
	if c.tmu[1].active {
		tm1 := textureMode(c.reg.read(tmuRegBase(1) + regTextureMode))
		det1 := texDetail(c.reg.read(tmuRegBase(1) + regTDetail))
		texel, lod := c.tmu[1].sampleTexel(tm1, it1, x)
		other = c.tmu[1].combineTexture(tm1, texel, 0, det1, lod)
	}
	if !c.tmu[0].active {
		if c.tmu[1].active {
			return other
		}
		return 0xFFFFFFFF
	}
	tm0 := textureMode(c.reg.read(tmuRegBase(0) + regTextureMode))
	det0 := texDetail(c.reg.read(tmuRegBase(0) + regTDetail))
	texel, lod := c.tmu[0].sampleTexel(tm0, it0, x)
	return c.tmu[0].combineTexture(tm0, texel, other, det0, lod)
}
