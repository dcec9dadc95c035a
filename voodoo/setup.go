package voodoo

// setupVertex is one screen-space vertex after layout unpacking: position,
// reciprocals, color, and per-TMU perspective-divided texture coordinates.
type setupVertex struct {
	x, y       float32
	ooz, oow   float32
	r, g, b, a float32
	sow0, tow0 float32
	sow1, tow1 float32
	oow0, oow1 float32
}

// setupTriangle converts three floating-point vertices into the fixed-point
// edge and gradient state the rasterizer consumes. It returns false when
// the triangle is culled or degenerate.
func (c *Context) setupTriangle(va, vb, vc *setupVertex) bool {
	f := &c.fbi

	ax := va.x + f.vpX
	ay := va.y + f.vpY
	bx := vb.x + f.vpX
	by := vb.y + f.vpY
	cx := vc.x + f.vpX
	cy := vc.y + f.vpY

	area := float64(bx-ax)*float64(cy-ay) - float64(cx-ax)*float64(by-ay)
	if area == 0 {
		return false
	}
	switch f.cullMode {
	case CullPositive:
		if area > 0 {
			return false
		}
	case CullNegative:
		if area < 0 {
			return false
		}
	}

	f.ax = floatTo12_4(ax)
	f.ay = floatTo12_4(ay)
	f.bx = floatTo12_4(bx)
	f.by = floatTo12_4(by)
	f.cx = floatTo12_4(cx)
	f.cy = floatTo12_4(cy)

	// Cramer's rule over the triangle area: for parameter P,
	// dP/dx = ((P2-P1)(y3-y1) - (P3-P1)(y2-y1)) / area and the mirrored
	// expression for dP/dy.
	ooa := 1.0 / area
	dx1 := float64(bx - ax)
	dy1 := float64(by - ay)
	dx2 := float64(cx - ax)
	dy2 := float64(cy - ay)

	gradX := func(p1, p2, p3 float32) float64 {
		return (float64(p2-p1)*dy2 - float64(p3-p1)*dy1) * ooa
	}
	gradY := func(p1, p2, p3 float32) float64 {
		return (float64(p3-p1)*dx1 - float64(p2-p1)*dx2) * ooa
	}

	to12_12 := func(v float64) int32 { return int32(v * 4096) }
	toW := func(v float64) int64 { return int64(v * 4294967296.0) }
	toST := func(v float64) int64 { return int64(v*262144.0) << 14 }

	f.startR = floatTo12_12(va.r)
	f.startG = floatTo12_12(va.g)
	f.startB = floatTo12_12(va.b)
	f.startA = floatTo12_12(va.a)
	f.drdx = to12_12(gradX(va.r, vb.r, vc.r))
	f.dgdx = to12_12(gradX(va.g, vb.g, vc.g))
	f.dbdx = to12_12(gradX(va.b, vb.b, vc.b))
	f.dadx = to12_12(gradX(va.a, vb.a, vc.a))
	f.drdy = to12_12(gradY(va.r, vb.r, vc.r))
	f.dgdy = to12_12(gradY(va.g, vb.g, vc.g))
	f.dbdy = to12_12(gradY(va.b, vb.b, vc.b))
	f.dady = to12_12(gradY(va.a, vb.a, vc.a))

	f.startZ = floatTo20_12(va.ooz)
	f.dzdx = to12_12(gradX(va.ooz, vb.ooz, vc.ooz))
	f.dzdy = to12_12(gradY(va.ooz, vb.ooz, vc.ooz))

	f.startW = floatToW(va.oow)
	f.dwdx = toW(gradX(va.oow, vb.oow, vc.oow))
	f.dwdy = toW(gradY(va.oow, vb.oow, vc.oow))

	// Texture iterators are only populated when the color path wants a
	// texture at all.
	if fbzColorPath(c.reg.read(regFbzColorPath)).textureEnable() {
		for i := range c.tmu {
			t := &c.tmu[i]
			if !t.active {
				continue
			}
			var s1, t1, s2, t2, s3, t3, w1, w2, w3 float32
			if i == 0 {
				s1, t1, s2, t2, s3, t3 = va.sow0, va.tow0, vb.sow0, vb.tow0, vc.sow0, vc.tow0
				w1, w2, w3 = va.oow0, vb.oow0, vc.oow0
			} else {
				s1, t1, s2, t2, s3, t3 = va.sow1, va.tow1, vb.sow1, vb.tow1, vc.sow1, vc.tow1
				w1, w2, w3 = va.oow1, vb.oow1, vc.oow1
			}
			t.startS = floatToST(s1)
			t.startT = floatToST(t1)
			t.dsdx = toST(gradX(s1, s2, s3))
			t.dtdx = toST(gradX(t1, t2, t3))
			t.dsdy = toST(gradY(s1, s2, s3))
			t.dtdy = toST(gradY(t1, t2, t3))
			t.startW = floatToW(w1)
			t.dwdx = toW(gradX(w1, w2, w3))
			t.dwdy = toW(gradY(w1, w2, w3))
		}
	}

	return true
}
