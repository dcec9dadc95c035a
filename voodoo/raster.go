package voodoo

// rasterize walks the triangle currently held in the FBI setup scratch,
// scanline by scanline, invoking the pixel pipeline for every covered
// pixel. Pixels are produced in strict raster order.
func (c *Context) rasterize() {
	f := &c.fbi
	if f.ram == nil {
		return
	}
	fbz := fbzMode(c.reg.read(regFbzMode))

	// Sort vertices by Y (12.4 fixed).
	v1x, v1y := f.ax, f.ay
	v2x, v2y := f.bx, f.by
	v3x, v3y := f.cx, f.cy
	if v2y < v1y {
		v1x, v1y, v2x, v2y = v2x, v2y, v1x, v1y
	}
	if v3y < v1y {
		v1x, v1y, v3x, v3y = v3x, v3y, v1x, v1y
	}
	if v3y < v2y {
		v2x, v2y, v3x, v3y = v3x, v3y, v2x, v2y
	}

	starty := round12_4(v1y)
	stopy := round12_4(v3y)
	if starty < 0 {
		starty = 0
	}
	if stopy > f.height {
		stopy = f.height
	}
	if fbz.enableClipping() {
		if starty < f.clipTop {
			starty = f.clipTop
		}
		if stopy > f.clipBottom {
			stopy = f.clipBottom
		}
	}

	offs := f.drawBufOffset(fbz)

	// Edge X at a scanline center, interpolated along the edge (xa,ya)->
	// (xb,yb) in 12.4 with 64-bit intermediates.
	edgeX := func(xa, ya, xb, yb, fy int32) int32 {
		dy := yb - ya
		if dy == 0 {
			return xa
		}
		return xa + int32(int64(fy-ya)*int64(xb-xa)/int64(dy))
	}

	for y := starty; y < stopy; y++ {
		fy := y<<4 + 8 // pixel center in 12.4

		// Long edge v1->v3 on one side; v1->v2 or v2->v3 on the other.
		xLong := edgeX(v1x, v1y, v3x, v3y, fy)
		var xShort int32
		if fy < v2y {
			xShort = edgeX(v1x, v1y, v2x, v2y, fy)
		} else {
			xShort = edgeX(v2x, v2y, v3x, v3y, fy)
		}

		startx := round12_4(xLong)
		stopx := round12_4(xShort)
		if startx > stopx {
			startx, stopx = stopx, startx
		}
		if startx < 0 {
			startx = 0
		}
		if stopx > f.width {
			stopx = f.width
		}
		if fbz.enableClipping() {
			if startx < f.clipLeft {
				startx = f.clipLeft
			}
			if stopx > f.clipRight {
				stopx = f.clipRight
			}
		}
		if startx >= stopx {
			continue
		}

		scry := y
		if fbz.yOrigin() {
			scry = (f.yorigin - y) & maxClip
		}
		dest := f.rowColor(offs, scry)
		var aux []byte
		if f.hasAux {
			aux = f.rowAux(scry)
		}

		// Advance the start values to (startx, y).
		dx := startx - f.ax>>4
		dy := y - f.ay>>4

		var px pixelIters
		px.r = f.startR + dy*f.drdy + dx*f.drdx
		px.g = f.startG + dy*f.dgdy + dx*f.dgdx
		px.b = f.startB + dy*f.dbdy + dx*f.dbdx
		px.a = f.startA + dy*f.dady + dx*f.dadx
		px.z = f.startZ + dy*f.dzdy + dx*f.dzdx
		px.w = f.startW + int64(dy)*f.dwdy + int64(dx)*f.dwdx
		for i := range c.tmu {
			t := &c.tmu[i]
			px.tex[i].s = t.startS + int64(dy)*t.dsdy + int64(dx)*t.dsdx
			px.tex[i].t = t.startT + int64(dy)*t.dtdy + int64(dx)*t.dtdx
			px.tex[i].w = t.startW + int64(dy)*t.dwdy + int64(dx)*t.dwdx
		}

		for x := startx; x < stopx; x++ {
			c.pixelPipeline(&px, x, y, dest, aux)

			px.r += f.drdx
			px.g += f.dgdx
			px.b += f.dbdx
			px.a += f.dadx
			px.z += f.dzdx
			px.w += f.dwdx
			for i := range c.tmu {
				px.tex[i].s += c.tmu[i].dsdx
				px.tex[i].t += c.tmu[i].dtdx
				px.tex[i].w += c.tmu[i].dwdx
			}
		}
	}
}
