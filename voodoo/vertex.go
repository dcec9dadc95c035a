package voodoo

import (
	"encoding/binary"
	"math"
)

// Vertex is the default packed vertex: every field a 32-bit float, in the
// order the wire layout expects. X and Y are in pixels, OOW is 1/W, colors
// range 0.0-255.0, SOW/TOW are perspective-divided texture coordinates.
type Vertex struct {
	X, Y       float32
	OOZ, OOW   float32
	R, G, B, A float32
	Z          float32
	SOW, TOW   float32
	SOW1, TOW1 float32
}

const vertexStride = 13 * 4

// VertexParam names a vertex attribute for layout relocation.
type VertexParam int32

const (
	ParamXY VertexParam = iota
	ParamZ
	ParamQ
	ParamA
	ParamRGB
	ParamPARGB
	ParamST0
	ParamST1
	ParamQ0
	ParamQ1
	numVertexParams
)

// vertexLayout maps each attribute to a byte offset inside the client's
// vertex structure. Negative offsets mean the attribute is absent.
type vertexLayout struct {
	offset [numVertexParams]int32
}

func defaultVertexLayout() vertexLayout {
	var l vertexLayout
	for i := range l.offset {
		l.offset[i] = -1
	}
	l.offset[ParamXY] = 0
	l.offset[ParamZ] = 8
	l.offset[ParamQ] = 12
	l.offset[ParamRGB] = 16
	l.offset[ParamA] = 28
	l.offset[ParamST0] = 36
	l.offset[ParamST1] = 44
	return l
}

// VertexLayout relocates one vertex attribute to a byte offset in the
// client's own structure; a disabled attribute is treated as absent and
// reads as zero.
func (c *Context) VertexLayout(param VertexParam, offset int32, enable bool) {
	if !c.ready() || param < 0 || param >= numVertexParams {
		return
	}
	if enable {
		c.layout.offset[param] = offset
	} else {
		c.layout.offset[param] = -1
	}
}

func f32at(data []byte, off int32) float32 {
	if off < 0 || int(off)+4 > len(data) {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}

// unpack reads one client vertex through the configured layout.
func (c *Context) unpack(data []byte) setupVertex {
	l := &c.layout
	var v setupVertex
	v.x = f32at(data, l.offset[ParamXY])
	if l.offset[ParamXY] >= 0 {
		v.y = f32at(data, l.offset[ParamXY]+4)
	}
	v.ooz = f32at(data, l.offset[ParamZ])
	v.oow = f32at(data, l.offset[ParamQ])
	if off := l.offset[ParamPARGB]; off >= 0 {
		p := binary.LittleEndian.Uint32(data[off:])
		v.a = float32(p >> 24)
		v.r = float32(p >> 16 & 0xFF)
		v.g = float32(p >> 8 & 0xFF)
		v.b = float32(p & 0xFF)
	} else {
		if off := l.offset[ParamRGB]; off >= 0 {
			v.r = f32at(data, off)
			v.g = f32at(data, off+4)
			v.b = f32at(data, off+8)
		}
		v.a = f32at(data, l.offset[ParamA])
	}
	if off := l.offset[ParamST0]; off >= 0 {
		v.sow0 = f32at(data, off)
		v.tow0 = f32at(data, off+4)
	}
	if off := l.offset[ParamST1]; off >= 0 {
		v.sow1 = f32at(data, off)
		v.tow1 = f32at(data, off+4)
	}
	// Per-TMU W falls back to the global 1/W when not supplied.
	v.oow0 = v.oow
	v.oow1 = v.oow
	if off := l.offset[ParamQ0]; off >= 0 {
		v.oow0 = f32at(data, off)
	}
	if off := l.offset[ParamQ1]; off >= 0 {
		v.oow1 = f32at(data, off)
	}
	return v
}

func (v *Vertex) pack() []byte {
	buf := make([]byte, vertexStride)
	fields := [...]float32{v.X, v.Y, v.OOZ, v.OOW, v.R, v.G, v.B, v.A, v.Z, v.SOW, v.TOW, v.SOW1, v.TOW1}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// toSetup converts a default-layout vertex without a round trip through the
// byte layout.
func (v *Vertex) toSetup() setupVertex {
	return setupVertex{
		x: v.X, y: v.Y,
		ooz: v.OOZ, oow: v.OOW,
		r: v.R, g: v.G, b: v.B, a: v.A,
		sow0: v.SOW, tow0: v.TOW,
		sow1: v.SOW1, tow1: v.TOW1,
		oow0: v.OOW, oow1: v.OOW,
	}
}

// DrawTriangle rasterizes one triangle. Degenerate or culled triangles
// produce no pixels and no error.
func (c *Context) DrawTriangle(a, b, v *Vertex) {
	if !c.ready() {
		return
	}
	sa, sb, sc := a.toSetup(), b.toSetup(), v.toSetup()
	if c.setupTriangle(&sa, &sb, &sc) {
		c.reg.write(regTriangleCMD, 0)
		c.rasterize()
	}
}

func (c *Context) drawRaw(a, b, v []byte) {
	sa, sb, sc := c.unpack(a), c.unpack(b), c.unpack(v)
	if c.setupTriangle(&sa, &sb, &sc) {
		c.reg.write(regTriangleCMD, 0)
		c.rasterize()
	}
}

// DrawMode selects the primitive assembly of DrawVertexArray.
type DrawMode int32

const (
	ModePoints DrawMode = iota
	ModeLineStrip
	ModeLines
	ModePolygon
	ModeTriangleStrip
	ModeTriangleFan
	ModeTriangles
	ModeTriangleStripContinue
	ModeTriangleFanContinue
)

// DrawVertexArray assembles triangles from an array of client vertex
// pointers according to mode.
func (c *Context) DrawVertexArray(mode DrawMode, verts [][]byte) {
	if !c.ready() {
		return
	}
	n := len(verts)
	switch mode {
	case ModeTriangles:
		for i := 0; i+2 < n; i += 3 {
			c.drawRaw(verts[i], verts[i+1], verts[i+2])
		}
	case ModeTriangleStrip, ModeTriangleStripContinue:
		for i := 0; i+2 < n; i++ {
			// Every other triangle flips winding to keep a consistent face.
			if i&1 == 0 {
				c.drawRaw(verts[i], verts[i+1], verts[i+2])
			} else {
				c.drawRaw(verts[i+1], verts[i], verts[i+2])
			}
		}
	case ModeTriangleFan, ModeTriangleFanContinue, ModePolygon:
		for i := 1; i+1 < n; i++ {
			c.drawRaw(verts[0], verts[i], verts[i+1])
		}
	case ModePoints:
		for _, v := range verts {
			c.drawPointRaw(v)
		}
	case ModeLines:
		for i := 0; i+1 < n; i += 2 {
			c.drawLineRaw(verts[i], verts[i+1])
		}
	case ModeLineStrip:
		for i := 0; i+1 < n; i++ {
			c.drawLineRaw(verts[i], verts[i+1])
		}
	}
}

// DrawVertexArrayContiguous assembles from one packed buffer with the given
// stride.
func (c *Context) DrawVertexArrayContiguous(mode DrawMode, count int, base []byte, stride int) {
	if !c.ready() || stride <= 0 {
		return
	}
	verts := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		off := i * stride
		if off+stride > len(base) {
			break
		}
		verts = append(verts, base[off:off+stride])
	}
	c.DrawVertexArray(mode, verts)
}

// DrawPoint renders a point as a one-pixel triangle pair.
func (c *Context) DrawPoint(p *Vertex) {
	if !c.ready() {
		return
	}
	c.drawPointRaw(p.pack())
}

func (c *Context) drawPointRaw(data []byte) {
	v := c.unpack(data)
	c.emitQuad(v, v.x, v.y, v.x+1, v.y+1)
}

// DrawLine renders a line as a thin quad between the endpoints.
func (c *Context) DrawLine(a, b *Vertex) {
	if !c.ready() {
		return
	}
	c.drawLineRaw(a.pack(), b.pack())
}

func (c *Context) drawLineRaw(da, db []byte) {
	va := c.unpack(da)
	vb := c.unpack(db)

	dx := float64(vb.x - va.x)
	dy := float64(vb.y - va.y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		c.emitQuad(va, va.x, va.y, va.x+1, va.y+1)
		return
	}
	// Half-pixel perpendicular extent.
	px := float32(-dy / length * 0.5)
	py := float32(dx / length * 0.5)

	a0, a1 := va, va
	b0, b1 := vb, vb
	a0.x, a0.y = va.x+px, va.y+py
	a1.x, a1.y = va.x-px, va.y-py
	b0.x, b0.y = vb.x+px, vb.y+py
	b1.x, b1.y = vb.x-px, vb.y-py

	saveCull := c.fbi.cullMode
	c.fbi.cullMode = CullDisable
	if c.setupTriangle(&a0, &a1, &b0) {
		c.rasterize()
	}
	if c.setupTriangle(&a1, &b1, &b0) {
		c.rasterize()
	}
	c.fbi.cullMode = saveCull
}

// emitQuad draws an axis-aligned rectangle carrying v's attributes.
func (c *Context) emitQuad(v setupVertex, x0, y0, x1, y1 float32) {
	tl, tr, bl, br := v, v, v, v
	tl.x, tl.y = x0, y0
	tr.x, tr.y = x1, y0
	bl.x, bl.y = x0, y1
	br.x, br.y = x1, y1

	saveCull := c.fbi.cullMode
	c.fbi.cullMode = CullDisable
	if c.setupTriangle(&tl, &tr, &bl) {
		c.rasterize()
	}
	if c.setupTriangle(&tr, &br, &bl) {
		c.rasterize()
	}
	c.fbi.cullMode = saveCull
}

// AADrawTriangle is accepted for contract compatibility; anti-aliased edge
// coverage is not produced, the triangle renders through the ordinary path.
func (c *Context) AADrawTriangle(a, b, v *Vertex, antialiasAB, antialiasBC, antialiasCA bool) {
	c.DrawTriangle(a, b, v)
}
