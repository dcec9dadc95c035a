package voodoo

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func floatBits(f float32) uint32 { return math.Float32bits(f) }

// openTestContext opens a window on a fresh context and tears it down with
// the test.
func openTestContext(t *testing.T, res Resolution, numAux int) *Context {
	t.Helper()
	c := Init()
	if !c.WinOpen(0, res, Refresh60, ColorFmtARGB, OriginUpperLeft, 2, numAux) {
		t.Fatal("WinOpen failed")
	}
	t.Cleanup(c.Shutdown)
	return c
}

// iterated configures both combine units for plain iterated color.
func iterated(c *Context) {
	c.ColorCombine(CombineFunctionLocal, CombineFactorZero, CombineLocalIterated, CombineOtherIterated, false)
	c.AlphaCombine(CombineFunctionLocal, CombineFactorZero, CombineLocalIterated, CombineOtherIterated, false)
}

// flatVertex builds a default-layout vertex with a constant color.
func flatVertex(x, y float32, r, g, b, a float32) *Vertex {
	return &Vertex{X: x, Y: y, OOW: 1, R: r, G: g, B: b, A: a}
}

// drawQuad issues an axis-aligned quad as two triangles sharing the
// diagonal.
func drawQuad(c *Context, x0, y0, x1, y1 float32, mod func(v *Vertex)) {
	mk := func(x, y float32) *Vertex {
		v := flatVertex(x, y, 255, 255, 255, 255)
		if mod != nil {
			v.X, v.Y = x, y
			mod(v)
		}
		return v
	}
	c.DrawTriangle(mk(x0, y0), mk(x1, y0), mk(x0, y1))
	c.DrawTriangle(mk(x1, y0), mk(x1, y1), mk(x0, y1))
}

func pixelAt(c *Context, x, y int32) uint16 {
	buf := c.FrontBuffer()
	return binary.LittleEndian.Uint16(buf[(y*c.fbi.rowpixels+x)*2:])
}

func TestClearToOpaqueRed(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)

	c.BufferClear(0x00FF0000, 0, 0xFFFF)

	buf := c.FrontBuffer()
	if len(buf) != 640*480*2 {
		t.Fatalf("front buffer = %d bytes, want %d", len(buf), 640*480*2)
	}
	for i := 0; i < len(buf); i += 2 {
		if got := binary.LittleEndian.Uint16(buf[i:]); got != 0xF800 {
			t.Fatalf("pixel %d = %04X, want F800", i/2, got)
		}
	}
}

func TestSwapIdempotence(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)

	front, back := c.fbi.frontbuf, c.fbi.backbuf
	if front == back {
		t.Fatal("front and back buffers alias")
	}
	c.BufferSwap(0)
	if c.fbi.frontbuf == front {
		t.Error("swap did not exchange buffers")
	}
	c.BufferSwap(0)
	if c.fbi.frontbuf != front || c.fbi.backbuf != back {
		t.Error("two swaps did not restore the original assignment")
	}
}

func TestFlatTriangle(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)

	c.ResetStats()
	c.DrawTriangle(
		flatVertex(100, 100, 255, 255, 255, 255),
		flatVertex(300, 100, 255, 255, 255, 255),
		flatVertex(200, 300, 255, 255, 255, 255),
	)

	var inside int32
	buf := c.FrontBuffer()
	for i := 0; i < len(buf); i += 2 {
		switch binary.LittleEndian.Uint16(buf[i:]) {
		case 0xFFFF:
			inside++
		case 0x0000:
		default:
			t.Fatalf("pixel %d has unexpected value %04X", i/2, binary.LittleEndian.Uint16(buf[i:]))
		}
	}

	if inside == 0 {
		t.Fatal("no pixels drawn")
	}
	// Interior of a 200x200 triangle.
	if inside < 19000 || inside > 21000 {
		t.Errorf("interior pixel count = %d, want about 20000", inside)
	}
	var out [1]int32
	c.Get(QueryPixelsOut, out[:])
	if out[0] != inside {
		t.Errorf("pixelsOut = %d, framebuffer shows %d", out[0], inside)
	}

	if pixelAt(c, 200, 200) != 0xFFFF {
		t.Error("centroid pixel not drawn")
	}
	if pixelAt(c, 50, 50) != 0 {
		t.Error("pixel outside triangle drawn")
	}
}

func TestZeroAreaTriangleDrawsNothing(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.ResetStats()

	v := flatVertex(100, 100, 255, 255, 255, 255)
	c.DrawTriangle(v, v, v)
	c.DrawTriangle(
		flatVertex(10, 10, 255, 255, 255, 255),
		flatVertex(20, 20, 255, 255, 255, 255),
		flatVertex(30, 30, 255, 255, 255, 255),
	)

	var out [1]int32
	c.Get(QueryPixelsOut, out[:])
	if out[0] != 0 {
		t.Errorf("pixelsOut = %d after degenerate triangles, want 0", out[0])
	}
}

func TestCulling(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)

	// Clockwise on screen: positive area with this vertex order.
	a := flatVertex(100, 100, 255, 255, 255, 255)
	b := flatVertex(300, 100, 255, 255, 255, 255)
	v := flatVertex(200, 300, 255, 255, 255, 255)

	c.CullMode(CullPositive)
	c.ResetStats()
	c.DrawTriangle(a, b, v)
	var out [1]int32
	c.Get(QueryPixelsOut, out[:])
	if out[0] != 0 {
		t.Errorf("positive-area triangle drew %d pixels under CullPositive", out[0])
	}

	c.CullMode(CullNegative)
	c.ResetStats()
	c.DrawTriangle(a, b, v)
	c.Get(QueryPixelsOut, out[:])
	if out[0] == 0 {
		t.Error("positive-area triangle rejected under CullNegative")
	}
}

func TestSharedEdgeNoDoubleFill(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.ResetStats()

	drawQuad(c, 100, 100, 200, 180, nil)

	var out [1]int32
	c.Get(QueryPixelsOut, out[:])
	if want := int32(100 * 80); out[0] != want {
		t.Errorf("quad covered %d pixels, want exactly %d (no leaks, no double fill)", out[0], want)
	}
}

func TestDepthTestLess(t *testing.T) {
	c := openTestContext(t, Res640x480, 1)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferZBuffer)
	c.DepthBufferFunction(CmpLess)
	c.DepthMask(true)
	c.BufferClear(0, 0, 0xFFFF)

	// First quad at Z=0.5, red.
	drawQuad(c, 100, 100, 300, 300, func(v *Vertex) {
		v.OOZ = 32768
		v.R, v.G, v.B = 255, 0, 0
	})
	// Overlapping quad at Z=0.2, blue.
	drawQuad(c, 200, 200, 400, 400, func(v *Vertex) {
		v.OOZ = 13107
		v.R, v.G, v.B = 0, 0, 255
	})

	if got := pixelAt(c, 250, 250); got != 0x001F {
		t.Errorf("overlap pixel = %04X, want 001F (near quad wins)", got)
	}
	if got := pixelAt(c, 150, 150); got != 0xF800 {
		t.Errorf("non-overlap pixel = %04X, want F800", got)
	}
	if got := pixelAt(c, 350, 350); got != 0x001F {
		t.Errorf("far corner = %04X, want 001F", got)
	}

	// Drawing the far quad again must lose everywhere.
	c.ResetStats()
	drawQuad(c, 200, 200, 400, 400, func(v *Vertex) {
		v.OOZ = 32768
		v.R, v.G, v.B = 255, 0, 0
	})
	var zf [1]int32
	c.Get(QueryZfuncFail, zf[:])
	if zf[0] == 0 {
		t.Error("no depth failures recorded for occluded redraw")
	}
	if got := pixelAt(c, 250, 250); got != 0x001F {
		t.Errorf("occluded redraw changed pixel to %04X", got)
	}
}

func TestDepthMonotonicity(t *testing.T) {
	c := openTestContext(t, Res640x480, 1)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferZBuffer)
	c.DepthBufferFunction(CmpLess)
	c.DepthMask(true)
	c.BufferClear(0, 0, 0xFFFF)

	drawQuad(c, 100, 100, 300, 300, func(v *Vertex) {
		v.OOZ = 0.3 * 65535
		v.R, v.G, v.B = 0, 255, 0
	})
	drawQuad(c, 100, 100, 300, 300, func(v *Vertex) {
		v.OOZ = 0.6 * 65535
		v.R, v.G, v.B = 255, 0, 0
	})

	if got := pixelAt(c, 200, 200); got != 0x07E0 {
		t.Errorf("pixel = %04X, want 07E0 (Z=0.3 surface visible)", got)
	}
}

func TestAlphaTestGequal(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.AlphaTestFunction(CmpGreaterEqual)
	c.AlphaTestReferenceValue(128)
	c.ResetStats()

	// Alpha ramps 0..256 across X in [0,256).
	c.DrawTriangle(
		&Vertex{X: 0, Y: 0, OOW: 1, R: 255, G: 255, B: 255, A: 0},
		&Vertex{X: 256, Y: 0, OOW: 1, R: 255, G: 255, B: 255, A: 256},
		&Vertex{X: 0, Y: 100, OOW: 1, R: 255, G: 255, B: 255, A: 0},
	)
	c.DrawTriangle(
		&Vertex{X: 256, Y: 0, OOW: 1, R: 255, G: 255, B: 255, A: 256},
		&Vertex{X: 256, Y: 100, OOW: 1, R: 255, G: 255, B: 255, A: 256},
		&Vertex{X: 0, Y: 100, OOW: 1, R: 255, G: 255, B: 255, A: 0},
	)

	var af [1]int32
	c.Get(QueryAfuncFail, af[:])
	if af[0] == 0 {
		t.Error("no alpha test failures recorded")
	}
	if got := pixelAt(c, 127, 50); got != 0 {
		t.Errorf("pixel left of threshold = %04X, want empty", got)
	}
	if got := pixelAt(c, 128, 50); got != 0xFFFF {
		t.Errorf("pixel right of threshold = %04X, want FFFF", got)
	}
}

func TestBlendOneZeroMatchesNoBlend(t *testing.T) {
	render := func(blend bool) []byte {
		c := Init()
		defer c.Shutdown()
		if !c.WinOpen(0, Res640x480, Refresh60, ColorFmtARGB, OriginUpperLeft, 2, 0) {
			panic("WinOpen failed")
		}
		iterated(c)
		c.DepthBufferModeValue(DepthBufferDisable)
		if blend {
			c.AlphaBlendFunction(BlendOne, BlendZero, BlendOne, BlendZero)
		}
		drawQuad(c, 50, 50, 400, 350, func(v *Vertex) {
			v.R, v.G, v.B, v.A = 170, 85, 40, 200
		})
		out := make([]byte, len(c.FrontBuffer()))
		copy(out, c.FrontBuffer())
		return out
	}

	if !bytes.Equal(render(false), render(true)) {
		t.Error("blend (ONE, ZERO) output differs from blending disabled")
	}
}

func TestAdditiveBlend(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.AlphaBlendFunction(BlendOne, BlendOne, BlendOne, BlendOne)

	drawQuad(c, 100, 100, 200, 200, func(v *Vertex) {
		v.R, v.G, v.B = 100, 0, 0
	})
	drawQuad(c, 100, 100, 200, 200, func(v *Vertex) {
		v.R, v.G, v.B = 100, 0, 0
	})

	// Two additive passes of 100 land near 200.
	got := pixelAt(c, 150, 150)
	r := int32(got>>11) << 3
	if r < 184 || r > 208 {
		t.Errorf("additive red = %d, want about 200", r)
	}
}

func TestChromaKeyDiscards(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.ChromakeyValue(0x00FF00FF)
	c.ChromakeyMode(ChromakeyEnable)
	c.ResetStats()

	drawQuad(c, 10, 10, 50, 50, func(v *Vertex) {
		v.R, v.G, v.B = 255, 0, 255
	})

	var cf, po [1]int32
	c.Get(QueryChromaFail, cf[:])
	c.Get(QueryPixelsOut, po[:])
	if cf[0] == 0 {
		t.Error("no chroma failures recorded")
	}
	if po[0] != 0 {
		t.Errorf("pixelsOut = %d, want 0 for fully keyed quad", po[0])
	}
	if got := pixelAt(c, 20, 20); got != 0 {
		t.Errorf("keyed pixel written: %04X", got)
	}
}

func TestStipplePatternMode(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.StippleMode(StipplePatternMode)
	c.StipplePattern(0x00000000)
	c.ResetStats()

	drawQuad(c, 0, 0, 64, 64, nil)
	var po [1]int32
	c.Get(QueryPixelsOut, po[:])
	if po[0] != 0 {
		t.Errorf("all-zero stipple still wrote %d pixels", po[0])
	}

	c.StipplePattern(0xFFFFFFFF)
	c.ResetStats()
	drawQuad(c, 0, 0, 64, 64, nil)
	c.Get(QueryPixelsOut, po[:])
	if po[0] != 64*64 {
		t.Errorf("all-ones stipple wrote %d pixels, want %d", po[0], 64*64)
	}
}

func TestFogIterated(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.FogColorValue(0x000000FF) // blue fog
	c.FogMode(FogWithIterated)

	// Alpha 255 selects (almost) full fog.
	drawQuad(c, 10, 10, 50, 50, func(v *Vertex) {
		v.R, v.G, v.B, v.A = 255, 0, 0, 255
	})

	got := pixelAt(c, 20, 20)
	r := int32(got >> 11)
	b := int32(got & 0x1F)
	if r > 1 || b < 30 {
		t.Errorf("fogged pixel = %04X, want nearly pure blue", got)
	}
}

func TestClipWindow(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.ClipWindow(100, 100, 200, 200)
	c.ResetStats()

	drawQuad(c, 0, 0, 640, 480, nil)

	var po [1]int32
	c.Get(QueryPixelsOut, po[:])
	if po[0] != 100*100 {
		t.Errorf("clipped quad wrote %d pixels, want %d", po[0], 100*100)
	}
	if pixelAt(c, 150, 150) != 0xFFFF {
		t.Error("pixel inside clip window not drawn")
	}
	if pixelAt(c, 50, 150) != 0 {
		t.Error("pixel outside clip window drawn")
	}

	// The rectangle is mirrored into the clip registers.
	lr := c.reg.read(regClipLeftRight)
	if lr>>16&maxClip != 100 || lr&maxClip != 200 {
		t.Errorf("clipLeftRight = %08X", lr)
	}
	ty := c.reg.read(regClipLowYHighY)
	if ty>>16&maxClip != 100 || ty&maxClip != 200 {
		t.Errorf("clipLowYHighY = %08X", ty)
	}
}

func TestRenderBufferTargetsBack(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.RenderBuffer(BufferBack)

	drawQuad(c, 0, 0, 10, 10, nil)
	if pixelAt(c, 5, 5) != 0 {
		t.Error("draw to back buffer touched the front buffer")
	}
	c.BufferSwap(0)
	if pixelAt(c, 5, 5) != 0xFFFF {
		t.Error("swapped-in back buffer missing rendered pixels")
	}
}

func TestGetQueries(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)

	var v [4]int32
	if !c.Get(QueryNumTMU, v[:]) || v[0] != 2 {
		t.Errorf("QueryNumTMU = %d, want 2", v[0])
	}
	if !c.Get(QueryBitsRGBA, v[:]) || v[0] != 5 || v[1] != 6 || v[2] != 5 {
		t.Errorf("QueryBitsRGBA = %v", v)
	}
	if c.Get(Pname(999), v[:]) {
		t.Error("unknown query did not report failure")
	}

	if s := c.GetString(StringVendor); s != "3Dfx Interactive" {
		t.Errorf("vendor = %q", s)
	}
	if s := c.GetString(StringPname(99)); s != "" {
		t.Errorf("unknown string pname = %q, want empty", s)
	}

	var buf [80]byte
	c.GetVersion(buf[:])
	if buf[0] == 0 {
		t.Error("GetVersion wrote nothing")
	}

	if c.GetProcAddress("grDrawTriangle") == nil {
		t.Error("grDrawTriangle not resolvable")
	}
	if c.GetProcAddress("grBogus") != nil {
		t.Error("unknown proc name resolved")
	}
}

func TestResolutionFallback(t *testing.T) {
	w, h := Resolution(99).Dimensions()
	if w != 640 || h != 480 {
		t.Errorf("unknown resolution = %dx%d, want 640x480", w, h)
	}
	w, h = Res800x600.Dimensions()
	if w != 800 || h != 600 {
		t.Errorf("Res800x600 = %dx%d", w, h)
	}
}

func TestSettersBeforeOpenAreIgnored(t *testing.T) {
	c := Init()
	defer c.Shutdown()

	// None of these may panic or change anything observable.
	c.ColorCombine(CombineFunctionLocal, CombineFactorZero, CombineLocalIterated, CombineOtherIterated, false)
	c.DepthMask(true)
	c.BufferClear(0xFFFFFFFF, 0, 0)
	c.BufferSwap(0)
	c.DrawTriangle(flatVertex(0, 0, 1, 1, 1, 1), flatVertex(10, 0, 1, 1, 1, 1), flatVertex(0, 10, 1, 1, 1, 1))

	if c.FrontBuffer() != nil {
		t.Error("front buffer exists before WinOpen")
	}
}

func TestLfbRoundTrip(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)

	var info LfbInfo
	if !c.LfbLock(LfbWriteOnly, BufferFront, LfbWriteMode565, OriginUpperLeft, false, &info) {
		t.Fatal("LfbLock failed")
	}
	if info.StrideBytes != 640*2 {
		t.Errorf("stride = %d, want 1280", info.StrideBytes)
	}
	if c.LfbLock(LfbWriteOnly, BufferFront, LfbWriteMode565, OriginUpperLeft, false, &info) {
		t.Error("second lock while held succeeded")
	}
	if !c.LfbUnlock(LfbWriteOnly, BufferFront) {
		t.Error("unlock failed")
	}

	src := []uint16{0x1234, 0x5678, 0x9ABC, 0xDEF0}
	if !c.LfbWriteRegion(BufferFront, 10, 20, LfbWriteMode565, 2, 2, src, 2) {
		t.Fatal("LfbWriteRegion failed")
	}
	dst := make([]uint16, 4)
	if !c.LfbReadRegion(BufferFront, 10, 20, 2, 2, dst, 2) {
		t.Fatal("LfbReadRegion failed")
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("pixel %d = %04X, want %04X", i, dst[i], src[i])
		}
	}
	if got := pixelAt(c, 11, 21); got != 0xDEF0 {
		t.Errorf("framebuffer word = %04X, want DEF0", got)
	}
}

func TestVertexLayoutRelocation(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)

	// Client vertex: 8 bytes padding, then x,y floats, then packed ARGB.
	c.VertexLayout(ParamXY, 8, true)
	c.VertexLayout(ParamPARGB, 16, true)
	c.VertexLayout(ParamZ, -1, false)
	c.VertexLayout(ParamQ, -1, false)
	c.VertexLayout(ParamST0, -1, false)
	c.VertexLayout(ParamST1, -1, false)

	pack := func(x, y float32, argb uint32) []byte {
		buf := make([]byte, 20)
		binary.LittleEndian.PutUint32(buf[8:], floatBits(x))
		binary.LittleEndian.PutUint32(buf[12:], floatBits(y))
		binary.LittleEndian.PutUint32(buf[16:], argb)
		return buf
	}

	white := uint32(0xFFFFFFFF)
	c.DrawVertexArray(ModeTriangles, [][]byte{
		pack(100, 100, white), pack(200, 100, white), pack(100, 200, white),
	})

	if got := pixelAt(c, 120, 120); got != 0xFFFF {
		t.Errorf("relocated-layout triangle pixel = %04X, want FFFF", got)
	}
}

func TestDrawVertexArrayModes(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)

	mk := func(x, y float32) []byte {
		return flatVertex(x, y, 255, 255, 255, 255).pack()
	}

	c.ResetStats()
	// A strip of two triangles covering a 100x100 quad.
	c.DrawVertexArray(ModeTriangleStrip, [][]byte{
		mk(0, 0), mk(100, 0), mk(0, 100), mk(100, 100),
	})
	var po [1]int32
	c.Get(QueryPixelsOut, po[:])
	if po[0] != 100*100 {
		t.Errorf("strip covered %d pixels, want %d", po[0], 100*100)
	}

	c.ResetStats()
	c.DrawVertexArray(ModeTriangleFan, [][]byte{
		mk(200, 200), mk(300, 200), mk(300, 300), mk(200, 300),
	})
	c.Get(QueryPixelsOut, po[:])
	if po[0] != 100*100 {
		t.Errorf("fan covered %d pixels, want %d", po[0], 100*100)
	}
}

func TestDrawVertexArrayContiguous(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)

	var base []byte
	add := func(x, y float32) {
		base = append(base, flatVertex(x, y, 255, 255, 255, 255).pack()...)
	}
	add(0, 0)
	add(50, 0)
	add(0, 50)

	c.ResetStats()
	c.DrawVertexArrayContiguous(ModeTriangles, 3, base, vertexStride)
	var po [1]int32
	c.Get(QueryPixelsOut, po[:])
	if po[0] == 0 {
		t.Error("contiguous draw produced no pixels")
	}
}

func TestDrawPointAndLine(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)

	c.DrawPoint(flatVertex(10, 10, 255, 255, 255, 255))
	if pixelAt(c, 10, 10) != 0xFFFF {
		t.Error("point pixel not drawn")
	}

	c.DrawLine(flatVertex(100, 50, 255, 255, 255, 255), flatVertex(200, 50, 255, 255, 255, 255))
	covered := 0
	for x := int32(100); x < 200; x++ {
		if pixelAt(c, x, 50) == 0xFFFF {
			covered++
		}
	}
	if covered < 90 {
		t.Errorf("horizontal line covered %d/100 pixels", covered)
	}
}

func TestOffscreenGeometryClamped(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.ResetStats()

	// Straddling the top-left corner: only the on-screen part renders.
	c.DrawTriangle(
		flatVertex(-100, -100, 255, 255, 255, 255),
		flatVertex(200, -100, 255, 255, 255, 255),
		flatVertex(-100, 200, 255, 255, 255, 255),
	)
	var po [1]int32
	c.Get(QueryPixelsOut, po[:])
	if po[0] == 0 {
		t.Error("partially visible triangle drew nothing")
	}
	if pixelAt(c, 0, 0) == 0 {
		t.Error("visible corner not drawn")
	}

	// Entirely off-screen: nothing at all.
	c.ResetStats()
	c.DrawTriangle(
		flatVertex(-300, -300, 255, 255, 255, 255),
		flatVertex(-100, -300, 255, 255, 255, 255),
		flatVertex(-300, -100, 255, 255, 255, 255),
	)
	c.DrawTriangle(
		flatVertex(700, 500, 255, 255, 255, 255),
		flatVertex(900, 500, 255, 255, 255, 255),
		flatVertex(700, 700, 255, 255, 255, 255),
	)
	c.Get(QueryPixelsOut, po[:])
	if po[0] != 0 {
		t.Errorf("off-screen triangles wrote %d pixels", po[0])
	}
}

func TestOriginLowerLeftFlips(t *testing.T) {
	c := openTestContext(t, Res640x480, 0)
	iterated(c)
	c.DepthBufferModeValue(DepthBufferDisable)
	c.Origin(OriginLowerLeft)

	// A quad at the top of GL-style space lands at the bottom of memory.
	drawQuad(c, 0, 0, 10, 10, nil)
	if pixelAt(c, 5, 479-5) != 0xFFFF {
		t.Error("lower-left origin did not flip rows")
	}
	if pixelAt(c, 5, 5) != 0 {
		t.Error("unflipped row written with lower-left origin")
	}
}
