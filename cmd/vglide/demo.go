package main

import (
	"encoding/binary"
	"math"

	"github.com/flga/vglide/voodoo"
)

// demo exercises the whole pipeline: a fogged gouraud triangle spinning
// over a textured backdrop. Alpha blending is not enabled.
type demo struct {
	ctx   *voodoo.Context
	angle float64
	w, h  float32
}

func newDemo(ctx *voodoo.Context) *demo {
	d := &demo{ctx: ctx}
	w, h := ctx.Dimensions()
	d.w = float32(w)
	d.h = float32(h)

	d.uploadChecker()

	ctx.DepthBufferModeValue(voodoo.DepthBufferZBuffer)
	ctx.DepthBufferFunction(voodoo.CmpLess)
	ctx.DepthMask(true)
	ctx.DitherMode(voodoo.Dither4x4)
	ctx.FogColorValue(0x00202040)
	return d
}

// uploadChecker builds a 64x64 RGB565 checkerboard on TMU 0.
func (d *demo) uploadChecker() {
	data := make([]byte, 64*64*2)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := uint16(0x39E7)
			if (x>>3+y>>3)&1 == 1 {
				c = 0xC618
			}
			binary.LittleEndian.PutUint16(data[(y*64+x)*2:], c)
		}
	}
	info := &voodoo.TexInfo{
		SmallLodLog2: voodoo.LodLog2_64,
		LargeLodLog2: voodoo.LodLog2_64,
		AspectLog2:   voodoo.Aspect1x1,
		Format:       voodoo.TexFmtRGB565,
		Data:         data,
	}
	d.ctx.TexDownloadMipMap(0, 0, 0, info)
	d.ctx.TexFilterMode(0, voodoo.TextureFilterBilinear, voodoo.TextureFilterBilinear)
	d.ctx.TexClampMode(0, voodoo.TextureWrap, voodoo.TextureWrap)
	d.ctx.TexCombine(0,
		voodoo.CombineFunctionLocal, voodoo.CombineFactorZero,
		voodoo.CombineFunctionLocal, voodoo.CombineFactorZero,
		false, false)
}

func (d *demo) vertex(x, y, z float32, r, g, b, a float32, s, t float32) *voodoo.Vertex {
	return &voodoo.Vertex{
		X: x, Y: y,
		OOZ: z, OOW: 1,
		R: r, G: g, B: b, A: a,
		SOW: s, TOW: t,
	}
}

func (d *demo) frame() {
	ctx := d.ctx
	ctx.BufferClear(0x00101018, 0, 0xFFFF)

	// Textured backdrop, modulated by a dim iterated color.
	ctx.ColorCombine(voodoo.CombineFunctionScaleOther, voodoo.CombineFactorLocal,
		voodoo.CombineLocalIterated, voodoo.CombineOtherTexture, false)
	ctx.AlphaCombine(voodoo.CombineFunctionLocal, voodoo.CombineFactorZero,
		voodoo.CombineLocalIterated, voodoo.CombineOtherIterated, false)
	ctx.FogMode(voodoo.FogDisable)

	bg := []*voodoo.Vertex{
		d.vertex(0, 0, 60000, 200, 200, 200, 255, 0, 0),
		d.vertex(d.w, 0, 60000, 200, 200, 200, 255, 128, 0),
		d.vertex(d.w, d.h, 60000, 200, 200, 200, 255, 128, 96),
		d.vertex(0, d.h, 60000, 200, 200, 200, 255, 0, 96),
	}
	ctx.DrawTriangle(bg[0], bg[1], bg[2])
	ctx.DrawTriangle(bg[0], bg[2], bg[3])

	// Spinning gouraud triangle in front, fogged by iterated alpha.
	ctx.ColorCombine(voodoo.CombineFunctionLocal, voodoo.CombineFactorZero,
		voodoo.CombineLocalIterated, voodoo.CombineOtherIterated, false)
	ctx.FogMode(voodoo.FogWithIterated)

	cx := float64(d.w) / 2
	cy := float64(d.h) / 2
	rad := cy * 0.7
	var pts [3][2]float32
	for i := 0; i < 3; i++ {
		a := d.angle + float64(i)*2*math.Pi/3
		pts[i][0] = float32(cx + rad*math.Cos(a))
		pts[i][1] = float32(cy + rad*math.Sin(a))
	}
	fogA := float32(96 + 64*math.Sin(d.angle*0.7))
	ctx.DrawTriangle(
		d.vertex(pts[0][0], pts[0][1], 1000, 255, 32, 32, fogA, 0, 0),
		d.vertex(pts[1][0], pts[1][1], 1000, 32, 255, 32, fogA, 0, 0),
		d.vertex(pts[2][0], pts[2][1], 1000, 32, 32, 255, fogA, 0, 0),
	)

	ctx.FogMode(voodoo.FogDisable)
	ctx.BufferSwap(1)
	d.angle += 0.02
}
