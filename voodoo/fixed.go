package voodoo

import (
	"math"
	"math/bits"
)

// Fixed-point scales used by the iterators. These are contractual: triangle
// setup produces values in exactly these formats and the rasterizer and
// pixel pipeline consume them without rescaling.
//
//	vertex X,Y        12.4
//	R,G,B,A           12.12
//	Z                 20.12
//	FBI W             16.32 (int64)
//	TMU S,T           14.18, held internally with 32 fraction bits
//	TMU W             2.30, held internally with 32 fraction bits
const (
	vtxFracBits  = 4
	rgbaFracBits = 12
	zFracBits    = 12
	wFracBits    = 32
	stFracBits   = 18
)

func floatTo12_4(v float32) int32  { return int32(math.Round(float64(v) * 16)) }
func floatTo12_12(v float32) int32 { return int32(float64(v) * 4096) }
func floatTo20_12(v float32) int32 { return int32(float64(v) * 4096) }

// floatToW converts to the 48-bit significant 16.32 W format.
func floatToW(v float32) int64 { return int64(float64(v) * 4294967296.0) }

// floatToST converts a perspective-divided texture coordinate to the
// internal .32 representation (register format 14.18 shifted up 14).
func floatToST(v float32) int64 { return int64(float64(v) * 262144.0) << 14 }

// round12_4 rounds a 12.4 coordinate to the nearest integer pixel.
func round12_4(v int32) int32 { return (v + 8) >> 4 }

func clampToByte(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return v
}

func clampToUint16(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return v
}

// clampedARGB reduces a 12.12 color iterator to 8 bits honoring the two
// rgbzw clamp modes: saturating when the clamp bit is set, and the
// hardware's wrapping behavior when it is not.
func clampedARGB(iter int32, fcp fbzColorPath) int32 {
	v := iter >> 12
	if !fcp.rgbzwClamp() {
		v &= 0xFFF
		if v == 0xFFF {
			return 0
		}
		if v == 0x100 {
			return 0xFF
		}
		return v & 0xFF
	}
	return clampToByte(v)
}

// clampedZ reduces a 20.12 Z iterator to 16 bits with the same two modes.
func clampedZ(iter int32, fcp fbzColorPath) int32 {
	v := iter >> 12
	if !fcp.rgbzwClamp() {
		v &= 0xFFFFF
		if v == 0xFFFFF {
			return 0
		}
		if v == 0x10000 {
			return 0xFFFF
		}
		return v & 0xFFFF
	}
	return clampToUint16(v)
}

// clampedW reduces a 16.32 W iterator to 8 bits (fog source).
func clampedW(iter int64, fcp fbzColorPath) int32 {
	v := int32(iter >> 32)
	if !fcp.rgbzwClamp() {
		v &= 0xFFFF
		if v == 0xFFFF {
			return 0
		}
		if v == 0x100 {
			return 0xFF
		}
		return v & 0xFF
	}
	return clampToByte(v)
}

// depthFloat converts a positive fixed-point value (already normalized so
// the interesting range is the low 32 bits) into the 16-bit floating depth
// encoding (exp << 12) | fraction.
func depthFloat(temp uint32) int32 {
	if temp&0xFFFF0000 == 0 {
		return 0xFFFF
	}
	exp := bits.LeadingZeros32(temp)
	d := int32(uint32(exp)<<12 | (^temp >> (19 - exp) & 0xFFF))
	if d < 0xFFFF {
		d++
	}
	return d
}

// wFloat converts the 16.32 W iterator to 16-bit floating depth.
func wFloat(iterw int64) int32 {
	if iterw&0x0000FFFF00000000 != 0 {
		return 0x0000
	}
	return depthFloat(uint32(iterw))
}

// zFloat converts the 20.12 Z iterator to 16-bit floating depth.
func zFloat(iterz int32) int32 {
	if uint32(iterz)&0xF0000000 != 0 {
		return 0x0000
	}
	return depthFloat(uint32(iterz) << 4)
}

// Reciprocal/log2 lookup. A single paired table supports fastReciplog,
// returning 1/w with recipOutputPrec fraction bits and log2 of the
// reciprocal with logOutputPrec fraction bits. Sampled across one octave
// (mantissa in [1,2)) and linearly interpolated on the top 8 fraction bits
// below the index.
const (
	reciplogLookupBits = 9
	reciplogLookupPrec = 22
	recipOutputPrec    = 15
	logOutputPrec      = 8
	logInternalPrec    = 22
)

var reciplog [((1 << reciplogLookupBits) + 1) * 2]uint32

func init() {
	for i := 0; i <= 1<<reciplogLookupBits; i++ {
		value := uint32(1<<reciplogLookupBits + i)
		reciplog[i*2+0] = uint32((1 << (reciplogLookupPrec + reciplogLookupBits)) / uint64(value))
		reciplog[i*2+1] = uint32(math.Round(float64(int64(1)<<logInternalPrec) *
			math.Log2(float64(value)/float64(int(1)<<reciplogLookupBits))))
	}
}

// fastReciplog computes the reciprocal and log2 of a .32 fixed-point value.
// The reciprocal carries recipOutputPrec fraction bits relative to the real
// value of the input; the log2 result is log2(1/input) with logOutputPrec
// fraction bits (it grows as the input shrinks, which is exactly the LOD
// behavior the texture unit wants).
func fastReciplog(value int64) (recip int32, log2 int32) {
	neg := false
	if value < 0 {
		value = -value
		neg = true
	}
	if value == 0 {
		if neg {
			return -0x7FFFFFFF, 1000 << logOutputPrec
		}
		return 0x7FFFFFFF, 1000 << logOutputPrec
	}

	// Normalize the value to m * 2^p with m in [1,2) scaled to the top of
	// 32 bits.
	p := bits.Len64(uint64(value)) - 1
	var temp uint32
	if p >= 31 {
		temp = uint32(value >> (p - 31))
	} else {
		temp = uint32(value << (31 - p))
	}

	idx := (temp >> (31 - reciplogLookupBits)) & (1<<reciplogLookupBits - 1)
	interp := uint64((temp >> (31 - reciplogLookupBits - 8)) & 0xFF)

	rcp := (uint64(reciplog[idx*2+0])*(0x100-interp) + uint64(reciplog[idx*2+2])*interp) >> 8
	lg := (uint64(reciplog[idx*2+1])*(0x100-interp) + uint64(reciplog[idx*2+3])*interp) >> 8

	// log2(1/u) where u = value / 2^32 = m * 2^(p-32).
	mlog := int32((lg + 1<<(logInternalPrec-logOutputPrec-1)) >> (logInternalPrec - logOutputPrec))
	log2 = int32(32-p)<<logOutputPrec - mlog

	// 1/u in .15: (1/m) * 2^(32-p+recipOutputPrec), with 1/m held at
	// reciplogLookupPrec fraction bits.
	shift := 32 - p + recipOutputPrec - reciplogLookupPrec
	var r64 int64
	if shift >= 0 {
		if shift > 40 {
			r64 = math.MaxInt32
		} else {
			r64 = int64(rcp) << shift
		}
	} else {
		r64 = int64(rcp >> uint(-shift))
	}
	if r64 > math.MaxInt32 {
		r64 = math.MaxInt32
	}
	recip = int32(r64)
	if neg {
		recip = -recip
	}
	return recip, log2
}

// Ordered dither. Two 4-row by 256-value by 4-column tables map
// (y&3, 8-bit value, x&3) directly to the dithered 5-bit (R,B) or 6-bit (G)
// output. Built once at startup.
var ditherMatrix4x4 = [16]int32{
	0, 8, 2, 10,
	12, 4, 14, 6,
	3, 11, 1, 9,
	15, 7, 13, 5,
}

var ditherMatrix2x2 = [16]int32{
	2, 10, 2, 10,
	14, 6, 14, 6,
	2, 10, 2, 10,
	14, 6, 14, 6,
}

var (
	dither4Lookup [4 * 256 * 4]uint8 // 5-bit R/B results, 4x4 matrix
	dither4LookupG [4 * 256 * 4]uint8 // 6-bit G results, 4x4 matrix
	dither2Lookup [4 * 256 * 4]uint8
	dither2LookupG [4 * 256 * 4]uint8
)

func ditherRB(val, dith int32) int32 { return (val<<1 - val>>4 + val>>7 + dith) >> 1 }
func ditherG(val, dith int32) int32  { return (val<<2 - val>>4 + val>>6 + dith) >> 2 }

func init() {
	for y := int32(0); y < 4; y++ {
		for val := int32(0); val < 256; val++ {
			for x := int32(0); x < 4; x++ {
				idx := y*256*4 + val*4 + x
				d4 := ditherMatrix4x4[y*4+x]
				d2 := ditherMatrix2x2[y*4+x]
				dither4Lookup[idx] = uint8(ditherRB(val, d4) >> 3)
				dither4LookupG[idx] = uint8(ditherG(val, d4) >> 2)
				dither2Lookup[idx] = uint8(ditherRB(val, d2) >> 3)
				dither2LookupG[idx] = uint8(ditherG(val, d2) >> 2)
			}
		}
	}
}

// bilinearBlend performs the 256-weight bilinear mix of four ARGB32 texels.
// sfrac and tfrac are 8-bit fractions (low bits masked off per the TMU's
// bilinear mask).
func bilinearBlend(t00, t01, t10, t11 uint32, sfrac, tfrac uint32) uint32 {
	w00 := (256 - sfrac) * (256 - tfrac)
	w01 := sfrac * (256 - tfrac)
	w10 := (256 - sfrac) * tfrac
	w11 := sfrac * tfrac

	blend := func(shift uint) uint32 {
		v := (t00>>shift&0xFF)*w00 + (t01>>shift&0xFF)*w01 +
			(t10>>shift&0xFF)*w10 + (t11>>shift&0xFF)*w11
		return v >> 16
	}
	return blend(24)<<24 | blend(16)<<16 | blend(8)<<8 | blend(0)
}
