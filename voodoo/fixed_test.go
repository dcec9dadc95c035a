package voodoo

import (
	"math"
	"testing"
)

func TestFixedPointConversions(t *testing.T) {
	tests := []struct {
		name string
		got  int64
		want int64
	}{
		{"12.4 one", int64(floatTo12_4(1.0)), 16},
		{"12.4 half rounds", int64(floatTo12_4(1.5)), 24},
		{"12.4 negative", int64(floatTo12_4(-2.0)), -32},
		{"12.12 one", int64(floatTo12_12(1.0)), 4096},
		{"12.12 255", int64(floatTo12_12(255.0)), 255 * 4096},
		{"20.12 max z", int64(floatTo20_12(65535.0)), 65535 * 4096},
		{"16.32 one", floatToW(1.0), 1 << 32},
		{"14.18 one (internal .32)", floatToST(1.0), 1 << 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}

	if round12_4(24) != 2 || round12_4(23) != 1 {
		t.Error("round12_4 does not round at the half-texel boundary")
	}
}

func TestFastReciplog(t *testing.T) {
	cases := []float64{1.0, 0.5, 0.25, 2.0, 3.0, 100.0, 1.0 / 3.0, 0.001, 1000.0}
	for _, w := range cases {
		value := int64(w * 4294967296.0) // .32 input
		recip, log2 := fastReciplog(value)

		wantRecip := (1.0 / w) * 32768.0 // .15 output
		if wantRecip <= math.MaxInt32 {
			diff := math.Abs(float64(recip) - wantRecip)
			if diff/wantRecip > 0.002 && diff > 2 {
				t.Errorf("recip(%v) = %d, want about %.0f", w, recip, wantRecip)
			}
		}

		wantLog := -math.Log2(w) * 256.0 // .8 output, log of the reciprocal
		if math.Abs(float64(log2)-wantLog) > 2.5 {
			t.Errorf("log2(%v) = %d, want about %.1f", w, log2, wantLog)
		}
	}

	// Zero input: infinite reciprocal, huge LOD.
	recip, log2 := fastReciplog(0)
	if recip != 0x7FFFFFFF {
		t.Errorf("recip(0) = %08X, want 7FFFFFFF", recip)
	}
	if log2 < 1000<<8 {
		t.Errorf("log2(0) = %d, want sentinel", log2)
	}

	// Negative input carries the sign on the reciprocal only.
	recip, _ = fastReciplog(-(1 << 32))
	if recip >= 0 {
		t.Errorf("recip(-1) = %d, want negative", recip)
	}
}

func TestDepthFloatEncoding(t *testing.T) {
	// W with bits above 32 set: depth saturates to zero.
	if got := wFloat(1 << 40); got != 0 {
		t.Errorf("huge W = %04X, want 0", got)
	}
	// Tiny W: maximum depth.
	if got := wFloat(0x1234); got != 0xFFFF {
		t.Errorf("tiny W = %04X, want FFFF", got)
	}
	// The encoding must be monotonically decreasing in W.
	prev := int32(0x10000)
	for _, w := range []int64{1 << 20, 1 << 24, 1 << 28, 1 << 31} {
		got := wFloat(w)
		if got >= prev {
			t.Errorf("wFloat(%d) = %04X, not decreasing (prev %04X)", w, got, prev)
		}
		prev = got
	}

	if got := zFloat(-1); got != 0 {
		t.Errorf("negative Z float = %04X, want 0", got)
	}
}

func TestClampedARGBModes(t *testing.T) {
	clampOn := fbzColorPath(1 << 28)
	clampOff := fbzColorPath(0)

	tests := []struct {
		name string
		iter int32
		fcp  fbzColorPath
		want int32
	}{
		{"in range", 128 << 12, clampOn, 128},
		{"saturate high", 300 << 12, clampOn, 255},
		{"saturate low", -5 << 12, clampOn, 0},
		{"wrap fff to zero", 0xFFF << 12, clampOff, 0},
		{"wrap 100 to ff", 0x100 << 12, clampOff, 0xFF},
		{"wrap masks", 0x342 << 12, clampOff, 0x42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampedARGB(tt.iter, tt.fcp); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	if got := clampedZ(0x10000<<12, clampOff); got != 0xFFFF {
		t.Errorf("clampedZ wrap 0x10000 = %04X, want FFFF", got)
	}
	if got := clampedZ(70000<<12, clampOn); got != 0xFFFF {
		t.Errorf("clampedZ saturate = %04X, want FFFF", got)
	}
}

func TestDitherMonotonicity(t *testing.T) {
	// A horizontal gradient stepping one 8-bit unit per pixel must never
	// lose more than one 5-bit level between adjacent pixels.
	for y := int32(0); y < 4; y++ {
		prev := int32(-1)
		for x := int32(0); x < 256; x++ {
			val := x
			idx := y*256*4 + val*4 + x&3
			cur := int32(dither4Lookup[idx])
			if prev >= 0 && prev-cur > 1 {
				t.Fatalf("5-bit dither drops from %d to %d at x=%d y=%d", prev, cur, x, y)
			}
			prev = cur
		}
	}
}

func TestDitherRangeAndEndpoints(t *testing.T) {
	for i, v := range dither4Lookup {
		if v > 31 {
			t.Fatalf("dither4Lookup[%d] = %d, exceeds 5 bits", i, v)
		}
	}
	for i, v := range dither4LookupG {
		if v > 63 {
			t.Fatalf("dither4LookupG[%d] = %d, exceeds 6 bits", i, v)
		}
	}
	// Black and white are fixed points of the dither.
	for y := int32(0); y < 4; y++ {
		for x := int32(0); x < 4; x++ {
			if dither4Lookup[y*256*4+0*4+x] != 0 {
				t.Fatal("dithered black is not 0")
			}
			if dither4Lookup[y*256*4+255*4+x] != 31 {
				t.Fatal("dithered white is not 31")
			}
			if dither4LookupG[y*256*4+255*4+x] != 63 {
				t.Fatal("dithered white green is not 63")
			}
		}
	}
}

func TestBilinearFractionMask(t *testing.T) {
	var tm tmuState
	tm.allocate(0)
	if tm.bilinearMask != 0xF0 {
		t.Errorf("bilinear mask = %02X, want F0", tm.bilinearMask)
	}
}
