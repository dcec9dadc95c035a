package main

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/flga/vglide/voodoo"
	"golang.org/x/image/bmp"
)

// screenshot dumps the current front buffer to a timestamped BMP in the
// current working directory.
func screenshot(ctx *voodoo.Context) error {
	frame := ctx.FrontBuffer()
	if frame == nil {
		return fmt.Errorf("screenshot: no front buffer")
	}
	w, h := ctx.Dimensions()

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			px := binary.LittleEndian.Uint16(frame[(y*w+x)*2:])
			r := uint8(px >> 11)
			g := uint8(px >> 5 & 0x3F)
			b := uint8(px & 0x1F)
			img.SetRGBA(int(x), int(y), color.RGBA{
				R: r<<3 | r>>2,
				G: g<<2 | g>>4,
				B: b<<3 | b>>2,
				A: 0xFF,
			})
		}
	}

	name := fmt.Sprintf("vglide_%s.bmp", time.Now().Format("20060102_150405"))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("screenshot: %s", err)
	}
	defer f.Close()

	if err := bmp.Encode(f, img); err != nil {
		return fmt.Errorf("screenshot: unable to encode %s: %s", name, err)
	}
	return nil
}
