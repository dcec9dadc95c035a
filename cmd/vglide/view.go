package main

import (
	"fmt"
	"math"

	"github.com/veandco/go-sdl2/sdl"
)

type view struct {
	title string

	width  int32
	height int32

	fullscreen bool

	window   *sdl.Window
	renderer *sdl.Renderer
	rect     *sdl.Rect
	texture  *sdl.Texture

	freeFuncs []func() error
}

func newView(title string, w, h, scale int) (*view, error) {
	v := &view{
		title:  title,
		width:  int32(w),
		height: int32(h),
	}

	window, renderer, err := sdl.CreateWindowAndRenderer(int32(w*scale), int32(h*scale), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, v.errorf("unable to create window: %s", err)
	}
	v.deferFn(window.Destroy)
	v.deferFn(renderer.Destroy)

	window.SetTitle(title)

	// The framebuffer is native RGB565; stream it straight into a matching
	// texture.
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB565, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
	if err != nil {
		return nil, v.errorf("unable to create texture: %s", err)
	}
	v.deferFn(texture.Destroy)

	v.window = window
	v.renderer = renderer
	v.texture = texture
	v.rect = &sdl.Rect{
		X: 0,
		Y: 0,
		W: int32(w * scale),
		H: int32(h * scale),
	}

	return v, nil
}

func (v *view) errorf(format string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%q: %s: %s", v.title, format, err)
}

func (v *view) deferFn(f func() error) {
	v.freeFuncs = append(v.freeFuncs, f)
}

func (v *view) free() error {
	for i := len(v.freeFuncs) - 1; i >= 0; i-- {
		if err := v.freeFuncs[i](); err != nil {
			return err
		}
	}
	return nil
}

// resize letterboxes the output rect to preserve the framebuffer aspect.
func (v *view) resize() {
	minHeight := float64(v.height)
	minWidth := float64(v.width)

	wf, hf := v.window.GetSize()
	width := float64(wf)
	height := float64(hf)
	var x, y float64

	origW, origH := width, height
	height = math.Floor(width * (minHeight / minWidth))
	if height > origH {
		width = math.Floor(origH * (minWidth / minHeight))
		height = math.Floor(width * (minHeight / minWidth))
	}

	x = math.Abs(width-origW) / 2
	y = math.Abs(height-origH) / 2

	v.rect.W = int32(width)
	v.rect.H = int32(height)
	v.rect.X = int32(x)
	v.rect.Y = int32(y)
}

func (v *view) handle(event sdl.Event) (quit bool, err error) {
	switch evt := event.(type) {
	case *sdl.QuitEvent:
		return true, nil

	case *sdl.WindowEvent:
		if evt.Event == sdl.WINDOWEVENT_CLOSE {
			return true, nil
		}
		if evt.Event == sdl.WINDOWEVENT_RESIZED {
			v.resize()
		}

	case *sdl.KeyboardEvent:
		if evt.Type == sdl.KEYUP && evt.Keysym.Sym == sdl.K_F11 {
			if v.fullscreen {
				v.window.SetFullscreen(0)
			} else {
				v.window.SetFullscreen(sdl.WINDOW_FULLSCREEN_DESKTOP)
			}
			v.fullscreen = !v.fullscreen
		}
	}

	return false, nil
}

// present streams one front buffer into the window.
func (v *view) present(frame []byte) error {
	if frame == nil {
		return nil
	}
	if err := v.texture.Update(nil, frame, int(v.width)*2); err != nil {
		return v.errorf("unable to update texture: %s", err)
	}
	if err := v.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return v.errorf("unable to set draw color: %s", err)
	}
	if err := v.renderer.Clear(); err != nil {
		return v.errorf("unable to clear renderer: %s", err)
	}
	if err := v.renderer.Copy(v.texture, nil, v.rect); err != nil {
		return v.errorf("unable to copy texture: %s", err)
	}
	v.renderer.Present()
	return nil
}
