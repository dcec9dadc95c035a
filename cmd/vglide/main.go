package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/flga/vglide/voodoo"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	runtime.LockOSThread()
}

var resolutions = map[string]voodoo.Resolution{
	"320x200":   voodoo.Res320x200,
	"320x240":   voodoo.Res320x240,
	"512x384":   voodoo.Res512x384,
	"640x400":   voodoo.Res640x400,
	"640x480":   voodoo.Res640x480,
	"800x600":   voodoo.Res800x600,
	"1024x768":  voodoo.Res1024x768,
	"1280x1024": voodoo.Res1280x1024,
	"1600x1200": voodoo.Res1600x1200,
}

func initSDL() (func(), error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return func() {}, fmt.Errorf("initSDL: unable to init sdl: %s", err)
	}
	return sdl.Quit, nil
}

func run(resName string, scale int, cpuprof, memprof string) error {
	res, ok := resolutions[resName]
	if !ok {
		return fmt.Errorf("unknown resolution %q", resName)
	}

	quitSDL, err := initSDL()
	if err != nil {
		return err
	}
	defer quitSDL()

	ctx := voodoo.Init()
	defer ctx.Shutdown()

	if !ctx.WinOpen(0, res, voodoo.Refresh60, voodoo.ColorFmtARGB, voodoo.OriginUpperLeft, 2, 1) {
		return fmt.Errorf("unable to open glide window")
	}
	defer ctx.WinClose()

	w, h := ctx.Dimensions()
	view, err := newView("vglide", int(w), int(h), scale)
	if err != nil {
		return err
	}
	defer view.free()

	if cpuprof != "" {
		cpuf, err := os.Create(cpuprof)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %s", err)
		}
		defer cpuf.Close()
		if err := pprof.StartCPUProfile(cpuf); err != nil {
			return fmt.Errorf("could not start CPU profile: %s", err)
		}
		defer pprof.StopCPUProfile()
	}
	if memprof != "" {
		memf, err := os.Create(memprof)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %s", err)
		}
		defer memf.Close()
		defer func() {
			runtime.GC()
			if err := pprof.WriteHeapProfile(memf); err != nil {
				panic("could not write memory profile: " + err.Error())
			}
		}()
	}

	demo := newDemo(ctx)

	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			quit, err := view.handle(event)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			if key, ok := event.(*sdl.KeyboardEvent); ok && key.Type == sdl.KEYUP {
				switch key.Keysym.Sym {
				case sdl.K_ESCAPE:
					return nil
				case sdl.K_F12:
					if err := screenshot(ctx); err != nil {
						fmt.Fprintln(os.Stderr, err)
					}
				}
			}
		}

		demo.frame()

		if err := view.present(ctx.FrontBuffer()); err != nil {
			return err
		}
		sdl.Delay(16)
	}
}

func main() {
	resName := flag.String("res", "640x480", "glide resolution")
	scale := flag.Int("scale", 1, "window scale factor")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")

	flag.Parse()

	if err := run(*resName, *scale, *cpuprofile, *memprofile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
