// demo-player plays a Lottie animation (raw .json or .lottie container)
// in an SDL2 window. Pointer events are forwarded to the player's state
// machine, so interactive bundles respond to the mouse.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	dotlottie "dotlottie-go"
)

func main() {
	file := flag.String("file", "", "Path to a .json or .lottie file")
	width := flag.Uint("width", 512, "Canvas width")
	height := flag.Uint("height", 512, "Canvas height")
	loop := flag.Bool("loop", true, "Loop the animation")
	speed := flag.Float64("speed", 1.0, "Playback speed")
	themeID := flag.String("theme", "", "Theme id to apply (.lottie only)")
	machineID := flag.String("state-machine", "", "State machine id to start (.lottie only)")
	flag.Parse()

	if *file == "" {
		fmt.Println("Usage: demo-player -file <path-to-animation>")
		fmt.Println("  -file <path>            .json or .lottie input")
		fmt.Println("  -width/-height <px>     Canvas size (default 512)")
		fmt.Println("  -loop                   Loop playback (default true)")
		fmt.Println("  -speed <factor>         Playback speed (default 1.0)")
		fmt.Println("  -theme <id>             Apply a theme from the container")
		fmt.Println("  -state-machine <id>     Start a state machine from the container")
		os.Exit(1)
	}

	config := dotlottie.DefaultConfig()
	config.Autoplay = true
	config.LoopAnimation = *loop
	config.Speed = float32(*speed)

	player, err := dotlottie.NewDotLottiePlayer(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating player: %v\n", err)
		os.Exit(1)
	}
	defer player.Destroy()

	w, h := uint32(*width), uint32(*height)
	loaded := false
	if strings.HasSuffix(*file, ".lottie") {
		loaded = player.LoadDotLottiePath(*file, w, h)
	} else {
		loaded = player.LoadAnimationPath(*file, w, h)
	}
	if !loaded {
		fmt.Fprintf(os.Stderr, "Error loading %s\n", *file)
		os.Exit(1)
	}

	if *themeID != "" && !player.SetTheme(*themeID) {
		fmt.Fprintf(os.Stderr, "Warning: theme %q not applied\n", *themeID)
	}
	if *machineID != "" {
		if player.StateMachineLoad(*machineID) && player.StateMachineStart() {
			fmt.Printf("State machine %q running\n", *machineID)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: state machine %q not started\n", *machineID)
		}
	}

	fmt.Printf("Loaded %s: %.0f frames, %.2fs\n", *file, player.TotalFrames(), player.Duration())

	if err := run(player, w, h); err != nil {
		fmt.Fprintf(os.Stderr, "UI error: %v\n", err)
		os.Exit(1)
	}
}

func run(player *dotlottie.DotLottiePlayer, width, height uint32) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("failed to initialize SDL: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"dotlottie demo player",
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(width),
		int32(height),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(width),
		int32(height),
	)
	if err != nil {
		return fmt.Errorf("failed to create texture: %w", err)
	}
	defer texture.Destroy()

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN {
					switch e.Keysym.Sym {
					case sdl.K_ESCAPE, sdl.K_q:
						running = false
					case sdl.K_SPACE:
						if player.IsPlaying() {
							player.Pause()
						} else {
							player.Play()
						}
					case sdl.K_r:
						player.Stop()
						player.Play()
					}
				}
			case *sdl.MouseButtonEvent:
				if e.Button == sdl.BUTTON_LEFT {
					if e.Type == sdl.MOUSEBUTTONDOWN {
						player.PostPointerDown(float32(e.X), float32(e.Y))
					} else if e.Type == sdl.MOUSEBUTTONUP {
						player.PostPointerUp(float32(e.X), float32(e.Y))
					}
				}
			case *sdl.MouseMotionEvent:
				player.PostPointerMove(float32(e.X), float32(e.Y))
			}
		}

		player.Tick()

		buffer := player.Buffer()
		if len(buffer) > 0 {
			pixels := unsafe.Slice((*byte)(unsafe.Pointer(&buffer[0])), len(buffer)*4)
			if err := texture.Update(nil, pixels, int(width)*4); err != nil {
				return fmt.Errorf("texture update: %w", err)
			}
		}

		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()
	}
	return nil
}
