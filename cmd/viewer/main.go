// viewer embeds the player in a Fyne window: the pixel buffer backs a
// raster image refreshed at the display cadence, with transport buttons
// underneath. All player access stays on the ticker goroutine; the UI
// only posts commands to it.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	dotlottie "dotlottie-go"
)

type command int

const (
	cmdPlay command = iota
	cmdPause
	cmdStop
)

func main() {
	file := flag.String("file", "", "Path to a .json or .lottie file")
	size := flag.Uint("size", 512, "Canvas size in pixels")
	flag.Parse()

	if *file == "" {
		fmt.Println("Usage: viewer -file <path-to-animation>")
		os.Exit(1)
	}

	config := dotlottie.DefaultConfig()
	config.Autoplay = true
	config.LoopAnimation = true

	player, err := dotlottie.NewDotLottiePlayer(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating player: %v\n", err)
		os.Exit(1)
	}
	defer player.Destroy()

	dim := uint32(*size)
	loaded := false
	if strings.HasSuffix(*file, ".lottie") {
		loaded = player.LoadDotLottiePath(*file, dim, dim)
	} else {
		loaded = player.LoadAnimationPath(*file, dim, dim)
	}
	if !loaded {
		fmt.Fprintf(os.Stderr, "Error loading %s\n", *file)
		os.Exit(1)
	}

	viewer := app.New()
	window := viewer.NewWindow("dotlottie viewer")

	frame := image.NewRGBA(image.Rect(0, 0, int(dim), int(dim)))
	raster := canvas.NewRasterFromImage(frame)
	raster.SetMinSize(fyne.NewSize(float32(dim), float32(dim)))

	commands := make(chan command, 8)
	playBtn := widget.NewButton("Play", func() { commands <- cmdPlay })
	pauseBtn := widget.NewButton("Pause", func() { commands <- cmdPause })
	stopBtn := widget.NewButton("Stop", func() { commands <- cmdStop })
	status := widget.NewLabel("")

	window.SetContent(container.NewBorder(
		nil,
		container.NewHBox(playBtn, pauseBtn, stopBtn, status),
		nil, nil,
		raster,
	))

	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()
		for range ticker.C {
			for {
				select {
				case cmd := <-commands:
					switch cmd {
					case cmdPlay:
						player.Play()
					case cmdPause:
						player.Pause()
					case cmdStop:
						player.Stop()
					}
					continue
				default:
				}
				break
			}

			player.Tick()
			blit(player.Buffer(), frame)

			frameNo := player.CurrentFrame()
			total := player.TotalFrames()
			fyne.Do(func() {
				raster.Refresh()
				status.SetText(fmt.Sprintf("frame %.1f / %.0f", frameNo, total))
			})
		}
	}()

	window.ShowAndRun()
}

// blit converts the player's ARGB pixels into the RGBA raster image.
func blit(buffer []uint32, img *image.RGBA) {
	bounds := img.Bounds()
	width := bounds.Dx()
	for i, pixel := range buffer {
		x := i % width
		y := i / width
		img.SetRGBA(x, y, color.RGBA{
			A: uint8(pixel >> 24),
			R: uint8(pixel >> 16),
			G: uint8(pixel >> 8),
			B: uint8(pixel),
		})
	}
}
