// lottie-info prints what a .lottie container or raw animation holds:
// manifest entries, timing, markers, themes, and state machines.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	dotlottie "dotlottie-go"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Println("Usage: lottie-info <path-to-animation>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	player, err := dotlottie.NewDotLottiePlayer(dotlottie.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer player.Destroy()

	loaded := false
	if strings.HasSuffix(path, ".lottie") {
		loaded = player.LoadDotLottiePath(path, 64, 64)
	} else {
		loaded = player.LoadAnimationPath(path, 64, 64)
	}
	if !loaded {
		fmt.Fprintf(os.Stderr, "Error loading %s\n", path)
		os.Exit(1)
	}

	fmt.Println(titleStyle.Render(path))
	printRow("frames", fmt.Sprintf("%.0f", player.TotalFrames()))
	printRow("duration", fmt.Sprintf("%.2fs", player.Duration()))

	markers := player.Markers()
	sort.Slice(markers, func(i, j int) bool { return markers[i].Time < markers[j].Time })
	if len(markers) == 0 {
		printRow("markers", dimStyle.Render("none"))
	} else {
		printRow("markers", "")
		for _, m := range markers {
			fmt.Printf("    %s %s\n",
				keyStyle.Render(m.Name),
				dimStyle.Render(fmt.Sprintf("[%.0f, %.0f]", m.Time, m.Time+m.Duration)))
		}
	}

	manifest := player.Manifest()
	if manifest == nil {
		fmt.Println(dimStyle.Render("raw animation (no container manifest)"))
		return
	}

	printRow("version", orDash(manifest.Version))
	printRow("generator", orDash(manifest.Generator))
	printRow("active", player.ActiveAnimationID())

	printRow("animations", "")
	for _, a := range manifest.Animations {
		line := keyStyle.Render(a.ID)
		if a.InitialTheme != "" {
			line += dimStyle.Render(" theme=" + a.InitialTheme)
		}
		if a.Background != "" {
			line += dimStyle.Render(" bg=" + a.Background)
		}
		fmt.Println("    " + line)
	}

	if len(manifest.Themes) > 0 {
		printRow("themes", "")
		for _, t := range manifest.Themes {
			fmt.Println("    " + keyStyle.Render(t.ID))
		}
	}

	if len(manifest.StateMachines) > 0 {
		printRow("state machines", "")
		for _, sm := range manifest.StateMachines {
			line := keyStyle.Render(sm.ID)
			if !player.StateMachineLoad(sm.ID) {
				line += " " + warnStyle.Render("(failed structural checks)")
			}
			fmt.Println("    " + line)
		}
	}
}

func printRow(key, value string) {
	fmt.Printf("  %s %s\n", keyStyle.Render(key+":"), value)
}

func orDash(s string) string {
	if s == "" {
		return dimStyle.Render("-")
	}
	return s
}
