package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for searchgrid.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Teal-to-indigo gradient, top to bottom
	lines := []string{
		"                           _                 _     _ ",
		"  ___  ___  __ _ _ __ ___| |__   __ _ _ __ (_) __| |",
		" / __|/ _ \\/ _` | '__/ __| '_ \\ / _` | '__|| |/ _` |",
		" \\__ \\  __/ (_| | | | (__| | | | (_| | |   | | (_| |",
		" |___/\\___|\\__,_|_|  \\___|_| |_|\\__, |_|   |_|\\__,_|",
		"                                |___/                ",
	}
	colors := []string{"#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa", "#818cf8", "#a78bfa"}

	fmt.Println()
	for i, line := range lines {
		fmt.Println(termenv.String(line).Foreground(p.Color(colors[i])))
	}
	fmt.Println(termenv.String(fmt.Sprintf("  v%s", strings.TrimSpace(version))).Faint())
	fmt.Println()
}
