package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`                          _       _   `, "#818cf8"},
	{` __ __ ____ _ _  _ _ __  ___ (_)_ _ | |_ `, "#a78bfa"},
	{` \ V  V / _' | || | '_ \/ _ \| | ' \|  _|`, "#c084fc"},
	{`  \_/\_/\__,_|\_, | .__/\___/|_|_||_|\__|`, "#e879f9"},
	{`               |__/|_|                    `, "#f472b6"},
}

// PrintBanner writes the waypoint banner using the given color profile.
func PrintBanner(w io.Writer, p termenv.Profile) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, paint(p, l.text, l.color, false))
	}
	fmt.Fprintln(w)
}
