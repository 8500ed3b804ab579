package main

import (
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/inamate/inamate/shapes-go/internal/input"
)

// cellCenter maps a terminal cell to the raster pixel at its center. A
// cell is one pixel wide and two pixels tall.
func cellCenter(x, y int) input.PixelPoint {
	return input.PixelPoint{X: float64(x) + 0.5, Y: float64(2*y) + 1}
}

func keyFor(ev *tcell.EventKey) (input.Key, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return input.KeyLeft, true
	case tcell.KeyRight:
		return input.KeyRight, true
	case tcell.KeyUp:
		return input.KeyUp, true
	case tcell.KeyDown:
		return input.KeyDown, true
	case tcell.KeyRune:
		return input.Key(string(ev.Rune())), true
	}
	return "", false
}

// cellColors returns the colors of the two pixels a cell shows.
func cellColors(img *image.RGBA, cx, cy int) (top, bottom tcell.Color) {
	return pixelColor(img, cx, 2*cy), pixelColor(img, cx, 2*cy+1)
}

func pixelColor(img *image.RGBA, x, y int) tcell.Color {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return tcell.ColorBlack
	}
	c := img.RGBAAt(x, y)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
