// Command shapes-window runs the sample scene in a desktop window: drag
// shapes with the left mouse button, rotate the triangle with the arrow
// keys, c commits, r resets, b toggles borders.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/inamate/inamate/shapes-go/internal/config"
	"github.com/inamate/inamate/shapes-go/internal/document"
	"github.com/inamate/inamate/shapes-go/internal/engine"
	"github.com/inamate/inamate/shapes-go/internal/input"
	"github.com/inamate/inamate/shapes-go/internal/render"
	"github.com/inamate/inamate/shapes-go/internal/typeid"
)

var keyBindings = []struct {
	key ebiten.Key
	to  input.Key
}{
	{ebiten.KeyArrowLeft, input.KeyLeft},
	{ebiten.KeyArrowRight, input.KeyRight},
	{ebiten.KeyC, "c"},
	{ebiten.KeyR, "r"},
	{ebiten.KeyB, "b"},
}

type game struct {
	eng     *engine.Engine
	raster  *render.Raster
	frame   *ebiten.Image
	tracker input.Tracker
	last    input.PixelPoint
	held    input.Buttons
}

func newGame(eng *engine.Engine) *game {
	return &game{eng: eng, raster: render.NewRaster(eng.View())}
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.eng.HandleKey(input.KeyEvent{Key: b.to})
		}
	}

	x, y := ebiten.CursorPosition()
	pos := input.PixelPoint{X: float64(x), Y: float64(y)}
	var held input.Buttons
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		held |= input.ButtonPrimary
	}
	// Only real pointer activity counts as an event.
	if pos != g.last || held != g.held {
		g.eng.HandlePointer(g.tracker.Sample(pos, held))
		g.last, g.held = pos, held
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	view := g.eng.View()
	if g.frame == nil || g.frame.Bounds().Dx() != view.Width || g.frame.Bounds().Dy() != view.Height {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(view.Width, view.Height)
		g.raster.Resize(view)
	}

	g.raster.Clear(g.eng.Background())
	g.eng.Draw(g.raster)
	g.frame.WritePixels(g.raster.Image().Pix)
	screen.DrawImage(g.frame, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := max(outsideWidth, 1), max(outsideHeight, 1)
	if v := g.eng.View(); v.Width != w || v.Height != h {
		g.eng.Resize(w, h)
	}
	return w, h
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	doc := document.NewSampleDocument(typeid.NewSceneID())
	doc.Scene.Width = cfg.SceneWidth
	eng := engine.NewEngine()
	if err := eng.SetDocument(doc); err != nil {
		slog.Error("load scene", "error", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("shapes")
	ebiten.SetWindowSize(engine.DefaultWidth, engine.DefaultHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(newGame(eng)); err != nil && !errors.Is(err, ebiten.Termination) {
		slog.Error("run window", "error", err)
		os.Exit(1)
	}
}
