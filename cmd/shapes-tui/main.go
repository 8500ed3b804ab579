// Command shapes-tui runs the sample scene in a terminal. Each cell shows
// two pixels with an upper half block; the mouse drags shapes.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/inamate/inamate/shapes-go/internal/config"
	"github.com/inamate/inamate/shapes-go/internal/document"
	"github.com/inamate/inamate/shapes-go/internal/engine"
	"github.com/inamate/inamate/shapes-go/internal/input"
	"github.com/inamate/inamate/shapes-go/internal/render"
	"github.com/inamate/inamate/shapes-go/internal/typeid"
)

const helpLine = " drag: mouse  ←/→ rotate  c commit  r reset  b borders  q quit"

type App struct {
	screen tcell.Screen
	eng    *engine.Engine
	raster *render.Raster
	sound  *clicker

	tracker input.Tracker
}

func NewApp(cfg *config.Config) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	doc := document.NewSampleDocument(typeid.NewSceneID())
	doc.Scene.Width = cfg.SceneWidth
	eng := engine.NewEngine()
	if err := eng.SetDocument(doc); err != nil {
		screen.Fini()
		return nil, err
	}

	a := &App{
		screen: screen,
		eng:    eng,
		sound:  newClicker(),
	}
	a.raster = render.NewRaster(eng.View())
	a.handleResize()
	return a, nil
}

func (a *App) handleResize() {
	cols, rows := a.screen.Size()
	// The last row holds the help line.
	width, height := cols, max(rows-1, 0)*2
	a.eng.Resize(width, height)
	a.raster.Resize(a.eng.View())
	a.raster.StrokeWidth = 1
}

func (a *App) draw() {
	a.raster.Clear(a.eng.Background())
	a.eng.Draw(a.raster)

	img := a.raster.Image()
	cols, rows := a.screen.Size()
	for cy := 0; cy < rows-1; cy++ {
		for cx := 0; cx < cols; cx++ {
			top, bottom := cellColors(img, cx, cy)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			a.screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for cx, ch := range []rune(fmt.Sprintf("%-*s", cols, helpLine)) {
		a.screen.SetContent(cx, rows-1, ch, nil, style)
	}
	a.screen.Show()
}

// handleInput applies ev and reports whether the app should keep running.
func (a *App) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		key, ok := keyFor(ev)
		if !ok {
			return true
		}
		if a.eng.HandleKey(input.KeyEvent{Key: key}) && key == "c" {
			a.sound.click(880)
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		var held input.Buttons
		if ev.Buttons()&tcell.Button1 != 0 {
			held |= input.ButtonPrimary
		}
		pe := a.tracker.Sample(cellCenter(x, y), held)
		if a.eng.HandlePointer(pe) {
			slog.Debug("drag", "x", pe.Position.X, "y", pe.Position.Y)
		}

	case *tcell.EventResize:
		a.handleResize()
		a.screen.Sync()
	}

	return true
}

func (a *App) run() {
	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if !a.handleInput(ev) {
			return
		}
		a.draw()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	// stdout belongs to the terminal UI
	logPath := filepath.Join(os.TempDir(), "shapes-tui.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open log:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.Level()})))

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("start terminal", "error", err)
		fmt.Fprintln(os.Stderr, "start terminal:", err)
		os.Exit(1)
	}
	defer app.screen.Fini()

	slog.Info("shapes-tui started", "scene", app.eng.SceneID())
	app.run()
}
