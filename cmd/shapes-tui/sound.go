package main

import (
	"log/slog"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// clicker plays short tones. Without an audio device it stays silent.
type clicker struct {
	rate beep.SampleRate
	ok   bool
}

func newClicker() *clicker {
	c := &clicker{rate: beep.SampleRate(44100)}
	if err := speaker.Init(c.rate, c.rate.N(time.Second/10)); err != nil {
		// Non-fatal, the scene works without sound
		slog.Warn("audio unavailable", "error", err)
		return c
	}
	c.ok = true
	return c
}

func (c *clicker) click(freq float64) {
	if !c.ok {
		return
	}
	sine, err := generators.SineTone(c.rate, freq)
	if err != nil {
		slog.Debug("tone", "error", err)
		return
	}
	speaker.Play(beep.Take(c.rate.N(50*time.Millisecond), sine))
}
