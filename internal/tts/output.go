// Package tts renders response phrases as audio.
package tts

import (
	"context"
	"fmt"
	"io"
	log "log/slog"
	"time"
)

type Engine interface {
	Speak(text string) error
}

// Player plays a short cue before speech.
type Player interface {
	Play() error
}

// Ducker lowers other audio streams while speaking.
type Ducker interface {
	DuckOthers(ctx context.Context, factor float64, duration time.Duration) error
	UnduckOthers(ctx context.Context, duration time.Duration) error
}

type Options struct {
	Chime  Player
	Ducker Ducker
	// DuckFactor scales other streams' volume; 0 means 0.3.
	DuckFactor float64
	Fade       time.Duration
	Logger     *log.Logger
}

// Output is the speech sink handed to the dispatcher. Cue and ducking
// failures are logged; only an engine failure is returned.
type Output struct {
	engine Engine
	opts   Options
	log    *log.Logger
}

func NewOutput(engine Engine, opts Options) *Output {
	if opts.DuckFactor <= 0 {
		opts.DuckFactor = 0.3
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Output{engine: engine, opts: opts, log: logger.With("component", "tts")}
}

func (o *Output) Speak(text string) error {
	o.log.Info("Riyu (offline)", "say", text)

	if o.opts.Ducker != nil {
		ctx := context.Background()
		if err := o.opts.Ducker.DuckOthers(ctx, o.opts.DuckFactor, o.opts.Fade); err != nil {
			o.log.Warn("Failed to duck other streams", "err", err)
		}
		defer func() {
			if err := o.opts.Ducker.UnduckOthers(ctx, o.opts.Fade); err != nil {
				o.log.Warn("Failed to restore other streams", "err", err)
			}
		}()
	}

	if o.opts.Chime != nil {
		if err := o.opts.Chime.Play(); err != nil {
			o.log.Warn("Failed to play chime", "err", err)
		}
	}

	if err := o.engine.Speak(text); err != nil {
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

// Console writes phrases instead of speaking them.
type Console struct {
	W io.Writer
}

func (c Console) Speak(text string) error {
	_, err := fmt.Fprintf(c.W, "Riyu (offline): %s\n", text)
	return err
}
