package audio

import (
	"context"
	"fmt"
	log "log/slog"
	"math"
	"sync"
	"time"
)

const maxVolume = 150

type fadeTarget struct {
	id   int
	from int
	to   int
}

// Mixer is the subset of pactl the ducker needs.
type Mixer interface {
	SinkInputs(ctx context.Context) ([]SinkInput, error)
	SetSinkInputVolume(ctx context.Context, id, percent int) error
}

// Ducker fades every sink input except our own down while speech plays
// and restores the saved volumes afterwards.
type Ducker struct {
	mu          sync.Mutex
	mixer       Mixer
	active      bool
	selfNames   []string
	originalVol map[int]int
	minVolume   int
}

func NewDucker(mixer Mixer, selfNames []string, minVolume int) *Ducker {
	return &Ducker{
		mixer:       mixer,
		selfNames:   append([]string(nil), selfNames...),
		originalVol: make(map[int]int),
		minVolume:   clamp(minVolume),
	}
}

// DuckOthers scales foreign streams to current*factor, not below minVolume.
func (d *Ducker) DuckOthers(ctx context.Context, factor float64, duration time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := d.mixer.SinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list sink inputs: %w", err)
	}

	d.originalVol = make(map[int]int)
	var targets []fadeTarget

	for _, s := range streams {
		if d.isSelf(s) {
			continue
		}

		to := int(math.Round(math.Max(float64(s.Volume)*factor, float64(d.minVolume))))
		d.originalVol[s.ID] = s.Volume
		targets = append(targets, fadeTarget{id: s.ID, from: s.Volume, to: clamp(to)})
	}

	log.Debug("Ducking streams", "count", len(targets), "factor", factor)

	if err := d.fade(ctx, targets, duration); err != nil {
		return err
	}

	d.active = true
	return nil
}

// UnduckOthers fades ducked streams back. Streams that appeared after the
// duck are left alone.
func (d *Ducker) UnduckOthers(ctx context.Context, duration time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	streams, err := d.mixer.SinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list sink inputs: %w", err)
	}

	var targets []fadeTarget
	for _, s := range streams {
		if d.isSelf(s) {
			continue
		}
		orig, ok := d.originalVol[s.ID]
		if !ok {
			continue
		}
		targets = append(targets, fadeTarget{id: s.ID, from: s.Volume, to: orig})
	}

	if err := d.fade(ctx, targets, duration); err != nil {
		return err
	}

	d.originalVol = make(map[int]int)
	d.active = false
	return nil
}

func (d *Ducker) isSelf(s SinkInput) bool {
	for _, name := range d.selfNames {
		if s.AppName == name {
			return true
		}
	}
	return false
}

// fade moves all targets linearly in 10ms steps; a non-positive duration
// jumps straight to the target.
func (d *Ducker) fade(ctx context.Context, targets []fadeTarget, duration time.Duration) error {
	if len(targets) == 0 {
		return nil
	}

	const minStep = 10 * time.Millisecond

	steps := int(duration / minStep)
	if steps < 1 {
		steps = 1
	}
	stepDuration := duration / time.Duration(steps)

	first := 0
	if duration <= 0 {
		first = steps
	}

	for i := first; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frac := float64(i) / float64(steps)
		for _, t := range targets {
			v := int(math.Round(float64(t.from) + float64(t.to-t.from)*frac))
			if err := d.mixer.SetSinkInputVolume(ctx, t.id, v); err != nil {
				return fmt.Errorf("set volume id=%d: %w", t.id, err)
			}
		}

		if i < steps {
			time.Sleep(stepDuration)
		}
	}

	return nil
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > maxVolume {
		return maxVolume
	}
	return v
}
