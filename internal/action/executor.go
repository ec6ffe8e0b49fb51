package action

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"riyu/internal/intent"
)

const DefaultVolumeStep = 10

type Config struct {
	Power    PowerStatusProvider
	Load     LoadAverageProvider
	Files    DirectoryLister
	Volume   VolumeController
	Launcher ProcessLauncher

	// VolumeStep is the master volume increase in percent.
	VolumeStep int

	// Observe, when set, receives the duration and outcome of every
	// capability call.
	Observe func(in intent.Intent, elapsed time.Duration, err error)

	Logger *log.Logger
}

// Executor performs the local effect bound to an intent.
type Executor struct {
	cfg Config
	log *log.Logger
}

func NewExecutor(cfg Config) *Executor {
	if cfg.VolumeStep <= 0 {
		cfg.VolumeStep = DefaultVolumeStep
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{cfg: cfg, log: logger.With("component", "executor")}
}

// Execute makes a single attempt at the effect for in. Failures are
// returned inside the Result, never as a panic or separate error.
func (e *Executor) Execute(ctx context.Context, in intent.Intent) (res Result) {
	res.Intent = in
	if in == intent.Unrecognized {
		return res
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.Payload = ""
			res.Err = &Error{Kind: Failed, Op: in.String(), Err: fmt.Errorf("panic: %v", r)}
		}
		if e.cfg.Observe != nil {
			e.cfg.Observe(in, time.Since(start), res.Err)
		}
		if res.Err != nil {
			e.log.Warn("Action failed", "intent", in, "kind", KindOf(res.Err), "err", res.Err)
		} else {
			e.log.Debug("Action done", "intent", in, "payload", res.Payload)
		}
	}()

	payload, err := e.run(ctx, in)
	if err != nil {
		res.Err = Classify(in.String(), err)
		return res
	}
	res.Payload = payload
	return res
}

func (e *Executor) run(ctx context.Context, in intent.Intent) (string, error) {
	switch in {
	case intent.CheckBattery:
		if e.cfg.Power == nil {
			return "", missing("power status")
		}
		return e.cfg.Power.PowerStatus(ctx)

	case intent.OpenTerminal:
		if e.cfg.Launcher == nil {
			return "", missing("process launcher")
		}
		return "", e.cfg.Launcher.Launch(ctx)

	case intent.SystemLoad:
		if e.cfg.Load == nil {
			return "", missing("load average")
		}
		return e.cfg.Load.LoadAverage(ctx)

	case intent.ListFiles:
		if e.cfg.Files == nil {
			return "", missing("directory lister")
		}
		names, err := e.cfg.Files.List(ctx)
		if err != nil {
			return "", err
		}
		return strings.Join(names, ", "), nil

	case intent.VolumeUp:
		if e.cfg.Volume == nil {
			return "", missing("volume control")
		}
		return "", e.cfg.Volume.Raise(ctx, e.cfg.VolumeStep)
	}

	return "", fmt.Errorf("no action for %s", in)
}

func missing(what string) error {
	return &Error{Kind: Unavailable, Op: what, Err: fmt.Errorf("%s not configured", what)}
}
