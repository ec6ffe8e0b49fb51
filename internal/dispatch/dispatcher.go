// Package dispatch turns transcribed command text into exactly one spoken
// response: classify, execute, compose, speak.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"riyu/internal/action"
	"riyu/internal/intent"
)

var ErrBusy = errors.New("dispatcher busy")

type Classifier interface {
	Classify(text string) intent.Intent
}

type Executor interface {
	Execute(ctx context.Context, in intent.Intent) action.Result
}

type Speaker interface {
	Speak(text string) error
}

// Sink observes finished dispatches (command log, metrics). Sink errors
// are logged and never change the outcome.
type Sink interface {
	Record(ctx context.Context, o Outcome) error
}

type Outcome struct {
	Text     string
	Intent   intent.Intent
	Result   action.Result
	Phrase   string
	SpeakErr error
	At       time.Time
	Elapsed  time.Duration
}

type Config struct {
	Classifier Classifier
	Executor   Executor
	Speaker    Speaker
	Templates  Templates
	Sinks      []Sink

	// RejectWhenBusy makes Dispatch fail with ErrBusy instead of queueing
	// behind the dispatch in flight.
	RejectWhenBusy bool

	Logger *log.Logger
}

// Dispatcher runs at most one dispatch at a time so spoken responses
// never interleave.
type Dispatcher struct {
	cfg Config
	sem chan struct{}
	log *log.Logger
	now func() time.Time
}

func New(cfg Config) (*Dispatcher, error) {
	if cfg.Classifier == nil {
		return nil, errors.New("dispatch: nil classifier")
	}
	if cfg.Executor == nil {
		return nil, errors.New("dispatch: nil executor")
	}
	if cfg.Speaker == nil {
		return nil, errors.New("dispatch: nil speaker")
	}
	if err := cfg.Templates.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Dispatcher{
		cfg: cfg,
		sem: make(chan struct{}, 1),
		log: logger.With("component", "dispatcher"),
		now: time.Now,
	}, nil
}

// Dispatch handles one command. The error is non-nil only when the call
// never ran: ctx ended while queued, or the dispatcher was busy in reject
// mode. Action and speech failures are reported inside the Outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) (Outcome, error) {
	if err := d.acquire(ctx); err != nil {
		return Outcome{Text: text}, err
	}
	out := func() Outcome {
		defer func() { <-d.sem }()
		return d.run(ctx, text)
	}()

	// the command already ran; a caller hanging up must not drop its record
	sinkCtx := context.WithoutCancel(ctx)
	for _, s := range d.cfg.Sinks {
		if err := s.Record(sinkCtx, out); err != nil {
			d.log.Warn("Failed to record dispatch", "err", err)
		}
	}

	return out, nil
}

func (d *Dispatcher) acquire(ctx context.Context) error {
	if d.cfg.RejectWhenBusy {
		select {
		case d.sem <- struct{}{}:
			return nil
		default:
			return ErrBusy
		}
	}

	select {
	case d.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context, text string) Outcome {
	start := d.now()
	out := Outcome{Text: text, At: start}

	out.Intent = d.cfg.Classifier.Classify(intent.Normalize(text))
	d.log.Info("Classified", "text", text, "intent", out.Intent)

	out.Result = d.cfg.Executor.Execute(ctx, out.Intent)
	out.Phrase = d.cfg.Templates.Compose(out.Result)

	if err := d.speak(out.Phrase); err != nil {
		d.log.Error("Failed to voice out", "phrase", out.Phrase, "err", err)
		out.SpeakErr = err
	}

	out.Elapsed = d.now().Sub(start)
	return out
}

func (d *Dispatcher) speak(phrase string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("speaker panic: %v", r)
		}
	}()
	return d.cfg.Speaker.Speak(phrase)
}
