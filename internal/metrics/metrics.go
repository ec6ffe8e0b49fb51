package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"riyu/internal/action"
	"riyu/internal/dispatch"
	"riyu/internal/intent"
)

type Metrics struct {
	reg *prometheus.Registry

	dispatches     *prometheus.CounterVec
	speechFailures prometheus.Counter
	actionDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riyu_dispatch_total",
				Help: "Dispatched commands by intent and result.",
			},
			[]string{"intent", "result"},
		),
		speechFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riyu_speech_failures_total",
			Help: "Response phrases the speech engine failed to render.",
		}),
		actionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riyu_action_duration_seconds",
				Help:    "Duration of local action calls.",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"intent", "kind"},
		),
	}

	m.reg.MustRegister(m.dispatches, m.speechFailures, m.actionDuration)
	return m
}

// Record implements dispatch.Sink.
func (m *Metrics) Record(_ context.Context, o dispatch.Outcome) error {
	result := "ok"
	switch {
	case o.Intent == intent.Unrecognized:
		result = "unrecognized"
	case !o.Result.OK():
		result = action.KindOf(o.Result.Err).String()
	}
	m.dispatches.WithLabelValues(o.Intent.String(), result).Inc()

	if o.SpeakErr != nil {
		m.speechFailures.Inc()
	}
	return nil
}

// ObserveAction matches action.Config.Observe.
func (m *Metrics) ObserveAction(in intent.Intent, elapsed time.Duration, err error) {
	kind := "ok"
	if err != nil {
		kind = action.KindOf(err).String()
	}
	m.actionDuration.WithLabelValues(in.String(), kind).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

var _ dispatch.Sink = (*Metrics)(nil)
