package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riyu/internal/action"
	"riyu/internal/dispatch"
	"riyu/internal/intent"
)

func TestRecordCounts(t *testing.T) {
	m := New()
	ctx := context.Background()

	require.NoError(t, m.Record(ctx, dispatch.Outcome{Intent: intent.CheckBattery, Result: action.Result{Intent: intent.CheckBattery}}))
	require.NoError(t, m.Record(ctx, dispatch.Outcome{Intent: intent.Unrecognized}))
	require.NoError(t, m.Record(ctx, dispatch.Outcome{
		Intent:   intent.ListFiles,
		Result:   action.Result{Intent: intent.ListFiles, Err: &action.Error{Kind: action.Denied}},
		SpeakErr: errors.New("mute"),
	}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("check_battery", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("unrecognized", "unrecognized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("list_files", "denied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.speechFailures))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveAction(intent.SystemLoad, 30*time.Millisecond, nil)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `riyu_action_duration_seconds_count{intent="system_load",kind="ok"} 1`)
}
