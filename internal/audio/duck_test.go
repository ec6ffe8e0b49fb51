package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sinkInputs = `Sink Input #41
	Driver: protocol-native.c
	Volume: front-left: 65536 / 100% / 0.00 dB,   front-right: 65536 / 100% / 0.00 dB
	Properties:
		application.name = "Firefox"
Sink Input #42
	Volume: front-left: 52429 /  80% / -5.81 dB
	Properties:
		application.name = "espeak-ng"
Sink Input #bad
	Volume: 10%
`

type fakeMixer struct {
	streams []SinkInput
	set     map[int][]int
}

func (f *fakeMixer) SinkInputs(context.Context) ([]SinkInput, error) {
	return f.streams, nil
}

func (f *fakeMixer) SetSinkInputVolume(_ context.Context, id, percent int) error {
	if f.set == nil {
		f.set = map[int][]int{}
	}
	f.set[id] = append(f.set[id], percent)
	for i := range f.streams {
		if f.streams[i].ID == id {
			f.streams[i].Volume = percent
		}
	}
	return nil
}

func TestParseSinkInputs(t *testing.T) {
	got := parseSinkInputs(sinkInputs)
	require.Len(t, got, 2)
	assert.Equal(t, SinkInput{ID: 41, Volume: 100, AppName: "Firefox"}, got[0])
	assert.Equal(t, SinkInput{ID: 42, Volume: 80, AppName: "espeak-ng"}, got[1])

	assert.Nil(t, parseSinkInputs(""))
}

func TestDuckAndRestore(t *testing.T) {
	m := &fakeMixer{streams: parseSinkInputs(sinkInputs)}
	d := NewDucker(m, []string{"espeak-ng"}, 20)
	ctx := context.Background()

	require.NoError(t, d.DuckOthers(ctx, 0.3, 0))
	assert.Equal(t, []int{30}, m.set[41])
	assert.NotContains(t, m.set, 42)

	// second duck is a no-op
	require.NoError(t, d.DuckOthers(ctx, 0.1, 0))
	assert.Equal(t, []int{30}, m.set[41])

	require.NoError(t, d.UnduckOthers(ctx, 0))
	assert.Equal(t, []int{30, 100}, m.set[41])
}

func TestDuckRespectsMinimum(t *testing.T) {
	m := &fakeMixer{streams: []SinkInput{{ID: 1, Volume: 50, AppName: "mpv"}}}
	d := NewDucker(m, nil, 40)

	require.NoError(t, d.DuckOthers(context.Background(), 0.1, 0))
	assert.Equal(t, []int{40}, m.set[1])
}

func TestFadeSteps(t *testing.T) {
	m := &fakeMixer{streams: []SinkInput{{ID: 7, Volume: 100, AppName: "mpv"}}}
	d := NewDucker(m, nil, 0)

	require.NoError(t, d.DuckOthers(context.Background(), 0.5, 20*time.Millisecond))
	assert.Equal(t, []int{100, 75, 50}, m.set[7])
}
