package action

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riyu/internal/intent"
)

type fakeOS struct {
	calls int

	power     string
	load      string
	files     []string
	err       error
	raisedBy  []int
	launched  int
	panicking bool
}

func (f *fakeOS) PowerStatus(context.Context) (string, error) {
	f.calls++
	return f.power, f.err
}

func (f *fakeOS) LoadAverage(context.Context) (string, error) {
	f.calls++
	return f.load, f.err
}

func (f *fakeOS) List(context.Context) ([]string, error) {
	f.calls++
	if f.panicking {
		panic("boom")
	}
	return f.files, f.err
}

func (f *fakeOS) Raise(_ context.Context, step int) error {
	f.calls++
	f.raisedBy = append(f.raisedBy, step)
	return f.err
}

func (f *fakeOS) Launch(context.Context) error {
	f.calls++
	f.launched++
	return f.err
}

func newExec(f *fakeOS) *Executor {
	return NewExecutor(Config{Power: f, Load: f, Files: f, Volume: f, Launcher: f})
}

func TestExecuteSuccess(t *testing.T) {
	f := &fakeOS{
		power: "Battery 0: Discharging, 85%",
		load:  "0.42",
		files: []string{"a.txt", "b", "go.mod"},
	}
	e := newExec(f)
	ctx := context.Background()

	res := e.Execute(ctx, intent.CheckBattery)
	require.True(t, res.OK())
	assert.Equal(t, "Battery 0: Discharging, 85%", res.Payload)
	assert.Equal(t, intent.CheckBattery, res.Intent)

	res = e.Execute(ctx, intent.SystemLoad)
	require.True(t, res.OK())
	assert.Equal(t, "0.42", res.Payload)

	res = e.Execute(ctx, intent.ListFiles)
	require.True(t, res.OK())
	assert.Equal(t, "a.txt, b, go.mod", res.Payload)

	res = e.Execute(ctx, intent.OpenTerminal)
	require.True(t, res.OK())
	assert.Equal(t, 1, f.launched)

	res = e.Execute(ctx, intent.VolumeUp)
	require.True(t, res.OK())
	assert.Equal(t, []int{DefaultVolumeStep}, f.raisedBy)
}

func TestExecuteUnrecognizedTouchesNothing(t *testing.T) {
	f := &fakeOS{}
	res := newExec(f).Execute(context.Background(), intent.Unrecognized)

	assert.True(t, res.OK())
	assert.Empty(t, res.Payload)
	assert.Zero(t, f.calls)
}

func TestExecuteReportsFailures(t *testing.T) {
	causes := []struct {
		name string
		err  error
		kind Kind
	}{
		{"missing binary", fmt.Errorf("acpi: %w", exec.ErrNotFound), Unavailable},
		{"permission", fmt.Errorf("open .: %w", fs.ErrPermission), Denied},
		{"other", errors.New("exit status 1"), Failed},
	}

	for _, c := range causes {
		for _, in := range intent.All() {
			t.Run(c.name+"/"+in.String(), func(t *testing.T) {
				f := &fakeOS{err: c.err}
				res := newExec(f).Execute(context.Background(), in)

				require.False(t, res.OK())
				assert.Equal(t, c.kind, KindOf(res.Err))
				assert.ErrorIs(t, res.Err, c.err)
				assert.Empty(t, res.Payload)
				assert.Equal(t, 1, f.calls)
			})
		}
	}
}

func TestExecuteWithoutCapabilities(t *testing.T) {
	e := NewExecutor(Config{})
	for _, in := range intent.All() {
		res := e.Execute(context.Background(), in)
		require.False(t, res.OK(), in.String())
		assert.Equal(t, Unavailable, KindOf(res.Err))
	}
}

func TestExecuteRecoversPanics(t *testing.T) {
	f := &fakeOS{panicking: true}
	var observed error
	e := NewExecutor(Config{
		Files: f,
		Observe: func(in intent.Intent, _ time.Duration, err error) {
			observed = err
		},
	})

	res := e.Execute(context.Background(), intent.ListFiles)
	require.False(t, res.OK())
	assert.Equal(t, Failed, KindOf(res.Err))
	assert.Equal(t, res.Err, observed)
}

func TestCustomVolumeStep(t *testing.T) {
	f := &fakeOS{}
	e := NewExecutor(Config{Volume: f, VolumeStep: 5})
	e.Execute(context.Background(), intent.VolumeUp)
	assert.Equal(t, []int{5}, f.raisedBy)
}

func TestClassifyKeepsExistingError(t *testing.T) {
	orig := &Error{Kind: Denied, Op: "list", Err: fs.ErrPermission}
	got := Classify("other", fmt.Errorf("wrapped: %w", orig))
	assert.Same(t, orig, got)
	assert.Nil(t, Classify("x", nil))
	assert.Equal(t, "list: denied: permission denied", orig.Error())
}
