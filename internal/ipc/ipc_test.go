package ipc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riyu.sock")

	var got []ControlMessage
	srv, err := StartServer(path, func(_ context.Context, msg ControlMessage) Reply {
		got = append(got, msg)
		return Reply{Status: "executed", Phrase: "Files are: a"}
	})
	require.NoError(t, err)
	defer srv.Close()

	reply, err := SendCommand(path, ControlMessage{Cmd: CmdExecute, Text: "list files"}, time.Second)
	require.NoError(t, err)

	assert.Equal(t, Reply{Status: "executed", Phrase: "Files are: a"}, reply)
	require.Len(t, got, 1)
	assert.Equal(t, "list files", got[0].Text)
}

func TestSendWithoutDaemon(t *testing.T) {
	_, err := SendCommand(filepath.Join(t.TempDir(), "none.sock"), ControlMessage{Cmd: CmdPing}, time.Second)
	assert.Error(t, err)
}

func TestCloseRemovesSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riyu.sock")
	srv, err := StartServer(path, func(context.Context, ControlMessage) Reply { return Reply{Status: "ok"} })
	require.NoError(t, err)
	require.NoError(t, srv.Close())

	assert.NoFileExists(t, path)
}

func TestCloseWithIdleClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riyu.sock")
	srv, err := StartServer(path, func(context.Context, ControlMessage) Reply { return Reply{Status: "ok"} })
	require.NoError(t, err)

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer conn.Close()
	// half a message, then silence
	_, err = conn.Write([]byte(`{"cmd":"exe`))
	require.NoError(t, err)

	closed := make(chan error, 1)
	go func() { closed <- srv.Close() }()

	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on an idle client connection")
	}
}
