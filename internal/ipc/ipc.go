package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"os"
	"sync"
	"time"
)

const DefaultSocketPath = "/tmp/riyu.sock"

// readTimeout bounds how long a client may take to send its request.
const readTimeout = 10 * time.Second

const (
	CmdExecute = "execute"
	CmdPing    = "ping"
)

type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

type Reply struct {
	Status string `json:"status"`
	Phrase string `json:"phrase,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Handler func(ctx context.Context, msg ControlMessage) Reply

type Server struct {
	ln     net.Listener
	path   string
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// StartServer listens on a unix socket and answers one JSON message per
// connection.
func StartServer(path string, handler Handler) (*Server, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{ln: ln, path: path, cancel: cancel}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				log.Warn("ipc accept failed", "err", err)
				continue
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				handleConn(ctx, conn, handler)
			}()
		}
	}()

	return s, nil
}

func (s *Server) Close() error {
	s.cancel()
	err := s.ln.Close()
	s.wg.Wait()
	os.Remove(s.path)
	return err
}

func handleConn(ctx context.Context, conn net.Conn, handler Handler) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	conn.SetReadDeadline(time.Now().Add(readTimeout))

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		json.NewEncoder(conn).Encode(Reply{Status: "error", Error: "bad request"})
		return
	}
	conn.SetReadDeadline(time.Time{})

	reply := handler(ctx, msg)
	if err := json.NewEncoder(conn).Encode(reply); err != nil {
		log.Debug("ipc reply failed", "err", err)
	}
}

// SendCommand submits text to a running daemon and waits for its reply.
func SendCommand(path string, msg ControlMessage, timeout time.Duration) (Reply, error) {
	if path == "" {
		path = DefaultSocketPath
	}

	conn, err := net.Dial("unix", path)
	if err != nil {
		return Reply{}, err
	}
	defer conn.Close()

	if timeout > 0 {
		conn.SetDeadline(time.Now().Add(timeout))
	}

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return Reply{}, fmt.Errorf("send: %w", err)
	}

	var reply Reply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}
