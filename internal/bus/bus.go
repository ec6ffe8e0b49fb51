package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	KindCommand = "command"
	KindReply   = "reply"
	KindError   = "error"
)

var errMalformed = errors.New("malformed bus message")

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

type Conn struct {
	ws *websocket.Conn
}

func Dial(ctx context.Context, url string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bus: %w", err)
	}
	return &Conn{ws: ws}, nil
}

func (c *Conn) Read() (*Message, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}

	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return &m, nil
}

func (c *Conn) Write(m *Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *Conn) Close() error {
	return c.ws.Close()
}

// Handler answers one command with the phrase that was spoken.
type Handler func(ctx context.Context, text string) (string, error)

// Shard serves commands addressed to Name over the bus.
type Shard struct {
	Name      string
	URL       string
	Reconnect time.Duration
	Handler   Handler
}

// Run connects, serves until ctx ends, and redials after the connection
// drops.
func (s *Shard) Run(ctx context.Context) error {
	delay := s.Reconnect
	if delay <= 0 {
		delay = time.Second
	}

	for {
		conn, err := Dial(ctx, s.URL)
		if err != nil {
			log.Warn("Bus unreachable", "url", s.URL, "err", err)
		} else {
			log.Info("Connected to bus", "url", s.URL, "shard", s.Name)
			err = s.serve(ctx, conn)
			conn.Close()
			if ctx.Err() != nil {
				return nil
			}
			log.Warn("Bus connection lost", "err", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (s *Shard) serve(ctx context.Context, conn *Conn) error {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		msg, err := conn.Read()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				return err
			}
			if errors.Is(err, errMalformed) {
				log.Warn("Dropping malformed bus message", "err", err)
				continue
			}
			return err
		}

		if msg.To != s.Name || msg.Kind != KindCommand {
			continue
		}

		resp := &Message{From: s.Name, To: msg.From, Kind: KindReply}
		phrase, err := s.Handler(ctx, msg.Content)
		if err != nil {
			resp.Kind = KindError
			resp.Content = err.Error()
		} else {
			resp.Content = phrase
		}

		if err := conn.Write(resp); err != nil {
			return fmt.Errorf("write reply: %w", err)
		}
	}
}
