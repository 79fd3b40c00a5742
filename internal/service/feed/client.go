package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	domrepo "MarketPulse/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements an AlertStream backed by a websocket feed of raw alert
// frames: {"text": "...", "date_heading": "..."}.
type Client struct {
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new websocket AlertStream.
func New(websocketURL string, reconnectDelay, pingInterval time.Duration) domrepo.AlertStream {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Client{
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the websocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("feed: connected")
	return nil
}

// Read starts the read and ping loops and returns the alert/error channels.
func (c *Client) Read(ctx context.Context) (<-chan *domrepo.RawAlert, <-chan error) {
	rawCh := make(chan *domrepo.RawAlert, 256)
	errCh := make(chan error, 1)

	go c.pingLoop(ctx)
	go func() {
		defer close(rawCh)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if c.conn == nil || !c.connected {
				errCh <- fmt.Errorf("feed not connected")
				time.Sleep(c.reconnectDelay)
				continue
			}
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				c.connected = false
				errCh <- fmt.Errorf("feed read: %w", err)
				time.Sleep(c.reconnectDelay)
				continue
			}
			var frame struct {
				Text        string `json:"text"`
				DateHeading string `json:"date_heading"`
			}
			if err := json.Unmarshal(data, &frame); err != nil || frame.Text == "" {
				continue
			}
			rawCh <- &domrepo.RawAlert{Text: frame.Text, DateHeading: frame.DateHeading}
		}
	}()
	return rawCh, errCh
}

func (c *Client) pingLoop(ctx context.Context) {
	t := time.NewTicker(c.pingInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if c.conn == nil || !c.connected {
				continue
			}
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				c.connected = false
			}
		}
	}
}

// Reconnect dials again after a read failure.
func (c *Client) Reconnect(ctx context.Context) error {
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.connected = false
	time.Sleep(c.reconnectDelay)
	return c.Connect(ctx)
}

// Close closes the connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected reports connection state.
func (c *Client) IsConnected() bool { return c.connected }
