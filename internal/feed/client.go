// ABOUTME: WebSocket client for the spectrum feed
// ABOUTME: Connects, waits for the server hello and routes frames to channels
package feed

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harperreed/audioscope/internal/protocol"
)

// handshakeTimeout bounds the wait for server/hello
const handshakeTimeout = 5 * time.Second

// Client consumes a spectrum feed
type Client struct {
	conn  *websocket.Conn
	hello protocol.ServerHello
	mu    sync.Mutex

	// Message channels
	Frames chan protocol.SpectrumFrame
	Info   chan protocol.StreamInfo
	End    chan protocol.StreamEnd

	connected bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// Dial connects to a feed at host:port and completes the handshake
func Dial(addr string) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: Path}
	return DialURL(u.String())
}

// DialURL connects to a full ws:// feed URL
func DialURL(feedURL string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:      conn,
		Frames:    make(chan protocol.SpectrumFrame, clientBuffer),
		Info:      make(chan protocol.StreamInfo, 1),
		End:       make(chan protocol.StreamEnd, 1),
		connected: true,
		ctx:       ctx,
		cancel:    cancel,
	}

	if err := c.handshake(); err != nil {
		c.Close()
		return nil, fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()
	return c, nil
}

// handshake waits for server/hello
func (c *Client) handshake() error {
	c.conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read server/hello: %w", err)
	}
	c.conn.SetReadDeadline(time.Time{})

	msgType, payload, err := protocol.Decode(data)
	if err != nil {
		return err
	}
	hello, ok := payload.(*protocol.ServerHello)
	if !ok {
		return fmt.Errorf("expected %s, got %s", protocol.TypeServerHello, msgType)
	}
	c.hello = *hello
	return nil
}

// Hello returns the server greeting received on connect
func (c *Client) Hello() protocol.ServerHello {
	return c.hello
}

// readMessages reads and routes incoming messages
func (c *Client) readMessages() {
	defer c.Close()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.ctx.Done():
			default:
				log.Printf("Feed read error: %v", err)
			}
			return
		}

		_, payload, err := protocol.Decode(data)
		if err != nil {
			log.Printf("Failed to parse feed message: %v", err)
			continue
		}

		switch p := payload.(type) {
		case *protocol.SpectrumFrame:
			// keep only the newest frames if the reader falls behind
			select {
			case c.Frames <- *p:
			default:
			}
		case *protocol.StreamInfo:
			select {
			case c.Info <- *p:
			case <-c.ctx.Done():
				return
			}
		case *protocol.StreamEnd:
			select {
			case c.End <- *p:
			case <-c.ctx.Done():
				return
			}
		}
	}
}

// Close closes the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		c.connected = false
		c.cancel()
		c.conn.Close()
	}
}
