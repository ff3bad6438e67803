// ABOUTME: Websocket spectrum feed server
// ABOUTME: Broadcasts smoothed spectrum frames to connected dashboard clients
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/harperreed/audioscope/internal/protocol"
)

const (
	// Path is the websocket endpoint
	Path = "/spectrum"

	pingInterval  = 30 * time.Second
	writeDeadline = 10 * time.Second

	// clientBuffer is the number of frames queued per client before drops
	clientBuffer = 16
)

// Config holds feed server configuration
type Config struct {
	Addr string // listen address, e.g. ":8928"
	Name string
}

// Server serves the spectrum feed
type Server struct {
	config   Config
	serverID string
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	httpServer *http.Server
	listener   net.Listener

	clients   map[string]*client
	clientsMu sync.RWMutex
	stopping  bool // guarded by clientsMu

	info   *protocol.StreamInfo
	infoMu sync.RWMutex

	seq     atomic.Uint64
	dropped atomic.Uint64

	stopOnce sync.Once
	wg       sync.WaitGroup
}

// client is one connected feed consumer
type client struct {
	id       string
	conn     *websocket.Conn
	sendChan chan []byte
}

// New creates a feed server
func New(config Config) *Server {
	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// dashboards on the local network connect from arbitrary origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
	s.mux.HandleFunc(Path, s.handleWebSocket)
	return s
}

// Handler exposes the HTTP routes
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{Handler: s.mux}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Feed server error: %v", err)
		}
	}()

	log.Printf("Spectrum feed listening on %s%s", ln.Addr(), Path)
	return nil
}

// Port returns the bound TCP port, or 0 before Start
func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// Stop closes the listener and every client connection
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		// Shutdown does not track hijacked connections; no client may
		// register once stopping is set.
		s.clientsMu.Lock()
		s.stopping = true
		for _, c := range s.clients {
			c.conn.Close()
		}
		s.clientsMu.Unlock()

		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.httpServer.Shutdown(ctx); err != nil {
				log.Printf("Feed server shutdown error: %v", err)
			}
		}

		s.wg.Wait()
	})
}

// SetStreamInfo records the playing source; it is sent to every new client
func (s *Server) SetStreamInfo(info protocol.StreamInfo) {
	s.infoMu.Lock()
	s.info = &info
	s.infoMu.Unlock()

	s.broadcast(protocol.TypeStreamInfo, info)
}

// PublishFrame sends a copy of values to every client without blocking
func (s *Server) PublishFrame(values []float64) {
	frame := protocol.SpectrumFrame{
		Seq:     s.seq.Add(1),
		Columns: len(values),
		Values:  append([]float64(nil), values...),
	}
	s.broadcast(protocol.TypeSpectrumFrame, frame)
}

// PublishEnd tells clients playback has finished
func (s *Server) PublishEnd(end protocol.StreamEnd) {
	s.broadcast(protocol.TypeStreamEnd, end)
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Dropped returns how many messages were skipped for slow clients
func (s *Server) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Server) broadcast(msgType string, payload interface{}) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if len(s.clients) == 0 {
		return
	}

	data, err := encode(msgType, payload)
	if err != nil {
		log.Printf("Error marshaling %s: %v", msgType, err)
		return
	}
	for _, c := range s.clients {
		s.enqueue(c, data)
	}
}

// enqueue must be called with clientsMu held so the channel cannot be closed
func (s *Server) enqueue(c *client, data []byte) {
	select {
	case c.sendChan <- data:
	default:
		s.dropped.Add(1)
	}
}

func encode(msgType string, payload interface{}) ([]byte, error) {
	return json.Marshal(protocol.Message{Type: msgType, Payload: payload})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New feed connection from %s", r.RemoteAddr)
	s.handleConnection(conn)
}

// handleConnection manages a client connection
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	c := &client{
		id:       uuid.New().String(),
		conn:     conn,
		sendChan: make(chan []byte, clientBuffer),
	}

	hello, err := encode(protocol.TypeServerHello, protocol.ServerHello{
		ServerID: s.serverID,
		ClientID: c.id,
		Name:     s.config.Name,
		Version:  protocol.Version,
	})
	if err != nil {
		log.Printf("Error marshaling server hello: %v", err)
		return
	}

	if !s.register(c, hello) {
		log.Printf("Feed stopping, refusing client %s", c.id)
		return
	}

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, c.id)
		close(c.sendChan)
		s.clientsMu.Unlock()
		log.Printf("Feed client disconnected: %s", c.id)
	}()

	go func() {
		defer s.wg.Done()
		s.clientWriter(c)
	}()

	// Clients only listen; reading drives pong handling and close detection
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

// register adds c to the client set, queues the hello and current stream
// info, and reserves a writer slot on the wait group. It returns false once
// Stop has begun; the caller must start exactly one writer on success.
func (s *Server) register(c *client, hello []byte) bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if s.stopping {
		return false
	}

	s.clients[c.id] = c
	s.enqueue(c, hello)
	s.infoMu.RLock()
	if s.info != nil {
		if data, err := encode(protocol.TypeStreamInfo, *s.info); err == nil {
			s.enqueue(c, data)
		}
	}
	s.infoMu.RUnlock()

	s.wg.Add(1)
	return true
}

// clientWriter sends queued messages and periodic pings
func (s *Server) clientWriter(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.sendChan:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("Error writing feed message: %v", err)
				c.conn.Close()
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}
