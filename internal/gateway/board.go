package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mkarpis/railbird/internal/events"
)

// BoardConfig holds websocket tuning for board connections.
type BoardConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultBoardConfig returns the production defaults.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// boardEvent is the wire form pushed to display boards.
type boardEvent struct {
	Type      events.EventType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Data      any              `json:"data"`
}

// Board fans clock ticks and state changes out to connected display
// boards. One connection pool; a slow client is evicted rather than
// allowed to stall the broadcast.
type Board struct {
	upgrader websocket.Upgrader
	config   BoardConfig

	mu          sync.Mutex
	conns       map[*boardConn]bool
	broadcastCh chan []byte
}

type boardConn struct {
	conn  *websocket.Conn
	send  chan []byte
	board *Board
}

// NewBoard creates the board hub.
func NewBoard(config BoardConfig) *Board {
	return &Board{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		conns:       make(map[*boardConn]bool),
		broadcastCh: make(chan []byte, 256),
	}
}

// Start processes broadcasts until the context is canceled.
func (b *Board) Start(ctx context.Context) {
	log.Info().Msg("board hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("board hub shutting down")
			return
		case data := <-b.broadcastCh:
			b.fanOut(data)
		}
	}
}

// Broadcast queues an event for all connected boards. Dropping on a
// full queue is preferred over blocking the caller.
func (b *Board) Broadcast(eventType events.EventType, payload any) {
	data, err := json.Marshal(boardEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal board event")
		return
	}
	select {
	case b.broadcastCh <- data:
	default:
		log.Warn().Str("event_type", string(eventType)).Msg("board broadcast channel full, dropping event")
	}
}

func (b *Board) fanOut(data []byte) {
	b.mu.Lock()
	targets := make([]*boardConn, 0, len(b.conns))
	for c := range b.conns {
		targets = append(targets, c)
	}
	b.mu.Unlock()

	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			log.Warn().Msg("board connection send buffer full, closing connection")
			b.unregister(c)
			c.conn.Close()
		}
	}
}

// HandleWS upgrades an HTTP request into a board feed connection.
func (b *Board) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade board connection")
		return
	}

	c := &boardConn{conn: conn, send: make(chan []byte, 64), board: b}
	b.mu.Lock()
	b.conns[c] = true
	total := len(b.conns)
	b.mu.Unlock()

	go c.writePump()
	go c.readPump()

	log.Info().Int("total_connections", total).Msg("board connection established")
}

// unregister removes the connection from the pool. The send channel is
// left open: a fan-out that snapshotted the pool before this call may
// still write to it, and closing here would make that write panic. The
// pumps exit on connection error instead, and the buffered channel is
// collected with them.
func (b *Board) unregister(c *boardConn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conns, c)
}

func (c *boardConn) writePump() {
	ticker := time.NewTicker(c.board.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.board.unregister(c)
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.board.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.board.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so pongs are processed; boards never
// send anything meaningful upstream.
func (c *boardConn) readPump() {
	defer func() {
		c.board.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(c.board.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.board.config.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("unexpected board connection close")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.board.config.ReadTimeout))
	}
}
