package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"SignalHub/internal/domain/models"
	"SignalHub/pkg/logger"
	"SignalHub/pkg/util"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// envelope is the wire frame pushed to subscribers.
type envelope struct {
	Type   string                 `json:"type"`
	Ticker string                 `json:"ticker"`
	Signal *models.SignalResponse `json:"signal,omitempty"`
}

// controlMessage is what clients send: subscribe/unsubscribe to a ticker.
type controlMessage struct {
	Type   string `json:"type"`
	Ticker string `json:"ticker"`
}

type client struct {
	conn    *websocket.Conn
	send    chan envelope
	mu      sync.Mutex
	tickers map[string]struct{}
}

func (c *client) subscribed(ticker string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tickers[ticker]
	return ok
}

// Hub fans produced signals out to websocket subscribers. It keeps the last
// signal per ticker and replays it on an interval so late joiners and idle
// connections stay current.
type Hub struct {
	logger   *logger.Logger
	upgrader websocket.Upgrader
	interval time.Duration

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  map[string]*models.SignalResponse

	done     chan struct{}
	stopOnce sync.Once
}

func NewHub(l *logger.Logger, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Hub{
		logger: l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		interval: interval,
		clients:  make(map[*client]struct{}),
		latest:   make(map[string]*models.SignalResponse),
		done:     make(chan struct{}),
	}
}

// Run rebroadcasts the latest signal per ticker on the hub interval.
// Blocks until Close.
func (h *Hub) Run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.mu.RLock()
			for t, s := range h.latest {
				h.pushLocked(t, s)
			}
			h.mu.RUnlock()
		}
	}
}

// Close stops the rebroadcast loop and drops all connections.
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// BroadcastSignal stores the latest signal for a ticker and pushes it to
// current subscribers.
func (h *Hub) BroadcastSignal(ticker string, s *models.SignalResponse) {
	h.mu.Lock()
	h.latest[ticker] = s
	h.pushLocked(ticker, s)
	h.mu.Unlock()
}

// pushLocked requires at least a read lock on h.mu.
func (h *Hub) pushLocked(ticker string, s *models.SignalResponse) {
	env := envelope{Type: "signal", Ticker: ticker, Signal: s}
	for c := range h.clients {
		if !c.subscribed(ticker) {
			continue
		}
		select {
		case c.send <- env:
		default:
			// Slow consumer, drop the frame rather than block the hub.
		}
	}
}

// HandleWS upgrades the connection and serves it until the peer goes away.
func (h *Hub) HandleWS(ec echo.Context) error {
	conn, err := h.upgrader.Upgrade(ec.Response(), ec.Request(), nil)
	if err != nil {
		return err
	}

	c := &client{
		conn:    conn,
		send:    make(chan envelope, 16),
		tickers: make(map[string]struct{}),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed", logger.Error(err))
			}
			return
		}

		var msg controlMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		ticker := util.NormalizeTicker(msg.Ticker)
		if ticker == "" {
			continue
		}

		switch msg.Type {
		case "subscribe":
			c.mu.Lock()
			c.tickers[ticker] = struct{}{}
			c.mu.Unlock()

			// Replay the last known signal immediately on subscribe.
			h.mu.RLock()
			last := h.latest[ticker]
			h.mu.RUnlock()
			if last != nil {
				select {
				case c.send <- envelope{Type: "signal", Ticker: ticker, Signal: last}:
				default:
				}
			}
		case "unsubscribe":
			c.mu.Lock()
			delete(c.tickers, ticker)
			c.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *client) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}
