package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"timescape_backend/internal/discovery/suggest"
	"timescape_backend/platform/logger"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer
	maxMessageSize = 4 * 1024
	// Buffered render frames per connection before slow clients drop
	sendBuffer = 32
)

// Gateway upgrades suggestion-stream requests and runs one controller per
// connection.
type Gateway struct {
	engine   suggest.Suggester
	delay    time.Duration
	log      *logger.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*conn]struct{}
}

// NewGateway creates the websocket gateway.
func NewGateway(engine suggest.Suggester, delay time.Duration, checkOrigin func(*http.Request) bool, log *logger.Logger) *Gateway {
	return &Gateway{
		engine: engine,
		delay:  delay,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		conns: make(map[*conn]struct{}),
	}
}

type conn struct {
	id         uuid.UUID
	ws         *websocket.Conn
	send       chan []byte
	controller *suggest.Controller
	log        *logger.Logger
	closeOnce  sync.Once
	gateway    *Gateway

	// sendMu guards closed and orders every send against close(send).
	sendMu sync.Mutex
	closed bool
}

// Handler returns the gin handler for the suggestion stream.
func (g *Gateway) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			g.log.Warn("websocket upgrade failed", "error", err)
			return
		}

		sessionID := uuid.New()
		log := g.log.WithSessionID(sessionID.String())

		cn := &conn{
			id:      sessionID,
			ws:      ws,
			send:    make(chan []byte, sendBuffer),
			log:     log,
			gateway: g,
		}
		cn.controller = suggest.NewController(g.engine, suggest.NewState(), g.delay, cn.pushRender, log)

		g.addConn(cn)

		log.Info("suggestion session opened")
		go cn.writePump()
		cn.readPump()
	}
}

// Close tears down every live session; used on server shutdown.
func (g *Gateway) Close() {
	g.mu.Lock()
	conns := make([]*conn, 0, len(g.conns))
	for cn := range g.conns {
		conns = append(conns, cn)
	}
	g.mu.Unlock()

	for _, cn := range conns {
		cn.close()
	}
}

func (g *Gateway) addConn(cn *conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conns[cn] = struct{}{}
}

func (g *Gateway) removeConn(cn *conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.conns, cn)
}

// pushRender is the controller's render callback: snapshots become render
// frames. A full buffer means the client is too slow; dropping a frame is
// safe because every later frame carries the complete view.
func (c *conn) pushRender(snap suggest.Snapshot) {
	data, err := encodeRender(snap)
	if err != nil {
		c.log.Error("failed to encode render frame", "error", err)
		return
	}
	c.enqueue(data, "render")
}

// enqueue hands a frame to the write pump. Sends race teardown from either
// pump and from Gateway.Close, so the closed check and the channel send must
// sit under the same lock that close() takes before closing the channel.
func (c *conn) enqueue(data []byte, kind string) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("send buffer full, dropping frame", "kind", kind)
	}
}

// readPump translates inbound frames into controller events.
func (c *conn) readPump() {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read failed", "error", err)
			}
			return
		}

		frame, err := decodeInbound(message)
		if err != nil {
			c.log.Warn("ignoring malformed frame", "error", err)
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *conn) handleFrame(frame InboundFrame) {
	switch frame.Type {
	case FrameQuery:
		c.controller.SetQueryText(frame.Text)
	case FrameSubmit:
		c.controller.Submit()
	case FrameClear:
		c.controller.Clear()
	case FrameSelect:
		item, err := c.controller.Select(frame.Index)
		if err != nil {
			c.log.Warn("select rejected", "index", frame.Index, "error", err)
			return
		}
		data, err := encodePlace(item.Place)
		if err != nil {
			c.log.Error("failed to encode place frame", "error", err)
			return
		}
		c.enqueue(data, "place")
	default:
		c.log.Warn("unknown frame type", "type", frame.Type)
	}
}

// writePump drains the send channel and keeps the connection alive.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close shuts the session down exactly once: the controller first, so any
// in-flight call is marked stale before the socket goes away, then the send
// channel is sealed against late frames before it is closed.
func (c *conn) close() {
	c.closeOnce.Do(func() {
		c.controller.Close()

		c.sendMu.Lock()
		c.closed = true
		c.sendMu.Unlock()
		close(c.send)

		c.gateway.removeConn(c)
		if c.ws != nil {
			_ = c.ws.Close()
		}
		c.log.Info("suggestion session closed")
	})
}
