package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/internal/domain/store"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/internal/shared/id"
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4 * 1024
)

// Options configures a Handler
type Options struct {
	// CheckOrigin defaults to gorilla's same-origin check
	CheckOrigin func(r *http.Request) bool
	Metrics     *monitoring.Metrics
	Logger      *zap.Logger
}

// Handler manages WebSocket connections
type Handler struct {
	store    *store.Store
	upgrader websocket.Upgrader
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(s *store.Store, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handler{
		store: s,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		metrics: opts.Metrics,
		logger:  opts.Logger.Named("ws"),
	}
}

// HandleConnection upgrades the request and streams state until the client
// goes away
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cid := id.NewConnectionID()
	logger := h.logger.With(zap.String("connection", cid.String()))
	h.metrics.IncWSConnections()
	logger.Debug("Client connected")

	// holds at most the newest snapshot
	updates := make(chan types.DesktopState, 1)
	unsubscribe := h.store.Subscribe(func(st types.DesktopState) {
		offer(updates, st)
	})

	// replies from the reader, served by the single writer
	replies := make(chan types.WSMessage, 8)
	done := make(chan struct{})

	go func() {
		defer close(done)
		h.readLoop(conn, replies, logger)
	}()

	h.writeLoop(conn, updates, replies, done, logger)

	unsubscribe()
	_ = conn.Close()
	<-done
	h.metrics.DecWSConnections()
	logger.Debug("Client disconnected")
}

// offer replaces any queued snapshot with st
func offer(ch chan types.DesktopState, st types.DesktopState) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (h *Handler) readLoop(conn *websocket.Conn, replies chan<- types.WSMessage, logger *zap.Logger) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg types.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		h.metrics.RecordWSMessage("in", msg.Type)

		var reply types.WSMessage
		switch msg.Type {
		case "ping":
			reply = types.WSMessage{Type: "pong"}
		case "get_state":
			st := h.store.State()
			reply = types.WSMessage{Type: "state", State: &st}
		default:
			reply = types.WSMessage{Type: "error", Message: "unknown message type"}
		}

		select {
		case replies <- reply:
		default:
			logger.Warn("Dropping reply to slow client", zap.String("type", reply.Type))
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, updates <-chan types.DesktopState, replies <-chan types.WSMessage, done <-chan struct{}, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	st := h.store.State()
	if h.send(conn, types.WSMessage{Type: "system", Message: "Connected to DeskOS session " + h.store.ID().String()}) != nil ||
		h.send(conn, types.WSMessage{Type: "state", State: &st}) != nil {
		return
	}

	for {
		var err error
		select {
		case <-done:
			return
		case st := <-updates:
			err = h.send(conn, types.WSMessage{Type: "state", State: &st})
		case msg := <-replies:
			err = h.send(conn, msg)
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = conn.WriteMessage(websocket.PingMessage, nil)
		}
		if err != nil {
			logger.Debug("WebSocket write failed", zap.Error(err))
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, msg types.WSMessage) error {
	msg.Timestamp = time.Now().Unix()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		return err
	}
	h.metrics.RecordWSMessage("out", msg.Type)
	return nil
}
