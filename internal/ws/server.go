package ws

import (
	"net/http"
	"time"

	"globorelay/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Options struct {
	ReadLimit  int64
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration // must be < PongWait
}

func DefaultOptions() Options {
	return Options{
		ReadLimit:  4096,
		WriteWait:  10 * time.Second,
		PongWait:   60 * time.Second,
		PingPeriod: 30 * time.Second,
	}
}

type WsServer struct {
	registry   *Registry
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	opts       Options
}

func NewWsServer(r *Registry, d *Dispatcher, opts Options) *WsServer {
	return &WsServer{
		registry:   r,
		dispatcher: d,
		upgrader: websocket.Upgrader{
			// The demo page is served by this same process.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		opts: opts,
	}
}

// ---------------------------------------------------------------------------
//  Public: Gin entry‑point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(s.opts.ReadLimit)

	// ─────────────────── Client joined ────────────────────────
	conn := newClientConn(rawConn, s.opts.WriteWait)
	s.registry.Register(conn)
	zap.L().Debug("ws.open", zap.String("channel", conn.ID()), zap.Int("channels", s.registry.Len()))

	goSafe("ws.reader", func() { s.reader(conn) })
	goSafe("ws.pinger", func() { s.pinger(conn) })
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) reader(conn *clientConn) {
	defer func() {
		s.registry.Deregister(conn)
		_ = conn.Close()
		zap.L().Debug("ws.close", zap.String("channel", conn.ID()), zap.Int("channels", s.registry.Len()))
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	})

	for {
		mt, data, err := conn.rawConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Debug("ws.read", zap.String("channel", conn.ID()), zap.Error(err))
			}
			return // client closed or errored
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		s.dispatcher.Broadcast(metrics.SourceWs, Message(data))
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(s.opts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-conn.done:
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				s.registry.Deregister(conn)
				_ = conn.Close()
				return
			}
		}
	}
}

// goSafe runs fn in a goroutine and logs a panic instead of crashing the process.
func goSafe(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("goroutine_panic",
					zap.String("goroutine", name),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
			}
		}()
		fn()
	}()
}
