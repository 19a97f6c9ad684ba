package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"globorelay/internal/http/broadcasthandler"
	"globorelay/internal/http/webui"
	"globorelay/internal/ws"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files
)

type httpServer struct {
	listenPort uint16
	srv        *http.Server
	ln         net.Listener
	wsSrv      *ws.WsServer
	registry   *ws.Registry
	dispatcher *ws.Dispatcher
	ctx        context.Context
}

// NewHttpServer wires the relay routes. Only requests arriving from
// trustedProxies may set the client address through X-Forwarded-For;
// triggerMids run in front of the broadcast trigger only.
func NewHttpServer(ctx context.Context, listenPort uint16, wsSrv *ws.WsServer, registry *ws.Registry,
	dispatcher *ws.Dispatcher, trustedProxies []string, triggerMids ...gin.HandlerFunc) (*httpServer, error) {
	h := &httpServer{
		listenPort: listenPort,
		wsSrv:      wsSrv,
		registry:   registry,
		dispatcher: dispatcher,
		ctx:        ctx,
	}

	routerEngine, err := h.routes(trustedProxies, triggerMids)
	if err != nil {
		return nil, err
	}
	h.srv = &http.Server{
		Handler:           routerEngine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return h.ctx
		},
	}
	return h, nil
}

func (h *httpServer) routes(trustedProxies []string, triggerMids []gin.HandlerFunc) (*gin.Engine, error) {
	routerEngine := gin.New()
	// nil trusts no proxy at all; gin's default trusts every one.
	if err := routerEngine.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	// routerEngine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// websocket endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// broadcast trigger
	bh := broadcasthandler.New(h.dispatcher)
	bh.Register(routerEngine.Group("", triggerMids...))

	routerEngine.GET("/healthz", h.health)
	routerEngine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Demo page for "/" and anything unknown
	routerEngine.GET("/", webui.Index)
	routerEngine.NoRoute(webui.Index)

	return routerEngine, nil
}

func (h *httpServer) health(ginCtx *gin.Context) {
	ginCtx.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": h.registry.Len(),
	})
}

// Start serves until Dispose is called. Calling Dispose first makes Start
// return nil without serving.
func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	zap.L().Info("http_listen", zap.String("addr", h.ln.Addr().String()))
	if err := h.srv.Serve(h.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in‑flight requests to finish.
func (h *httpServer) Dispose() error {
	// The parent context is usually already cancelled at this point.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), 10*time.Second)
	defer cancel()

	// Ask the server to shut down.
	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn’t finish in time
	}

	// Hijacked websocket connections are not tracked by http.Server.
	for _, c := range h.registry.Snapshot() {
		h.registry.Deregister(c)
		_ = c.Close()
	}
	return nil
}
