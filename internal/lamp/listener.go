package lamp

import (
	"context"
	"errors"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Listener follows the relay and reports every message that parses as a color.
type Listener struct {
	url       string
	reconnect time.Duration
	onColor   func(Color)
}

func NewListener(url string, reconnect time.Duration, onColor func(Color)) *Listener {
	return &Listener{url: url, reconnect: reconnect, onColor: onColor}
}

// Run keeps a connection open until ctx is done, redialing after every drop.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listenOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		zap.L().Warn("lamp.disconnected", zap.String("url", l.url), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.reconnect):
		}
	}
}

func (l *Listener) listenOnce(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, l.url, nil)
	if err != nil {
		return err
	}
	defer conn.CloseNow()
	zap.L().Info("lamp.connected", zap.String("url", l.url))

	for {
		mt, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return errors.New("relay closed the connection")
			}
			return err
		}
		if mt != websocket.MessageText {
			continue
		}

		c, err := ParseColor(string(data))
		if err != nil {
			zap.L().Debug("lamp.ignored", zap.String("msg", string(data)), zap.Error(err))
			continue
		}
		l.onColor(c)
	}
}
