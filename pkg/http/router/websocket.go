package router

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/wayroute/pkg/http/router/controllers"
	"go.uber.org/zap"
)

/*
handleWebsocket upgrades GET /ws/routes to the route channel: every text message carries one
route request and is answered by exactly one message, in order. A connection lives in its own
goroutine until the client closes it or ctx is cancelled.
*/
func (api *API) handleWebsocket(ctx context.Context) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, _, hs, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			api.log.Info("upgrade error", zap.Error(err), zap.String("remote_addr", r.RemoteAddr))
			return
		}
		// the http server deadlines do not apply to a hijacked connection
		_ = conn.SetDeadline(time.Time{})

		api.log.Info("established websocket connection", zap.String("connection name", nameConn(conn)),
			zap.String("protocol", hs.Protocol))

		user := api.hub.Register(conn)

		go api.serveUser(ctx, conn, user)
	}
}

func (api *API) serveUser(ctx context.Context, conn net.Conn, user *controllers.User) {
	defer api.hub.Remove(user)

	for {
		if ctx.Err() != nil {
			return
		}
		err := user.ServeRoute(ctx)
		if err == nil {
			continue
		}
		var closed wsutil.ClosedError
		if errors.Is(err, controllers.ErrConnectionClosed) || errors.Is(err, io.EOF) ||
			errors.As(err, &closed) || errors.Is(err, net.ErrClosed) {
			api.log.Info("user disconnected from websocket server", zap.String("connection name", nameConn(conn)))
			return
		}
		api.log.Error("websocket route channel error", zap.Error(err), zap.String("connection name", nameConn(conn)))
		return
	}
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
