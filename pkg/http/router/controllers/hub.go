package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"
)

// ErrConnectionClosed is returned by ServeRoute once the client sent a close frame.
var ErrConnectionClosed = errors.New("websocket connection closed")

// User is one websocket client of the route channel.
type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) readRequest() (*routeRequest, error) {
	u.io.Lock()
	defer u.io.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		if h.OpCode == ws.OpClose {
			_ = wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
			return nil, ErrConnectionClosed
		}
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	req := &routeRequest{}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	err = decoder.Decode(req)
	// drain the rest of the frame so the next read starts on a frame boundary
	_, _ = io.Copy(io.Discard, r)
	if err != nil {
		return nil, &decodeError{err}
	}
	return req, nil
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }

// ServeRoute reads one route request from the connection and writes one response message.
// Request and routing errors are answered in band. Only connection failures are returned.
func (u *User) ServeRoute(ctx context.Context) error {
	req, err := u.readRequest()
	var derr *decodeError
	if errors.As(err, &derr) {
		return u.write(envelope{"error": errorBody{Code: http.StatusText(http.StatusBadRequest), Message: derr.Error()}})
	}
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	if err := u.hub.validator.Struct(req); err != nil {
		return u.write(envelope{"error": errorBody{Code: http.StatusText(http.StatusBadRequest), Message: err.Error()}})
	}

	if u.hub.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.hub.timeout)
		defer cancel()
	}

	res, err := u.hub.routingService.ComputeRoutes(ctx, req.toRouteRequest())
	if err != nil {
		_, env := errorEnvelope(err)
		u.hub.log.Debug("route request failed", zap.Uint("user", u.id), zap.Error(err))
		return u.write(env)
	}
	return u.write(envelope{"data": NewRouteResponse(res)})
}

func (u *User) write(x any) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// Hub tracks the open route channel connections.
type Hub struct {
	mu  sync.RWMutex
	seq uint
	us  []*User
	ns  map[uint]*User

	routingService RoutingService
	validator      *requestValidator
	timeout        time.Duration
	log            *zap.Logger
}

func NewHub(routingService RoutingService, timeout time.Duration, log *zap.Logger) *Hub {
	return &Hub{
		ns:             make(map[uint]*User),
		us:             make([]*User, 0),
		routingService: routingService,
		validator:      newRequestValidator(),
		timeout:        timeout,
		log:            log,
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	return user
}

// Remove closes the user's connection and forgets it. Removing twice is a no-op.
func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(user)
}

func (h *Hub) remove(user *User) {
	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)

	// us is sorted by id since ids are handed out in increasing order
	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})
	h.us = append(h.us[:i:i], h.us[i+1:]...)

	_ = user.conn.Close()
}

func (h *Hub) RemoveAllUser() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for len(h.us) > 0 {
		h.remove(h.us[0])
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.us)
}
