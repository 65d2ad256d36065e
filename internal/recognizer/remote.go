package recognizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"InkBoard/internal/analysis"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

// DefaultTimeout bounds one round trip to a recognizer service.
const DefaultTimeout = 5 * time.Second

// Remote is an engine backed by a recognizer service reached over a
// websocket. Stroke data is mirrored locally and sent whole with every pass;
// the connection is dialed on the first pass and redialed after a failure.
type Remote struct {
	url      string
	timeout  time.Duration
	dispatch analysis.Dispatcher
	log      *slog.Logger

	data     strokeSet
	analyzed uint64
	fresh    bool
	busy     bool

	mu     sync.Mutex // guards conn
	conn   *websocket.Conn
	closed bool
}

// NewRemote returns an engine for the service at url. done callbacks of
// Analyze are posted through dispatch.
func NewRemote(url string, timeout time.Duration, dispatch analysis.Dispatcher) *Remote {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if dispatch == nil {
		dispatch = analysis.Direct
	}
	return &Remote{
		url:      url,
		timeout:  timeout,
		dispatch: dispatch,
		log:      logging.For("recognizer").With("url", url),
		data:     newStrokeSet(),
	}
}

func (r *Remote) AddData(strokes ...state.Stroke)  { r.data.add(strokes...) }
func (r *Remote) RemoveData(ids ...state.StrokeID) { r.data.remove(ids...) }
func (r *Remote) ClearAll()                        { r.data.clear() }

func (r *Remote) ReplaceData(old state.StrokeID, s state.Stroke) {
	r.data.replace(old, s)
}

func (r *Remote) Analyze(ctx context.Context, done func(analysis.Result, error)) {
	if r.busy {
		done(analysis.Result{}, analysis.ErrBusy)
		return
	}
	if r.fresh && r.data.version == r.analyzed {
		done(analysis.Result{Status: analysis.StatusUnchanged}, nil)
		return
	}
	version := r.data.version
	req := Request{ID: uuid.NewString(), Strokes: toWire(r.data.snapshot())}
	r.busy = true
	go func() {
		res, err := r.roundTrip(ctx, req)
		r.dispatch(func() {
			r.busy = false
			if err == nil {
				r.analyzed, r.fresh = version, true
			}
			done(res, err)
		})
	}()
}

func (r *Remote) roundTrip(ctx context.Context, req Request) (analysis.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return analysis.Result{}, errors.New("recognizer: engine closed")
	}

	deadline := time.Now().Add(r.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if r.conn == nil {
		dialCtx, cancel := context.WithDeadline(ctx, deadline)
		conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, r.url, nil)
		cancel()
		if err != nil {
			return analysis.Result{}, fmt.Errorf("dial recognizer: %w", err)
		}
		r.log.Info("connected")
		r.conn = conn
	}
	conn := r.conn

	// Unblock the read when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() { conn.SetReadDeadline(time.Now()) })
	defer stop()

	resp, err := exchange(conn, req, deadline)
	if err != nil {
		r.dropConn()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return analysis.Result{}, ctxErr
		}
		return analysis.Result{}, err
	}
	return resp.result()
}

// exchange writes req and reads until the response with the same id.
func exchange(conn *websocket.Conn, req Request, deadline time.Time) (Response, error) {
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return Response{}, err
	}
	if err := conn.WriteJSON(req); err != nil {
		return Response{}, fmt.Errorf("send request: %w", err)
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return Response{}, err
	}
	for {
		var resp Response
		if err := conn.ReadJSON(&resp); err != nil {
			return Response{}, fmt.Errorf("read response: %w", err)
		}
		if resp.ID == req.ID {
			return resp, nil
		}
	}
}

// dropConn closes a failed connection. r.mu must be held.
func (r *Remote) dropConn() {
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
}

// Close disconnects from the service. Later passes fail.
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}
