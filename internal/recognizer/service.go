package recognizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"InkBoard/internal/analysis"
	"InkBoard/internal/logging"
	inknet "InkBoard/internal/net"
)

// Service answers recognition requests from boards over websockets.
type Service struct {
	opts  Options
	peers *inknet.PeerManager
	log   *slog.Logger
}

func NewService(opts Options) *Service {
	return &Service{
		opts:  opts,
		peers: inknet.NewPeerManager(),
		log:   logging.For("recognizer"),
	}
}

// Handler serves RecognizePath.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(inknet.RecognizePath, s.peers.Handler(s.serve))
	return mux
}

func (s *Service) serve(p *inknet.Peer) {
	for {
		var req Request
		if err := p.Conn.ReadJSON(&req); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				s.log.Debug("read request", "peer", p.ID, "error", err)
			}
			return
		}
		if err := p.Conn.WriteJSON(s.Handle(req)); err != nil {
			s.log.Warn("write response", "peer", p.ID, "error", err)
			return
		}
	}
}

// Handle runs one recognition pass for req.
func (s *Service) Handle(req Request) Response {
	if req.ID == "" {
		return Response{Error: "request without id"}
	}
	strokes := fromWire(req.Strokes)
	for _, st := range strokes {
		if st.ID == 0 {
			return Response{ID: req.ID, Error: "stroke without id"}
		}
	}
	root := Recognize(strokes, s.opts)
	s.log.Debug("recognized", "request", req.ID, "strokes", len(strokes), "nodes", len(root.Children))
	return Response{ID: req.ID, Status: analysis.StatusUpdated.String(), Root: root}
}

// ListenAndServe serves on addr until ctx is cancelled. With advertise set
// the service is announced over mDNS for boards that discover recognizers.
func (s *Service) ListenAndServe(ctx context.Context, addr string, advertise bool) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	if advertise {
		server, err := inknet.Advertise(inknet.Port(ln))
		if err != nil {
			ln.Close()
			return err
		}
		defer server.Shutdown()
		s.log.Info("advertising", "service", inknet.ServiceType, "port", inknet.Port(ln))
	}
	return s.peers.Serve(ctx, ln, s.Handler())
}
