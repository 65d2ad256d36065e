package net

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"InkBoard/internal/logging"
)

// RecognizePath is where a recognizer accepts websocket connections.
const RecognizePath = "/recognize"

// Peer is one board connected to the recognizer.
type Peer struct {
	ID   string
	Conn *websocket.Conn
}

// PeerManager tracks the live websocket peers of a server.
type PeerManager struct {
	peers    map[string]*Peer
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewPeerManager creates a new manager.
func NewPeerManager() *PeerManager {
	return &PeerManager{
		peers: make(map[string]*Peer),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 << 10,
			WriteBufferSize: 32 << 10,
			// Boards are native clients, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logging.For("net"),
	}
}

// Add registers a peer that just connected.
func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[peer.ID] = peer
	pm.log.Info("peer connected", "peer", peer.ID, "addr", peer.Conn.RemoteAddr().String())
}

// Remove forgets peer and closes its connection.
func (pm *PeerManager) Remove(peer *Peer) {
	pm.mu.Lock()
	_, ok := pm.peers[peer.ID]
	delete(pm.peers, peer.ID)
	pm.mu.Unlock()
	if ok {
		peer.Conn.Close()
		pm.log.Info("peer disconnected", "peer", peer.ID)
	}
}

// Len returns the number of connected peers.
func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// CloseAll disconnects every peer.
func (pm *PeerManager) CloseAll() {
	pm.mu.Lock()
	peers := pm.peers
	pm.peers = make(map[string]*Peer)
	pm.mu.Unlock()
	for _, p := range peers {
		p.Conn.Close()
	}
}

// Handler upgrades each request to a websocket peer and runs serve until it
// returns.
func (pm *PeerManager) Handler(serve func(*Peer)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := pm.upgrader.Upgrade(w, r, nil)
		if err != nil {
			pm.log.Warn("websocket upgrade failed", "error", err)
			return
		}
		peer := &Peer{ID: uuid.NewString(), Conn: conn}
		pm.Add(peer)
		defer pm.Remove(peer)
		serve(peer)
	})
}

// Serve runs an HTTP server on ln until ctx is cancelled, then shuts it down
// and disconnects the peers.
func (pm *PeerManager) Serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	pm.log.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pm.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Port returns the TCP port ln listens on.
func Port(ln net.Listener) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}
