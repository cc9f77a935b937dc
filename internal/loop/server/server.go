package server

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/slash/internal/game"
)

// GameServer is the interface clients use to communicate with the lobby.
// Decouples the Client from the concrete Server implementation, enabling
// testing and a private lobby for local play.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	GetSnapshot() *LobbySnapshot
	Leaderboard() *game.Leaderboard
}

// Server tracks connected clients and owns the leaderboard they share.
// Every client runs its own game; the leaderboard is the only shared state.
type Server struct {
	board        *game.Leaderboard
	snapshot     atomic.Pointer[LobbySnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex
	log          *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// Options configures a Server.
type Options struct {
	Leaderboard *game.Leaderboard // nil creates an empty board
	Logger      *log.Logger       // nil discards logs
}

// NewServer creates a new lobby server.
func NewServer(opts Options) *Server {
	board := opts.Leaderboard
	if board == nil {
		board = game.NewLeaderboard(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		board:        board,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		log:          logger,
	}

	// Create initial empty snapshot
	s.snapshot.Store(&LobbySnapshot{})

	return s
}

// Run processes registrations until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.snapshot.Store(buildSnapshot(s.clients))
			s.mu.Unlock()
			s.log.Info("client joined", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.snapshot.Store(buildSnapshot(s.clients))
				s.log.Info("client left", "id", clientID, "user", handle.Username)
			}
			s.mu.Unlock()
		}
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.log.Warn("shutdown grace period over", "remaining", s.Players())
			return
		case <-ticker.C:
			if s.Players() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server. Its events channel is
// closed once the removal is processed.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// GetSnapshot returns the current lobby snapshot.
func (s *Server) GetSnapshot() *LobbySnapshot {
	return s.snapshot.Load()
}

// Players returns the number of registered clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Leaderboard returns the board shared by every client.
func (s *Server) Leaderboard() *game.Leaderboard {
	return s.board
}
