package server

import "slices"

// LobbySnapshot is an immutable view of the lobby for rendering.
type LobbySnapshot struct {
	Players   int      // Connected clients
	Usernames []string // Sorted, empty names omitted
}

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name, stored with leaderboard entries
	EventsCh chan ClientEvent // Events sent to client (shutdown)
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// buildSnapshot creates a snapshot of the registered clients.
func buildSnapshot(clients map[int]*ClientHandle) *LobbySnapshot {
	names := make([]string, 0, len(clients))
	for _, h := range clients {
		if h.Username != "" {
			names = append(names, h.Username)
		}
	}
	slices.Sort(names)
	return &LobbySnapshot{
		Players:   len(clients),
		Usernames: names,
	}
}
