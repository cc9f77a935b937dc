package server

import (
	"context"
	"testing"
	"time"

	"github.com/tomz197/slash/internal/game"
)

func startServer(t *testing.T) (*Server, context.CancelFunc) {
	t.Helper()
	s := NewServer(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	t.Cleanup(cancel)
	return s, cancel
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	s, _ := startServer(t)

	a := s.RegisterClient("ada")
	b := s.RegisterClient("")
	if a.ID == b.ID {
		t.Fatalf("clients share id %d", a.ID)
	}
	waitFor(t, "two players", func() bool { return s.GetSnapshot().Players == 2 })

	snap := s.GetSnapshot()
	if len(snap.Usernames) != 1 || snap.Usernames[0] != "ada" {
		t.Fatalf("usernames = %v, want [ada]", snap.Usernames)
	}

	s.UnregisterClient(a.ID)
	waitFor(t, "one player", func() bool { return s.Players() == 1 })
	if _, ok := <-a.EventsCh; ok {
		t.Fatalf("events channel of an unregistered client left open")
	}

	// Unknown ids are ignored.
	s.UnregisterClient(999)
	s.UnregisterClient(b.ID)
	waitFor(t, "empty lobby", func() bool { return s.GetSnapshot().Players == 0 })
}

func TestLeaderboardIsShared(t *testing.T) {
	board := game.NewLeaderboard(0)
	s := NewServer(Options{Leaderboard: board})
	if s.Leaderboard() != board {
		t.Fatalf("server did not keep the given leaderboard")
	}
	if NewServer(Options{}).Leaderboard() == nil {
		t.Fatalf("default leaderboard missing")
	}
}

func TestShutdownNotifiesClients(t *testing.T) {
	s, _ := startServer(t)

	h := s.RegisterClient("ada")
	waitFor(t, "registration", func() bool { return s.Players() == 1 })

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	if time.Since(start) > 2*time.Second {
		t.Fatalf("shutdown waited for the full grace period")
	}
	if s.Players() != 0 {
		t.Fatalf("players = %d after shutdown", s.Players())
	}
}

func TestShutdownTimesOut(t *testing.T) {
	s, _ := startServer(t)
	s.RegisterClient("stuck")
	waitFor(t, "registration", func() bool { return s.Players() == 1 })

	start := time.Now()
	s.Shutdown(300 * time.Millisecond)
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Fatalf("shutdown returned after %v, before its timeout", elapsed)
	}
}
