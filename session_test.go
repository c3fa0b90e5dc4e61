package main

import (
	"encoding/json"
	"testing"
)

func testClient() *Client {
	return &Client{send: make(chan []byte, sendBufSize)}
}

func TestSessionCommanderSeat(t *testing.T) {
	cfg := quietConfig()
	s := newSession("test", cfg, Bounds{Width: 800, Height: 600}, nil, nil)

	first, second := testClient(), testClient()
	if cmd, ok := s.AddClient(first); !ok || !cmd {
		t.Fatal("first client should take the commander seat")
	}
	if cmd, ok := s.AddClient(second); !ok || cmd {
		t.Fatal("second client should join as spectator")
	}
	if !s.IsCommander(first) || s.IsCommander(second) {
		t.Error("commander seat misassigned")
	}

	// Seat passes on when the commander leaves
	if empty := s.RemoveClient(first); empty {
		t.Error("session with a remaining client is not empty")
	}
	if !s.IsCommander(second) {
		t.Error("remaining client should inherit the seat")
	}
	if empty := s.RemoveClient(second); !empty {
		t.Error("session should report empty after the last client leaves")
	}
}

func TestSessionInputGating(t *testing.T) {
	cfg := quietConfig()
	s := newSession("test", cfg, Bounds{Width: 800, Height: 600}, nil, nil)
	commander, spectator := testClient(), testClient()
	s.AddClient(commander)
	s.AddClient(spectator)

	s.HandleInput(spectator, Input{Fire: true})
	if s.engine.world.input.Fire {
		t.Error("spectator input must be ignored")
	}

	s.HandleInput(commander, Input{Fire: true})
	if !s.engine.world.input.Fire {
		t.Error("commander input should reach the engine")
	}
}

func TestSessionClientLimit(t *testing.T) {
	cfg := quietConfig()
	s := newSession("test", cfg, Bounds{Width: 800, Height: 600}, nil, nil)

	for i := 0; i < maxClientsPerSess; i++ {
		if _, ok := s.AddClient(testClient()); !ok {
			t.Fatalf("client %d should fit", i)
		}
	}
	if _, ok := s.AddClient(testClient()); ok {
		t.Error("session over capacity should refuse the client")
	}
}

func TestSessionFinishMatchOnce(t *testing.T) {
	cfg := quietConfig()
	s := newSession("test", cfg, Bounds{Width: 800, Height: 600}, nil, nil)
	c := testClient()
	s.AddClient(c)

	s.onEvents([]GameEvent{{Type: EventGameOver, Value: 1200}})
	s.onEvents([]GameEvent{{Type: EventGameOver, Value: 1200}})

	// One events relay plus exactly one game-over message
	var overs int
	for len(c.send) > 0 {
		raw := <-c.send
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}
		if env.T == MsgGameOver {
			overs++
		}
	}
	if overs != 1 {
		t.Errorf("expected exactly one game over message, got %d", overs)
	}

	// Restart re-arms the match
	s.Restart()
	s.onEvents([]GameEvent{{Type: EventGameOver, Value: 300}})
	found := false
	for len(c.send) > 0 {
		raw := <-c.send
		var env Envelope
		if err := json.Unmarshal(raw, &env); err == nil && env.T == MsgGameOver {
			found = true
		}
	}
	if !found {
		t.Error("restarted match should finish again")
	}
}

func TestSessionMatchCounters(t *testing.T) {
	cfg := quietConfig()
	s := newSession("test", cfg, Bounds{Width: 800, Height: 600}, nil, nil)

	s.onEvents([]GameEvent{
		{Type: EventEnemyDestroyed, Value: 100},
		{Type: EventEnemyDestroyed, Value: 100},
		{Type: EventEnemyRammed, Value: 50},
		{Type: EventPowerUpCollected, Detail: "shield"},
	})
	if s.kills != 2 || s.rams != 1 || s.powerups != 1 {
		t.Errorf("counters wrong: kills %d rams %d powerups %d", s.kills, s.rams, s.powerups)
	}

	s.Restart()
	if s.kills != 0 || s.rams != 0 || s.powerups != 0 {
		t.Error("restart should clear the match counters")
	}
}

func TestSessionManagerLifecycle(t *testing.T) {
	cfg := quietConfig()
	sm := NewSessionManager()

	sess := sm.CreateSession("alpha", cfg, Bounds{Width: 800, Height: 600}, nil, nil)
	if sess == nil {
		t.Fatal("CreateSession returned nil")
	}
	if sm.GetSession(sess.ID) != sess {
		t.Error("lookup by ID failed")
	}
	if sm.Count() != 1 {
		t.Errorf("expected 1 session, got %d", sm.Count())
	}

	list := sm.ListSessions()
	if len(list) != 1 || list[0].Name != "alpha" {
		t.Errorf("unexpected session list: %+v", list)
	}

	c := testClient()
	sess.AddClient(c)
	sm.RemoveClient(sess.ID, c)
	if sm.Count() != 0 {
		t.Errorf("empty session should be torn down, got %d", sm.Count())
	}
}
