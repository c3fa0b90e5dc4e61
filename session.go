package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	maxSessions       = 100
	maxClientsPerSess = 16
	broadcastRate     = 30 // state frames per second
)

// Session is one running match: an engine plus the clients watching
// it. The first client to join is the commander and is the only one
// whose input frames reach the engine; everyone else spectates.
type Session struct {
	ID     string
	Name   string
	engine *Engine

	db        *DB
	analytics *Analytics

	mu        sync.RWMutex
	clients   map[*Client]bool
	commander *Client

	matchStart time.Time
	kills      int
	rams       int
	powerups   int
	ended      bool

	frameCount     uint64
	broadcastEvery uint64
}

func newSession(name string, cfg Config, bounds Bounds, db *DB, analytics *Analytics) *Session {
	every := uint64(cfg.TickRate / broadcastRate)
	if every == 0 {
		every = 1
	}
	s := &Session{
		ID:             GenerateID(8),
		Name:           name,
		engine:         NewEngine(cfg, bounds, nil),
		db:             db,
		analytics:      analytics,
		clients:        make(map[*Client]bool),
		matchStart:     time.Now(),
		broadcastEvery: every,
	}
	s.engine.SetRenderer(s.onFrame)
	s.engine.SetEventSink(s.onEvents)
	return s
}

// AddClient registers a client, promoting it to commander if the seat
// is empty. Reports commander status, or false,false when full.
func (s *Session) AddClient(c *Client) (commander, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) >= maxClientsPerSess {
		return false, false
	}
	s.clients[c] = true
	if s.commander == nil {
		s.commander = c
		return true, true
	}
	return false, true
}

// RemoveClient drops a client. When the commander leaves, the oldest
// remaining client inherits the seat. Reports whether the session is
// now empty.
func (s *Session) RemoveClient(c *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c)
	if s.commander == c {
		s.commander = nil
		for other := range s.clients {
			s.commander = other
			break
		}
	}
	return len(s.clients) == 0
}

// IsCommander reports whether c holds the commander seat.
func (s *Session) IsCommander(c *Client) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commander == c
}

// ClientCount returns the number of attached clients.
func (s *Session) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// HandleInput forwards a commander's control frame to the engine.
func (s *Session) HandleInput(c *Client, in Input) {
	if !s.IsCommander(c) {
		return
	}
	s.engine.SetInput(in)
}

// onFrame is the engine's renderer callback. Snapshots go out as
// binary msgpack frames, decimated to the broadcast rate.
func (s *Session) onFrame(state GameState) {
	s.frameCount++
	if s.frameCount%s.broadcastEvery != 0 {
		return
	}
	data, err := msgpack.Marshal(&state)
	if err != nil {
		log.Error("snapshot marshal", "err", err)
		return
	}
	s.mu.RLock()
	for c := range s.clients {
		c.SendBinary(data)
	}
	s.mu.RUnlock()
}

// onEvents is the engine's event sink: relay to clients, fold into the
// running match totals, and close out the match on game over.
func (s *Session) onEvents(events []GameEvent) {
	data, err := json.Marshal(Envelope{T: MsgEvents, Data: events})
	if err == nil {
		s.mu.RLock()
		for c := range s.clients {
			c.SendRaw(data)
		}
		s.mu.RUnlock()
	}

	for _, ev := range events {
		switch ev.Type {
		case EventEnemyDestroyed:
			s.kills++
			s.trackCommander(EvtEnemyKill, "")
		case EventEnemyRammed:
			s.rams++
		case EventPowerUpCollected:
			s.powerups++
			s.trackCommander(EvtPowerUp, `{"type":"`+ev.Detail+`"}`)
		case EventGameOver:
			s.trackCommander(EvtPlayerDeath, "")
			s.finishMatch(ev.Value)
		}
	}
}

func (s *Session) trackCommander(evtType, data string) {
	if s.analytics == nil {
		return
	}
	s.analytics.Track(evtType, s.commanderAuthID(), s.ID, data)
}

func (s *Session) commanderAuthID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.commander == nil {
		return 0
	}
	return s.commander.authCommanderID
}

// finishMatch persists the final score and notifies clients. Runs at
// most once per match; Restart re-arms it.
func (s *Session) finishMatch(score int) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.mu.Unlock()

	duration := time.Since(s.matchStart).Seconds()
	cid := s.commanderAuthID()

	var high int
	var newBest bool
	if s.db != nil && cid != 0 {
		if _, err := s.db.RecordMatch(cid, score, s.kills, s.rams, s.powerups, duration); err != nil {
			log.Error("record match", "err", err)
		}
		best, err := s.db.SetHighScore(cid, score)
		if err != nil {
			log.Error("store high score", "err", err)
		}
		newBest = best
		if hs, err := s.db.GetHighScore(cid); err == nil {
			high = hs
		}
		for _, def := range CheckAchievements(s.db, cid, score, s.kills) {
			s.trackCommander(EvtAchievement, `{"id":"`+def.ID+`"}`)
		}
	}
	s.trackCommander(EvtMatchEnd, "")

	msg, err := json.Marshal(Envelope{T: MsgGameOver, Data: GameOverMsg{
		Score:     score,
		HighScore: high,
		NewBest:   newBest,
	}})
	if err != nil {
		return
	}
	s.mu.RLock()
	for c := range s.clients {
		c.SendRaw(msg)
	}
	s.mu.RUnlock()
}

// Restart resets the engine and the per-match counters.
func (s *Session) Restart() {
	s.mu.Lock()
	s.kills, s.rams, s.powerups = 0, 0, 0
	s.matchStart = time.Now()
	s.ended = false
	s.mu.Unlock()
	s.engine.Restart()
	s.trackCommander(EvtMatchStart, "")
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a new SessionManager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// CreateSession starts a new match. Returns nil if the limit is
// reached.
func (sm *SessionManager) CreateSession(name string, cfg Config, bounds Bounds, db *DB, analytics *Analytics) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	sess := newSession(name, cfg, bounds, db, analytics)
	sm.sessions[sess.ID] = sess
	sess.engine.Start()
	if analytics != nil {
		analytics.SetActiveSessions(len(sm.sessions))
	}
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemoveClient detaches a client from its session, tearing the
// session down once empty.
func (sm *SessionManager) RemoveClient(sessionID string, c *Client) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	if sess.RemoveClient(c) {
		sess.engine.Stop()
		sm.mu.Lock()
		delete(sm.sessions, sessionID)
		sm.mu.Unlock()
	}
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Clients: sess.ClientCount(),
		})
	}
	return list
}

// Count returns the number of active sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
