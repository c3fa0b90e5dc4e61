package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	db := openTestDB(t)
	analytics := NewAnalytics(db)
	t.Cleanup(analytics.Stop)
	hub := NewHub(quietConfig(), db, analytics)
	go hub.Run()
	srv := httptest.NewServer(SetupRoutes(hub, t.TempDir()))
	t.Cleanup(srv.Close)
	return srv, hub
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readEnvelope reads until a JSON text message of the wanted type
// arrives, skipping binary snapshot frames and other control messages.
func readEnvelope(t *testing.T, conn *websocket.Conn, want string) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for i := 0; i < 500; i++ {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", want, err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var env struct {
			T string          `json:"t"`
			D json.RawMessage `json:"d"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		if env.T != want {
			continue
		}
		payload := map[string]interface{}{}
		if len(env.D) > 0 {
			if err := json.Unmarshal(env.D, &payload); err != nil {
				t.Fatalf("bad %q payload: %v", want, err)
			}
		}
		return payload
	}
	t.Fatalf("no %q message received", want)
	return nil
}

func sendEnvelope(t *testing.T, conn *websocket.Conn, typ string, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(Envelope{T: typ, Data: data})
	if err != nil {
		t.Fatalf("marshal %q: %v", typ, err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("send %q: %v", typ, err)
	}
}

func TestWebSocketCreateAndJoin(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)

	welcome := readEnvelope(t, conn, MsgWelcome)
	if welcome["id"] == "" {
		t.Error("welcome carries no client id")
	}

	sendEnvelope(t, conn, MsgCreate, CreateMsg{SessionName: "Test Arena", Width: 800, Height: 600})
	created := readEnvelope(t, conn, MsgCreated)
	sid, _ := created["sid"].(string)
	if sid == "" {
		t.Fatal("created carries no session id")
	}

	sendEnvelope(t, conn, MsgJoin, JoinMsg{Name: "driver", SessionID: sid})
	joined := readEnvelope(t, conn, MsgJoined)
	if joined["sid"] != sid {
		t.Errorf("joined sid = %v, want %v", joined["sid"], sid)
	}
	if joined["cmd"] != true {
		t.Error("first client should be commander")
	}

	// Snapshots arrive as binary frames once joined
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	sawBinary := false
	for i := 0; i < 500 && !sawBinary; i++ {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for snapshot: %v", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		var state GameState
		if err := msgpack.Unmarshal(data, &state); err != nil {
			t.Fatalf("snapshot decode: %v", err)
		}
		if state.Bounds.Width != 800 || state.Bounds.Height != 600 {
			t.Errorf("snapshot bounds = %+v, want 800x600", state.Bounds)
		}
		sawBinary = true
	}
	if !sawBinary {
		t.Error("no binary snapshot frame received")
	}
}

func TestGuestMintedOnJoin(t *testing.T) {
	srv, hub := newTestServer(t)
	conn := dialWS(t, srv)
	readEnvelope(t, conn, MsgWelcome)

	sendEnvelope(t, conn, MsgCreate, CreateMsg{SessionName: "Guest Arena", Width: 800, Height: 600})
	created := readEnvelope(t, conn, MsgCreated)
	sid, _ := created["sid"].(string)

	sendEnvelope(t, conn, MsgJoin, JoinMsg{SessionID: sid})
	authOK := readEnvelope(t, conn, MsgAuthOK)
	if authOK["guest"] != true {
		t.Error("unauthenticated join should mint a guest identity")
	}
	name, _ := authOK["username"].(string)
	if !strings.HasPrefix(name, "Guest_") {
		t.Errorf("guest username = %q", name)
	}
	if authOK["token"] == "" {
		t.Error("guest identity carries no token")
	}
	readEnvelope(t, conn, MsgJoined)

	cid := int64(authOK["cid"].(float64))
	cmdr, err := hub.db.GetCommanderByID(cid)
	if err != nil || cmdr == nil || !cmdr.IsGuest {
		t.Errorf("guest account not persisted: %v %+v", err, cmdr)
	}
}

func TestSessionNameRuneTruncation(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)
	readEnvelope(t, conn, MsgWelcome)

	long := strings.Repeat("戦", 40)
	sendEnvelope(t, conn, MsgCreate, CreateMsg{SessionName: long, Width: 800, Height: 600})
	created := readEnvelope(t, conn, MsgCreated)
	sid, _ := created["sid"].(string)

	sendEnvelope(t, conn, MsgCheck, CheckMsg{SID: sid})
	checked := readEnvelope(t, conn, MsgChecked)
	name, _ := checked["name"].(string)
	if !utf8.ValidString(name) {
		t.Errorf("truncated session name is not valid UTF-8: %q", name)
	}
	if got := utf8.RuneCountInString(name); got != 30 {
		t.Errorf("truncated session name has %d runes, want 30", got)
	}
}

func TestJoinUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)
	readEnvelope(t, conn, MsgWelcome)

	sendEnvelope(t, conn, MsgJoin, JoinMsg{Name: "x", SessionID: "feedfacefeedface"})
	errMsg := readEnvelope(t, conn, MsgError)
	if errMsg["msg"] == "" {
		t.Error("error response carries no message")
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	srv, hub := newTestServer(t)

	hash := "$2a$10$abcdefghijklmnopqrstuvwxyz0123456789012345678901234"
	id, err := hub.db.CreateCommander("veteran", "", hash)
	if err != nil {
		t.Fatalf("create commander: %v", err)
	}
	if _, err := hub.db.SetHighScore(id, 700); err != nil {
		t.Fatalf("set high score: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/leaderboard")
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard status = %d", resp.StatusCode)
	}
	var entries []LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].Username != "veteran" || entries[0].HighScore != 700 {
		t.Errorf("leaderboard = %+v, want one entry veteran/700", entries)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d", resp.StatusCode)
	}
	var stats map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	for _, key := range []string{"connections", "sessions", "dau"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("stats missing %q", key)
		}
	}
}

func TestQRUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/qr?sid=0000000000000000")
	if err != nil {
		t.Fatalf("get qr: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("qr for unknown session status = %d, want 404", resp.StatusCode)
	}
}
