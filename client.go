package main

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 80
	maxNameLen        = 16
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	sessionID  string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time

	// Auth state; 0 means unauthenticated
	authCommanderID int64
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("ws read", "err", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Warn("rate limit exceeded, disconnecting", "addr", c.remoteAddr)
			break
		}

		if msgType == websocket.BinaryMessage {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF prefix marks binary frames queued by SendBinary
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("marshal", "err", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with a 0xFF marker so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Debug("unmarshal", "err", err)
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgLeave:
		c.handleLeave()
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgPause:
		c.handlePause(true)
	case MsgResume:
		c.handlePause(false)
	case MsgRestart:
		c.handleRestart()
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	}
}

func (c *Client) handleList() {
	sessions := c.hub.sessions.ListSessions()
	c.SendJSON(Envelope{T: MsgSessions, Data: sessions})
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sname := msg.SessionName
	if sname == "" {
		sname = "Tank Arena"
	}
	if r := []rune(sname); len(r) > 30 {
		sname = string(r[:30])
	}

	bounds := Bounds{Width: msg.Width, Height: msg.Height}
	if !bounds.Valid() {
		bounds = Bounds{Width: 800, Height: 600}
	}

	sess := c.hub.sessions.CreateSession(sname, c.hub.cfg, bounds, c.hub.db, c.hub.analytics)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "too many active sessions"}})
		return
	}
	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"sid": sess.ID}})
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SessionID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "session not found"}})
		return
	}

	c.ensureIdentity()
	commander, ok := sess.AddClient(c)
	if !ok {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "session full"}})
		return
	}
	c.sessionID = sess.ID

	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtSessionStart, c.authCommanderID, sess.ID, "")
	}
	c.SendJSON(Envelope{T: MsgJoined, Data: JoinedMsg{
		SessionID: sess.ID,
		Commander: commander,
		Bounds:    sess.engine.Snapshot().Bounds,
	}})
}

// handleBinaryInput decodes a compact control frame and forwards it
func (c *Client) handleBinaryInput(msg []byte) {
	if c.sessionID == "" {
		return
	}
	in, err := DecodeInputFrame(msg)
	if err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(c.sessionID)
	if sess == nil {
		return
	}
	sess.HandleInput(c, in)
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg CheckMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{SID: msg.SID, Exists: false}})
		return
	}
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		SID:     msg.SID,
		Exists:  true,
		Name:    sess.Name,
		Clients: sess.ClientCount(),
	}})
}

func (c *Client) handleLeave() {
	if c.sessionID == "" {
		return
	}
	c.hub.sessions.RemoveClient(c.sessionID, c)
	c.sessionID = ""
}

func (c *Client) handlePause(pause bool) {
	sess := c.commandedSession()
	if sess == nil {
		return
	}
	if pause {
		sess.engine.Pause()
	} else {
		sess.engine.Resume()
	}
}

func (c *Client) handleRestart() {
	sess := c.commandedSession()
	if sess == nil {
		return
	}
	sess.Restart()
}

// commandedSession returns the client's session only when it holds
// the commander seat.
func (c *Client) commandedSession() *Session {
	if c.sessionID == "" {
		return nil
	}
	sess := c.hub.sessions.GetSession(c.sessionID)
	if sess == nil || !sess.IsCommander(c) {
		return nil
	}
	return sess
}

// ensureIdentity mints a guest account for clients that join without
// registering or logging in, so their match results still persist.
func (c *Client) ensureIdentity() {
	if c.authCommanderID != 0 || c.hub.auth == nil || c.hub.db == nil {
		return
	}
	id, name, token, err := c.hub.auth.GuestLogin()
	if err != nil {
		log.Warn("guest login", "err", err)
		return
	}
	c.authCommanderID = id
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:       token,
		Username:    name,
		CommanderID: id,
		Guest:       true,
	}})
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authCommanderID = id
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:       token,
		Username:    msg.Username,
		CommanderID: id,
	}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authCommanderID = id
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:       token,
		Username:    msg.Username,
		CommanderID: id,
	}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid token"}})
		return
	}
	c.authCommanderID = id
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:       msg.Token,
		Username:    username,
		CommanderID: id,
	}})
}

func (c *Client) handleProfile() {
	if c.hub.db == nil || c.authCommanderID == 0 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "not authenticated"}})
		return
	}
	cmdr, err := c.hub.db.GetCommanderByID(c.authCommanderID)
	if err != nil || cmdr == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "profile not found"}})
		return
	}
	stats, err := c.hub.db.GetStats(c.authCommanderID)
	if err != nil || stats == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "profile not found"}})
		return
	}
	high, _ := c.hub.db.GetHighScore(c.authCommanderID)
	c.SendJSON(Envelope{T: MsgProfileData, Data: ProfileDataMsg{
		Username:  cmdr.Username,
		Guest:     cmdr.IsGuest,
		HighScore: high,
		Matches:   stats.Matches,
		Kills:     stats.Kills,
		Rams:      stats.Rams,
		PowerUps:  stats.PowerUps,
		Playtime:  stats.Playtime,
	}})
}
