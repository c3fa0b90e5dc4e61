package main

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
)

// Client -> Server message types
const (
	MsgJoin    = "join"
	MsgLeave   = "leave"
	MsgCreate  = "create"  // create session
	MsgList    = "list"    // list sessions
	MsgCheck   = "check"   // check if session exists
	MsgPause   = "pause"   // commander only
	MsgResume  = "resume"  // commander only
	MsgRestart = "restart" // commander only

	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth" // token re-validation
	MsgProfile  = "profile"
)

// Server -> Client message types
const (
	MsgWelcome  = "welcome"
	MsgJoined   = "joined"
	MsgCreated  = "created"
	MsgSessions = "sessions"
	MsgChecked  = "checked"
	MsgEvents   = "events" // domain events from the last tick batch
	MsgGameOver = "gameover"
	MsgError    = "error"

	MsgAuthOK      = "auth_ok"
	MsgProfileData = "profile_data"
)

// Envelope wraps all outgoing JSON messages with a type field. State
// snapshots go out as binary msgpack frames instead, input comes in as
// binary frames; everything else is JSON.
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage defers
// payload decoding until the type is known.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinMsg is sent when a client wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CreateMsg is sent when a client wants to create a session
type CreateMsg struct {
	Name        string  `json:"name"`
	SessionName string  `json:"sname"`
	Width       float64 `json:"w"`
	Height      float64 `json:"h"`
}

// WelcomeMsg is sent once after the socket opens
type WelcomeMsg struct {
	ClientID string `json:"id"`
}

// JoinedMsg confirms session entry. Commander marks the client that
// controls the player tank; everyone else spectates.
type JoinedMsg struct {
	SessionID string `json:"sid"`
	Commander bool   `json:"cmd"`
	Bounds    Bounds `json:"bounds"`
}

// GameOverMsg carries the final score and the stored high score
type GameOverMsg struct {
	Score     int  `json:"score"`
	HighScore int  `json:"hs"`
	NewBest   bool `json:"best"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Clients int    `json:"clients"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID     string `json:"sid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Clients int    `json:"clients,omitempty"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// CheckMsg asks whether a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates with credentials
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg re-authenticates with a stored token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication. Guest marks accounts minted
// automatically on join.
type AuthOKMsg struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	CommanderID int64  `json:"cid"`
	Guest       bool   `json:"guest,omitempty"`
}

// ProfileDataMsg returns lifetime stats and the stored high score
type ProfileDataMsg struct {
	Username  string  `json:"username"`
	Guest     bool    `json:"guest,omitempty"`
	HighScore int     `json:"highScore"`
	Matches   int     `json:"matches"`
	Kills     int     `json:"kills"`
	Rams      int     `json:"rams"`
	PowerUps  int     `json:"powerups"`
	Playtime  float64 `json:"playtime"`
}

// TankState is broadcast per tank
type TankState struct {
	ID     string  `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	R      float64 `json:"r" msgpack:"r"`
	HP     int     `json:"hp" msgpack:"hp"`
	MaxHP  int     `json:"mhp" msgpack:"mhp"`
	Player bool    `json:"p,omitempty" msgpack:"p"`
}

// ProjectileState is broadcast per shell in flight
type ProjectileState struct {
	ID    string  `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	R     float64 `json:"r" msgpack:"r"`
	Owner string  `json:"o" msgpack:"o"`
}

// ObstacleState is broadcast per obstacle
type ObstacleState struct {
	ID   string  `json:"id" msgpack:"id"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	W    float64 `json:"w" msgpack:"w"`
	H    float64 `json:"h" msgpack:"h"`
	Dest bool    `json:"d,omitempty" msgpack:"d"`
	HP   int     `json:"hp,omitempty" msgpack:"hp"`
}

// PowerUpState is broadcast per active power-up
type PowerUpState struct {
	ID   string  `json:"id" msgpack:"id"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Type string  `json:"k" msgpack:"k"`
}

// EffectsState mirrors the player's active modifiers
type EffectsState struct {
	Speed     float64 `json:"spd" msgpack:"spd"`
	Shield    bool    `json:"sh" msgpack:"sh"`
	RapidFire bool    `json:"rf" msgpack:"rf"`
}

// GameState is the full snapshot handed to the renderer callback and
// broadcast to clients. It is a deep copy; consumers may hold it
// across ticks.
type GameState struct {
	Player      TankState         `json:"pl" msgpack:"pl"`
	Enemies     []TankState       `json:"e" msgpack:"e"`
	Projectiles []ProjectileState `json:"pr" msgpack:"pr"`
	Obstacles   []ObstacleState   `json:"ob" msgpack:"ob"`
	PowerUps    []PowerUpState    `json:"pu" msgpack:"pu"`
	Score       int               `json:"sc" msgpack:"sc"`
	GameOver    bool              `json:"go" msgpack:"go"`
	Paused      bool              `json:"pa" msgpack:"pa"`
	Effects     EffectsState      `json:"fx" msgpack:"fx"`
	Bounds      Bounds            `json:"b" msgpack:"b"`
	Tick        uint64            `json:"tick" msgpack:"tick"`
}

// Binary input frame layout: [frameInput, keyFlags, aimLo, aimHi].
// Key bits: 0 up, 1 down, 2 left, 3 right, 4 fire, 5 aim present.
// Aim is a little-endian int16 angle in milliradians.
const (
	frameInput byte = 0x01

	keyUp    byte = 1 << 0
	keyDown  byte = 1 << 1
	keyLeft  byte = 1 << 2
	keyRight byte = 1 << 3
	keyFire  byte = 1 << 4
	keyAim   byte = 1 << 5
)

var errBadInputFrame = errors.New("malformed input frame")

// DecodeInputFrame parses a binary control frame from a commander.
func DecodeInputFrame(data []byte) (Input, error) {
	if len(data) < 4 || data[0] != frameInput {
		return Input{}, errBadInputFrame
	}
	flags := data[1]
	in := Input{
		Up:    flags&keyUp != 0,
		Down:  flags&keyDown != 0,
		Left:  flags&keyLeft != 0,
		Right: flags&keyRight != 0,
		Fire:  flags&keyFire != 0,
	}
	if flags&keyAim != 0 {
		mrad := int16(binary.LittleEndian.Uint16(data[2:4]))
		in.HasAim = true
		in.Aim = float64(mrad) / 1000
	}
	return in, nil
}

// EncodeInputFrame is the inverse of DecodeInputFrame, used by tests
// and bots.
func EncodeInputFrame(in Input) []byte {
	var flags byte
	if in.Up {
		flags |= keyUp
	}
	if in.Down {
		flags |= keyDown
	}
	if in.Left {
		flags |= keyLeft
	}
	if in.Right {
		flags |= keyRight
	}
	if in.Fire {
		flags |= keyFire
	}
	data := []byte{frameInput, flags, 0, 0}
	if in.HasAim {
		data[1] |= keyAim
		mrad := int16(math.Round(NormalizeAngle(in.Aim) * 1000))
		binary.LittleEndian.PutUint16(data[2:4], uint16(mrad))
	}
	return data
}
