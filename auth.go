package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpiry        = 7 * 24 * time.Hour // 7 days
	bcryptCost       = 12
	minPasswordLen   = 4
	minUsernameLen   = 2
	maxUsernameLen   = 16
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
	guestNameRetries = 5
)

var errBadCredentials = errors.New("invalid username or password")

// commanderClaims is the token payload. Guest marks accounts minted
// without a password; their tokens re-validate like any other.
type commanderClaims struct {
	CommanderID int64  `json:"cid"`
	Username    string `json:"usr"`
	Guest       bool   `json:"gst,omitempty"`
	jwt.RegisteredClaims
}

// Auth issues and validates commander tokens. Registered commanders
// carry a bcrypt hash; guests get an account row and a token with no
// password behind it.
type Auth struct {
	db        *DB
	jwtSecret []byte
	limiter   loginLimiter
}

// NewAuth creates a new Auth handler
func NewAuth(db *DB) *Auth {
	return &Auth{
		db:        db,
		jwtSecret: loadOrCreateSecret(db),
		limiter:   loginLimiter{attempts: make(map[string]*rateEntry)},
	}
}

// loadOrCreateSecret loads the JWT secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting("jwt_secret"); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting("jwt_secret", hex.EncodeToString(secret)); err != nil {
			log.Warn("could not persist JWT secret", "err", err)
		}
	}
	return secret
}

func validateUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	return nil
}

// Register creates a new account
func (a *Auth) Register(username, password string) (int64, string, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return 0, "", err
	}
	if len(password) < minPasswordLen {
		return 0, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	if exists, err := a.db.UsernameExists(username); err != nil {
		return 0, "", fmt.Errorf("database error")
	} else if exists {
		return 0, "", fmt.Errorf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}
	id, err := a.db.CreateCommander(username, "", string(hash))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create account")
	}
	return a.issue(id, username, false)
}

// Login authenticates a commander and returns a JWT
func (a *Auth) Login(username, password, ip string) (int64, string, error) {
	if !a.limiter.allow(ip) {
		return 0, "", fmt.Errorf("too many login attempts, try again later")
	}

	cmdr, err := a.db.GetCommanderByUsername(username)
	if err != nil {
		return 0, "", fmt.Errorf("database error")
	}
	// Guest rows have no hash; they cannot be logged into
	if cmdr == nil || cmdr.PassHash == "" {
		return 0, "", errBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(cmdr.PassHash), []byte(password)) != nil {
		return 0, "", errBadCredentials
	}
	return a.issue(cmdr.ID, cmdr.Username, false)
}

// GuestLogin mints a guest account and issues a token for it, so
// unregistered commanders still get persisted scores and stats.
// Retries on username collisions.
func (a *Auth) GuestLogin() (int64, string, string, error) {
	var lastErr error
	for i := 0; i < guestNameRetries; i++ {
		name := GenerateGuestName()
		id, err := a.db.CreateGuest(name)
		if err != nil {
			lastErr = err
			continue
		}
		_, token, err := a.issue(id, name, true)
		if err != nil {
			return 0, "", "", err
		}
		return id, name, token, nil
	}
	return 0, "", "", fmt.Errorf("failed to create guest account: %w", lastErr)
}

// ValidateToken validates a JWT and returns (commanderID, username, error)
func (a *Auth) ValidateToken(tokenStr string) (int64, string, error) {
	claims := &commanderClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return 0, "", err
	}
	if claims.CommanderID == 0 || claims.Username == "" {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	return claims.CommanderID, claims.Username, nil
}

func (a *Auth) issue(commanderID int64, username string, guest bool) (int64, string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, commanderClaims{
		CommanderID: commanderID,
		Username:    username,
		Guest:       guest,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}
	return commanderID, signed, nil
}

// loginLimiter caps login attempts per IP within a rolling window
type loginLimiter struct {
	mu       sync.Mutex
	attempts map[string]*rateEntry
}

type rateEntry struct {
	count   int
	resetAt time.Time
}

func (l *loginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.attempts[ip]
	if !ok || now.After(entry.resetAt) {
		// Sweep stale entries while the map is hot
		for k, e := range l.attempts {
			if now.After(e.resetAt) {
				delete(l.attempts, k)
			}
		}
		l.attempts[ip] = &rateEntry{count: 1, resetAt: now.Add(loginRateWindow)}
		return true
	}
	entry.count++
	return entry.count <= maxLoginAttempts
}

// GenerateGuestName creates a unique guest name like "Guest_a3f2"
func GenerateGuestName() string {
	b := make([]byte, 3)
	rand.Read(b)
	return "Guest_" + hex.EncodeToString(b)
}
