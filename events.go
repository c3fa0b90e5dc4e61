package main

// EventType is the closed set of domain events the simulation emits.
// Observers (sound, UI, persistence) subscribe to these; the core has
// no dependency on any of them.
type EventType string

const (
	EventEnemyDestroyed    EventType = "enemyDestroyed"
	EventEnemyRammed       EventType = "enemyRammed"
	EventObstacleDestroyed EventType = "obstacleDestroyed"
	EventPlayerHit         EventType = "playerHit"
	EventShieldAbsorbed    EventType = "shieldAbsorbed"
	EventPowerUpCollected  EventType = "powerUpCollected"
	EventPowerUpExpired    EventType = "powerUpExpired"
	EventGameOver          EventType = "gameOver"
)

// GameEvent is one discrete occurrence within a tick. Value carries
// the score delta for kill events and the damage for hit events;
// Detail names the power-up type where relevant.
type GameEvent struct {
	Type     EventType `json:"type"`
	EntityID string    `json:"entityId,omitempty"`
	Value    int       `json:"value,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}
