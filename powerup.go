package main

// PowerUpType is the closed set of pickup variants.
type PowerUpType string

const (
	PowerUpHealth    PowerUpType = "health"
	PowerUpSpeed     PowerUpType = "speed"
	PowerUpRapidFire PowerUpType = "rapidFire"
	PowerUpShield    PowerUpType = "shield"
)

var powerUpTypes = []PowerUpType{PowerUpHealth, PowerUpSpeed, PowerUpRapidFire, PowerUpShield}

// PowerUp is a collectible map item. On pickup it is deactivated (not
// yet removed) so the same instance can never apply its effect twice;
// the cleanup pass drops inactive entries.
type PowerUp struct {
	Object
	ID         string
	Type       PowerUpType
	DurationMs int64
	Active     bool
}

// Effects holds the modifiers currently applied to the player. Speed
// multiplier defaults to 1; shield and rapid fire are off.
type Effects struct {
	SpeedMultiplier float64
	Shield          bool
	RapidFire       bool
}

// DefaultEffects returns the no-modifier baseline.
func DefaultEffects() Effects {
	return Effects{SpeedMultiplier: 1}
}

// NewPowerUp creates a pickup of the given type at position. Duration
// is zero for the instantaneous health pack and a multi-second window
// for the rest.
func NewPowerUp(cfg Config, position Vec2, kind PowerUpType) *PowerUp {
	var duration int64
	switch kind {
	case PowerUpSpeed:
		duration = cfg.SpeedBoostDurationMs
	case PowerUpRapidFire:
		duration = cfg.RapidFireDurationMs
	case PowerUpShield:
		duration = cfg.ShieldDurationMs
	}
	return &PowerUp{
		Object: Object{
			Position: position,
			Width:    cfg.PowerUpSize,
			Height:   cfg.PowerUpSize,
		},
		ID:         GenerateID(4),
		Type:       kind,
		DurationMs: duration,
		Active:     true,
	}
}

// ToState converts to protocol state
func (p *PowerUp) ToState() PowerUpState {
	return PowerUpState{
		ID:   p.ID,
		X:    round1(p.Position.X),
		Y:    round1(p.Position.Y),
		Type: string(p.Type),
	}
}

// NewRandomPowerUp picks a uniform random type at a safe map position.
func NewRandomPowerUp(cfg Config, bounds Bounds, obstacles []*Obstacle, rng *Rand) *PowerUp {
	kind := powerUpTypes[rng.Intn(len(powerUpTypes))]
	pos := findSafeSpawnPosition(bounds, cfg.PowerUpSize, obstacles, cfg.PowerUpSize, rng)
	return NewPowerUp(cfg, pos, kind)
}
