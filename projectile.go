package main

// Owner identifies which side fired a projectile. Projectiles never
// damage tanks on the owning side.
type Owner string

const (
	OwnerPlayer Owner = "player"
	OwnerEnemy  Owner = "enemy"
)

// Projectile is a shell in flight. It moves along its fixed heading
// every tick until it hits something or exceeds its range, at which
// point it is deactivated and removed on the next cleanup pass.
type Projectile struct {
	Object
	ID               string
	Speed            float64
	Damage           int
	Owner            Owner
	Active           bool
	DistanceTraveled float64
	MaxRange         float64
}

// NewProjectile spawns a shell at the muzzle of the firing tank,
// offset forward along the tank's facing.
func NewProjectile(cfg Config, t *Tank) *Projectile {
	owner := OwnerEnemy
	damage := cfg.EnemyDamage
	maxRange := cfg.EnemyShotRange
	if t.IsPlayer {
		owner = OwnerPlayer
		damage = cfg.PlayerDamage
		maxRange = cfg.ShotRange
	}
	muzzle := t.Position.Add(Heading(t.Rotation).Scale(cfg.MuzzleOffset))
	return &Projectile{
		Object: Object{
			Position: muzzle,
			Rotation: t.Rotation,
			Width:    cfg.ProjectileSize,
			Height:   cfg.ProjectileSize,
		},
		ID:       GenerateID(3),
		Speed:    cfg.ProjectileSpeed,
		Damage:   damage,
		Owner:    owner,
		Active:   true,
		MaxRange: maxRange,
	}
}

// Update advances the shell one tick and wraps it across the playfield
// edges. Range exhaustion deactivates it; a deactivated shell is never
// resurrected.
func (p *Projectile) Update(cfg Config, bounds Bounds) {
	if !p.Active {
		return
	}
	p.Position = p.Position.Add(Heading(p.Rotation).Scale(p.Speed))
	p.DistanceTraveled += p.Speed
	p.Position = WrapPosition(p.Position, cfg.ProjectileWrapLimit, bounds)

	if p.DistanceTraveled > p.MaxRange {
		p.Active = false
	}
}

// ToState converts to protocol state
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:    p.ID,
		X:     round1(p.Position.X),
		Y:     round1(p.Position.Y),
		R:     round1(p.Rotation),
		Owner: string(p.Owner),
	}
}
