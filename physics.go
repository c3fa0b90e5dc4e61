package main

// HandleCollisions runs the full collision pass for one tick, in a
// fixed order: projectile-obstacle, projectile-tank, tank-tank,
// player-powerup, then the game-over check. Entities killed here stay
// in their collections until the next Cleanup so later pairs in the
// same pass still see their final position.
//
// schedule is called for each timed power-up picked up; the engine
// arms the reversion, tests can pass a stub.
func (w *World) HandleCollisions(schedule func(PowerUpType, int64)) {
	w.projectileObstacleHits()
	w.projectileTankHits()
	w.tankRams()
	w.powerUpPickups(schedule)

	if w.Player.Health <= 0 && !w.GameOver {
		w.Player.Health = 0
		w.GameOver = true
		w.emit(GameEvent{Type: EventGameOver, Value: w.Score})
	}
}

func (w *World) projectileObstacleHits() {
	for _, p := range w.Projectiles {
		if !p.Active {
			continue
		}
		for _, o := range w.Obstacles {
			if !RectOverlap(&p.Object, &o.Object) {
				continue
			}
			o.Damage(p.Damage)
			p.Active = false
			break
		}
	}
}

// projectileTankHits resolves shell impacts. The owner tag blocks
// friendly fire in both directions; a shell whose position exactly
// coincides with a tank's is skipped for the tick, which also guards
// the same-frame muzzle self-hit.
func (w *World) projectileTankHits() {
	w.rebuildGrid()
	for _, p := range w.Projectiles {
		if !p.Active {
			continue
		}
		w.gridBuf = w.grid.QueryBuf(p.Position.X, p.Position.Y, p.Width+w.cfg.TankSize, w.gridBuf[:0])
		for _, ref := range w.gridBuf {
			var target *Tank
			switch ref.Kind {
			case 'p':
				if p.Owner == OwnerPlayer {
					continue
				}
				target = w.Player
			case 'e':
				if p.Owner == OwnerEnemy {
					continue
				}
				target = w.Enemies[ref.Idx]
			}
			if target == nil || target.Health <= 0 {
				continue
			}
			if p.Position == target.Position {
				continue
			}
			if !CircleHit(&p.Object, &target.Object) {
				continue
			}

			p.Active = false
			if target.IsPlayer && w.Effects.Shield {
				w.emit(GameEvent{Type: EventShieldAbsorbed, Value: p.Damage})
				break
			}
			lethal := target.TakeDamage(p.Damage)
			if target.IsPlayer {
				w.emit(GameEvent{Type: EventPlayerHit, Value: p.Damage})
			} else if lethal {
				w.AddScore(w.cfg.KillScore)
				w.emit(GameEvent{Type: EventEnemyDestroyed, EntityID: target.ID, Value: w.cfg.KillScore})
			}
			break
		}
	}
}

// tankRams resolves tank-tank contact: velocity-scaled damage plus a
// separating impulse along the line between centers. The player takes
// mitigated ram damage unless shielded, in which case none.
func (w *World) tankRams() {
	tanks := make([]*Tank, 0, len(w.Enemies)+1)
	tanks = append(tanks, w.Player)
	tanks = append(tanks, w.Enemies...)

	for i := 0; i < len(tanks); i++ {
		for j := i + 1; j < len(tanks); j++ {
			a, b := tanks[i], tanks[j]
			if a.Health <= 0 || b.Health <= 0 {
				continue
			}
			if !CircleHit(&a.Object, &b.Object) {
				continue
			}

			relSpeed := a.LastMove.Sub(b.LastMove).Len()
			damage := w.cfg.RamBaseDamage + int(w.cfg.RamVelocityScale*relSpeed)

			w.applyRamDamage(a, damage)
			w.applyRamDamage(b, damage)

			// Push apart along the line between centers. Exactly
			// coincident tanks get no impulse rather than a divide
			// by zero.
			delta := b.Position.Sub(a.Position)
			if l := delta.Len(); l > 0 {
				push := delta.Scale(w.cfg.RamPushForce / l)
				a.Position = a.Position.Sub(push)
				b.Position = b.Position.Add(push)
			}
		}
	}
}

func (w *World) applyRamDamage(t *Tank, damage int) {
	if t.IsPlayer {
		if w.Effects.Shield {
			w.emit(GameEvent{Type: EventShieldAbsorbed, Value: damage})
			return
		}
		mitigated := int(float64(damage) * w.cfg.PlayerRamMitigate)
		t.TakeDamage(mitigated)
		w.emit(GameEvent{Type: EventPlayerHit, Value: mitigated})
		return
	}
	if t.TakeDamage(damage) {
		w.AddScore(w.cfg.RamScore)
		w.emit(GameEvent{Type: EventEnemyRammed, EntityID: t.ID, Value: w.cfg.RamScore})
	}
}

// powerUpPickups applies map pickups against the player only. Each
// instance deactivates on first contact and can never apply twice.
func (w *World) powerUpPickups(schedule func(PowerUpType, int64)) {
	for _, pu := range w.PowerUps {
		if !pu.Active || !CircleHit(&w.Player.Object, &pu.Object) {
			continue
		}
		pu.Active = false

		switch pu.Type {
		case PowerUpHealth:
			w.Player.Heal(w.cfg.HealthPackAmount)
		case PowerUpSpeed:
			w.Effects.SpeedMultiplier = w.cfg.SpeedBoostMultiplier
			schedule(PowerUpSpeed, pu.DurationMs)
		case PowerUpRapidFire:
			w.Effects.RapidFire = true
			schedule(PowerUpRapidFire, pu.DurationMs)
		case PowerUpShield:
			w.Effects.Shield = true
			schedule(PowerUpShield, pu.DurationMs)
		}
		w.emit(GameEvent{Type: EventPowerUpCollected, EntityID: pu.ID, Detail: string(pu.Type)})
	}
}

// RevertEffect undoes one timed modifier. Called when its scheduled
// expiry fires.
func (w *World) RevertEffect(kind PowerUpType) {
	switch kind {
	case PowerUpSpeed:
		w.Effects.SpeedMultiplier = 1
	case PowerUpRapidFire:
		w.Effects.RapidFire = false
	case PowerUpShield:
		w.Effects.Shield = false
	default:
		return
	}
	w.emit(GameEvent{Type: EventPowerUpExpired, Detail: string(kind)})
}
