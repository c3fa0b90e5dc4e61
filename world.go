package main

// World owns every entity collection for one match and runs the
// per-tick update and cleanup phases. It is not safe for concurrent
// use; the Engine serializes access.
type World struct {
	cfg    Config
	bounds Bounds
	rng    *Rand

	Player      *Tank
	Enemies     []*Tank
	Projectiles []*Projectile
	Obstacles   []*Obstacle
	PowerUps    []*PowerUp

	Score    int
	GameOver bool
	Effects  Effects

	// Running difficulty scalar, raised a little on every kill and
	// folded into newly spawned enemy speeds.
	speedIncrease float64

	tick  uint64
	input Input

	nextEnemySpawn   uint64
	nextPowerUpSpawn uint64

	grid    *SpatialGrid
	gridBuf []EntityRef

	events []GameEvent
}

// NewWorld builds a fresh match: obstacles generated, player at the
// center, the minimum enemy complement spawned, spawn timers armed.
func NewWorld(cfg Config, bounds Bounds, rng *Rand) *World {
	w := &World{
		cfg:     cfg,
		bounds:  bounds,
		rng:     rng,
		Effects: DefaultEffects(),
		grid:    NewSpatialGrid(bounds, cfg.TankSize*2),
	}
	w.Obstacles = generateObstacles(cfg, bounds, rng)
	w.Player = NewPlayerTank(cfg, bounds)

	for i := 0; i < cfg.MinEnemies; i++ {
		w.spawnEnemy()
	}
	w.nextEnemySpawn = w.tick + w.intervalTicks(cfg.EnemyMinSpawnIntervalMs, cfg.EnemyMaxSpawnIntervalMs)
	w.nextPowerUpSpawn = w.tick + w.intervalTicks(cfg.PowerUpMinSpawnIntervalMs, cfg.PowerUpMaxSpawnIntervalMs)
	return w
}

// intervalTicks converts a millisecond interval band into a random
// tick count at the configured tick rate.
func (w *World) intervalTicks(minMs, maxMs int64) uint64 {
	ms := minMs
	if maxMs > minMs {
		ms += int64(w.rng.Intn(int(maxMs - minMs)))
	}
	ticks := ms * int64(w.cfg.TickRate) / 1000
	if ticks < 1 {
		ticks = 1
	}
	return uint64(ticks)
}

// SetInput stores the control snapshot consumed by the next tick.
func (w *World) SetInput(in Input) {
	w.input = in
}

// Tick returns the number of completed update passes.
func (w *World) Tick() uint64 {
	return w.tick
}

// Bounds returns the playfield dimensions.
func (w *World) Bounds() Bounds {
	return w.bounds
}

func (w *World) emit(ev GameEvent) {
	w.events = append(w.events, ev)
}

// DrainEvents returns the events staged since the last drain.
func (w *World) DrainEvents() []GameEvent {
	evs := w.events
	w.events = nil
	return evs
}

func (w *World) spawnEnemy() {
	pos := findSafeSpawnPosition(w.bounds, w.cfg.TankSize, w.Obstacles, w.cfg.TankSize, w.rng)
	// Keep spawns out of the player's lap
	for attempt := 0; attempt < 10 && Distance(pos, w.Player.Position) < w.cfg.SpawnClearance; attempt++ {
		pos = findSafeSpawnPosition(w.bounds, w.cfg.TankSize, w.Obstacles, w.cfg.TankSize, w.rng)
	}
	w.Enemies = append(w.Enemies, NewEnemyTank(w.cfg, pos, w.speedIncrease, w.rng))
}

// UpdateEntities advances every entity one tick: player movement and
// firing, enemy steering and firing, projectile flight, and timed
// spawning of enemies and power-ups.
func (w *World) UpdateEntities() {
	w.tick++

	if w.tick >= w.nextEnemySpawn {
		if len(w.Enemies) < w.cfg.MaxEnemies {
			w.spawnEnemy()
		}
		w.nextEnemySpawn = w.tick + w.intervalTicks(w.cfg.EnemyMinSpawnIntervalMs, w.cfg.EnemyMaxSpawnIntervalMs)
	}
	if len(w.Enemies) < w.cfg.MinEnemies {
		w.spawnEnemy()
	}

	if w.tick >= w.nextPowerUpSpawn {
		if w.activePowerUps() < w.cfg.MaxPowerUps {
			w.PowerUps = append(w.PowerUps, NewRandomPowerUp(w.cfg, w.bounds, w.Obstacles, w.rng))
		}
		w.nextPowerUpSpawn = w.tick + w.intervalTicks(w.cfg.PowerUpMinSpawnIntervalMs, w.cfg.PowerUpMaxSpawnIntervalMs)
	}

	w.Player.UpdatePlayer(w.cfg, w.input, w.Effects.SpeedMultiplier, w.Obstacles, w.bounds)
	if w.input.Fire && w.Player.CanFire() {
		w.Projectiles = append(w.Projectiles, NewProjectile(w.cfg, w.Player))
		w.Player.Fire(w.cfg, w.Effects.RapidFire)
	}

	for _, e := range w.Enemies {
		if p := e.UpdateEnemy(w.cfg, w.Player, w.Obstacles, w.bounds, w.tick, w.rng); p != nil {
			w.Projectiles = append(w.Projectiles, p)
		}
	}

	for _, p := range w.Projectiles {
		p.Update(w.cfg, w.bounds)
	}
}

func (w *World) activePowerUps() int {
	n := 0
	for _, p := range w.PowerUps {
		if p.Active {
			n++
		}
	}
	return n
}

// rebuildGrid reindexes all tanks for the broad-phase queries run by
// the collision pass.
func (w *World) rebuildGrid() {
	w.grid.Clear()
	w.grid.InsertCircle(w.Player.Position.X, w.Player.Position.Y, w.Player.Width, EntityRef{Kind: 'p'})
	for i, e := range w.Enemies {
		w.grid.InsertCircle(e.Position.X, e.Position.Y, e.Width, EntityRef{Kind: 'e', Idx: i})
	}
}

// AddScore credits a kill and nudges the difficulty accumulator, with
// a little randomness, clamped to its cap.
func (w *World) AddScore(points int) {
	w.Score += points
	inc := w.cfg.EnemySpeedPerKill * (0.8 + w.rng.Float64()*0.4)
	w.speedIncrease += inc
	if w.speedIncrease > w.cfg.EnemySpeedIncreaseCap {
		w.speedIncrease = w.cfg.EnemySpeedIncreaseCap
	}
}

// Snapshot deep-copies the current state into protocol form. Nothing
// in the returned value aliases live entities.
func (w *World) Snapshot() GameState {
	gs := GameState{
		Player:      w.Player.ToState(),
		Enemies:     make([]TankState, 0, len(w.Enemies)),
		Projectiles: make([]ProjectileState, 0, len(w.Projectiles)),
		Obstacles:   make([]ObstacleState, 0, len(w.Obstacles)),
		PowerUps:    make([]PowerUpState, 0, len(w.PowerUps)),
		Score:       w.Score,
		GameOver:    w.GameOver,
		Effects: EffectsState{
			Speed:     w.Effects.SpeedMultiplier,
			Shield:    w.Effects.Shield,
			RapidFire: w.Effects.RapidFire,
		},
		Bounds: w.bounds,
		Tick:   w.tick,
	}
	for _, e := range w.Enemies {
		gs.Enemies = append(gs.Enemies, e.ToState())
	}
	for _, p := range w.Projectiles {
		gs.Projectiles = append(gs.Projectiles, p.ToState())
	}
	for _, o := range w.Obstacles {
		gs.Obstacles = append(gs.Obstacles, o.ToState())
	}
	for _, p := range w.PowerUps {
		if p.Active {
			gs.PowerUps = append(gs.PowerUps, p.ToState())
		}
	}
	return gs
}

// Cleanup purges entities that died or deactivated during this tick's
// update and collision passes. Runs after collisions so a dying
// entity's final position still participated in them.
func (w *World) Cleanup() {
	live := w.Projectiles[:0]
	for _, p := range w.Projectiles {
		if p.Active {
			live = append(live, p)
		}
	}
	w.Projectiles = live

	enemies := w.Enemies[:0]
	for _, e := range w.Enemies {
		if e.Health > 0 {
			enemies = append(enemies, e)
		}
	}
	w.Enemies = enemies

	ups := w.PowerUps[:0]
	for _, p := range w.PowerUps {
		if p.Active {
			ups = append(ups, p)
		}
	}
	w.PowerUps = ups

	obstacles := w.Obstacles[:0]
	for _, o := range w.Obstacles {
		if o.Destructible && o.Health <= 0 {
			w.emit(GameEvent{Type: EventObstacleDestroyed, EntityID: o.ID})
			continue
		}
		obstacles = append(obstacles, o)
	}
	w.Obstacles = obstacles
}
