package main

import (
	"sync"
	"time"
)

// TimeStamper returns the current time in Unix milliseconds. Injected
// so tests can drive effect expiry with a fake clock.
type TimeStamper func() int64

// Renderer receives a snapshot after every loop pass, including while
// paused, so a host can keep showing a frozen frame. The snapshot is a
// deep copy; mutating it has no effect on the simulation.
type Renderer func(GameState)

// EventSink receives the domain events staged during a pass.
type EventSink func([]GameEvent)

type engineState int

const (
	engineStopped engineState = iota
	engineRunning
	enginePaused
)

// scheduledEffect is one pending power-up reversion, keyed by expiry
// time rather than ticks so it still fires while the game is paused.
type scheduledEffect struct {
	Kind      PowerUpType
	ExpiresAt int64
}

// Engine drives the tick cadence over a World and owns the timed
// effect queue. All state access is serialized through its mutex.
type Engine struct {
	mu     sync.RWMutex
	cfg    Config
	bounds Bounds
	rng    *Rand
	world  *World
	state  engineState
	now    TimeStamper

	pending []scheduledEffect

	render Renderer
	events EventSink

	stop chan struct{}
	done chan struct{}
}

// NewEngine builds a stopped engine over a fresh world.
func NewEngine(cfg Config, bounds Bounds, rng *Rand) *Engine {
	if rng == nil {
		rng = NewRand(NewRandomSeed())
	}
	return &Engine{
		cfg:    cfg,
		bounds: bounds,
		rng:    rng,
		world:  NewWorld(cfg, bounds, rng),
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

// SetTimeStamper replaces the clock. Only valid before Start.
func (e *Engine) SetTimeStamper(ts TimeStamper) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = ts
}

// SetRenderer installs the per-pass snapshot callback.
func (e *Engine) SetRenderer(r Renderer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.render = r
}

// SetEventSink installs the domain event callback.
func (e *Engine) SetEventSink(s EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = s
}

// SetInput stores the control snapshot for the next tick.
func (e *Engine) SetInput(in Input) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.world.SetInput(in)
}

// Start begins the tick cadence. No-op unless stopped.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.state != engineStopped {
		e.mu.Unlock()
		return
	}
	e.state = engineRunning
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.mu.Unlock()

	go e.run()
}

func (e *Engine) run() {
	defer close(e.done)
	ticker := time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.Step()
		case <-e.stop:
			return
		}
	}
}

// Stop ends the cadence entirely and waits for the loop goroutine.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state == engineStopped {
		e.mu.Unlock()
		return
	}
	e.state = engineStopped
	stop := e.stop
	done := e.done
	e.mu.Unlock()

	close(stop)
	<-done
}

// Pause suspends the simulation phases without tearing down the
// cadence. The renderer keeps receiving frames and pending power-up
// expiries keep firing.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == engineRunning {
		e.state = enginePaused
	}
}

// Resume re-enables the simulation phases.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == enginePaused {
		e.state = engineRunning
	}
}

// Paused reports whether the simulation phases are suspended.
func (e *Engine) Paused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state == enginePaused
}

// Restart discards the match and builds a fresh world. Clears every
// pending effect reversion so no stale timer patches the new state.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.world = NewWorld(e.cfg, e.bounds, e.rng)
	e.pending = nil
}

// Step runs one full loop pass: drain due effect reversions, then the
// three simulation phases unless paused or over, then hand a snapshot
// and the staged events to the callbacks. Exported so tests can drive
// the engine without the ticker.
func (e *Engine) Step() {
	e.mu.Lock()

	e.drainExpired(e.now())

	if e.state != enginePaused && !e.world.GameOver {
		e.world.UpdateEntities()
		e.world.HandleCollisions(e.schedule)
		e.world.Cleanup()
	}

	snap := e.world.Snapshot()
	snap.Paused = e.state == enginePaused
	evs := e.world.DrainEvents()
	render := e.render
	sink := e.events
	e.mu.Unlock()

	if render != nil {
		render(snap)
	}
	if sink != nil && len(evs) > 0 {
		sink(evs)
	}
}

// schedule arms a reversion for a timed power-up. Called from inside
// the collision pass with the mutex already held.
func (e *Engine) schedule(kind PowerUpType, durationMs int64) {
	e.pending = append(e.pending, scheduledEffect{
		Kind:      kind,
		ExpiresAt: e.now() + durationMs,
	})
}

// drainExpired applies every due reversion against the current world
// state. A due entry is skipped when a later entry of the same kind is
// still pending, so picking the same power-up again extends the effect
// instead of cutting it short.
func (e *Engine) drainExpired(now int64) {
	if len(e.pending) == 0 {
		return
	}
	remaining := e.pending[:0]
	var due []scheduledEffect
	for _, eff := range e.pending {
		if eff.ExpiresAt <= now {
			due = append(due, eff)
		} else {
			remaining = append(remaining, eff)
		}
	}
	e.pending = remaining

	for _, eff := range due {
		if e.kindPending(eff.Kind) {
			continue
		}
		e.world.RevertEffect(eff.Kind)
	}
}

func (e *Engine) kindPending(kind PowerUpType) bool {
	for _, eff := range e.pending {
		if eff.Kind == kind {
			return true
		}
	}
	return false
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() GameState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap := e.world.Snapshot()
	snap.Paused = e.state == enginePaused
	return snap
}

// Score returns the current match score.
func (e *Engine) Score() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.world.Score
}

// GameOver reports whether the match has ended.
func (e *Engine) GameOver() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.world.GameOver
}
