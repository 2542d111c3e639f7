// Package roller drives the animated reveal of a roll.
//
// A Controller moves between Idle and Rolling. A trigger while Idle starts a
// repeating timer; every tick shows freshly sampled dice, and the tick that
// reaches the cadence's count resolves the real roll through the dice engine,
// records it in the history ring and returns to Idle. Triggers while Rolling
// are ignored.
package roller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/louisbranch/dualidade/internal/dice"
)

// ErrRollInProgress indicates a roll is already animating.
var ErrRollInProgress = errors.New("a roll is already in progress")

// ErrClosed indicates the controller was closed.
var ErrClosed = errors.New("roller is closed")

// State is the animation state.
type State int

const (
	StateIdle State = iota
	StateRolling
)

func (s State) String() string {
	if s == StateRolling {
		return "rolling"
	}
	return "idle"
}

// Cadence describes how a roll animates: one frame every Period, resolving on
// the Ticks-th frame.
type Cadence struct {
	Period time.Duration
	Ticks  int
}

var (
	// DualCadence animates Duality rolls.
	DualCadence = Cadence{Period: 60 * time.Millisecond, Ticks: 10}
	// PoolCadence animates pool rolls.
	PoolCadence = Cadence{Period: 70 * time.Millisecond, Ticks: 8}
)

// Request is one roll trigger.
type Request struct {
	Mode     dice.Mode
	Modifier int
	Pool     dice.PoolConfig
}

// DualRequest builds a Duality roll request.
func DualRequest(modifier int) Request {
	return Request{Mode: dice.ModeDual, Modifier: modifier}
}

// PoolRequest builds a pool roll request from a validated configuration.
func PoolRequest(cfg dice.PoolConfig) Request {
	return Request{Mode: dice.ModePool, Modifier: cfg.Modifier, Pool: cfg}
}

// Displayed holds the dice values currently shown to the user.
type Displayed struct {
	Favorable int
	Adverse   int
	Rolls     []int
}

func (d Displayed) clone() Displayed {
	d.Rolls = append([]int(nil), d.Rolls...)
	return d
}

// Settings is the long-lived roll configuration. It is read-only while a
// roll is in progress.
type Settings struct {
	Modifier int
	Pool     dice.PoolConfig
}

// EventKind distinguishes controller notifications.
type EventKind int

const (
	EventFrame EventKind = iota + 1
	EventResult
	EventHistoryCleared
)

// Event is delivered to subscribers after a state change.
type Event struct {
	Kind      EventKind
	Mode      dice.Mode
	Displayed Displayed
	Result    *dice.RollResult
}

// Listener receives controller events. Listeners run outside the
// controller's lock, on the goroutine that caused the change.
type Listener func(Event)

// Snapshot is a consistent read of every observable output.
type Snapshot struct {
	State     State
	Mode      dice.Mode
	Displayed Displayed
	Settings  Settings
	Last      *dice.RollResult
	LastDual  *dice.RollResult
	LastPool  *dice.RollResult
	History   []dice.RollResult
}

// IsRolling reports whether the snapshot was taken mid-roll.
func (s Snapshot) IsRolling() bool {
	return s.State == StateRolling
}

// Controller owns the roll state machine and its outputs. Only the finishing
// tick writes the last result and the history.
type Controller struct {
	engine    *dice.Engine
	scheduler Scheduler
	dual      Cadence
	pool      Cadence

	mu         sync.Mutex
	state      State
	closed     bool
	request    Request
	ticks      int
	generation uint64
	timer      Timer
	displayed  Displayed
	settings   Settings
	last       *dice.RollResult
	lastDual   *dice.RollResult
	lastPool   *dice.RollResult
	history    *History
	waiters    []chan dice.RollResult
	listeners  map[int]Listener
	nextListen int
}

// Option customizes a Controller.
type Option func(*Controller)

// WithCadences overrides the animation cadences.
func WithCadences(dual, pool Cadence) Option {
	return func(c *Controller) {
		c.dual = dual
		c.pool = pool
	}
}

// WithHistoryCapacity overrides the history ring capacity.
func WithHistoryCapacity(capacity int) Option {
	return func(c *Controller) {
		c.history = NewHistory(capacity)
	}
}

// New builds an idle controller.
func New(engine *dice.Engine, scheduler Scheduler, opts ...Option) *Controller {
	if engine == nil {
		panic("roller: engine is required")
	}
	if scheduler == nil {
		scheduler = NewTickerScheduler()
	}
	c := &Controller{
		engine:    engine,
		scheduler: scheduler,
		dual:      DualCadence,
		pool:      PoolCadence,
		displayed: Displayed{Favorable: 1, Adverse: 1, Rolls: []int{1}},
		settings:  Settings{Pool: dice.DefaultPoolConfig()},
		history:   NewHistory(HistoryCapacity),
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TriggerDualRoll starts a Duality roll. It is a no-op while rolling.
func (c *Controller) TriggerDualRoll(modifier int) {
	_, _ = c.begin(DualRequest(modifier))
}

// TriggerPoolRoll starts a pool roll. It is a no-op while rolling and when
// the pool configuration is invalid.
func (c *Controller) TriggerPoolRoll(dieFaces, poolSize int, aggregation dice.Aggregation, modifier int) {
	_, _ = c.begin(PoolRequest(dice.PoolConfig{
		DieFaces:    dieFaces,
		PoolSize:    poolSize,
		Aggregation: aggregation,
		Modifier:    modifier,
	}))
}

// Trigger starts req and reports whether it was accepted.
func (c *Controller) Trigger(req Request) bool {
	return c.Start(req) == nil
}

// Start starts req without waiting for it. It returns ErrRollInProgress,
// ErrClosed or the pool validation error when the request is rejected.
func (c *Controller) Start(req Request) error {
	_, err := c.begin(req)
	return err
}

// Roll starts req and waits for its result.
func (c *Controller) Roll(ctx context.Context, req Request) (dice.RollResult, error) {
	done, err := c.begin(req)
	if err != nil {
		return dice.RollResult{}, err
	}
	select {
	case result, ok := <-done:
		if !ok {
			return dice.RollResult{}, ErrClosed
		}
		return result, nil
	case <-ctx.Done():
		return dice.RollResult{}, ctx.Err()
	}
}

func (c *Controller) begin(req Request) (<-chan dice.RollResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.state == StateRolling {
		return nil, ErrRollInProgress
	}
	if req.Mode == dice.ModePool {
		if err := req.Pool.Validate(); err != nil {
			return nil, err
		}
	}

	cadence := c.cadenceFor(req.Mode)
	c.state = StateRolling
	c.request = req
	c.ticks = 0
	c.generation++
	generation := c.generation
	done := make(chan dice.RollResult, 1)
	c.waiters = append(c.waiters, done)
	c.timer = c.scheduler.Every(cadence.Period, func() {
		c.tick(generation)
	})
	return done, nil
}

func (c *Controller) cadenceFor(mode dice.Mode) Cadence {
	if mode == dice.ModePool {
		return c.pool
	}
	return c.dual
}

func (c *Controller) tick(generation uint64) {
	c.mu.Lock()
	if c.closed || c.state != StateRolling || generation != c.generation {
		c.mu.Unlock()
		return
	}

	c.ticks++
	req := c.request
	if c.ticks < c.cadenceFor(req.Mode).Ticks {
		c.sampleFrame(req)
		event := Event{Kind: EventFrame, Mode: req.Mode, Displayed: c.displayed.clone()}
		listeners := c.listenerList()
		c.mu.Unlock()
		notify(listeners, event)
		return
	}

	c.timer.Stop()
	c.timer = nil
	result := c.resolve(req)
	stored := result
	c.last = &stored
	if req.Mode == dice.ModePool {
		c.lastPool = &stored
		c.displayed.Rolls = append([]int(nil), result.Rolls...)
	} else {
		c.lastDual = &stored
		c.displayed.Favorable = result.Favorable
		c.displayed.Adverse = result.Adverse
	}
	c.history.Push(result)
	c.state = StateIdle

	waiters := c.waiters
	c.waiters = nil
	event := Event{Kind: EventResult, Mode: req.Mode, Displayed: c.displayed.clone(), Result: ptr(cloneResult(result))}
	listeners := c.listenerList()
	c.mu.Unlock()

	for _, waiter := range waiters {
		waiter <- cloneResult(result)
		close(waiter)
	}
	notify(listeners, event)
}

// sampleFrame shows throwaway dice; it never touches the resolve path.
func (c *Controller) sampleFrame(req Request) {
	if req.Mode == dice.ModePool {
		rolls := make([]int, req.Pool.PoolSize)
		for i := range rolls {
			rolls[i] = c.engine.SampleDie(req.Pool.DieFaces)
		}
		c.displayed.Rolls = rolls
		return
	}
	c.displayed.Favorable = c.engine.SampleDie(dice.DualityFaces)
	c.displayed.Adverse = c.engine.SampleDie(dice.DualityFaces)
}

func (c *Controller) resolve(req Request) dice.RollResult {
	if req.Mode == dice.ModePool {
		return c.engine.ResolvePool(req.Pool.DieFaces, req.Pool.PoolSize, req.Pool.Aggregation, req.Modifier)
	}
	return c.engine.ResolveDual(req.Modifier)
}

// IsRolling reports whether a roll is animating.
func (c *Controller) IsRolling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateRolling
}

// Displayed returns the dice values currently shown.
func (c *Controller) Displayed() Displayed {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayed.clone()
}

// LastResult returns the most recent result of any mode.
func (c *Controller) LastResult() (dice.RollResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return dice.RollResult{}, false
	}
	return cloneResult(*c.last), true
}

// LastResultFor returns the most recent result of one mode.
func (c *Controller) LastResultFor(mode dice.Mode) (dice.RollResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	last := c.lastDual
	if mode == dice.ModePool {
		last = c.lastPool
	}
	if last == nil {
		return dice.RollResult{}, false
	}
	return cloneResult(*last), true
}

// History returns completed results newest first.
func (c *Controller) History() []dice.RollResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Items()
}

// ClearHistory empties the history. The last results stay visible.
func (c *Controller) ClearHistory() {
	c.mu.Lock()
	c.history.Clear()
	listeners := c.listenerList()
	c.mu.Unlock()
	notify(listeners, Event{Kind: EventHistoryCleared})
}

// Settings returns the current roll configuration.
func (c *Controller) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// UpdateSettings applies update to the configuration. Updates are rejected
// while rolling and when the resulting pool configuration is invalid.
func (c *Controller) UpdateSettings(update func(*Settings)) (Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRolling {
		return c.settings, ErrRollInProgress
	}
	next := c.settings
	update(&next)
	next.Pool.Modifier = next.Modifier
	if err := next.Pool.Validate(); err != nil {
		return c.settings, err
	}
	c.settings = next
	return next, nil
}

// Snapshot returns every observable output under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:     c.state,
		Mode:      c.request.Mode,
		Displayed: c.displayed.clone(),
		Settings:  c.settings,
		Last:      clonePtr(c.last),
		LastDual:  clonePtr(c.lastDual),
		LastPool:  clonePtr(c.lastPool),
		History:   c.history.Items(),
	}
}

// Subscribe registers listener and returns a function removing it.
func (c *Controller) Subscribe(listener Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextListen
	c.nextListen++
	c.listeners[id] = listener
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Close cancels any pending timer. Ticks that race with Close are dropped
// and waiting Roll calls return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.state = StateIdle
	for _, waiter := range c.waiters {
		close(waiter)
	}
	c.waiters = nil
	clear(c.listeners)
}

func (c *Controller) listenerList() []Listener {
	out := make([]Listener, 0, len(c.listeners))
	for _, listener := range c.listeners {
		out = append(out, listener)
	}
	return out
}

func notify(listeners []Listener, event Event) {
	for _, listener := range listeners {
		listener(event)
	}
}

func clonePtr(result *dice.RollResult) *dice.RollResult {
	if result == nil {
		return nil
	}
	return ptr(cloneResult(*result))
}

func ptr[T any](v T) *T {
	return &v
}
