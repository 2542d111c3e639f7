package roller_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/louisbranch/dualidade/internal/dice"
	"github.com/louisbranch/dualidade/internal/random"
	"github.com/louisbranch/dualidade/internal/roller"
	"github.com/louisbranch/dualidade/internal/roller/rollertest"
)

// queueSource returns queued values first and then 1s.
type queueSource struct {
	mu     sync.Mutex
	values []int
}

func (s *queueSource) Uniform(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 1
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v
}

func repeat(value, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = value
	}
	return out
}

func counterIDs() func() (string, error) {
	var n atomic.Int64
	return func() (string, error) {
		return fmt.Sprintf("roll-%d", n.Add(1)), nil
	}
}

func newController(t *testing.T, source dice.Source) (*roller.Controller, *rollertest.ManualScheduler) {
	t.Helper()
	scheduler := rollertest.NewManualScheduler()
	engine := dice.NewEngine(source, nil, counterIDs())
	c := roller.New(engine, scheduler)
	t.Cleanup(c.Close)
	return c, scheduler
}

func dualDuration() time.Duration {
	return roller.DualCadence.Period * time.Duration(roller.DualCadence.Ticks)
}

func poolDuration() time.Duration {
	return roller.PoolCadence.Period * time.Duration(roller.PoolCadence.Ticks)
}

func TestDualRollAnimatesThenResolves(t *testing.T) {
	intermediate := repeat(4, 2*(roller.DualCadence.Ticks-1))
	source := &queueSource{values: append(intermediate, 8, 3)}
	c, scheduler := newController(t, source)

	var frames, results int
	c.Subscribe(func(event roller.Event) {
		switch event.Kind {
		case roller.EventFrame:
			frames++
		case roller.EventResult:
			results++
		}
	})

	c.TriggerDualRoll(2)
	if !c.IsRolling() {
		t.Fatal("expected rolling after trigger")
	}

	scheduler.Advance(roller.DualCadence.Period - time.Millisecond)
	if frames != 0 {
		t.Fatalf("frames before first period = %d, want 0", frames)
	}

	scheduler.Advance(dualDuration() - roller.DualCadence.Period)
	if !c.IsRolling() {
		t.Fatal("expected rolling before final tick")
	}
	if got := c.Displayed(); got.Favorable != 4 || got.Adverse != 4 {
		t.Fatalf("displayed mid-roll = %+v, want 4/4", got)
	}
	if len(c.History()) != 0 {
		t.Fatal("history must stay empty until the final tick")
	}
	if _, ok := c.LastResult(); ok {
		t.Fatal("last result must stay empty until the final tick")
	}

	scheduler.Advance(roller.DualCadence.Period)
	if c.IsRolling() {
		t.Fatal("expected idle after final tick")
	}
	if frames != roller.DualCadence.Ticks-1 || results != 1 {
		t.Fatalf("frames/results = %d/%d", frames, results)
	}
	if scheduler.Active() != 0 {
		t.Fatalf("active timers = %d, want 0", scheduler.Active())
	}

	last, ok := c.LastResult()
	if !ok {
		t.Fatal("expected last result")
	}
	if last.Favorable != 8 || last.Adverse != 3 || last.Outcome != dice.OutcomeFavorable || last.Total != 13 {
		t.Fatalf("unexpected result: %+v", last)
	}
	if got := c.Displayed(); got.Favorable != 8 || got.Adverse != 3 {
		t.Fatalf("displayed after roll = %+v, want 8/3", got)
	}
	if dual, ok := c.LastResultFor(dice.ModeDual); !ok || dual.ID != last.ID {
		t.Fatalf("last dual = %+v", dual)
	}
	if _, ok := c.LastResultFor(dice.ModePool); ok {
		t.Fatal("expected no pool result")
	}
	history := c.History()
	if len(history) != 1 || history[0].ID != last.ID {
		t.Fatalf("history = %+v", history)
	}
}

func TestPoolRollResolvesForcedDice(t *testing.T) {
	intermediate := repeat(3, 4*(roller.PoolCadence.Ticks-1))
	source := &queueSource{values: append(intermediate, 2, 4, 6, 1)}
	c, scheduler := newController(t, source)

	c.TriggerPoolRoll(6, 4, dice.AggregationSum, 1)
	scheduler.Advance(roller.PoolCadence.Period)
	if got := c.Displayed().Rolls; !slices.Equal(got, []int{3, 3, 3, 3}) {
		t.Fatalf("displayed frame = %v", got)
	}

	scheduler.Advance(poolDuration() - roller.PoolCadence.Period)
	last, ok := c.LastResultFor(dice.ModePool)
	if !ok {
		t.Fatal("expected pool result")
	}
	if last.Total != 14 || !slices.Equal(last.Rolls, []int{2, 4, 6, 1}) {
		t.Fatalf("unexpected pool result: %+v", last)
	}
	if got := c.Displayed().Rolls; !slices.Equal(got, []int{2, 4, 6, 1}) {
		t.Fatalf("displayed after roll = %v", got)
	}
}

func TestTriggerWhileRollingIsIgnored(t *testing.T) {
	c, scheduler := newController(t, random.NewSource(1))

	c.TriggerDualRoll(0)
	scheduler.Advance(3 * roller.DualCadence.Period)
	before := c.Snapshot()

	c.TriggerPoolRoll(20, 3, dice.AggregationKeepHighest, 5)
	c.TriggerDualRoll(7)
	if c.Trigger(roller.DualRequest(1)) {
		t.Fatal("expected trigger to be rejected while rolling")
	}

	after := c.Snapshot()
	if after.Displayed.Favorable != before.Displayed.Favorable || after.Displayed.Adverse != before.Displayed.Adverse {
		t.Fatalf("displayed changed: %+v -> %+v", before.Displayed, after.Displayed)
	}
	if after.Mode != dice.ModeDual || len(after.History) != 0 || after.Last != nil {
		t.Fatalf("unexpected snapshot after ignored triggers: %+v", after)
	}

	scheduler.Advance(dualDuration())
	history := c.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].Mode != dice.ModeDual || history[0].Modifier != 0 {
		t.Fatalf("unexpected result: %+v", history[0])
	}
	if scheduler.Active() != 0 {
		t.Fatalf("active timers = %d, want 0", scheduler.Active())
	}
}

func TestHistoryCapsAtFiftyNewestFirst(t *testing.T) {
	c, scheduler := newController(t, random.NewSource(2))

	const rolls = 57
	for i := 0; i < rolls; i++ {
		c.TriggerDualRoll(i)
		scheduler.Advance(dualDuration())
	}

	history := c.History()
	if len(history) != roller.HistoryCapacity {
		t.Fatalf("history length = %d, want %d", len(history), roller.HistoryCapacity)
	}
	for i, result := range history {
		wantID := fmt.Sprintf("roll-%d", rolls-i)
		if result.ID != wantID {
			t.Fatalf("history[%d].ID = %q, want %q", i, result.ID, wantID)
		}
		if result.Modifier != rolls-1-i {
			t.Fatalf("history[%d].Modifier = %d, want %d", i, result.Modifier, rolls-1-i)
		}
	}
}

func TestClearHistory(t *testing.T) {
	c, scheduler := newController(t, random.NewSource(3))
	for i := 0; i < 5; i++ {
		c.TriggerPoolRoll(8, 2, dice.AggregationSum, 0)
		scheduler.Advance(poolDuration())
	}
	if len(c.History()) != 5 {
		t.Fatalf("history length = %d, want 5", len(c.History()))
	}

	cleared := false
	c.Subscribe(func(event roller.Event) {
		if event.Kind == roller.EventHistoryCleared {
			cleared = true
		}
	})
	c.ClearHistory()
	if len(c.History()) != 0 || !cleared {
		t.Fatalf("history length = %d, cleared event = %v", len(c.History()), cleared)
	}
	if _, ok := c.LastResult(); !ok {
		t.Fatal("clearing history must keep the last result")
	}

	c.TriggerDualRoll(0)
	scheduler.Advance(dualDuration())
	if len(c.History()) != 1 {
		t.Fatalf("history length = %d, want 1", len(c.History()))
	}
}

func TestCloseCancelsPendingTimer(t *testing.T) {
	c, scheduler := newController(t, random.NewSource(4))
	c.TriggerDualRoll(0)
	scheduler.Advance(2 * roller.DualCadence.Period)

	c.Close()
	if scheduler.Active() != 0 {
		t.Fatalf("active timers = %d, want 0", scheduler.Active())
	}
	scheduler.Advance(time.Second)
	if len(c.History()) != 0 {
		t.Fatal("closed controller must not record results")
	}
	if c.Trigger(roller.DualRequest(0)) {
		t.Fatal("closed controller must reject triggers")
	}
}

func TestRollWaitsForResult(t *testing.T) {
	c, scheduler := newController(t, random.NewSource(5))

	type outcome struct {
		result dice.RollResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := c.Roll(context.Background(), roller.PoolRequest(dice.PoolConfig{
			DieFaces:    10,
			PoolSize:    3,
			Aggregation: dice.AggregationKeepLowest,
			Modifier:    2,
		}))
		done <- outcome{result: result, err: err}
	}()

	waitUntil(t, c.IsRolling)
	if _, err := c.Roll(context.Background(), roller.DualRequest(0)); !errors.Is(err, roller.ErrRollInProgress) {
		t.Fatalf("second Roll error = %v, want %v", err, roller.ErrRollInProgress)
	}
	scheduler.Advance(poolDuration())

	select {
	case got := <-done:
		if got.err != nil {
			t.Fatalf("roll error: %v", got.err)
		}
		if got.result.Total != slices.Min(got.result.Rolls)+2 {
			t.Fatalf("unexpected result: %+v", got.result)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("roll did not complete")
	}
}

func TestRollReturnsErrClosedWhenClosedMidRoll(t *testing.T) {
	c, _ := newController(t, random.NewSource(6))
	done := make(chan error, 1)
	go func() {
		_, err := c.Roll(context.Background(), roller.DualRequest(0))
		done <- err
	}()
	waitUntil(t, c.IsRolling)
	c.Close()

	select {
	case err := <-done:
		if !errors.Is(err, roller.ErrClosed) {
			t.Fatalf("err = %v, want %v", err, roller.ErrClosed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("roll did not return after close")
	}
}

func TestRollHonorsContext(t *testing.T) {
	c, _ := newController(t, random.NewSource(7))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Roll(ctx, roller.DualRequest(0)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	c, scheduler := newController(t, random.NewSource(8))

	settings, err := c.UpdateSettings(func(s *roller.Settings) {
		s.Modifier = 3
		s.Pool.DieFaces = 8
		s.Pool.PoolSize = 4
		s.Pool.Aggregation = dice.AggregationKeepHighest
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if settings.Pool.Modifier != 3 || c.Settings().Pool.DieFaces != 8 {
		t.Fatalf("unexpected settings: %+v", settings)
	}

	if _, err := c.UpdateSettings(func(s *roller.Settings) { s.Pool.PoolSize = 0 }); !errors.Is(err, dice.ErrInvalidPoolSize) {
		t.Fatalf("err = %v, want %v", err, dice.ErrInvalidPoolSize)
	}
	if c.Settings().Pool.PoolSize != 4 {
		t.Fatal("invalid update must not apply")
	}

	c.TriggerDualRoll(0)
	if _, err := c.UpdateSettings(func(s *roller.Settings) { s.Modifier = 9 }); !errors.Is(err, roller.ErrRollInProgress) {
		t.Fatalf("err = %v, want %v", err, roller.ErrRollInProgress)
	}
	scheduler.Advance(dualDuration())
	if _, err := c.UpdateSettings(func(s *roller.Settings) { s.Modifier = 9 }); err != nil {
		t.Fatalf("update after roll: %v", err)
	}
}

func TestTickerSchedulerCompletesRoll(t *testing.T) {
	engine := dice.NewEngine(random.NewSource(9), nil, counterIDs())
	fast := roller.Cadence{Period: time.Millisecond, Ticks: 3}
	c := roller.New(engine, roller.NewTickerScheduler(), roller.WithCadences(fast, fast))
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := c.Roll(ctx, roller.DualRequest(1))
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if result.Total != result.Favorable+result.Adverse+1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if c.IsRolling() {
		t.Fatal("expected idle after roll")
	}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStartReportsRejection(t *testing.T) {
	c, scheduler := newController(t, random.NewSource(5))
	if err := c.Start(roller.DualRequest(0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Start(roller.DualRequest(0)); !errors.Is(err, roller.ErrRollInProgress) {
		t.Fatalf("second start err = %v, want ErrRollInProgress", err)
	}
	scheduler.Advance(dualDuration())
	c.Close()
	if err := c.Start(roller.DualRequest(0)); !errors.Is(err, roller.ErrClosed) {
		t.Fatalf("start after close err = %v, want ErrClosed", err)
	}
}

func TestStartRejectsInvalidPool(t *testing.T) {
	c, scheduler := newController(t, random.NewSource(5))
	err := c.Start(roller.PoolRequest(dice.PoolConfig{DieFaces: 6, PoolSize: 0, Aggregation: dice.AggregationKeepHighest}))
	if !errors.Is(err, dice.ErrInvalidPoolSize) {
		t.Fatalf("start err = %v, want ErrInvalidPoolSize", err)
	}

	c.TriggerPoolRoll(7, 2, dice.AggregationSum, 0)
	if c.IsRolling() {
		t.Fatal("invalid pool must not start a roll")
	}
	scheduler.Advance(poolDuration())
	if len(c.History()) != 0 {
		t.Fatalf("history length = %d, want 0", len(c.History()))
	}

	c.TriggerPoolRoll(6, 2, dice.AggregationSum, 0)
	scheduler.Advance(poolDuration())
	if len(c.History()) != 1 {
		t.Fatalf("history length = %d, want 1 after a valid roll", len(c.History()))
	}
}

func TestWithHistoryCapacity(t *testing.T) {
	scheduler := rollertest.NewManualScheduler()
	c := roller.New(dice.NewEngine(random.NewSource(9), nil, counterIDs()), scheduler, roller.WithHistoryCapacity(3))
	t.Cleanup(c.Close)
	for i := 0; i < 5; i++ {
		c.TriggerDualRoll(i)
		scheduler.Advance(dualDuration())
	}
	history := c.History()
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].Modifier != 4 || history[2].Modifier != 2 {
		t.Fatalf("unexpected history order: %d..%d", history[0].Modifier, history[2].Modifier)
	}
}
