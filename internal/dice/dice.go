// Package dice implements the dice-rolling logic for the companion roller.
//
// Two roll families are supported: the Duality roll (a Hope and a Fear d12
// compared against each other) and the standard dice pool (N dice of M faces
// reduced by an aggregation policy). The engine is pure apart from its
// injected random source, clock and id generator.
package dice

import (
	"strconv"
	"time"
)

// DualityFaces is the number of faces on each Duality die.
const DualityFaces = 12

// Mode identifies which roll family produced a result.
type Mode int

const (
	ModeUnspecified Mode = iota
	ModeDual
	ModePool
)

func (m Mode) String() string {
	switch m {
	case ModeDual:
		return "duality"
	case ModePool:
		return "standard"
	default:
		return "unspecified"
	}
}

// Outcome represents the categorical outcome of a Duality roll.
type Outcome int

const (
	OutcomeUnspecified Outcome = iota
	OutcomeFavorable
	OutcomeAdverse
	OutcomeCritical
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFavorable:
		return "hope"
	case OutcomeAdverse:
		return "fear"
	case OutcomeCritical:
		return "critical"
	default:
		return "standard"
	}
}

// Source is the randomness provider for dice rolls.
//
// Implementations must be safe for concurrent use; the roller samples from
// its ticker goroutine while triggers arrive from request goroutines.
type Source interface {
	// Uniform returns a uniformly distributed int in [1, n]. n must be > 0.
	Uniform(n int) int
}

// RollResult captures one completed roll. It is never mutated after the
// engine returns it.
type RollResult struct {
	ID        string
	Timestamp time.Time
	Mode      Mode
	Modifier  int
	Total     int

	// Duality fields.
	Favorable int
	Adverse   int
	Outcome   Outcome

	// Pool fields.
	DieFaces    int
	PoolSize    int
	Rolls       []int
	Used        []bool
	Aggregation Aggregation
}

// Engine resolves rolls from a random source.
type Engine struct {
	source      Source
	now         func() time.Time
	idGenerator func() (string, error)
}

// NewEngine builds an engine. A nil now defaults to time.Now and a nil
// idGenerator falls back to timestamp-derived ids.
func NewEngine(source Source, now func() time.Time, idGenerator func() (string, error)) *Engine {
	if source == nil {
		panic("dice: source is required")
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{source: source, now: now, idGenerator: idGenerator}
}

// SampleDie returns a uniformly distributed value in [1, faces].
func (e *Engine) SampleDie(faces int) int {
	return e.source.Uniform(faces)
}

// ResolveDual rolls the Hope and Fear dice and evaluates the outcome.
func (e *Engine) ResolveDual(modifier int) RollResult {
	favorable := e.SampleDie(DualityFaces)
	adverse := e.SampleDie(DualityFaces)

	evaluation := EvaluateDual(favorable, adverse, modifier)
	return RollResult{
		ID:        e.newID(),
		Timestamp: e.now(),
		Mode:      ModeDual,
		Modifier:  modifier,
		Total:     evaluation.Total,
		Favorable: favorable,
		Adverse:   adverse,
		Outcome:   evaluation.Outcome,
	}
}

// ResolvePool rolls poolSize dice of dieFaces sides and reduces them with
// the aggregation policy. The pool size is not clamped here; callers pass a
// configuration that already went through PoolConfig.Validate.
func (e *Engine) ResolvePool(dieFaces, poolSize int, aggregation Aggregation, modifier int) RollResult {
	rolls := make([]int, poolSize)
	for i := range rolls {
		rolls[i] = e.SampleDie(dieFaces)
	}

	return RollResult{
		ID:          e.newID(),
		Timestamp:   e.now(),
		Mode:        ModePool,
		Modifier:    modifier,
		Total:       Aggregate(rolls, aggregation) + modifier,
		DieFaces:    dieFaces,
		PoolSize:    poolSize,
		Rolls:       rolls,
		Used:        MarkUsed(rolls, aggregation),
		Aggregation: aggregation,
	}
}

// DualEvaluation is the deterministic evaluation of known Duality dice.
type DualEvaluation struct {
	Favorable int
	Adverse   int
	Modifier  int
	Total     int
	IsCrit    bool
	Outcome   Outcome
}

// EvaluateDual resolves a Duality outcome from known dice. Matching dice are
// a critical; otherwise the higher die names the outcome.
func EvaluateDual(favorable, adverse, modifier int) DualEvaluation {
	outcome := OutcomeAdverse
	switch {
	case favorable == adverse:
		outcome = OutcomeCritical
	case favorable > adverse:
		outcome = OutcomeFavorable
	}

	return DualEvaluation{
		Favorable: favorable,
		Adverse:   adverse,
		Modifier:  modifier,
		Total:     favorable + adverse + modifier,
		IsCrit:    outcome == OutcomeCritical,
		Outcome:   outcome,
	}
}

func (e *Engine) newID() string {
	if e.idGenerator != nil {
		if id, err := e.idGenerator(); err == nil && id != "" {
			return id
		}
	}
	return "roll-" + strconv.FormatInt(e.now().UnixNano(), 36)
}
