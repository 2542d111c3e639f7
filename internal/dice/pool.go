package dice

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Aggregation reduces a pool of die values to one number.
type Aggregation int

const (
	AggregationSum Aggregation = iota
	AggregationKeepHighest
	AggregationKeepLowest
)

func (a Aggregation) String() string {
	switch a {
	case AggregationSum:
		return "sum"
	case AggregationKeepHighest:
		return "keepHighest"
	case AggregationKeepLowest:
		return "keepLowest"
	default:
		return "unknown"
	}
}

const (
	// MinPoolSize and MaxPoolSize bound the number of dice in a pool.
	MinPoolSize = 1
	MaxPoolSize = 20
)

// StandardFaces lists the die types offered by the pool roller.
var StandardFaces = []int{4, 6, 8, 10, 12, 20}

// ErrInvalidDieFaces indicates a die type outside StandardFaces.
var ErrInvalidDieFaces = errors.New("die faces must be one of 4, 6, 8, 10, 12 or 20")

// ErrInvalidPoolSize indicates a pool size outside [MinPoolSize, MaxPoolSize].
var ErrInvalidPoolSize = errors.New("pool size must be between 1 and 20")

// ErrInvalidAggregation indicates an unknown aggregation policy.
var ErrInvalidAggregation = errors.New("aggregation must be sum, keepHighest or keepLowest")

// PoolConfig is the user-controlled configuration for a pool roll.
type PoolConfig struct {
	DieFaces    int
	PoolSize    int
	Aggregation Aggregation
	Modifier    int
}

// DefaultPoolConfig mirrors the roller's initial state: one d20, summed.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{DieFaces: 20, PoolSize: 1, Aggregation: AggregationSum}
}

// Validate rejects configurations the engine must never see.
func (c PoolConfig) Validate() error {
	if !slices.Contains(StandardFaces, c.DieFaces) {
		return fmt.Errorf("%w: got %d", ErrInvalidDieFaces, c.DieFaces)
	}
	if c.PoolSize < MinPoolSize || c.PoolSize > MaxPoolSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPoolSize, c.PoolSize)
	}
	switch c.Aggregation {
	case AggregationSum, AggregationKeepHighest, AggregationKeepLowest:
	default:
		return ErrInvalidAggregation
	}
	return nil
}

// ClampPoolSize keeps n inside [MinPoolSize, MaxPoolSize].
func ClampPoolSize(n int) int {
	return min(max(n, MinPoolSize), MaxPoolSize)
}

// ParseAggregation maps a label to an Aggregation. Both the camelCase wire
// labels and snake_case variants are accepted.
func ParseAggregation(value string) (Aggregation, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), "_", "")) {
	case "", "sum":
		return AggregationSum, nil
	case "keephighest", "highest":
		return AggregationKeepHighest, nil
	case "keeplowest", "lowest":
		return AggregationKeepLowest, nil
	default:
		return AggregationSum, fmt.Errorf("%w: %q", ErrInvalidAggregation, value)
	}
}

// Aggregate reduces rolls with the given policy. rolls must be non-empty for
// the keep policies.
func Aggregate(rolls []int, aggregation Aggregation) int {
	switch aggregation {
	case AggregationKeepHighest:
		return slices.Max(rolls)
	case AggregationKeepLowest:
		return slices.Min(rolls)
	default:
		total := 0
		for _, roll := range rolls {
			total += roll
		}
		return total
	}
}

// MarkUsed reports which rolls count toward the aggregate for display.
//
// Sum uses every die. For the keep policies every die equal to the kept value
// is marked, so ties show all qualifying dice rather than an arbitrary one.
func MarkUsed(rolls []int, aggregation Aggregation) []bool {
	used := make([]bool, len(rolls))
	if len(rolls) == 0 {
		return used
	}
	if aggregation != AggregationKeepHighest && aggregation != AggregationKeepLowest {
		for i := range used {
			used[i] = true
		}
		return used
	}
	kept := Aggregate(rolls, aggregation)
	for i, roll := range rolls {
		used[i] = roll == kept
	}
	return used
}
