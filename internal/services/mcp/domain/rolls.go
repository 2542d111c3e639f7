package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dualidade/internal/dice"
	"github.com/louisbranch/dualidade/internal/platform/timeouts"
	"github.com/louisbranch/dualidade/internal/roller"
)

// RollService is the part of the roll controller the tools drive.
type RollService interface {
	Roll(ctx context.Context, req roller.Request) (dice.RollResult, error)
	History() []dice.RollResult
	ClearHistory()
}

// RollResult represents one completed roll in MCP output.
type RollResult struct {
	ID        string `json:"id" jsonschema:"roll identifier"`
	Timestamp string `json:"timestamp" jsonschema:"RFC3339 time the roll resolved"`
	Mode      string `json:"mode" jsonschema:"duality or standard"`
	Modifier  int    `json:"modifier" jsonschema:"modifier applied to the total"`
	Total     int    `json:"total" jsonschema:"final total including the modifier"`
	Hope      int    `json:"hope,omitempty" jsonschema:"hope die result"`
	Fear      int    `json:"fear,omitempty" jsonschema:"fear die result"`
	Outcome   string `json:"outcome,omitempty" jsonschema:"hope, fear or critical"`
	DieType   int    `json:"die_type,omitempty" jsonschema:"faces per die in a standard roll"`
	DiceCount int    `json:"dice_count,omitempty" jsonschema:"dice rolled in a standard roll"`
	Rolls     []int  `json:"rolls,omitempty" jsonschema:"individual die values"`
	Used      []bool `json:"used,omitempty" jsonschema:"which dice count toward the total"`
	RollLogic string `json:"roll_logic,omitempty" jsonschema:"sum, keepHighest or keepLowest"`
}

// DualityRollInput represents the MCP tool input for a Duality roll.
type DualityRollInput struct {
	Modifier  int    `json:"modifier,omitempty" jsonschema:"modifier applied to the roll, default 0"`
	Attribute string `json:"attribute,omitempty" jsonschema:"optional attribute or experience whose value is added to the modifier"`
}

// PoolRollInput represents the MCP tool input for a standard roll.
type PoolRollInput struct {
	DieType   int    `json:"die_type" jsonschema:"faces per die: 4, 6, 8, 10, 12 or 20"`
	DiceCount int    `json:"dice_count" jsonschema:"number of dice, 1 to 20"`
	RollLogic string `json:"roll_logic,omitempty" jsonschema:"sum (default), keepHighest or keepLowest"`
	Modifier  int    `json:"modifier,omitempty" jsonschema:"modifier applied to the total, default 0"`
}

// RollHistoryInput represents the MCP tool input for listing history.
type RollHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum rolls to return, newest first"`
}

// RollHistoryResult represents the MCP tool output for history.
type RollHistoryResult struct {
	Rolls []RollResult `json:"rolls" jsonschema:"rolls newest first"`
}

// ClearHistoryInput represents the MCP tool input for clearing history.
type ClearHistoryInput struct{}

// ClearHistoryResult represents the MCP tool output for clearing history.
type ClearHistoryResult struct {
	Cleared int `json:"cleared" jsonschema:"number of rolls removed"`
}

// DualityRollTool defines the MCP tool schema for Duality rolls.
func DualityRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "duality_roll",
		Description: "Rolls the Hope and Fear d12s and reports the outcome",
	}
}

// PoolRollTool defines the MCP tool schema for standard rolls.
func PoolRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "pool_roll",
		Description: "Rolls a pool of identical dice and sums or keeps one",
	}
}

// RollHistoryTool defines the MCP tool schema for reading history.
func RollHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_history",
		Description: "Lists recent rolls, newest first",
	}
}

// ClearHistoryTool defines the MCP tool schema for clearing history.
func ClearHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clear_history",
		Description: "Clears the roll history",
	}
}

// DualityRollHandler rolls Duality dice and waits for the animation to end.
func DualityRollHandler(rolls RollService, sheets SheetReader, profileID string) mcp.ToolHandlerFor[DualityRollInput, RollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DualityRollInput) (*mcp.CallToolResult, RollResult, error) {
		modifier := input.Modifier
		if name := strings.TrimSpace(input.Attribute); name != "" {
			bonus, err := attributeModifier(ctx, sheets, profileID, name)
			if err != nil {
				return nil, RollResult{}, err
			}
			modifier += bonus
		}
		result, err := roll(ctx, rolls, roller.DualRequest(modifier))
		if err != nil {
			return nil, RollResult{}, err
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

// PoolRollHandler validates the pool and rolls it.
func PoolRollHandler(rolls RollService) mcp.ToolHandlerFor[PoolRollInput, RollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PoolRollInput) (*mcp.CallToolResult, RollResult, error) {
		aggregation, err := dice.ParseAggregation(input.RollLogic)
		if err != nil {
			return nil, RollResult{}, err
		}
		cfg := dice.PoolConfig{
			DieFaces:    input.DieType,
			PoolSize:    input.DiceCount,
			Aggregation: aggregation,
			Modifier:    input.Modifier,
		}
		if err := cfg.Validate(); err != nil {
			return nil, RollResult{}, err
		}
		result, err := roll(ctx, rolls, roller.PoolRequest(cfg))
		if err != nil {
			return nil, RollResult{}, err
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

// RollHistoryHandler lists history newest first.
func RollHistoryHandler(rolls RollService) mcp.ToolHandlerFor[RollHistoryInput, RollHistoryResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RollHistoryInput) (*mcp.CallToolResult, RollHistoryResult, error) {
		if input.Limit < 0 {
			return nil, RollHistoryResult{}, errors.New("limit must not be negative")
		}
		history := rolls.History()
		if input.Limit > 0 && input.Limit < len(history) {
			history = history[:input.Limit]
		}
		out := RollHistoryResult{Rolls: make([]RollResult, 0, len(history))}
		for _, result := range history {
			out.Rolls = append(out.Rolls, rollResultFrom(result))
		}
		return &mcp.CallToolResult{}, out, nil
	}
}

// ClearHistoryHandler empties the history and reports how many rolls it held.
func ClearHistoryHandler(rolls RollService) mcp.ToolHandlerFor[ClearHistoryInput, ClearHistoryResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ClearHistoryInput) (*mcp.CallToolResult, ClearHistoryResult, error) {
		cleared := len(rolls.History())
		rolls.ClearHistory()
		return &mcp.CallToolResult{}, ClearHistoryResult{Cleared: cleared}, nil
	}
}

func roll(ctx context.Context, rolls RollService, req roller.Request) (RollResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeouts.RollWait)
	defer cancel()
	result, err := rolls.Roll(runCtx, req)
	if err != nil {
		return RollResult{}, fmt.Errorf("%s roll failed: %w", req.Mode, err)
	}
	return rollResultFrom(result), nil
}

func rollResultFrom(result dice.RollResult) RollResult {
	out := RollResult{
		ID:        result.ID,
		Timestamp: result.Timestamp.UTC().Format(time.RFC3339),
		Mode:      result.Mode.String(),
		Modifier:  result.Modifier,
		Total:     result.Total,
	}
	switch result.Mode {
	case dice.ModeDual:
		out.Hope = result.Favorable
		out.Fear = result.Adverse
		out.Outcome = result.Outcome.String()
	case dice.ModePool:
		out.DieType = result.DieFaces
		out.DiceCount = result.PoolSize
		out.Rolls = append([]int(nil), result.Rolls...)
		out.Used = append([]bool(nil), result.Used...)
		out.RollLogic = result.Aggregation.String()
	}
	return out
}
