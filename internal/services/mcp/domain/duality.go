package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dualidade/internal/dice"
)

// DualityOutcomeInput represents the MCP tool input for deterministic outcomes.
type DualityOutcomeInput struct {
	Hope       int  `json:"hope" jsonschema:"hope die result"`
	Fear       int  `json:"fear" jsonschema:"fear die result"`
	Modifier   int  `json:"modifier,omitempty" jsonschema:"modifier applied to the roll, default 0"`
	Difficulty *int `json:"difficulty,omitempty" jsonschema:"optional difficulty target"`
}

// DualityOutcomeResult represents the MCP tool output for deterministic outcomes.
type DualityOutcomeResult struct {
	Hope            int    `json:"hope" jsonschema:"hope die result"`
	Fear            int    `json:"fear" jsonschema:"fear die result"`
	Modifier        int    `json:"modifier" jsonschema:"modifier applied to the total"`
	Difficulty      *int   `json:"difficulty,omitempty" jsonschema:"difficulty target, if provided"`
	Total           int    `json:"total" jsonschema:"sum of dice and modifier"`
	IsCrit          bool   `json:"is_crit" jsonschema:"whether the roll is a critical success"`
	MeetsDifficulty bool   `json:"meets_difficulty" jsonschema:"whether total meets difficulty"`
	Outcome         string `json:"outcome" jsonschema:"hope, fear or critical"`
}

// DualityProbabilityInput represents the MCP tool input for probabilities.
type DualityProbabilityInput struct {
	Modifier   int `json:"modifier,omitempty" jsonschema:"modifier applied to the roll, default 0"`
	Difficulty int `json:"difficulty" jsonschema:"difficulty target"`
}

// ProbabilityOutcomeCount represents a counted outcome for probabilities.
type ProbabilityOutcomeCount struct {
	Outcome string `json:"outcome" jsonschema:"outcome name"`
	Count   int    `json:"count" jsonschema:"number of outcomes"`
}

// DualityProbabilityResult represents the MCP tool output for probabilities.
type DualityProbabilityResult struct {
	TotalOutcomes int                       `json:"total_outcomes" jsonschema:"total number of outcomes"`
	CritCount     int                       `json:"crit_count" jsonschema:"number of critical outcomes"`
	SuccessCount  int                       `json:"success_count" jsonschema:"number of outcomes meeting difficulty, criticals included"`
	FailureCount  int                       `json:"failure_count" jsonschema:"number of outcomes below difficulty"`
	OutcomeCounts []ProbabilityOutcomeCount `json:"outcome_counts" jsonschema:"counts per outcome"`
}

// DualityOutcomeTool defines the MCP tool schema for deterministic outcomes.
func DualityOutcomeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "duality_outcome",
		Description: "Evaluates a duality outcome from known dice",
	}
}

// DualityProbabilityTool defines the MCP tool schema for probabilities.
func DualityProbabilityTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "duality_probability",
		Description: "Computes outcome probabilities across duality dice",
	}
}

// DualityOutcomeHandler evaluates known Hope and Fear values.
func DualityOutcomeHandler() mcp.ToolHandlerFor[DualityOutcomeInput, DualityOutcomeResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input DualityOutcomeInput) (*mcp.CallToolResult, DualityOutcomeResult, error) {
		if err := validateDualityDie("hope", input.Hope); err != nil {
			return nil, DualityOutcomeResult{}, err
		}
		if err := validateDualityDie("fear", input.Fear); err != nil {
			return nil, DualityOutcomeResult{}, err
		}
		eval := dice.EvaluateDual(input.Hope, input.Fear, input.Modifier)
		result := DualityOutcomeResult{
			Hope:       eval.Favorable,
			Fear:       eval.Adverse,
			Modifier:   eval.Modifier,
			Difficulty: input.Difficulty,
			Total:      eval.Total,
			IsCrit:     eval.IsCrit,
			Outcome:    eval.Outcome.String(),
		}
		if input.Difficulty != nil {
			result.MeetsDifficulty = meetsDifficulty(eval, *input.Difficulty)
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

// DualityProbabilityHandler enumerates all 144 Hope and Fear pairs.
func DualityProbabilityHandler() mcp.ToolHandlerFor[DualityProbabilityInput, DualityProbabilityResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input DualityProbabilityInput) (*mcp.CallToolResult, DualityProbabilityResult, error) {
		outcomes := []dice.Outcome{dice.OutcomeFavorable, dice.OutcomeAdverse, dice.OutcomeCritical}
		counts := make(map[dice.Outcome]int, len(outcomes))
		var result DualityProbabilityResult
		for hope := 1; hope <= dice.DualityFaces; hope++ {
			for fear := 1; fear <= dice.DualityFaces; fear++ {
				eval := dice.EvaluateDual(hope, fear, input.Modifier)
				result.TotalOutcomes++
				counts[eval.Outcome]++
				if eval.IsCrit {
					result.CritCount++
				}
				if meetsDifficulty(eval, input.Difficulty) {
					result.SuccessCount++
				} else {
					result.FailureCount++
				}
			}
		}
		for _, outcome := range outcomes {
			result.OutcomeCounts = append(result.OutcomeCounts, ProbabilityOutcomeCount{
				Outcome: outcome.String(),
				Count:   counts[outcome],
			})
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

// A critical always succeeds.
func meetsDifficulty(eval dice.DualEvaluation, difficulty int) bool {
	return eval.IsCrit || eval.Total >= difficulty
}

func validateDualityDie(name string, value int) error {
	if value < 1 || value > dice.DualityFaces {
		return fmt.Errorf("%s die must be between 1 and %d, got %d", name, dice.DualityFaces, value)
	}
	return nil
}
