package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dualidade/internal/services/mcp/domain"
)

func registerRollTools(server *mcp.Server, deps Dependencies, profileID string) {
	mcp.AddTool(server, domain.DualityRollTool(), domain.DualityRollHandler(deps.Rolls, deps.Sheets, profileID))
	mcp.AddTool(server, domain.PoolRollTool(), domain.PoolRollHandler(deps.Rolls))
	mcp.AddTool(server, domain.RollHistoryTool(), domain.RollHistoryHandler(deps.Rolls))
	mcp.AddTool(server, domain.ClearHistoryTool(), domain.ClearHistoryHandler(deps.Rolls))
}

func registerDualityTools(server *mcp.Server) {
	mcp.AddTool(server, domain.DualityOutcomeTool(), domain.DualityOutcomeHandler())
	mcp.AddTool(server, domain.DualityProbabilityTool(), domain.DualityProbabilityHandler())
}

func registerCharacterTools(server *mcp.Server, deps Dependencies, profileID string) {
	mcp.AddTool(server, domain.CharacterModifierTool(), domain.CharacterModifierHandler(deps.Sheets, profileID))
	mcp.AddTool(server, domain.CharacterSheetTool(), domain.CharacterSheetHandler(deps.Sheets, profileID))
}
