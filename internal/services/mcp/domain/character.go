package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dualidade/internal/character"
	"github.com/louisbranch/dualidade/internal/storage"
)

// SheetReader loads the stored character sheet.
type SheetReader interface {
	GetCharacter(ctx context.Context, profileID string) (storage.CharacterRecord, error)
}

// CharacterModifierInput represents the MCP tool input for a modifier lookup.
type CharacterModifierInput struct {
	Name string `json:"name" jsonschema:"attribute or experience name, English or Portuguese; small typos are accepted"`
}

// CharacterModifierResult represents the MCP tool output for a modifier lookup.
type CharacterModifierResult struct {
	Name     string `json:"name" jsonschema:"name that was looked up"`
	Modifier int    `json:"modifier" jsonschema:"value to add to a roll"`
}

// CharacterSheetInput represents the MCP tool input for reading the sheet.
type CharacterSheetInput struct{}

// CharacterModifierTool defines the MCP tool schema for modifier lookups.
func CharacterModifierTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "character_modifier",
		Description: "Resolves an attribute or experience on the character sheet to a roll modifier",
	}
}

// CharacterSheetTool defines the MCP tool schema for reading the sheet.
func CharacterSheetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "character_sheet",
		Description: "Returns the stored character sheet",
	}
}

// CharacterModifierHandler resolves a modifier from the stored sheet.
func CharacterModifierHandler(sheets SheetReader, profileID string) mcp.ToolHandlerFor[CharacterModifierInput, CharacterModifierResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterModifierInput) (*mcp.CallToolResult, CharacterModifierResult, error) {
		modifier, err := attributeModifier(ctx, sheets, profileID, input.Name)
		if err != nil {
			return nil, CharacterModifierResult{}, err
		}
		return &mcp.CallToolResult{}, CharacterModifierResult{Name: input.Name, Modifier: modifier}, nil
	}
}

// CharacterSheetHandler returns the stored sheet, or the default one.
func CharacterSheetHandler(sheets SheetReader, profileID string) mcp.ToolHandlerFor[CharacterSheetInput, character.Character] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CharacterSheetInput) (*mcp.CallToolResult, character.Character, error) {
		c, err := loadSheet(ctx, sheets, profileID)
		if err != nil {
			return nil, character.Character{}, err
		}
		return &mcp.CallToolResult{}, c, nil
	}
}

func loadSheet(ctx context.Context, sheets SheetReader, profileID string) (character.Character, error) {
	if sheets == nil {
		return character.Default(), nil
	}
	record, err := sheets.GetCharacter(ctx, profileID)
	if errors.Is(err, storage.ErrNotFound) {
		return character.Default(), nil
	}
	if err != nil {
		return character.Character{}, fmt.Errorf("load character: %w", err)
	}
	return record.Character, nil
}

func attributeModifier(ctx context.Context, sheets SheetReader, profileID, name string) (int, error) {
	c, err := loadSheet(ctx, sheets, profileID)
	if err != nil {
		return 0, err
	}
	return c.AttributeModifier(name)
}
