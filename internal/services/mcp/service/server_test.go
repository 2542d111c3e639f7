package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dualidade/internal/dice"
	"github.com/louisbranch/dualidade/internal/roller"
	"github.com/louisbranch/dualidade/internal/services/mcp/domain"
)

type stubRolls struct {
	history []dice.RollResult
}

func (s *stubRolls) Roll(_ context.Context, req roller.Request) (dice.RollResult, error) {
	result := dice.RollResult{
		ID:        "roll-1",
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Mode:      req.Mode,
		Modifier:  req.Modifier,
		Favorable: 9,
		Adverse:   4,
		Outcome:   dice.OutcomeFavorable,
	}
	result.Total = result.Favorable + result.Adverse + result.Modifier
	s.history = append([]dice.RollResult{result}, s.history...)
	return result, nil
}

func (s *stubRolls) History() []dice.RollResult { return s.history }

func (s *stubRolls) ClearHistory() { s.history = nil }

func TestNewServerRequiresRolls(t *testing.T) {
	if _, err := NewServer(Config{}, Dependencies{}); err == nil {
		t.Fatal("expected error without roll service")
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	err := Run(context.Background(), Config{Transport: "carrier-pigeon"}, Dependencies{Rolls: &stubRolls{}})
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Fatalf("err = %v, want unsupported transport", err)
	}
}

func TestServeWithTransportNilServer(t *testing.T) {
	var s *Server
	if err := s.serveWithTransport(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil server")
	}
}

func TestHandlerHealth(t *testing.T) {
	server, err := NewServer(Config{}, Dependencies{Rolls: &stubRolls{}})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "OK" {
		t.Fatalf("body = %q, want OK", body)
	}
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rolls := &stubRolls{}
	server, err := NewServer(Config{}, Dependencies{Rolls: rolls})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"duality_roll", "pool_roll", "roll_history", "clear_history", "duality_outcome", "duality_probability", "character_modifier", "character_sheet"} {
		if !names[want] {
			t.Errorf("missing tool %q", want)
		}
	}

	var outcome domain.DualityOutcomeResult
	callTool(t, ctx, session, "duality_outcome", map[string]any{"hope": 8, "fear": 3, "modifier": 2}, &outcome)
	if outcome.Total != 13 || outcome.Outcome != "hope" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	var rolled domain.RollResult
	callTool(t, ctx, session, "duality_roll", map[string]any{"modifier": 1}, &rolled)
	if rolled.Total != 14 || rolled.Hope != 9 || rolled.Fear != 4 || rolled.Mode != "duality" {
		t.Fatalf("unexpected roll: %+v", rolled)
	}

	var history domain.RollHistoryResult
	callTool(t, ctx, session, "roll_history", map[string]any{}, &history)
	if len(history.Rolls) != 1 || history.Rolls[0].ID != "roll-1" {
		t.Fatalf("unexpected history: %+v", history)
	}

	var sheet map[string]any
	callTool(t, ctx, session, "character_sheet", map[string]any{}, &sheet)
	if sheet["level"] != float64(1) {
		t.Fatalf("expected default sheet, got %v", sheet["level"])
	}

	var unmodified domain.DualityOutcomeResult
	callTool(t, ctx, session, "duality_outcome", map[string]any{"hope": 5, "fear": 5}, &unmodified)
	if unmodified.Modifier != 0 || unmodified.Total != 10 || unmodified.Outcome != "critical" {
		t.Fatalf("unexpected outcome without modifier: %+v", unmodified)
	}

	var plain domain.RollResult
	callTool(t, ctx, session, "duality_roll", map[string]any{}, &plain)
	if plain.Modifier != 0 || plain.Total != 13 {
		t.Fatalf("unexpected roll without modifier: %+v", plain)
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "duality_outcome",
		Arguments: map[string]any{"hope": 0, "fear": 3},
	})
	if err != nil {
		t.Fatalf("call duality_outcome: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for out of range die")
	}

	cancel()
	if err := <-serveErr; err != nil {
		t.Fatalf("serve: %v", err)
	}
}

func callTool(t *testing.T, ctx context.Context, session *mcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	if result.IsError {
		t.Fatalf("call %s returned tool error: %+v", name, result.Content)
	}
	data, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal %s result: %v", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode %s result: %v", name, err)
	}
}
