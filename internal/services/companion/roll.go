package companion

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/dualidade/internal/dice"
	apperrors "github.com/louisbranch/dualidade/internal/platform/errors"
	"github.com/louisbranch/dualidade/internal/platform/timeouts"
	"github.com/louisbranch/dualidade/internal/roller"
	"github.com/louisbranch/dualidade/internal/services/companion/templates"
	"github.com/louisbranch/dualidade/internal/services/shared/domainerr"
	"github.com/louisbranch/dualidade/internal/services/shared/httpx"
)

type dualityRollInput struct {
	Modifier  int    `json:"modifier"`
	Attribute string `json:"attribute"`
}

func (in *dualityRollInput) bindForm(values url.Values) error {
	formString(values, "attribute", &in.Attribute)
	if err := formInt(values, "modifier", &in.Modifier); err != nil {
		return invalidModifier(err)
	}
	return nil
}

type poolRollInput struct {
	DieType   int    `json:"dieType"`
	DiceCount int    `json:"diceCount"`
	RollLogic string `json:"rollLogic"`
	Modifier  int    `json:"modifier"`
}

func (in *poolRollInput) bindForm(values url.Values) error {
	if err := formInt(values, "faces", &in.DieType); err != nil {
		return err
	}
	if err := formInt(values, "count", &in.DiceCount); err != nil {
		return err
	}
	formString(values, "logic", &in.RollLogic)
	if err := formInt(values, "modifier", &in.Modifier); err != nil {
		return invalidModifier(err)
	}
	return nil
}

// poolSettingsInput saves the pool form without rolling. Step moves the
// dice count by one and the count is clamped to the accepted range.
type poolSettingsInput struct {
	poolRollInput
	Step string `json:"step"`
}

func (in *poolSettingsInput) bindForm(values url.Values) error {
	formString(values, "step", &in.Step)
	return in.poolRollInput.bindForm(values)
}

func (in *poolSettingsInput) applyStep() {
	switch in.Step {
	case "inc":
		in.DiceCount++
	case "dec":
		in.DiceCount--
	}
	in.DiceCount = dice.ClampPoolSize(in.DiceCount)
}

func invalidModifier(cause error) error {
	return apperrors.Wrap(apperrors.CodeRollInvalidModifier, "modifier must be an integer", cause)
}

// poolConfig validates the input against the engine's accepted values.
func (in poolRollInput) poolConfig() (dice.PoolConfig, error) {
	aggregation, err := dice.ParseAggregation(in.RollLogic)
	if err != nil {
		return dice.PoolConfig{}, domainerr.Wrap(err, map[string]string{"Logic": in.RollLogic})
	}
	cfg := dice.PoolConfig{
		DieFaces:    in.DieType,
		PoolSize:    in.DiceCount,
		Aggregation: aggregation,
		Modifier:    in.Modifier,
	}
	if err := cfg.Validate(); err != nil {
		return dice.PoolConfig{}, domainerr.Wrap(err, map[string]string{
			"Faces": strconv.Itoa(in.DieType),
			"Size":  strconv.Itoa(in.DiceCount),
			"Logic": in.RollLogic,
		})
	}
	return cfg, nil
}

// rollResponse is returned by roll triggers. Result is set only when the
// caller waited for the animation to finish.
type rollResponse struct {
	Result *templates.RollView  `json:"result,omitempty"`
	State  templates.RollerView `json:"state"`
}

func (h *handlers) handleDualityRoll(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "companion.roll.duality")
	defer span.End()

	var in dualityRollInput
	if err := bind(w, r, &in, apperrors.CodeRollInvalidModifier); err != nil {
		h.fail(w, r, span, err)
		return
	}
	modifier := in.Modifier
	if name := strings.TrimSpace(in.Attribute); name != "" {
		bonus, err := h.sheets.modifier(ctx, name)
		if err != nil {
			h.fail(w, r, span, domainerr.Wrap(err, map[string]string{"Name": name}))
			return
		}
		modifier += bonus
	}
	span.SetAttributes(attribute.Int("roll.modifier", modifier), attribute.String("roll.attribute", in.Attribute))
	if _, err := h.controller.UpdateSettings(func(s *roller.Settings) {
		s.Modifier = in.Modifier
	}); err != nil {
		h.fail(w, r, span, domainerr.Wrap(err, nil))
		return
	}
	h.startRoll(ctx, w, r, span, roller.DualRequest(modifier), templates.TabDuality)
}

func (h *handlers) handlePoolRoll(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "companion.roll.pool")
	defer span.End()

	settings := h.controller.Settings()
	in := poolRollInput{
		DieType:   settings.Pool.DieFaces,
		DiceCount: settings.Pool.PoolSize,
		RollLogic: settings.Pool.Aggregation.String(),
		Modifier:  settings.Modifier,
	}
	if err := bind(w, r, &in, apperrors.CodeRollInvalidModifier); err != nil {
		h.fail(w, r, span, err)
		return
	}
	cfg, err := in.poolConfig()
	if err != nil {
		h.fail(w, r, span, err)
		return
	}
	span.SetAttributes(
		attribute.Int("roll.die_faces", cfg.DieFaces),
		attribute.Int("roll.pool_size", cfg.PoolSize),
		attribute.String("roll.aggregation", cfg.Aggregation.String()),
		attribute.Int("roll.modifier", cfg.Modifier),
	)
	if _, err := h.controller.UpdateSettings(func(s *roller.Settings) {
		s.Modifier = cfg.Modifier
		s.Pool = cfg
	}); err != nil {
		h.fail(w, r, span, domainerr.Wrap(err, nil))
		return
	}
	h.startRoll(ctx, w, r, span, roller.PoolRequest(cfg), templates.TabStandard)
}

// startRoll triggers req. With ?wait=true it blocks until the result is
// final; otherwise it answers 202 with the rolling state.
func (h *handlers) startRoll(ctx context.Context, w http.ResponseWriter, r *http.Request, span trace.Span, req roller.Request, tab templates.Tab) {
	loc := h.localizer(r)
	if wantsWait(r) && !httpx.IsHTMXRequest(r) {
		waitCtx, cancel := context.WithTimeout(ctx, timeouts.RollWait)
		defer cancel()
		result, err := h.controller.Roll(waitCtx, req)
		if err != nil {
			h.fail(w, r, span, domainerr.Wrap(err, nil))
			return
		}
		span.SetAttributes(attribute.String("roll.id", result.ID), attribute.Int("roll.total", result.Total))
		view := newRollView(loc, result)
		_ = httpx.WriteJSON(w, http.StatusOK, rollResponse{
			Result: &view,
			State:  newRollerView(loc, h.controller.Snapshot()),
		})
		return
	}
	if err := h.controller.Start(req); err != nil {
		h.fail(w, r, span, domainerr.Wrap(err, nil))
		return
	}
	if httpx.IsHTMXRequest(r) {
		h.renderTab(w, r, http.StatusAccepted, tab)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusAccepted, rollResponse{State: newRollerView(loc, h.controller.Snapshot())})
}

func (h *handlers) handlePoolSettings(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "companion.roll.settings")
	defer span.End()

	settings := h.controller.Settings()
	in := poolSettingsInput{poolRollInput: poolRollInput{
		DieType:   settings.Pool.DieFaces,
		DiceCount: settings.Pool.PoolSize,
		RollLogic: settings.Pool.Aggregation.String(),
		Modifier:  settings.Modifier,
	}}
	if err := bind(w, r, &in, apperrors.CodeRollInvalidModifier); err != nil {
		h.fail(w, r, span, err)
		return
	}
	in.applyStep()
	cfg, err := in.poolConfig()
	if err != nil {
		h.fail(w, r, span, err)
		return
	}
	if _, err := h.controller.UpdateSettings(func(s *roller.Settings) {
		s.Modifier = cfg.Modifier
		s.Pool = cfg
	}); err != nil {
		h.fail(w, r, span, domainerr.Wrap(err, nil))
		return
	}
	if httpx.IsHTMXRequest(r) {
		h.renderTab(w, r, http.StatusOK, templates.TabStandard)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newRollerView(h.localizer(r), h.controller.Snapshot()).Settings)
}

func (h *handlers) handleRollState(w http.ResponseWriter, r *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, newRollerView(h.localizer(r), h.controller.Snapshot()))
}

func (h *handlers) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "companion.roll.clear_history")
	defer span.End()
	h.controller.ClearHistory()
	if httpx.IsHTMXRequest(r) {
		h.renderTab(w, r, http.StatusOK, templates.ParseTab(r.URL.Query().Get("tab")))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
