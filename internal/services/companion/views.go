package companion

import (
	"github.com/louisbranch/dualidade/internal/dice"
	"github.com/louisbranch/dualidade/internal/roller"
	"github.com/louisbranch/dualidade/internal/services/companion/templates"
)

const historyTimeLayout = "15:04:05"

var aggregationLabels = []string{
	dice.AggregationSum.String(),
	dice.AggregationKeepHighest.String(),
	dice.AggregationKeepLowest.String(),
}

func newRollView(loc templates.Localizer, result dice.RollResult) templates.RollView {
	view := templates.RollView{
		ID:        result.ID,
		Timestamp: result.Timestamp.UnixMilli(),
		Time:      result.Timestamp.Format(historyTimeLayout),
		Mode:      result.Mode.String(),
		Modifier:  result.Modifier,
		Total:     result.Total,
	}
	switch result.Mode {
	case dice.ModeDual:
		view.HopeValue = result.Favorable
		view.FearValue = result.Adverse
		view.Outcome = result.Outcome.String()
		view.OutcomeLabel = templates.T(loc, "roller.outcome."+view.Outcome)
		view.OutcomeDetail = templates.T(loc, "roller.outcome."+view.Outcome+".detail")
	case dice.ModePool:
		view.DiceCount = result.PoolSize
		view.DieType = result.DieFaces
		view.Rolls = append([]int(nil), result.Rolls...)
		view.Used = append([]bool(nil), result.Used...)
		view.RollLogic = result.Aggregation.String()
		view.LogicLabel = templates.T(loc, "roller.logic."+view.RollLogic)
	}
	return view
}

func newRollViewPtr(loc templates.Localizer, result *dice.RollResult) *templates.RollView {
	if result == nil {
		return nil
	}
	view := newRollView(loc, *result)
	return &view
}

func newRollerView(loc templates.Localizer, snap roller.Snapshot) templates.RollerView {
	view := templates.RollerView{
		State:   snap.State.String(),
		Rolling: snap.IsRolling(),
		Display: newDisplayView(snap.Displayed),
		Settings: templates.SettingsView{
			Modifier:  snap.Settings.Modifier,
			DieType:   snap.Settings.Pool.DieFaces,
			DiceCount: snap.Settings.Pool.PoolSize,
			RollLogic: snap.Settings.Pool.Aggregation.String(),
		},
		Last:         newRollViewPtr(loc, snap.Last),
		LastDuality:  newRollViewPtr(loc, snap.LastDual),
		LastStandard: newRollViewPtr(loc, snap.LastPool),
		History:      make([]templates.RollView, 0, len(snap.History)),
	}
	if snap.IsRolling() {
		view.Mode = snap.Mode.String()
	}
	for _, result := range snap.History {
		view.History = append(view.History, newRollView(loc, result))
	}
	return view
}

func newDisplayView(d roller.Displayed) templates.DisplayView {
	rolls := append([]int(nil), d.Rolls...)
	if rolls == nil {
		rolls = []int{}
	}
	return templates.DisplayView{Hope: d.Favorable, Fear: d.Adverse, Rolls: rolls}
}
