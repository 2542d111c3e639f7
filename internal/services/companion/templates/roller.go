package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/dualidade/internal/character"
	"github.com/louisbranch/dualidade/internal/platform/icons"
)

// RollerPanel renders the Duality or standard roller with its last result
// and the shared history.
func RollerPanel(view PageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		roller := view.Roller
		h.raw(`<section id="roller" class="roller"`)
		h.attr("data-state", roller.State)
		h.raw(`><h2>`)
		h.text(T(view.Loc, TabLabelKey(view.Tab)))
		h.raw(`</h2>`)
		if view.Tab == TabStandard {
			writePoolForm(h, view)
			writePoolDice(h, roller)
			writeResult(h, view, roller.LastStandard)
		} else {
			writeDualityForm(h, view)
			writeDualityDice(h, view)
			writeResult(h, view, roller.LastDuality)
		}
		if h.err != nil {
			return h.err
		}
		if err := HistoryList(view).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</section>`)
		return h.err
	})
}

func writeRollButton(h *html, view PageView) {
	h.raw(`<button type="submit"`)
	if view.Roller.Rolling {
		h.raw(` disabled`)
	}
	h.raw(`>`)
	h.icon(icons.Roll)
	h.raw(`<span>`)
	if view.Roller.Rolling {
		h.text(T(view.Loc, "roller.rolling"))
	} else {
		h.text(T(view.Loc, "roller.action.roll"))
	}
	h.raw(`</span></button>`)
}

func writeModifierInput(h *html, view PageView) {
	h.raw(`<label>`)
	h.text(T(view.Loc, "roller.modifier"))
	h.raw(`<input type="number" name="modifier"`)
	h.attr("value", strconv.Itoa(view.Roller.Settings.Modifier))
	h.raw(`></label>`)
}

func writeDualityForm(h *html, view PageView) {
	h.raw(`<form class="roll-form" action="/roll/duality" method="post" hx-post="/roll/duality" hx-target="#main">`)
	writeModifierInput(h, view)
	h.raw(`<label>`)
	h.text(T(view.Loc, "sheet.heading"))
	h.raw(`<select name="attribute"><option value=""></option>`)
	for _, attr := range character.AllAttributes {
		h.raw(`<option`)
		h.attr("value", string(attr))
		h.raw(`>`)
		h.text(T(view.Loc, "sheet.attr."+string(attr)))
		h.raw(` (`)
		h.text(signed(view.Sheet.Attributes.Get(attr)))
		h.raw(`)</option>`)
	}
	for _, exp := range view.Sheet.Experiences {
		if exp.Name == "" {
			continue
		}
		h.raw(`<option`)
		h.attr("value", exp.Name)
		h.raw(`>`)
		h.text(exp.Name)
		h.raw(` (`)
		h.text(signed(character.ExperienceBonus(exp)))
		h.raw(`)</option>`)
	}
	h.raw(`</select></label>`)
	writeRollButton(h, view)
	h.raw(`</form>`)
}

func writeDualityDice(h *html, view PageView) {
	h.raw(`<div class="dice dice-duality"><figure class="die die-hope">`)
	h.icon(icons.Hope)
	h.raw(`<output id="die-hope">`)
	h.int(view.Roller.Display.Hope)
	h.raw(`</output><figcaption>`)
	h.text(T(view.Loc, "roller.die.hope"))
	h.raw(`</figcaption></figure><figure class="die die-fear">`)
	h.icon(icons.Fear)
	h.raw(`<output id="die-fear">`)
	h.int(view.Roller.Display.Fear)
	h.raw(`</output><figcaption>`)
	h.text(T(view.Loc, "roller.die.fear"))
	h.raw(`</figcaption></figure></div>`)
}

func writePoolForm(h *html, view PageView) {
	settings := view.Roller.Settings
	h.raw(`<form class="roll-form" action="/roll/pool" method="post" hx-post="/roll/pool" hx-target="#main"><label>`)
	h.text(T(view.Loc, "roller.faces"))
	h.raw(`<select name="faces">`)
	for _, faces := range view.Faces {
		h.raw(`<option`)
		h.attr("value", strconv.Itoa(faces))
		if faces == settings.DieType {
			h.raw(` selected`)
		}
		h.raw(`>d`)
		h.int(faces)
		h.raw(`</option>`)
	}
	h.raw(`</select></label><label>`)
	h.text(T(view.Loc, "roller.count"))
	writeStepButton(h, view, "dec", "-")
	h.raw(`<input type="number" name="count" min="1" max="20"`)
	h.attr("value", strconv.Itoa(settings.DiceCount))
	h.raw(`>`)
	writeStepButton(h, view, "inc", "+")
	h.raw(`</label><label>`)
	h.text(T(view.Loc, "roller.logic"))
	h.raw(`<select name="logic">`)
	for _, logic := range view.Logics {
		h.raw(`<option`)
		h.attr("value", logic)
		if logic == settings.RollLogic {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(T(view.Loc, "roller.logic."+logic))
		h.raw(`</option>`)
	}
	h.raw(`</select></label>`)
	writeModifierInput(h, view)
	writeRollButton(h, view)
	h.raw(`</form>`)
}

// writeStepButton saves the pool settings with the count moved by one.
func writeStepButton(h *html, view PageView, step, label string) {
	h.raw(`<button type="button" hx-put="/roll/settings" hx-include="closest form" hx-target="#main"`)
	h.attr("hx-vals", `{"step":"`+step+`"}`)
	h.attr("aria-label", T(view.Loc, "roller.count."+step))
	if view.Roller.Rolling {
		h.raw(` disabled`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</button>`)
}

func writePoolDice(h *html, roller RollerView) {
	var used []bool
	if roller.LastStandard != nil && !roller.Rolling {
		used = roller.LastStandard.Used
	}
	h.raw(`<div class="dice dice-pool">`)
	for i, value := range roller.Display.Rolls {
		h.raw(`<output class="die`)
		if i < len(used) && !used[i] {
			h.raw(` die-discarded`)
		}
		h.raw(`"`)
		h.attr("id", "die-"+strconv.Itoa(i))
		h.raw(`>`)
		h.int(value)
		h.raw(`</output>`)
	}
	h.raw(`</div>`)
}

var outcomeIcons = map[string]icons.ID{
	"hope":     icons.Hope,
	"fear":     icons.Fear,
	"critical": icons.Critical,
}

func writeResult(h *html, view PageView, last *RollView) {
	if last == nil || view.Roller.Rolling {
		return
	}
	h.raw(`<article class="result"`)
	if last.Outcome != "" {
		h.attr("data-outcome", last.Outcome)
	}
	h.raw(`><p class="total">`)
	h.text(T(view.Loc, "roller.total"))
	h.raw(` <strong>`)
	h.int(last.Total)
	h.raw(`</strong></p>`)
	if last.Outcome != "" {
		h.raw(`<p class="outcome">`)
		h.icon(outcomeIcons[last.Outcome])
		h.raw(`<strong>`)
		h.text(last.OutcomeLabel)
		h.raw(`</strong> `)
		h.text(last.OutcomeDetail)
		h.raw(`</p>`)
	}
	h.raw(`</article>`)
}

// HistoryList renders the recent rolls, newest first.
func HistoryList(view PageView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section id="history" class="history"><h3>`)
		h.icon(icons.History)
		h.text(T(view.Loc, "roller.history"))
		h.raw(`</h3>`)
		if len(view.Roller.History) == 0 {
			h.raw(`<p class="empty">`)
			h.text(T(view.Loc, "roller.history.empty"))
			h.raw(`</p></section>`)
			return h.err
		}
		h.raw(`<button type="button" hx-target="#main"`)
		h.attr("hx-post", "/roll/history/clear?tab="+string(view.Tab))
		h.raw(`>`)
		h.text(T(view.Loc, "core.action.clear"))
		h.raw(`</button><ol>`)
		for _, roll := range view.Roller.History {
			h.raw(`<li`)
			h.attr("data-mode", roll.Mode)
			h.raw(`><time>`)
			h.text(roll.Time)
			h.raw(`</time> `)
			if roll.Mode == string(TabDuality) {
				h.int(roll.HopeValue)
				h.raw(` / `)
				h.int(roll.FearValue)
			} else {
				h.int(roll.DiceCount)
				h.raw(`d`)
				h.int(roll.DieType)
				if roll.DiceCount > 1 {
					h.raw(` (`)
					h.text(roll.LogicLabel)
					h.raw(`)`)
				}
			}
			if roll.Modifier != 0 {
				h.raw(` `)
				h.text(signed(roll.Modifier))
			}
			h.raw(` = <strong>`)
			h.int(roll.Total)
			h.raw(`</strong>`)
			if roll.OutcomeLabel != "" {
				h.raw(` <span class="outcome">`)
				h.text(roll.OutcomeLabel)
				h.raw(`</span>`)
			}
			h.raw(`</li>`)
		}
		h.raw(`</ol></section>`)
		return h.err
	})
}
