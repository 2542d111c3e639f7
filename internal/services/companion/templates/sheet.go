package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/dualidade/internal/character"
	"github.com/louisbranch/dualidade/internal/platform/icons"
)

// SheetPanel renders the editable character sheet.
func SheetPanel(view PageView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		c := view.Sheet
		h.raw(`<section id="sheet" class="sheet"><h2>`)
		h.icon(icons.Character)
		h.text(T(view.Loc, "sheet.heading"))
		h.raw(`</h2><form class="sheet-form" hx-put="/character" hx-target="#main">`)
		textField(h, view, "sheet.name", "name", c.Name)
		textField(h, view, "sheet.class", "class", c.Class)
		textField(h, view, "sheet.subclass", "subclass", c.Subclass)
		textField(h, view, "sheet.ancestry", "ancestry1", c.Ancestry1)
		textField(h, view, "sheet.ancestry", "ancestry2", c.Ancestry2)
		numberField(h, view, "sheet.level", "level", c.Level)
		numberField(h, view, "sheet.proficiency", "proficiency", c.Proficiency)
		numberField(h, view, "sheet.evasion", "evasion", c.Evasion)

		h.raw(`<fieldset class="attributes">`)
		for _, attr := range character.AllAttributes {
			numberField(h, view, "sheet.attr."+string(attr), "attributes."+string(attr), c.Attributes.Get(attr))
		}
		h.raw(`</fieldset>`)

		trackerField(h, view, icons.HitPoints, "sheet.hp", "hp", c.HP)
		trackerField(h, view, icons.Stress, "sheet.fatigue", "fatigue", c.Fatigue)
		trackerField(h, view, icons.Hope, "sheet.hope", "hope", c.Hope)
		h.raw(`<fieldset class="armor"><legend>`)
		h.icon(icons.Armor)
		h.text(T(view.Loc, "sheet.armor"))
		h.raw(`</legend>`)
		numberInput(h, "armor.value", c.Armor.Value)
		numberInput(h, "armor.slots.current", c.Armor.Slots.Current)
		numberInput(h, "armor.slots.max", c.Armor.Slots.Max)
		h.raw(`</fieldset><fieldset class="thresholds"><legend>`)
		h.text(T(view.Loc, "sheet.thresholds"))
		h.raw(`</legend>`)
		numberInput(h, "thresholds.major", c.Thresholds.Major)
		numberInput(h, "thresholds.severe", c.Thresholds.Severe)
		h.raw(`</fieldset><button type="submit">`)
		h.text(T(view.Loc, "core.action.save"))
		h.raw(`</button></form>`)

		writeExperiences(h, view)

		h.raw(`<div class="transfer"><a href="/character/export" download hx-boost="false">`)
		h.icon(icons.Export)
		h.text(T(view.Loc, "sheet.export"))
		h.raw(`</a><form action="/character/import" method="post" enctype="multipart/form-data" hx-post="/character/import" hx-encoding="multipart/form-data" hx-target="#main"><label>`)
		h.icon(icons.Import)
		h.text(T(view.Loc, "sheet.import"))
		h.raw(`<input type="file" name="file" accept="application/json,.json"></label><button type="submit">`)
		h.text(T(view.Loc, "sheet.import"))
		h.raw(`</button></form></div></section>`)
		return h.err
	})
}

func textField(h *html, view PageView, labelKey, name, value string) {
	h.raw(`<label>`)
	h.text(T(view.Loc, labelKey))
	textInput(h, name, value)
	h.raw(`</label>`)
}

func textInput(h *html, name, value string) {
	h.raw(`<input type="text"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(`>`)
}

func numberField(h *html, view PageView, labelKey, name string, value int) {
	h.raw(`<label>`)
	h.text(T(view.Loc, labelKey))
	numberInput(h, name, value)
	h.raw(`</label>`)
}

func numberInput(h *html, name string, value int) {
	h.raw(`<input type="number"`)
	h.attr("name", name)
	h.attr("value", strconv.Itoa(value))
	h.raw(`>`)
}

func trackerField(h *html, view PageView, icon icons.ID, labelKey, name string, t character.Tracker) {
	h.raw(`<fieldset class="tracker"><legend>`)
	h.icon(icon)
	h.text(T(view.Loc, labelKey))
	h.raw(`</legend>`)
	numberInput(h, name+".current", t.Current)
	h.raw(` / `)
	numberInput(h, name+".max", t.Max)
	h.raw(`</fieldset>`)
}

func writeExperiences(h *html, view PageView) {
	h.raw(`<section class="experiences"><h3>`)
	h.icon(icons.Experience)
	h.text(T(view.Loc, "sheet.experiences"))
	h.raw(`</h3><ul>`)
	for _, exp := range view.Sheet.Experiences {
		path := "/character/experiences/" + exp.ID
		h.raw(`<li><form`)
		h.attr("hx-put", path)
		h.raw(` hx-target="#main">`)
		textInput(h, "name", exp.Name)
		textInput(h, "value", exp.Value)
		saveRemoveButtons(h, view, path)
		h.raw(`</form></li>`)
	}
	h.raw(`</ul><form hx-post="/character/experiences" hx-target="#main">`)
	textInput(h, "name", "")
	textInput(h, "value", "")
	addButton(h, view)
	h.raw(`</form></section>`)
}

func saveRemoveButtons(h *html, view PageView, path string) {
	h.raw(`<button type="submit">`)
	h.text(T(view.Loc, "core.action.save"))
	h.raw(`</button><button type="button"`)
	h.attr("hx-delete", path)
	h.raw(` hx-target="#main">`)
	h.text(T(view.Loc, "core.action.remove"))
	h.raw(`</button>`)
}

func addButton(h *html, view PageView) {
	h.raw(`<button type="submit">`)
	h.text(T(view.Loc, "core.action.add"))
	h.raw(`</button>`)
}

// AbilitiesPanel lists domain cards and features with inline editing.
func AbilitiesPanel(view PageView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section id="abilities" class="abilities"><h2>`)
		h.icon(icons.Ability)
		h.text(T(view.Loc, "sheet.abilities"))
		h.raw(`</h2><ul>`)
		for _, ability := range view.Sheet.Abilities {
			path := "/character/abilities/" + ability.ID
			h.raw(`<li><form`)
			h.attr("hx-put", path)
			h.raw(` hx-target="#main">`)
			abilityInputs(h, ability)
			saveRemoveButtons(h, view, path)
			h.raw(`</form></li>`)
		}
		h.raw(`</ul><form hx-post="/character/abilities" hx-target="#main">`)
		abilityInputs(h, character.Ability{})
		addButton(h, view)
		h.raw(`</form></section>`)
		return h.err
	})
}

func abilityInputs(h *html, a character.Ability) {
	textInput(h, "name", a.Name)
	textInput(h, "domain", a.Domain)
	textInput(h, "cost", a.Cost)
	textInput(h, "type", a.Type)
	textInput(h, "origin", a.Origin)
	textInput(h, "castingFocus", a.CastingFocus)
	h.raw(`<textarea name="description">`)
	h.text(a.Description)
	h.raw(`</textarea>`)
}

var itemIcons = map[character.ItemType]icons.ID{
	character.ItemWeaponMain: icons.Weapon,
	character.ItemWeaponSec:  icons.Weapon,
	character.ItemArmor:      icons.Armor,
	character.ItemGeneral:    icons.Item,
}

// InventoryPanel lists weapons, armor and general items.
func InventoryPanel(view PageView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section id="inventory" class="inventory"><h2>`)
		h.icon(icons.Item)
		h.text(T(view.Loc, "sheet.inventory"))
		h.raw(`</h2>`)
		for _, itemType := range character.ItemTypes {
			items := view.Sheet.ItemsOfType(itemType)
			h.raw(`<ul`)
			h.attr("data-type", string(itemType))
			h.raw(`>`)
			for _, item := range items {
				path := "/character/inventory/" + item.ID
				h.raw(`<li>`)
				h.icon(itemIcons[itemType])
				h.raw(`<form`)
				h.attr("hx-put", path)
				h.raw(` hx-target="#main">`)
				itemInputs(h, item)
				saveRemoveButtons(h, view, path)
				h.raw(`</form></li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`<form hx-post="/character/inventory" hx-target="#main">`)
		itemInputs(h, character.InventoryItem{Type: character.ItemGeneral})
		addButton(h, view)
		h.raw(`</form></section>`)
		return h.err
	})
}

func itemInputs(h *html, item character.InventoryItem) {
	h.raw(`<select name="type">`)
	for _, t := range character.ItemTypes {
		h.raw(`<option`)
		h.attr("value", string(t))
		if t == item.Type {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(string(t))
		h.raw(`</option>`)
	}
	h.raw(`</select>`)
	textInput(h, "name", item.Name)
	textInput(h, "description", item.Description)
	if item.Type.IsWeapon() {
		textInput(h, "damage", item.Damage)
		textInput(h, "attribute", item.Attribute)
		textInput(h, "ability", item.Ability)
	}
	if item.Type == character.ItemArmor {
		textInput(h, "evasion", item.Evasion)
		textInput(h, "threshold", item.Threshold)
	}
	textInput(h, "special", item.Special)
}
