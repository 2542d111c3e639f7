// Package character models a Daggerheart character sheet: defaults,
// normalization, list entries, attribute lookup and JSON transfer.
package character

import (
	"errors"
	"fmt"
)

var (
	// ErrEntryNotFound indicates a list entry id is not on the sheet.
	ErrEntryNotFound = errors.New("character entry not found")
	// ErrInvalidItemType indicates an inventory item type outside ItemTypes.
	ErrInvalidItemType = errors.New("invalid inventory item type")
	// ErrUnknownAttribute indicates no attribute or experience matched a name.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrInvalidImport indicates import data is not a JSON object.
	ErrInvalidImport = errors.New("invalid character import")
)

// Tracker is a current/max resource such as hit points.
type Tracker struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Armor holds the armor score and its slot tracker.
type Armor struct {
	Value int     `json:"value"`
	Slots Tracker `json:"slots"`
}

// Thresholds are the major and severe damage thresholds.
type Thresholds struct {
	Major  int `json:"major"`
	Severe int `json:"severe"`
}

// Attributes are the six trait scores.
type Attributes struct {
	Agility   int `json:"agility"`
	Strength  int `json:"strength"`
	Finesse   int `json:"finesse"`
	Instinct  int `json:"instinct"`
	Presence  int `json:"presence"`
	Knowledge int `json:"knowledge"`
}

// Experience is a named bonus such as "Royal Guard +2".
type Experience struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Ability is a domain card or class feature.
type Ability struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Domain       string `json:"domain"`
	Cost         string `json:"cost"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Origin       string `json:"origin"`
	CastingFocus string `json:"castingFocus"`
}

// ItemType classifies inventory entries.
type ItemType string

const (
	ItemWeaponMain ItemType = "weapon_main"
	ItemWeaponSec  ItemType = "weapon_sec"
	ItemArmor      ItemType = "armor"
	ItemGeneral    ItemType = "general"
)

// ItemTypes lists every valid inventory item type.
var ItemTypes = []ItemType{ItemWeaponMain, ItemWeaponSec, ItemArmor, ItemGeneral}

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemWeaponMain, ItemWeaponSec, ItemArmor, ItemGeneral:
		return true
	}
	return false
}

// IsWeapon reports whether t is a primary or secondary weapon.
func (t ItemType) IsWeapon() bool {
	return t == ItemWeaponMain || t == ItemWeaponSec
}

// InventoryItem is a carried item. Weapon fields apply to weapon types and
// armor fields to ItemArmor.
type InventoryItem struct {
	ID          string   `json:"id"`
	Type        ItemType `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`

	Damage    string `json:"damage"`
	Attribute string `json:"attribute"`
	Ability   string `json:"ability"`

	Evasion   string `json:"evasion"`
	Threshold string `json:"threshold"`
	Special   string `json:"special"`
}

// Character is a full sheet.
type Character struct {
	Name        string          `json:"name"`
	Photo       string          `json:"photo,omitempty"`
	Ancestry1   string          `json:"ancestry1"`
	Ancestry2   string          `json:"ancestry2"`
	Class       string          `json:"class"`
	Subclass    string          `json:"subclass"`
	Level       int             `json:"level"`
	Proficiency int             `json:"proficiency"`
	Evasion     int             `json:"evasion"`
	HP          Tracker         `json:"hp"`
	Fatigue     Tracker         `json:"fatigue"`
	Hope        Tracker         `json:"hope"`
	Armor       Armor           `json:"armor"`
	Thresholds  Thresholds      `json:"thresholds"`
	Attributes  Attributes      `json:"attributes"`
	Experiences []Experience    `json:"experiences"`
	Abilities   []Ability       `json:"abilities"`
	Inventory   []InventoryItem `json:"inventory"`
}

// Default returns a blank level 1 sheet.
func Default() Character {
	return Character{
		Level:       1,
		Proficiency: 1,
		HP:          Tracker{Current: 6, Max: 6},
		Fatigue:     Tracker{Current: 6, Max: 6},
		Hope:        Tracker{Current: 2, Max: 6},
		Experiences: []Experience{},
		Abilities:   []Ability{},
		Inventory:   []InventoryItem{},
	}
}

// Normalize repairs a sheet in place: missing level, proficiency and
// trackers take default values, currents are clamped to their max, nil
// lists become empty, unknown item types become general and entries
// without ids get positional ones.
func Normalize(c *Character) {
	def := Default()
	if c.Level < 1 {
		c.Level = def.Level
	}
	if c.Proficiency < 1 {
		c.Proficiency = def.Proficiency
	}
	normalizeTracker(&c.HP, def.HP)
	normalizeTracker(&c.Fatigue, def.Fatigue)
	normalizeTracker(&c.Hope, def.Hope)
	c.Armor.Value = max(c.Armor.Value, 0)
	c.Armor.Slots.Max = max(c.Armor.Slots.Max, 0)
	c.Armor.Slots.Current = min(max(c.Armor.Slots.Current, 0), c.Armor.Slots.Max)

	if c.Experiences == nil {
		c.Experiences = []Experience{}
	}
	if c.Abilities == nil {
		c.Abilities = []Ability{}
	}
	if c.Inventory == nil {
		c.Inventory = []InventoryItem{}
	}
	for i := range c.Experiences {
		if c.Experiences[i].ID == "" {
			c.Experiences[i].ID = fmt.Sprintf("experience-%d", i+1)
		}
	}
	for i := range c.Abilities {
		if c.Abilities[i].ID == "" {
			c.Abilities[i].ID = fmt.Sprintf("ability-%d", i+1)
		}
	}
	for i := range c.Inventory {
		if c.Inventory[i].ID == "" {
			c.Inventory[i].ID = fmt.Sprintf("item-%d", i+1)
		}
		if !c.Inventory[i].Type.Valid() {
			c.Inventory[i].Type = ItemGeneral
		}
	}
}

func normalizeTracker(t *Tracker, def Tracker) {
	if t.Max <= 0 && t.Current <= 0 {
		*t = def
		return
	}
	t.Max = max(t.Max, 0)
	t.Current = min(max(t.Current, 0), t.Max)
}
