package character

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultExportName is used for unnamed characters.
const DefaultExportName = "personagem"

const exportSuffix = "_daggerheart.json"

// Import reads a sheet from any JSON object. Known fields override the
// defaults one nested object at a time, the legacy "ancestry" field fills
// ancestry1 and the result is normalized. Fields with the wrong JSON type
// are coerced where gjson can, so "3" reads as 3.
func Import(data []byte) (Character, error) {
	if !gjson.ValidBytes(data) {
		return Character{}, fmt.Errorf("%w: malformed JSON", ErrInvalidImport)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Character{}, fmt.Errorf("%w: expected an object, got %s", ErrInvalidImport, doc.Type)
	}

	c := Default()
	readString(doc, "name", &c.Name)
	readString(doc, "photo", &c.Photo)
	readString(doc, "class", &c.Class)
	readString(doc, "subclass", &c.Subclass)
	readString(doc, "ancestry2", &c.Ancestry2)
	c.Ancestry1 = doc.Get("ancestry1").String()
	if c.Ancestry1 == "" {
		c.Ancestry1 = doc.Get("ancestry").String()
	}

	readInt(doc, "level", &c.Level)
	readInt(doc, "proficiency", &c.Proficiency)
	readInt(doc, "evasion", &c.Evasion)
	readTracker(doc.Get("hp"), &c.HP)
	readTracker(doc.Get("fatigue"), &c.Fatigue)
	readTracker(doc.Get("hope"), &c.Hope)
	readInt(doc, "armor.value", &c.Armor.Value)
	readTracker(doc.Get("armor.slots"), &c.Armor.Slots)
	readInt(doc, "thresholds.major", &c.Thresholds.Major)
	readInt(doc, "thresholds.severe", &c.Thresholds.Severe)
	for _, attr := range AllAttributes {
		if v := doc.Get("attributes." + string(attr)); present(v) {
			c.Attributes.Set(attr, int(v.Int()))
		}
	}

	eachObject(doc.Get("experiences"), func(v gjson.Result) {
		c.Experiences = append(c.Experiences, Experience{
			ID:    v.Get("id").String(),
			Name:  v.Get("name").String(),
			Value: v.Get("value").String(),
		})
	})
	eachObject(doc.Get("abilities"), func(v gjson.Result) {
		c.Abilities = append(c.Abilities, Ability{
			ID:           v.Get("id").String(),
			Name:         v.Get("name").String(),
			Domain:       v.Get("domain").String(),
			Cost:         v.Get("cost").String(),
			Description:  v.Get("description").String(),
			Type:         v.Get("type").String(),
			Origin:       v.Get("origin").String(),
			CastingFocus: v.Get("castingFocus").String(),
		})
	})
	eachObject(doc.Get("inventory"), func(v gjson.Result) {
		c.Inventory = append(c.Inventory, InventoryItem{
			ID:          v.Get("id").String(),
			Type:        ItemType(v.Get("type").String()),
			Name:        v.Get("name").String(),
			Description: v.Get("description").String(),
			Damage:      v.Get("damage").String(),
			Attribute:   v.Get("attribute").String(),
			Ability:     v.Get("ability").String(),
			Evasion:     v.Get("evasion").String(),
			Threshold:   v.Get("threshold").String(),
			Special:     v.Get("special").String(),
		})
	})

	Normalize(&c)
	return c, nil
}

// Export renders a normalized copy of c as indented JSON.
func Export(c Character) ([]byte, error) {
	out := c.Clone()
	Normalize(&out)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal character: %w", err)
	}
	return data, nil
}

// ExportFilename is the download name for c, e.g. "Rook_daggerheart.json".
func ExportFilename(c Character) string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = DefaultExportName
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	return name + exportSuffix
}

// Clone returns a deep copy of c.
func (c Character) Clone() Character {
	if c.Experiences != nil {
		c.Experiences = append([]Experience{}, c.Experiences...)
	}
	if c.Abilities != nil {
		c.Abilities = append([]Ability{}, c.Abilities...)
	}
	if c.Inventory != nil {
		c.Inventory = append([]InventoryItem{}, c.Inventory...)
	}
	return c
}

func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

func readString(doc gjson.Result, path string, dst *string) {
	if v := doc.Get(path); present(v) {
		*dst = v.String()
	}
}

func readInt(doc gjson.Result, path string, dst *int) {
	if v := doc.Get(path); present(v) {
		*dst = int(v.Int())
	}
}

func readTracker(v gjson.Result, dst *Tracker) {
	if !v.IsObject() {
		return
	}
	readInt(v, "current", &dst.Current)
	readInt(v, "max", &dst.Max)
}

func eachObject(list gjson.Result, fn func(gjson.Result)) {
	if !list.IsArray() {
		return
	}
	list.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			fn(v)
		}
		return true
	})
}
