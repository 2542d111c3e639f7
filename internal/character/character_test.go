package character

import (
	"errors"
	"fmt"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Level != 1 || c.Proficiency != 1 {
		t.Fatalf("level/proficiency = %d/%d, want 1/1", c.Level, c.Proficiency)
	}
	if c.HP != (Tracker{6, 6}) || c.Fatigue != (Tracker{6, 6}) || c.Hope != (Tracker{2, 6}) {
		t.Fatalf("unexpected trackers: %+v %+v %+v", c.HP, c.Fatigue, c.Hope)
	}
	if c.Experiences == nil || c.Abilities == nil || c.Inventory == nil {
		t.Fatal("expected empty, non-nil lists")
	}
}

func TestNormalize(t *testing.T) {
	c := Character{
		Level:   0,
		HP:      Tracker{Current: 9, Max: 7},
		Fatigue: Tracker{Current: -1, Max: 4},
		Armor:   Armor{Value: -2, Slots: Tracker{Current: 5, Max: 3}},
		Inventory: []InventoryItem{
			{Name: "Rope", Type: "junk"},
			{ID: "keep", Name: "Sword", Type: ItemWeaponMain},
		},
		Experiences: []Experience{{Name: "Sailor"}},
	}
	Normalize(&c)

	if c.Level != 1 || c.Proficiency != 1 {
		t.Fatalf("level/proficiency = %d/%d", c.Level, c.Proficiency)
	}
	if c.HP != (Tracker{7, 7}) {
		t.Fatalf("hp = %+v, want clamped to max", c.HP)
	}
	if c.Fatigue != (Tracker{0, 4}) {
		t.Fatalf("fatigue = %+v", c.Fatigue)
	}
	if c.Hope != (Tracker{2, 6}) {
		t.Fatalf("hope = %+v, want default", c.Hope)
	}
	if c.Armor.Value != 0 || c.Armor.Slots != (Tracker{3, 3}) {
		t.Fatalf("armor = %+v", c.Armor)
	}
	if c.Inventory[0].Type != ItemGeneral || c.Inventory[0].ID != "item-1" {
		t.Fatalf("item 0 = %+v", c.Inventory[0])
	}
	if c.Inventory[1].ID != "keep" {
		t.Fatalf("existing id replaced: %+v", c.Inventory[1])
	}
	if c.Experiences[0].ID != "experience-1" {
		t.Fatalf("experience id = %q", c.Experiences[0].ID)
	}
	if c.Abilities == nil {
		t.Fatal("expected abilities list")
	}
}

func TestNormalizeKeepsEmptyCurrent(t *testing.T) {
	c := Default()
	c.HP.Current = 0
	Normalize(&c)
	if c.HP != (Tracker{0, 6}) {
		t.Fatalf("hp = %+v, want 0/6", c.HP)
	}
}

func sequentialIDs() IDFunc {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("id-%d", n), nil
	}
}

func TestExperienceCRUD(t *testing.T) {
	c := Default()
	newID := sequentialIDs()

	first, err := c.AddExperience(Experience{Name: "Sailor", Value: "+2"}, newID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := c.AddExperience(Experience{Name: "Thief", Value: "+1"}, newID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID != "id-1" || len(c.Experiences) != 2 {
		t.Fatalf("unexpected state: %+v", c.Experiences)
	}

	if err := c.UpdateExperience(Experience{ID: "id-1", Name: "Captain", Value: "+3"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Experiences[0].Name != "Captain" {
		t.Fatalf("update not applied: %+v", c.Experiences[0])
	}

	if err := c.RemoveExperience("id-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(c.Experiences) != 1 || c.Experiences[0].ID != "id-2" {
		t.Fatalf("unexpected after remove: %+v", c.Experiences)
	}

	if err := c.RemoveExperience("id-1"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if err := c.UpdateExperience(Experience{}); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound for blank id, got %v", err)
	}
}

func TestAbilityCRUD(t *testing.T) {
	c := Default()
	a, err := c.AddAbility(Ability{Name: "Rune Ward", Domain: "Arcana"}, sequentialIDs())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	a.Cost = "1 Hope"
	if err := c.UpdateAbility(a); err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Abilities[0].Cost != "1 Hope" {
		t.Fatalf("update not applied: %+v", c.Abilities[0])
	}
	if err := c.RemoveAbility(a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(c.Abilities) != 0 {
		t.Fatalf("expected no abilities, got %d", len(c.Abilities))
	}
}

func TestInventoryCRUD(t *testing.T) {
	c := Default()
	newID := sequentialIDs()

	rope, err := c.AddItem(InventoryItem{Name: "Rope"}, newID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rope.Type != ItemGeneral {
		t.Fatalf("type = %q, want general", rope.Type)
	}
	sword, err := c.AddItem(InventoryItem{Name: "Longsword", Type: ItemWeaponMain, Damage: "d10+3"}, newID)
	if err != nil {
		t.Fatalf("add weapon: %v", err)
	}
	if _, err := c.AddItem(InventoryItem{Name: "Odd", Type: "relic"}, newID); !errors.Is(err, ErrInvalidItemType) {
		t.Fatalf("expected ErrInvalidItemType, got %v", err)
	}

	if got := c.ItemsOfType(ItemWeaponMain); len(got) != 1 || got[0].ID != sword.ID {
		t.Fatalf("weapons = %+v", got)
	}

	sword.Type = ItemWeaponSec
	if err := c.UpdateItem(sword); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !c.Inventory[1].Type.IsWeapon() || c.Inventory[1].Type != ItemWeaponSec {
		t.Fatalf("update not applied: %+v", c.Inventory[1])
	}
	sword.Type = "bogus"
	if err := c.UpdateItem(sword); !errors.Is(err, ErrInvalidItemType) {
		t.Fatalf("expected ErrInvalidItemType, got %v", err)
	}
	if err := c.RemoveItem(rope.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := c.RemoveItem("missing"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestAddEntryPropagatesIDError(t *testing.T) {
	c := Default()
	boom := errors.New("boom")
	_, err := c.AddExperience(Experience{}, func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected id error, got %v", err)
	}
	if _, err := c.AddAbility(Ability{}, nil); err == nil {
		t.Fatal("expected error for nil id generator")
	}
	if len(c.Experiences) != 0 || len(c.Abilities) != 0 {
		t.Fatal("failed add should not modify the sheet")
	}
}
