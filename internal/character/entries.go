package character

import "fmt"

// IDFunc generates ids for new list entries.
type IDFunc func() (string, error)

// AddExperience appends e with a fresh id and returns the stored entry.
func (c *Character) AddExperience(e Experience, newID IDFunc) (Experience, error) {
	id, err := entryID(newID)
	if err != nil {
		return Experience{}, err
	}
	e.ID = id
	c.Experiences = append(c.Experiences, e)
	return e, nil
}

// UpdateExperience replaces the experience with e.ID.
func (c *Character) UpdateExperience(e Experience) error {
	i, err := indexOf(c.Experiences, e.ID, func(x Experience) string { return x.ID })
	if err != nil {
		return err
	}
	c.Experiences[i] = e
	return nil
}

// RemoveExperience deletes the experience with id.
func (c *Character) RemoveExperience(id string) error {
	i, err := indexOf(c.Experiences, id, func(x Experience) string { return x.ID })
	if err != nil {
		return err
	}
	c.Experiences = append(c.Experiences[:i], c.Experiences[i+1:]...)
	return nil
}

// AddAbility appends a with a fresh id and returns the stored entry.
func (c *Character) AddAbility(a Ability, newID IDFunc) (Ability, error) {
	id, err := entryID(newID)
	if err != nil {
		return Ability{}, err
	}
	a.ID = id
	c.Abilities = append(c.Abilities, a)
	return a, nil
}

// UpdateAbility replaces the ability with a.ID.
func (c *Character) UpdateAbility(a Ability) error {
	i, err := indexOf(c.Abilities, a.ID, func(x Ability) string { return x.ID })
	if err != nil {
		return err
	}
	c.Abilities[i] = a
	return nil
}

// RemoveAbility deletes the ability with id.
func (c *Character) RemoveAbility(id string) error {
	i, err := indexOf(c.Abilities, id, func(x Ability) string { return x.ID })
	if err != nil {
		return err
	}
	c.Abilities = append(c.Abilities[:i], c.Abilities[i+1:]...)
	return nil
}

// AddItem appends item with a fresh id. An empty type defaults to general.
func (c *Character) AddItem(item InventoryItem, newID IDFunc) (InventoryItem, error) {
	if item.Type == "" {
		item.Type = ItemGeneral
	}
	if !item.Type.Valid() {
		return InventoryItem{}, fmt.Errorf("%w: %q", ErrInvalidItemType, item.Type)
	}
	id, err := entryID(newID)
	if err != nil {
		return InventoryItem{}, err
	}
	item.ID = id
	c.Inventory = append(c.Inventory, item)
	return item, nil
}

// UpdateItem replaces the inventory item with item.ID.
func (c *Character) UpdateItem(item InventoryItem) error {
	if !item.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidItemType, item.Type)
	}
	i, err := indexOf(c.Inventory, item.ID, func(x InventoryItem) string { return x.ID })
	if err != nil {
		return err
	}
	c.Inventory[i] = item
	return nil
}

// RemoveItem deletes the inventory item with id.
func (c *Character) RemoveItem(id string) error {
	i, err := indexOf(c.Inventory, id, func(x InventoryItem) string { return x.ID })
	if err != nil {
		return err
	}
	c.Inventory = append(c.Inventory[:i], c.Inventory[i+1:]...)
	return nil
}

// ItemsOfType returns inventory entries of type t in sheet order.
func (c *Character) ItemsOfType(t ItemType) []InventoryItem {
	var out []InventoryItem
	for _, item := range c.Inventory {
		if item.Type == t {
			out = append(out, item)
		}
	}
	return out
}

func entryID(newID IDFunc) (string, error) {
	if newID == nil {
		return "", fmt.Errorf("id generator is required")
	}
	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("generate entry id: %w", err)
	}
	return id, nil
}

func indexOf[T any](items []T, id string, key func(T) string) (int, error) {
	if id != "" {
		for i, item := range items {
			if key(item) == id {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}
