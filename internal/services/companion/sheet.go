package companion

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/dualidade/internal/character"
	apperrors "github.com/louisbranch/dualidade/internal/platform/errors"
	"github.com/louisbranch/dualidade/internal/services/companion/templates"
	"github.com/louisbranch/dualidade/internal/services/shared/domainerr"
	"github.com/louisbranch/dualidade/internal/services/shared/httpx"
)

// maxImportBytes bounds uploaded character files.
const maxImportBytes = 2 << 20

// sheetForm applies the sheet form fields present in values.
type sheetForm struct {
	values url.Values
}

func (f *sheetForm) bindForm(values url.Values) error {
	f.values = values
	return nil
}

func (f *sheetForm) apply(c *character.Character) error {
	v := f.values
	formString(v, "name", &c.Name)
	formString(v, "class", &c.Class)
	formString(v, "subclass", &c.Subclass)
	formString(v, "ancestry1", &c.Ancestry1)
	formString(v, "ancestry2", &c.Ancestry2)
	ints := []struct {
		name string
		dst  *int
	}{
		{"level", &c.Level},
		{"proficiency", &c.Proficiency},
		{"evasion", &c.Evasion},
		{"hp.current", &c.HP.Current},
		{"hp.max", &c.HP.Max},
		{"fatigue.current", &c.Fatigue.Current},
		{"fatigue.max", &c.Fatigue.Max},
		{"hope.current", &c.Hope.Current},
		{"hope.max", &c.Hope.Max},
		{"armor.value", &c.Armor.Value},
		{"armor.slots.current", &c.Armor.Slots.Current},
		{"armor.slots.max", &c.Armor.Slots.Max},
		{"thresholds.major", &c.Thresholds.Major},
		{"thresholds.severe", &c.Thresholds.Severe},
	}
	for _, field := range ints {
		if err := formInt(v, field.name, field.dst); err != nil {
			return err
		}
	}
	for _, attr := range character.AllAttributes {
		value := c.Attributes.Get(attr)
		if err := formInt(v, "attributes."+string(attr), &value); err != nil {
			return err
		}
		c.Attributes.Set(attr, value)
	}
	return nil
}

func (h *handlers) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	c, err := h.sheets.get(r.Context())
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, c)
}

// handlePutCharacter replaces the sheet from a JSON document, or patches
// it from the sheet form.
func (h *handlers) handlePutCharacter(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "companion.character.put")
	defer span.End()

	var (
		c   character.Character
		err error
	)
	if isJSON(r) {
		var data []byte
		data, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
		if err != nil {
			err = apperrors.Wrap(apperrors.CodeCharacterInvalidImport, "read character body", err)
		} else {
			c, err = character.Import(data)
		}
		if err == nil {
			c, err = h.sheets.replace(ctx, c)
		}
	} else {
		form := &sheetForm{}
		if err = bind(w, r, form, apperrors.CodeCharacterInvalidField); err == nil {
			c, err = h.sheets.mutate(ctx, form.apply)
		}
	}
	if err != nil {
		h.fail(w, r, span, domainerr.Wrap(err, nil))
		return
	}
	h.respondSheet(w, r, http.StatusOK, templates.TabSheet, c)
}

func (h *handlers) respondSheet(w http.ResponseWriter, r *http.Request, status int, tab templates.Tab, payload any) {
	if httpx.IsHTMXRequest(r) {
		h.renderTab(w, r, status, tab)
		return
	}
	_ = httpx.WriteJSON(w, status, payload)
}

func (h *handlers) handleExportCharacter(w http.ResponseWriter, r *http.Request) {
	c, err := h.sheets.get(r.Context())
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	data, err := character.Export(c)
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": character.ExportFilename(c),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleImportCharacter accepts a multipart "file" field or a raw JSON body.
func (h *handlers) handleImportCharacter(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "companion.character.import")
	defer span.End()

	data, err := readImport(w, r)
	if err != nil {
		h.fail(w, r, span, err)
		return
	}
	span.SetAttributes(attribute.Int("import.bytes", len(data)))
	c, err := character.Import(data)
	if err == nil {
		c, err = h.sheets.replace(ctx, c)
	}
	if err != nil {
		h.fail(w, r, span, domainerr.Wrap(err, nil))
		return
	}
	h.respondSheet(w, r, http.StatusOK, templates.TabSheet, c)
}

func readImport(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeCharacterInvalidImport, "read import body", err)
		}
		return data, nil
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCharacterInvalidImport, "import file is required", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCharacterInvalidImport, "read import file", err)
	}
	return data, nil
}

type modifierResponse struct {
	Name     string `json:"name"`
	Modifier int    `json:"modifier"`
}

func (h *handlers) handleModifier(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	modifier, err := h.sheets.modifier(r.Context(), name)
	if err != nil {
		h.fail(w, r, nil, domainerr.Wrap(err, map[string]string{"Name": name}))
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, modifierResponse{Name: name, Modifier: modifier})
}

// Entry kinds addressed by /character/{kind}.
const (
	kindExperiences = "experiences"
	kindAbilities   = "abilities"
	kindInventory   = "inventory"
)

var errUnknownKind = errors.New("unknown character entry kind")

func tabForKind(kind string) templates.Tab {
	switch kind {
	case kindAbilities:
		return templates.TabAbilities
	case kindInventory:
		return templates.TabInventory
	default:
		return templates.TabSheet
	}
}

func unknownKind(kind string) error {
	return &apperrors.Error{
		Code:     apperrors.CodeCharacterInvalidEntryKind,
		Message:  fmt.Sprintf("unknown entry kind %q", kind),
		Metadata: map[string]string{"Kind": kind},
		Cause:    errUnknownKind,
	}
}

// handleAddEntry appends an experience, ability or item.
func (h *handlers) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	ctx, span := h.tracer.Start(r.Context(), "companion.character.add_entry")
	defer span.End()
	span.SetAttributes(attribute.String("entry.kind", kind))

	var created any
	var mutateErr error
	switch kind {
	case kindExperiences:
		var in experienceInput
		if err := bind(w, r, &in, apperrors.CodeCharacterInvalidField); err != nil {
			h.fail(w, r, span, err)
			return
		}
		_, mutateErr = h.sheets.mutate(ctx, func(c *character.Character) error {
			entry, err := c.AddExperience(character.Experience(in), h.sheets.newID)
			created = entry
			return err
		})
	case kindAbilities:
		var in abilityInput
		if err := bind(w, r, &in, apperrors.CodeCharacterInvalidField); err != nil {
			h.fail(w, r, span, err)
			return
		}
		_, mutateErr = h.sheets.mutate(ctx, func(c *character.Character) error {
			entry, err := c.AddAbility(character.Ability(in), h.sheets.newID)
			created = entry
			return err
		})
	case kindInventory:
		var in itemInput
		if err := bind(w, r, &in, apperrors.CodeCharacterInvalidField); err != nil {
			h.fail(w, r, span, err)
			return
		}
		_, mutateErr = h.sheets.mutate(ctx, func(c *character.Character) error {
			entry, err := c.AddItem(character.InventoryItem(in), h.sheets.newID)
			created = entry
			return err
		})
	default:
		h.fail(w, r, span, unknownKind(kind))
		return
	}
	if mutateErr != nil {
		h.fail(w, r, span, domainerr.Wrap(mutateErr, map[string]string{"Kind": kind}))
		return
	}
	h.respondSheet(w, r, http.StatusCreated, tabForKind(kind), created)
}

// handleUpdateEntry replaces the entry with the path id.
func (h *handlers) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	kind, id := r.PathValue("kind"), r.PathValue("id")
	ctx, span := h.tracer.Start(r.Context(), "companion.character.update_entry")
	defer span.End()
	span.SetAttributes(attribute.String("entry.kind", kind), attribute.String("entry.id", id))

	var updated any
	var mutateErr error
	switch kind {
	case kindExperiences:
		var in experienceInput
		if err := bind(w, r, &in, apperrors.CodeCharacterInvalidField); err != nil {
			h.fail(w, r, span, err)
			return
		}
		in.ID = id
		updated = character.Experience(in)
		_, mutateErr = h.sheets.mutate(ctx, func(c *character.Character) error {
			return c.UpdateExperience(character.Experience(in))
		})
	case kindAbilities:
		var in abilityInput
		if err := bind(w, r, &in, apperrors.CodeCharacterInvalidField); err != nil {
			h.fail(w, r, span, err)
			return
		}
		in.ID = id
		updated = character.Ability(in)
		_, mutateErr = h.sheets.mutate(ctx, func(c *character.Character) error {
			return c.UpdateAbility(character.Ability(in))
		})
	case kindInventory:
		var in itemInput
		if err := bind(w, r, &in, apperrors.CodeCharacterInvalidField); err != nil {
			h.fail(w, r, span, err)
			return
		}
		in.ID = id
		updated = character.InventoryItem(in)
		_, mutateErr = h.sheets.mutate(ctx, func(c *character.Character) error {
			return c.UpdateItem(character.InventoryItem(in))
		})
	default:
		h.fail(w, r, span, unknownKind(kind))
		return
	}
	if mutateErr != nil {
		h.fail(w, r, span, domainerr.Wrap(mutateErr, map[string]string{"ID": id, "Kind": kind}))
		return
	}
	h.respondSheet(w, r, http.StatusOK, tabForKind(kind), updated)
}

func (h *handlers) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	kind, id := r.PathValue("kind"), r.PathValue("id")
	ctx, span := h.tracer.Start(r.Context(), "companion.character.remove_entry")
	defer span.End()
	span.SetAttributes(attribute.String("entry.kind", kind), attribute.String("entry.id", id))

	var remove func(*character.Character) error
	switch kind {
	case kindExperiences:
		remove = func(c *character.Character) error { return c.RemoveExperience(id) }
	case kindAbilities:
		remove = func(c *character.Character) error { return c.RemoveAbility(id) }
	case kindInventory:
		remove = func(c *character.Character) error { return c.RemoveItem(id) }
	default:
		h.fail(w, r, span, unknownKind(kind))
		return
	}
	if _, err := h.sheets.mutate(ctx, remove); err != nil {
		h.fail(w, r, span, domainerr.Wrap(err, map[string]string{"ID": id, "Kind": kind}))
		return
	}
	if httpx.IsHTMXRequest(r) {
		h.renderTab(w, r, http.StatusOK, tabForKind(kind))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Entry inputs share their field sets with the character types so they
// convert directly.
type experienceInput character.Experience

func (in *experienceInput) bindForm(values url.Values) error {
	formString(values, "name", &in.Name)
	formString(values, "value", &in.Value)
	return nil
}

type abilityInput character.Ability

func (in *abilityInput) bindForm(values url.Values) error {
	formString(values, "name", &in.Name)
	formString(values, "domain", &in.Domain)
	formString(values, "cost", &in.Cost)
	formString(values, "description", &in.Description)
	formString(values, "type", &in.Type)
	formString(values, "origin", &in.Origin)
	formString(values, "castingFocus", &in.CastingFocus)
	return nil
}

type itemInput character.InventoryItem

func (in *itemInput) bindForm(values url.Values) error {
	var itemType string
	formString(values, "type", &itemType)
	in.Type = character.ItemType(itemType)
	formString(values, "name", &in.Name)
	formString(values, "description", &in.Description)
	formString(values, "damage", &in.Damage)
	formString(values, "attribute", &in.Attribute)
	formString(values, "ability", &in.Ability)
	formString(values, "evasion", &in.Evasion)
	formString(values, "threshold", &in.Threshold)
	formString(values, "special", &in.Special)
	return nil
}
