package character

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Attribute names a trait.
type Attribute string

const (
	Agility   Attribute = "agility"
	Strength  Attribute = "strength"
	Finesse   Attribute = "finesse"
	Instinct  Attribute = "instinct"
	Presence  Attribute = "presence"
	Knowledge Attribute = "knowledge"
)

// AllAttributes lists the traits in sheet order.
var AllAttributes = []Attribute{Agility, Strength, Finesse, Instinct, Presence, Knowledge}

// maxNameDistance is the largest edit distance accepted for a fuzzy match.
const maxNameDistance = 2

// Aliases accepted besides the English attribute name, already folded.
var attributeAliases = map[string]Attribute{
	"agilidade":    Agility,
	"forca":        Strength,
	"acuidade":     Finesse,
	"instinto":     Instinct,
	"presenca":     Presence,
	"conhecimento": Knowledge,
}

// Get returns the score for a.
func (a Attributes) Get(attr Attribute) int {
	switch attr {
	case Agility:
		return a.Agility
	case Strength:
		return a.Strength
	case Finesse:
		return a.Finesse
	case Instinct:
		return a.Instinct
	case Presence:
		return a.Presence
	case Knowledge:
		return a.Knowledge
	}
	return 0
}

// Set assigns the score for attr. Unknown attributes are ignored.
func (a *Attributes) Set(attr Attribute, value int) {
	switch attr {
	case Agility:
		a.Agility = value
	case Strength:
		a.Strength = value
	case Finesse:
		a.Finesse = value
	case Instinct:
		a.Instinct = value
	case Presence:
		a.Presence = value
	case Knowledge:
		a.Knowledge = value
	}
}

// ParseAttribute resolves name to an attribute. Matching ignores case and
// accents, accepts Portuguese names and tolerates small typos.
func ParseAttribute(name string) (Attribute, bool) {
	key := fold(name)
	if key == "" {
		return "", false
	}
	candidates := make(map[string]Attribute, len(AllAttributes)+len(attributeAliases))
	for _, attr := range AllAttributes {
		candidates[string(attr)] = attr
	}
	for alias, attr := range attributeAliases {
		candidates[alias] = attr
	}
	if attr, ok := candidates[key]; ok {
		return attr, true
	}
	best, bestDist := Attribute(""), maxNameDistance+1
	for cand, attr := range candidates {
		if d := levenshtein.ComputeDistance(key, cand); d < bestDist || (d == bestDist && attr < best) {
			best, bestDist = attr, d
		}
	}
	if bestDist > maxNameDistance {
		return "", false
	}
	return best, true
}

// AttributeModifier returns the roll modifier for name: an attribute score
// or an experience value. Exact names win over fuzzy matches and
// attributes win over experiences at the same match quality.
func (c Character) AttributeModifier(name string) (int, error) {
	key := fold(name)
	for _, attr := range AllAttributes {
		if key == string(attr) {
			return c.Attributes.Get(attr), nil
		}
	}
	if attr, ok := attributeAliases[key]; ok {
		return c.Attributes.Get(attr), nil
	}
	for _, e := range c.Experiences {
		if fold(e.Name) == key {
			return ExperienceBonus(e), nil
		}
	}
	if attr, ok := ParseAttribute(name); ok {
		return c.Attributes.Get(attr), nil
	}
	for _, e := range c.Experiences {
		if n := fold(e.Name); n != "" && levenshtein.ComputeDistance(key, n) <= maxNameDistance {
			return ExperienceBonus(e), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

// ExperienceBonus parses an experience value such as "+2". Unparseable
// values count as zero.
func ExperienceBonus(e Experience) int {
	v := strings.TrimPrefix(strings.TrimSpace(e.Value), "+")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// fold lowercases s and strips combining marks. Chained transformers keep
// state, so each call builds its own.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = strings.TrimSpace(s)
	}
	return strings.ToLower(folded)
}
