package icons

// ID identifies an icon used by the companion pages.
type ID string

const (
	Roll       ID = "roll"
	Hope       ID = "hope"
	Fear       ID = "fear"
	Critical   ID = "critical"
	Character  ID = "character"
	HitPoints  ID = "hp"
	Stress     ID = "stress"
	Armor      ID = "armor"
	Experience ID = "experience"
	Ability    ID = "ability"
	Weapon     ID = "weapon"
	Item       ID = "item"
	Note       ID = "note"
	History    ID = "history"
	Export     ID = "export"
	Import     ID = "import"
)

const lucideSymbolPrefix = "lucide-"

var lucideIconNames = map[ID]string{
	Roll:       "dices",
	Hope:       "sparkles",
	Fear:       "ghost",
	Critical:   "crown",
	Character:  "square-user",
	HitPoints:  "heart",
	Stress:     "heart-crack",
	Armor:      "shield",
	Experience: "book-heart",
	Ability:    "wallet-cards",
	Weapon:     "sword",
	Item:       "backpack",
	Note:       "scroll",
	History:    "history",
	Export:     "download",
	Import:     "upload",
}

// All returns every known icon ID.
func All() []ID {
	return []ID{Roll, Hope, Fear, Critical, Character, HitPoints, Stress, Armor, Experience, Ability, Weapon, Item, Note, History, Export, Import}
}

// LucideName returns the Lucide icon name for id.
func LucideName(id ID) (string, bool) {
	name, ok := lucideIconNames[id]
	return name, ok
}

// LucideNameOrDefault provides a stable Lucide name even when id is unknown.
func LucideNameOrDefault(id ID) string {
	if name, ok := lucideIconNames[id]; ok {
		return name
	}
	return "sparkle"
}

// LucideSymbolID returns the sprite symbol ID for a Lucide icon name.
func LucideSymbolID(name string) string {
	return lucideSymbolPrefix + name
}
