// Package dnd5e contains the character sheet model the rules engine operates on.
package dnd5e

// Character is one persisted character sheet.
// NOTE: This is a data-only struct. Derived numbers (ArmorClass, Initiative,
// skill values) are caches written by the engine; the engine never reads them.
type Character struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Species    string `json:"species"`
	LegacyRace string `json:"race,omitempty"`
	Class      Class  `json:"class" validate:"required"`
	Subclass   string `json:"subclass,omitempty"`
	Background string `json:"background,omitempty"`
	Alignment  string `json:"alignment,omitempty"`
	Edition    string `json:"edition" validate:"edition"`

	Level            int           `json:"level" validate:"min=1,max=20"`
	AbilityScores    AbilityScores `json:"abilityScores"`
	ProficiencyBonus int           `json:"proficiencyBonus"`
	HitPoints        HitPoints     `json:"hitPoints"`
	HitDice          HitDice       `json:"hitDice"`
	ArmorClass       int           `json:"armorClass"`
	Initiative       int           `json:"initiative"`
	Speed            int           `json:"speed"`

	Skills       map[Skill]SkillEntry `json:"skills"`
	SavingThrows map[Ability]bool     `json:"savingThrows"`
	Spellcasting *Spellcasting        `json:"spellcasting,omitempty"`

	EquippedArmor   string                    `json:"equippedArmor,omitempty"`
	EquippedWeapons []string                  `json:"equippedWeapons,omitempty" validate:"max=2"`
	Inventory       map[string]InventoryEntry `json:"inventory"`
	Currency        Wallet                    `json:"currency"`

	Resources      []ResourceTracker `json:"resources"`
	PendingChoices []PendingChoice   `json:"pendingChoices"`
	LevelHistory   []LevelRecord     `json:"levelHistory,omitempty"`

	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// AbilityScores holds the six raw scores
type AbilityScores struct {
	Strength     int `json:"str" validate:"min=1,max=30"`
	Dexterity    int `json:"dex" validate:"min=1,max=30"`
	Constitution int `json:"con" validate:"min=1,max=30"`
	Intelligence int `json:"int" validate:"min=1,max=30"`
	Wisdom       int `json:"wis" validate:"min=1,max=30"`
	Charisma     int `json:"cha" validate:"min=1,max=30"`
}

// Get returns the score for an ability, 0 for an unknown ability
func (a AbilityScores) Get(ability Ability) int {
	switch ability {
	case AbilityStrength:
		return a.Strength
	case AbilityDexterity:
		return a.Dexterity
	case AbilityConstitution:
		return a.Constitution
	case AbilityIntelligence:
		return a.Intelligence
	case AbilityWisdom:
		return a.Wisdom
	case AbilityCharisma:
		return a.Charisma
	default:
		return 0
	}
}

// Set writes the score for an ability; unknown abilities are ignored
func (a *AbilityScores) Set(ability Ability, score int) {
	switch ability {
	case AbilityStrength:
		a.Strength = score
	case AbilityDexterity:
		a.Dexterity = score
	case AbilityConstitution:
		a.Constitution = score
	case AbilityIntelligence:
		a.Intelligence = score
	case AbilityWisdom:
		a.Wisdom = score
	case AbilityCharisma:
		a.Charisma = score
	}
}

// HitPoints tracks current, maximum and temporary hit points
type HitPoints struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Temporary int `json:"temporary"`
}

// HitDice is the pool of hit dice spent during short rests
type HitDice struct {
	Current int `json:"current" validate:"gte=0,ltefield=Max"`
	Max     int `json:"max"`
	Die     int `json:"die"`
}

// SkillEntry is one row of the skill table
type SkillEntry struct {
	Proficient bool `json:"proficient"`
	Expertise  bool `json:"expertise"`
	Value      int  `json:"value"`
}

// Spellcasting is present only for characters that cast spells.
// Slots and UsedSlots are indexed by spell level minus one.
type Spellcasting struct {
	Ability   Ability  `json:"ability"`
	Cantrips  []string `json:"cantrips"`
	Spells    []string `json:"spells"`
	Slots     []int    `json:"slots"`
	UsedSlots []int    `json:"usedSlots"`
	PactMagic bool     `json:"pactMagic,omitempty"`
}

// InventoryEntry is the quantity held of one catalog slug
type InventoryEntry struct {
	Quantity int  `json:"quantity"`
	Equipped bool `json:"equipped"`
}

// Wallet holds coins by denomination
type Wallet struct {
	Copper   int `json:"cp"`
	Silver   int `json:"sp"`
	Electrum int `json:"ep"`
	Gold     int `json:"gp"`
	Platinum int `json:"pp"`
}

// HasShield reports whether a shield is among the equipped weapon slots
func (c *Character) HasShield() bool {
	for _, slug := range c.EquippedWeapons {
		if slug == ShieldSlug {
			return true
		}
	}
	return false
}

// FindResource returns the index of the tracker with the given id
func (c *Character) FindResource(id string) (int, bool) {
	for i := range c.Resources {
		if c.Resources[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindPendingChoice returns the index of the pending choice with the given id
func (c *Character) FindPendingChoice(id string) (int, bool) {
	for i := range c.PendingChoices {
		if c.PendingChoices[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// LevelRecordFor returns the history entry for the given level, creating it if needed
func (c *Character) LevelRecordFor(level int) *LevelRecord {
	for i := range c.LevelHistory {
		if c.LevelHistory[i].Level == level {
			return &c.LevelHistory[i]
		}
	}
	c.LevelHistory = append(c.LevelHistory, LevelRecord{Level: level})
	return &c.LevelHistory[len(c.LevelHistory)-1]
}

// Clone returns a deep copy so mutations never alias the caller's record
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c

	if c.Skills != nil {
		out.Skills = make(map[Skill]SkillEntry, len(c.Skills))
		for k, v := range c.Skills {
			out.Skills[k] = v
		}
	}
	if c.SavingThrows != nil {
		out.SavingThrows = make(map[Ability]bool, len(c.SavingThrows))
		for k, v := range c.SavingThrows {
			out.SavingThrows[k] = v
		}
	}
	if c.Spellcasting != nil {
		sc := *c.Spellcasting
		sc.Cantrips = cloneStrings(c.Spellcasting.Cantrips)
		sc.Spells = cloneStrings(c.Spellcasting.Spells)
		sc.Slots = cloneInts(c.Spellcasting.Slots)
		sc.UsedSlots = cloneInts(c.Spellcasting.UsedSlots)
		out.Spellcasting = &sc
	}
	out.EquippedWeapons = cloneStrings(c.EquippedWeapons)
	if c.Inventory != nil {
		out.Inventory = make(map[string]InventoryEntry, len(c.Inventory))
		for k, v := range c.Inventory {
			out.Inventory[k] = v
		}
	}
	if c.Resources != nil {
		out.Resources = make([]ResourceTracker, len(c.Resources))
		copy(out.Resources, c.Resources)
	}
	if c.PendingChoices != nil {
		out.PendingChoices = make([]PendingChoice, len(c.PendingChoices))
		copy(out.PendingChoices, c.PendingChoices)
	}
	if c.LevelHistory != nil {
		out.LevelHistory = make([]LevelRecord, len(c.LevelHistory))
		for i, rec := range c.LevelHistory {
			out.LevelHistory[i] = rec.clone()
		}
	}

	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	out := make([]int, len(in))
	copy(out, in)
	return out
}
