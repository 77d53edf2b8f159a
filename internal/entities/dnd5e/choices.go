package dnd5e

// ChoiceKind is the follow-up action a level transition can surface
type ChoiceKind string

// Choice kinds
const (
	ChoiceAbilityScoreImprovement ChoiceKind = "ability-score-improvement"
	ChoiceSubclass                ChoiceKind = "subclass"
	ChoiceCantrip                 ChoiceKind = "cantrip"
)

// PendingChoice is a required follow-up the player has not resolved yet
type PendingChoice struct {
	ID    string     `json:"id"`
	Kind  ChoiceKind `json:"kind"`
	Level int        `json:"level"`
	// Count is the number of cantrips to learn, or ability points to assign
	Count int `json:"count"`
}

// LevelRecord remembers what was granted at one level so leveling down can
// undo exactly that.
type LevelRecord struct {
	Level            int             `json:"level"`
	HitPointsGained  int             `json:"hitPointsGained"`
	Cantrips         []string        `json:"cantrips,omitempty"`
	AbilityIncreases map[Ability]int `json:"abilityIncreases,omitempty"`
	Subclass         string          `json:"subclass,omitempty"`
}

func (r LevelRecord) clone() LevelRecord {
	out := r
	out.Cantrips = cloneStrings(r.Cantrips)
	if r.AbilityIncreases != nil {
		out.AbilityIncreases = make(map[Ability]int, len(r.AbilityIncreases))
		for k, v := range r.AbilityIncreases {
			out.AbilityIncreases[k] = v
		}
	}
	return out
}
