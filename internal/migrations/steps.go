// Package migrations upgrades persisted character documents. A store carries
// one integer version; every step above it runs over all documents, in
// order, before the store is read.
package migrations

import (
	"encoding/json"
	"strconv"

	"github.com/KirkDiggler/rpg-sheet/internal/catalog"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Document is one stored character as generic JSON
type Document map[string]any

// Step is one ordered, idempotent migration
type Step struct {
	Version int
	Name    string
	Apply   func(doc Document)
}

// Steps are the migrations in ascending version order
var Steps = []Step{
	{Version: 1, Name: "default-edition", Apply: defaultEdition},
	{Version: 2, Name: "race-to-species", Apply: raceToSpecies},
	{Version: 3, Name: "init-collections", Apply: initCollections},
	{Version: 4, Name: "backfill-hit-dice-and-slots", Apply: backfillPools},
	{Version: 5, Name: "drop-legacy-race", Apply: dropLegacyRace},
}

// CurrentVersion is the version a fully migrated store reports
var CurrentVersion = Steps[len(Steps)-1].Version

// Apply runs every step above storeVersion across all docs and returns the
// new store version. Each step finishes on every document before the next
// one starts.
func Apply(storeVersion int, docs []Document) (int, error) {
	if storeVersion < 0 {
		return storeVersion, errors.InvalidArgumentf("store version must not be negative, got %d", storeVersion)
	}
	if storeVersion > CurrentVersion {
		return storeVersion, errors.FailedPreconditionf("store version %d is newer than supported version %d",
			storeVersion, CurrentVersion)
	}

	version := storeVersion
	for _, step := range Steps {
		if step.Version <= version {
			continue
		}
		for _, doc := range docs {
			if doc != nil {
				step.Apply(doc)
			}
		}
		version = step.Version
	}
	return version, nil
}

// Pending lists the steps a store at storeVersion still needs
func Pending(storeVersion int) []Step {
	var pending []Step
	for _, step := range Steps {
		if step.Version > storeVersion {
			pending = append(pending, step)
		}
	}
	return pending
}

func defaultEdition(doc Document) {
	if s, _ := doc["edition"].(string); s == "" {
		doc["edition"] = dnd5e.DefaultEdition
	}
}

func raceToSpecies(doc Document) {
	race, _ := doc["race"].(string)
	if race == "" {
		return
	}
	if species, _ := doc["species"].(string); species == "" {
		doc["species"] = race
	}
}

func initCollections(doc Document) {
	if _, ok := doc["resources"].([]any); !ok {
		doc["resources"] = []any{}
	}
	if _, ok := doc["inventory"].(map[string]any); !ok {
		doc["inventory"] = map[string]any{}
	}
	if _, ok := doc["pendingChoices"].([]any); !ok {
		doc["pendingChoices"] = []any{}
	}

	wallet, ok := doc["currency"].(map[string]any)
	if !ok {
		wallet = map[string]any{}
		doc["currency"] = wallet
	}
	for _, coin := range []string{"cp", "sp", "ep", "gp", "pp"} {
		if _, ok := wallet[coin]; !ok {
			wallet[coin] = 0
		}
	}
}

func backfillPools(doc Document) {
	level, ok := intValue(doc["level"])
	if !ok || level < dnd5e.MinLevel {
		level = dnd5e.MinLevel
	}
	level = min(level, dnd5e.MaxLevel)

	if _, ok := doc["hitDice"].(map[string]any); !ok {
		doc["hitDice"] = map[string]any{
			"current": level,
			"max":     level,
			"die":     hitDieFor(doc["class"]),
		}
	}

	sc, ok := doc["spellcasting"].(map[string]any)
	if !ok {
		return
	}
	if _, ok := sc["usedSlots"].([]any); ok {
		return
	}
	slots, _ := sc["slots"].([]any)
	used := make([]any, len(slots))
	for i := range used {
		used[i] = 0
	}
	sc["usedSlots"] = used
}

func dropLegacyRace(doc Document) {
	if _, ok := doc["race"]; !ok {
		return
	}
	if species, _ := doc["species"].(string); species != "" {
		delete(doc, "race")
	}
}

// hitDieFor looks the class up in the embedded catalog; 0 lets the engine
// fill the die on the next stat refresh
func hitDieFor(class any) int {
	name, _ := class.(string)
	cat, err := catalog.Default()
	if err != nil {
		return 0
	}
	rules, err := cat.Class(dnd5e.Class(name))
	if err != nil {
		return 0
	}
	return rules.HitDie
}

// intValue reads a JSON number decoded as float64, json.Number or int
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case json.Number:
		i, err := strconv.Atoi(n.String())
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return i, true
	default:
		return 0, false
	}
}
