package rpgtoolkit

import (
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// Event types published on the bus
const (
	EventLevelUp       = "sheet.character.level_up"
	EventLevelDown     = "sheet.character.level_down"
	EventRest          = "sheet.character.rest"
	EventResourceSpent = "sheet.resource.spent"
	EventChoiceSurface = "sheet.choice.surfaced"
	EventChoiceResolve = "sheet.choice.resolved"
)

// EventTypes lists every event type the sheet publishes
var EventTypes = []string{
	EventLevelUp,
	EventLevelDown,
	EventRest,
	EventResourceSpent,
	EventChoiceSurface,
	EventChoiceResolve,
}

// Context keys attached to published events
const (
	KeyFromLevel  = "from_level"
	KeyToLevel    = "to_level"
	KeyHitPoints  = "hit_point_delta"
	KeyTrigger    = "trigger"
	KeyResourceID = "resource_id"
	KeyUses       = "uses"
	KeyChoiceID   = "choice_id"
	KeyChoiceKind = "choice_kind"
)

// NewCharacterEvent builds a game event whose source and target are the
// character, with data copied into the event context
func NewCharacterEvent(eventType string, char *dnd5e.Character, data map[string]interface{}) events.Event {
	entity := WrapCharacter(char)
	event := events.NewGameEvent(eventType, entity, entity)
	for key, value := range data {
		event.Context().Set(key, value)
	}
	return event
}
