package dnd5e

import "time"

// RollKind tags what a roll was for
type RollKind string

// Roll kinds
const (
	RollKindAbility     RollKind = "ability"
	RollKindSkill       RollKind = "skill"
	RollKindInitiative  RollKind = "initiative"
	RollKindSavingThrow RollKind = "saving-throw"
	RollKindAttack      RollKind = "attack"
	RollKindDamage      RollKind = "damage"
	RollKindCustom      RollKind = "custom"
)

// Critical marks a natural 20 or natural 1 on a single d20
type Critical string

// Critical results
const (
	CriticalSuccess Critical = "success"
	CriticalFailure Critical = "failure"
)

// RollStatus distinguishes a predicted roll from a confirmed one
type RollStatus string

// Roll statuses
const (
	RollStatusPending  RollStatus = "pending"
	RollStatusResolved RollStatus = "resolved"
)

// PoolMode describes how a multi-die pool was reduced to the kept dice
type PoolMode string

// Pool modes
const (
	PoolAdvantage    PoolMode = "advantage"
	PoolDisadvantage PoolMode = "disadvantage"
	PoolKeepHighest  PoolMode = "keep-highest"
	PoolKeepLowest   PoolMode = "keep-lowest"
)

// DiceRoll is an immutable record of one roll
type DiceRoll struct {
	ID          string     `json:"id"`
	Kind        RollKind   `json:"kind"`
	Label       string     `json:"label"`
	Notation    string     `json:"notation"`
	DiceResults []int      `json:"diceResults"`
	Modifier    int        `json:"modifier"`
	Total       int        `json:"total"`
	Critical    Critical   `json:"critical,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	Pool        *RollPool  `json:"pool,omitempty"`
	Status      RollStatus `json:"status"`
}

// RollPool keeps every die of a multi-die pool for display; only the kept
// dice (DiceResults) count toward the total.
type RollPool struct {
	Mode    PoolMode `json:"mode"`
	Rolled  []int    `json:"rolled"`
	Dropped []int    `json:"dropped"`
}

// PendingRoll is the intent half of a two-phase roll made with physical or
// animated dice. Predicted holds the pseudo-random results shown until the
// authoritative values arrive.
type PendingRoll struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Kind      RollKind  `json:"kind"`
	Label     string    `json:"label"`
	Notation  string    `json:"notation"`
	Modifier  int       `json:"modifier"`
	Predicted []int     `json:"predicted"`
	Mode      PoolMode  `json:"mode,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
