package dnd5e

// RechargeType is the rest event that refills a limited-use resource
type RechargeType string

// Recharge types
const (
	RechargeNone      RechargeType = "none"
	RechargeShortRest RechargeType = "short-rest"
	RechargeLongRest  RechargeType = "long-rest"
)

// ResourceTracker is one limited-use ability bound to a character.
// MaxUses is recomputed from class and level on every load; CurrentUses is
// the persisted value and always stays within [0, MaxUses].
type ResourceTracker struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	MaxUses      int          `json:"maxUses"`
	CurrentUses  int          `json:"currentUses"`
	RechargeType RechargeType `json:"rechargeType"`
}
