package dnd5e

// ArmorCategory is the catalog armor category
type ArmorCategory string

// Armor categories
const (
	ArmorLight  ArmorCategory = "Light"
	ArmorMedium ArmorCategory = "Medium"
	ArmorHeavy  ArmorCategory = "Heavy"
	ArmorShield ArmorCategory = "Shield"
)

// DefaultMediumArmorDexCap applies when a medium armor entry has no max bonus
const DefaultMediumArmorDexCap = 2

// EquipmentCatalogEntry is static reference data for one equipment slug
type EquipmentCatalogEntry struct {
	Slug           string        `yaml:"slug" json:"slug"`
	Name           string        `yaml:"name" json:"name"`
	ArmorCategory  ArmorCategory `yaml:"armorCategory,omitempty" json:"armorCategory,omitempty"`
	BaseAC         int           `yaml:"baseAC,omitempty" json:"baseAC,omitempty"`
	MaxDexBonus    *int          `yaml:"maxDexBonus,omitempty" json:"maxDexBonus,omitempty"`
	WeaponCategory string        `yaml:"weaponCategory,omitempty" json:"weaponCategory,omitempty"`
	Damage         string        `yaml:"damage,omitempty" json:"damage,omitempty"`
}

// IsArmor reports whether the entry is body armor (not a shield)
func (e *EquipmentCatalogEntry) IsArmor() bool {
	switch e.ArmorCategory {
	case ArmorLight, ArmorMedium, ArmorHeavy:
		return true
	default:
		return false
	}
}
