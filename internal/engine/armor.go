package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// Armor class constants
const (
	UnarmoredBase = 10
	ShieldBonus   = 2
)

// ResolveArmorClass applies the armor table:
//
//	no armor  10 + dex
//	light     base + dex
//	medium    base + min(dex, max bonus)   negative dex still counts
//	heavy     base
//
// A shield adds +2 on top of any row.
func ResolveArmorClass(dexMod int, armor *dnd5e.EquipmentCatalogEntry, hasShield bool) int {
	var ac int

	switch {
	case armor == nil || !armor.IsArmor():
		ac = UnarmoredBase + dexMod
	case armor.ArmorCategory == dnd5e.ArmorLight:
		ac = armor.BaseAC + dexMod
	case armor.ArmorCategory == dnd5e.ArmorMedium:
		maxBonus := dnd5e.DefaultMediumArmorDexCap
		if armor.MaxDexBonus != nil {
			maxBonus = *armor.MaxDexBonus
		}
		ac = armor.BaseAC + min(dexMod, maxBonus)
	default:
		ac = armor.BaseAC
	}

	if hasShield {
		ac += ShieldBonus
	}
	return ac
}
