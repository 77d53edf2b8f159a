// Package catalog holds the read-only reference data the rules engine looks
// up: equipment entries and per-class progression rules. Both load once from
// YAML embedded in the binary.
package catalog

import (
	"embed"
	"log/slog"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/validate"
)

//go:embed data/equipment.yaml data/classes.yaml
var dataFS embed.FS

// Catalog is an immutable lookup over equipment and class rules
type Catalog struct {
	equipment map[string]*dnd5e.EquipmentCatalogEntry
	classes   map[dnd5e.Class]*ClassRules
}

type equipmentDocument struct {
	Armor   []*dnd5e.EquipmentCatalogEntry `yaml:"armor"`
	Weapons []*dnd5e.EquipmentCatalogEntry `yaml:"weapons"`
}

type classesDocument struct {
	Classes []*ClassRules `yaml:"classes"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog built from the embedded data, loading it on first use
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load()
	})
	return defaultCat, defaultErr
}

// Load parses the embedded data files
func Load() (*Catalog, error) {
	equipmentYAML, err := dataFS.ReadFile("data/equipment.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedded equipment data")
	}
	classesYAML, err := dataFS.ReadFile("data/classes.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedded class data")
	}
	return Parse(equipmentYAML, classesYAML)
}

// Parse builds a catalog from equipment and class YAML documents
func Parse(equipmentYAML, classesYAML []byte) (*Catalog, error) {
	var eqDoc equipmentDocument
	if err := yaml.Unmarshal(equipmentYAML, &eqDoc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse equipment catalog")
	}
	var clsDoc classesDocument
	if err := yaml.Unmarshal(classesYAML, &clsDoc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse class catalog")
	}

	cat := &Catalog{
		equipment: make(map[string]*dnd5e.EquipmentCatalogEntry),
		classes:   make(map[dnd5e.Class]*ClassRules),
	}

	for _, entry := range append(eqDoc.Armor, eqDoc.Weapons...) {
		if entry == nil || entry.Slug == "" {
			return nil, errors.InvalidArgument("equipment entry missing slug")
		}
		if _, dup := cat.equipment[entry.Slug]; dup {
			return nil, errors.InvalidArgumentf("duplicate equipment slug %q", entry.Slug)
		}
		cat.equipment[entry.Slug] = entry
	}

	for _, rules := range clsDoc.Classes {
		if rules == nil {
			continue
		}
		if err := validate.Struct(rules); err != nil {
			return nil, errors.Wrapf(err, "invalid rules for class %q", rules.Class)
		}
		cat.classes[rules.Class] = rules
	}

	slog.Debug("Catalog loaded",
		"equipment", len(cat.equipment),
		"classes", len(cat.classes))

	return cat, nil
}

// Equipment looks up an equipment entry by slug
func (c *Catalog) Equipment(slug string) (*dnd5e.EquipmentCatalogEntry, bool) {
	entry, ok := c.equipment[slug]
	return entry, ok
}

// Armor looks up a body-armor entry; shields and weapons are not armor
func (c *Catalog) Armor(slug string) (*dnd5e.EquipmentCatalogEntry, bool) {
	entry, ok := c.equipment[slug]
	if !ok || !entry.IsArmor() {
		return nil, false
	}
	return entry, true
}

// Class returns the rules for a class
func (c *Catalog) Class(class dnd5e.Class) (*ClassRules, error) {
	rules, ok := c.classes[class]
	if !ok {
		return nil, errors.NotFoundf("class %q not in catalog", class)
	}
	return rules, nil
}

// Classes lists every class in the catalog, sorted
func (c *Catalog) Classes() []dnd5e.Class {
	out := make([]dnd5e.Class, 0, len(c.classes))
	for class := range c.classes {
		out = append(out, class)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EquipmentSlugs lists every equipment slug, sorted
func (c *Catalog) EquipmentSlugs() []string {
	out := make([]string, 0, len(c.equipment))
	for slug := range c.equipment {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// WithEquipment returns a copy of the catalog with entries added or replaced
func (c *Catalog) WithEquipment(entries []*dnd5e.EquipmentCatalogEntry) *Catalog {
	out := &Catalog{
		equipment: make(map[string]*dnd5e.EquipmentCatalogEntry, len(c.equipment)+len(entries)),
		classes:   c.classes,
	}
	for slug, entry := range c.equipment {
		out.equipment[slug] = entry
	}
	for _, entry := range entries {
		if entry != nil && entry.Slug != "" {
			out.equipment[entry.Slug] = entry
		}
	}
	return out
}

// MarshalEquipment renders entries in the equipment.yaml layout
func MarshalEquipment(entries []*dnd5e.EquipmentCatalogEntry) ([]byte, error) {
	var doc equipmentDocument
	for _, entry := range entries {
		if entry.ArmorCategory != "" {
			doc.Armor = append(doc.Armor, entry)
		} else {
			doc.Weapons = append(doc.Weapons, entry)
		}
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode equipment catalog")
	}
	return data, nil
}

// ParseEquipment reads an equipment.yaml document into entries
func ParseEquipment(data []byte) ([]*dnd5e.EquipmentCatalogEntry, error) {
	var doc equipmentDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse equipment catalog")
	}
	return append(doc.Armor, doc.Weapons...), nil
}
