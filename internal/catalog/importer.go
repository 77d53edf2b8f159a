package catalog

//go:generate mockgen -destination=mock/mock_api_client.go -package=catalogmock github.com/KirkDiggler/rpg-sheet/internal/catalog APIClient

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"

	sheet "github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// DefaultAPIBaseURL is the public SRD API the importer reads from
const DefaultAPIBaseURL = "https://www.dnd5eapi.co/api/2014/"

// APIClient is the part of the dnd5e-api client the importer calls
type APIClient interface {
	GetEquipmentCategory(key string) (*entities.EquipmentCategory, error)
	GetEquipment(key string) (dnd5e.EquipmentInterface, error)
}

// ImporterConfig configures an Importer
type ImporterConfig struct {
	// Client overrides the HTTP-backed API client, mainly for tests
	Client      APIClient
	BaseURL     string
	HTTPTimeout time.Duration
	CacheTTL    time.Duration
}

// Validate fills defaults
func (cfg *ImporterConfig) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAPIBaseURL
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return nil
}

// Importer converts dnd5e-api equipment into catalog entries
type Importer struct {
	client APIClient
}

// NewImporter builds an importer, wrapping the API client in the library's cache
func NewImporter(cfg *ImporterConfig) (*Importer, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	if cfg.Client != nil {
		return &Importer{client: cfg.Client}, nil
	}

	base, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create D&D 5e API client")
	}

	return &Importer{client: dnd5e.NewCachedClient(base, cfg.CacheTTL)}, nil
}

// ImportCategory fetches every item of an equipment category ("armor", "weapon")
// and converts the ones the engine understands. Results are sorted by slug.
func (i *Importer) ImportCategory(ctx context.Context, category string) ([]*sheet.EquipmentCatalogEntry, error) {
	if category == "" {
		return nil, errors.InvalidArgument("category is required")
	}

	cat, err := i.client.GetEquipmentCategory(category)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get equipment category "+category)
	}
	if cat == nil || len(cat.Equipment) == 0 {
		return nil, errors.NotFoundf("equipment category %q is empty", category)
	}

	slog.InfoContext(ctx, "Importing equipment category", "category", category, "count", len(cat.Equipment))

	results := make([]*sheet.EquipmentCatalogEntry, len(cat.Equipment))
	errChan := make(chan error, len(cat.Equipment))
	var wg sync.WaitGroup

	for idx, ref := range cat.Equipment {
		if ref == nil {
			continue
		}
		wg.Add(1)
		go func(idx int, key string) {
			defer wg.Done()

			item, err := i.client.GetEquipment(key)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to get equipment details", "equipment", key, "error", err)
				errChan <- errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get equipment "+key)
				return
			}
			results[idx] = ConvertEquipment(item)
		}(idx, ref.Key)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	out := make([]*sheet.EquipmentCatalogEntry, 0, len(results))
	for _, entry := range results {
		if entry != nil {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Slug < out[b].Slug })

	return out, nil
}

// ConvertEquipment maps an API item to a catalog entry; nil for gear the
// engine has no rules for
func ConvertEquipment(item dnd5e.EquipmentInterface) *sheet.EquipmentCatalogEntry {
	switch eq := item.(type) {
	case *entities.Armor:
		entry := &sheet.EquipmentCatalogEntry{
			Slug:          eq.Key,
			Name:          eq.Name,
			ArmorCategory: sheet.ArmorCategory(eq.ArmorCategory),
		}
		if eq.ArmorClass != nil {
			entry.BaseAC = eq.ArmorClass.Base
		}
		// the API only flags whether dex applies; medium armor caps it
		if entry.ArmorCategory == sheet.ArmorMedium {
			maxDex := sheet.DefaultMediumArmorDexCap
			entry.MaxDexBonus = &maxDex
		}
		return entry

	case *entities.Weapon:
		entry := &sheet.EquipmentCatalogEntry{
			Slug:           eq.Key,
			Name:           eq.Name,
			WeaponCategory: eq.WeaponCategory,
		}
		if eq.Damage != nil {
			entry.Damage = eq.Damage.DamageDice
		}
		return entry

	default:
		return nil
	}
}
