package migrations

//go:generate mockgen -destination=mock/mock_store.go -package=migrationsmock github.com/KirkDiggler/rpg-sheet/internal/migrations Store

import (
	"context"
	"log/slog"
	"sort"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/metrics"
)

// Store is the raw document view of character storage the runner needs
type Store interface {
	// GetSchemaVersion returns 0 for a store that never recorded one
	GetSchemaVersion(ctx context.Context) (int, error)
	SetSchemaVersion(ctx context.Context, version int) error
	// ListRaw returns every stored character document keyed by id
	ListRaw(ctx context.Context) (map[string][]byte, error)
	PutRaw(ctx context.Context, id string, data []byte) error
}

// RunnerConfig holds the runner's dependencies
type RunnerConfig struct {
	Store Store
}

// Validate ensures all required dependencies are provided
func (c *RunnerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Store == nil {
		vb.RequiredField("Store")
	}

	return vb.Build()
}

// Runner migrates a store to CurrentVersion
type Runner struct {
	store Store
}

// RunResult reports what a run did
type RunResult struct {
	FromVersion int
	ToVersion   int
	Migrated    int
	// Skipped holds ids of documents that could not be decoded
	Skipped []string
}

// NewRunner creates a migration runner
func NewRunner(cfg *RunnerConfig) (*Runner, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Runner{store: cfg.Store}, nil
}

// Run applies every pending step to all stored documents and records the new
// version. A failed write stops the run with the version unchanged, so the
// next run repeats the idempotent steps.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	from, err := r.store.GetSchemaVersion(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read schema version")
	}

	result := &RunResult{FromVersion: from, ToVersion: from}
	pending := Pending(from)
	if len(pending) == 0 {
		slog.DebugContext(ctx, "Schema is current", "version", from)
		return result, nil
	}

	raw, err := r.store.ListRaw(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list character documents")
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docIDs := make([]string, 0, len(ids))
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		doc, err := DecodeDocument(raw[id])
		if err != nil {
			slog.WarnContext(ctx, "Skipping undecodable character document",
				"character_id", id,
				"error", err.Error())
			result.Skipped = append(result.Skipped, id)
			continue
		}
		docIDs = append(docIDs, id)
		docs = append(docs, doc)
	}

	to, err := Apply(from, docs)
	if err != nil {
		return nil, err
	}

	for i, doc := range docs {
		data, err := EncodeDocument(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode character %s", docIDs[i])
		}
		if err := r.store.PutRaw(ctx, docIDs[i], data); err != nil {
			return nil, errors.Wrapf(err, "failed to write character %s", docIDs[i])
		}
		result.Migrated++
	}

	if err := r.store.SetSchemaVersion(ctx, to); err != nil {
		return nil, errors.Wrap(err, "failed to record schema version")
	}
	for _, step := range pending {
		metrics.RecordMigration(step.Version)
	}

	result.ToVersion = to
	slog.InfoContext(ctx, "Migrated character store",
		"from_version", from,
		"to_version", to,
		"migrated", result.Migrated,
		"skipped", len(result.Skipped))

	return result, nil
}
